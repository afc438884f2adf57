package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/kv-tools/value-atlas/pkg/models/store"
)

const naverBaseURL = "https://openapi.naver.com"

type naverNewsResponse struct {
	Total int `json:"total"`
	Items []struct {
		Title        string `json:"title"`
		Link         string `json:"link"`
		OriginalLink string `json:"originallink"`
		Description  string `json:"description"`
		PubDate      string `json:"pubDate"`
	} `json:"items"`
}

// NewsClient searches headlines for an entity and scores each with the
// keyword lexicon.
type NewsClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *limitedClient
}

func NewNewsClient(clientID, clientSecret string) *NewsClient {
	return &NewsClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      naverBaseURL,
		client:       newLimitedClient(newsPerSecond),
	}
}

// FetchNews returns up to limit recent headlines for the company, newest
// first. Titles arrive with embedded highlight markup which is stripped.
func (c *NewsClient) FetchNews(ctx context.Context, stockCode, companyName string, limit int) ([]store.NewsRecord, error) {
	logger := zerolog.Ctx(ctx)

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := url.Values{}
	q.Set("query", companyName)
	q.Set("display", fmt.Sprintf("%d", limit))
	q.Set("sort", "date")

	req, err := http.NewRequest(http.MethodGet,
		fmt.Sprintf("%s/v1/search/news.json?%s", c.baseURL, q.Encode()), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.client.do(ctx, req)
	if err != nil {
		logger.Warn().Err(err).Str("stock_code", stockCode).Msg("failed to fetch news")
		return nil, err
	}
	defer closeBody(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out naverNewsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal news response: %w", err)
	}

	now := time.Now().UTC()
	records := make([]store.NewsRecord, 0, len(out.Items))
	for _, item := range out.Items {
		title := stripMarkup(item.Title)
		published, _ := time.Parse(time.RFC1123Z, item.PubDate)

		link := item.OriginalLink
		if link == "" {
			link = item.Link
		}

		records = append(records, store.NewsRecord{
			StockCode:   stockCode,
			Title:       title,
			Link:        link,
			Publisher:   publisherFromLink(link),
			PublishedAt: published,
			Sentiment:   ScoreSentiment(title + " " + stripMarkup(item.Description)),
			CollectedAt: now,
		})
	}

	logger.Debug().
		Str("stock_code", stockCode).
		Int("headlines", len(records)).
		Msg("news fetched")
	return records, nil
}

// stripMarkup drops the search API's highlight tags and entities.
func stripMarkup(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

func publisherFromLink(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
