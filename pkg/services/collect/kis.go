package collect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

const kisBaseURL = "https://openapi.koreainvestment.com:9443"

// quoteTrID identifies the domestic equity price inquiry.
const quoteTrID = "FHKST01010100"

type kisToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type kisQuoteResponse struct {
	ReturnCode string `json:"rt_cd"`
	Message    string `json:"msg1"`
	Output     struct {
		Price     string `json:"stck_prpr"`
		Shares    string `json:"lstn_stcn"`
		MarketCap string `json:"hts_avls"`
	} `json:"output"`
}

// KISClient fetches real-time quotes from the brokerage API. Tokens are
// cached until shortly before expiry; refresh is serialized.
type KISClient struct {
	appKey    string
	appSecret string
	baseURL   string
	client    *limitedClient

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewKISClient(appKey, appSecret string) *KISClient {
	return &KISClient{
		appKey:    appKey,
		appSecret: appSecret,
		baseURL:   kisBaseURL,
		client:    newLimitedClient(quotesPerSecond),
	}
}

// FetchQuote returns the current market snapshot for one entity. The
// brokerage reports market cap in units of 억원; it is normalized to KRW.
func (c *KISClient) FetchQuote(ctx context.Context, stockCode string) (*domain.MarketSnapshot, error) {
	logger := zerolog.Ctx(ctx)

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf(
		"%s/uapi/domestic-stock/v1/quotations/inquire-price?fid_cond_mrkt_div_code=J&fid_input_iscd=%s",
		c.baseURL, stockCode)
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authorization", "Bearer "+token)
	req.Header.Set("appkey", c.appKey)
	req.Header.Set("appsecret", c.appSecret)
	req.Header.Set("tr_id", quoteTrID)

	resp, err := c.client.do(ctx, req)
	if err != nil {
		logger.Warn().Err(err).Str("stock_code", stockCode).Msg("failed to fetch quote")
		return nil, err
	}
	defer closeBody(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out kisQuoteResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote response: %w", err)
	}
	if out.ReturnCode != "0" {
		return nil, fmt.Errorf("quote API error %s: %s", out.ReturnCode, out.Message)
	}

	price, _ := strconv.ParseFloat(out.Output.Price, 64)
	shares, _ := strconv.ParseFloat(out.Output.Shares, 64)
	capEok, _ := strconv.ParseFloat(out.Output.MarketCap, 64)

	return &domain.MarketSnapshot{
		Price:             price,
		SharesOutstanding: shares,
		MarketCap:         capEok * 100_000_000,
	}, nil
}

func (c *KISClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	payload, err := json.Marshal(map[string]string{
		"grant_type": "client_credentials",
		"appkey":     c.appKey,
		"appsecret":  c.appSecret,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/oauth2/tokenP", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	defer closeBody(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var token kisToken
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}

	c.token = token.AccessToken
	// Refresh one minute early to avoid racing the expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}
