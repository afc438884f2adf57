package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

const dartBaseURL = "https://opendart.fss.or.kr/api"

// Report codes for the regulator's filing periods.
const (
	ReportAnnual = "11011"
	ReportHalf   = "11012"
	ReportQ1     = "11013"
	ReportQ3     = "11014"
)

// ErrNoFilings means the regulator has no statements for the requested
// entity and period. Callers treat this as missing data, not failure.
var ErrNoFilings = errors.New("no filings for entity")

// dartEnvelope is the regulator's response wrapper. Status "000" is
// success, "013" is the documented no-data code.
type dartEnvelope struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	List    []dartAccountRow `json:"list"`
}

type dartAccountRow struct {
	AccountName     string `json:"account_nm"`
	FSDiv           string `json:"fs_div"`
	Amount          string `json:"thstrm_amount"`
	PriorAmount     string `json:"frmtrm_amount"`
	PriorPrior      string `json:"bfefrmtrm_amount"`
	BusinessYear    string `json:"bsns_year"`
	ReportCodeField string `json:"reprt_code"`
}

// DARTClient fetches financial statements from the filings API.
type DARTClient struct {
	apiKey  string
	baseURL string
	client  *limitedClient
}

func NewDARTClient(apiKey string) *DARTClient {
	return &DARTClient{
		apiKey:  apiKey,
		baseURL: dartBaseURL,
		client:  newLimitedClient(filingsPerSecond),
	}
}

// FetchStatements returns the raw statement rows of one filing. Rows from
// consolidated statements (fs_div CFS) win over separate ones when both
// are present.
func (c *DARTClient) FetchStatements(ctx context.Context, corpCode string, year int, reportCode string) ([]domain.StatementRow, error) {
	logger := zerolog.Ctx(ctx)

	q := url.Values{}
	q.Set("crtfc_key", c.apiKey)
	q.Set("corp_code", corpCode)
	q.Set("bsns_year", fmt.Sprintf("%d", year))
	q.Set("reprt_code", reportCode)

	req, err := http.NewRequest(http.MethodGet,
		fmt.Sprintf("%s/fnlttSinglAcnt.json?%s", c.baseURL, q.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.do(ctx, req)
	if err != nil {
		logger.Warn().Err(err).Str("corp_code", corpCode).Msg("failed to fetch filings")
		return nil, err
	}
	defer closeBody(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("filings API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env dartEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal filings response: %w", err)
	}

	switch env.Status {
	case "000":
	case "013":
		return nil, fmt.Errorf("%w: %s %d/%s", ErrNoFilings, corpCode, year, reportCode)
	default:
		return nil, fmt.Errorf("filings API error %s: %s", env.Status, env.Message)
	}

	rows := selectRows(env.List)
	logger.Debug().
		Str("corp_code", corpCode).
		Int("year", year).
		Int("rows", len(rows)).
		Msg("filings fetched")
	return rows, nil
}

func selectRows(list []dartAccountRow) []domain.StatementRow {
	hasConsolidated := false
	for _, r := range list {
		if r.FSDiv == "CFS" {
			hasConsolidated = true
			break
		}
	}

	var rows []domain.StatementRow
	for _, r := range list {
		if hasConsolidated && r.FSDiv != "CFS" {
			continue
		}
		year, _ := strconv.Atoi(r.BusinessYear)
		rows = append(rows, domain.StatementRow{
			AccountName:      r.AccountName,
			Year:             year,
			ReportCode:       r.ReportCodeField,
			Amount:           r.Amount,
			PriorAmount:      r.PriorAmount,
			PriorPriorAmount: r.PriorPrior,
		})
	}
	return rows
}

func closeBody(ctx context.Context, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close response body")
	}
}
