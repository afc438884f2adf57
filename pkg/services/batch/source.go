package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
	"github.com/kv-tools/value-atlas/pkg/services/scorecard"
)

// FilingsAPI fetches one entity's statement rows.
type FilingsAPI interface {
	FetchStatements(ctx context.Context, corpCode string, year int, reportCode string) ([]domain.StatementRow, error)
}

// QuotesAPI fetches one entity's market snapshot.
type QuotesAPI interface {
	FetchQuote(ctx context.Context, stockCode string) (*domain.MarketSnapshot, error)
}

// UniverseEntry is one row of the universe file.
type UniverseEntry struct {
	StockCode   string
	CorpCode    string
	CompanyName string
	MarketCap   float64
}

// LoadUniverseCSV reads the entity universe from a CSV with columns
// stock_code, corp_code, company_name and optional market_cap. A header
// row is detected and skipped.
func LoadUniverseCSV(path string) ([]UniverseEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open universe file: %w", err)
	}
	defer f.Close()

	return parseUniverse(f)
}

func parseUniverse(r io.Reader) ([]UniverseEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var entries []UniverseEntry
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse universe file: %w", err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "stock_code") {
			continue
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("universe line %d: expected at least 3 columns, got %d", line, len(record))
		}

		entry := UniverseEntry{
			StockCode:   strings.TrimSpace(record[0]),
			CorpCode:    strings.TrimSpace(record[1]),
			CompanyName: strings.TrimSpace(record[2]),
		}
		if entry.StockCode == "" {
			return nil, fmt.Errorf("universe line %d: empty stock code", line)
		}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			mc, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
			if err != nil {
				return nil, fmt.Errorf("universe line %d: bad market cap: %w", line, err)
			}
			entry.MarketCap = mc
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ProviderSource feeds the runner from the universe file and the live
// provider APIs. A missing quote is tolerated; missing filings are not,
// the policy layer decides what happens next.
type ProviderSource struct {
	entries    []UniverseEntry
	filings    FilingsAPI
	quotes     QuotesAPI
	year       int
	reportCode string

	corpCodes map[string]string
}

func NewProviderSource(entries []UniverseEntry, filings FilingsAPI, quotes QuotesAPI, year int, reportCode string) *ProviderSource {
	corpCodes := make(map[string]string, len(entries))
	for _, e := range entries {
		corpCodes[e.StockCode] = e.CorpCode
	}
	return &ProviderSource{
		entries:    entries,
		filings:    filings,
		quotes:     quotes,
		year:       year,
		reportCode: reportCode,
		corpCodes:  corpCodes,
	}
}

func (s *ProviderSource) Entities(ctx context.Context) ([]Entity, error) {
	entities := make([]Entity, 0, len(s.entries))
	for _, e := range s.entries {
		entities = append(entities, Entity{
			StockCode:   e.StockCode,
			CompanyName: e.CompanyName,
			MarketCap:   e.MarketCap,
		})
	}
	return entities, nil
}

func (s *ProviderSource) Load(ctx context.Context, entity Entity) (scorecard.Input, error) {
	corpCode := s.corpCodes[entity.StockCode]
	if corpCode == "" {
		corpCode = entity.StockCode
	}

	rows, err := s.filings.FetchStatements(ctx, corpCode, s.year, s.reportCode)
	if err != nil {
		return scorecard.Input{}, err
	}

	in := scorecard.Input{Rows: rows}

	if s.quotes != nil {
		snapshot, err := s.quotes.FetchQuote(ctx, entity.StockCode)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("stock_code", entity.StockCode).
				Msg("quote unavailable, valuation ratios will be skipped")
		} else {
			in.Snapshot = snapshot
			in.MarketCap = snapshot.MarketCap
		}
	}
	return in, nil
}
