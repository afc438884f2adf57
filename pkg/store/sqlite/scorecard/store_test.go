package scorecard

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kv-tools/value-atlas/pkg/models/store"
	"github.com/kv-tools/value-atlas/pkg/store/sqlite"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := sqlite.NewDB(sqlite.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func record(stockCode, date string, total float64) *store.ScorecardRecord {
	roe := 18.5
	return &store.ScorecardRecord{
		StockCode:       stockCode,
		CompanyName:     "종목" + stockCode,
		TableVersion:    "v110",
		CalculationDate: date,
		TotalScore:      total,
		MaxScore:        110,
		Percentage:      total / 110 * 100,
		Grade:           "A",
		Recommendation:  "Buy",
		Status:          store.StatusScored,
		ROE:             &roe,
		LastUpdated:     time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_UpsertAndGetLatest(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Upsert(ctx, record("005930", "2026-08-23", 70)))
	require.NoError(t, f.store.Upsert(ctx, record("005930", "2026-08-24", 78)))

	got, err := f.store.GetLatest(ctx, "005930")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2026-08-24", got.CalculationDate)
	assert.Equal(t, 78.0, got.TotalScore)
	require.NotNil(t, got.ROE)
	assert.Equal(t, 18.5, *got.ROE)
	assert.Nil(t, got.PBR)
}

func TestStore_UpsertSameDayOverwrites(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Upsert(ctx, record("005930", "2026-08-24", 60)))

	updated := record("005930", "2026-08-24", 82)
	updated.Grade = "S"
	require.NoError(t, f.store.Upsert(ctx, updated))

	got, err := f.store.GetLatest(ctx, "005930")
	require.NoError(t, err)
	assert.Equal(t, 82.0, got.TotalScore)
	assert.Equal(t, "S", got.Grade)

	// Still one row for the day.
	var count int
	require.NoError(t, f.db.QueryRow(
		`SELECT COUNT(*) FROM buffett_scorecard WHERE stock_code = ?`, "005930").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_GetLatestMissing(t *testing.T) {
	f := setupFixture(t)

	got, err := f.store.GetLatest(context.Background(), "999999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_TopN(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Upsert(ctx, record("005930", "2026-08-24", 85)))
	require.NoError(t, f.store.Upsert(ctx, record("000660", "2026-08-24", 72)))
	require.NoError(t, f.store.Upsert(ctx, record("035420", "2026-08-24", 90)))

	insufficient := record("123456", "2026-08-24", 0)
	insufficient.Status = store.StatusInsufficientData
	require.NoError(t, f.store.Upsert(ctx, insufficient))

	top, err := f.store.TopN(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "035420", top[0].StockCode)
	assert.Equal(t, "005930", top[1].StockCode)
}

func TestStore_TopNUsesLatestDate(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Upsert(ctx, record("005930", "2026-08-23", 95)))
	require.NoError(t, f.store.Upsert(ctx, record("005930", "2026-08-24", 60)))

	top, err := f.store.TopN(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 60.0, top[0].TotalScore)
}

func TestStore_ListByDate(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Upsert(ctx, record("005930", "2026-08-24", 85)))
	require.NoError(t, f.store.Upsert(ctx, record("000660", "2026-08-23", 72)))

	list, err := f.store.ListByDate(ctx, "2026-08-24")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "005930", list[0].StockCode)
}

func TestStore_UpsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO buffett_scorecard").
		WillReturnError(errors.New("disk I/O error"))

	s, err := NewStore(db)
	require.NoError(t, err)

	err = s.Upsert(context.Background(), record("005930", "2026-08-24", 70))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "005930")
	assert.NoError(t, mock.ExpectationsWereMet())
}
