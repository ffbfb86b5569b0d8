package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemflow/nemflow/internal/model"
)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(sqlx.NewDb(db, "sqlmock")), mock
}

func samplePrice(region string) model.DispatchPrice {
	return model.DispatchPrice{
		SettlementDate: time.Date(2025, 8, 23, 9, 5, 0, 0, time.UTC),
		Region:         region,
		RRP:            134.85637,
		TotalDemand:    9334.46,
		AvailableGen:   11004.64,
		NetInterchange: -123.45,
		PriceStatus:    "FIRM",
	}
}

func TestSaveDispatchPrices_Upsert(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO dispatch_prices")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := p.SaveDispatchPrices(context.Background(),
		[]model.DispatchPrice{samplePrice("NSW1"), samplePrice("VIC1")})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDispatchPrices_HalfBatchRetry(t *testing.T) {
	p, mock := newMockStore(t)

	// Full chunk fails mid-transaction.
	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO dispatch_prices")
	prep.ExpectExec().WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	// Each half retries in its own transaction.
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		half := mock.ExpectPrepare("INSERT INTO dispatch_prices")
		half.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	err := p.SaveDispatchPrices(context.Background(),
		[]model.DispatchPrice{samplePrice("NSW1"), samplePrice("VIC1")})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveConstraints_LazyTableCreation(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS constraints").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO constraints")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rows := []model.Constraint{{
		SettlementDate: time.Now().UTC(),
		ConstraintID:   "N>>N-NIL_1",
		RHS:            120.5,
		MarginalValue:  35.2,
	}}
	require.NoError(t, p.SaveConstraints(context.Background(), rows))

	// Second write must not re-run the DDL.
	mock.ExpectBegin()
	prep = mock.ExpectPrepare("INSERT INTO constraints")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, p.SaveConstraints(context.Background(), rows))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEmptySliceIsNoop(t *testing.T) {
	p, mock := newMockStore(t)
	require.NoError(t, p.SaveDispatchPrices(context.Background(), nil))
	require.NoError(t, p.SaveFCASPrices(context.Background(), nil))
	require.NoError(t, p.SaveScada(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPruneValidationLog(t *testing.T) {
	p, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM validation_log").
		WillReturnResult(sqlmock.NewResult(0, 12))

	n, err := p.PruneValidationLog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestPrices(t *testing.T) {
	p, mock := newMockStore(t)
	ts := time.Date(2025, 8, 23, 9, 5, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT DISTINCT ON \\(region\\)").
		WillReturnRows(sqlmock.NewRows([]string{
			"settlement_date", "region", "rrp", "eep", "rop", "apc_flag",
			"total_demand", "available_generation", "net_interchange",
			"price_status", "last_changed",
		}).AddRow(ts, "NSW1", 134.85637, 0.0, 0.0, 0, 9334.46, 11004.64, -123.45, "FIRM", nil))

	prices, err := p.LatestPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "NSW1", prices[0].Region)
	assert.InDelta(t, 134.85637, prices[0].RRP, 1e-9)
}

func TestHotCache_SnapshotPrices(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewHotCache(rdb)

	prices := []model.DispatchPrice{samplePrice("NSW1")}
	all, err := json.Marshal(prices)
	require.NoError(t, err)
	one, err := json.Marshal(prices[0])
	require.NoError(t, err)

	mock.ExpectSet("prices:latest", all, TTL5Min).SetVal("OK")
	mock.ExpectSet("prices:NSW1", one, TTL5Min).SetVal("OK")

	c.SnapshotPrices(context.Background(), prices)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHotCache_WriteFailureIsSwallowed(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewHotCache(rdb)

	fcas := []model.FCASPrice{{Region: "NSW1", Service: model.Raise6Sec, Price: 0.5}}
	b, err := json.Marshal(fcas)
	require.NoError(t, err)
	mock.ExpectSet("fcas:latest", b, TTL5Min).SetErr(errors.New("connection refused"))

	// Must not panic or propagate.
	c.SnapshotFCAS(context.Background(), fcas)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHotCache_ProbeKeys(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewHotCache(rdb)

	mock.ExpectExists("prices:latest").SetVal(1)
	mock.ExpectExists("fcas:latest").SetVal(0)
	for _, r := range model.Regions {
		mock.ExpectExists("prices:" + r).SetVal(1)
	}

	hits, total := c.ProbeKeys(context.Background())
	assert.Equal(t, 6, hits)
	assert.Equal(t, 7, total)
}

func TestArchive_SaveRawOnce(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	meta := ObjectMeta{
		Source:    "DISPATCHIS",
		Type:      "dispatch",
		Timestamp: time.Date(2025, 8, 23, 9, 5, 0, 0, time.UTC),
	}
	path, err := a.SaveRaw("DISPATCHIS", "PUBLIC_DISPATCHIS_202508231905_01.zip", []byte("payload"), meta)
	require.NoError(t, err)
	assert.Contains(t, path, filepath.Join("raw", "2025-08-23", "DISPATCHIS"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))

	var stored ObjectMeta
	mb, err := os.ReadFile(path + ".meta.json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(mb, &stored))
	assert.Equal(t, "DISPATCHIS", stored.Source)
	assert.Equal(t, 7, stored.Bytes)

	// Write-once: a second save with different bytes leaves the original.
	_, err = a.SaveRaw("DISPATCHIS", "PUBLIC_DISPATCHIS_202508231905_01.zip", []byte("changed"), meta)
	require.NoError(t, err)
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
}

func TestArchive_ForecastLayout(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	meta := ObjectMeta{Source: "STPASA", Timestamp: time.Date(2025, 8, 23, 1, 0, 0, 0, time.UTC)}
	path, err := a.SaveForecast("STPASA", "PUBLIC_STPASA_202508230100_01.zip", []byte("x"), meta)
	require.NoError(t, err)
	assert.Contains(t, path, filepath.Join("archive", "STPASA", "2025-08-23"))
}
