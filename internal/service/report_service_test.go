package service

import (
	"context"
	"strings"
	"testing"

	"finleybook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportService(store *fakeCashbackStore) *ReportService {
	return NewReportService(newTestService(store))
}

func TestProcessCSV_LooseHeaders(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := reportService(store)

	csv := strings.Join([]string{
		"Transaction ID,Status,Commission Amount,Sale Value,SubID,Currency,Date",
		"tx-1,pending,4.00,100.00,clk_abc,USD,2026-08-01",
	}, "\n")

	processed, errored, err := svc.ProcessCSV(context.Background(), "amazon", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Zero(t, errored)

	c := store.commissions["csv_amazon_tx-1"]
	require.NotNil(t, c)
	assert.Equal(t, domain.NetworkCSV, c.Network)
	assert.Equal(t, int64(400), c.CommissionCents)
	assert.Equal(t, int64(10000), c.OrderCents)
	assert.Equal(t, int64(200), c.UserShareCents)
}

func TestProcessCSV_JunkRowsSkipped(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := reportService(store)

	csv := strings.Join([]string{
		"txid,status,commission,click id",
		",approved,1.00,clk_abc",       // no tx id
		"tx-2,,1.00,clk_abc",           // no status
		"tx-3,launched,1.00,clk_abc",   // unknown status
		"tx-4,approved,2.50,clk_abc",   // good
		"tx-5,approved,1.00,clk_ghost", // unknown click, no user ref
	}, "\n")

	processed, errored, err := svc.ProcessCSV(context.Background(), "ebay", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 4, errored)

	require.NotNil(t, store.commissions["csv_ebay_tx-4"])
	assert.Equal(t, int64(125), store.available)
}

func TestProcessCSV_RedeliveredReportIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seedUserAndClick(store, domain.TierFree)
	svc := reportService(store)

	csv := "order id,state,commission,subid\ntx-9,approved,2.00,clk_abc\n"
	_, _, err := svc.ProcessCSV(context.Background(), "booking", strings.NewReader(csv))
	require.NoError(t, err)
	_, _, err = svc.ProcessCSV(context.Background(), "booking", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, int64(100), store.available)
	assert.Len(t, store.entries, 1)
}

func TestParseCents(t *testing.T) {
	assert.Equal(t, int64(1234), parseCents("12.34"))
	assert.Equal(t, int64(100000), parseCents("1,000.00"))
	assert.Equal(t, int64(0), parseCents(""))
	assert.Equal(t, int64(0), parseCents("n/a"))
	assert.Equal(t, int64(3), parseCents("0.025")) // rounds half up
}
