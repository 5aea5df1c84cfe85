package optimizer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/payopt/internal/domain/payment"
	"github.com/eshaffer321/payopt/internal/infrastructure/metrics"
	"github.com/eshaffer321/payopt/internal/infrastructure/storage"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleBatch() Batch {
	return Batch{
		Orders: []payment.Order{
			{ID: "ORDER1", Value: dec("150.00"), Promotions: []string{"mZysk"}},
			{ID: "ORDER2", Value: dec("200.00"), Promotions: []string{"BosBankrut"}},
			{ID: "ORDER3", Value: dec("150.00"), Promotions: []string{"mZysk", "BosBankrut"}},
			{ID: "ORDER4", Value: dec("50.00")},
		},
		Methods: []payment.Method{
			{ID: "PUNKTY", Discount: 15, Limit: dec("100.00")},
			{ID: "mZysk", Discount: 10, Limit: dec("180.00")},
			{ID: "BosBankrut", Discount: 5, Limit: dec("200.00")},
		},
		Source: SourceAPI,
	}
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestService_Optimize(t *testing.T) {
	svc := NewService(nil, nil, nil)

	result, err := svc.Optimize(context.Background(), sampleBatch())
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.RunID.String())

	require.Len(t, result.Used, 3)
	assert.Equal(t, "mZysk", result.Used[0].MethodID)
	assert.Equal(t, "135.00", result.Used[0].Amount.StringFixed(2))
	assert.Equal(t, "PUNKTY", result.Used[1].MethodID)
	assert.Equal(t, "77.50", result.Used[1].Amount.StringFixed(2))
	assert.Equal(t, "BosBankrut", result.Used[2].MethodID)
	assert.Equal(t, "162.00", result.Used[2].Amount.StringFixed(2))

	require.Len(t, result.Remaining, 3)
	assert.Equal(t, "22.50", result.Remaining[0].Limit.StringFixed(2))
	assert.Equal(t, "45.00", result.Remaining[1].Limit.StringFixed(2))
	assert.Equal(t, "38.00", result.Remaining[2].Limit.StringFixed(2))

	assert.Empty(t, result.Problems)

	summary := result.Summary()
	assert.Equal(t, 4, summary.Allocated)
	assert.Equal(t, 0, summary.Unallocated)
	assert.Equal(t, 1, summary.PartialUnpaid)
}

func TestService_Optimize_DoesNotMutateInput(t *testing.T) {
	svc := NewService(nil, nil, nil)
	batch := sampleBatch()

	_, err := svc.Optimize(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, "100.00", batch.Methods[0].Limit.StringFixed(2))
	assert.Equal(t, "180.00", batch.Methods[1].Limit.StringFixed(2))
}

func TestService_Optimize_IndependentBatches(t *testing.T) {
	svc := NewService(nil, nil, nil)

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := svc.Optimize(context.Background(), sampleBatch())
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, "135.00", r.Used[0].Amount.StringFixed(2))
		assert.Equal(t, "162.00", r.Used[2].Amount.StringFixed(2))
	}
}

func TestService_Optimize_RecordsAudit(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := NewService(repo, nil, nil)

	result, err := svc.Optimize(context.Background(), sampleBatch())
	require.NoError(t, err)

	run, err := repo.GetRun(result.RunID.String())
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, storage.RunStatusCompleted, run.Status)
	assert.Equal(t, SourceAPI, run.Source)
	assert.Equal(t, 4, run.OrderCount)
	assert.Equal(t, 3, run.MethodCount)
	assert.Equal(t, "374.50", run.TotalCharge.StringFixed(2))
	assert.Equal(t, "121.50", run.TotalUnpaid.StringFixed(2))
	assert.Equal(t, 1, run.PartialUnpaid)

	allocations, err := repo.GetAllocations(result.RunID.String())
	require.NoError(t, err)
	require.Len(t, allocations, 4)
	assert.Equal(t, "ORDER3", allocations[2].OrderID)
	assert.Equal(t, string(payment.PointsPartial), allocations[2].Choice)
	assert.Equal(t, "points_partial", allocations[2].Rule)
	assert.Equal(t, 2, allocations[2].Sequence)
}

func TestService_Optimize_StorageErrorsDoNotFailRun(t *testing.T) {
	repo := storage.NewMockRepository()
	repo.SaveAllocationsErr = errors.New("disk full")

	var logs bytes.Buffer
	svc := NewService(repo, nil, testLogger(&logs))

	result, err := svc.Optimize(context.Background(), sampleBatch())
	require.NoError(t, err)
	require.Len(t, result.Used, 3)

	run, err := repo.GetRun(result.RunID.String())
	require.NoError(t, err)
	assert.Equal(t, storage.RunStatusFailed, run.Status)
	assert.Equal(t, "disk full", run.ErrorMessage)
	assert.Contains(t, logs.String(), "Failed to save allocations")
}

func TestService_Optimize_Cancelled(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := NewService(repo, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Optimize(ctx, sampleBatch())
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, repo.StartRunCalled, "cancelled context should not start a run")
}

func TestService_Optimize_Metrics(t *testing.T) {
	m := metrics.New()
	svc := NewService(nil, m, nil)

	_, err := svc.Optimize(context.Background(), sampleBatch())
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "payopt_orders_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "promotion, points_partial and points series")

	count, err = testutil.GatherAndCount(m.Registry(), "payopt_charged_amount_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestService_Optimize_Logging(t *testing.T) {
	var logs bytes.Buffer
	svc := NewService(nil, nil, testLogger(&logs))

	batch := sampleBatch()
	batch.Orders = append(batch.Orders, payment.Order{ID: "HUGE", Value: dec("99999.00")})

	_, err := svc.Optimize(context.Background(), batch)
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "Allocated order")
	assert.Contains(t, out, "Order remainder left unpaid")
	assert.Contains(t, out, "order_id=ORDER3")
	assert.Contains(t, out, "No payment method can cover order")
	assert.Contains(t, out, "order_id=HUGE")
}

func TestService_Optimize_DefaultSource(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := NewService(repo, nil, nil)

	batch := sampleBatch()
	batch.Source = ""
	result, err := svc.Optimize(context.Background(), batch)
	require.NoError(t, err)

	run, err := repo.GetRun(result.RunID.String())
	require.NoError(t, err)
	assert.Equal(t, SourceCLI, run.Source)
}

func TestReconcile_DetectsTamperedResult(t *testing.T) {
	svc := NewService(nil, nil, nil)
	batch := sampleBatch()

	result, err := svc.Optimize(context.Background(), batch)
	require.NoError(t, err)

	result.Outcomes[0].Charges[0].Amount = dec("134.99")
	result.Remaining[1].Limit = dec("46.00")

	var logs bytes.Buffer
	problems := reconcile(testLogger(&logs), batch.Methods, result)

	require.Len(t, problems, 2)
	assert.Contains(t, problems[0], "ORDER1: charges (134.99) are less than expected (135.00)")
	assert.Contains(t, problems[1], "mZysk limit dropped by 134.00 but 135.00 was charged")
	assert.Contains(t, logs.String(), "do not reconcile")
}
