package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockLedger struct {
	mu      sync.Mutex
	revenue map[string]int64 // keyed by window start date
	calls   int
}

func (m *mockLedger) RevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.revenue[from.Format("2006-01-02")], nil
}

func (m *mockLedger) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var clock = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func newDashboardFixture(t *testing.T, ledger *mockLedger) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewService(ledger, NewCache(client, time.Minute))
	svc.WithNow(func() time.Time { return clock })
	return svc
}

func TestRevenueSummaryFansOutThreeWindows(t *testing.T) {
	ledger := &mockLedger{revenue: map[string]int64{
		"2025-06-15": 150_000,   // today
		"2025-06-01": 2_400_000, // this month
		"2025-01-01": 9_900_000, // this year
	}}
	svc := newDashboardFixture(t, ledger)

	summary, err := svc.RevenueSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(150_000), summary.Today)
	require.Equal(t, int64(2_400_000), summary.ThisMonth)
	require.Equal(t, int64(9_900_000), summary.ThisYear)
	require.Equal(t, clock.UnixMilli(), summary.AsOfMs)
	require.Equal(t, 3, ledger.callCount())
}

func TestRevenueSummaryServedFromCache(t *testing.T) {
	ledger := &mockLedger{revenue: map[string]int64{"2025-06-15": 150_000}}
	svc := newDashboardFixture(t, ledger)

	first, err := svc.RevenueSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, ledger.callCount())

	second, err := svc.RevenueSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 3, ledger.callCount(), "cache hit must not touch the ledger")
}

func TestInvalidateCacheForcesRecompute(t *testing.T) {
	ledger := &mockLedger{revenue: map[string]int64{"2025-06-15": 150_000}}
	svc := newDashboardFixture(t, ledger)

	_, err := svc.RevenueSummary(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.InvalidateCache(context.Background()))

	ledger.mu.Lock()
	ledger.revenue["2025-06-15"] = 175_000
	ledger.mu.Unlock()
	summary, err := svc.RevenueSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(175_000), summary.Today)
	require.Equal(t, 6, ledger.callCount())
}

func TestRevenueSummaryWorksWithoutRedis(t *testing.T) {
	ledger := &mockLedger{revenue: map[string]int64{"2025-06-15": 150_000}}
	svc := NewService(ledger, nil)
	svc.WithNow(func() time.Time { return clock })

	summary, err := svc.RevenueSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(150_000), summary.Today)
}
