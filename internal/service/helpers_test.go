package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/alexanderramin/prodsched/internal/metrics"
	"github.com/alexanderramin/prodsched/internal/testutil"
	"github.com/stretchr/testify/require"
)

// monday is 2025-03-03 06:00 UTC, the start of a working day.
var monday = time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC)

func at(d, h, m int) time.Time {
	return time.Date(2025, 3, d, h, m, 0, 0, time.UTC)
}

type plantFixture struct {
	product *domain.Product
	machine *domain.Machine
	order   *domain.PurchaseOrder
}

// seedPressPlant stores one product with a single press step sized so that
// qty items take exactly qty/42 working minutes at the default safety
// factor.
func seedPressPlant(t *testing.T, repos Repos, qty int64) plantFixture {
	t.Helper()
	ctx := context.Background()

	product := testutil.NewTestProduct("BRK-100", testutil.WithProcesses(
		testutil.NewTestProcess(1, "Press", testutil.WithRate(60)),
	))
	machine := testutil.NewTestMachine("P-01", domain.MachinePress)
	order := testutil.NewTestOrder(product.ID, qty, at(31, 0, 0), testutil.WithPONumber("PO-1001"))

	require.NoError(t, repos.Products.Upsert(ctx, product))
	require.NoError(t, repos.Machines.Upsert(ctx, machine))
	require.NoError(t, repos.Orders.Upsert(ctx, order))
	return plantFixture{product: product, machine: machine, order: order}
}

func setupRepos(t *testing.T) (*sql.DB, Repos) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return database, NewRepos(database)
}

type recordedRun struct {
	duration time.Duration
	result   metrics.RunResult
}

type fakeRecorder struct {
	mu       sync.Mutex
	runs     []recordedRun
	failures []string
	cleared  int
}

func (r *fakeRecorder) RecordRun(d time.Duration, res metrics.RunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, recordedRun{duration: d, result: res})
}

func (r *fakeRecorder) RecordFailure(status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, status)
}

func (r *fakeRecorder) RecordCleared() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared++
}

type captureObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *captureObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *captureObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
