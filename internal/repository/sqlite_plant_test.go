package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/alexanderramin/prodsched/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineRepo_ListInIDOrder(t *testing.T) {
	repo := NewSQLMachineRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	m1 := testutil.NewTestMachine("P-01", domain.MachinePress)
	m2 := testutil.NewTestMachine("T-01", domain.MachineTap)
	require.NoError(t, repo.Upsert(ctx, m2))
	require.NoError(t, repo.Upsert(ctx, m1))

	m1.Factory = "annex"
	require.NoError(t, repo.Upsert(ctx, m1))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, m1.ID, got[0].ID)
	assert.Equal(t, "annex", got[0].Factory)
	assert.Equal(t, domain.MachineTap, got[1].MachineType)
}

func TestPurchaseOrderRepo_ListOpen(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	products := NewSQLProductRepo(conn)
	orders := NewSQLPurchaseOrderRepo(conn)

	p := testutil.NewTestProduct("BRK")
	require.NoError(t, products.Upsert(ctx, p))

	late := testutil.NewTestOrder(p.ID, 100, testutil.Date(2025, 3, 20))
	early := testutil.NewTestOrder(p.ID, 50, testutil.Date(2025, 3, 10))
	done := testutil.NewTestOrder(p.ID, 70, testutil.Date(2025, 3, 5), testutil.WithDelivered())
	for _, o := range []*domain.PurchaseOrder{late, early, done} {
		require.NoError(t, orders.Upsert(ctx, o))
	}

	got, err := orders.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, testutil.Date(2025, 3, 10), got[0].DeliveryDate)
	assert.Equal(t, early.ReceivedDate, got[0].ReceivedDate)
	assert.Equal(t, late.ID, got[1].ID)

	fetched, err := orders.GetByID(ctx, done.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Delivered)

	_, err = orders.GetByID(ctx, 424242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPurchaseOrderRepo_RejectsUnknownProduct(t *testing.T) {
	orders := NewSQLPurchaseOrderRepo(testutil.NewTestDB(t))

	err := orders.Upsert(context.Background(), testutil.NewTestOrder(987654, 10, testutil.Date(2025, 3, 10)))
	assert.Error(t, err)
}

func TestInventoryRepo_UnshippedByProduct(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	products := NewSQLProductRepo(conn)
	inv := NewSQLInventoryRepo(conn)

	a := testutil.NewTestProduct("A")
	b := testutil.NewTestProduct("B")
	require.NoError(t, products.Upsert(ctx, a))
	require.NoError(t, products.Upsert(ctx, b))

	require.NoError(t, inv.Upsert(ctx, testutil.NewTestFinished(a.ID, 30, false)))
	require.NoError(t, inv.Upsert(ctx, testutil.NewTestFinished(a.ID, 12, false)))
	require.NoError(t, inv.Upsert(ctx, testutil.NewTestFinished(a.ID, 500, true)))
	require.NoError(t, inv.Upsert(ctx, testutil.NewTestFinished(b.ID, 9, true)))

	got, err := inv.UnshippedByProduct(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{a.ID: 42}, got)
}

func TestHolidayRepo_UpsertListDelete(t *testing.T) {
	repo := NewSQLHolidayRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.Holiday{Date: testutil.Date(2025, 5, 5), Kind: "national"}))
	require.NoError(t, repo.Upsert(ctx, &domain.Holiday{Date: testutil.Date(2025, 5, 1), Kind: "plant"}))
	require.NoError(t, repo.Upsert(ctx, &domain.Holiday{Date: testutil.Date(2025, 5, 5), Kind: "company"}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, testutil.Date(2025, 5, 1), got[0].Date)
	assert.Equal(t, "company", got[1].Kind)

	require.NoError(t, repo.Delete(ctx, testutil.Date(2025, 5, 1)))
	err = repo.Delete(ctx, testutil.Date(2025, 5, 1))
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
