package repository

import (
	"context"
	"testing"

	"github.com/nrahmani/invoice-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInvoice(t *testing.T, repo *InvoiceRepository, customerID string, cents int64, status model.InvoiceStatus, date string) *model.Invoice {
	t.Helper()
	inv, err := repo.Create(context.Background(), &model.Invoice{
		CustomerID: customerID,
		Amount:     cents,
		Status:     status,
		Date:       date,
	})
	require.NoError(t, err)
	return inv
}

func TestInvoiceRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	t.Run("create assigns an id and persists all fields", func(t *testing.T) {
		created, err := repo.Create(ctx, &model.Invoice{
			CustomerID: "cust-1",
			Amount:     1250,
			Status:     model.InvoiceStatusPending,
			Date:       "2026-08-30",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "cust-1", got.CustomerID)
		assert.Equal(t, int64(1250), got.Amount)
		assert.Equal(t, model.InvoiceStatusPending, got.Status)
		assert.Equal(t, "2026-08-30", got.Date)
	})

	t.Run("ids are unique per create", func(t *testing.T) {
		a := createTestInvoice(t, repo, "cust-1", 100, model.InvoiceStatusPaid, "2026-01-01")
		b := createTestInvoice(t, repo, "cust-1", 100, model.InvoiceStatusPaid, "2026-01-01")
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestInvoiceRepository_GetByID(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	t.Run("missing id returns ErrNotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "no-such-id")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInvoiceRepository_Update(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	t.Run("update changes the three mutable columns only", func(t *testing.T) {
		created := createTestInvoice(t, repo, "cust-1", 1000, model.InvoiceStatusPending, "2026-02-14")

		rows, err := repo.Update(ctx, created.ID, model.InvoiceUpdateParams{
			CustomerID:  "cust-2",
			AmountCents: 2599,
			Status:      model.InvoiceStatusPaid,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "cust-2", got.CustomerID)
		assert.Equal(t, int64(2599), got.Amount)
		assert.Equal(t, model.InvoiceStatusPaid, got.Status)
		// date is set once at creation and never touched by update
		assert.Equal(t, "2026-02-14", got.Date)
	})

	t.Run("update of nonexistent id affects zero rows without error", func(t *testing.T) {
		rows, err := repo.Update(ctx, "no-such-id", model.InvoiceUpdateParams{
			CustomerID:  "cust-1",
			AmountCents: 100,
			Status:      model.InvoiceStatusPending,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)
	})
}

func TestInvoiceRepository_Delete(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	t.Run("delete removes the row", func(t *testing.T) {
		created := createTestInvoice(t, repo, "cust-1", 500, model.InvoiceStatusPaid, "2026-03-01")

		rows, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete of nonexistent id affects zero rows without error", func(t *testing.T) {
		rows, err := repo.Delete(ctx, "no-such-id")
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)
	})
}

func TestInvoiceRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	createTestInvoice(t, repo, "cust-1", 100, model.InvoiceStatusPending, "2026-01-01")
	createTestInvoice(t, repo, "cust-1", 200, model.InvoiceStatusPaid, "2026-01-02")
	createTestInvoice(t, repo, "cust-2", 300, model.InvoiceStatusPending, "2026-01-03")

	t.Run("list all", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.InvoiceFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, items, 3)
	})

	t.Run("filter by customer", func(t *testing.T) {
		customerID := "cust-1"
		items, total, err := repo.List(ctx, model.InvoiceFilter{CustomerID: &customerID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, inv := range items {
			assert.Equal(t, "cust-1", inv.CustomerID)
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.InvoiceFilter{
			Statuses: []model.InvoiceStatus{model.InvoiceStatusPaid},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, model.InvoiceStatusPaid, items[0].Status)
	})

	t.Run("desc ordering by date", func(t *testing.T) {
		items, _, err := repo.List(ctx, model.InvoiceFilter{Desc: true})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "2026-01-03", items[0].Date)
		assert.Equal(t, "2026-01-01", items[2].Date)
	})

	t.Run("pagination", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.InvoiceFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, items, 1)
	})
}
