package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nrahmani/invoice-dashboard/internal/model"
	"github.com/nrahmani/invoice-dashboard/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	args := m.Called(ctx, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, id string, p model.InvoiceUpdateParams) (int64, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, f model.InvoiceFilter) ([]*model.Invoice, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Invoice), args.Get(1).(int64), args.Error(2)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Customer), args.Error(1)
}

type MockViewCache struct {
	mock.Mock
}

func (m *MockViewCache) Get(path string) ([]byte, bool) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]byte), args.Bool(1)
}

func (m *MockViewCache) Put(path string, body []byte) {
	m.Called(path, body)
}

func (m *MockViewCache) Invalidate(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func newTestService() (*InvoiceService, *MockInvoiceRepository, *MockCustomerRepository, *MockViewCache) {
	invRepo := new(MockInvoiceRepository)
	custRepo := new(MockCustomerRepository)
	cache := new(MockViewCache)
	return NewInvoiceService(invRepo, custRepo, cache), invRepo, custRepo, cache
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid input persists cents and today's date, invalidates once, redirects", func(t *testing.T) {
		svc, invRepo, _, cache := newTestService()

		var persisted *model.Invoice
		invRepo.On("Create", ctx, mock.AnythingOfType("*model.Invoice")).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*model.Invoice)
			}).
			Return(&model.Invoice{ID: "inv-1"}, nil).Once()
		cache.On("Invalidate", ListingPath).Return(nil).Once()

		res, err := svc.Create(ctx, model.InvoiceInput{
			CustomerID: "abc",
			Amount:     "12.50",
			Status:     "pending",
		})
		require.NoError(t, err)
		assert.Equal(t, ListingPath, res.RedirectTo)
		assert.Empty(t, res.Message)

		require.NotNil(t, persisted)
		assert.Equal(t, "abc", persisted.CustomerID)
		assert.Equal(t, int64(1250), persisted.Amount)
		assert.Equal(t, model.InvoiceStatusPending, persisted.Status)
		assert.Equal(t, time.Now().UTC().Format("2006-01-02"), persisted.Date)

		invRepo.AssertExpectations(t)
		cache.AssertExpectations(t)
		cache.AssertNumberOfCalls(t, "Invalidate", 1)
	})

	t.Run("malformed status fails validation before any persistence", func(t *testing.T) {
		svc, invRepo, _, cache := newTestService()

		_, err := svc.Create(ctx, model.InvoiceInput{
			CustomerID: "abc",
			Amount:     "12.50",
			Status:     "overdue",
		})

		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		invRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	})

	t.Run("store failure returns the flat message and skips invalidation", func(t *testing.T) {
		svc, invRepo, _, cache := newTestService()

		invRepo.On("Create", ctx, mock.AnythingOfType("*model.Invoice")).
			Return(nil, errors.New("connection refused")).Once()

		res, err := svc.Create(ctx, model.InvoiceInput{
			CustomerID: "abc",
			Amount:     "12.50",
			Status:     "pending",
		})
		assert.Nil(t, res)

		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "db error: creating invoice", pe.Message)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	})
}

func TestInvoiceService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("valid input updates the row, invalidates once, redirects", func(t *testing.T) {
		svc, invRepo, _, cache := newTestService()

		invRepo.On("Update", ctx, "inv-1", model.InvoiceUpdateParams{
			CustomerID:  "abc",
			AmountCents: 999,
			Status:      model.InvoiceStatusPaid,
		}).Return(int64(1), nil).Once()
		cache.On("Invalidate", ListingPath).Return(nil).Once()

		res, err := svc.Update(ctx, "inv-1", model.InvoiceInput{
			CustomerID: "abc",
			Amount:     "9.99",
			Status:     "paid",
		})
		require.NoError(t, err)
		assert.Equal(t, ListingPath, res.RedirectTo)

		invRepo.AssertExpectations(t)
		cache.AssertNumberOfCalls(t, "Invalidate", 1)
	})

	t.Run("zero rows affected still succeeds", func(t *testing.T) {
		svc, invRepo, _, cache := newTestService()

		invRepo.On("Update", ctx, "no-such-id", mock.Anything).Return(int64(0), nil).Once()
		cache.On("Invalidate", ListingPath).Return(nil).Once()

		res, err := svc.Update(ctx, "no-such-id", model.InvoiceInput{
			CustomerID: "abc",
			Amount:     "1.00",
			Status:     "pending",
		})
		require.NoError(t, err)
		assert.Equal(t, ListingPath, res.RedirectTo)
	})

	t.Run("store failure returns the flat message and skips invalidation", func(t *testing.T) {
		svc, invRepo, _, cache := newTestService()

		invRepo.On("Update", ctx, "inv-1", mock.Anything).
			Return(int64(0), errors.New("deadlock")).Once()

		_, err := svc.Update(ctx, "inv-1", model.InvoiceInput{
			CustomerID: "abc",
			Amount:     "1.00",
			Status:     "pending",
		})

		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "DB ERROR: failed to update", pe.Message)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	})

	t.Run("validation failure leaves the store untouched", func(t *testing.T) {
		svc, invRepo, _, cache := newTestService()

		_, err := svc.Update(ctx, "inv-1", model.InvoiceInput{
			CustomerID: "",
			Amount:     "not-a-number",
			Status:     "pending",
		})

		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		invRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	})
}

func TestInvoiceService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns the flat message without a redirect", func(t *testing.T) {
		svc, invRepo, _, cache := newTestService()

		invRepo.On("Delete", ctx, "inv-1").Return(int64(1), nil).Once()
		cache.On("Invalidate", ListingPath).Return(nil).Once()

		res, err := svc.Delete(ctx, "inv-1")
		require.NoError(t, err)
		assert.Equal(t, "Deleted Invoice.", res.Message)
		assert.Empty(t, res.RedirectTo)
		cache.AssertNumberOfCalls(t, "Invalidate", 1)
	})

	t.Run("nonexistent id behaves like success", func(t *testing.T) {
		svc, invRepo, _, cache := newTestService()

		invRepo.On("Delete", ctx, "no-such-id").Return(int64(0), nil).Once()
		cache.On("Invalidate", ListingPath).Return(nil).Once()

		res, err := svc.Delete(ctx, "no-such-id")
		require.NoError(t, err)
		assert.Equal(t, "Deleted Invoice.", res.Message)
	})

	t.Run("store failure returns the flat message and skips invalidation", func(t *testing.T) {
		svc, invRepo, _, cache := newTestService()

		invRepo.On("Delete", ctx, "inv-1").Return(int64(0), errors.New("io timeout")).Once()

		_, err := svc.Delete(ctx, "inv-1")

		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "DB Error: failed to delete", pe.Message)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	})
}

func TestInvoiceService_EditPageData(t *testing.T) {
	ctx := context.Background()

	t.Run("returns invoice and customers together", func(t *testing.T) {
		svc, invRepo, custRepo, _ := newTestService()

		inv := &model.Invoice{ID: "inv-1", CustomerID: "c-1", Amount: 1250, Status: model.InvoiceStatusPending, Date: "2026-01-01"}
		customers := []*model.Customer{{ID: "c-1", Name: "Amy Burns"}}

		invRepo.On("GetByID", ctx, "inv-1").Return(inv, nil).Once()
		custRepo.On("List", ctx).Return(customers, nil).Once()

		data, err := svc.EditPageData(ctx, "inv-1")
		require.NoError(t, err)
		assert.Equal(t, inv, data.Invoice)
		assert.Equal(t, customers, data.Customers)
	})

	t.Run("absent invoice is not an error", func(t *testing.T) {
		svc, invRepo, custRepo, _ := newTestService()

		invRepo.On("GetByID", ctx, "no-such-id").Return(nil, repository.ErrNotFound).Once()
		custRepo.On("List", ctx).Return([]*model.Customer{{ID: "c-1"}}, nil).Once()

		data, err := svc.EditPageData(ctx, "no-such-id")
		require.NoError(t, err)
		assert.Nil(t, data.Invoice)
		assert.Len(t, data.Customers, 1)
	})

	t.Run("customer fetch failure surfaces", func(t *testing.T) {
		svc, invRepo, custRepo, _ := newTestService()

		invRepo.On("GetByID", ctx, "inv-1").Return(&model.Invoice{ID: "inv-1"}, nil).Once()
		custRepo.On("List", ctx).Return(nil, errors.New("read replica down")).Once()

		_, err := svc.EditPageData(ctx, "inv-1")
		assert.Error(t, err)
	})
}

func TestInvoiceService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("maps repository not-found", func(t *testing.T) {
		svc, invRepo, _, _ := newTestService()

		invRepo.On("GetByID", ctx, "ghost").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Get(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
