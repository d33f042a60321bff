package services

import (
	"context"
	"errors"
	"time"

	"github.com/nrahmani/invoice-dashboard/internal/model"
	"github.com/nrahmani/invoice-dashboard/internal/repository"
	"github.com/nrahmani/invoice-dashboard/pkg/logger"
	"github.com/nrahmani/invoice-dashboard/pkg/prom"
)

var (
	ErrNotFound = errors.New("invoice not found")
)

// ListingPath names the invoice listing view. It is both the cache
// invalidation target and the post-mutation redirect destination.
const ListingPath = "/dashboard/invoices"

const dateLayout = "2006-01-02"

type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error)
	Update(ctx context.Context, id string, p model.InvoiceUpdateParams) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	GetByID(ctx context.Context, id string) (*model.Invoice, error)
	List(ctx context.Context, f model.InvoiceFilter) ([]*model.Invoice, int64, error)
}

type CustomerRepository interface {
	List(ctx context.Context) ([]*model.Customer, error)
}

// MutationResult is the success half of a mutation outcome. It carries
// either a navigation target (create/update) or a flat display message
// (delete) and never both. Redirecting is the caller's job; nothing here
// terminates control flow.
type MutationResult struct {
	RedirectTo string `json:"redirect_to,omitempty"`
	Message    string `json:"message,omitempty"`
}

// PersistenceError wraps a failed write statement. Message is the flat
// user-facing string for the operation; the underlying store error only
// reaches the logs.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string { return e.Message }
func (e *PersistenceError) Unwrap() error { return e.Err }

// EditPageData is what the edit view needs: the invoice (nil when absent)
// and the full customer list for the selection control.
type EditPageData struct {
	Invoice   *model.Invoice    `json:"invoice"`
	Customers []*model.Customer `json:"customers"`
}

type InvoiceService struct {
	invoiceRepo  InvoiceRepository
	customerRepo CustomerRepository
	cache        ViewCache
}

func NewInvoiceService(invoiceRepo InvoiceRepository, customerRepo CustomerRepository, cache ViewCache) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		cache:        cache,
	}
}

// Create runs the full mutation workflow: validate the create shape,
// derive cents and today's date, insert, invalidate the listing view,
// then hand back the redirect target. Validation and persistence failures
// surface through the same error return; nothing is invalidated on either.
func (s *InvoiceService) Create(ctx context.Context, in model.InvoiceInput) (*MutationResult, error) {
	start := time.Now()

	p, err := in.ParseCreate()
	if err != nil {
		prom.IncCounterVec(prom.SystemInvoices, prom.MetricInvoiceMutationsTotal, "create", "validation_error")
		return nil, err
	}

	inv := &model.Invoice{
		CustomerID: p.CustomerID,
		Amount:     p.AmountCents,
		Status:     p.Status,
		Date:       time.Now().UTC().Format(dateLayout),
	}

	created, err := s.invoiceRepo.Create(ctx, inv)
	if err != nil {
		logger.Error("invoice create failed", "customer_id", p.CustomerID, "error", err)
		prom.IncCounterVec(prom.SystemInvoices, prom.MetricInvoiceMutationsTotal, "create", "persistence_error")
		return nil, &PersistenceError{Message: "db error: creating invoice", Err: err}
	}

	s.invalidateListing()
	prom.IncCounterVec(prom.SystemInvoices, prom.MetricInvoiceMutationsTotal, "create", "success")
	prom.ObserveHistogramVec(prom.SystemInvoices, prom.MetricInvoiceMutationDuration, time.Since(start).Seconds(), "create")

	logger.Info("invoice created", "id", created.ID, "amount", created.Amount, "status", created.Status)
	return &MutationResult{RedirectTo: ListingPath}, nil
}

// Update validates the update shape and issues a single UPDATE of
// customer_id, amount and status for the trusted route id. Date is left
// untouched. A nonexistent id affects zero rows and still counts as
// success; the store decides that semantics, not this layer.
func (s *InvoiceService) Update(ctx context.Context, id string, in model.InvoiceInput) (*MutationResult, error) {
	start := time.Now()

	p, err := in.ParseUpdate()
	if err != nil {
		prom.IncCounterVec(prom.SystemInvoices, prom.MetricInvoiceMutationsTotal, "update", "validation_error")
		return nil, err
	}

	rows, err := s.invoiceRepo.Update(ctx, id, p)
	if err != nil {
		logger.Error("invoice update failed", "id", id, "error", err)
		prom.IncCounterVec(prom.SystemInvoices, prom.MetricInvoiceMutationsTotal, "update", "persistence_error")
		return nil, &PersistenceError{Message: "DB ERROR: failed to update", Err: err}
	}
	if rows == 0 {
		logger.Debug("invoice update matched no rows", "id", id)
	}

	s.invalidateListing()
	prom.IncCounterVec(prom.SystemInvoices, prom.MetricInvoiceMutationsTotal, "update", "success")
	prom.ObserveHistogramVec(prom.SystemInvoices, prom.MetricInvoiceMutationDuration, time.Since(start).Seconds(), "update")

	return &MutationResult{RedirectTo: ListingPath}, nil
}

// Delete removes the row matching id. No form body, so no validation
// shape. Success keeps the caller on the listing view with a flat
// message instead of redirecting.
func (s *InvoiceService) Delete(ctx context.Context, id string) (*MutationResult, error) {
	start := time.Now()

	rows, err := s.invoiceRepo.Delete(ctx, id)
	if err != nil {
		logger.Error("invoice delete failed", "id", id, "error", err)
		prom.IncCounterVec(prom.SystemInvoices, prom.MetricInvoiceMutationsTotal, "delete", "persistence_error")
		return nil, &PersistenceError{Message: "DB Error: failed to delete", Err: err}
	}
	if rows == 0 {
		logger.Debug("invoice delete matched no rows", "id", id)
	}

	s.invalidateListing()
	prom.IncCounterVec(prom.SystemInvoices, prom.MetricInvoiceMutationsTotal, "delete", "success")
	prom.ObserveHistogramVec(prom.SystemInvoices, prom.MetricInvoiceMutationDuration, time.Since(start).Seconds(), "delete")

	return &MutationResult{Message: "Deleted Invoice."}, nil
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*model.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) List(ctx context.Context, f model.InvoiceFilter) ([]*model.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, f)
}

func (s *InvoiceService) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	return s.customerRepo.List(ctx)
}

// EditPageData issues the invoice fetch and the customer list fetch
// concurrently. An absent invoice is not an error:
// the page renders nothing for it but still gets the customer list.
func (s *InvoiceService) EditPageData(ctx context.Context, id string) (*EditPageData, error) {
	type invoiceResult struct {
		inv *model.Invoice
		err error
	}
	invCh := make(chan invoiceResult, 1)

	go func() {
		inv, err := s.invoiceRepo.GetByID(ctx, id)
		invCh <- invoiceResult{inv: inv, err: err}
	}()

	customers, err := s.customerRepo.List(ctx)

	r := <-invCh
	if err != nil {
		return nil, err
	}
	if r.err != nil && !errors.Is(r.err, repository.ErrNotFound) {
		return nil, r.err
	}

	return &EditPageData{
		Invoice:   r.inv,
		Customers: customers,
	}, nil
}

// invalidateListing marks the listing view stale. It runs exactly once
// per successful mutation, after the write and before the result is
// returned. Cache errors are logged, never surfaced: the cache is an
// optimization, the next listing render falls through to the store.
func (s *InvoiceService) invalidateListing() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ListingPath); err != nil {
		logger.Warn("listing view invalidation failed", "path", ListingPath, "error", err)
	}
}
