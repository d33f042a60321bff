package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/fasthttp/router"
	"github.com/nrahmani/invoice-dashboard/internal/model"
	"github.com/nrahmani/invoice-dashboard/internal/services"
	xhttp "github.com/nrahmani/invoice-dashboard/pkg/http"
)

type InvoiceService interface {
	Create(ctx context.Context, in model.InvoiceInput) (*services.MutationResult, error)
	Update(ctx context.Context, id string, in model.InvoiceInput) (*services.MutationResult, error)
	Delete(ctx context.Context, id string) (*services.MutationResult, error)
	Get(ctx context.Context, id string) (*model.Invoice, error)
	List(ctx context.Context, f model.InvoiceFilter) ([]*model.Invoice, int64, error)
	EditPageData(ctx context.Context, id string) (*services.EditPageData, error)
}

type InvoiceHandler struct {
	svc   InvoiceService
	cache services.ViewCache
}

func RegisterInvoiceRoutes(e *router.Group, h *InvoiceHandler) {
	e.POST("/invoices", h.CreateInvoice)
	e.GET("/invoices", h.ListInvoices)
	e.GET("/invoices/{id}", h.GetInvoice)
	e.GET("/invoices/{id}/edit", h.EditInvoicePage)
	e.POST("/invoices/{id}", h.UpdateInvoice)
	e.POST("/invoices/{id}/delete", h.DeleteInvoice)
}

func NewInvoiceHandler(svc InvoiceService, cache services.ViewCache) *InvoiceHandler {
	return &InvoiceHandler{
		svc:   svc,
		cache: cache,
	}
}

type listResponse struct {
	Items []*model.Invoice `json:"items"`
	Total int64            `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

// CreateInvoice accepts the invoice form (customerId, amount, status) and
// answers a 303 to the listing view on success. Validation problems keep
// the caller on the form with field details; a failed write keeps them on
// the form with the operation's flat message.
func (h *InvoiceHandler) CreateInvoice(ctx *xhttp.RequestCtx) {
	in := readInvoiceInput(ctx)

	res, err := h.svc.Create(ctx, in)
	if err != nil {
		writeMutationError(ctx, err)
		return
	}
	writeRedirect(ctx, res)
}

func (h *InvoiceHandler) UpdateInvoice(ctx *xhttp.RequestCtx) {
	id := param(ctx, "id")
	in := readInvoiceInput(ctx)

	res, err := h.svc.Update(ctx, id, in)
	if err != nil {
		writeMutationError(ctx, err)
		return
	}
	writeRedirect(ctx, res)
}

func (h *InvoiceHandler) DeleteInvoice(ctx *xhttp.RequestCtx) {
	id := param(ctx, "id")

	res, err := h.svc.Delete(ctx, id)
	if err != nil {
		writeMutationError(ctx, err)
		return
	}
	// stays on the listing view, no redirect
	writeJSON(ctx, xhttp.StatusOK, res)
}

func (h *InvoiceHandler) GetInvoice(ctx *xhttp.RequestCtx) {
	id := param(ctx, "id")

	inv, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(ctx, xhttp.StatusNotFound, "invoice not found")
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, inv)
}

// EditInvoicePage returns everything the edit form needs in one response.
// An unknown id still yields the customer list with a null invoice.
func (h *InvoiceHandler) EditInvoicePage(ctx *xhttp.RequestCtx) {
	id := param(ctx, "id")

	data, err := h.svc.EditPageData(ctx, id)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, data)
}

// ListInvoices serves the listing view. The unfiltered first page is the
// cached representation that mutations invalidate; filtered requests
// always go to the store.
func (h *InvoiceHandler) ListInvoices(ctx *xhttp.RequestCtx) {
	f, filtered := listFilter(ctx)

	if !filtered && h.cache != nil {
		if body, ok := h.cache.Get(services.ListingPath); ok {
			ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
			ctx.Response.SetStatusCode(xhttp.StatusOK)
			ctx.Response.SetBodyRaw(body)
			return
		}
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}

	resp := listResponse{Items: items, Total: total}
	if !filtered && h.cache != nil {
		if body, err := json.Marshal(resp); err == nil {
			h.cache.Put(services.ListingPath, body)
		}
	}
	writeJSON(ctx, xhttp.StatusOK, resp)
}

/* --------------------------------- Helpers ----------------------------------- */

type invoiceRequest struct {
	CustomerID string `json:"customerId"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
}

// readInvoiceInput takes the three recognized fields from a JSON body or a
// form post. Unknown fields, including id and date, are ignored: those are
// never client-supplied.
func readInvoiceInput(ctx *xhttp.RequestCtx) model.InvoiceInput {
	contentType := string(ctx.Request.Header.ContentType())
	if strings.HasPrefix(contentType, "application/json") {
		var req invoiceRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err == nil {
			return model.InvoiceInput{
				CustomerID: req.CustomerID,
				Amount:     req.Amount,
				Status:     req.Status,
			}
		}
	}
	args := ctx.PostArgs()
	return model.InvoiceInput{
		CustomerID: string(args.Peek("customerId")),
		Amount:     string(args.Peek("amount")),
		Status:     string(args.Peek("status")),
	}
}

func listFilter(ctx *xhttp.RequestCtx) (model.InvoiceFilter, bool) {
	var f model.InvoiceFilter
	filtered := false

	if v := query(ctx, "customer_id"); v != "" {
		f.CustomerID = &v
		filtered = true
	}
	if v := query(ctx, "status"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] != "" {
				f.Statuses = append(f.Statuses, model.InvoiceStatus(parts[i]))
			}
		}
		filtered = true
	}
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
			filtered = true
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Offset = n
			filtered = true
		}
	}
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
		filtered = true
	}
	return f, filtered
}

// writeMutationError maps the two failure kinds onto one response shape.
// Validation keeps field details; persistence carries only the flat
// operation message, the store's own error never leaves the logs.
func writeMutationError(ctx *xhttp.RequestCtx, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		writeJSON(ctx, xhttp.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
		return
	}

	var pe *services.PersistenceError
	if errors.As(err, &pe) {
		writeJSON(ctx, xhttp.StatusInternalServerError, map[string]string{"message": pe.Message})
		return
	}

	writeError(ctx, xhttp.StatusInternalServerError, err.Error())
}

func writeRedirect(ctx *xhttp.RequestCtx, res *services.MutationResult) {
	ctx.Response.Header.Set("Location", res.RedirectTo)
	writeJSON(ctx, xhttp.StatusSeeOther, res)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

func param(ctx *xhttp.RequestCtx, name string) string {
	if v, ok := ctx.UserValue(name).(string); ok {
		return v
	}
	return ""
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}
