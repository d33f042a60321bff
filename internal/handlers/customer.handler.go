package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nrahmani/invoice-dashboard/internal/model"
	xhttp "github.com/nrahmani/invoice-dashboard/pkg/http"
)

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
}

type CustomerHandler struct {
	svc CustomerService
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler) {
	e.GET("/customers", h.ListCustomers)
}

func NewCustomerHandler(svc CustomerService) *CustomerHandler {
	return &CustomerHandler{
		svc: svc,
	}
}

func (h *CustomerHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	customers, err := h.svc.ListCustomers(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, customers)
}
