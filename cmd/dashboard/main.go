package main

import (
	"errors"
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nrahmani/invoice-dashboard/internal/config"
	"github.com/nrahmani/invoice-dashboard/internal/model"
	"github.com/nrahmani/invoice-dashboard/internal/repository"
	"github.com/nrahmani/invoice-dashboard/internal/services"
	"github.com/nrahmani/invoice-dashboard/pkg/logger"
	"github.com/nrahmani/invoice-dashboard/pkg/pg"
	"github.com/nrahmani/invoice-dashboard/pkg/redis"
	"github.com/shopspring/decimal"
)

const listingTemplate = `<!DOCTYPE html>
<html>
<head><title>Invoices</title></head>
<body>
<h1>Invoices</h1>
{{if .Message}}<p class="flash">{{.Message}}</p>{{end}}
<p><a href="/dashboard/invoices/create">Create Invoice</a></p>
<table>
<tr><th>Customer</th><th>Amount</th><th>Status</th><th>Date</th><th></th></tr>
{{range .Invoices}}
<tr>
  <td>{{.CustomerID}}</td>
  <td>{{.AmountMajor}}</td>
  <td>{{.Status}}</td>
  <td>{{.Date}}</td>
  <td>
    <a href="/dashboard/invoices/{{.ID}}/edit">Edit</a>
    <form method="post" action="/dashboard/invoices/{{.ID}}/delete"><button>Delete</button></form>
  </td>
</tr>
{{end}}
</table>
</body>
</html>`

const formTemplate = `<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="{{.Action}}">
  <label>Customer
    <select name="customerId">
      {{range .Customers}}
      <option value="{{.ID}}" {{if eq .ID $.SelectedCustomer}}selected{{end}}>{{.Name}}</option>
      {{end}}
    </select>
  </label>
  <label>Amount (USD)
    <input name="amount" type="text" value="{{.Amount}}" placeholder="0.00">
  </label>
  <label>Status
    <label><input type="radio" name="status" value="pending" {{if eq .Status "pending"}}checked{{end}}> Pending</label>
    <label><input type="radio" name="status" value="paid" {{if eq .Status "paid"}}checked{{end}}> Paid</label>
  </label>
  <button type="submit">{{.Submit}}</button>
</form>
<p><a href="/dashboard/invoices">Back to invoices</a></p>
</body>
</html>`

type invoiceRow struct {
	ID          string
	CustomerID  string
	AmountMajor string
	Status      model.InvoiceStatus
	Date        string
}

type server struct {
	svc *services.InvoiceService
}

func main() {
	if err := config.Load(getEnvPath()); err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	db, err := pg.CreateReadWrite(readConf, writeConf, false)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:    []string{config.Get().RedisAddr},
		DB:       config.Get().RedisDatabase,
		Username: config.Get().RedisUsername,
		Password: config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}
	viewCache := services.NewRedisViewCache(redisAdap, config.Get().ViewCacheTTL)

	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	srv := &server{svc: services.NewInvoiceService(invoiceRepo, customerRepo, viewCache)}

	if config.Get().AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	tmpl := template.Must(template.New("listing").Parse(listingTemplate))
	template.Must(tmpl.New("form").Parse(formTemplate))
	r.SetHTMLTemplate(tmpl)

	d := r.Group("/dashboard")
	d.GET("/invoices", srv.listing)
	d.GET("/invoices/create", srv.createForm)
	d.GET("/invoices/:id/edit", srv.editForm)
	d.POST("/invoices", srv.create)
	d.POST("/invoices/:id", srv.update)
	d.POST("/invoices/:id/delete", srv.delete)

	logger.Info("dashboard listening", "addr", config.Get().DashboardListenAddr)
	if err := r.Run(config.Get().DashboardListenAddr); err != nil {
		logger.Error("dashboard server stopped", "error", err)
	}
}

func (s *server) listing(c *gin.Context) {
	invoices, _, err := s.svc.List(c.Request.Context(), model.InvoiceFilter{Desc: true})
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load invoices")
		return
	}

	rows := make([]invoiceRow, len(invoices))
	for i, inv := range invoices {
		rows[i] = invoiceRow{
			ID:          inv.ID,
			CustomerID:  inv.CustomerID,
			AmountMajor: majorUnits(inv.Amount),
			Status:      inv.Status,
			Date:        inv.Date,
		}
	}

	c.HTML(http.StatusOK, "listing", gin.H{
		"Invoices": rows,
		"Message":  c.Query("message"),
	})
}

func (s *server) createForm(c *gin.Context) {
	customers, err := s.svc.ListCustomers(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load customers")
		return
	}
	c.HTML(http.StatusOK, "form", gin.H{
		"Title":            "Create Invoice",
		"Action":           "/dashboard/invoices",
		"Submit":           "Create Invoice",
		"Customers":        customers,
		"SelectedCustomer": "",
		"Amount":           "",
		"Status":           string(model.InvoiceStatusPending),
	})
}

// editForm fetches the invoice and the customer list concurrently through
// the service and pre-populates the form. An absent invoice renders nothing
// but a back link.
func (s *server) editForm(c *gin.Context) {
	id := c.Param("id")

	data, err := s.svc.EditPageData(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load edit page")
		return
	}
	if data.Invoice == nil {
		c.String(http.StatusNotFound, "invoice not found")
		return
	}

	c.HTML(http.StatusOK, "form", gin.H{
		"Title":            "Edit Invoice",
		"Action":           "/dashboard/invoices/" + id,
		"Submit":           "Save Invoice",
		"Customers":        data.Customers,
		"SelectedCustomer": data.Invoice.CustomerID,
		"Amount":           majorUnits(data.Invoice.Amount),
		"Status":           string(data.Invoice.Status),
	})
}

func (s *server) create(c *gin.Context) {
	res, err := s.svc.Create(c.Request.Context(), formInput(c))
	if err != nil {
		s.rerenderForm(c, "Create Invoice", "/dashboard/invoices", "Create Invoice", err)
		return
	}
	c.Redirect(http.StatusSeeOther, res.RedirectTo)
}

func (s *server) update(c *gin.Context) {
	id := c.Param("id")
	res, err := s.svc.Update(c.Request.Context(), id, formInput(c))
	if err != nil {
		s.rerenderForm(c, "Edit Invoice", "/dashboard/invoices/"+id, "Save Invoice", err)
		return
	}
	c.Redirect(http.StatusSeeOther, res.RedirectTo)
}

func (s *server) delete(c *gin.Context) {
	res, err := s.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard/invoices?message="+template.URLQueryEscaper(err.Error()))
		return
	}
	// no redirect result for delete, the user is already on the listing
	c.Redirect(http.StatusSeeOther, "/dashboard/invoices?message="+template.URLQueryEscaper(res.Message))
}

// rerenderForm keeps the user on the form with the failure message and
// their submitted values intact.
func (s *server) rerenderForm(c *gin.Context, title, action, submit string, failure error) {
	customers, err := s.svc.ListCustomers(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load customers")
		return
	}

	msg := failure.Error()
	var pe *services.PersistenceError
	if errors.As(failure, &pe) {
		msg = pe.Message
	}

	c.HTML(http.StatusOK, "form", gin.H{
		"Title":            title,
		"Action":           action,
		"Submit":           submit,
		"Customers":        customers,
		"SelectedCustomer": c.PostForm("customerId"),
		"Amount":           c.PostForm("amount"),
		"Status":           c.PostForm("status"),
		"Error":            msg,
	})
}

func formInput(c *gin.Context) model.InvoiceInput {
	return model.InvoiceInput{
		CustomerID: c.PostForm("customerId"),
		Amount:     c.PostForm("amount"),
		Status:     c.PostForm("status"),
	}
}

func majorUnits(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

func getEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			return strings.Split(v, "=")[1]
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	return ""
}
