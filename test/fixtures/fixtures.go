package fixtures

import (
	"time"

	"github.com/nrahmani/invoice-dashboard/internal/model"
)

var (
	TestCustomerAmy = model.Customer{
		ID:       "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa",
		Name:     "Amy Burns",
		Email:    "amy@burns.com",
		ImageURL: "/customers/amy-burns.png",
	}

	TestCustomerLee = model.Customer{
		ID:       "3958dc9e-712f-4377-85e9-fec4b6a6442a",
		Name:     "Lee Robinson",
		Email:    "lee@robinson.com",
		ImageURL: "/customers/lee-robinson.png",
	}

	TestCustomerEvil = model.Customer{
		ID:       "cc27c14a-0acf-4f4a-a6c9-d45682c144b9",
		Name:     "Evil Rabbit",
		Email:    "evil@rabbit.com",
		ImageURL: "/customers/evil-rabbit.png",
	}
)

func NewTestInvoice(customerID string, amount int64, status model.InvoiceStatus) *model.Invoice {
	return &model.Invoice{
		CustomerID: customerID,
		Amount:     amount,
		Status:     status,
		Date:       time.Now().UTC().Format("2006-01-02"),
	}
}

func NewTestInvoiceInput(customerID, amount, status string) model.InvoiceInput {
	return model.InvoiceInput{
		CustomerID: customerID,
		Amount:     amount,
		Status:     status,
	}
}

func InvoiceInputValid() model.InvoiceInput {
	return NewTestInvoiceInput(TestCustomerAmy.ID, "250.00", "pending")
}

func InvoiceInputMissingCustomer() model.InvoiceInput {
	return NewTestInvoiceInput("", "250.00", "pending")
}

func InvoiceInputBadAmount() model.InvoiceInput {
	return NewTestInvoiceInput(TestCustomerAmy.ID, "abc", "pending")
}

func InvoiceInputBadStatus() model.InvoiceInput {
	return NewTestInvoiceInput(TestCustomerAmy.ID, "250.00", "overdue")
}

func InvoiceFilterByCustomer(customerID string) model.InvoiceFilter {
	return model.InvoiceFilter{
		CustomerID: &customerID,
		Limit:      50,
		Offset:     0,
		Desc:       false,
	}
}

func InvoiceFilterByStatus(statuses ...model.InvoiceStatus) model.InvoiceFilter {
	return model.InvoiceFilter{
		Statuses: statuses,
		Limit:    50,
		Offset:   0,
	}
}

func InvoiceFilterWithPagination(limit, offset int) model.InvoiceFilter {
	return model.InvoiceFilter{
		Limit:  limit,
		Offset: offset,
	}
}
