package repository

import (
	"github.com/nrahmani/invoice-dashboard/internal/model"
)

type InvoiceEntity struct {
	ID         string `db:"id"          gorm:"primaryKey;column:id;type:uuid"`
	CustomerID string `db:"customer_id" gorm:"column:customer_id;not null;index"`
	Amount     int64  `db:"amount"      gorm:"column:amount;not null"`
	Status     string `db:"status"      gorm:"column:status;not null;index"`
	Date       string `db:"date"        gorm:"column:date;not null"`
}

func (InvoiceEntity) TableName() string {
	return "invoices"
}

func toInvoiceEntity(m *model.Invoice) *InvoiceEntity {
	if m == nil {
		return nil
	}
	return &InvoiceEntity{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Amount:     m.Amount,
		Status:     string(m.Status),
		Date:       m.Date,
	}
}

func toInvoiceModel(e *InvoiceEntity) *model.Invoice {
	if e == nil {
		return nil
	}
	return &model.Invoice{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Amount:     e.Amount,
		Status:     model.InvoiceStatus(e.Status),
		Date:       e.Date,
	}
}

func toInvoiceModels(entities []*InvoiceEntity) []*model.Invoice {
	if entities == nil {
		return nil
	}
	models := make([]*model.Invoice, len(entities))
	for i, e := range entities {
		models[i] = toInvoiceModel(e)
	}
	return models
}
