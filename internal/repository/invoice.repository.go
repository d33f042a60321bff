package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nrahmani/invoice-dashboard/internal/model"
	"github.com/nrahmani/invoice-dashboard/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an invoice does not exist.
	ErrNotFound = errors.New("invoice not found")
)

type InvoiceRepository struct {
	*pg.DB
}

func NewInvoiceRepository(db *pg.DB) *InvoiceRepository {
	return &InvoiceRepository{
		db,
	}
}

// Create inserts a new invoice row. The id is generated here so the same
// path works on every store backend; date must already be set by the caller.
func (r *InvoiceRepository) Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	entity := toInvoiceEntity(inv)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toInvoiceModel(entity), nil
}

// Update issues a single UPDATE of customer_id, amount and status for the
// row matching id. Date is deliberately absent from the column set. A
// nonexistent id is not an error, it simply affects zero rows.
func (r *InvoiceRepository) Update(ctx context.Context, id string, p model.InvoiceUpdateParams) (int64, error) {
	result := r.Write(ctx).
		Model(&InvoiceEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"customer_id": p.CustomerID,
			"amount":      p.AmountCents,
			"status":      string(p.Status),
		})
	return result.RowsAffected, result.Error
}

// Delete removes the row matching id. Zero rows affected is not an error.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.Write(ctx).Where("id = ?", id).Delete(&InvoiceEntity{})
	return result.RowsAffected, result.Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	var entity InvoiceEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toInvoiceModel(&entity), nil
}

func (r *InvoiceRepository) List(ctx context.Context, f model.InvoiceFilter) ([]*model.Invoice, int64, error) {
	q := r.Read(ctx).Model(&InvoiceEntity{})

	if f.CustomerID != nil && *f.CustomerID != "" {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "date"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*InvoiceEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toInvoiceModels(entities), total, nil
}
