package repository

import (
	"github.com/nrahmani/invoice-dashboard/internal/model"
)

type CustomerEntity struct {
	ID       string `db:"id"        gorm:"primaryKey;column:id;type:uuid"`
	Name     string `db:"name"      gorm:"column:name;not null"`
	Email    string `db:"email"     gorm:"column:email;not null"`
	ImageURL string `db:"image_url" gorm:"column:image_url"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:       e.ID,
		Name:     e.Name,
		Email:    e.Email,
		ImageURL: e.ImageURL,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	if entities == nil {
		return nil
	}
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}
