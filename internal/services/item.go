package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/apperr"
	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
	"github.com/appdotbuilder/invoice-manager-internal/internal/validation"
)

type ItemService struct {
	DB *gorm.DB
}

func NewItemService(db *gorm.DB) *ItemService { return &ItemService{DB: db} }

type CreateItemInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
}

func (s *ItemService) Create(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("unit", in.Unit, v)
	validation.PositiveDecimal("price", in.Price, v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}
	it := models.Item{Name: in.Name, Price: in.Price.Round(2), Unit: in.Unit}
	if err := s.DB.WithContext(ctx).Create(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *ItemService) List(ctx context.Context) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if err := s.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ItemService) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	var it models.Item
	if err := s.DB.WithContext(ctx).First(&it, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

type UpdateItemInput struct {
	ID    uint             `json:"id"`
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Unit  *string          `json:"unit"`
}

// Update changes the item's current fields only. Historical invoice lines keep
// the unit price they captured at invoice time.
func (s *ItemService) Update(ctx context.Context, in UpdateItemInput) (*models.Item, error) {
	if in.Price != nil && !in.Price.IsPositive() {
		return nil, apperr.Validation(validation.Violations{"price": "must_be_positive"})
	}
	var it models.Item
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&it, in.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("item")
			}
			return err
		}
		if in.Name != nil {
			it.Name = *in.Name
		}
		if in.Price != nil {
			it.Price = in.Price.Round(2)
		}
		if in.Unit != nil {
			it.Unit = *in.Unit
		}
		return tx.Save(&it).Error
	})
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Delete refuses to remove an item referenced by any invoice line; guard and
// delete share one transaction.
func (s *ItemService) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.InvoiceLine{}).Where("item_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return apperr.Conflict("cannot delete item used in invoices")
		}
		res := tx.Delete(&models.Item{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
