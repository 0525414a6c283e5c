package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/apperr"
	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
	"github.com/appdotbuilder/invoice-manager-internal/internal/validation"
)

type ClientService struct {
	DB *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService { return &ClientService{DB: db} }

type CreateClientInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (s *ClientService) Create(ctx context.Context, in CreateClientInput) (*models.Client, error) {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("email", in.Email, v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}
	c := models.Client{Name: in.Name, Email: in.Email, Phone: in.Phone, Address: in.Address}
	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	clients := make([]models.Client, 0)
	if err := s.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// GetByID returns nil for an unknown id, matching the invoice convention.
func (s *ClientService) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

type UpdateClientInput struct {
	ID      uint    `json:"id"`
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// Update applies a partial update; omitted fields are left unchanged.
func (s *ClientService) Update(ctx context.Context, in UpdateClientInput) (*models.Client, error) {
	var c models.Client
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, in.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("client")
			}
			return err
		}
		if in.Name != nil {
			c.Name = *in.Name
		}
		if in.Email != nil {
			c.Email = *in.Email
		}
		if in.Phone != nil {
			c.Phone = *in.Phone
		}
		if in.Address != nil {
			c.Address = *in.Address
		}
		return tx.Save(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete refuses to remove a client still referenced by any invoice. The guard
// count and the delete share one transaction so a concurrent invoice creation
// cannot race past a guard that already passed.
func (s *ClientService) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Invoice{}).Where("client_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return apperr.Conflict("cannot delete client with existing invoices")
		}
		res := tx.Delete(&models.Client{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
