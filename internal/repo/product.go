package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/product_service/internal/models"
	"github.com/Skotchmaster/product_service/internal/transport"
)

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	items := []models.Product{}
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *GormRepo) ListProductsByOwner(ctx context.Context, ownerID uint) ([]models.Product, error) {
	items := []models.Product{}
	if err := r.DB.WithContext(ctx).Where("user_id = ?", ownerID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateProduct inserts prod and returns the row as stored, so column
// rounding and database defaults show up in the result.
func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	var stored models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(prod).Error; err != nil {
			return err
		}
		return tx.First(&stored, prod.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdateOwnedProduct applies req only when the row belongs to ownerID. The
// ownership check and the write are one statement.
func (r *GormRepo) UpdateOwnedProduct(ctx context.Context, id, ownerID uint, req transport.PatchProductRequest) (*models.Product, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Detail != nil {
		updates["product_detail"] = *req.Detail
	}

	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missingOrForeign(tx, id)
		}
		return tx.First(&prod, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) DeleteOwnedProduct(ctx context.Context, id, ownerID uint) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&prod).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return missingOrForeign(tx, id)
			}
			return err
		}

		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missingOrForeign(tx, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func missingOrForeign(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&models.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrNotOwner
}

// SearchProducts is the database fallback used when no search index is
// configured.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	where := "LOWER(name) LIKE ? OR LOWER(description) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where(where, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where(where, pattern, pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}
