package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Skotchmaster/product_service/internal/logging"
	"github.com/Skotchmaster/product_service/internal/models"
	"github.com/Skotchmaster/product_service/internal/mykafka"
	"github.com/Skotchmaster/product_service/internal/repo"
	"github.com/Skotchmaster/product_service/internal/transport"
)

// numeric(10,2) upper bound
const maxPrice = 99999999.99

type ProductService struct {
	Repo   *repo.GormRepo
	Events Publisher
	Index  Indexer
}

func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, translate(err, "get product")
	}
	return p, nil
}

func (s *ProductService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Product, error) {
	items, err := s.Repo.ListProductsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list products by owner: %w", err)
	}
	if items == nil {
		items = []models.Product{}
	}
	return items, nil
}

func (s *ProductService) Create(ctx context.Context, req transport.CreateProductRequest, ownerID uint) (*models.Product, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: owner is required", ErrValidation)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Price == nil {
		return nil, fmt.Errorf("%w: price is required", ErrValidation)
	}
	if err := validatePrice(*req.Price); err != nil {
		return nil, err
	}

	p, err := s.Repo.CreateProduct(ctx, &models.Product{
		Name:        name,
		Description: req.Description,
		Price:       roundCents(*req.Price),
		Detail:      req.Detail,
		UserID:      ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.publish(ctx, "product_created", p)
	s.index(ctx, p)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, req transport.PatchProductRequest, callerID uint) (*models.Product, error) {
	if callerID == 0 {
		return nil, ErrForbidden
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		req.Name = &name
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		price := roundCents(*req.Price)
		req.Price = &price
	}

	p, err := s.Repo.UpdateOwnedProduct(ctx, id, callerID, req)
	if err != nil {
		return nil, translate(err, "update product")
	}

	s.publish(ctx, "product_updated", p)
	s.index(ctx, p)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint, callerID uint) error {
	if callerID == 0 {
		return ErrForbidden
	}

	p, err := s.Repo.DeleteOwnedProduct(ctx, id, callerID)
	if err != nil {
		return translate(err, "delete product")
	}

	s.publish(ctx, "product_deleted", p)
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, p.ID); err != nil {
			logging.FromContext(ctx).Error("search delete error", "product_id", p.ID, "error", err)
		}
	}
	return nil
}

// Search uses the search index when one is configured and falls back to the
// database otherwise or when the index fails.
func (s *ProductService) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: query is required", ErrValidation)
	}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search index error, falling back to db", "error", err)
	}

	total, items, err := s.Repo.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search products: %w", err)
	}
	return total, items, nil
}

func validatePrice(p float64) error {
	if p < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if p > maxPrice {
		return fmt.Errorf("%w: price is too large", ErrValidation)
	}
	return nil
}

// roundCents matches the two decimal places of the price column.
func roundCents(p float64) float64 {
	return math.Round(p*100) / 100
}

func translate(err error, op string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrNotOwner):
		return ErrForbidden
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *ProductService) publish(ctx context.Context, typ string, p *models.Product) {
	if s.Events == nil {
		return
	}
	ev := mykafka.NewEvent(typ, map[string]any{
		"product_id": p.ID,
		"user_id":    p.UserID,
		"name":       p.Name,
		"price":      p.Price,
	})
	key := strconv.FormatUint(uint64(p.UserID), 10)
	if err := s.Events.PublishEvent(ctx, mykafka.TopicProductEvents, key, ev); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "type", typ, "product_id", p.ID, "error", err)
	}
}

func (s *ProductService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("search index error", "product_id", p.ID, "error", err)
	}
}
