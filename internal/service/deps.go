package service

import (
	"context"

	"github.com/Skotchmaster/product_service/internal/models"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Indexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}
