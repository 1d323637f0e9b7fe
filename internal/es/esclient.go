package es

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/product_service/internal/config"
)

// NewClient connects to ES_URL and checks the cluster answers. It returns nil,
// nil when ES_URL is empty.
func NewClient(ctx context.Context, cfg config.Config, l *slog.Logger) (*elasticsearch.Client, error) {
	if cfg.ESURL == "" {
		return nil, nil
	}
	l.Info("connecting to elasticsearch", "url", cfg.ESURL, "user", cfg.ESUser)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	infoCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := client.Info(client.Info.WithContext(infoCtx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}

	l.Info("connected to elasticsearch")
	return client, nil
}
