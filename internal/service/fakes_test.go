package service

import (
	"context"
	"errors"
	"sync"

	"github.com/Skotchmaster/product_service/internal/models"
	"github.com/Skotchmaster/product_service/internal/mykafka"
)

type sentEvent struct {
	Topic string
	Key   string
	Event mykafka.Event
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []sentEvent
	err  error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	ev, _ := event.(mykafka.Event)
	p.sent = append(p.sent, sentEvent{Topic: topic, Key: key, Event: ev})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.sent))
	for _, s := range p.sent {
		out = append(out, s.Event.Type)
	}
	return out
}

type memIndex struct {
	docs      map[uint]models.Product
	searchErr error
	searched  int
}

func newMemIndex() *memIndex {
	return &memIndex{docs: map[uint]models.Product{}}
}

func (m *memIndex) IndexProduct(_ context.Context, p *models.Product) error {
	m.docs[p.ID] = *p
	return nil
}

func (m *memIndex) DeleteProduct(_ context.Context, id uint) error {
	delete(m.docs, id)
	return nil
}

func (m *memIndex) Search(_ context.Context, _ string, _, _ int) (int64, []models.Product, error) {
	m.searched++
	if m.searchErr != nil {
		return 0, nil, m.searchErr
	}
	out := make([]models.Product, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d)
	}
	return int64(len(out)), out, nil
}

var errBroker = errors.New("broker unavailable")
