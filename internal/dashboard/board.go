package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Source reads the collections the dashboard aggregates.
type Source interface {
	ListEvents(ctx context.Context) ([]*domain.Event, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
}

// API is a Source that can also mutate.
type API interface {
	Source
	CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

// Load fetches both collections concurrently; either failure fails the load.
func Load(ctx context.Context, src Source) ([]*domain.Event, []*domain.Project, error) {
	var events []*domain.Event
	var projects []*domain.Project

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = src.ListEvents(ctx)
		if err != nil {
			return fmt.Errorf("load events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		projects, err = src.ListProjects(ctx)
		if err != nil {
			return fmt.Errorf("load projects: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return events, projects, nil
}

// Board is the admin view's local copy of events and projects. Deletes are
// applied locally first and rolled back if the server refuses; creates are
// applied only after the server accepts them.
type Board struct {
	api      API
	now      func() time.Time
	mu       sync.RWMutex
	events   []*domain.Event
	projects []*domain.Project
}

func NewBoard(api API) *Board {
	return &Board{api: api, now: time.Now}
}

// Refresh replaces the local copy. On failure the previous copy is kept.
func (b *Board) Refresh(ctx context.Context) error {
	events, projects, err := Load(ctx, b.api)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.events = events
	b.projects = projects
	b.mu.Unlock()
	return nil
}

func (b *Board) Events() []*domain.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*domain.Event(nil), b.events...)
}

func (b *Board) Projects() []*domain.Project {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*domain.Project(nil), b.projects...)
}

func (b *Board) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Compute(b.events, b.projects, b.now())
}

func (b *Board) CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	created, err := b.api.CreateEvent(ctx, e)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.events = append([]*domain.Event{created}, b.events...)
	b.mu.Unlock()
	return created, nil
}

func (b *Board) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	created, err := b.api.CreateProject(ctx, p)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.projects = append([]*domain.Project{created}, b.projects...)
	b.mu.Unlock()
	return created, nil
}

func (b *Board) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	b.mu.Lock()
	idx, removed := removeByID(&b.events, id, func(e *domain.Event) uuid.UUID { return e.ID })
	b.mu.Unlock()

	if err := b.api.DeleteEvent(ctx, id); err != nil {
		if removed != nil {
			b.mu.Lock()
			b.events = insertAt(b.events, idx, removed)
			b.mu.Unlock()
		}
		return err
	}
	return nil
}

func (b *Board) DeleteProject(ctx context.Context, id uuid.UUID) error {
	b.mu.Lock()
	idx, removed := removeByID(&b.projects, id, func(p *domain.Project) uuid.UUID { return p.ID })
	b.mu.Unlock()

	if err := b.api.DeleteProject(ctx, id); err != nil {
		if removed != nil {
			b.mu.Lock()
			b.projects = insertAt(b.projects, idx, removed)
			b.mu.Unlock()
		}
		return err
	}
	return nil
}

func removeByID[T any](items *[]T, id uuid.UUID, idOf func(T) uuid.UUID) (int, T) {
	var zero T
	for i, item := range *items {
		if idOf(item) == id {
			*items = append((*items)[:i:i], (*items)[i+1:]...)
			return i, item
		}
	}
	return -1, zero
}

func insertAt[T any](items []T, idx int, item T) []T {
	if idx < 0 || idx > len(items) {
		idx = len(items)
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items[:idx]...)
	out = append(out, item)
	return append(out, items[idx:]...)
}
