// Package feed pages through post lists and applies like/comment updates
// to the loaded posts.
package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

// DefaultPageSize matches the backend's feed page
const DefaultPageSize = 10

// ErrNoMorePages is returned by Next once a short page was seen
var ErrNoMorePages = errors.New("no more pages")

// FetchFunc loads one page
type FetchFunc[T any] func(ctx context.Context, pageSize, pageNumber int) ([]T, error)

// Paginator accumulates pages for infinite scrolling. Page 0 replaces the
// items, later pages append. A page shorter than the page size, or an
// error, ends paging until the next Refresh.
type Paginator[T any] struct {
	fetch    FetchFunc[T]
	pageSize int

	mu      sync.Mutex
	items   []T
	page    int
	loaded  bool
	hasMore bool
	lastErr error
}

// NewPaginator returns a paginator; pageSize <= 0 means DefaultPageSize
func NewPaginator[T any](fetch FetchFunc[T], pageSize int) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator[T]{fetch: fetch, pageSize: pageSize, hasMore: true}
}

// Load fetches pageNumber and merges it
func (p *Paginator[T]) Load(ctx context.Context, pageNumber int) ([]T, error) {
	items, err := p.fetch(ctx, p.pageSize, pageNumber)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.hasMore = false
		p.lastErr = err
		logger.Debug("Page load failed", "page", pageNumber, "error", err)
		return nil, err
	}

	if pageNumber == 0 {
		p.items = append([]T(nil), items...)
	} else {
		p.items = append(p.items, items...)
	}
	p.page = pageNumber
	p.loaded = true
	p.lastErr = nil
	p.hasMore = len(items) == p.pageSize

	logger.Debug("Page loaded", "page", pageNumber, "count", len(items), "has_more", p.hasMore)
	return items, nil
}

// Refresh reloads from page 0
func (p *Paginator[T]) Refresh(ctx context.Context) ([]T, error) {
	return p.Load(ctx, 0)
}

// Next loads the page after the last one, or page 0 first
func (p *Paginator[T]) Next(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	next := 0
	if p.loaded {
		if !p.hasMore {
			p.mu.Unlock()
			return nil, ErrNoMorePages
		}
		next = p.page + 1
	}
	p.mu.Unlock()

	return p.Load(ctx, next)
}

// Items returns a copy of everything loaded so far
func (p *Paginator[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

// HasMore reports whether Next may return more items
func (p *Paginator[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Page is the last page loaded
func (p *Paginator[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Err is the error that stopped paging, if any
func (p *Paginator[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Update applies fn to the first item matching match
func (p *Paginator[T]) Update(match func(T) bool, fn func(*T)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if match(p.items[i]) {
			fn(&p.items[i])
			return true
		}
	}
	return false
}

// Find returns a copy of the first item matching match
func (p *Paginator[T]) Find(match func(T) bool) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
