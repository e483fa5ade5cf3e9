package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/metrics"
	"github.com/zfogg/socialcommerce/cli/pkg/optimistic"
)

// RemovePolicy decides what RequestRemoveAll does after the local removal
type RemovePolicy string

const (
	// RemoveLocal only drops the entry locally; the next reload brings it back
	RemoveLocal RemovePolicy = "local"
	// RemovePerUnit issues one remove call per known unit, then reloads
	RemovePerUnit RemovePolicy = "per_unit"
)

// ParseRemovePolicy accepts "local" or "per_unit"
func ParseRemovePolicy(s string) (RemovePolicy, error) {
	switch RemovePolicy(s) {
	case RemoveLocal, RemovePerUnit:
		return RemovePolicy(s), nil
	case "":
		return RemovePerUnit, nil
	default:
		return "", fmt.Errorf("unknown cart remove policy %q (want local or per_unit)", s)
	}
}

var (
	// ErrClosed is returned for work started after Close
	ErrClosed = errors.New("cart queue closed")
	// ErrInvalidProduct is returned for non-positive product IDs
	ErrInvalidProduct = errors.New("invalid product id")
)

// Option configures a Queue
type Option func(*Queue)

// WithRemovePolicy sets the RequestRemoveAll policy
func WithRemovePolicy(p RemovePolicy) Option {
	return func(q *Queue) {
		q.policy = p
	}
}

// Queue applies cart mutations optimistically and reconciles every one of
// them with an authoritative reload. Methods are safe for concurrent use
// and overlapping mutations are not serialized. A reload older than the
// snapshot already applied is dropped. Nothing is published after Close.
type Queue struct {
	src    Source
	policy RemovePolicy

	// pub orders listener delivery; it is taken before mu
	pub sync.Mutex

	mu            sync.Mutex
	current       Snapshot
	authoritative Snapshot
	reloadSeq     uint64
	appliedSeq    uint64
	generation    uint64
	closed        bool
	listeners     map[int]func(Snapshot)
	nextListener  int
	pending       map[uuid.UUID]PendingMutation
}

// NewQueue returns an empty queue over src. Call Reload to load the cart.
func NewQueue(src Source, opts ...Option) *Queue {
	q := &Queue{
		src:       src,
		policy:    RemovePerUnit,
		listeners: make(map[int]func(Snapshot)),
		pending:   make(map[uuid.UUID]PendingMutation),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Snapshot returns a copy of the current view
func (q *Queue) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current.Clone()
}

// LineState returns productID's current state
func (q *Queue) LineState(productID int64) LineState {
	return StateOf(q.Snapshot(), productID)
}

// Pending lists mutations that have not been reconciled yet, oldest first
func (q *Queue) Pending() []PendingMutation {
	q.mu.Lock()
	out := make([]PendingMutation, 0, len(q.pending))
	for _, m := range q.pending {
		out = append(out, m)
	}
	q.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.Before(out[j].IssuedAt) })
	return out
}

// Subscribe registers fn for every published snapshot, optimistic or
// authoritative. fn must not call mutation methods synchronously.
func (q *Queue) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	q.mu.Lock()
	id := q.nextListener
	q.nextListener++
	q.listeners[id] = fn
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		delete(q.listeners, id)
		q.mu.Unlock()
	}
}

// Close stops publishing. In-flight calls finish but their results are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.listeners = make(map[int]func(Snapshot))
}

// update mutates state under mu and publishes the result in order
func (q *Queue) update(fn func() bool) {
	q.pub.Lock()
	defer q.pub.Unlock()

	q.mu.Lock()
	if q.closed || !fn() {
		q.mu.Unlock()
		return
	}
	snap := q.current.Clone()
	listeners := make([]func(Snapshot), 0, len(q.listeners))
	for _, l := range q.listeners {
		listeners = append(listeners, l)
	}
	q.mu.Unlock()

	for _, l := range listeners {
		l(snap.Clone())
	}
}

func (q *Queue) track(kind MutationKind, productID int64) (PendingMutation, bool) {
	m := newPending(kind, productID)
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return m, false
	}
	q.pending[m.ID] = m
	return m, true
}

func (q *Queue) untrack(m PendingMutation, err error) {
	q.mu.Lock()
	delete(q.pending, m.ID)
	q.mu.Unlock()

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.Get().CartMutationsTotal.WithLabelValues(string(m.Kind), outcome).Inc()
	logger.Debug("Cart mutation reconciled", "id", m.ID, "kind", m.Kind, "product_id", m.ProductID,
		"elapsed", time.Since(m.IssuedAt), "error", err)
}

// Reload fetches the authoritative cart and replaces the snapshot. On
// failure the last authoritative snapshot is restored and republished.
func (q *Queue) Reload(ctx context.Context) (Snapshot, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return Snapshot{}, ErrClosed
	}
	q.reloadSeq++
	seq := q.reloadSeq
	q.mu.Unlock()

	listing, err := q.src.Fetch(ctx)

	var result Snapshot
	outcome := "discarded"
	q.update(func() bool {
		if seq < q.appliedSeq {
			outcome = "stale"
			logger.Debug("Discarding stale cart reload", "seq", seq, "applied", q.appliedSeq)
			result = q.current.Clone()
			return false
		}

		if err != nil {
			outcome = "error"
			q.current = q.authoritative.Clone()
			result = q.current.Clone()
			return true
		}

		snap := Aggregate(listing.Items)
		snap.CartID = listing.CartID
		snap.ServerTotal = listing.ServerTotal
		snap.FetchedAt = time.Now()
		q.generation++
		snap.Generation = q.generation

		if snap.TotalMismatch() {
			logger.Warn("Cart total mismatch",
				"client_total", snap.Total.String(),
				"server_total", snap.ServerTotal.Decimal.String(),
				"skipped", snap.Skipped)
			metrics.Get().CartTotalMismatchTotal.Inc()
		}

		outcome = "ok"
		q.appliedSeq = seq
		q.authoritative = snap
		q.current = snap.Clone()
		result = snap.Clone()
		return true
	})
	metrics.Get().CartReloadsTotal.WithLabelValues(outcome).Inc()

	switch {
	case err != nil:
		logger.Warn("Cart reload failed", "error", err)
		return result, fmt.Errorf("reload cart: %w", err)
	case outcome == "discarded":
		return Snapshot{}, ErrClosed
	}
	return result, nil
}

func (q *Queue) reconcile(ctx context.Context, _ error) error {
	_, err := q.Reload(ctx)
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

// RequestAdd shows one more unit of p immediately, asks the backend to add
// it, then reloads whatever the outcome.
func (q *Queue) RequestAdd(ctx context.Context, p Product) error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidProduct, p.ID)
	}
	m, ok := q.track(KindAdd, p.ID)
	if !ok {
		return ErrClosed
	}

	err := optimistic.Speculate(ctx,
		func() {
			q.update(func() bool {
				q.current = q.current.withUnit(p)
				return true
			})
		},
		func(ctx context.Context) error {
			return q.src.AddUnit(ctx, p.ID)
		},
		q.reconcile,
	)
	q.untrack(m, err)
	return err
}

// RequestQuantityChange moves productID toward newQuantity by one unit: an
// add when it is higher than the known quantity, a remove when lower, and
// no call when equal. A reload follows in every case.
func (q *Queue) RequestQuantityChange(ctx context.Context, productID int64, newQuantity int) error {
	if productID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidProduct, productID)
	}
	if newQuantity < 0 {
		return fmt.Errorf("quantity cannot be negative: %d", newQuantity)
	}

	known := q.Snapshot().Quantity(productID)

	var call func(ctx context.Context) error
	kind := KindIncrementRemove
	switch {
	case newQuantity > known:
		kind = KindAdd
		call = func(ctx context.Context) error { return q.src.AddUnit(ctx, productID) }
	case newQuantity < known:
		call = func(ctx context.Context) error { return q.src.RemoveUnit(ctx, productID) }
	default:
		logger.Debug("Quantity unchanged, reloading only", "product_id", productID, "quantity", known)
		if _, err := q.Reload(ctx); err != nil && !errors.Is(err, ErrClosed) {
			return err
		}
		return nil
	}

	m, ok := q.track(kind, productID)
	if !ok {
		return ErrClosed
	}
	err := optimistic.Speculate(ctx, nil, call, q.reconcile)
	q.untrack(m, err)
	return err
}

// RequestRemoveAll drops productID locally. Under RemovePerUnit it then
// removes every known unit one call at a time and reloads.
func (q *Queue) RequestRemoveAll(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidProduct, productID)
	}
	m, ok := q.track(KindRemoveAll, productID)
	if !ok {
		return ErrClosed
	}

	var units int
	apply := func() {
		q.update(func() bool {
			units = q.current.Quantity(productID)
			if units == 0 {
				return false
			}
			q.current = q.current.without(productID)
			return true
		})
	}

	if q.policy == RemoveLocal {
		apply()
		q.untrack(m, nil)
		return nil
	}

	err := optimistic.Speculate(ctx, apply,
		func(ctx context.Context) error {
			for i := 0; i < units; i++ {
				if err := q.src.RemoveUnit(ctx, productID); err != nil {
					return fmt.Errorf("remove unit %d of %d: %w", i+1, units, err)
				}
			}
			return nil
		},
		q.reconcile,
	)
	q.untrack(m, err)
	return err
}
