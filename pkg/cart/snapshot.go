// Package cart folds the backend's per-unit cart listing into quantities
// and applies optimistic mutations that are always reconciled by a reload.
package cart

import (
	"time"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// LineItem is one priced unit as the backend lists it. ProductID and
// Amount stay raw so malformed units are caught during aggregation.
type LineItem struct {
	ProductID json.RawMessage
	Name      string
	Amount    json.RawMessage
	ImageURL  string
	Quantity  json.RawMessage
}

// Entry is one product in the cart with its unit count
type Entry struct {
	ProductID  int64           `json:"productId"`
	Name       string          `json:"name"`
	UnitAmount decimal.Decimal `json:"unitAmount"`
	ImageURL   string          `json:"imageUrl,omitempty"`
	Quantity   int             `json:"quantity"`
}

// Snapshot is an immutable view of the cart. Entries keep first-seen order.
type Snapshot struct {
	CartID      string              `json:"cartId,omitempty"`
	Entries     []Entry             `json:"entries"`
	Total       decimal.Decimal     `json:"total"`
	ServerTotal decimal.NullDecimal `json:"serverTotal"`
	Generation  uint64              `json:"generation"`
	FetchedAt   time.Time           `json:"fetchedAt"`
	Skipped     int                 `json:"skipped,omitempty"`
	// Optimistic is set while local changes are waiting for a reload
	Optimistic bool `json:"optimistic,omitempty"`
}

// Clone copies the entry slice so the copy can be handed out. Entries is
// never nil in the copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Entries = make([]Entry, len(s.Entries))
	copy(c.Entries, s.Entries)
	return c
}

func (s Snapshot) index(productID int64) int {
	for i, e := range s.Entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}

// Find returns the entry for productID
func (s Snapshot) Find(productID int64) (Entry, bool) {
	if i := s.index(productID); i >= 0 {
		return s.Entries[i], true
	}
	return Entry{}, false
}

// Quantity returns the unit count of productID, 0 when absent
func (s Snapshot) Quantity(productID int64) int {
	e, _ := s.Find(productID)
	return e.Quantity
}

// Units is the number of units in the cart
func (s Snapshot) Units() int {
	n := 0
	for _, e := range s.Entries {
		n += e.Quantity
	}
	return n
}

// IsEmpty reports whether the cart holds nothing
func (s Snapshot) IsEmpty() bool {
	return len(s.Entries) == 0
}

// TotalMismatch reports whether the backend's total disagrees with the
// sum of the units
func (s Snapshot) TotalMismatch() bool {
	return s.ServerTotal.Valid && !s.ServerTotal.Decimal.Equal(s.Total)
}

// Product is what the caller knows about a product being added
type Product struct {
	ID       int64
	Name     string
	Amount   decimal.Decimal
	ImageURL string
}

// withUnit returns a copy with one more unit of p
func (s Snapshot) withUnit(p Product) Snapshot {
	c := s.Clone()
	c.Optimistic = true
	if i := c.index(p.ID); i >= 0 {
		c.Entries[i].Quantity++
		c.Total = c.Total.Add(c.Entries[i].UnitAmount)
		return c
	}
	c.Entries = append(c.Entries, Entry{
		ProductID:  p.ID,
		Name:       p.Name,
		UnitAmount: p.Amount,
		ImageURL:   p.ImageURL,
		Quantity:   1,
	})
	c.Total = c.Total.Add(p.Amount)
	return c
}

// without returns a copy with productID removed entirely
func (s Snapshot) without(productID int64) Snapshot {
	c := s.Clone()
	i := c.index(productID)
	if i < 0 {
		return c
	}
	c.Optimistic = true
	e := c.Entries[i]
	c.Total = c.Total.Sub(e.UnitAmount.Mul(decimal.NewFromInt(int64(e.Quantity))))
	c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
	return c
}

// MutationKind names a queued intent
type MutationKind string

const (
	KindAdd             MutationKind = "add"
	KindIncrementRemove MutationKind = "increment_remove"
	KindRemoveAll       MutationKind = "remove_all"
)

// PendingMutation exists between an intent and its reconciliation
type PendingMutation struct {
	ID        uuid.UUID    `json:"id"`
	Kind      MutationKind `json:"kind"`
	ProductID int64        `json:"productId"`
	IssuedAt  time.Time    `json:"issuedAt"`
}

func newPending(kind MutationKind, productID int64) PendingMutation {
	return PendingMutation{
		ID:        uuid.New(),
		Kind:      kind,
		ProductID: productID,
		IssuedAt:  time.Now(),
	}
}
