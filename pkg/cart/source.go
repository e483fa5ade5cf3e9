package cart

import (
	"context"

	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/zfogg/socialcommerce/cli/pkg/api"
)

// Listing is the authoritative cart as fetched
type Listing struct {
	CartID      string
	Items       []LineItem
	ServerTotal decimal.NullDecimal
}

// Source is the backend the queue reconciles against
type Source interface {
	// AddUnit adds exactly one unit
	AddUnit(ctx context.Context, productID int64) error
	// RemoveUnit removes exactly one unit
	RemoveUnit(ctx context.Context, productID int64) error
	Fetch(ctx context.Context) (*Listing, error)
}

// RemoteSource talks to the REST backend
type RemoteSource struct {
	client *api.Client
}

// NewRemoteSource returns a Source backed by c
func NewRemoteSource(c *api.Client) *RemoteSource {
	return &RemoteSource{client: c}
}

func (r *RemoteSource) AddUnit(ctx context.Context, productID int64) error {
	return r.client.AddToCart(ctx, productID)
}

func (r *RemoteSource) RemoveUnit(ctx context.Context, productID int64) error {
	return r.client.RemoveFromCart(ctx, productID)
}

func (r *RemoteSource) Fetch(ctx context.Context) (*Listing, error) {
	c, err := r.client.GetCart(ctx)
	if err != nil {
		return nil, err
	}

	listing := &Listing{Items: make([]LineItem, 0, len(c.Products))}
	if len(c.CartID) > 0 {
		if v := json.Get(c.CartID); v.ValueType() == json.NumberValue || v.ValueType() == json.StringValue {
			listing.CartID = v.ToString()
		}
	}
	if total, err := api.ParseAmount(c.TotalAmount); err == nil {
		listing.ServerTotal = decimal.NewNullDecimal(total)
	}
	for _, p := range c.Products {
		listing.Items = append(listing.Items, LineItem{
			ProductID: p.ProductID,
			Name:      p.Name,
			Amount:    p.Amount,
			ImageURL:  p.ImageURL,
			Quantity:  p.Quantity,
		})
	}
	return listing, nil
}
