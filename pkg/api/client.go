package api

import (
	"github.com/go-resty/resty/v2"
	"github.com/zfogg/socialcommerce/cli/pkg/client"
)

// Client issues typed calls against the backend
type Client struct {
	http *resty.Client
}

// NewClient wraps a resty client built by client.New
func NewClient(http *resty.Client) *Client {
	return &Client{http: http}
}

// Default wraps the process-wide client
func Default() *Client {
	return NewClient(client.GetClient())
}
