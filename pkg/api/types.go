package api

import (
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the backend's error body. Spring answers with either
// "message" or "error".
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// User is the logged-in user or a profile looked up by ID
type User struct {
	UserID          string          `json:"userId"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Email           string          `json:"email"`
	Activated       bool            `json:"activated"`
	PhoneNumber     string          `json:"phoneNumber"`
	Address         json.RawMessage `json:"address,omitempty"`
	ProfileImageURL string          `json:"profileImageUrl"`
}

// FullName joins first and last name
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// AddressString flattens the address, which the backend sends either as a
// string or as an object of strings
func (u User) AddressString() string {
	if len(u.Address) == 0 {
		return ""
	}
	v := json.Get(u.Address)
	switch v.ValueType() {
	case json.StringValue:
		return v.ToString()
	case json.ObjectValue:
		var parts []string
		for _, key := range []string{"streetAddress", "state", "country"} {
			if field := v.Get(key); field.ValueType() == json.StringValue && field.ToString() != "" {
				parts = append(parts, field.ToString())
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// UpdateProfileRequest is sent as multipart to PUT /users/profile
type UpdateProfileRequest struct {
	PhoneNumber   string
	StreetAddress string
	State         string
	Country       string
	// ProfileImagePath is optional
	ProfileImagePath string
}

// Product is a catalog item. The backend names the ID either productId or id.
type Product struct {
	ID       int64           `json:"-"`
	RawID    json.RawMessage `json:"productId,omitempty"`
	RawAltID json.RawMessage `json:"id,omitempty"`
	UserID   string          `json:"userId"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	ImageURL string          `json:"imageUrl"`
}

// UploadProductRequest is sent as multipart to POST /products
type UploadProductRequest struct {
	ImagePath string
	Name      string
	Amount    decimal.Decimal
}

// Comment on a post
type Comment struct {
	CommentID       int64  `json:"commentId"`
	Comment         string `json:"comment"`
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profileImageUrl"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// Post is a video with tagged products
type Post struct {
	PostID          int64     `json:"postId"`
	ContentURL      string    `json:"contentUrl"`
	Caption         string    `json:"caption"`
	UserID          string    `json:"userId"`
	FullName        string    `json:"fullName"`
	ProfileImageURL string    `json:"profileImageUrl"`
	Products        []Product `json:"products"`
	Likes           int       `json:"likes"`
	Liked           bool      `json:"liked"`
	CreatedAt       string    `json:"createdAt"`
	Comments        []Comment `json:"comments"`
}

// CreatePostRequest is sent as multipart to POST /posts
type CreatePostRequest struct {
	VideoPath  string
	Caption    string
	ProductIDs []int64
}

// CartProduct is one priced unit as returned by GET /carts. The numeric
// fields stay raw so malformed entries can be skipped downstream.
type CartProduct struct {
	ProductID json.RawMessage `json:"productId"`
	Name      string          `json:"name"`
	Amount    json.RawMessage `json:"amount"`
	ImageURL  string          `json:"imageUrl"`
	Quantity  json.RawMessage `json:"quantity,omitempty"`
}

// Cart is the authoritative cart
type Cart struct {
	CartID      json.RawMessage `json:"cartId"`
	TotalAmount json.RawMessage `json:"totalAmount"`
	Products    []CartProduct   `json:"products"`
}

// CheckoutResponse carries the hosted checkout page
type CheckoutResponse struct {
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
	Message     string `json:"message,omitempty"`
}

// OrderProduct is a purchased product
type OrderProduct struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	UserID    string          `json:"userId"`
	ProductID int64           `json:"productId"`
}

// Order is a checkout result
type Order struct {
	OrderID     string          `json:"orderId"`
	UserID      string          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Paid        bool            `json:"paid"`
	Products    []OrderProduct  `json:"products"`
}

// Message in a conversation room
type Message struct {
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
	RoomID    string `json:"roomId"`
	Sender    string `json:"sender"`
	SenderID  string `json:"senderId"`
	CreatedAt string `json:"createdAt"`
	Type      string `json:"type"`
}

// Conversation is a two-party room
type Conversation struct {
	RoomID     string    `json:"roomId"`
	FirstUser  string    `json:"firstUser"`
	SecondUser string    `json:"secondUser"`
	Messages   []Message `json:"messages"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

// Peer returns the participant that is not userID
func (c Conversation) Peer(userID string) string {
	if c.FirstUser == userID {
		return c.SecondUser
	}
	return c.FirstUser
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTime reads the backend's timestamps, which may omit the zone
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
