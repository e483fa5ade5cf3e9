package api

import (
	"context"
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

// GetLoggedInUser returns the user the session token belongs to
func (c *Client) GetLoggedInUser(ctx context.Context) (*User, error) {
	logger.Debug("Fetching logged-in user")

	resp, err := c.http.R().
		SetContext(ctx).
		Get("/users/get-logged-in-user")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return nil, fmt.Errorf("decode logged-in user: %w", err)
	}
	if user.UserID == "" {
		return nil, fmt.Errorf("logged-in user response has no userId")
	}
	return &user, nil
}

// GetUser returns a public profile
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	logger.Debug("Fetching user", "user_id", userID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("userId", userID).
		Get("/users/{userId}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// UpdateProfile completes or edits the logged-in user's profile. A
// successful update activates the account.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	logger.Debug("Updating profile", "has_image", req.ProfileImagePath != "")

	r := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"phoneNumber":   req.PhoneNumber,
			"streetAddress": req.StreetAddress,
			"state":         req.State,
			"country":       req.Country,
		})
	if req.ProfileImagePath != "" {
		r.SetFile("profileImage", req.ProfileImagePath)
	}

	resp, err := r.Put("/users/profile")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return nil, fmt.Errorf("decode updated user: %w", err)
	}
	return &user, nil
}

// FollowUser follows userID
func (c *Client) FollowUser(ctx context.Context, userID string) error {
	logger.Debug("Following user", "user_id", userID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("userId", userID).
		Put("/users/follow/{userId}")
	return CheckResponse(resp, err)
}
