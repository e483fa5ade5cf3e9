package service

import (
	"context"
	"fmt"
	"os"

	"github.com/zfogg/socialcommerce/cli/pkg/api"
	clierrors "github.com/zfogg/socialcommerce/cli/pkg/errors"
	"github.com/zfogg/socialcommerce/cli/pkg/formatter"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/output"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

// ProfileService shows and edits user profiles
type ProfileService struct {
	api  *api.Client
	sess *session.Session
}

// NewProfileService creates a new profile service
func NewProfileService(c *api.Client, sess *session.Session) *ProfileService {
	return &ProfileService{api: c, sess: sess}
}

// Me displays the logged-in user and refreshes the session's identity
func (ps *ProfileService) Me(ctx context.Context) error {
	if err := requireSession(ps.sess); err != nil {
		return err
	}

	user, err := ps.api.GetLoggedInUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	if err := ps.sess.Identify(user.UserID, user.Activated); err != nil {
		logger.Warn("Failed to update session identity", "error", err)
	}
	return displayUser(user)
}

// Show displays another user's profile
func (ps *ProfileService) Show(ctx context.Context, userID string) error {
	user, err := ps.api.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	return displayUser(user)
}

// Follow follows a user
func (ps *ProfileService) Follow(ctx context.Context, userID string) error {
	if err := requireSession(ps.sess); err != nil {
		return err
	}
	if userID == ps.sess.UserID() {
		return clierrors.ValidationError("user", "you cannot follow yourself")
	}

	if err := ps.api.FollowUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	output.PrintSuccess("Now following %s", userID)
	return nil
}

// Update completes or edits the profile. The backend activates the account
// on the first successful update.
func (ps *ProfileService) Update(ctx context.Context, req api.UpdateProfileRequest) error {
	if err := requireSession(ps.sess); err != nil {
		return err
	}
	if req.ProfileImagePath != "" {
		if _, err := os.Stat(req.ProfileImagePath); err != nil {
			return clierrors.FileNotFoundError(req.ProfileImagePath)
		}
	}

	user, err := ps.api.UpdateProfile(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	wasActivated := ps.sess.Activated()
	if err := ps.sess.Identify(user.UserID, user.Activated); err != nil {
		logger.Warn("Failed to update session identity", "error", err)
	}

	if output.IsJSON() {
		return output.Print("", user)
	}
	if user.Activated && !wasActivated {
		output.PrintSuccess("Profile activated!")
	} else {
		output.PrintSuccess("Profile updated")
	}
	return nil
}

func displayUser(u *api.User) error {
	if output.IsJSON() {
		return output.Print("", u)
	}
	return output.PrintRecord(formatter.OrDash(u.FullName()), []output.Field{
		{Key: "User ID", Value: u.UserID},
		{Key: "Email", Value: formatter.OrDash(u.Email)},
		{Key: "Phone", Value: formatter.OrDash(u.PhoneNumber)},
		{Key: "Address", Value: formatter.OrDash(u.AddressString())},
		{Key: "Activated", Value: u.Activated},
	})
}
