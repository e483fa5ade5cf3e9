package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/formatter"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/output"
	"github.com/zfogg/socialcommerce/cli/pkg/prompter"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

// AuthService signs the CLI in with a token issued by the web sign-in flow
type AuthService struct {
	api     *api.Client
	sess    *session.Session
	prompt  *prompter.Prompter
	baseURL string
}

// NewAuthService creates a new auth service
func NewAuthService(c *api.Client, sess *session.Session, prompt *prompter.Prompter, baseURL string) *AuthService {
	return &AuthService{api: c, sess: sess, prompt: prompt, baseURL: baseURL}
}

// tokenFrom accepts either a bare token or the full callback URL
func tokenFrom(input string) (string, error) {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return session.ParseCallback(input)
	}
	if input == "" {
		return "", session.ErrMissingToken
	}
	return input, nil
}

// Login stores the token, then identifies the user behind it
func (s *AuthService) Login(ctx context.Context, input string) error {
	if s.sess.IsActive() && s.prompt != nil {
		output.PrintWarning("Already logged in as %s", s.sess.UserID())
		ok, err := s.prompt.Confirm("Replace the current session?")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if strings.TrimSpace(input) == "" {
		if s.prompt == nil {
			return session.ErrMissingToken
		}
		output.PrintInfo("Sign in at %s, then paste the token or the callback URL.", session.SignInURL(s.baseURL))
		var err error
		if input, err = s.prompt.Secret("Token: "); err != nil {
			return err
		}
	}

	token, err := tokenFrom(input)
	if err != nil {
		return err
	}
	if err := s.sess.Login(token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	user, err := s.api.GetLoggedInUser(ctx)
	if err != nil {
		logger.Warn("Token rejected while identifying user", "error", err)
		return fmt.Errorf("failed to load your profile: %w", err)
	}
	if err := s.sess.Identify(user.UserID, user.Activated); err != nil {
		return err
	}

	output.PrintSuccess("Login successful!")
	output.PrintInfo("Logged in as %s", formatter.Bold.Sprint(formatter.OrDash(user.FullName())))
	if !user.Activated {
		output.PrintWarning("Your profile is not activated yet. Run 'socialcommerce-cli profile update' to complete it.")
	}
	return nil
}

// Logout forgets the session
func (s *AuthService) Logout() error {
	if s.sess.State() == session.StateLoggedOut {
		output.PrintWarning("Not logged in")
		return nil
	}
	if err := s.sess.Logout(); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	output.PrintSuccess("Logged out")
	return nil
}

// Status shows the session lifecycle state
func (s *AuthService) Status() error {
	fields := []output.Field{{Key: "State", Value: s.sess.State().String()}}
	if s.sess.State() != session.StateLoggedOut {
		fields = append(fields,
			output.Field{Key: "User ID", Value: formatter.OrDash(s.sess.UserID())},
			output.Field{Key: "Activated", Value: s.sess.Activated()},
		)
		if at := s.sess.LoggedInAt(); !at.IsZero() {
			fields = append(fields, output.Field{Key: "Logged in", Value: formatter.TimeAgo(at)})
		}
	}
	if err := output.PrintRecord("Session", fields); err != nil {
		return err
	}
	if s.sess.State() == session.StateExpired && !output.IsJSON() {
		output.PrintWarning("Your session has expired. Run 'socialcommerce-cli auth login' to sign in again.")
	}
	return nil
}

// SignInURL prints the browser sign-in address
func (s *AuthService) SignInURL() {
	printf("%s\n", session.SignInURL(s.baseURL))
}
