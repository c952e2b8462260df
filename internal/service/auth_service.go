package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/observability"
)

// RegisterForm is what the user types on sign-up
type RegisterForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

type AuthService struct {
	api      API
	session  Session
	notifier Notifier
}

func NewAuthService(api API, session Session, notifier Notifier) *AuthService {
	return &AuthService{api: api, session: session, notifier: notifier}
}

// Login exchanges credentials for a token and stores the session
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	logger := observability.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		notify(s.notifier, domain.SeverityWarn, "Attention", "Fill in email and password")
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	resp, err := s.api.Login(ctx, domain.LoginRequest{Email: email, Password: password})
	if err == nil && (resp.Token == "" || resp.User == nil) {
		err = ErrInvalidResponse
	}
	if err != nil {
		logger.Warn("Login failed", slog.String("error", err.Error()))
		notify(s.notifier, domain.SeverityError, "Login failed", "Invalid email or password")
		return nil, err
	}

	if err := s.session.SetAuth(ctx, resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	logger.Info("User logged in", slog.String("user_id", resp.User.ID))
	notify(s.notifier, domain.SeveritySuccess, "Logged in", "Welcome back!")
	return resp.User, nil
}

// Register validates the form locally and creates the account. It does not
// log the user in.
func (s *AuthService) Register(ctx context.Context, form RegisterForm) (string, error) {
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Email) == "" || form.Password == "" {
		notify(s.notifier, domain.SeverityWarn, "Attention", "Fill in all required fields")
		return "", fmt.Errorf("%w: name, email and password are required", domain.ErrInvalidInput)
	}
	if form.Password != form.ConfirmPassword {
		notify(s.notifier, domain.SeverityError, "Error", "Passwords do not match")
		return "", fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}
	if !form.AcceptTerms {
		notify(s.notifier, domain.SeverityWarn, "Attention", "Accept the terms to continue")
		return "", fmt.Errorf("%w: terms not accepted", domain.ErrInvalidInput)
	}

	resp, err := s.api.Register(ctx, domain.RegisterRequest{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})
	if err != nil {
		notify(s.notifier, domain.SeverityError, "Registration failed", "Email already registered or server error")
		return "", err
	}

	notify(s.notifier, domain.SeveritySuccess, "Account created", "Log in to continue")
	return resp.UserID, nil
}

// Me refreshes the cached profile. Any failure ends the session, since the
// stored token can no longer be trusted.
func (s *AuthService) Me(ctx context.Context) (*domain.Profile, error) {
	if !s.session.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	profile, err := s.api.Me(ctx)
	if err != nil {
		observability.FromContext(ctx).Warn("Profile fetch failed, logging out", slog.String("error", err.Error()))
		if logoutErr := s.session.Logout(ctx); logoutErr != nil {
			return nil, errors.Join(err, logoutErr)
		}
		return nil, err
	}

	user := profile.User
	if err := s.session.UpdateUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}
	return profile, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	notify(s.notifier, domain.SeverityInfo, "Logged out", "See you soon")
	return nil
}
