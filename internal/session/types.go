// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import "context"

// Credentials is the login form. It is never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegistrationRequest is the signup form. It is never persisted.
type RegistrationRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// UserProfile is the authenticated identity as reported by the backend.
type UserProfile struct {
	ID          string  `json:"id" validate:"required"`
	Email       string  `json:"email" validate:"required"`
	IsActive    bool    `json:"is_active"`
	IsSuperuser bool    `json:"is_superuser"`
	FullName    *string `json:"full_name"`
}

// DisplayName returns the full name when set, else the email.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Email
}

// AccessToken is the login response.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Config bundles the backend capabilities the manager drives.
// LoginFn, UserFn and ShowError are required; SignupFn is optional.
type Config struct {
	LoginFn   func(ctx context.Context, c Credentials) (*AccessToken, error)
	UserFn    func(ctx context.Context) (*UserProfile, error)
	SignupFn  func(ctx context.Context, r RegistrationRequest) (*UserProfile, error)
	ShowError func(msg string)
}

// Routes names the navigation targets.
type Routes struct {
	Home  string
	Login string
}

// DefaultRoutes are used when Deps.Routes is zero.
var DefaultRoutes = Routes{Home: "/", Login: "/login"}

// WithDefaults fills empty routes from DefaultRoutes.
func (r Routes) WithDefaults() Routes {
	if r.Home == "" {
		r.Home = DefaultRoutes.Home
	}
	if r.Login == "" {
		r.Login = DefaultRoutes.Login
	}
	return r
}
