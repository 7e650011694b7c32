// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import "context"

// TokenKey is the fixed storage key for the session token.
const TokenKey = "access_token"

// Cache keys invalidated by the manager.
const (
	CurrentUserKey = "currentUser"
	UsersKey       = "users"
)

// Store is persistent key-value storage that survives process restarts.
// Get reports ok=false for an absent key; Delete of an absent key succeeds.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Cache memoizes backend lookups by key.
type Cache interface {
	Fetch(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error)
	Invalidate(key string)
}

// Router receives navigation effects. Navigate is an in-app transition;
// Redirect is a hard navigation that must discard in-memory session state.
type Router interface {
	Navigate(route string)
	Redirect(route string)
}
