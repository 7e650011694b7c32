// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response. It exposes the status and raw body so the
// session layer can classify it and pull out the backend's detail message.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s failed: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s failed: %d %s", e.Method, e.Path, e.Status, body)
}

// StatusCode returns the HTTP status.
func (e *APIError) StatusCode() int { return e.Status }

// ErrorBody returns the raw response body.
func (e *APIError) ErrorBody() []byte { return e.Body }
