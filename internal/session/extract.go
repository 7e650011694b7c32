// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"encoding/json"
	"errors"
	"net/http"
)

// FallbackMessage is shown when an error carries nothing more useful.
const FallbackMessage = "Something went wrong."

// BodyError is implemented by errors that carry the backend's response body.
type BodyError interface {
	error
	ErrorBody() []byte
}

// StatusError is implemented by errors that carry an HTTP status code.
type StatusError interface {
	error
	StatusCode() int
}

type validationItem struct {
	Msg string `json:"msg"`
}

// ExtractErrorMessage picks the message to show for err. An itemized
// validation detail wins over a plain detail string, which wins over the
// error's own text.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return FallbackMessage
	}

	var be BodyError
	if errors.As(err, &be) {
		if msg, ok := detailMessage(be.ErrorBody()); ok {
			return msg
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

func detailMessage(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return "", false
	}

	var items []validationItem
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		return items[0].Msg, true
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s, true
	}
	return "", false
}

// IsSessionInvalid reports whether err carries a 401 or 403 status.
func IsSessionInvalid(err error) bool {
	var se StatusError
	if !errors.As(err, &se) {
		return false
	}
	switch se.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}
