// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	"sessionctl/cli/internal/logging"

	"github.com/pterm/pterm"
)

// Category names the kind of network failure.
type Category string

const (
	CategoryTimeout Category = "timeout"
	CategoryDNS     Category = "dns"
	CategoryRefused Category = "connection_refused"
	CategoryTLS     Category = "tls"
	CategoryServer  Category = "server"
	CategoryGeneric Category = "generic"
)

// Classify returns the category of a transport or server error.
func Classify(err error) Category {
	if err == nil {
		return CategoryGeneric
	}
	switch {
	case isTimeoutError(err):
		return CategoryTimeout
	case isDNSError(err):
		return CategoryDNS
	case isConnectionRefusedError(err):
		return CategoryRefused
	case isSSLError(err):
		return CategoryTLS
	case isServerError(err):
		return CategoryServer
	}
	return CategoryGeneric
}

// FormatNetworkError writes a troubleshooting message for err to w and
// returns err wrapped for logging. host names the API server.
func FormatNetworkError(w io.Writer, err error, context, host string) error {
	if err == nil {
		return nil
	}
	Explain(w, err, context, host)
	return fmt.Errorf("network error: %w", err)
}

type advice struct {
	headline string
	intro    string
	checks   []string
	closing  string
}

func adviceFor(c Category, host string) advice {
	switch c {
	case CategoryTimeout:
		return advice{
			headline: "Timed out",
			intro:    "The API did not answer in time. Common causes:",
			checks:   []string{"a slow or congested network", "the API is overloaded", "a firewall dropping the connection"},
			closing:  "Try again in a moment.",
		}
	case CategoryDNS:
		return advice{
			headline: "Cannot resolve " + host,
			intro:    "The API host name could not be looked up. Check:",
			checks:   []string{"that you are online", "the api_url setting ('sessionctl config show')", "DNS filtering on this network"},
		}
	case CategoryRefused:
		return advice{
			headline: "Connection refused by " + host,
			intro:    "Nothing is accepting connections at that address. Check:",
			checks:   []string{"that the API server is running", "the port in api_url", "local firewall rules"},
		}
	case CategoryTLS:
		return advice{
			headline: "Secure connection failed",
			intro:    "The HTTPS handshake with the API failed. Check:",
			checks:   []string{"the system clock", "proxy settings that intercept HTTPS", "whether api_url should use http:// for a local server"},
		}
	case CategoryServer:
		return advice{
			headline: "Server error",
			intro:    "The account API failed while handling the request.",
			closing:  "Your stored session is unaffected. Try again in a few minutes.",
		}
	}
	return advice{
		headline: "Cannot reach " + host,
		intro:    "Check:",
		checks:   []string{"your internet connection", "the api_url setting ('sessionctl config show')"},
	}
}

// Explain writes the troubleshooting text for err without wrapping it.
func Explain(w io.Writer, err error, context, host string) {
	a := adviceFor(Classify(err), host)
	pterm.Error.WithWriter(w).Printfln("%s while %s", a.headline, context)
	fmt.Fprintln(w, a.intro)
	for _, c := range a.checks {
		fmt.Fprintf(w, "  • %s\n", c)
	}
	if a.closing != "" {
		fmt.Fprintln(w, a.closing)
	}

	details := logging.Mask(err.Error())
	if len(details) > 100 {
		details = details[:100] + "..."
	}
	pterm.Debug.WithWriter(w).Printfln("Technical details: %s", details)
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	// Check for timeout in error message
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	// Check for net.Error with Timeout()
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	if err == nil {
		return false
	}

	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "ssl") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError reports a 5xx status, either carried by the error or
// mentioned in its text.
func isServerError(err error) bool {
	var se interface{ StatusCode() int }
	if errors.As(err, &se) {
		return se.StatusCode() >= 500
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "500") ||
		strings.Contains(lower, "502") ||
		strings.Contains(lower, "503") ||
		strings.Contains(lower, "504") ||
		strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable") ||
		strings.Contains(lower, "gateway timeout")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
