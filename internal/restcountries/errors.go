package restcountries

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// ErrNoCountry is returned for every non-2xx response. A 404 (no match) and a
// 500 are deliberately not told apart.
var ErrNoCountry = errors.New("Oops, there is no country with that name")

// NetworkError reports a transport failure reaching the API
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "Network error: " + Describe(e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError reports a 2xx body that is not a list of countries
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "Unexpected response from country service: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Describe turns a transport error into a short, user-facing sentence.
// It unwraps the error chain and checks well-known error types before
// falling back to matching on the error text.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	// Context errors first, they are wrapped inside url.Error
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "request timed out"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "DNS resolution failed - check your network connection"
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return "TLS certificate signed by unknown authority"
	}
	var invalidCert x509.CertificateInvalidError
	if errors.As(err, &invalidCert) {
		return "TLS certificate is invalid"
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return "TLS hostname mismatch"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return "connection timed out"
		}
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) {
			switch errno {
			case syscall.ECONNREFUSED:
				return "connection refused - the country service is not reachable"
			case syscall.ECONNRESET:
				return "connection reset by server"
			case syscall.ENETUNREACH:
				return "network unreachable - check your network connection"
			case syscall.EHOSTUNREACH:
				return "host unreachable"
			}
		}
	}

	return describeText(err.Error())
}

// describeText categorizes errors by their message when no typed error matched
func describeText(errStr string) string {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "proxy"):
		return "proxy connection failed"
	case strings.Contains(errLower, "no such host"),
		strings.Contains(errLower, "dial tcp: lookup"):
		return "DNS resolution failed - check your network connection"
	case strings.Contains(errLower, "connection refused"):
		return "connection refused - the country service is not reachable"
	case strings.Contains(errLower, "connection reset"):
		return "connection reset by server"
	case strings.Contains(errLower, "network is unreachable"),
		strings.Contains(errLower, "no route to host"):
		return "network unreachable - check your network connection"
	case strings.Contains(errLower, "x509"),
		strings.Contains(errLower, "tls"),
		strings.Contains(errLower, "certificate"):
		return "TLS error: " + errStr
	case strings.Contains(errLower, "stopped after") && strings.Contains(errLower, "redirect"):
		return "too many redirects"
	case strings.Contains(errLower, "eof"):
		return "connection closed unexpectedly"
	case strings.Contains(errLower, "timeout"),
		strings.Contains(errLower, "timed out"):
		return "request timed out"
	}

	return errStr
}
