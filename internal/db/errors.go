package db

import (
	"errors"
	"regexp"
	"strings"
)

// Sentinel errors for connection management.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotInitialized indicates no handle has been committed yet.
	ErrNotInitialized = errors.New("connection not initialized")

	// ErrProbeFailed indicates the live round-trip against a new handle failed.
	ErrProbeFailed = errors.New("connection probe failed")

	// ErrUnsupportedDriver indicates the requested SQL driver is not compiled in.
	ErrUnsupportedDriver = errors.New("unsupported driver")
)

var (
	reURLPass = regexp.MustCompile(`(://[^:/@]*:)([^@]+)(@)`)
	reKVPass  = regexp.MustCompile(`(?i)(password=)([^\s;&]+)`)
	reDSNPass = regexp.MustCompile(`^([^:/@]+:)([^@]+)(@)`)
)

// MaskDSN hides passwords in URL, key=value and MySQL style DSNs so they can
// be logged.
func MaskDSN(s string) string {
	out := reKVPass.ReplaceAllString(s, "${1}***")
	if strings.Contains(out, "://") {
		return reURLPass.ReplaceAllString(out, "${1}***${3}")
	}
	return reDSNPass.ReplaceAllString(out, "${1}***${3}")
}
