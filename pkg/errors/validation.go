package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeName validates the name used to look up the containment root.
//
// Names are matched verbatim against node data, so only obviously broken
// input is rejected:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 1024 characters
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "target node name cannot be empty")
	}

	if len(name) > 1024 {
		return New(ErrCodeInvalidInput, "target node name too long (max 1024 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "target node name contains invalid control characters")
		}
	}

	return nil
}

// layoutNameRegex matches CyREST layout algorithm identifiers
// (e.g. "hierarchical", "allegro-spring-electric", "force-directed").
var layoutNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateLayoutName validates the shape of a layout identifier.
// The set of valid layouts is defined by the server and is not checked here;
// this only guarantees the name is safe to place in a URL path segment.
func ValidateLayoutName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "layout name cannot be empty")
	}
	if !layoutNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid layout name: %q", name)
	}
	return nil
}

// ValidateBaseURL validates the CyREST base URL.
// It must be absolute, use http or https, and name a host.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "base URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid base URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidConfig, "base URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidConfig, "base URL must include a host")
	}

	return nil
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
