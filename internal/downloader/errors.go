package downloader

import (
	"errors"
	"strings"
)

// Category classifies download failures so the session loop can decide how
// loudly to report them. None of these are fatal to the session.
type Category string

const (
	CategoryInvalidURL  Category = "invalid_url"
	CategoryNetwork     Category = "network"
	CategoryRestricted  Category = "restricted"
	CategoryUnsupported Category = "unsupported"
	CategoryFilesystem  Category = "filesystem"
)

// CategorizedError attaches a Category to an underlying error.
type CategorizedError struct {
	Category Category
	Err      error
}

func (e CategorizedError) Error() string {
	return e.Err.Error()
}

func (e CategorizedError) Unwrap() error {
	return e.Err
}

func wrapCategory(category Category, err error) error {
	if err == nil {
		return nil
	}
	return CategorizedError{Category: category, Err: err}
}

// CategoryOf returns the category of an error, or empty for uncategorized errors.
func CategoryOf(err error) Category {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ""
}

// reportedError marks an error whose details were already printed to the
// user; callers should not print it a second time.
type reportedError struct {
	err error
}

func (e reportedError) Error() string {
	return e.err.Error()
}

func (e reportedError) Unwrap() error {
	return e.err
}

func markReported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// IsReported returns true if the error has already been printed to stderr.
func IsReported(err error) bool {
	var re reportedError
	return errors.As(err, &re)
}

// isRestrictedAccess recognizes extraction errors caused by platform-side
// access restrictions rather than transient faults.
func isRestrictedAccess(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	for _, marker := range []string{
		"private",
		"sign in",
		"login required",
		"members only",
		"premium",
		"copyright",
		"unavailable",
		"age-restricted",
		"age restricted",
		"not available",
	} {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

// wrapFetchError categorizes a metadata fetch failure, distinguishing
// restricted content from plain network trouble.
func wrapFetchError(err error, action string) error {
	if err == nil {
		return nil
	}
	category := CategoryNetwork
	if isRestrictedAccess(err) {
		category = CategoryRestricted
	}
	return wrapCategory(category, &actionError{action: action, err: err})
}

type actionError struct {
	action string
	err    error
}

func (e *actionError) Error() string {
	return e.action + ": " + e.err.Error()
}

func (e *actionError) Unwrap() error {
	return e.err
}
