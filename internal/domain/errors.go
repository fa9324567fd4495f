package domain

import "fmt"

// ValidationError rejects a URL before any tracking record is created.
type ValidationError struct {
	URL    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product url %q: %s", e.URL, e.Reason)
}

// FetchErrorKind classifies transport-level failures.
type FetchErrorKind string

const (
	FetchTimeout     FetchErrorKind = "timeout"
	FetchNetwork     FetchErrorKind = "network"
	FetchServerError FetchErrorKind = "server_error"
	FetchBlocked     FetchErrorKind = "blocked"
)

// FetchError is a failed page retrieval. Timeout, Network and ServerError
// are transient and retried with backoff; Blocked is never retried within
// the same poll cycle.
type FetchError struct {
	Kind   FetchErrorKind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Transient reports whether the failure is worth retrying immediately.
func (e *FetchError) Transient() bool {
	return e.Kind != FetchBlocked
}

// ExtractionReason classifies adapter-side parse failures.
type ExtractionReason string

const (
	MissingField     ExtractionReason = "missing_field"
	LayoutChanged    ExtractionReason = "layout_changed"
	AmbiguousContent ExtractionReason = "ambiguous_content"
)

// ExtractionError is a page that fetched fine but could not be parsed into
// a product. Not retried within a cycle: the markup will not change by
// fetching it again immediately.
type ExtractionError struct {
	Reason ExtractionReason
	Field  string
}

func (e *ExtractionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("extract: %s (%s)", e.Reason, e.Field)
	}
	return fmt.Sprintf("extract: %s", e.Reason)
}

// UnsupportedStoreError is returned when no adapter handles a store kind.
type UnsupportedStoreError struct {
	Store StoreKind
}

func (e *UnsupportedStoreError) Error() string {
	return fmt.Sprintf("no adapter for store %q", e.Store)
}
