// Package store holds the per-site extraction logic behind a uniform
// adapter interface. Adapters are stateless and perform no network I/O;
// fetching, pacing and retries all live elsewhere.
package store

import (
	"net/url"
	"strings"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// Adapter is the per-store parsing capability.
type Adapter interface {
	// Kind returns the store this adapter handles.
	Kind() domain.StoreKind

	// Validate is a cheap structural check that a URL belongs to this
	// store and plausibly points at a product page rather than a
	// category or search listing. It must not touch the network.
	Validate(rawURL string) bool

	// Extract parses fetched page bytes into a product. It fails with
	// *domain.ExtractionError when a required field cannot be located;
	// it never substitutes defaults for missing data.
	Extract(page []byte) (domain.ParsedProduct, error)
}

// Registry selects adapters by store kind and resolves raw URLs to the
// store that should handle them.
type Registry struct {
	adapters map[domain.StoreKind]Adapter
	ordered  []Adapter
}

// NewRegistry builds a registry with every supported store adapter.
// The generic adapter is consulted last during resolution.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[domain.StoreKind]Adapter)}
	for _, a := range []Adapter{
		&TrendyolAdapter{},
		&HepsiburadaAdapter{},
		&N11Adapter{},
		&AmazonAdapter{},
		&TeknosaAdapter{},
		&MediaMarktAdapter{},
		&GenericAdapter{},
	} {
		r.adapters[a.Kind()] = a
		r.ordered = append(r.ordered, a)
	}
	return r
}

// ByKind returns the adapter for a store kind.
func (r *Registry) ByKind(kind domain.StoreKind) (Adapter, bool) {
	a, ok := r.adapters[kind]
	return a, ok
}

// Parse extracts a product from page bytes using the adapter for kind.
func (r *Registry) Parse(kind domain.StoreKind, page []byte) (domain.ParsedProduct, error) {
	a, ok := r.adapters[kind]
	if !ok {
		return domain.ParsedProduct{}, &domain.UnsupportedStoreError{Store: kind}
	}
	return a.Extract(page)
}

// Resolve maps a raw URL to the store kind that should track it.
// Named stores are tried first; anything else that still looks like a
// product page falls through to the generic adapter.
func (r *Registry) Resolve(rawURL string) (domain.StoreKind, error) {
	for _, a := range r.ordered {
		if a.Kind() == domain.StoreGeneric {
			continue
		}
		if a.Validate(rawURL) {
			return a.Kind(), nil
		}
	}
	if r.adapters[domain.StoreGeneric].Validate(rawURL) {
		return domain.StoreGeneric, nil
	}
	return "", &domain.ValidationError{URL: rawURL, Reason: "not a recognizable product page"}
}

// hostMatches reports whether the URL's host is domain or a subdomain
// of it, over http(s) only.
func hostMatches(rawURL, domainName string) (*url.URL, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	return u, host == domainName || strings.HasSuffix(host, "."+domainName)
}
