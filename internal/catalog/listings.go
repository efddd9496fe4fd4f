package catalog

import "sync"

// ListingSet is a locally cached collection of listings keyed by product id.
// External code pushes live product-row changes into it; each push is an
// idempotent full-row replacement, never a delta.
type ListingSet struct {
	mu       sync.RWMutex
	listings map[string]Listing
}

func NewListingSet() *ListingSet {
	return &ListingSet{listings: make(map[string]Listing)}
}

// Replace swaps the entire cached set for the given listings.
func (s *ListingSet) Replace(listings []Listing) {
	next := make(map[string]Listing, len(listings))
	for _, l := range listings {
		next[l.ProductID] = l
	}
	s.mu.Lock()
	s.listings = next
	s.mu.Unlock()
}

// Upsert applies one pushed row. Re-applying the same row is a no-op.
func (s *ListingSet) Upsert(l Listing) {
	s.mu.Lock()
	s.listings[l.ProductID] = l
	s.mu.Unlock()
}

// Remove drops the listing with the given product id, if present.
func (s *ListingSet) Remove(productID string) {
	s.mu.Lock()
	delete(s.listings, productID)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current listings.
func (s *ListingSet) Snapshot() []Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, l)
	}
	return out
}

// Len reports the number of cached listings.
func (s *ListingSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}
