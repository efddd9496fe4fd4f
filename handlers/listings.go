package handlers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"marketplace/internal/auth"
	"marketplace/internal/catalog"
	"marketplace/internal/products"
	"marketplace/pkg/logkey"
)

// listingCache keeps one catalog listing snapshot per seller role. Reads are
// served from the snapshot while it is fresh; product mutations patch it in
// place as idempotent full-row replacements keyed by product id, and a stale
// snapshot is rebuilt from the database on the next read.
type listingCache struct {
	mu       sync.Mutex
	sets     map[string]*catalog.ListingSet
	loadedAt map[string]time.Time
	maxAge   time.Duration
}

func newListingCache() *listingCache {
	return &listingCache{
		sets: map[string]*catalog.ListingSet{
			auth.RoleRetailer:   catalog.NewListingSet(),
			auth.RoleWholesaler: catalog.NewListingSet(),
		},
		loadedAt: make(map[string]time.Time),
		maxAge:   30 * time.Second,
	}
}

// snapshot returns the cached listings for the role, or ok=false when the
// snapshot is stale or the role has no listing set.
func (c *listingCache) snapshot(role string) ([]catalog.Listing, bool) {
	set := c.sets[role]
	if set == nil {
		return nil, false
	}
	c.mu.Lock()
	fresh := time.Since(c.loadedAt[role]) <= c.maxAge
	c.mu.Unlock()
	if !fresh {
		return nil, false
	}
	return set.Snapshot(), true
}

// store swaps in a freshly loaded snapshot for the role.
func (c *listingCache) store(role string, listings []catalog.Listing) {
	set := c.sets[role]
	if set == nil {
		return
	}
	set.Replace(listings)
	c.mu.Lock()
	c.loadedAt[role] = time.Now()
	c.mu.Unlock()
}

// upsert applies one pushed product row to the role's listing set.
func (c *listingCache) upsert(role string, l catalog.Listing) {
	if set := c.sets[role]; set != nil {
		set.Upsert(l)
	}
}

// remove drops a product from every listing set. Removing an absent id is a
// no-op, so depletion and deletion paths may both call it.
func (c *listingCache) remove(productID string) {
	for _, set := range c.sets {
		set.Remove(productID)
	}
}

// catalogListings serves the grouped-catalog input for a seller role, from
// the cache when fresh and from the database otherwise.
func (h *Handler) catalogListings(ctx context.Context, sellerRole string) ([]catalog.Listing, error) {
	if listings, ok := h.lc.snapshot(sellerRole); ok {
		return listings, nil
	}
	listings, err := h.p.ListCatalogListings(ctx, sellerRole)
	if err != nil {
		return nil, err
	}
	h.lc.store(sellerRole, listings)
	return listings, nil
}

// pushListing reflects a product mutation into the listing cache. Out-of-stock
// rows leave the catalog immediately; push failures are only logged because
// the stale snapshot ages out on its own.
func (h *Handler) pushListing(ctx context.Context, p products.Product, traceId string) {
	if p.Stock <= 0 {
		h.lc.remove(p.ID)
		return
	}
	profile, err := h.pr.GetProfile(ctx, p.SellerID)
	if err != nil {
		slog.Error("failed to resolve seller for listing push", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		return
	}
	h.lc.upsert(profile.Role, catalog.Listing{
		ProductID:          p.ID,
		SellerID:           p.SellerID,
		SellerName:         profile.FullName,
		SellerBusinessName: profile.BusinessName,
		Name:               p.Name,
		Description:        p.Description,
		Category:           p.Category,
		Price:              p.Price,
		Stock:              p.Stock,
		IsLocalSpecialty:   p.IsLocalSpecialty,
		SellerLocation:     profile.Location,
	})
}
