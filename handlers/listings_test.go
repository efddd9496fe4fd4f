package handlers

import (
	"testing"

	"marketplace/internal/auth"
	"marketplace/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingCacheStaleUntilStored(t *testing.T) {
	lc := newListingCache()

	_, ok := lc.snapshot(auth.RoleRetailer)
	assert.False(t, ok)

	lc.store(auth.RoleRetailer, []catalog.Listing{
		{ProductID: "p1", SellerID: "s1", Name: "Apples", Price: 100, Stock: 5},
	})

	listings, ok := lc.snapshot(auth.RoleRetailer)
	require.True(t, ok)
	require.Len(t, listings, 1)
	assert.Equal(t, "p1", listings[0].ProductID)

	// The wholesaler set is independent and still cold.
	_, ok = lc.snapshot(auth.RoleWholesaler)
	assert.False(t, ok)
}

func TestListingCacheUpsertPatchesSnapshot(t *testing.T) {
	lc := newListingCache()
	lc.store(auth.RoleRetailer, []catalog.Listing{
		{ProductID: "p1", SellerID: "s1", Name: "Apples", Price: 100, Stock: 5},
	})

	lc.upsert(auth.RoleRetailer, catalog.Listing{ProductID: "p1", SellerID: "s1", Name: "Apples", Price: 110, Stock: 4})
	lc.upsert(auth.RoleRetailer, catalog.Listing{ProductID: "p2", SellerID: "s2", Name: "Bananas", Price: 30, Stock: 12})

	listings, ok := lc.snapshot(auth.RoleRetailer)
	require.True(t, ok)
	require.Len(t, listings, 2)

	byID := make(map[string]catalog.Listing, len(listings))
	for _, l := range listings {
		byID[l.ProductID] = l
	}
	assert.Equal(t, 110.0, byID["p1"].Price)
	assert.Equal(t, 4, byID["p1"].Stock)
	assert.Equal(t, "Bananas", byID["p2"].Name)
}

func TestListingCacheRemoveDropsFromEveryRole(t *testing.T) {
	lc := newListingCache()
	lc.store(auth.RoleRetailer, []catalog.Listing{
		{ProductID: "p1", SellerID: "s1", Name: "Apples", Price: 100, Stock: 5},
	})
	lc.store(auth.RoleWholesaler, []catalog.Listing{
		{ProductID: "p1", SellerID: "w1", Name: "Apples Bulk", Price: 60, Stock: 200},
		{ProductID: "p2", SellerID: "w1", Name: "Rice Bulk", Price: 40, Stock: 500},
	})

	lc.remove("p1")
	lc.remove("p1") // removing an absent id is a no-op

	listings, ok := lc.snapshot(auth.RoleRetailer)
	require.True(t, ok)
	assert.Empty(t, listings)

	listings, ok = lc.snapshot(auth.RoleWholesaler)
	require.True(t, ok)
	require.Len(t, listings, 1)
	assert.Equal(t, "p2", listings[0].ProductID)
}

func TestListingCacheUnknownRole(t *testing.T) {
	lc := newListingCache()

	// Customers have no listing set of their own; the cache must not panic
	// and must report a miss so the caller falls through to the database.
	lc.store(auth.RoleCustomer, []catalog.Listing{{ProductID: "p1"}})
	lc.upsert(auth.RoleCustomer, catalog.Listing{ProductID: "p1"})

	_, ok := lc.snapshot(auth.RoleCustomer)
	assert.False(t, ok)
}
