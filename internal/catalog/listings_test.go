package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingSetUpsertIsIdempotent(t *testing.T) {
	s := NewListingSet()
	l := Listing{ProductID: "p1", SellerID: "s1", Name: "Apples", Price: 100, Stock: 5}

	s.Upsert(l)
	s.Upsert(l)

	assert.Equal(t, 1, s.Len())
	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, l, snap[0])
}

func TestListingSetUpsertReplacesFullRow(t *testing.T) {
	s := NewListingSet()
	s.Upsert(Listing{ProductID: "p1", Name: "Apples", Price: 100, Stock: 5})
	s.Upsert(Listing{ProductID: "p1", Name: "Apples", Price: 110, Stock: 0})

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 110.0, snap[0].Price)
	assert.Equal(t, 0, snap[0].Stock)
}

func TestListingSetReplaceAndRemove(t *testing.T) {
	s := NewListingSet()
	s.Upsert(Listing{ProductID: "stale", Name: "Old"})

	s.Replace([]Listing{
		{ProductID: "p1", Name: "Apples"},
		{ProductID: "p2", Name: "Bananas"},
	})
	assert.Equal(t, 2, s.Len())

	s.Remove("p1")
	s.Remove("p1")
	assert.Equal(t, 1, s.Len())
	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "p2", snap[0].ProductID)
}

func TestListingSetSnapshotIsACopy(t *testing.T) {
	s := NewListingSet()
	s.Upsert(Listing{ProductID: "p1", Name: "Apples", Stock: 5})

	snap := s.Snapshot()
	snap[0].Stock = 0

	fresh := s.Snapshot()
	require.Len(t, fresh, 1)
	assert.Equal(t, 5, fresh[0].Stock)
}
