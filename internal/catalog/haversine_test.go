package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineZeroForSamePoint(t *testing.T) {
	p := Location{Lat: 12.9716, Lng: 77.5946}
	assert.Equal(t, 0.0, Haversine(p, p))
}

func TestHaversineSymmetry(t *testing.T) {
	bengaluru := Location{Lat: 12.9716, Lng: 77.5946}
	mumbai := Location{Lat: 19.0760, Lng: 72.8777}

	ab := Haversine(bengaluru, mumbai)
	ba := Haversine(mumbai, bengaluru)

	assert.InDelta(t, ab, ba, 1e-9)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Bengaluru to Mumbai is roughly 840 km great circle.
	bengaluru := Location{Lat: 12.9716, Lng: 77.5946}
	mumbai := Location{Lat: 19.0760, Lng: 72.8777}

	d := Haversine(bengaluru, mumbai)
	assert.InDelta(t, 840, d, 15)
}

func TestHaversineAntipodal(t *testing.T) {
	a := Location{Lat: 0, Lng: 0}
	b := Location{Lat: 0, Lng: 180}

	// Half the Earth's circumference.
	d := Haversine(a, b)
	assert.InDelta(t, 20015, d, 10)
}

func TestDistanceBetweenNilEndpoints(t *testing.T) {
	p := Location{Lat: 10, Lng: 20}

	assert.Nil(t, DistanceBetween(nil, &p))
	assert.Nil(t, DistanceBetween(&p, nil))
	assert.Nil(t, DistanceBetween(nil, nil))
}

func TestDistanceBetweenBothKnown(t *testing.T) {
	a := Location{Lat: 12.9716, Lng: 77.5946}
	b := Location{Lat: 13.0827, Lng: 80.2707}

	d := DistanceBetween(&a, &b)
	require.NotNil(t, d)
	assert.Greater(t, *d, 0.0)
	assert.InDelta(t, Haversine(a, b), *d, 1e-9)
}
