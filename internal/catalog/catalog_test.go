package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func locPtr(lat, lng float64) *Location { return &Location{Lat: lat, Lng: lng} }

func TestGroupMergesByNameCaseInsensitive(t *testing.T) {
	buyer := &Location{Lat: 12.9716, Lng: 77.5946}
	listings := []Listing{
		{
			ProductID: "p1", SellerID: "s1", SellerBusinessName: "Near Mart",
			Name: "Apples", Category: "Fruits", Price: 100, Stock: 5,
			SellerLocation: locPtr(12.98, 77.60),
		},
		{
			ProductID: "p2", SellerID: "s2", SellerBusinessName: "Far Fresh",
			Name: "  apples ", Category: "Fruits", Price: 90, Stock: 3,
			SellerLocation: locPtr(13.30, 77.90),
		},
	}

	groups := Group(listings, buyer)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "Apples", g.Name)
	assert.Equal(t, 2, g.SellerCount)
	assert.Equal(t, 90.0, g.MinPrice)
	assert.Equal(t, 100.0, g.MaxPrice)
	assert.Equal(t, 8, g.TotalStock)

	// The nearest seller wins regardless of price.
	require.NotNil(t, g.NearestSeller)
	assert.Equal(t, "s1", g.NearestSeller.SellerID)
	assert.Equal(t, 100.0, g.NearestSeller.Price)
}

func TestGroupNearestSellerAtBuyerLocation(t *testing.T) {
	// Buyer on the equator, one seller at the same point, one a degree east
	// with a better price. Zero distance wins the nearest slot even though
	// the cheaper seller still sets the group minimum.
	buyer := &Location{Lat: 0, Lng: 0}
	listings := []Listing{
		{ProductID: "p1", SellerID: "s1", Name: "Apples", Price: 100, Stock: 5, SellerLocation: locPtr(0, 0)},
		{ProductID: "p2", SellerID: "s2", Name: "Apples", Price: 90, Stock: 3, SellerLocation: locPtr(0, 1)},
	}

	groups := Group(listings, buyer)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, 90.0, g.MinPrice)
	assert.Equal(t, 100.0, g.MaxPrice)
	assert.Equal(t, 2, g.SellerCount)

	require.NotNil(t, g.NearestSeller)
	assert.Equal(t, "s1", g.NearestSeller.SellerID)
	assert.Equal(t, 100.0, g.NearestSeller.Price)
	require.NotNil(t, g.NearestSeller.Distance)
	assert.Equal(t, 0.0, *g.NearestSeller.Distance)
}

func TestGroupPreservesFirstSeenOrder(t *testing.T) {
	listings := []Listing{
		{ProductID: "p1", SellerID: "s1", Name: "Mangoes", Price: 50, Stock: 1},
		{ProductID: "p2", SellerID: "s1", Name: "Bananas", Price: 30, Stock: 1},
		{ProductID: "p3", SellerID: "s2", Name: "mangoes", Price: 60, Stock: 1},
	}

	groups := Group(listings, nil)
	require.Len(t, groups, 2)
	assert.Equal(t, "Mangoes", groups[0].Name)
	assert.Equal(t, "Bananas", groups[1].Name)
}

func TestGroupUnknownDistancesSortLast(t *testing.T) {
	buyer := &Location{Lat: 12.9716, Lng: 77.5946}
	listings := []Listing{
		{ProductID: "p1", SellerID: "nowhere", Name: "Rice", Price: 40, Stock: 10},
		{
			ProductID: "p2", SellerID: "somewhere", Name: "Rice", Price: 45, Stock: 10,
			SellerLocation: locPtr(12.95, 77.58),
		},
	}

	groups := Group(listings, buyer)
	require.Len(t, groups, 1)

	sellers := groups[0].Sellers
	require.Len(t, sellers, 2)
	assert.Equal(t, "somewhere", sellers[0].SellerID)
	require.NotNil(t, sellers[0].Distance)
	assert.Nil(t, sellers[1].Distance)

	require.NotNil(t, groups[0].NearestSeller)
	assert.Equal(t, "somewhere", groups[0].NearestSeller.SellerID)
}

func TestGroupNilBuyerLeavesDistancesUnknown(t *testing.T) {
	listings := []Listing{
		{
			ProductID: "p1", SellerID: "s1", Name: "Honey", Price: 250, Stock: 4,
			SellerLocation: locPtr(12.95, 77.58),
		},
	}

	groups := Group(listings, nil)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Sellers, 1)
	assert.Nil(t, groups[0].Sellers[0].Distance)
}

func TestGroupLocalFlagSticks(t *testing.T) {
	listings := []Listing{
		{ProductID: "p1", SellerID: "s1", Name: "Pickle", Price: 120, Stock: 2},
		{ProductID: "p2", SellerID: "s2", Name: "Pickle", Price: 110, Stock: 1, IsLocalSpecialty: true},
	}

	groups := Group(listings, nil)
	require.Len(t, groups, 1)
	assert.True(t, groups[0].IsLocal)
}

func TestGroupSellerDisplayNameFallback(t *testing.T) {
	listings := []Listing{
		{ProductID: "p1", SellerID: "s1", SellerBusinessName: "Spice House", SellerName: "Asha", Name: "Cardamom", Price: 300, Stock: 1},
		{ProductID: "p2", SellerID: "s2", SellerName: "Ravi", Name: "Cloves", Price: 200, Stock: 1},
		{ProductID: "p3", SellerID: "s3", Name: "Pepper", Price: 150, Stock: 1},
	}

	groups := Group(listings, nil)
	require.Len(t, groups, 3)
	assert.Equal(t, "Spice House", groups[0].Sellers[0].SellerName)
	assert.Equal(t, "Ravi", groups[1].Sellers[0].SellerName)
	assert.Equal(t, "Unknown Seller", groups[2].Sellers[0].SellerName)
}

func TestFiltersSearch(t *testing.T) {
	groups := []GroupedProduct{
		{Name: "Basmati Rice", TotalStock: 5},
		{Name: "Wheat Flour", TotalStock: 5},
	}

	out := Filters{Search: "rice"}.Apply(groups)
	require.Len(t, out, 1)
	assert.Equal(t, "Basmati Rice", out[0].Name)
}

func TestFiltersPriceBoundsUseMinPrice(t *testing.T) {
	groups := []GroupedProduct{
		{Name: "Apples", MinPrice: 90, MaxPrice: 100, TotalStock: 8},
		{Name: "Saffron", MinPrice: 500, MaxPrice: 600, TotalStock: 2},
	}

	out := Filters{MinPrice: floatPtr(100)}.Apply(groups)
	require.Len(t, out, 1)
	assert.Equal(t, "Saffron", out[0].Name)

	out = Filters{MaxPrice: floatPtr(100)}.Apply(groups)
	require.Len(t, out, 1)
	assert.Equal(t, "Apples", out[0].Name)
}

func TestFiltersInStockOnly(t *testing.T) {
	groups := []GroupedProduct{
		{Name: "Apples", TotalStock: 8},
		{Name: "Ghee", TotalStock: 0},
	}

	out := Filters{InStockOnly: true}.Apply(groups)
	require.Len(t, out, 1)
	assert.Equal(t, "Apples", out[0].Name)
}

func TestFiltersCategory(t *testing.T) {
	groups := []GroupedProduct{
		{Name: "Apples", Category: "Fruits", TotalStock: 1},
		{Name: "Pickle", Category: "Condiments", IsLocal: true, TotalStock: 1},
	}

	out := Filters{Category: "Fruits"}.Apply(groups)
	require.Len(t, out, 1)
	assert.Equal(t, "Apples", out[0].Name)

	// The synthetic category selects by the local flag, not by stored category.
	out = Filters{Category: CategoryLocalSpecialties}.Apply(groups)
	require.Len(t, out, 1)
	assert.Equal(t, "Pickle", out[0].Name)

	out = Filters{Category: "all"}.Apply(groups)
	assert.Len(t, out, 2)
}

func TestFiltersCombineWithAnd(t *testing.T) {
	groups := []GroupedProduct{
		{Name: "Alphonso Mango", Category: "Fruits", MinPrice: 200, TotalStock: 3},
		{Name: "Mango Pickle", Category: "Condiments", MinPrice: 150, TotalStock: 0},
	}

	out := Filters{Search: "mango", InStockOnly: true, Category: "Fruits"}.Apply(groups)
	require.Len(t, out, 1)
	assert.Equal(t, "Alphonso Mango", out[0].Name)
}

func TestCategoriesLocalSpecialtiesFirst(t *testing.T) {
	groups := []GroupedProduct{
		{Name: "Wheat", Category: "Grains"},
		{Name: "Pickle", Category: "Condiments", IsLocal: true},
		{Name: "Apples", Category: "Fruits"},
	}

	cats := Categories(groups)
	require.Len(t, cats, 4)
	assert.Equal(t, CategoryLocalSpecialties, cats[0])
	assert.Equal(t, []string{"Condiments", "Fruits", "Grains"}, cats[1:])
}

func TestCategoriesWithoutLocalGroups(t *testing.T) {
	groups := []GroupedProduct{
		{Name: "Wheat", Category: "Grains"},
		{Name: "Apples", Category: "Fruits"},
		{Name: "Bananas", Category: "Fruits"},
	}

	cats := Categories(groups)
	assert.Equal(t, []string{"Fruits", "Grains"}, cats)
}

func TestCategoriesDedupesSyntheticName(t *testing.T) {
	groups := []GroupedProduct{
		{Name: "Pickle", Category: CategoryLocalSpecialties},
		{Name: "Wheat", Category: "Grains"},
	}

	cats := Categories(groups)
	assert.Equal(t, []string{CategoryLocalSpecialties, "Grains"}, cats)
}
