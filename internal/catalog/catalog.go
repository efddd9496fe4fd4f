package catalog

import (
	"sort"
	"strings"
)

// CategoryLocalSpecialties is the synthetic category that collects every
// grouped product flagged as a local specialty. It always sorts first.
const CategoryLocalSpecialties = "Local Specialties"

// Group aggregates listings by case-insensitive trimmed product name,
// computes each seller's distance from the buyer and ranks sellers by
// proximity. Buyer may be nil, in which case every distance is unknown.
func Group(listings []Listing, buyer *Location) []GroupedProduct {
	grouped := make(map[string]*GroupedProduct)
	var order []string

	for _, l := range listings {
		key := strings.ToLower(strings.TrimSpace(l.Name))

		option := SellerOption{
			ProductID:  l.ProductID,
			SellerID:   l.SellerID,
			SellerName: sellerDisplayName(l),
			Price:      l.Price,
			Stock:      l.Stock,
			Distance:   DistanceBetween(buyer, l.SellerLocation),
			IsLocal:    l.IsLocalSpecialty,
		}

		existing, ok := grouped[key]
		if !ok {
			grouped[key] = &GroupedProduct{
				Name:        l.Name,
				Category:    category(l.Category),
				Description: l.Description,
				MinPrice:    l.Price,
				MaxPrice:    l.Price,
				TotalStock:  l.Stock,
				SellerCount: 1,
				IsLocal:     l.IsLocalSpecialty,
				Sellers:     []SellerOption{option},
			}
			order = append(order, key)
			continue
		}

		existing.Sellers = append(existing.Sellers, option)
		existing.SellerCount++
		existing.TotalStock += l.Stock
		existing.IsLocal = existing.IsLocal || l.IsLocalSpecialty
		if l.Price < existing.MinPrice {
			existing.MinPrice = l.Price
		}
		if l.Price > existing.MaxPrice {
			existing.MaxPrice = l.Price
		}
	}

	result := make([]GroupedProduct, 0, len(order))
	for _, key := range order {
		g := grouped[key]
		sortSellersByDistance(g.Sellers)
		if len(g.Sellers) > 0 {
			nearest := g.Sellers[0]
			g.NearestSeller = &nearest
		}
		result = append(result, *g)
	}
	return result
}

// sortSellersByDistance orders sellers ascending by distance with unknown
// distances last. The sort is stable so insertion order breaks ties.
func sortSellersByDistance(sellers []SellerOption) {
	sort.SliceStable(sellers, func(i, j int) bool {
		a, b := sellers[i].Distance, sellers[j].Distance
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
}

// Filters is the AND-combined predicate set applied to grouped products.
// Price thresholds compare against the group's minimum price.
type Filters struct {
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
	Category    string
}

// Apply returns the grouped products that pass every enabled predicate.
func (f Filters) Apply(groups []GroupedProduct) []GroupedProduct {
	var out []GroupedProduct
	for _, g := range groups {
		if !f.matches(g) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func (f Filters) matches(g GroupedProduct) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.MinPrice != nil && g.MinPrice < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && g.MinPrice > *f.MaxPrice {
		return false
	}
	if f.InStockOnly && g.TotalStock == 0 {
		return false
	}
	if f.Category != "" && f.Category != "all" {
		if f.Category == CategoryLocalSpecialties {
			return g.IsLocal
		}
		return g.Category == f.Category
	}
	return true
}

// Categories returns the display ordering for the given groups: the
// synthetic local-specialties category first when any group qualifies,
// then the remaining categories alphabetically.
func Categories(groups []GroupedProduct) []string {
	seen := make(map[string]bool)
	hasLocal := false
	var names []string
	for _, g := range groups {
		if g.IsLocal || g.Category == CategoryLocalSpecialties {
			hasLocal = true
		}
		if g.Category == "" || g.Category == CategoryLocalSpecialties || seen[g.Category] {
			continue
		}
		seen[g.Category] = true
		names = append(names, g.Category)
	}
	sort.Strings(names)
	if hasLocal {
		return append([]string{CategoryLocalSpecialties}, names...)
	}
	return names
}

func sellerDisplayName(l Listing) string {
	if l.SellerBusinessName != "" {
		return l.SellerBusinessName
	}
	if l.SellerName != "" {
		return l.SellerName
	}
	return "Unknown Seller"
}

func category(c string) string {
	if c == "" {
		return "Other"
	}
	return c
}
