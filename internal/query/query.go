// Package query derives the product display list from the catalog: a fixed
// sequence of text, category and price filters followed by an optional sort.
package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fjod/clothify/internal/catalog"
	"github.com/fjod/clothify/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrInvalidSort = errors.New("invalid sort order")

type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case SortNone, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return o, nil
	default:
		return SortNone, fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
}

// Filters are the user-selected criteria. Zero values select everything.
type Filters struct {
	Query      string
	Category   string
	PriceRange string
	Sort       SortOrder
	// Locale drives name collation; English when unset.
	Locale language.Tag
}

// Apply returns the products matching f, in the requested order. The input slice
// is left untouched.
func Apply(products []domain.Product, f Filters) ([]domain.Product, error) {
	priceRange, err := ParsePriceRange(f.PriceRange)
	if err != nil {
		return nil, err
	}
	if _, err := ParseSortOrder(string(f.Sort)); err != nil {
		return nil, err
	}

	q := strings.ToLower(f.Query)
	list := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !matchesText(p, q) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if !priceRange.Contains(p.Price) {
			continue
		}
		list = append(list, p)
	}

	sortProducts(list, f.Sort, f.Locale)
	return list, nil
}

func matchesText(p domain.Product, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Description), lowerQuery)
}

func sortProducts(list []domain.Product, order SortOrder, locale language.Tag) {
	switch order {
	case SortPriceAsc:
		slices.SortStableFunc(list, func(a, b domain.Product) int {
			return compareFloat(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(list, func(a, b domain.Product) int {
			return compareFloat(b.Price, a.Price)
		})
	case SortNameAsc, SortNameDesc:
		if locale == language.Und {
			locale = language.English
		}
		// a Collator is not safe for concurrent use
		c := collate.New(locale)
		desc := order == SortNameDesc
		slices.SortStableFunc(list, func(a, b domain.Product) int {
			if desc {
				return c.CompareString(b.Name, a.Name)
			}
			return c.CompareString(a.Name, b.Name)
		})
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Categories lists the distinct categories in first-seen order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Find returns the product with the given id, or catalog.ErrProductNotFound.
func Find(products []domain.Product, id string) (domain.Product, error) {
	return catalog.Lookup(products, id)
}
