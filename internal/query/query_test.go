package query

import (
	"testing"

	"github.com/fjod/clothify/internal/catalog"
	"github.com/fjod/clothify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Zed", Price: 50, Category: "A", Description: "Linen shirt"},
		{ID: "p2", Name: "Ann", Price: 250, Category: "B", Description: "Wool coat"},
	}
}

func TestApply_ExampleCatalog(t *testing.T) {
	products := sampleCatalog()

	got, err := Apply(products, Filters{Category: "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids(got))

	got, err = Apply(products, Filters{PriceRange: "200+"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(got))

	got, err = Apply(products, Filters{Sort: SortNameAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, ids(got))
}

func TestApply_EmptyFiltersKeepCatalogOrder(t *testing.T) {
	products := sampleCatalog()

	got, err := Apply(products, Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(got))
}

func TestApply_TextMatchesNameOrDescriptionCaseInsensitive(t *testing.T) {
	products := sampleCatalog()

	got, err := Apply(products, Filters{Query: "ZE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids(got))

	got, err = Apply(products, Filters{Query: "wool"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(got))

	got, err = Apply(products, Filters{Query: "nothing like this"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApply_FiltersCombine(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Name: "Tee", Price: 40, Category: "T-Shirts"},
		{ID: "b", Name: "Tee Long", Price: 90, Category: "T-Shirts"},
		{ID: "c", Name: "Tee Coat", Price: 90, Category: "Jackets"},
	}

	got, err := Apply(products, Filters{Query: "tee", Category: "T-Shirts", PriceRange: "50-100"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestApply_PriceRangeInclusiveBounds(t *testing.T) {
	products := []domain.Product{
		{ID: "low", Price: 50},
		{ID: "mid", Price: 75},
		{ID: "high", Price: 100},
		{ID: "over", Price: 100.01},
	}

	got, err := Apply(products, Filters{PriceRange: "50-100"})
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "mid", "high"}, ids(got))
}

func TestApply_SortsAreStable(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Name: "Beta", Price: 10},
		{ID: "b", Name: "Alpha", Price: 20},
		{ID: "c", Name: "Gamma", Price: 10},
		{ID: "d", Name: "Alpha", Price: 5},
	}

	cases := []struct {
		order SortOrder
		want  []string
	}{
		{SortPriceAsc, []string{"d", "a", "c", "b"}},
		{SortPriceDesc, []string{"b", "a", "c", "d"}},
		{SortNameAsc, []string{"b", "d", "a", "c"}},
		{SortNameDesc, []string{"c", "a", "b", "d"}},
		{SortNone, []string{"a", "b", "c", "d"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.order), func(t *testing.T) {
			got, err := Apply(products, Filters{Sort: tc.order})
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestApply_NameSortIsLocaleAware(t *testing.T) {
	products := []domain.Product{
		{ID: "z", Name: "zebra"},
		{ID: "e", Name: "Éclair"},
		{ID: "a", Name: "apple"},
	}

	got, err := Apply(products, Filters{Sort: SortNameAsc})
	require.NoError(t, err)
	// byte order would put "Éclair" last and "apple" after capitals
	assert.Equal(t, []string{"a", "e", "z"}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	products := sampleCatalog()
	before := ids(products)

	_, err := Apply(products, Filters{Sort: SortNameAsc})
	require.NoError(t, err)

	assert.Equal(t, before, ids(products))
}

func TestApply_Deterministic(t *testing.T) {
	products := sampleCatalog()
	f := Filters{Query: "", Sort: SortPriceDesc}

	first, err := Apply(products, f)
	require.NoError(t, err)
	second, err := Apply(products, f)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApply_RejectsBadInput(t *testing.T) {
	_, err := Apply(sampleCatalog(), Filters{PriceRange: "cheap"})
	assert.ErrorIs(t, err, ErrInvalidPriceRange)

	_, err = Apply(sampleCatalog(), Filters{Sort: "random"})
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestParsePriceRange(t *testing.T) {
	r, err := ParsePriceRange("")
	require.NoError(t, err)
	assert.False(t, r.IsSet())
	assert.True(t, r.Contains(1e9))

	r, err = ParsePriceRange("200+")
	require.NoError(t, err)
	assert.True(t, r.Contains(200))
	assert.False(t, r.Contains(199.99))

	r, err = ParsePriceRange("0-50")
	require.NoError(t, err)
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(50))
	assert.False(t, r.Contains(50.5))

	for _, bad := range []string{"abc", "50", "100-50", "-5-10", "+", "NaN-10", "10-Inf"} {
		_, err := ParsePriceRange(bad)
		assert.ErrorIs(t, err, ErrInvalidPriceRange, bad)
	}
}

func TestCategories(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Category: "Jackets"},
		{ID: "2", Category: "T-Shirts"},
		{ID: "3", Category: "Jackets"},
		{ID: "4"},
	}
	assert.Equal(t, []string{"Jackets", "T-Shirts"}, Categories(products))
	assert.Equal(t, []string{}, Categories(nil))
}

func TestFind(t *testing.T) {
	p, err := Find(sampleCatalog(), sampleCatalog()[1].ID)
	require.NoError(t, err)
	assert.Equal(t, sampleCatalog()[1], p)

	_, err = Find(sampleCatalog(), "missing")
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}
