package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fjod/clothify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedded_LoadsDemoCatalog(t *testing.T) {
	products, err := Embedded().Products(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, products)

	seen := make(map[string]bool)
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.GreaterOrEqual(t, p.Price, 0.0)
		assert.NotEmpty(t, p.Sizes)
	}
}

func TestLookup(t *testing.T) {
	products := []domain.Product{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

	p, err := Lookup(products, "b")
	require.NoError(t, err)
	assert.Equal(t, "B", p.Name)

	_, err = Lookup(products, "zzz")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFind(t *testing.T) {
	src := NewStatic([]domain.Product{{ID: "a", Name: "A"}})

	p, err := Find(context.Background(), src, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", p.Name)

	_, err = Find(context.Background(), src, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestStatic_ReturnsCopies(t *testing.T) {
	src := NewStatic([]domain.Product{{ID: "a", Name: "A"}})

	first, err := src.Products(context.Background())
	require.NoError(t, err)
	first[0].Name = "changed"

	second, err := src.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", second[0].Name)
}

func TestFile_ReadsEveryCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a","name":"A","price":10,"sizes":["M"]}]`), 0o600))
	src := NewFile(path)

	products, err := src.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)

	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))
	products, err = src.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFile_Errors(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "missing.json")).Products(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":`), 0o600))
	_, err = NewFile(path).Products(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
