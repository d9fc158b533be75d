package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/fjod/clothify/internal/domain"
)

var (
	ErrUnavailable     = errors.New("catalog unavailable")
	ErrProductNotFound = errors.New("product not found")
)

// Source yields the full product list. Every call reads the catalog afresh.
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// Lookup finds the product with the given id.
func Lookup(products []domain.Product, id string) (domain.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// Find fetches the catalog from src and looks up id.
func Find(ctx context.Context, src Source, id string) (domain.Product, error) {
	products, err := src.Products(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	return Lookup(products, id)
}

func decode(r io.Reader) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// Static serves a fixed product list.
type Static struct {
	products []domain.Product
}

func NewStatic(products []domain.Product) *Static {
	return &Static{products: slices.Clone(products)}
}

func (s *Static) Products(context.Context) ([]domain.Product, error) {
	return slices.Clone(s.products), nil
}

//go:embed products.json
var embeddedCatalog []byte

// Embedded returns the demo catalog compiled into the binary.
func Embedded() Source {
	return embeddedSource{}
}

type embeddedSource struct{}

func (embeddedSource) Products(ctx context.Context) ([]domain.Product, error) {
	return decodeBytes(embeddedCatalog)
}

func decodeBytes(data []byte) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", ErrUnavailable, err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// File reads a JSON catalog from disk on every call.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Products(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer fh.Close()

	products, err := decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return products, nil
}
