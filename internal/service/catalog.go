package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bakepos/server/internal/model"
	"github.com/bakepos/server/internal/repository"
)

// CatalogStore is the slice of the repository the catalog needs.
type CatalogStore interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) error
	UpdateProduct(ctx context.Context, p model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ProductReferencedByOrder(ctx context.Context, id string) (bool, error)

	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (model.Category, error)
	CreateCategory(ctx context.Context, c model.Category) error
	UpdateCategory(ctx context.Context, c model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	CategoryHasProducts(ctx context.Context, id string) (bool, error)
}

type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Products returns the catalog with category names denormalized onto each
// product. categoryID and keyword filters are optional.
func (s *CatalogService) Products(ctx context.Context, categoryID, keyword string) ([]model.ProductView, error) {
	var (
		products   []model.Product
		categories []model.Category
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.store.ListProducts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	keyword = strings.ToLower(keyword)
	views := make([]model.ProductView, 0, len(products))
	for _, p := range products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(p.Name), keyword) {
			continue
		}
		name, ok := names[p.CategoryID]
		if !ok {
			name = "Unknown Category"
		}
		views = append(views, model.ProductView{Product: p, CategoryName: name})
	}
	return views, nil
}

func (s *CatalogService) Product(ctx context.Context, id string) (model.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

func (s *CatalogService) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	if p.Status == "" {
		p.Status = "active"
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// UpdateProduct applies the non-zero fields of patch to the stored product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (model.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}

	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes the product unless an order line still refers to it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	referenced, err := s.store.ProductReferencedByOrder(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrProductInUse
	}
	err = s.store.DeleteProduct(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *CatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	c.ID = uuid.NewString()
	if c.Status == "" {
		c.Status = "active"
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (model.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, err
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.Image != nil {
		c.Image = *patch.Image
	}

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// DeleteCategory removes the category unless a product still references it.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	inUse, err := s.store.CategoryHasProducts(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}
	err = s.store.DeleteCategory(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

type ProductPatch struct {
	Name        *string  `json:"name"`
	CategoryID  *string  `json:"category"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Status      *string  `json:"status"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
}

type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Image       *string `json:"image"`
}
