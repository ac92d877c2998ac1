package app

import (
	"context"
	"errors"
	"slices"
	"strings"

	"roxtor-ops/database"
	"roxtor-ops/models"
	"roxtor-ops/radar"
)

var (
	ErrProductNameRequired = errors.New("product name is required")
	ErrInvalidPrice        = errors.New("price cannot be negative")
	ErrInvalidStock        = errors.New("stock cannot be negative")
)

func validateProduct(p models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrProductNameRequired
	}
	if p.Price < 0 || p.WholesalePrice < 0 {
		return ErrInvalidPrice
	}
	if p.Inventory < 0 {
		return ErrInvalidStock
	}
	return nil
}

func (c *Controller) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.state.Products)
}

func (c *Controller) productIndex(id string) int {
	return slices.IndexFunc(c.state.Products, func(p models.Product) bool { return p.ID == id })
}

func (c *Controller) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}
	p.ID = c.newID()
	p.Name = strings.TrimSpace(p.Name)
	p.ApplyDefaults()

	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.state.clone()
	next.Products = append(next.Products, p)
	if err := c.commit(ctx, next, database.KeyCatalog); err != nil {
		return models.Product{}, err
	}
	c.log.WithField("product", p.ID).Info("product added")
	return p, nil
}

// UpdateProduct replaces the product except its inventory, which only
// SetStock writes. Existing orders keep the name and price they copied at
// creation.
func (c *Controller) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.productIndex(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	p.Inventory = c.state.Products[i].Inventory
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}
	p.ID = id
	p.Name = strings.TrimSpace(p.Name)
	p.ApplyDefaults()

	next := c.state.clone()
	next.Products[i] = p
	if err := c.commit(ctx, next, database.KeyCatalog); err != nil {
		return models.Product{}, err
	}
	c.log.WithField("product", id).Info("product updated")
	return p, nil
}

func (c *Controller) DeleteProduct(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.productIndex(id)
	if i < 0 {
		return ErrProductNotFound
	}
	next := c.state.clone()
	next.Products = slices.Delete(next.Products, i, i+1)
	if err := c.commit(ctx, next, database.KeyCatalog); err != nil {
		return err
	}
	c.log.WithField("product", id).Info("product deleted")
	return nil
}

func (c *Controller) SetStock(ctx context.Context, id string, qty int) (models.Product, error) {
	if qty < 0 {
		return models.Product{}, ErrInvalidStock
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.productIndex(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	next := c.state.clone()
	next.Products[i].Inventory = qty
	if err := c.commit(ctx, next, database.KeyCatalog); err != nil {
		return models.Product{}, err
	}
	c.log.WithField("product", id).WithField("inventory", qty).Info("stock updated")
	return next.Products[i], nil
}

// ImportCatalog extracts products from a document and appends them. The
// AI call runs without holding the state lock.
func (c *Controller) ImportCatalog(ctx context.Context, doc radar.Document) ([]models.Product, error) {
	extracted, err := c.ai.Catalog.ExtractProducts(ctx, doc)
	if err != nil {
		c.log.WithError(err).Warn("catalog import failed")
		return nil, err
	}
	added := make([]models.Product, 0, len(extracted))
	for _, p := range extracted {
		if validateProduct(p) != nil {
			continue
		}
		p.ID = c.newID()
		p.ApplyDefaults()
		added = append(added, p)
	}
	if len(added) == 0 {
		return added, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.state.clone()
	next.Products = append(next.Products, added...)
	if err := c.commit(ctx, next, database.KeyCatalog); err != nil {
		return nil, err
	}
	c.log.WithField("count", len(added)).Info("catalog imported")
	return added, nil
}
