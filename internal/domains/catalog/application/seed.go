package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
)

// DemoProducts is the starter catalog inserted into an empty store.
func DemoProducts() []ports.CreateProductInput {
	return []ports.CreateProductInput{
		{
			Name:        "Neon Tetra",
			Description: "Small, peaceful schooling fish with an electric blue stripe.",
			Price:       decimal.NewFromInt(225),
			Image:       "https://images.unsplash.com/photo-1520302630591-fd1c66edc19d",
			Category:    domain.CategoryFish,
			Stock:       50,
			Currency:    domain.DefaultCurrency,
		},
		{
			Name:        "Amazon Sword Plant",
			Description: "Hardy background plant with broad, sword-shaped leaves.",
			Price:       decimal.NewFromInt(375),
			Image:       "https://images.unsplash.com/photo-1535591273668-578e31182c4f",
			Category:    domain.CategoryPlants,
			Stock:       30,
			Currency:    domain.DefaultCurrency,
		},
		{
			Name:        "Aquarium Filter",
			Description: "Three-stage canister filter for tanks up to 200 litres.",
			Price:       decimal.NewFromInt(1899),
			Image:       "https://images.unsplash.com/photo-1584553421349-3557471bed79",
			Category:    domain.CategoryEquipment,
			Stock:       15,
			Currency:    domain.DefaultCurrency,
		},
		{
			Name:        "Decorative Castle",
			Description: "Resin castle ornament with swim-through arches.",
			Price:       decimal.NewFromInt(1199),
			Image:       "https://images.unsplash.com/photo-1522069169874-c58ec4b76be5",
			Category:    domain.CategoryDecoration,
			Stock:       10,
			Currency:    domain.DefaultCurrency,
		},
	}
}

// Seed inserts the demo catalog when the store holds no products.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, input := range DemoProducts() {
		if _, err := s.CreateProduct(ctx, input); err != nil {
			return err
		}
	}
	return nil
}
