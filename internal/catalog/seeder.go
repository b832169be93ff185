package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rugstoreapp/rugstore/internal/models"
	"github.com/rugstoreapp/rugstore/internal/pricing"
)

type productUpserter interface {
	UpsertByName(ctx context.Context, product *models.Product) error
}

// Seeder loads a catalog file into the product store at startup. Products
// are matched by name, so re-running the seed after editing the file updates
// rather than duplicates.
type Seeder struct {
	parser    *Parser
	validator *Validator
	products  productUpserter
	logger    *slog.Logger
}

func NewSeeder(products productUpserter, logger *slog.Logger) *Seeder {
	return &Seeder{
		parser:    NewParser(),
		validator: NewValidator(),
		products:  products,
		logger:    logger,
	}
}

func (s *Seeder) SeedFromFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}
	return s.Seed(ctx, content)
}

func (s *Seeder) Seed(ctx context.Context, content []byte) error {
	file, err := s.parser.Parse(content)
	if err != nil {
		return err
	}
	if err := s.validator.Validate(file); err != nil {
		return err
	}

	for _, pc := range file.Products {
		sizes := make([]string, 0, len(pc.Sizes))
		for _, size := range pc.Sizes {
			sizes = append(sizes, pricing.NormalizeSize(size))
		}

		product := &models.Product{
			Name:        pc.Name,
			Price:       pc.Price,
			Discount:    pc.Discount,
			Sizes:       sizes,
			ImageURLs:   pc.Images,
			Composition: pc.Composition,
			Backing:     pc.Backing,
			PileHeight:  pc.PileHeight,
			Density:     pc.Density,
			Origin:      pc.Origin,
			Description: pc.Description,
		}
		if err := s.products.UpsertByName(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", pc.Name, err)
		}
	}

	s.logger.Info("catalog seeded", "shop", file.Shop.Name, "products", len(file.Products))
	return nil
}
