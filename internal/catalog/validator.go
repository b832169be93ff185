package catalog

import (
	"fmt"
	"strings"

	"github.com/rugstoreapp/rugstore/internal/pricing"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(file *CatalogFile) error {
	if err := v.validateShop(&file.Shop); err != nil {
		return fmt.Errorf("shop validation failed: %w", err)
	}

	if len(file.Products) == 0 {
		return fmt.Errorf("at least one product is required")
	}

	names := make(map[string]bool)
	for i, product := range file.Products {
		if err := v.validateProduct(&product); err != nil {
			return fmt.Errorf("product %d validation failed: %w", i, err)
		}

		key := strings.ToLower(strings.TrimSpace(product.Name))
		if names[key] {
			return fmt.Errorf("duplicate product name: %s", product.Name)
		}
		names[key] = true
	}

	return nil
}

func (v *Validator) validateShop(shop *ShopConfig) error {
	if strings.TrimSpace(shop.Name) == "" {
		return fmt.Errorf("shop name is required")
	}
	if shop.Currency != "" && shop.Currency != "rub" {
		return fmt.Errorf("only RUB currency is supported")
	}
	return nil
}

func (v *Validator) validateProduct(product *ProductConfig) error {
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if product.Price <= 0 {
		return fmt.Errorf("product price must be positive")
	}
	if product.Discount < 0 || product.Discount > product.Price {
		return fmt.Errorf("product discount price must be between 0 and the regular price")
	}
	if len(product.Sizes) == 0 {
		return fmt.Errorf("product must offer at least one size")
	}

	seen := make(map[string]bool)
	for _, size := range product.Sizes {
		if _, _, err := pricing.ParseSize(size); err != nil {
			return fmt.Errorf("invalid size %q: %w", size, err)
		}
		normalized := pricing.NormalizeSize(size)
		if seen[normalized] {
			return fmt.Errorf("duplicate size: %s", size)
		}
		seen[normalized] = true
	}

	return nil
}
