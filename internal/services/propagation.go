package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rugstoreapp/rugstore/internal/logging"
	"github.com/rugstoreapp/rugstore/internal/models"
	"github.com/rugstoreapp/rugstore/internal/pricing"
)

type propagationLineStore interface {
	ListByProduct(ctx context.Context, productID int64) ([]models.CartLine, error)
	DeleteLineByID(ctx context.Context, lineID int64) error
	UpdateTotals(ctx context.Context, lineID int64, total, discountTotal int) (bool, error)
}

// PropagationService keeps cart lines consistent with catalog edits. It is
// invoked by the product-update flow as a post-condition, with the product's
// new price, discount and offered-size set.
type PropagationService struct {
	lines  propagationLineStore
	logger *slog.Logger
}

func NewPropagationService(lines propagationLineStore, logger *slog.Logger) *PropagationService {
	return &PropagationService{
		lines:  lines,
		logger: logger,
	}
}

// ProductChanged walks every cart line referencing the edited product. Lines
// whose size is no longer offered are evicted and reported; surviving lines
// get both totals recomputed from the new price and discount at their existing
// quantity. Sizes are compared through normalization, never by raw string
// equality. One line's failure does not abort the pass for the rest; each
// line is rewritten in a single atomic UPDATE so a concurrent checkout sees
// either the old or the new totals, never a torn write.
func (s *PropagationService) ProductChanged(ctx context.Context, productID int64, newPrice, newDiscount int, newSizes []string) ([]int64, error) {
	logger := logging.FromContext(ctx, s.logger)

	lines, err := s.lines.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines for product %d: %w", productID, err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	offered := make(map[string]struct{}, len(newSizes))
	for _, size := range newSizes {
		if normalized := pricing.NormalizeSize(size); normalized != "" {
			offered[normalized] = struct{}{}
		}
	}

	var removed []int64
	for _, line := range lines {
		if _, ok := offered[pricing.NormalizeSize(line.Size)]; !ok {
			if err := s.lines.DeleteLineByID(ctx, line.ID); err != nil {
				logger.Error("failed to evict cart line for retired size",
					"line_id", line.ID, "product_id", productID, "size", line.Size, "error", err)
				continue
			}
			removed = append(removed, line.ID)
			continue
		}

		total, err := pricing.LineTotal(line.Size, newPrice, line.Quantity)
		if err != nil {
			logger.Error("failed to reprice cart line",
				"line_id", line.ID, "product_id", productID, "size", line.Size, "error", err)
			continue
		}
		discountTotal, err := pricing.LineTotal(line.Size, newDiscount, line.Quantity)
		if err != nil {
			logger.Error("failed to reprice cart line discount",
				"line_id", line.ID, "product_id", productID, "size", line.Size, "error", err)
			continue
		}

		if _, err := s.lines.UpdateTotals(ctx, line.ID, total, discountTotal); err != nil {
			logger.Error("failed to persist repriced cart line",
				"line_id", line.ID, "product_id", productID, "error", err)
		}
	}

	if len(removed) > 0 {
		logger.Info("evicted cart lines for retired sizes",
			"product_id", productID, "removed", len(removed))
	}
	return removed, nil
}
