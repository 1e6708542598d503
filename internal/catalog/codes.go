package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
)

// defaultCodePadding is the minimum digit width of the numeric suffix. The
// width grows naturally once a category passes its padded maximum.
const defaultCodePadding = 3

// codeAllocator hands out category-scoped item codes from the
// item_code_counters table. Allocation must run inside the transaction that
// persists the item so an aborted create never burns a visible gap.
type codeAllocator struct {
	padding int
}

func newCodeAllocator(padding int) *codeAllocator {
	if padding <= 0 {
		padding = defaultCodePadding
	}
	return &codeAllocator{padding: padding}
}

// Next increments the category counter and returns the formatted code.
// The counter row is created on first use, seeded from the highest suffix
// already present among the category's items.
func (a *codeAllocator) Next(ctx context.Context, tx *gorm.DB, category enums.ItemCategory) (string, error) {
	prefix := category.CodePrefix()

	res := tx.WithContext(ctx).
		Model(&models.ItemCodeCounter{}).
		Where("category = ?", category.String()).
		Update("last_seq", gorm.Expr("last_seq + 1"))
	if res.Error != nil {
		return "", fmt.Errorf("bump item code counter: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		seed, err := a.seedFromExisting(ctx, tx, category, prefix)
		if err != nil {
			return "", err
		}
		counter := &models.ItemCodeCounter{Category: category.String(), LastSeq: seed + 1}
		if err := tx.WithContext(ctx).Create(counter).Error; err != nil {
			return "", fmt.Errorf("seed item code counter: %w", err)
		}
		return a.format(prefix, counter.LastSeq), nil
	}

	var counter models.ItemCodeCounter
	if err := tx.WithContext(ctx).
		First(&counter, "category = ?", category.String()).Error; err != nil {
		return "", fmt.Errorf("read item code counter: %w", err)
	}
	return a.format(prefix, counter.LastSeq), nil
}

// seedFromExisting finds the highest numeric suffix already issued for the
// category so pre-counter rows keep their codes unique.
func (a *codeAllocator) seedFromExisting(ctx context.Context, tx *gorm.DB, category enums.ItemCategory, prefix string) (int64, error) {
	var codes []string
	if err := tx.WithContext(ctx).
		Model(&models.Item{}).
		Where("category = ?", category.String()).
		Pluck("item_code", &codes).Error; err != nil {
		return 0, fmt.Errorf("scan existing item codes: %w", err)
	}

	var max int64
	for _, code := range codes {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		seq, err := strconv.ParseInt(code[len(prefix):], 10, 64)
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

func (a *codeAllocator) format(prefix string, seq int64) string {
	return fmt.Sprintf("%s%0*d", prefix, a.padding, seq)
}
