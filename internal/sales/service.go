package sales

import (
	"context"
	"fmt"

	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
	"github.com/relovedmarket/reloved-backend/pkg/pagination"
)

// Service exposes the read side of the sales ledger.
type Service interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*ListResult, error)
	Summary(ctx context.Context, filters ListFilters) (*SummaryDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a sales ledger service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*ListResult, error) {
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sales records")
	}

	page, next := pagination.Trim(rows, params.Limit, func(row models.SalesRecord) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CompletedAt, ID: row.ID}
	})

	result := &ListResult{
		Records:    make([]RecordDTO, 0, len(page)),
		NextCursor: next,
	}
	for i := range page {
		result.Records = append(result.Records, *NewRecordDTO(&page[i]))
	}
	return result, nil
}

func (s *service) Summary(ctx context.Context, filters ListFilters) (*SummaryDTO, error) {
	count, gross, err := s.repo.Summary(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: summarize sales records")
	}
	return &SummaryDTO{Count: count, Gross: gross}, nil
}
