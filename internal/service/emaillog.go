package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/repo"
)

// EmailLogService exposes the reminder email audit trail.
type EmailLogService struct {
	repo repo.EmailLogRepo
}

// NewEmailLogService constructs an EmailLogService backed by the provided repo.
func NewEmailLogService(r repo.EmailLogRepo) *EmailLogService {
	return &EmailLogService{repo: r}
}

// ListPaged returns one page of audit entries, newest first, and the total count.
func (s *EmailLogService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.EmailLog, int64, error) {
	entries, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.EmailLogService.ListPaged: %w", err)
	}
	if entries == nil {
		entries = []domain.EmailLog{}
	}
	return entries, total, nil
}
