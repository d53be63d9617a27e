package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/mailer"
	"github.com/pkordes/trailcrew/internal/repo"
)

// MemberService registers crew members, who receive permit reminders.
type MemberService struct {
	repo repo.MemberRepo
}

// NewMemberService constructs a MemberService backed by the provided MemberRepo.
func NewMemberService(r repo.MemberRepo) *MemberService {
	return &MemberService{repo: r}
}

// Register validates and stores a new active member.
// Returns domain.ErrConflict if the email is already registered.
func (s *MemberService) Register(ctx context.Context, name, email string) (domain.Member, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return domain.Member{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !mailer.ValidAddress(email) {
		return domain.Member{}, fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
	}

	result, err := s.repo.Create(ctx, domain.Member{Name: name, Email: email, Active: true})
	if err != nil {
		return domain.Member{}, fmt.Errorf("service.MemberService.Register: %w", err)
	}
	return result, nil
}

// List returns all members. Always returns a non-nil slice.
func (s *MemberService) List(ctx context.Context) ([]domain.Member, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.MemberService.List: %w", err)
	}
	if members == nil {
		return []domain.Member{}, nil
	}
	return members, nil
}
