package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/service"
)

func TestMemberService_Register(t *testing.T) {
	r := &mockMemberRepo{
		create: func(_ context.Context, m domain.Member) (domain.Member, error) { return m, nil },
	}
	svc := service.NewMemberService(r)

	got, err := svc.Register(context.Background(), " Avery ", " Avery@Example.com ")

	require.NoError(t, err)
	assert.Equal(t, "Avery", got.Name)
	assert.Equal(t, "avery@example.com", got.Email)
	assert.True(t, got.Active)
}

func TestMemberService_Register_Validation(t *testing.T) {
	svc := service.NewMemberService(&mockMemberRepo{})

	_, err := svc.Register(context.Background(), "", "avery@example.com")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(context.Background(), "Avery", "avery-at-example")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMemberService_Register_Duplicate(t *testing.T) {
	r := &mockMemberRepo{
		create: func(_ context.Context, _ domain.Member) (domain.Member, error) { return domain.Member{}, domain.ErrConflict },
	}
	svc := service.NewMemberService(r)

	_, err := svc.Register(context.Background(), "Avery", "avery@example.com")

	assert.ErrorIs(t, err, domain.ErrConflict)
}
