package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailcrew/internal/domain"
)

func TestMemberRepo(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	_, err := r.members.Create(ctx, domain.Member{Name: "Avery", Email: "avery@example.com", Active: true})
	require.NoError(t, err)
	_, err = r.members.Create(ctx, domain.Member{Name: "Blake", Email: "blake@example.com", Active: false})
	require.NoError(t, err)

	members, err := r.members.List(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Avery", members[0].Name)

	emails, err := r.members.ActiveEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"avery@example.com"}, emails)
}

func TestMemberRepo_DuplicateEmail(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	_, err := r.members.Create(ctx, domain.Member{Name: "Avery", Email: "avery@example.com", Active: true})
	require.NoError(t, err)

	_, err = r.members.Create(ctx, domain.Member{Name: "Avery Two", Email: "AVERY@example.com", Active: true})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
