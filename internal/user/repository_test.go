package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(User{ID: 5, Email: "seed@example.com", Password: "h"})

	got, err := repo.FindByEmail(ctx, "SEED@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)

	created, err := repo.Insert(ctx, User{Email: "new@example.com", Password: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), created.ID)

	_, err = repo.Insert(ctx, User{Email: "NEW@example.com", Password: "h"})
	assert.ErrorIs(t, err, ErrEmailExists)

	byID, err := repo.FindByID(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", byID.Email)

	require.NoError(t, repo.Delete(ctx, 6))
	_, err = repo.FindByID(ctx, 6)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByEmail(ctx, "new@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 6), ErrNotFound)
}
