package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_service/internal/dbtest"
	"github.com/Skotchmaster/product_service/internal/hash"
	"github.com/Skotchmaster/product_service/internal/repo"
)

func TestAddUser(t *testing.T) {
	r := repo.New(dbtest.New(t))
	ctx := context.Background()

	id, err := addUser(ctx, r, "otter", "password")
	require.NoError(t, err)
	assert.NotZero(t, id)

	u, err := r.FindUserByUsername(ctx, "otter")
	require.NoError(t, err)
	assert.NotEqual(t, "password", u.PasswordHash)
	assert.True(t, hash.CheckPassword(u.PasswordHash, "password"))

	_, err = addUser(ctx, r, "otter", "again")
	require.Error(t, err)
}
