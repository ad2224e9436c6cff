package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoisukraine/convoysbackend/models"
	"github.com/convoisukraine/convoysbackend/utils"
)

func TestHashIfChangedReplacesPlaintext(t *testing.T) {
	user := &models.User{Email: "a@x.com"}
	user.SetPassword("Abc123!")

	require.NoError(t, hashIfChanged(user))

	assert.NotEqual(t, "Abc123!", user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$2"))
	assert.False(t, user.PasswordChanged())
	assert.NoError(t, utils.CheckPassword(user.Password, "Abc123!"))
}

func TestHashIfChangedSaltsPerCall(t *testing.T) {
	first := &models.User{}
	first.SetPassword("Abc123!")
	require.NoError(t, hashIfChanged(first))

	second := &models.User{}
	second.SetPassword("Abc123!")
	require.NoError(t, hashIfChanged(second))

	assert.NotEqual(t, first.Password, second.Password)
}

func TestHashIfChangedNoopWithoutStagedPassword(t *testing.T) {
	user := &models.User{Password: "$2a$10$already.a.hash"}

	require.NoError(t, hashIfChanged(user))

	// an untouched hash is never rehashed
	assert.Equal(t, "$2a$10$already.a.hash", user.Password)
}
