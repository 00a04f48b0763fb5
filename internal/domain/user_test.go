package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_SecretsExcludedFromJSON(t *testing.T) {
	u := User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice Smith",
		PasswordHash: "bcrypt-hash",
		RefreshToken: "stored-refresh-token",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.NotContains(t, string(data), "bcrypt-hash")
	assert.NotContains(t, string(data), "stored-refresh-token")
	assert.Equal(t, "alice", out["username"])
	assert.Equal(t, "alice@example.com", out["email"])
}

func TestUser_CoverImageOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(User{ID: "user-1"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "cover_image_url")
}
