package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	u := &User{Username: "admin", Password: hash}
	assert.True(t, u.VerifyPassword("s3cret"))
	assert.False(t, u.VerifyPassword("wrong"))

	broken := &User{Username: "broken", Password: "not-a-hash"}
	assert.False(t, broken.VerifyPassword("s3cret"))
}

func TestMenuItemIsPublished(t *testing.T) {
	assert.True(t, (&MenuItem{Status: StatusPublish}).IsPublished())
	assert.False(t, (&MenuItem{Status: StatusDraft}).IsPublished())
	assert.False(t, (&MenuItem{Status: StatusPrivate}).IsPublished())
}
