package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stardrift/server/internal/persist"
)

func TestWorldFingerprint(t *testing.T) {
	fp := persist.WorldFingerprint(20771, 1)
	assert.Len(t, fp, 32, "16 bytes of digest as hex")
	assert.Equal(t, fp, persist.WorldFingerprint(20771, 1), "stable across calls")

	// Any change to seed or generator version is a different world.
	assert.NotEqual(t, fp, persist.WorldFingerprint(20772, 1))
	assert.NotEqual(t, fp, persist.WorldFingerprint(-20771, 1))
	assert.NotEqual(t, fp, persist.WorldFingerprint(20771, 2))
}
