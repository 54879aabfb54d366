package access

import (
	"testing"

	"codeberg.org/cosmicquirks/server/internal/config"
	"github.com/stretchr/testify/assert"
)

func testPolicy() *Policy {
	return NewPolicy(config.FormAccess{
		Unregistered: []string{"fortune"},
		Registered:   []string{"fortune", "matchmaking", "birthday", "career", "travel"},
		Premium:      []string{"fortune", "matchmaking", "birthday", "career", "travel"},
	})
}

func TestAllowed(t *testing.T) {
	p := testPolicy()

	assert.True(t, p.Allowed("fortune", TierUnregistered))
	assert.False(t, p.Allowed("matchmaking", TierUnregistered))
	assert.True(t, p.Allowed("matchmaking", TierRegistered))
	assert.True(t, p.Allowed("travel", TierPremium))
	assert.False(t, p.Allowed("tarot", TierPremium))
}

func TestAllowedUnknownTierFallsBackToUnregistered(t *testing.T) {
	p := testPolicy()

	assert.True(t, p.Allowed("fortune", "galactic"))
	assert.False(t, p.Allowed("matchmaking", "galactic"))
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierUnregistered, TierFor(false, ""))
	assert.Equal(t, TierUnregistered, TierFor(false, "premium"))
	assert.Equal(t, TierRegistered, TierFor(true, ""))
	assert.Equal(t, TierRegistered, TierFor(true, "registered"))
	assert.Equal(t, TierPremium, TierFor(true, "premium"))
}
