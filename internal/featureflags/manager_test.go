package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_Defaults(t *testing.T) {
	m := NewManager("")
	assert.True(t, m.Enabled(ProductListCache, 0))
	assert.True(t, m.Enabled(SellerNotifications, 7))
	assert.False(t, m.Enabled("unknown_flag", 7))
}

func TestManager_OverridesAndMalformedPairs(t *testing.T) {
	m := NewManager(" bad , PRODUCT_LIST_CACHE = off ,x=maybe,y=on")
	assert.False(t, m.Enabled(ProductListCache, 1))
	assert.False(t, m.Enabled("x", 1))
	assert.True(t, m.Enabled("y", 1))
	assert.True(t, m.Enabled(SellerNotifications, 1))
}

func TestManager_PercentageRollout(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,over=250%")

	assert.True(t, m.Enabled("always", 0))
	assert.True(t, m.Enabled("over", 3))
	assert.False(t, m.Enabled("never", 1))
	assert.False(t, m.Enabled("canary", 0))

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42))
	}

	enabled := 0
	for uid := uint(1); uid <= 1000; uid++ {
		if m.Enabled("canary", uid) {
			enabled++
		}
	}
	assert.InDelta(t, 250, enabled, 80)
}

func TestManager_NilIsDisabled(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(ProductListCache, 1))
}
