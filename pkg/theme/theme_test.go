package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

func TestGet_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, "neon", Get("neon").ID)
	assert.Equal(t, DefaultTheme, Get("does-not-exist").ID)
	assert.False(t, Exists("does-not-exist"))
}

func TestListMatchesRegistry(t *testing.T) {
	ids := List()
	assert.Len(t, ids, len(Registry))
	for _, id := range ids {
		assert.True(t, Exists(id), id)
	}
}

func TestEventColor(t *testing.T) {
	p := Get("midnight")
	assert.Equal(t, p.Primary, p.EventColor(conscious.EventRunStart))
	assert.Equal(t, p.Accent, p.EventColor(conscious.EventPhi))
	assert.Equal(t, p.Accent2, p.EventColor(conscious.EventCIPSQualia))

	// Every tag maps onto a non-empty color.
	for _, et := range conscious.AllEventTypes() {
		assert.NotEmpty(t, p.EventColor(et), et)
	}
}

func TestGetAccent2_Fallback(t *testing.T) {
	p := Get("paper")
	assert.Empty(t, p.Accent2)
	assert.Equal(t, p.Accent, p.GetAccent2())
	assert.True(t, Get("midnight").IsDark())
	assert.False(t, p.IsDark())
}
