package model_test

import (
	"testing"

	"taskboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	p, ok := model.ParsePriority("HIGH")
	assert.True(t, ok)
	assert.Equal(t, model.PriorityHigh, p)

	p, ok = model.ParsePriority("medium")
	assert.True(t, ok)
	assert.Equal(t, model.PriorityMedium, p)

	// Absent priority is not an error; the caller applies the default.
	p, ok = model.ParsePriority("")
	assert.True(t, ok)
	assert.Equal(t, model.CardPriority(""), p)

	_, ok = model.ParsePriority("URGENT")
	assert.False(t, ok)
}

func TestCardPriority_External(t *testing.T) {
	assert.Equal(t, "LOW", model.PriorityLow.External())
	assert.Equal(t, "MEDIUM", model.PriorityMedium.External())
	assert.Equal(t, "HIGH", model.PriorityHigh.External())
}
