package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAI(t *testing.T) {
	assert.True(t, IsAI("ai_easy"))
	assert.True(t, IsAI("ai_hard"))
	assert.False(t, IsAI("alice"))
	assert.False(t, IsAI("ai_impossible"))
}

func TestAIRating_PerDifficulty(t *testing.T) {
	assert.Equal(t, 1200, AIRating("ai_easy"))
	assert.Equal(t, 1500, AIRating("ai_medium"))
	assert.Equal(t, 1800, AIRating("ai_hard"))
	assert.Equal(t, DefaultRating, AIRating("alice"))
}
