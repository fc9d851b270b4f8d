package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.1, Clamp(0, 0.1, 5))
	assert.Equal(t, 5.0, Clamp(12, 0.1, 5))
	assert.Equal(t, 2.5, Clamp(2.5, 0.1, 5))
	assert.Equal(t, 100.0, Clamp(100, 100, 500))
}
