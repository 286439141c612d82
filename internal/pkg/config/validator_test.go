package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(0, 0, time.Minute))
	assert.NoError(t, ValidateDuration(time.Minute, 0, time.Minute))
	assert.Error(t, ValidateDuration(-time.Second, 0, time.Minute))
	assert.Error(t, ValidateDuration(2*time.Minute, 0, time.Minute))
	assert.ErrorContains(t, ValidateDuration(time.Second, time.Minute, time.Second), "invalid range")
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(1, 1, 10))
	assert.NoError(t, ValidateIntRange(10, 1, 10))
	assert.ErrorContains(t, ValidateIntRange(0, 1, 10), "below minimum")
	assert.ErrorContains(t, ValidateIntRange(11, 1, 10), "exceeds maximum")
	assert.ErrorContains(t, ValidateIntRange(5, 10, 1), "invalid range")
}
