package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhitelistValidator(t *testing.T) {
	v := NewWhitelistValidator([]string{"http://localhost:3000", " https://Shell.Example.com/ ", "", "http://localhost:3000"})

	assert.Equal(t, []string{"http://localhost:3000", "https://shell.example.com"}, v.AllowedOrigins())

	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"http://localhost:3000/", true},
		{"https://shell.example.com", true},
		{"HTTPS://SHELL.EXAMPLE.COM", true},
		{"http://localhost:3001", false},
		{"http://localhost", false},
		{"", false},
		{"null", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.IsAllowed(tt.origin), tt.origin)
	}
}

func TestWhitelistValidator_AllowedOriginsIsCopy(t *testing.T) {
	v := NewWhitelistValidator([]string{"http://a.test"})
	got := v.AllowedOrigins()
	got[0] = "http://mutated.test"

	assert.True(t, v.IsAllowed("http://a.test"))
}
