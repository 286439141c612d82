package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://newsapi.org/v2/top-headlines", wantErr: false},
		{name: "valid http URL with port", url: "http://localhost:3006/", wantErr: false},
		{name: "valid URL with query", url: "https://via.placeholder.com/400x200?text=No+Image", wantErr: false},
		{name: "empty URL", url: "", wantErr: true},
		{name: "invalid scheme - ftp", url: "ftp://example.com/feed", wantErr: true},
		{name: "invalid scheme - javascript", url: "javascript:alert(1)", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", maxURLLength), wantErr: true},
		{name: "unparseable", url: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL("endpoint", tt.url)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			var ve *ValidationError
			if assert.True(t, errors.As(err, &ve)) {
				assert.Equal(t, "endpoint", ve.Field)
			}
		})
	}
}
