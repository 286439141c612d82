package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlaceholder = "https://via.placeholder.com/400x200?text=No+Image"

func strPtr(s string) *string { return &s }

func TestArticle_ImageURL(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		want    string
	}{
		{
			name:    "null image uses placeholder",
			article: Article{Title: "a"},
			want:    testPlaceholder,
		},
		{
			name:    "empty image uses placeholder",
			article: Article{Title: "a", URLToImage: strPtr("")},
			want:    testPlaceholder,
		},
		{
			name:    "image is returned verbatim",
			article: Article{Title: "a", URLToImage: strPtr("http://x/y.png")},
			want:    "http://x/y.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.article.ImageURL(testPlaceholder))
		})
	}
}

func TestArticle_DescriptionText(t *testing.T) {
	assert.Equal(t, "", Article{}.DescriptionText())
	assert.Equal(t, "body", Article{Description: strPtr("body")}.DescriptionText())
}

func TestArticle_DecodeNullableFields(t *testing.T) {
	raw := `{
		"source": {"id": null, "name": "Example"},
		"author": null,
		"title": "Markets rally",
		"description": null,
		"url": "https://example.com/a",
		"urlToImage": null,
		"publishedAt": "2024-01-01T00:00:00Z"
	}`

	var a Article
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	assert.Equal(t, "Markets rally", a.Title)
	assert.Equal(t, "https://example.com/a", a.URL)
	assert.Nil(t, a.Description)
	assert.Nil(t, a.URLToImage)
}
