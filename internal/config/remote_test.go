package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remote.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRemoteManifest_Default(t *testing.T) {
	m, err := LoadRemoteManifest("", DefaultPublicPath)
	require.NoError(t, err)

	assert.Equal(t, "NewsApp", m.Name)
	assert.Equal(t, "http://localhost:3006/", m.PublicPath)
	assert.Equal(t, "http://localhost:3006/NewsApp", m.EntryURL("./NewsApp"))
	assert.Empty(t, m.EntryURL("./Other"))
	for _, lib := range []string{"react", "react-dom", "tailwindcss"} {
		assert.True(t, m.Shared[lib].Eager, lib)
	}
}

func TestLoadRemoteManifest_Overlay(t *testing.T) {
	path := writeManifest(t, `
public_path: https://news.example.com/remote/
shared:
  react:
    eager: true
    singleton: true
    required_version: ^18.2.0
`)

	m, err := LoadRemoteManifest(path, DefaultPublicPath)
	require.NoError(t, err)

	assert.Equal(t, "NewsApp", m.Name, "unset fields keep defaults")
	assert.Equal(t, "https://news.example.com/remote/", m.PublicPath)
	assert.Equal(t, "https://news.example.com/remote/NewsApp", m.EntryURL(ExposedModule))
	require.Len(t, m.Shared, 1)
	assert.Equal(t, SharedDependency{Eager: true, Singleton: true, RequiredVersion: "^18.2.0"}, m.Shared["react"])
}

func TestLoadRemoteManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "wrong name", content: "name: WeatherApp\n", wantErr: "name"},
		{name: "missing exposed module", content: "exposes:\n  ./Other: Other\n", wantErr: "./NewsApp"},
		{name: "public path without slash", content: "public_path: http://x.test\n", wantErr: "must end with /"},
		{name: "invalid yaml", content: "name: [unterminated\n", wantErr: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRemoteManifest(writeManifest(t, tt.content), DefaultPublicPath)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadRemoteManifest_MissingFile(t *testing.T) {
	_, err := LoadRemoteManifest(filepath.Join(t.TempDir(), "nope.yaml"), DefaultPublicPath)
	assert.ErrorContains(t, err, "failed to read remote manifest")
}
