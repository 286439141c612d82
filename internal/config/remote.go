package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"newsfeed/internal/domain/entity"
)

const (
	// RemoteName is the module name host shells import the fragment under.
	RemoteName = "NewsApp"

	// ExposedModule is the entry the host requests.
	ExposedModule = "./NewsApp"

	// DefaultPublicPath is where this remote is served during development.
	DefaultPublicPath = "http://localhost:3006/"
)

// SharedDependency describes a library the host shell provides to the remote.
type SharedDependency struct {
	Eager           bool   `yaml:"eager" json:"eager"`
	Singleton       bool   `yaml:"singleton,omitempty" json:"singleton,omitempty"`
	RequiredVersion string `yaml:"required_version,omitempty" json:"requiredVersion,omitempty"`
}

// RemoteManifest tells a host shell how to load the fragment.
type RemoteManifest struct {
	Name       string `yaml:"name" json:"name"`
	PublicPath string `yaml:"public_path" json:"publicPath"`
	// Exposes maps exposed module names to paths relative to PublicPath.
	Exposes map[string]string           `yaml:"exposes" json:"exposes"`
	Shared  map[string]SharedDependency `yaml:"shared" json:"shared"`
}

// DefaultRemoteManifest returns the manifest served when no YAML override exists.
func DefaultRemoteManifest(publicPath string) RemoteManifest {
	return RemoteManifest{
		Name:       RemoteName,
		PublicPath: publicPath,
		Exposes:    map[string]string{ExposedModule: "NewsApp"},
		Shared: map[string]SharedDependency{
			"react":       {Eager: true},
			"react-dom":   {Eager: true},
			"tailwindcss": {Eager: true},
		},
	}
}

// LoadRemoteManifest returns the default manifest for publicPath, overlaid with the
// YAML file at path when path is non-empty. Fields absent from the file keep their defaults.
func LoadRemoteManifest(path, publicPath string) (*RemoteManifest, error) {
	m := DefaultRemoteManifest(publicPath)
	if path == "" {
		return &m, m.Validate()
	}

	// #nosec G304 -- path comes from the operator's environment, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote manifest: %w", err)
	}

	var file RemoteManifest
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse remote manifest: %w", err)
	}
	m.merge(file)

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("remote manifest validation failed: %w", err)
	}
	return &m, nil
}

func (m *RemoteManifest) merge(o RemoteManifest) {
	if o.Name != "" {
		m.Name = o.Name
	}
	if o.PublicPath != "" {
		m.PublicPath = o.PublicPath
	}
	if o.Exposes != nil {
		m.Exposes = o.Exposes
	}
	if o.Shared != nil {
		m.Shared = o.Shared
	}
}

// Validate checks that the manifest can be consumed by a host shell.
func (m *RemoteManifest) Validate() error {
	if m.Name != RemoteName {
		return &entity.ValidationError{Field: "name", Message: fmt.Sprintf("must be %q", RemoteName)}
	}
	if _, ok := m.Exposes[ExposedModule]; !ok {
		return &entity.ValidationError{Field: "exposes", Message: fmt.Sprintf("must expose %q", ExposedModule)}
	}
	return validatePublicPath(m.PublicPath)
}

// EntryURL returns the absolute URL of an exposed module, or "" if it is not exposed.
// The fragment's htmx requests target this URL, so a public path behind a proxy prefix
// keeps working.
func (m *RemoteManifest) EntryURL(module string) string {
	rel, ok := m.Exposes[module]
	if !ok {
		return ""
	}
	return m.PublicPath + strings.TrimPrefix(rel, "/")
}

func validatePublicPath(v string) error {
	if err := entity.ValidateURL("public_path", v); err != nil {
		return err
	}
	if !strings.HasSuffix(v, "/") {
		return &entity.ValidationError{Field: "public_path", Message: "must end with /"}
	}
	return nil
}
