package apiconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the top-level structure of an API description file.
type File struct {
	Versions VersionList `yaml:"versions" toml:"versions"`
}

// VersionList keeps versions in declaration order. In YAML it may be written
// as a mapping (version name -> props) or as a sequence of entries with a name.
type VersionList []VersionProps

// VersionProps are the raw properties of one API version.
type VersionProps struct {
	Name       string          `yaml:"name" toml:"name"`
	Active     *bool           `yaml:"active,omitempty" toml:"active,omitempty"`
	Deprecated *bool           `yaml:"deprecated,omitempty" toml:"deprecated,omitempty"`
	Endpoints  []EndpointProps `yaml:"endpoints" toml:"endpoints"`
}

// EndpointProps are the raw properties of one endpoint. Handler and
// Middleware are names looked up in the mapper's catalogs.
type EndpointProps struct {
	Route      string   `yaml:"route" toml:"route"`
	Method     string   `yaml:"method" toml:"method"`
	Handler    string   `yaml:"handler" toml:"handler"`
	Middleware []string `yaml:"middleware,omitempty" toml:"middleware,omitempty"`
	Active     *bool    `yaml:"active,omitempty" toml:"active,omitempty"`
	Deprecated *bool    `yaml:"deprecated,omitempty" toml:"deprecated,omitempty"`
}

func (l *VersionList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var entries []VersionProps
		if err := node.Decode(&entries); err != nil {
			return err
		}
		*l = entries
		return nil

	case yaml.MappingNode:
		entries := make([]VersionProps, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: version name must be a scalar", key.Line)
			}
			var props VersionProps
			if err := value.Decode(&props); err != nil {
				return fmt.Errorf("version %q: %w", key.Value, err)
			}
			props.Name = key.Value
			entries = append(entries, props)
		}
		*l = entries
		return nil

	default:
		return fmt.Errorf("line %d: versions must be a mapping or a sequence", node.Line)
	}
}
