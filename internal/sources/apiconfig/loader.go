package apiconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Loader reads an API description file. The format follows the extension:
// .yaml/.yml or .toml.
type Loader struct {
	filePath string
}

// NewLoader creates a new API file loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the API file
func (l *Loader) Load() (File, error) {
	var file File

	ext := strings.ToLower(filepath.Ext(l.filePath))
	if ext != ".yaml" && ext != ".yml" && ext != ".toml" {
		return file, fmt.Errorf("unsupported API file extension %q (want .yaml, .yml or .toml)", ext)
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return file, fmt.Errorf("failed to read API file: %w", err)
	}

	return Parse(data, ext)
}

// Parse decodes data in the format named by ext.
func Parse(data []byte, ext string) (File, error) {
	var file File
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return file, fmt.Errorf("failed to parse API yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return file, fmt.Errorf("failed to parse API toml: %w", err)
		}
	default:
		return file, fmt.Errorf("unsupported API file format %q", ext)
	}
	return file, nil
}
