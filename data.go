package sheetfill

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Data file formats understood by DecodeData.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LoadData reads a render context from a JSON or YAML file. The format is
// taken from the file extension.
func LoadData(path string) (map[string]any, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	data, err := DecodeData(f, format)
	if err != nil {
		return nil, fmt.Errorf("data file %q: %w", path, err)
	}
	return data, nil
}

// DecodeData decodes a render context. The top level must be a mapping.
// An empty document yields an empty context.
func DecodeData(r io.Reader, format string) (map[string]any, error) {
	data := make(map[string]any)
	switch strings.ToLower(format) {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&data); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML, "yml":
		if err := yaml.NewDecoder(r).Decode(&data); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported data format %q", format)
	}
	return data, nil
}

func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("cannot infer data format of %q: want .json, .yaml or .yml", path)
	}
}
