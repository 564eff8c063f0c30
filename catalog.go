package sheetfill

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownTemplate is returned when a catalog has no template of the requested type.
var ErrUnknownTemplate = errors.New("unknown template type")

// DefaultOutputPattern names rendered files when a catalog sets no pattern.
const DefaultOutputPattern = "{{ type }}.xlsx"

// Catalog maps template types to xlsx files and names the rendered output.
//
//	dir: templates
//	output: "{{ type }}_notice_{{ notice_no }}.xlsx"
//	templates:
//	  construction: construction_notice.xlsx
//	  design: design_notice.xlsx
type Catalog struct {
	Dir       string            `yaml:"dir"`
	Output    string            `yaml:"output"`
	Templates map[string]string `yaml:"templates"`
}

// LoadCatalog reads a YAML catalog. A relative dir is resolved against the
// catalog file's directory.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", path, err)
	}
	if !filepath.IsAbs(c.Dir) {
		c.Dir = filepath.Join(filepath.Dir(path), c.Dir)
	}
	return &c, nil
}

// Names returns the template types in sorted order.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.Templates))
}

// Path returns the template file for a type and checks that it exists.
func (c *Catalog) Path(name string) (string, error) {
	file, ok := c.Templates[name]
	if !ok {
		return "", fmt.Errorf("%w %q (known: %s)", ErrUnknownTemplate, name, strings.Join(c.Names(), ", "))
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(c.Dir, file)
	}
	if _, err := os.Stat(file); err != nil {
		return "", fmt.Errorf("template %q: %w", name, err)
	}
	return file, nil
}

// OutputName renders the output file name for a type. The pattern sees the
// render context plus "type". Path separators in the result are replaced.
func (c *Catalog) OutputName(name string, data map[string]any) (string, error) {
	pattern := c.Output
	if pattern == "" {
		pattern = DefaultOutputPattern
	}
	vars := make(map[string]any, len(data)+1)
	maps.Copy(vars, data)
	vars["type"] = name

	out, err := NewContext(vars).RenderString(pattern)
	if err != nil {
		return "", fmt.Errorf("output name %q: %w", pattern, err)
	}
	out = strings.NewReplacer("/", "_", `\`, "_").Replace(out)
	if strings.TrimSuffix(out, filepath.Ext(out)) == "" {
		return "", fmt.Errorf("output name %q renders empty", pattern)
	}
	return out, nil
}
