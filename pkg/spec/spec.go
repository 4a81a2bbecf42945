package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a planning input from a JSON or YAML file. The format is
// chosen by extension; anything other than .yaml/.yml is read as JSON.
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// LoadProject loads the planning input from a project directory.
// It looks for input.json, then input.yaml.
func LoadProject(projectDir string) (*Input, error) {
	for _, name := range []string{"input.json", "input.yaml"} {
		p := filepath.Join(projectDir, name)
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return nil, fmt.Errorf("no input.json or input.yaml in %s", projectDir)
}

// ParseJSON decodes a JSON planning input.
func ParseJSON(data []byte) (*Input, error) {
	var in Input
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("parsing input JSON: %w", err)
	}
	return &in, nil
}

// ParseYAML decodes a YAML planning input.
func ParseYAML(data []byte) (*Input, error) {
	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing input YAML: %w", err)
	}
	return &in, nil
}
