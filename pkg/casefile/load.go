package casefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// A case directory holds incident, clues and accusation documents plus a
// characters/ subdirectory with one dialog tree per character:
//
//	<dir>/incident.(json|yaml)
//	<dir>/clues.(json|yaml)
//	<dir>/accusation.(json|yaml)
//	<dir>/characters/<id>.(json|yaml)

// decodeFile unmarshals a JSON or YAML document based on file extension.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported document format: %s", path)
	}
	return nil
}

// findDocument locates a document by base name, trying the supported
// extensions in order.
func findDocument(dir, base string) (string, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("document not found: %s", filepath.Join(dir, base))
}

// Load reads and assembles all case documents from a directory. It does
// not validate; call Validate on the result before use.
func Load(dir string) (*Case, error) {
	c := &Case{Name: filepath.Base(dir)}

	path, err := findDocument(dir, "incident")
	if err != nil {
		return nil, err
	}
	if err := decodeFile(path, &c.Incident); err != nil {
		return nil, err
	}

	path, err = findDocument(dir, "clues")
	if err != nil {
		return nil, err
	}
	if err := decodeFile(path, &c.Clues); err != nil {
		return nil, err
	}

	path, err = findDocument(dir, "accusation")
	if err != nil {
		return nil, err
	}
	if err := decodeFile(path, &c.Accusation); err != nil {
		return nil, err
	}

	charsDir := filepath.Join(dir, "characters")
	entries, err := os.ReadDir(charsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read characters directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		var cd CharacterDialog
		if err := decodeFile(filepath.Join(charsDir, entry.Name()), &cd); err != nil {
			return nil, err
		}
		// Filename overrides any id in the document.
		cd.Character = strings.TrimSuffix(entry.Name(), ext)
		c.Characters = append(c.Characters, cd)
	}
	sort.Slice(c.Characters, func(i, j int) bool {
		return c.Characters[i].Character < c.Characters[j].Character
	})

	return c, nil
}
