// Package manifest loads combined-form definitions from YAML or JSON
// documents: which subforms compose an aggregate, which entity backs each
// one, and which expression rules validate the whole. Definitions are wired
// into runnable builders against an entity registry and a record store.
package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds the combined-form definitions parsed from a filesystem.
type Store struct {
	definitions map[string]Definition
}

// LoadFS walks the provided filesystem and parses JSON/YAML manifest files.
// When fsys is nil or no manifest files are present, the returned store is
// empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{definitions: make(map[string]Definition)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !isManifestFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("manifest: read %s: %w", path, err)
		}

		var doc documentFile
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("manifest: parse %s: %w", path, err)
		}

		for name, raw := range doc.Forms {
			id := strings.TrimSpace(name)
			if id == "" {
				return fmt.Errorf("manifest: file %s defines a form with an empty name", path)
			}
			if _, exists := store.definitions[id]; exists {
				return fmt.Errorf("manifest: duplicate form %q (file %s)", id, path)
			}

			definition, err := normaliseDefinition(id, raw, path)
			if err != nil {
				return err
			}
			store.definitions[id] = definition
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Definition returns the combined-form definition registered under name.
func (s *Store) Definition(name string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	definition, ok := s.definitions[name]
	return definition, ok
}

// Names returns the sorted names of every loaded definition.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.definitions))
	for name := range s.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any definitions.
func (s *Store) Empty() bool {
	return s == nil || len(s.definitions) == 0
}

func isManifestFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

type documentFile struct {
	Forms map[string]definitionFile `json:"forms" yaml:"forms"`
}

type definitionFile struct {
	MainForm   string          `json:"main_form" yaml:"main_form"`
	Subforms   []subformFile   `json:"subforms" yaml:"subforms"`
	Validators []validatorFile `json:"validators" yaml:"validators"`
}

type subformFile struct {
	Name       string `json:"name" yaml:"name"`
	Entity     string `json:"entity" yaml:"entity"`
	Prefix     string `json:"prefix" yaml:"prefix"`
	Collection bool   `json:"collection" yaml:"collection"`
}

type validatorFile struct {
	Expr    string `json:"expr" yaml:"expr"`
	Message string `json:"message" yaml:"message"`
}

func normaliseDefinition(name string, raw definitionFile, path string) (Definition, error) {
	if len(raw.Subforms) == 0 {
		return Definition{}, fmt.Errorf("manifest: form %q has no subforms (file %s)", name, path)
	}

	definition := Definition{
		Name:     name,
		MainForm: strings.TrimSpace(raw.MainForm),
	}

	seen := make(map[string]struct{}, len(raw.Subforms))
	for i, sub := range raw.Subforms {
		subName := strings.TrimSpace(sub.Name)
		if subName == "" {
			return Definition{}, fmt.Errorf("manifest: form %q subform %d has no name (file %s)", name, i, path)
		}
		if _, dup := seen[subName]; dup {
			return Definition{}, fmt.Errorf("manifest: form %q declares subform %q twice (file %s)", name, subName, path)
		}
		seen[subName] = struct{}{}

		entityName := strings.TrimSpace(sub.Entity)
		if entityName == "" {
			return Definition{}, fmt.Errorf("manifest: form %q subform %q has no entity (file %s)", name, subName, path)
		}

		definition.Subforms = append(definition.Subforms, Subform{
			Name:       subName,
			Entity:     entityName,
			Prefix:     strings.TrimSpace(sub.Prefix),
			Collection: sub.Collection,
		})
	}

	if definition.MainForm != "" {
		if _, ok := seen[definition.MainForm]; !ok {
			return Definition{}, fmt.Errorf("manifest: form %q names unknown main form %q (file %s)", name, definition.MainForm, path)
		}
	}

	for i, validator := range raw.Validators {
		expr := strings.TrimSpace(validator.Expr)
		if expr == "" {
			return Definition{}, fmt.Errorf("manifest: form %q validator %d has no expression (file %s)", name, i, path)
		}
		definition.Validators = append(definition.Validators, Validator{
			Expr:    expr,
			Message: strings.TrimSpace(validator.Message),
		})
	}

	return definition, nil
}
