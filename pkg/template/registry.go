package template

import (
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the source format of a template file.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Schema describes what a template needs before it can be rendered.
type Schema struct {
	// Required lists context variables that must be present.
	Required []string
	// TriggerDateSource names the context variable copied into trigger_date.
	TriggerDateSource string
	// Format of the template file; empty means html.
	Format Format
	// ReplyByDays publishes reply_by_date as today plus this many days when > 0.
	ReplyByDays int
	// NeedsToday publishes the sending date as "date".
	NeedsToday bool
	// Bilingual marks templates rendered in English and Welsh.
	Bilingual bool
}

// Missing returns the required variables absent from vars, sorted.
func (s Schema) Missing(vars map[string]string) []string {
	var missing []string
	for _, name := range s.Required {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func (s Schema) clone() Schema {
	s.Required = slices.Clone(s.Required)
	return s
}

// Entry binds a schema to a key.
type Entry struct {
	Schema Schema
	Key    Key
}

// Registry is an immutable lookup table of template schemas.
// Safe for concurrent use.
type Registry struct {
	entries map[string]Schema
	keys    []Key
}

// NewRegistry builds a registry from entries. Registering a key twice
// (including "1" and "1.0" of the same template) is an error.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		entries: make(map[string]Schema, len(entries)),
		keys:    make([]Key, 0, len(entries)),
	}

	for _, e := range entries {
		id := e.Key.String()
		if _, exists := r.entries[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTemplate, id)
		}
		schema := e.Schema.clone()
		if schema.Format == "" {
			schema.Format = FormatHTML
		}
		if schema.Format != FormatHTML && schema.Format != FormatMarkdown {
			return nil, fmt.Errorf("%w: %s has unknown format %q", ErrInvalidRegistry, id, schema.Format)
		}
		r.entries[id] = schema
		r.keys = append(r.keys, e.Key)
	}

	sort.Slice(r.keys, func(i, j int) bool {
		return r.keys[i].String() < r.keys[j].String()
	})

	return r, nil
}

// Schema returns the schema registered for key.
func (r *Registry) Schema(key Key) (Schema, error) {
	schema, ok := r.entries[key.String()]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %s", ErrTemplateNotRegistered, key)
	}
	return schema.clone(), nil
}

// Has reports whether key is registered.
func (r *Registry) Has(key Key) bool {
	_, ok := r.entries[key.String()]
	return ok
}

// Keys returns all registered keys in canonical order.
func (r *Registry) Keys() []Key {
	return slices.Clone(r.keys)
}

type registryFile struct {
	Templates []registryEntry `yaml:"templates"`
}

type registryEntry struct {
	Application       string   `yaml:"application"`
	Template          string   `yaml:"template"`
	Version           string   `yaml:"version"`
	Format            Format   `yaml:"format"`
	TriggerDateSource string   `yaml:"trigger_date_source"`
	Required          []string `yaml:"required"`
	ReplyByDays       int      `yaml:"reply_by_days"`
	NeedsToday        bool     `yaml:"needs_today"`
	Bilingual         bool     `yaml:"bilingual"`
}

// LoadRegistry reads a YAML registry file from fsys.
//
// Example file:
//
//	templates:
//	  - application: chips
//	    template: direction_letter
//	    version: "1"
//	    needs_today: true
//	    bilingual: true
//	    required: [company_name, deadline_date]
func LoadRegistry(fsys fs.FS, name string) (*Registry, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", ErrInvalidRegistry, name, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %v", ErrInvalidRegistry, name, err)
	}

	entries := make([]Entry, 0, len(file.Templates))
	for i, t := range file.Templates {
		key, err := NewKey(t.Application, t.Template, t.Version)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidRegistry, i, err)
		}

		required := make([]string, 0, len(t.Required))
		for _, name := range t.Required {
			if name = strings.TrimSpace(name); name != "" {
				required = append(required, name)
			}
		}

		entries = append(entries, Entry{
			Key: key,
			Schema: Schema{
				Required:          required,
				TriggerDateSource: t.TriggerDateSource,
				Format:            t.Format,
				ReplyByDays:       t.ReplyByDays,
				NeedsToday:        t.NeedsToday,
				Bilingual:         t.Bilingual,
			},
		})
	}

	return NewRegistry(entries...)
}
