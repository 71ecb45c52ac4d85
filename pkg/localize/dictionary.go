package localize

import (
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dictionary is a bidirectional month-name table. Immutable after creation.
type Dictionary struct {
	forward  map[string]string
	backward map[string]string
}

var welshMonths = [][2]string{
	{"January", "Ionawr"},
	{"February", "Chwefror"},
	{"March", "Mawrth"},
	{"April", "Ebrill"},
	{"May", "Mai"},
	{"June", "Mehefin"},
	{"July", "Gorffennaf"},
	{"August", "Awst"},
	{"September", "Medi"},
	{"October", "Hydref"},
	{"November", "Tachwedd"},
	{"December", "Rhagfyr"},
}

// Welsh returns the built-in English to Welsh month dictionary.
func Welsh() *Dictionary {
	d, _ := newDictionary(welshMonths)
	return d
}

// NewDictionary builds a dictionary from English to target month names.
// Both sides must be unique (case-insensitively) so the table can be reversed.
func NewDictionary(months map[string]string) (*Dictionary, error) {
	pairs := make([][2]string, 0, len(months))
	for src, dst := range months {
		pairs = append(pairs, [2]string{src, dst})
	}
	return newDictionary(pairs)
}

func newDictionary(pairs [][2]string) (*Dictionary, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no months", ErrInvalidDictionary)
	}

	d := &Dictionary{
		forward:  make(map[string]string, len(pairs)),
		backward: make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		src, dst := strings.TrimSpace(p[0]), strings.TrimSpace(p[1])
		if src == "" || dst == "" || strings.ContainsAny(src+dst, " \t\n") {
			return nil, fmt.Errorf("%w: bad entry %q -> %q", ErrInvalidDictionary, p[0], p[1])
		}
		if _, dup := d.forward[fold(src)]; dup {
			return nil, fmt.Errorf("%w: duplicate month %q", ErrInvalidDictionary, src)
		}
		if _, dup := d.backward[fold(dst)]; dup {
			return nil, fmt.Errorf("%w: duplicate translation %q", ErrInvalidDictionary, dst)
		}
		d.forward[fold(src)] = dst
		d.backward[fold(dst)] = src
	}
	return d, nil
}

// Len returns the number of months in the dictionary.
func (d *Dictionary) Len() int { return len(d.forward) }

// Translate maps a source month to its translation.
func (d *Dictionary) Translate(month string) (string, bool) {
	v, ok := d.forward[fold(month)]
	return v, ok
}

// Reverse maps a translated month back to its source name.
func (d *Dictionary) Reverse(month string) (string, bool) {
	v, ok := d.backward[fold(month)]
	return v, ok
}

func fold(s string) string { return strings.ToLower(s) }

type dictionaryFile struct {
	Months yaml.Node `yaml:"months"`
}

// LoadDictionary reads a YAML dictionary with a top-level "months" mapping.
// Entry order in the file is preserved for error reporting.
func LoadDictionary(fsys fs.FS, name string) (*Dictionary, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", ErrInvalidDictionary, name, err)
	}

	var file dictionaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %v", ErrInvalidDictionary, name, err)
	}
	if file.Months.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %q: months must be a mapping", ErrInvalidDictionary, name)
	}

	content := file.Months.Content
	pairs := make([][2]string, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		pairs = append(pairs, [2]string{content[i].Value, content[i+1].Value})
	}

	d, err := newDictionary(pairs)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}
	return d, nil
}
