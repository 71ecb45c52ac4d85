package template

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Version is a rational template version. Trailing zeros are not significant.
type Version struct {
	d decimal.Decimal
}

// ParseVersion parses a version such as "1", "1.0" or "v2.5".
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "v")
	if raw == "" {
		return Version{}, fmt.Errorf("%w: empty version", ErrInvalidVersion)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	if d.IsNegative() {
		return Version{}, fmt.Errorf("%w: %q is negative", ErrInvalidVersion, s)
	}

	return Version{d: d}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
// Intended for static tables and tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical form, without trailing zeros ("1.0" -> "1").
func (v Version) String() string {
	return v.d.String()
}

// Equal reports whether both versions denote the same number.
func (v Version) Equal(o Version) bool {
	return v.d.Equal(o.d)
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// UnmarshalYAML accepts both quoted and bare numeric versions.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	return v.UnmarshalText([]byte(node.Value))
}

// Key identifies exactly one template.
type Key struct {
	ApplicationID string
	TemplateID    string
	Version       Version
}

// NewKey validates and builds a key from caller input.
func NewKey(applicationID, templateID, version string) (Key, error) {
	applicationID = strings.TrimSpace(applicationID)
	templateID = strings.TrimSpace(templateID)

	if applicationID == "" {
		return Key{}, fmt.Errorf("%w: application id is required", ErrInvalidKey)
	}
	if templateID == "" {
		return Key{}, fmt.Errorf("%w: template id is required", ErrInvalidKey)
	}
	if strings.ContainsAny(applicationID+templateID, `/\`) || strings.Contains(applicationID+templateID, "..") {
		return Key{}, fmt.Errorf("%w: %s/%s contains path separators", ErrInvalidKey, applicationID, templateID)
	}

	v, err := ParseVersion(version)
	if err != nil {
		return Key{}, err
	}

	return Key{
		ApplicationID: applicationID,
		TemplateID:    templateID,
		Version:       v,
	}, nil
}

// MustKey is like NewKey but panics on error.
func MustKey(applicationID, templateID, version string) Key {
	k, err := NewKey(applicationID, templateID, version)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns the canonical "app/template/vN" form used as the lookup key.
func (k Key) String() string {
	return k.ApplicationID + "/" + k.TemplateID + "/v" + k.Version.String()
}

// Equal compares keys with version normalization.
func (k Key) Equal(o Key) bool {
	return k.ApplicationID == o.ApplicationID &&
		k.TemplateID == o.TemplateID &&
		k.Version.Equal(o.Version)
}
