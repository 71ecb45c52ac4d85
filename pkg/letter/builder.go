package letter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/letterpress/pkg/localize"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

// Mode selects how the sending date is chosen.
type Mode int

const (
	// ModeSend dates the letter today.
	ModeSend Mode = iota
	// ModeRegenerate reproduces a letter using the date it was originally sent.
	ModeRegenerate
)

func (m Mode) String() string {
	switch m {
	case ModeSend:
		return "send"
	case ModeRegenerate:
		return "regenerate"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Params are the inputs of a single Build call.
type Params struct {
	Personalisation map[string]string
	Key             template.Key
	Reference       string
	Address         Address
	// OriginalDate is the date the letter was first sent. Used only in
	// ModeRegenerate; when zero, the original_sending_date personalisation
	// field is parsed instead.
	OriginalDate time.Time
	Mode         Mode
}

// Builder builds validated contexts. Safe for concurrent use.
type Builder struct {
	registry   *template.Registry
	locator    template.Locator
	translator *localize.Translator
	now        func() time.Time
	tz         *time.Location
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithTimeZone sets the zone sending dates are computed in. Defaults to UTC.
func WithTimeZone(tz *time.Location) Option {
	return func(b *Builder) {
		if tz != nil {
			b.tz = tz
		}
	}
}

// WithLocator sets the locator used to publish path variables.
func WithLocator(l template.Locator) Option {
	return func(b *Builder) {
		b.locator = l
	}
}

// WithTranslator replaces the default Welsh translator.
func WithTranslator(t *localize.Translator) Option {
	return func(b *Builder) {
		if t != nil {
			b.translator = t
		}
	}
}

// NewBuilder creates a Builder backed by registry.
func NewBuilder(registry *template.Registry, opts ...Option) (*Builder, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: nil registry", template.ErrInvalidRegistry)
	}
	b := &Builder{
		registry:   registry,
		locator:    template.NewLocator(template.DefaultRoot),
		translator: localize.Default(),
		now:        time.Now,
		tz:         time.UTC,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build assembles the variables for p and validates them against the
// template schema.
func (b *Builder) Build(p Params) (Context, error) {
	if _, ok := p.Personalisation[ReferenceVar]; ok {
		return Context{}, fmt.Errorf("%w: %q", ErrReservedField, ReferenceVar)
	}
	reference := strings.TrimSpace(p.Reference)
	if reference == "" {
		return Context{}, ErrMissingReference
	}

	company := strings.TrimSpace(p.Personalisation[CompanyNameVar])
	if company == "" {
		return Context{}, ErrMissingCompanyName
	}
	norm := newCompanyNormalizer(company)

	schema, err := b.registry.Schema(p.Key)
	if err != nil {
		return Context{}, err
	}
	loc := b.locator.Locate(p.Key).WithFormat(schema.Format)

	vars := make(map[string]string, len(p.Personalisation)+MaxAddressLines+8)
	vars[ReferenceVar] = reference
	vars[CompanyNameVar] = norm.upper

	for i, line := range p.Address.Lines() {
		vars[AddressLineVarPrefix+strconv.Itoa(i+1)] = norm.apply(line)
	}

	for name, value := range p.Personalisation {
		if name == CompanyNameVar {
			continue
		}
		vars[name] = norm.apply(value)
	}

	now := b.now().In(b.tz)
	sendingDate, err := b.sendingDate(p, now)
	if err != nil {
		return Context{}, err
	}
	if schema.NeedsToday {
		vars[TodayVar] = sendingDate.Format(DateLayout)
	}
	if schema.ReplyByDays > 0 {
		vars[ReplyByVar] = midnight(now).AddDate(0, 0, schema.ReplyByDays).Format(DateLayout)
	}

	if src := schema.TriggerDateSource; src != "" {
		if v, ok := vars[src]; ok {
			vars[TriggerVar] = v
		}
	}

	vars[RootPathVar] = loc.Root
	vars[LetterPathVar] = loc.Dir
	vars[CommonPathVar] = loc.CommonDir()

	if err := b.translator.LocalizeContext(vars); err != nil {
		return Context{}, fmt.Errorf("letter: localizing dates: %w", err)
	}

	if missing := schema.Missing(vars); len(missing) > 0 {
		return Context{}, &ValidationError{Key: p.Key, Missing: missing}
	}

	return Context{
		key:         p.Key,
		location:    loc,
		schema:      schema,
		vars:        vars,
		sendingDate: sendingDate,
	}, nil
}

func (b *Builder) sendingDate(p Params, now time.Time) (time.Time, error) {
	if p.Mode != ModeRegenerate {
		return midnight(now), nil
	}
	if !p.OriginalDate.IsZero() {
		return midnight(p.OriginalDate.In(b.tz)), nil
	}
	raw, ok := p.Personalisation[OriginalSendingDateVar]
	if !ok || strings.TrimSpace(raw) == "" {
		return time.Time{}, ErrMissingOriginalDate
	}
	d, err := ParseDate(raw, b.tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", OriginalSendingDateVar, err)
	}
	return d, nil
}

// ParseDate parses a date in DateLayout, tolerating extra whitespace.
func ParseDate(s string, tz *time.Location) (time.Time, error) {
	if tz == nil {
		tz = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, strings.Join(strings.Fields(s), " "), tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type companyNormalizer struct {
	upper string
}

func newCompanyNormalizer(name string) companyNormalizer {
	return companyNormalizer{upper: cases.Upper(language.Und).String(name)}
}

// apply replaces values equal to the company name, ignoring case and
// surrounding whitespace, with its upper-cased spelling.
func (n companyNormalizer) apply(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), n.upper) {
		return n.upper
	}
	return value
}
