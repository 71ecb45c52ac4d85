package pdf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Millimetres per point.
const mmPerPoint = 25.4 / 72

// Size is a page size in millimetres, written as "210x297".
type Size struct {
	Width  float64
	Height float64
}

// UnmarshalText parses "WIDTHxHEIGHT".
func (s *Size) UnmarshalText(text []byte) error {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(string(text))), "x")
	if !ok {
		return fmt.Errorf("%w: page size %q must be WIDTHxHEIGHT", ErrInvalidConfig, text)
	}
	var err error
	if s.Width, err = strconv.ParseFloat(strings.TrimSpace(w), 64); err != nil {
		return fmt.Errorf("%w: page width %q", ErrInvalidConfig, w)
	}
	if s.Height, err = strconv.ParseFloat(strings.TrimSpace(h), 64); err != nil {
		return fmt.Errorf("%w: page height %q", ErrInvalidConfig, h)
	}
	return nil
}

// Margins are box edges in millimetres, written in CSS order "top,right,bottom,left".
type Margins struct {
	Top, Right, Bottom, Left float64
}

// UnmarshalText parses one to four comma separated values using CSS shorthand rules.
func (m *Margins) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ",")
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("%w: margin %q", ErrInvalidConfig, p)
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 1:
		*m = Margins{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		*m = Margins{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		*m = Margins{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		*m = Margins{vals[0], vals[1], vals[2], vals[3]}
	default:
		return fmt.Errorf("%w: margins %q need 1 to 4 values", ErrInvalidConfig, text)
	}
	return nil
}

func (m Margins) edges(dpp float64) Edges {
	k := dpp / mmPerPoint
	return Edges{Top: m.Top * k, Right: m.Right * k, Bottom: m.Bottom * k, Left: m.Left * k}
}

// Config configures the converter. Paths are relative to the bundle.
type Config struct {
	Language       string   `env:"PDF_LANGUAGE" envDefault:"en-GB"`
	FontFamily     string   `env:"PDF_FONT_FAMILY" envDefault:"DejaVuSans"`
	RegularFont    string   `env:"PDF_FONT_REGULAR" envDefault:"fonts/DejaVuSans.ttf"`
	BoldFont       string   `env:"PDF_FONT_BOLD" envDefault:"fonts/DejaVuSans-Bold.ttf"`
	ColorProfile   string   `env:"PDF_COLOR_PROFILE" envDefault:"color/sRGB-IEC61966-2.1.icc"`
	ColorProfileID string   `env:"PDF_COLOR_PROFILE_ID" envDefault:"sRGB IEC61966-2.1"`
	Conformance    string   `env:"PDF_CONFORMANCE" envDefault:"A"`
	Creator        string   `env:"PDF_CREATOR" envDefault:"letterpress"`
	RunningMarkers []string `env:"PDF_RUNNING_MARKERS" envDefault:"logo,footer" envSeparator:","`

	PageSize         Size    `env:"PDF_PAGE_SIZE" envDefault:"210x297"`
	FirstPageMargins Margins `env:"PDF_FIRST_PAGE_MARGINS" envDefault:"40,20,30,20"`
	PageMargins      Margins `env:"PDF_PAGE_MARGINS" envDefault:"25,20,30,20"`
	PagePadding      Margins `env:"PDF_PAGE_PADDING" envDefault:"0"`

	// DotsPerPoint is the layout resolution. Element boxes use these device units.
	DotsPerPoint float64 `env:"PDF_DOTS_PER_POINT" envDefault:"20"`
	FontSize     float64 `env:"PDF_FONT_SIZE" envDefault:"11"`
	LineHeight   float64 `env:"PDF_LINE_HEIGHT" envDefault:"1.4"`
	// FooterGap separates the content area from a running footer, in points.
	FooterGap float64 `env:"PDF_FOOTER_GAP" envDefault:"6"`
}

// DefaultConfig returns the configuration used when fields are left empty.
func DefaultConfig() Config {
	return Config{
		Language:         "en-GB",
		FontFamily:       "DejaVuSans",
		RegularFont:      "fonts/DejaVuSans.ttf",
		BoldFont:         "fonts/DejaVuSans-Bold.ttf",
		ColorProfile:     "color/sRGB-IEC61966-2.1.icc",
		ColorProfileID:   "sRGB IEC61966-2.1",
		Conformance:      "A",
		Creator:          "letterpress",
		RunningMarkers:   []string{"logo", "footer"},
		PageSize:         Size{Width: 210, Height: 297},
		FirstPageMargins: Margins{Top: 40, Right: 20, Bottom: 30, Left: 20},
		PageMargins:      Margins{Top: 25, Right: 20, Bottom: 30, Left: 20},
		DotsPerPoint:     20,
		FontSize:         11,
		LineHeight:       1.4,
		FooterGap:        6,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Language == "" {
		c.Language = d.Language
	}
	if c.FontFamily == "" {
		c.FontFamily = d.FontFamily
	}
	if c.RegularFont == "" {
		c.RegularFont = d.RegularFont
	}
	if c.BoldFont == "" {
		c.BoldFont = d.BoldFont
	}
	if c.ColorProfile == "" {
		c.ColorProfile = d.ColorProfile
	}
	if c.ColorProfileID == "" {
		c.ColorProfileID = d.ColorProfileID
	}
	if c.Conformance == "" {
		c.Conformance = d.Conformance
	}
	if c.Creator == "" {
		c.Creator = d.Creator
	}
	if c.RunningMarkers == nil {
		c.RunningMarkers = d.RunningMarkers
	}
	if c.PageSize == (Size{}) {
		c.PageSize = d.PageSize
	}
	if c.FirstPageMargins == (Margins{}) {
		c.FirstPageMargins = d.FirstPageMargins
	}
	if c.PageMargins == (Margins{}) {
		c.PageMargins = d.PageMargins
	}
	if c.DotsPerPoint == 0 {
		c.DotsPerPoint = d.DotsPerPoint
	}
	if c.FontSize == 0 {
		c.FontSize = d.FontSize
	}
	if c.LineHeight == 0 {
		c.LineHeight = d.LineHeight
	}
	if c.FooterGap == 0 {
		c.FooterGap = d.FooterGap
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.PageSize.Width <= 0 || c.PageSize.Height <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.DotsPerPoint <= 0 {
		errs = append(errs, errors.New("dots per point must be positive"))
	}
	if c.FontSize <= 0 || c.LineHeight <= 0 {
		errs = append(errs, errors.New("font size and line height must be positive"))
	}
	if _, err := language.Parse(c.Language); err != nil {
		errs = append(errs, fmt.Errorf("language %q: %v", c.Language, err))
	}
	switch c.Conformance {
	case "A", "B":
	default:
		errs = append(errs, fmt.Errorf("conformance %q must be A or B", c.Conformance))
	}
	for name, m := range map[string]Margins{"first page": c.FirstPageMargins, "page": c.PageMargins} {
		if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
			errs = append(errs, fmt.Errorf("%s margins must not be negative", name))
		}
		if m.Left+m.Right+c.PagePadding.Left+c.PagePadding.Right >= c.PageSize.Width ||
			m.Top+m.Bottom+c.PagePadding.Top+c.PagePadding.Bottom >= c.PageSize.Height {
			errs = append(errs, fmt.Errorf("%s margins leave no content area", name))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Geometry returns the page geometry described by the config.
func (c Config) Geometry() Geometry {
	c.applyDefaults()
	dpp := c.DotsPerPoint
	k := dpp / mmPerPoint
	return Geometry{
		DotsPerPoint: dpp,
		First: PageBox{
			Width:   c.PageSize.Width * k,
			Height:  c.PageSize.Height * k,
			Margin:  c.FirstPageMargins.edges(dpp),
			Padding: c.PagePadding.edges(dpp),
		},
		Rest: PageBox{
			Width:   c.PageSize.Width * k,
			Height:  c.PageSize.Height * k,
			Margin:  c.PageMargins.edges(dpp),
			Padding: c.PagePadding.edges(dpp),
		},
	}
}
