package letter

import (
	"maps"
	"time"

	"github.com/dmitrymomot/letterpress/pkg/template"
)

// Variable names published by the builder.
const (
	ReferenceVar           = "reference"
	CompanyNameVar         = "company_name"
	TodayVar               = "todays_date"
	ReplyByVar             = "reply_by_date"
	TriggerVar             = "trigger_date"
	RootPathVar            = "root_path"
	LetterPathVar          = "letter_path"
	CommonPathVar          = "common_path"
	OriginalSendingDateVar = "original_sending_date"
	AddressLineVarPrefix   = "address_line_"
)

// DateLayout is the textual form of every date published into a context.
const DateLayout = "2 January 2006"

// Context is a validated set of template variables. Immutable.
type Context struct {
	key         template.Key
	location    template.Location
	schema      template.Schema
	vars        map[string]string
	sendingDate time.Time
}

// Key returns the template the context was built for.
func (c Context) Key() template.Key { return c.key }

// Location returns where the template lives in the bundle.
func (c Context) Location() template.Location { return c.location }

// Schema returns the template schema the context satisfied.
func (c Context) Schema() template.Schema { return c.schema }

// SendingDate is the date the letter is (or was) sent on, at midnight.
func (c Context) SendingDate() time.Time { return c.sendingDate }

// Reference returns the letter reference.
func (c Context) Reference() string { return c.vars[ReferenceVar] }

// Get returns a single variable.
func (c Context) Get(name string) (string, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Vars returns a copy of all variables.
func (c Context) Vars() map[string]string { return maps.Clone(c.vars) }

// Len returns the number of variables.
func (c Context) Len() int { return len(c.vars) }
