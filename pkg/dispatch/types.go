package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/letterpress/pkg/letter"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

// Postage is the delivery class of a letter.
type Postage string

const (
	PostageFirst   Postage = "first"
	PostageSecond  Postage = "second"
	PostageEconomy Postage = "economy"
)

// ParsePostage parses a postage class. Empty means second class.
func ParsePostage(s string) (Postage, error) {
	switch p := Postage(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PostageSecond, nil
	case PostageFirst, PostageSecond, PostageEconomy:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPostage, s)
	}
}

func (p Postage) String() string { return string(p) }

// SendRequest is one letter to produce and deliver.
type SendRequest struct {
	Key       template.Key
	Reference string
	Address   letter.Address
	// Personalisation is a flat JSON object of template variables.
	Personalisation json.RawMessage
	Postage         Postage
	// ContextID correlates logs and stored records. Generated when empty.
	ContextID string
}

// Request is a SendRequest as recorded for later regeneration.
type Request struct {
	ID              uuid.UUID
	ContextID       string
	Reference       string
	Key             template.Key
	Address         letter.Address
	Personalisation json.RawMessage
	Postage         Postage
	// SendingDate is the date printed on the letter.
	SendingDate time.Time
	CreatedAt   time.Time
}

// Response is what the sender reported for a letter.
type Response struct {
	ID             uuid.UUID
	RequestID      uuid.UUID
	NotificationID string
	// Reference is the sender's echo of the letter reference, if any.
	Reference string
	Postage   Postage
	CreatedAt time.Time
}

// Store persists requests and responses.
type Store interface {
	FindRequestsByReference(ctx context.Context, reference string) ([]Request, error)
	StoreRequest(ctx context.Context, r Request) error
	StoreResponse(ctx context.Context, r Response) error
}

// Sender delivers a letter. The document reader is owned by the caller.
type Sender interface {
	Send(ctx context.Context, postage Postage, reference string, doc io.Reader) (*Response, error)
}

// Archiver keeps a copy of every delivered letter.
type Archiver interface {
	Archive(ctx context.Context, reference string, doc io.Reader, size int64) error
}

// Recorder receives dispatch measurements. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveRender(template, result string)
	ObservePhase(phase string, d time.Duration)
	ObserveDispatch(operation, result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRender(string, string) {}
func (nopRecorder) ObservePhase(string, time.Duration) {}
func (nopRecorder) ObserveDispatch(string, string) {}
