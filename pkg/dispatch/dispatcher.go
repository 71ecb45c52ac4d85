package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/letterpress/pkg/letter"
	"github.com/dmitrymomot/letterpress/pkg/logger"
	"github.com/dmitrymomot/letterpress/pkg/pdf"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

// ErrMissingDependency is returned by New when a required collaborator is nil.
var ErrMissingDependency = errors.New("dispatch: missing dependency")

// Builder builds validated template contexts. *letter.Builder satisfies it.
type Builder interface {
	Build(p letter.Params) (letter.Context, error)
}

// Renderer renders a template to HTML. *render.Renderer satisfies it.
type Renderer interface {
	Render(ctx context.Context, loc template.Location, vars map[string]string) (string, error)
}

// Converter converts HTML to PDF. *pdf.Converter satisfies it.
type Converter interface {
	Convert(ctx context.Context, src string, opts ...pdf.ConvertOption) (*pdf.Document, error)
}

// Dispatcher runs the letter pipeline. Safe for concurrent use.
type Dispatcher struct {
	builder   Builder
	renderer  Renderer
	converter Converter
	store     Store
	sender    Sender
	archiver  Archiver
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithArchiver keeps a copy of every sent letter. Archive failures are logged
// and do not fail the send.
func WithArchiver(a Archiver) Option {
	return func(d *Dispatcher) { d.archiver = a }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRecorder sets where measurements go.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithClock overrides the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator overrides how record and context IDs are generated.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(d *Dispatcher) {
		if gen != nil {
			d.newID = gen
		}
	}
}

// New creates a Dispatcher.
func New(b Builder, r Renderer, c Converter, s Store, snd Sender, opts ...Option) (*Dispatcher, error) {
	switch {
	case b == nil:
		return nil, fmt.Errorf("%w: builder", ErrMissingDependency)
	case r == nil:
		return nil, fmt.Errorf("%w: renderer", ErrMissingDependency)
	case c == nil:
		return nil, fmt.Errorf("%w: converter", ErrMissingDependency)
	case s == nil:
		return nil, fmt.Errorf("%w: store", ErrMissingDependency)
	case snd == nil:
		return nil, fmt.Errorf("%w: sender", ErrMissingDependency)
	}

	d := &Dispatcher{
		builder:   b,
		renderer:  r,
		converter: c,
		store:     s,
		sender:    snd,
		recorder:  nopRecorder{},
		logger:    logger.NewNope(),
		now:       time.Now,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Send produces the letter, records it, delivers it and returns the document.
// The caller must close the returned document.
func (d *Dispatcher) Send(ctx context.Context, req SendRequest) (_ *pdf.Document, err error) {
	if req.ContextID == "" {
		req.ContextID = d.newID().String()
	}
	ctx = logger.WithReference(logger.WithContextID(ctx, req.ContextID), req.Reference)
	defer func() { d.done(ctx, "send", req.Key, err) }()

	postage, err := ParsePostage(string(req.Postage))
	if err != nil {
		return nil, classify(err)
	}
	vars, err := letter.ParsePersonalisation(req.Personalisation)
	if err != nil {
		return nil, classify(err)
	}

	lc, err := d.build(ctx, letter.Params{
		Personalisation: vars,
		Key:             req.Key,
		Reference:       req.Reference,
		Address:         req.Address,
		Mode:            letter.ModeSend,
	})
	if err != nil {
		return nil, err
	}

	doc, err := d.produce(ctx, lc)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	record := Request{
		ID:              d.newID(),
		ContextID:       req.ContextID,
		Reference:       lc.Reference(),
		Key:             req.Key,
		Address:         req.Address,
		Personalisation: req.Personalisation,
		Postage:         postage,
		SendingDate:     lc.SendingDate(),
		CreatedAt:       d.now(),
	}
	if err := d.phase("store", func() error { return d.store.StoreRequest(ctx, record) }); err != nil {
		return nil, collaborator("store", fmt.Errorf("storing request: %w", err))
	}

	resp, err := d.send(ctx, postage, record.Reference, doc)
	if err != nil {
		return nil, err
	}
	resp.RequestID = record.ID
	resp.Postage = postage
	if resp.ID == uuid.Nil {
		resp.ID = d.newID()
	}
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = d.now()
	}
	if err := d.phase("store", func() error { return d.store.StoreResponse(ctx, *resp) }); err != nil {
		return nil, collaborator("store", fmt.Errorf("storing response: %w", err))
	}

	d.archive(ctx, record.Reference, doc)

	d.logger.InfoContext(ctx, "letter sent",
		slog.String("template", req.Key.String()),
		slog.String("postage", postage.String()),
		slog.String("notification_id", resp.NotificationID),
	)
	return doc.Clone()
}

// Fetch regenerates a letter that was sent before, dated with its original
// sending date. The caller must close the returned document.
func (d *Dispatcher) Fetch(ctx context.Context, reference, contextID string) (_ *pdf.Document, err error) {
	if contextID == "" {
		contextID = d.newID().String()
	}
	ctx = logger.WithReference(logger.WithContextID(ctx, contextID), reference)

	var key template.Key
	defer func() { d.done(ctx, "fetch", key, err) }()

	var found []Request
	err = d.phase("store", func() (err error) {
		found, err = d.store.FindRequestsByReference(ctx, reference)
		return err
	})
	if err != nil {
		return nil, collaborator("store", fmt.Errorf("finding requests: %w", err))
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, reference)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s has %d requests", ErrConflict, reference, len(found))
	}
	stored := found[0]
	key = stored.Key

	vars, err := letter.ParsePersonalisation(stored.Personalisation)
	if err != nil {
		return nil, classify(err)
	}
	lc, err := d.build(ctx, letter.Params{
		Personalisation: vars,
		Key:             stored.Key,
		Reference:       stored.Reference,
		Address:         stored.Address,
		OriginalDate:    stored.SendingDate,
		Mode:            letter.ModeRegenerate,
	})
	if err != nil {
		return nil, err
	}
	return d.produce(ctx, lc)
}

func (d *Dispatcher) build(ctx context.Context, p letter.Params) (letter.Context, error) {
	var lc letter.Context
	err := d.phase("build", func() (err error) {
		lc, err = d.builder.Build(p)
		return err
	})
	if err != nil {
		return letter.Context{}, classify(err)
	}
	return lc, nil
}

// produce renders and converts a built context into a fresh document.
func (d *Dispatcher) produce(ctx context.Context, lc letter.Context) (*pdf.Document, error) {
	loc := lc.Location()

	var html string
	err := d.phase("render", func() (err error) {
		html, err = d.renderer.Render(ctx, loc, lc.Vars())
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	var doc *pdf.Document
	err = d.phase("convert", func() (err error) {
		doc, err = d.converter.Convert(ctx, html, pdf.WithBaseDir(loc.Dir))
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return doc, nil
}

func (d *Dispatcher) send(ctx context.Context, postage Postage, reference string, doc *pdf.Document) (*Response, error) {
	body, err := doc.Clone()
	if err != nil {
		return nil, classify(err)
	}
	defer body.Close()

	var resp *Response
	err = d.phase("send", func() (err error) {
		resp, err = d.sender.Send(ctx, postage, reference, body)
		return err
	})
	if err != nil {
		return nil, collaborator("sender", fmt.Errorf("sending letter: %w", err))
	}
	if resp == nil {
		return nil, collaborator("sender", errors.New("sending letter: sender returned no response"))
	}
	return resp, nil
}

func (d *Dispatcher) archive(ctx context.Context, reference string, doc *pdf.Document) {
	if d.archiver == nil {
		return
	}
	body, err := doc.Clone()
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to archive letter", slog.Any("error", err))
		return
	}
	defer body.Close()

	err = d.phase("archive", func() error {
		return d.archiver.Archive(ctx, reference, body, body.Size())
	})
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to archive letter",
			slog.String("collaborator", "archiver"), slog.Any("error", err))
	}
}

func (d *Dispatcher) phase(name string, fn func() error) error {
	start := d.now()
	err := fn()
	d.recorder.ObservePhase(name, d.now().Sub(start))
	return err
}

// done logs and counts the outcome of an operation.
func (d *Dispatcher) done(ctx context.Context, op string, key template.Key, err error) {
	class := Class(err)
	d.recorder.ObserveDispatch(op, class)
	if key.ApplicationID != "" {
		d.recorder.ObserveRender(key.String(), class)
	}
	if err == nil {
		return
	}

	attrs := []any{
		slog.String("operation", op),
		slog.String("class", class),
		slog.Any("error", err),
	}
	switch class {
	case "input", "not_found", "conflict", "canceled":
		d.logger.WarnContext(ctx, "letter "+op+" rejected", attrs...)
	case "collaborator":
		d.logger.ErrorContext(ctx, "letter "+op+" failed", append(attrs, slog.String("collaborator", Collaborator(err)))...)
	default:
		d.logger.ErrorContext(ctx, "letter "+op+" failed", attrs...)
	}
}
