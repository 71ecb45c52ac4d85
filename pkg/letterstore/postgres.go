package letterstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/letter"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

// Querier is the subset of pgx used by Postgres. *pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres is a dispatch.Store backed by PostgreSQL.
type Postgres struct {
	db Querier
}

var _ dispatch.Store = (*Postgres)(nil)

// NewPostgres creates a store using db.
func NewPostgres(db Querier) *Postgres {
	return &Postgres{db: db}
}

const selectRequestsByReference = `
SELECT id, context_id, reference, application_id, template_id, version,
       address, personalisation, postage, sending_date, created_at
FROM letter_requests
WHERE reference = $1
ORDER BY created_at, id`

const insertRequest = `
INSERT INTO letter_requests (id, context_id, reference, application_id, template_id, version,
                             address, personalisation, postage, sending_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const insertResponse = `
INSERT INTO letter_responses (id, request_id, notification_id, reference, postage, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// FindRequestsByReference returns every request stored for reference, oldest first.
func (s *Postgres) FindRequestsByReference(ctx context.Context, reference string) ([]dispatch.Request, error) {
	rows, err := s.db.Query(ctx, selectRequestsByReference, reference)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	found, err := pgx.CollectRows(rows, scanRequest)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return found, nil
}

// StoreRequest inserts r.
func (s *Postgres) StoreRequest(ctx context.Context, r dispatch.Request) error {
	if err := validateRequest(r); err != nil {
		return err
	}
	addr, err := json.Marshal(r.Address)
	if err != nil {
		return fmt.Errorf("%w: address: %v", ErrInvalidRecord, err)
	}

	_, err = s.db.Exec(ctx, insertRequest,
		r.ID, r.ContextID, r.Reference,
		r.Key.ApplicationID, r.Key.TemplateID, r.Key.Version.String(),
		addr, personalisation(r.Personalisation), string(r.Postage),
		r.SendingDate, createdAt(r.CreatedAt),
	)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}

// StoreResponse inserts r. The request it refers to must already be stored.
func (s *Postgres) StoreResponse(ctx context.Context, r dispatch.Response) error {
	if err := validateResponse(r); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, insertResponse,
		r.ID, r.RequestID, r.NotificationID, r.Reference, string(r.Postage), createdAt(r.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: %s", ErrUnknownRequest, r.RequestID)
		}
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}

func scanRequest(row pgx.CollectableRow) (dispatch.Request, error) {
	var (
		r                 dispatch.Request
		app, tpl, version string
		addr, pers        []byte
		postage           string
	)
	if err := row.Scan(&r.ID, &r.ContextID, &r.Reference, &app, &tpl, &version,
		&addr, &pers, &postage, &r.SendingDate, &r.CreatedAt); err != nil {
		return dispatch.Request{}, err
	}

	key, err := template.NewKey(app, tpl, version)
	if err != nil {
		return dispatch.Request{}, fmt.Errorf("%w: request %s: %v", ErrInvalidRecord, r.ID, err)
	}
	r.Key = key

	var a letter.Address
	if err := json.Unmarshal(addr, &a); err != nil {
		return dispatch.Request{}, fmt.Errorf("%w: request %s address: %v", ErrInvalidRecord, r.ID, err)
	}
	r.Address = a
	r.Personalisation = json.RawMessage(pers)
	r.Postage = dispatch.Postage(postage)
	return r, nil
}

func validateRequest(r dispatch.Request) error {
	switch {
	case r.ID == uuid.Nil:
		return fmt.Errorf("%w: request id is required", ErrInvalidRecord)
	case r.Reference == "":
		return fmt.Errorf("%w: reference is required", ErrInvalidRecord)
	case r.Key.ApplicationID == "" || r.Key.TemplateID == "":
		return fmt.Errorf("%w: template key is required", ErrInvalidRecord)
	case r.SendingDate.IsZero():
		return fmt.Errorf("%w: sending date is required", ErrInvalidRecord)
	}
	return nil
}

func validateResponse(r dispatch.Response) error {
	switch {
	case r.ID == uuid.Nil:
		return fmt.Errorf("%w: response id is required", ErrInvalidRecord)
	case r.RequestID == uuid.Nil:
		return fmt.Errorf("%w: request id is required", ErrInvalidRecord)
	}
	return nil
}

func personalisation(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	return raw
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
