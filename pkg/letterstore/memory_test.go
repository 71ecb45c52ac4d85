package letterstore_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/letter"
	"github.com/dmitrymomot/letterpress/pkg/letterstore"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

func request(reference string) dispatch.Request {
	return dispatch.Request{
		ID:              uuid.New(),
		ContextID:       "ctx",
		Reference:       reference,
		Key:             template.MustKey("chips", "direction_letter", "1"),
		Address:         letter.NewAddress("1 High Street", "Cardiff"),
		Personalisation: json.RawMessage(`{"company_name":"acme"}`),
		Postage:         dispatch.PostageSecond,
		SendingDate:     time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC),
		CreatedAt:       time.Date(2025, time.August, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemory_RequestsByReference(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := letterstore.NewMemory()

	found, err := m.FindRequestsByReference(ctx, "REF1")
	require.NoError(t, err)
	require.Empty(t, found)

	first := request("REF1")
	require.NoError(t, m.StoreRequest(ctx, first))
	require.NoError(t, m.StoreRequest(ctx, request("REF2")))

	found, err = m.FindRequestsByReference(ctx, "REF1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, first, found[0])

	found[0].Personalisation[0] = 'x'
	again, err := m.FindRequestsByReference(ctx, "REF1")
	require.NoError(t, err)
	require.JSONEq(t, `{"company_name":"acme"}`, string(again[0].Personalisation))

	require.NoError(t, m.StoreRequest(ctx, request("REF1")))
	found, err = m.FindRequestsByReference(ctx, "REF1")
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestMemory_RejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := letterstore.NewMemory()

	r := request("REF1")
	r.ID = uuid.Nil
	require.ErrorIs(t, m.StoreRequest(ctx, r), letterstore.ErrInvalidRecord)

	r = request("")
	require.ErrorIs(t, m.StoreRequest(ctx, r), letterstore.ErrInvalidRecord)

	r = request("REF1")
	r.SendingDate = time.Time{}
	require.ErrorIs(t, m.StoreRequest(ctx, r), letterstore.ErrInvalidRecord)

	r = request("REF1")
	require.NoError(t, m.StoreRequest(ctx, r))
	require.ErrorIs(t, m.StoreRequest(ctx, r), letterstore.ErrInvalidRecord, "duplicate id")
}

func TestMemory_Responses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := letterstore.NewMemory()
	r := request("REF1")
	require.NoError(t, m.StoreRequest(ctx, r))

	resp := dispatch.Response{ID: uuid.New(), RequestID: r.ID, NotificationID: "n-1", Postage: dispatch.PostageFirst}
	require.NoError(t, m.StoreResponse(ctx, resp))
	require.Equal(t, []dispatch.Response{resp}, m.Responses(r.ID))

	orphan := dispatch.Response{ID: uuid.New(), RequestID: uuid.New()}
	require.ErrorIs(t, m.StoreResponse(ctx, orphan), letterstore.ErrUnknownRequest)
	require.ErrorIs(t, m.StoreResponse(ctx, dispatch.Response{RequestID: r.ID}), letterstore.ErrInvalidRecord)
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := letterstore.NewMemory()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := request("REF")
			if err := m.StoreRequest(ctx, r); err != nil {
				t.Error(err)
				return
			}
			if _, err := m.FindRequestsByReference(ctx, "REF"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	found, err := m.FindRequestsByReference(ctx, "REF")
	require.NoError(t, err)
	require.Len(t, found, 50)
}
