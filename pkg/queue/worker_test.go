package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/letter"
	"github.com/dmitrymomot/letterpress/pkg/logger"
	"github.com/dmitrymomot/letterpress/pkg/pdf"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, req dispatch.SendRequest) (*pdf.Document, error) {
	args := m.Called(ctx, req)
	doc, _ := args.Get(0).(*pdf.Document)
	return doc, args.Error(1)
}

func sendRequest() dispatch.SendRequest {
	return dispatch.SendRequest{
		Key:             template.MustKey("ch", "extension_acceptance", "1.0"),
		Reference:       "CH/000123",
		Address:         letter.NewAddress("ACME LTD", "1 High Street", "Cardiff"),
		Personalisation: json.RawMessage(`{"company_name":"acme ltd"}`),
		Postage:         dispatch.PostageFirst,
		ContextID:       "ctx-1",
	}
}

func TestSendArgs(t *testing.T) {
	t.Parallel()

	args := NewSendArgs(sendRequest())
	require.Equal(t, "1", args.Version)

	raw, err := json.Marshal(args)
	require.NoError(t, err)
	var decoded SendArgs
	require.NoError(t, json.Unmarshal(raw, &decoded))

	req, err := decoded.Request()
	require.NoError(t, err)
	want := sendRequest()
	require.True(t, want.Key.Equal(req.Key))
	require.Equal(t, want.Reference, req.Reference)
	require.Equal(t, want.Address, req.Address)
	require.JSONEq(t, string(want.Personalisation), string(req.Personalisation))
	require.Equal(t, want.Postage, req.Postage)
	require.Equal(t, want.ContextID, req.ContextID)

	decoded.Version = "one"
	_, err = decoded.Request()
	require.ErrorIs(t, err, ErrInvalidArgs)
}

func newJob(args SendArgs) *river.Job[SendArgs] {
	return &river.Job[SendArgs]{
		JobRow: &rivertype.JobRow{ID: 7, Attempt: 1},
		Args:   args,
	}
}

func TestSendWorker_Work(t *testing.T) {
	t.Parallel()

	cancelled := &rivertype.JobCancelError{}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		d := &MockDispatcher{}
		doc := pdf.NewDocument([]byte("%PDF"))
		d.On("Send", mock.MatchedBy(func(ctx context.Context) bool {
			return logger.ContextID(ctx) == "ctx-1" && logger.Reference(ctx) == "CH/000123"
		}), mock.Anything).Return(doc, nil).Once()

		w := &sendWorker{dispatcher: d, logger: slog.New(slog.DiscardHandler)}
		require.NoError(t, w.Work(context.Background(), newJob(NewSendArgs(sendRequest()))))
		require.Zero(t, doc.Size())
		d.AssertExpectations(t)
	})

	t.Run("input error cancels", func(t *testing.T) {
		t.Parallel()

		d := &MockDispatcher{}
		d.On("Send", mock.Anything, mock.Anything).
			Return(nil, errors.Join(dispatch.ErrInvalidInput, letter.ErrMissingCompanyName)).Once()

		w := &sendWorker{dispatcher: d, logger: slog.New(slog.DiscardHandler)}
		err := w.Work(context.Background(), newJob(NewSendArgs(sendRequest())))
		require.ErrorIs(t, err, cancelled)
		require.ErrorIs(t, err, letter.ErrMissingCompanyName)
	})

	t.Run("collaborator error is returned", func(t *testing.T) {
		t.Parallel()

		d := &MockDispatcher{}
		d.On("Send", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: notify down", dispatch.ErrCollaborator)).Once()

		w := &sendWorker{dispatcher: d, logger: slog.New(slog.DiscardHandler)}
		err := w.Work(context.Background(), newJob(NewSendArgs(sendRequest())))
		require.ErrorIs(t, err, dispatch.ErrCollaborator)
		require.NotErrorIs(t, err, cancelled)
	})

	t.Run("bad args cancel without dispatch", func(t *testing.T) {
		t.Parallel()

		d := &MockDispatcher{}
		args := NewSendArgs(sendRequest())
		args.ApplicationID = ""

		w := &sendWorker{dispatcher: d, logger: slog.New(slog.DiscardHandler)}
		err := w.Work(context.Background(), newJob(args))
		require.ErrorIs(t, err, ErrInvalidArgs)
		require.ErrorIs(t, err, cancelled)
		d.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestNew_Requirements(t *testing.T) {
	t.Parallel()

	_, err := New(nil, &MockDispatcher{})
	require.ErrorIs(t, err, ErrPoolRequired)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Healthcheck(nil)(context.Background()), ErrHealthcheckFailed)
	require.ErrorIs(t, Healthcheck(&Queue{})(context.Background()), ErrHealthcheckFailed)
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.applyDefaults()
	require.Equal(t, river.QueueDefault, cfg.Name)
	require.Equal(t, 1, cfg.MaxAttempts)
	require.Equal(t, defaultMaxWorkers, cfg.MaxWorkers)
}
