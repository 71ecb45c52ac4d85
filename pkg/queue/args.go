package queue

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/letter"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

// SendArgs is the stored form of a dispatch.SendRequest.
type SendArgs struct {
	ApplicationID   string          `json:"application_id"`
	TemplateID      string          `json:"template_id"`
	Version         string          `json:"version"`
	Reference       string          `json:"reference"`
	Address         letter.Address  `json:"address"`
	Personalisation json.RawMessage `json:"personalisation,omitempty"`
	Postage         string          `json:"postage,omitempty"`
	ContextID       string          `json:"context_id"`
}

// Kind implements river.JobArgs.
func (SendArgs) Kind() string { return "letterpress:send" }

// NewSendArgs converts a request to job arguments.
func NewSendArgs(req dispatch.SendRequest) SendArgs {
	return SendArgs{
		ApplicationID:   req.Key.ApplicationID,
		TemplateID:      req.Key.TemplateID,
		Version:         req.Key.Version.String(),
		Reference:       req.Reference,
		Address:         req.Address,
		Personalisation: req.Personalisation,
		Postage:         req.Postage.String(),
		ContextID:       req.ContextID,
	}
}

// Request converts the arguments back to a dispatch request.
func (a SendArgs) Request() (dispatch.SendRequest, error) {
	key, err := template.NewKey(a.ApplicationID, a.TemplateID, a.Version)
	if err != nil {
		return dispatch.SendRequest{}, fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}
	return dispatch.SendRequest{
		Key:             key,
		Reference:       a.Reference,
		Address:         a.Address,
		Personalisation: a.Personalisation,
		Postage:         dispatch.Postage(a.Postage),
		ContextID:       a.ContextID,
	}, nil
}
