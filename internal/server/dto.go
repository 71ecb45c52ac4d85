package server

import (
	"encoding/json"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/letter"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

// sendLetterRequest is the body of POST /letters.
type sendLetterRequest struct {
	ApplicationID   string          `json:"application_id" validate:"required,max=64"`
	TemplateID      string          `json:"template_id" validate:"required,max=128"`
	Version         string          `json:"version" validate:"required,max=16"`
	Reference       string          `json:"reference" validate:"required,max=128"`
	Address         letter.Address  `json:"address"`
	Personalisation json.RawMessage `json:"personalisation" validate:"omitempty,json"`
	Postage         string          `json:"postage" validate:"omitempty,oneof=first second economy"`
}

func (r sendLetterRequest) toDispatch(contextID string) (dispatch.SendRequest, error) {
	key, err := template.NewKey(r.ApplicationID, r.TemplateID, r.Version)
	if err != nil {
		return dispatch.SendRequest{}, err
	}
	return dispatch.SendRequest{
		Key:             key,
		Reference:       r.Reference,
		Address:         r.Address,
		Personalisation: r.Personalisation,
		Postage:         dispatch.Postage(r.Postage),
		ContextID:       contextID,
	}, nil
}

type enqueuedResponse struct {
	JobID     int64  `json:"job_id"`
	ContextID string `json:"context_id"`
}

type templateResponse struct {
	Key           string   `json:"key"`
	ApplicationID string   `json:"application_id"`
	TemplateID    string   `json:"template_id"`
	Version       string   `json:"version"`
	Format        string   `json:"format"`
	Bilingual     bool     `json:"bilingual"`
	Required      []string `json:"required"`
}
