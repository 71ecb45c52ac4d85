package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/logger"
	"github.com/dmitrymomot/letterpress/pkg/pdf"
)

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (dispatch.SendRequest, error) {
	var body sendLetterRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return dispatch.SendRequest{}, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if err := s.validate.Struct(body); err != nil {
		return dispatch.SendRequest{}, errors.Join(dispatch.ErrInvalidInput, err)
	}
	req, err := body.toDispatch(logger.ContextID(r.Context()))
	if err != nil {
		return dispatch.SendRequest{}, errors.Join(dispatch.ErrInvalidInput, err)
	}
	return req, nil
}

func (s *Server) sendLetter(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.letters.Send(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePDF(w, r, http.StatusCreated, req.Reference, doc)
}

func (s *Server) enqueueLetter(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.enqueuer.Enqueue(r.Context(), req)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", dispatch.ErrResource, err))
		return
	}
	writeJSON(w, http.StatusAccepted, enqueuedResponse{JobID: job.ID, ContextID: job.ContextID})
}

func (s *Server) fetchLetter(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	doc, err := s.letters.Fetch(r.Context(), reference, logger.ContextID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePDF(w, r, http.StatusOK, reference, doc)
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	keys := s.catalog.Keys()
	out := make([]templateResponse, 0, len(keys))
	for _, key := range keys {
		schema, err := s.catalog.Schema(key)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: %w", dispatch.ErrResource, err))
			return
		}
		out = append(out, templateResponse{
			Key:           key.String(),
			ApplicationID: key.ApplicationID,
			TemplateID:    key.TemplateID,
			Version:       key.Version.String(),
			Format:        string(schema.Format),
			Bilingual:     schema.Bilingual,
			Required:      append([]string{}, schema.Required...),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) writePDF(w http.ResponseWriter, r *http.Request, status int, reference string, doc *pdf.Document) {
	defer doc.Close()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Size(), 10))
	w.Header().Set("Content-Disposition", contentDisposition(reference))
	w.WriteHeader(status)
	if _, err := doc.WriteTo(w); err != nil {
		s.logger.WarnContext(r.Context(), "failed to write letter", slog.Any("error", err))
	}
}
