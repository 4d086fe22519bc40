package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/globalmedics/transcript-summarizer/apimodels"
	"github.com/globalmedics/transcript-summarizer/internal/apperror"
)

const dataNotDefined = "Data is not defined."

var serviceInfo = []apimodels.ServiceInfo{
	{
		CreatedBy:   "Global Medics Australia Pty Ltd : https://globalmedics.ai/",
		Description: "Doctor-Patient Patient Transcript Summarizer",
	},
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serviceInfo)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apimodels.HealthResponse{Status: "ok"})
}

func (s *Server) handleSummarise(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSummarise"

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, apperror.InvalidInput(op, err, "request body too large"))
			return
		}
		s.writeError(w, r, apperror.InvalidInput(op, err, "failed to read request body"))
		return
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		s.writeDataNotDefined(w)
		return
	}

	req, err := apimodels.ParseTranscriptRequest(body)
	if errors.Is(err, apimodels.ErrMissingConversation) {
		s.writeError(w, r, apperror.InvalidInput(op, err, "conversation is required"))
		return
	}
	if err != nil {
		s.writeError(w, r, apperror.InvalidInput(op, err, "request body must be a JSON object with a string conversation field"))
		return
	}

	slog.Debug("Received summarize request", "request_id", RequestIDFromContext(r.Context()), "transcript_length", len(req.Conversation))

	result, err := s.summarizer.Summarize(r.Context(), req.Conversation)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeDataNotDefined keeps the historical plain-text body. Only legacy mode
// keeps the historical 200 status.
func (s *Server) writeDataNotDefined(w http.ResponseWriter) {
	status := http.StatusBadRequest
	if s.cfg.LegacyErrors {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, dataNotDefined)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	slog.Error("Summarize request failed",
		"request_id", RequestIDFromContext(r.Context()),
		"kind", apperror.KindOf(err).String(),
		"status", status,
		"error", err,
	)

	if s.cfg.LegacyErrors {
		writeJSON(w, http.StatusOK, apimodels.TraceResponse{Trace: err.Error()})
		return
	}
	writeJSON(w, status, apimodels.ErrorResponse{Error: apperror.PublicMessage(err)})
}

// writeJSON pretty-prints with two-space indentation and leaves HTML
// characters in model output unescaped.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
