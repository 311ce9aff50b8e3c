package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    cerrors.Code `json:"code"`
	Message string       `json:"message"`
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	switch cerrors.GetCode(err) {
	case cerrors.ErrCodeInvalidInput, cerrors.ErrCodeInvalidFormat,
		cerrors.ErrCodeInvalidTree, cerrors.ErrCodeLabelCountMismatch:
		return http.StatusBadRequest
	case cerrors.ErrCodeSearchSpaceTooLarge:
		return http.StatusUnprocessableEntity
	case cerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case cerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := cerrors.GetCode(err)
	msg := clientMessage(err)
	if code == "" {
		code = cerrors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request error", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		msg = "request canceled"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// clientMessage returns the coded message plus its cause, without the code
// prefix and without the layers of context added on the way up.
func clientMessage(err error) string {
	var e *cerrors.Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// decode reads a single JSON document from the request body.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "decode request body")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return cerrors.New(cerrors.ErrCodeInvalidFormat, "request body must contain a single JSON document")
	}
	return nil
}
