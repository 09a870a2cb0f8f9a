package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/teami-app/teami-backend/errs"
)

const successMsg = "success"

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes body as-is with the given status.
func (r Responder) WriteJSON(w http.ResponseWriter, status int, body any) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteSuccess wraps data in a success envelope.
func (r Responder) WriteSuccess(w http.ResponseWriter, status int, msg string, data any) {
	if msg == "" {
		msg = successMsg
	}
	if data == nil {
		data = struct{}{}
	}
	r.WriteJSON(w, status, Envelope{Code: errs.CodeSuccess, Msg: msg, Data: data})
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSON(w, http.StatusInternalServerError, Envelope{
			Code: errs.CodeInternal,
			Msg:  "Internal Server Error",
			Data: struct{}{},
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("request failed")
	}

	msg := apiErr.Message()
	if apiErr.StatusCode >= http.StatusInternalServerError {
		// keep store internals out of client messages
		msg = "Internal Server Error"
	}

	var data any = struct{}{}
	if apiErr.Field != "" || (apiErr.Details != "" && apiErr.StatusCode < http.StatusInternalServerError) {
		data = ErrorData{Field: apiErr.Field, Details: apiErr.Details}
	}

	r.WriteJSON(w, apiErr.StatusCode, Envelope{Code: apiErr.Code, Msg: msg, Data: data})
}
