package api

import (
	"bytes"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	apperrors "options-lab/internal/errors"
	"options-lab/internal/models"
)

const (
	headerContentType  = "Content-Type"
	mimeJSONCharsetUTF = "application/json; charset=utf-8"

	maxBodyBytes = 1 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Error   string      `json:"error"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message,omitempty"`
	Value   interface{} `json:"value,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set(headerContentType, mimeJSONCharsetUTF)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	var verr *apperrors.ValidationError
	switch {
	case apperrors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:   verr.Unwrap().Error(),
			Field:   verr.Field,
			Message: verr.Message,
			Value:   verr.Value,
		})
	case apperrors.Is(err, apperrors.ErrStrategyNotFound),
		apperrors.Is(err, apperrors.ErrUnknownGreek),
		apperrors.Is(err, apperrors.ErrScenarioNotFound),
		apperrors.Is(err, apperrors.ErrPresetNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case apperrors.Is(err, apperrors.ErrScenarioExists):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body", Message: err.Error()})
}

// readBody returns the trimmed request body, capped at maxBodyBytes.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(body), nil
}

// decodeParams overlays the JSON body on the defaults, so a client may send
// only the fields it wants to change. An empty body yields the defaults.
func decodeParams(r *http.Request, defaults models.ParameterSet) (models.ParameterSet, error) {
	p := defaults
	body, err := readBody(r)
	if err != nil || len(body) == 0 {
		return p, err
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return defaults, err
	}
	return p, nil
}
