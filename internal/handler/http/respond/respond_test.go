package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name string
		code int
		data any
		body string
	}{
		{"map", http.StatusOK, map[string]string{"message": "success"}, `{"message":"success"}`},
		{"struct", http.StatusCreated, struct {
			ID int `json:"id"`
		}{ID: 123}, `{"id":123}`},
		{"nil writes no body", http.StatusNoContent, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.body, strings.TrimSpace(w.Body.String()))
		})
	}
}

func TestJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, make(chan int))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name string
		code int
		err  error
		want string
	}{
		{"not found passes", http.StatusNotFound, errors.New("post not found"), "post not found"},
		{"conflict passes", http.StatusConflict, errors.New("favorite already exists"), "favorite already exists"},
		{"validation passes", http.StatusUnprocessableEntity, errors.New("cannot favorite yourself"), "cannot favorite yourself"},
		{"unauthorized passes", http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", errors.New("token expired")), "unauthorized: token expired"},
		{"forbidden passes", http.StatusForbidden, errors.New("only the author may modify this post"), "only the author may modify this post"},
		{"unknown 4xx masked", http.StatusBadRequest, errors.New("pq: syntax error"), "internal server error"},
		{"5xx always masked", http.StatusInternalServerError, errors.New("post not found"), "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			assert.Equal(t, tt.code, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestSafeError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, nil)
	assert.Zero(t, w.Body.Len())
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusBadRequest, errors.New("raw message"))
	assert.JSONEq(t, `{"error":"raw message"}`, w.Body.String())
}
