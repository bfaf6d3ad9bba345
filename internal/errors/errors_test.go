package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
	}{
		{"not found", NotFound("missing"), http.StatusNotFound, CodeNotFound},
		{"no data", NoData(stderrors.New("empty"), "no activity"), http.StatusNotFound, CodeNoData},
		{"unauthorized", Unauthorized("login"), http.StatusUnauthorized, CodeUnauthorized},
		{"wrapped app error", fmt.Errorf("handler: %w", Forbidden("nope")), http.StatusForbidden, CodeForbidden},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	logger := slog.New(slog.DiscardHandler)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, logger, tt.err, "req-1")

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code      ErrorCode `json:"code"`
					RequestID string    `json:"request_id"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Success || body.Error.Code != tt.wantCode || body.Error.RequestID != "req-1" {
				t.Errorf("unexpected body %s", w.Body.String())
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("root")
	err := NoData(cause, "nothing here")
	if !stderrors.Is(err, cause) {
		t.Error("AppError should unwrap to its cause")
	}
}

func TestCodeOf(t *testing.T) {
	if code, ok := CodeOf(fmt.Errorf("ctx: %w", BadRequest("x"))); !ok || code != CodeBadRequest {
		t.Errorf("CodeOf = %q, %v", code, ok)
	}
	if _, ok := CodeOf(stderrors.New("plain")); ok {
		t.Error("plain error should have no code")
	}
	if ErrorCode("SOMETHING_ELSE").Status() != http.StatusInternalServerError {
		t.Error("unknown codes should map to 500")
	}
}

func TestWriteSuccess_EmptySlice(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessWithHeaders(w, []string{}, map[string]string{"Cache-Control": "no-store"})

	if got := w.Body.String(); got != "{\"data\":[],\"success\":true}\n" {
		t.Errorf("body = %q", got)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("extra headers not applied")
	}
}
