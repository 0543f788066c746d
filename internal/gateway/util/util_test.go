package util

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) JSONError {
	t.Helper()
	var body JSONError
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return body
}

func TestHandleServiceError(t *testing.T) {
	t.Run("Validation error maps to 400 with field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleServiceError(rec, shared.NewValidationError("folder", "folder name is invalid"))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
		body := decodeError(t, rec)
		if body.Success || body.Field != "folder" || body.Message != "folder name is invalid" {
			t.Errorf("Unexpected body: %+v", body)
		}
	})

	t.Run("Conflict error maps to 409", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleServiceError(rec, shared.NewConflictError("bookmark already exists"))

		if rec.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Message != "bookmark already exists" {
			t.Errorf("Unexpected body: %+v", body)
		}
	})

	t.Run("Not found maps to 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleServiceError(rec, shared.ErrNotFound)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})

	t.Run("Wrapped not found maps to 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleServiceError(rec, errors.Join(errors.New("lookup material"), shared.ErrNotFound))

		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})

	t.Run("Related write error maps to 502", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleServiceError(rec, shared.NewRelatedWriteError("study_materials", errors.New("update failed")))

		if rec.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", rec.Code)
		}
	})

	t.Run("Unknown error maps to 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleServiceError(rec, errors.New("boom"))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Message != "Internal server error" {
			t.Errorf("Unexpected message: %q", body.Message)
		}
	})
}

func TestWriteJSON(t *testing.T) {
	t.Run("Wraps plain payload in success envelope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteJSON(rec, http.StatusOK, map[string]string{"id": "abc"})

		var body JSONResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if !body.Success {
			t.Errorf("Expected success=true, got %+v", body)
		}
	})

	t.Run("Passes through explicit success map", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteJSON(rec, http.StatusOK, map[string]interface{}{"success": true, "count": 3})

		var body map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if body["count"] != float64(3) {
			t.Errorf("Expected count to survive passthrough, got %+v", body)
		}
	})
}

func TestExtractToken(t *testing.T) {
	t.Run("Valid bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc123")

		token, err := ExtractToken(r)
		if err != nil || token != "abc123" {
			t.Errorf("Expected abc123, got %q (%v)", token, err)
		}
	})

	t.Run("Missing header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := ExtractToken(r); err == nil {
			t.Error("Expected error for missing header")
		}
	})

	t.Run("Wrong scheme", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic abc123")
		if _, err := ExtractToken(r); err == nil {
			t.Error("Expected error for non-bearer scheme")
		}
	})
}

func TestUserContext(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		user := &shared.User{ID: "student-001", Role: shared.RoleStudent}
		ctx := WithUser(context.Background(), user)

		got, ok := UserFromContext(ctx)
		if !ok || got.ID != "student-001" {
			t.Errorf("Expected injected user back, got %+v ok=%v", got, ok)
		}
	})

	t.Run("Missing user", func(t *testing.T) {
		if _, ok := UserFromContext(context.Background()); ok {
			t.Error("Expected ok=false on empty context")
		}
	})
}
