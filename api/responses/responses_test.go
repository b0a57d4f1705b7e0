package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/rentiva/rentiva-backend/pkg/errors"
	"github.com/rentiva/rentiva-backend/pkg/types"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, 201, map[string]any{"id": 7})

	if rec.Code != 201 {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}

	var env types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["id"] != float64(7) {
		t.Fatalf("unexpected data: %#v", env.Data)
	}
}

func TestWriteErrorMapsTypedCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "not found keeps caller message",
			err:        pkgerrors.New(pkgerrors.CodeNotFound, "Product not found"),
			wantStatus: 404,
			wantCode:   "NOT_FOUND",
			wantMsg:    "Product not found",
		},
		{
			name:       "insufficient stock keeps caller message",
			err:        pkgerrors.New(pkgerrors.CodeInsufficientStock, "Not enough stock. Only 2 units available."),
			wantStatus: 422,
			wantCode:   "INSUFFICIENT_STOCK",
			wantMsg:    "Not enough stock. Only 2 units available.",
		},
		{
			name:       "internal hides message",
			err:        pkgerrors.New(pkgerrors.CodeInternal, "pq: connection refused"),
			wantStatus: 500,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "internal server error",
		},
		{
			name:       "untyped error is internal",
			err:        errors.New("boom"),
			wantStatus: 500,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var env types.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", env.Error.Code, tc.wantCode)
			}
			if env.Error.Message != tc.wantMsg {
				t.Fatalf("message = %q, want %q", env.Error.Message, tc.wantMsg)
			}
		})
	}
}

func TestWriteErrorOmitsDetailsWhenDisallowed(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeNotFound, "Product not found").
		WithDetails(map[string]any{"table": "products"})
	WriteError(context.Background(), nil, rec, err)

	var env types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Details != nil {
		t.Fatalf("details leaked: %#v", env.Error.Details)
	}
}

func TestWriteErrorIncludesAllowedDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"quantity": "must be at least 1"})
	WriteError(context.Background(), nil, rec, err)

	var env types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	details, ok := env.Error.Details.(map[string]any)
	if !ok || details["quantity"] != "must be at least 1" {
		t.Fatalf("unexpected details: %#v", env.Error.Details)
	}
}
