package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/solofunds/kyc-service/internal/core/domain"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/kyc/step-one/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var env envelope
	if uerr := json.Unmarshal(rec.Body.Bytes(), &env); uerr != nil {
		t.Fatalf("decode envelope: %v (body %q)", uerr, rec.Body.String())
	}
	return rec, env
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"incomplete form", domain.ErrFieldsIncomplete, http.StatusBadRequest, "form fields are incomplete"},
		{"invalid ssn", domain.ErrInvalidSSN, http.StatusBadRequest, "you have provided an invalid SSN"},
		{"invalid dob", domain.ErrInvalidDOB, http.StatusBadRequest, "you have provided an invalid DOB"},
		{"invalid document type", domain.ErrInvalidDocumentType, http.StatusBadRequest, "an invalid document type was provided"},
		{"out of order", domain.ErrStepForbidden, http.StatusForbidden, "user is not allowed to attempt this verification phase"},
		{"already completed", domain.ErrStepCompleted, http.StatusConflict, "this user has completed this verification already"},
		{"document rejected", domain.ErrDocumentRejected, http.StatusBadRequest, "the ID submitted does not pass verification"},
		{"selfie rejected", domain.ErrSelfieRejected, http.StatusBadRequest, "the image submitted does not pass verification"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"provider failure", domain.ErrProviderFailure, http.StatusBadGateway, "identity verification is temporarily unavailable"},
		{"wrapped provider failure", fmt.Errorf("step two: %w", domain.ErrProviderFailure), http.StatusBadGateway, "identity verification is temporarily unavailable"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := render(t, tc.err)
			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if env.Msg != tc.wantMsg {
				t.Errorf("msg = %q, want %q", env.Msg, tc.wantMsg)
			}
			if env.Data != nil {
				t.Errorf("data = %v, want null", env.Data)
			}
		})
	}
}

func TestErrorHandlerWrappedInvalidInputKeepsProductWording(t *testing.T) {
	rec, env := render(t, fmt.Errorf("step one: %w", domain.ErrInvalidSSN))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if env.Msg != "you have provided an invalid SSN" {
		t.Errorf("msg = %q, wrapping context must not leak", env.Msg)
	}
}

func TestErrorHandlerEchoErrors(t *testing.T) {
	rec, env := render(t, echo.NewHTTPError(http.StatusTooManyRequests, "too many verification attempts, try again later"))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if env.Msg != "too many verification attempts, try again later" {
		t.Errorf("msg = %q", env.Msg)
	}
}
