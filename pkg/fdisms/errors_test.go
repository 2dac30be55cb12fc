package fdisms

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTranslatePassesThroughOK(t *testing.T) {
	body := []byte(`{"success":true,"balance":42}`)
	out, err := translate(200, body)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if !bytes.Equal(out, body) {
		t.Errorf("expected body unchanged, got %s", out)
	}
}

func TestTranslateMapsStatusToSentinel(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{400, ErrBadRequest},
		{401, ErrUnauthorized},
		{403, ErrForbidden},
		{404, ErrNotFound},
		{422, ErrUnprocessableEntity},
		{500, ErrInternalServer},
		{503, ErrServiceUnavailable},
		{418, ErrUnknown},
		{302, ErrUnknown},
	}
	for _, tc := range cases {
		_, err := translate(tc.status, []byte(`{"success":false}`))
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestTranslatePreservesErrorBody(t *testing.T) {
	body := []byte(`{"success":false,"status":404,"message":"no such account"}`)
	_, err := translate(404, body)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}
	if !bytes.Equal(apiErr.Body, body) {
		t.Errorf("expected body preserved, got %s", apiErr.Body)
	}
	if !errors.Is(apiErr, ErrNotFound) {
		t.Errorf("expected APIError to wrap ErrNotFound")
	}
}

func TestAPIErrorMessageSnippets(t *testing.T) {
	long := strings.Repeat("x", 600)
	err := &APIError{StatusCode: 500, Body: []byte(long), kind: ErrInternalServer}
	msg := err.Error()
	if !strings.Contains(msg, "status 500") {
		t.Errorf("expected status in message, got %s", msg)
	}
	if !strings.HasSuffix(msg, "...") {
		t.Errorf("expected truncated body, got %s", msg)
	}

	empty := &APIError{StatusCode: 503, kind: ErrServiceUnavailable}
	if !strings.Contains(empty.Error(), "<empty>") {
		t.Errorf("expected <empty> marker, got %s", empty.Error())
	}
}
