package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fileicon/internal/error_service"
)

func TestIconRequestDims(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		width      uint
		height     uint
		expectFail bool
	}{
		{name: "default is large", query: "", width: 32, height: 32},
		{name: "small class", query: "size=small", width: 16, height: 16},
		{name: "explicit width", query: "width=64", width: 64, height: 64},
		{name: "width and height", query: "width=48&height=24", width: 48, height: 24},
		{name: "width overrides size", query: "size=small&width=128", width: 128, height: 128},
		{name: "zero width", query: "width=0", expectFail: true},
		{name: "garbage width", query: "width=abc", expectFail: true},
		{name: "negative height", query: "height=-2", expectFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/icon?"+tt.query, nil)
			width, height, err := iconRequestDims(r)
			if tt.expectFail {
				if err == nil {
					t.Fatalf("expected error for query %q", tt.query)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if width != tt.width || height != tt.height {
				t.Errorf("got %dx%d, expected %dx%d", width, height, tt.width, tt.height)
			}
		})
	}
}

func TestStatusCodeForError(t *testing.T) {
	cases := map[error]int{
		error_service.ErrIconNotFound:      http.StatusNotFound,
		error_service.ErrPermissionDenied:  http.StatusForbidden,
		error_service.ErrBitmapUnavailable: http.StatusUnprocessableEntity,
		error_service.ErrInvalidDimensions: http.StatusBadRequest,
		error_service.ErrUnsupportedOS:     http.StatusNotImplemented,
		error_service.ErrEncodeFailed:      http.StatusInternalServerError,
	}
	for err, expected := range cases {
		if got := statusCodeForError(err); got != expected {
			t.Errorf("statusCodeForError(%v) = %d, expected %d", err, got, expected)
		}
	}
}

func TestPingHandler(t *testing.T) {
	w := httptest.NewRecorder()
	PingHandler(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Body.String() != "pong" {
		t.Errorf("ping returned %q", w.Body.String())
	}
}

func TestGetIconHandlerRequiresPath(t *testing.T) {
	w := httptest.NewRecorder()
	GetIconHandler(w, httptest.NewRequest("GET", "/icon", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing path returned %d, expected 400", w.Code)
	}
}
