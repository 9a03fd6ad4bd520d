package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestErrorResponse_Error(t *testing.T) {
	e := ErrorResponse{Message: "oops"}
	if e.Error() != "oops" {
		t.Fatalf("want 'oops' got %q", e.Error())
	}
	e2 := ErrorResponse{Message: "oops", ErrorDetails: "bad"}
	if e2.Error() != "oops: bad" {
		t.Fatalf("want 'oops: bad' got %q", e2.Error())
	}
}

func TestNewErrorResponse(t *testing.T) {
	// without inner error
	e := NewErrorResponse("msg", nil)
	if e.Message != "msg" || e.ErrorDetails != "" {
		t.Fatalf("unexpected %+v", e)
	}
	if e.Timestamp.IsZero() || time.Since(e.Timestamp) > time.Second {
		t.Fatalf("timestamp not set")
	}

	// with inner error
	err := errors.New("boom")
	e2 := NewErrorResponse("msg", err)
	if e2.ErrorDetails != "boom" || e2.Message != "msg" {
		t.Fatalf("unexpected %+v", e2)
	}
}

func TestErrorResponse_JSONShape(t *testing.T) {
	cases := []struct {
		name    string
		resp    ErrorResponse
		wantErr bool
	}{
		{name: "details omitted when empty", resp: NewErrorResponse("no data available", nil), wantErr: false},
		{name: "details present", resp: NewErrorResponse("failed", errors.New("db down")), wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.resp)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var m map[string]any
			if err := json.Unmarshal(b, &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if _, ok := m["message"]; !ok {
				t.Fatalf("message missing: %s", b)
			}
			if _, ok := m["timestamp"]; !ok {
				t.Fatalf("timestamp missing: %s", b)
			}
			if _, ok := m["error"]; ok != tc.wantErr {
				t.Fatalf("error field presence=%v want %v: %s", ok, tc.wantErr, b)
			}
		})
	}
}
