package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return backend.New(srv.URL, 5*time.Second, zap.NewNop())
}

func TestGet_DecodesJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/roles/" {
			t.Errorf("path: got %q, want %q", r.URL.Path, "/roles/")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["dancer","choreographer","employer"]`))
	})

	var roles []string
	if err := c.Get(context.Background(), "/roles/", "", &roles); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(roles) != 3 {
		t.Errorf("roles: got %d, want 3", len(roles))
	}
}

func TestDo_NormalizesLeadingSlash(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Get(context.Background(), "skills/", "", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotPath != "/skills/" {
		t.Errorf("path: got %q, want %q", gotPath, "/skills/")
	}
}

func TestDo_SetsBearerAndContentType(t *testing.T) {
	var gotAuth, gotCT string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	})

	err := c.Post(context.Background(), "/applications/", "tok123", map[string]any{"gig_id": 7}, nil)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization: got %q", gotAuth)
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type: got %q", gotCT)
	}
}

func TestDo_NoBodyOmitsContentType(t *testing.T) {
	var gotCT string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	})

	if err := c.Get(context.Background(), "/roles/", "", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotCT != "" {
		t.Errorf("Content-Type: got %q, want empty", gotCT)
	}
}

func TestDo_ErrorMessageFromBody(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMsg     string
	}{
		{"error field", 400, "application/json", `{"error":"Invalid credentials"}`, "Invalid credentials"},
		{"message field", 403, "application/json", `{"message":"Not your gig"}`, "Not your gig"},
		{"plain text", 500, "text/plain", "boom", "boom"},
		{"empty body", 502, "text/plain", "", "request failed (502)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := c.Get(context.Background(), "/x", "", nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message: got %q, want %q", err.Error(), tt.wantMsg)
			}
			if !backend.IsStatus(err, tt.status) {
				t.Errorf("IsStatus(%d) = false", tt.status)
			}
		})
	}
}

func TestIsStatus_NonAPIError(t *testing.T) {
	if backend.IsStatus(context.Canceled, 400) {
		t.Error("IsStatus should be false for non-API errors")
	}
}
