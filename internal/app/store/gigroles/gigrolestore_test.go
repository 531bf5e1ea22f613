package gigroles_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/app/store/gigroles"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *gigroles.Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return gigroles.New(backend.New(srv.URL, 5*time.Second, zap.NewNop()))
}

func TestForGig_ReturnsRows(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gigs-roles/42" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"gig_id":42,"role_name":"dancer","needed_count":3,"pay_amount":150,"pay_currency":"USD","pay_unit":"day"}]`))
	})

	rows, err := s.ForGig(context.Background(), "tok", 42)
	if err != nil {
		t.Fatalf("ForGig: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	if rows[0].RoleName != "dancer" || rows[0].NeededCount != 3 {
		t.Errorf("row: got %+v", rows[0])
	}
}

func TestForGig_BadRequestMeansUnrestricted(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Failed to fetch gig roles"}`))
	})

	rows, err := s.ForGig(context.Background(), "tok", 7)
	if err != nil {
		t.Fatalf("ForGig: 400 should map to empty set, got %v", err)
	}
	if rows != nil {
		t.Errorf("rows: got %v, want nil", rows)
	}
}

func TestForGig_OtherErrorsPropagate(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := s.ForGig(context.Background(), "tok", 7); err == nil {
		t.Fatal("expected error for 500, got nil")
	}
}
