package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jurebordon/meal-frame/internal/models"
)

func TestFetchDayDecodesAndRecalculates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/today" {
			t.Errorf("path = %s, want /api/v1/today", r.URL.Path)
		}
		// Stale derived fields from the server must not survive the fetch.
		w.Write([]byte(`{
			"date": "2026-08-30",
			"slots": [
				{"id": "a", "meal_type_id": "breakfast", "completion_status": "followed", "is_next": true},
				{"id": "b", "meal_type_id": "lunch", "completion_status": null, "is_next": false}
			],
			"stats": {"total": 2, "completed": 0}
		}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "")
	snap, err := client.FetchDay(context.Background(), Today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Slots[0].IsNext {
		t.Error("marked slot kept a stale is_next flag")
	}
	if !snap.Slots[1].IsNext {
		t.Error("first unmarked slot should be next")
	}
	if snap.Stats.Completed != 1 {
		t.Errorf("Stats.Completed = %d, want 1 (recomputed)", snap.Stats.Completed)
	}
}

func TestCompleteSlotRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "secret")
	err := client.CompleteSlot(context.Background(), "slot-1", models.StatusModified)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/v1/slots/slot-1/complete" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["status"] != "modified" {
		t.Errorf("body status = %q, want modified", gotBody["status"])
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "404 is not found",
			status: http.StatusNotFound,
			body:   `{"detail": "no plan"}`,
			check: func(t *testing.T, err error) {
				if err != ErrNotFound {
					t.Errorf("got %v, want ErrNotFound", err)
				}
			},
		},
		{
			name:   "422 is validation",
			status: http.StatusUnprocessableEntity,
			body:   `{"detail": "invalid status"}`,
			check: func(t *testing.T, err error) {
				ve, ok := err.(*ValidationError)
				if !ok {
					t.Fatalf("got %T, want *ValidationError", err)
				}
				if ve.Message != "invalid status" {
					t.Errorf("message = %q", ve.Message)
				}
			},
		},
		{
			name:   "500 is server error",
			status: http.StatusInternalServerError,
			body:   "",
			check: func(t *testing.T, err error) {
				se, ok := err.(*ServerError)
				if !ok {
					t.Fatalf("got %T, want *ServerError", err)
				}
				if se.StatusCode != http.StatusInternalServerError {
					t.Errorf("status = %d", se.StatusCode)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewHTTPClient(srv.URL, "")
			tt.check(t, client.UncompleteSlot(context.Background(), "slot-1"))
		})
	}
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewHTTPClient(srv.URL, "")
	_, err := client.FetchDay(context.Background(), Yesterday)
	if !IsNetworkError(err) {
		t.Errorf("got %v, want a network error", err)
	}
}
