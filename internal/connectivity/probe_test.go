package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProberCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	m := NewMonitor(false)
	p := NewProber(m, srv.URL, time.Minute)

	if !p.Check(context.Background()) {
		t.Fatal("probe against a live server should succeed")
	}
	if !m.Online() {
		t.Error("monitor should report online after a successful probe")
	}

	srv.Close()
	if p.Check(context.Background()) {
		t.Fatal("probe against a closed server should fail")
	}
	if m.Online() {
		t.Error("monitor should report offline after a failed probe")
	}
}
