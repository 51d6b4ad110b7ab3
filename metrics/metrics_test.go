package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/wricardo/strands-coop/game/multiplayer"
)

var _ multiplayer.Recorder = (*Collector)(nil)

func TestCollector_Counts(t *testing.T) {
	c := NewCollector()

	c.Inbound("HELLO")
	c.Inbound("HELLO")
	c.Inbound("ROOM")
	c.Outbound("JOIN")
	c.Dropped("unknown_tag")
	c.LinkLost()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"inbound HELLO", testutil.ToFloat64(c.inbound.WithLabelValues("HELLO")), 2},
		{"inbound ROOM", testutil.ToFloat64(c.inbound.WithLabelValues("ROOM")), 1},
		{"outbound JOIN", testutil.ToFloat64(c.outbound.WithLabelValues("JOIN")), 1},
		{"dropped unknown_tag", testutil.ToFloat64(c.dropped.WithLabelValues("unknown_tag")), 1},
		{"link lost", testutil.ToFloat64(c.linkLost), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, tt.got)
			}
		})
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.Outbound("PING")

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), `strands_wire_lines_outbound_total{tag="PING"} 1`) {
		t.Errorf("Expected outbound counter in scrape output, got:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("Expected Go runtime metrics in scrape output")
	}
}

func TestCollectors_AreIndependent(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.LinkLost()
	if got := testutil.ToFloat64(b.linkLost); got != 0 {
		t.Errorf("Expected separate registries, got %v", got)
	}
}
