package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.RecordResolution("active", time.Second)
	r.RecordPageLoad(PageSearch, nil)
	r.RecordCacheLookup(true)
	r.RecordConsentDismissal()
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")); err != nil {
		t.Fatalf("nil recorder WriteTextfile returned %v", err)
	}
	if r.Registry() != nil {
		t.Fatal("nil recorder should expose nil registry")
	}
}

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()
	r.RecordResolution("active", 2*time.Second)
	r.RecordResolution("unknown", time.Second)
	r.RecordResolution("active", time.Second)
	r.RecordPageLoad(PageSearch, nil)
	r.RecordPageLoad(PageDetail, errors.New("timeout"))
	r.RecordCacheLookup(false)

	if got := testutil.ToFloat64(r.resolutions.WithLabelValues("active")); got != 2 {
		t.Fatalf("active resolutions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.pageLoads.WithLabelValues(PageDetail, "error")); got != 1 {
		t.Fatalf("detail errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.cacheLookup.WithLabelValues("miss")); got != 1 {
		t.Fatalf("cache misses = %v, want 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RecordResolution("career_ended", time.Second)

	path := filepath.Join(t.TempDir(), "nested", "playervalue.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `playervalue_resolutions_total{status="career_ended"} 1`) {
		t.Fatalf("textfile missing resolution counter:\n%s", data)
	}
}
