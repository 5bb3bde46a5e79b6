package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewEnvelope(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800))
	env := NewEnvelope(KindBaseline, "crossmedia-2025", map[string]int{"atc": 1}, now)

	if env.SchemaVersion != SchemaVersion || env.Kind != KindBaseline || env.Dataset != "crossmedia-2025" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if _, err := uuid.Parse(env.RunID); err != nil {
		t.Fatalf("run id %q: %v", env.RunID, err)
	}
	if env.GeneratedAt.Location() != time.UTC || !env.GeneratedAt.Equal(now) {
		t.Fatalf("generatedAt = %v", env.GeneratedAt)
	}
	if other := NewEnvelope(KindBaseline, "x", nil, now); other.RunID == env.RunID {
		t.Fatalf("run ids should differ")
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "baseline.json")
	env := NewEnvelope(KindBaseline, "demo", map[string]float64{"spend": 1.5}, time.Unix(0, 0))
	if err := WriteJSON(path, env); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if data[len(data)-1] != '\n' {
		t.Fatalf("missing trailing newline")
	}
	var decoded struct {
		Kind   string             `json:"kind"`
		Result map[string]float64 `json:"result"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != KindBaseline || decoded.Result["spend"] != 1.5 {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}
