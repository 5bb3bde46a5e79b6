package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const SchemaVersion = "1.0"

const (
	KindBaseline   = "baseline"
	KindOptimize   = "optimize"
	KindOptimal    = "optimal-plan"
	KindComparison = "comparison"
	KindSweep      = "sweep"
)

// Envelope wraps every result written to disk or served over HTTP.
type Envelope struct {
	SchemaVersion string    `json:"schemaVersion"`
	RunID         string    `json:"runId"`
	Kind          string    `json:"kind"`
	Dataset       string    `json:"dataset"`
	GeneratedAt   time.Time `json:"generatedAt"`
	Result        any       `json:"result"`
}

func NewEnvelope(kind, dataset string, result any, now time.Time) Envelope {
	return Envelope{
		SchemaVersion: SchemaVersion,
		RunID:         uuid.NewString(),
		Kind:          kind,
		Dataset:       dataset,
		GeneratedAt:   now.UTC(),
		Result:        result,
	}
}

func WriteJSON(path string, payload interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	data, err := MarshalJSON(payload)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MarshalJSON indents payload and terminates it with a newline.
func MarshalJSON(payload interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
