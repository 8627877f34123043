package imports

import (
	"fmt"
	"strings"
)

// Kind is the entity a CSV file holds.
type Kind string

const (
	KindMember  Kind = "member"
	KindVehicle Kind = "vehicle"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindMember, "members":
		return KindMember, nil
	case KindVehicle, "vehicles":
		return KindVehicle, nil
	}
	return "", fmt.Errorf("unknown import kind %q", s)
}

// RowError describes why one data row was skipped. Row is the 1-based data row index
// (the header is not counted).
type RowError struct {
	Row    int      `json:"row_number"`
	Fields []string `json:"fields,omitempty"`
	Reason string   `json:"reason"`
}

type Result struct {
	Kind          Kind       `json:"kind"`
	ImportedCount int        `json:"imported_count"`
	Created       int        `json:"created"`
	Updated       int        `json:"updated"`
	FailedRows    []RowError `json:"failed_rows"`
}

// Recorder observes finished imports, e.g. for metrics.
type Recorder interface {
	ObserveImport(kind Kind, imported, failed int)
}

// RecorderFunc adapts a plain function to Recorder.
type RecorderFunc func(kind Kind, imported, failed int)

func (f RecorderFunc) ObserveImport(kind Kind, imported, failed int) { f(kind, imported, failed) }

type nopRecorder struct{}

func (nopRecorder) ObserveImport(Kind, int, int) {}
