package provision

import (
	"encoding/json"
	"fmt"
	"os"
)

// Record is the persisted description of a provisioned worker. It is the
// minimal state needed to describe the process externally after a controller
// restart; a base layer may extend it with additional fields.
type Record struct {
	Pid  int    `json:"pid"`
	Pgid int    `json:"pgid,omitempty"`
	IP   string `json:"ip"`
}

// WriteRecord persists rec to path as JSON.
func WriteRecord(path string, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode worker record: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write worker record: %w", err)
	}
	return nil
}

// ReadRecord loads a previously persisted record from path.
func ReadRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read worker record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%s: decode worker record: %w", path, err)
	}
	return rec, nil
}
