package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// DecodeJSON reads a previously saved peak list. Both a bare array and an
// object with a "peaks" array are accepted. Records without a numeric shift
// are skipped and counted; only malformed JSON is an error.
func DecodeJSON(r io.Reader) ([]models.Peak, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read peak list: %w", err)
	}

	var records []json.RawMessage
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Peaks []json.RawMessage `json:"peaks"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, 0, fmt.Errorf("failed to decode peak list: %w", err)
		}
		records = wrapper.Peaks
	} else if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode peak list: %w", err)
	}

	peaks := make([]models.Peak, 0, len(records))
	skipped := 0
	for _, rec := range records {
		var p models.Peak
		if err := json.Unmarshal(rec, &p); err != nil {
			skipped++
			continue
		}
		peaks = append(peaks, p)
	}
	return peaks, skipped, nil
}
