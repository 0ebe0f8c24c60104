package repository

import (
	"encoding/json"
	"fmt"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// EncodePeaks serializes a peak list for a JSON column. A nil list is stored
// as an empty array.
func EncodePeaks(peaks []models.Peak) (string, error) {
	if peaks == nil {
		peaks = []models.Peak{}
	}
	data, err := json.Marshal(peaks)
	if err != nil {
		return "", fmt.Errorf("failed to marshal peaks: %w", err)
	}
	return string(data), nil
}

// DecodePeaks restores a peak list stored by EncodePeaks
func DecodePeaks(data string) ([]models.Peak, error) {
	peaks := []models.Peak{}
	if data == "" {
		return peaks, nil
	}
	if err := json.Unmarshal([]byte(data), &peaks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal peaks: %w", err)
	}
	return peaks, nil
}
