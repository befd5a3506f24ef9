package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// LoadFinal reads a final run document. Numbers are kept as json.Number
// and schedule blocks come back as plain maps.
func LoadFinal(path string) (*types.FinalReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read final report: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var final types.FinalReport
	if err := dec.Decode(&final); err != nil {
		return nil, fmt.Errorf("%s: malformed JSON: %w", path, err)
	}
	if final.Data == nil {
		return nil, &types.StructureError{File: path, Field: "data", Reason: "missing"}
	}
	return &final, nil
}
