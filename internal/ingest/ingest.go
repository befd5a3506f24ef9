// =============================================================================
// PO Payment Schedule - Source Ingest
// =============================================================================
//
// This module reads the two JSON inputs produced by the fetch step (or by
// hand exports):
//
//   PO source  : { "success": true, "totalRecords": N, "data": [ {...}, ... ] }
//   Vendors    : { "items": [ { "id", "entityid", "terms", "companyname", "term_name" } ] }
//
// Structure is checked strictly (a missing or mistyped top-level field is a
// fatal *types.StructureError naming the file). Field values inside records
// are not checked here; see the validation package.
//
// =============================================================================

package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// =============================================================================
// PO SOURCE
// =============================================================================

// POSource is a decoded PO source file.
type POSource struct {
	// Success is the upstream success flag. Absent means true.
	Success bool `json:"success"`

	// TotalRecords is the upstream count when present, else len(Data).
	TotalRecords int `json:"totalRecords"`

	// Data holds the PO lines in file order.
	Data []types.Record `json:"data"`
}

// LoadPOSource reads and validates a PO source file.
//
// PARAMETERS:
//   - path: The PO source JSON file (Record_<Mon_D>.json).
//
// RETURNS:
//   - The decoded source with numbers kept as json.Number.
//   - A *types.StructureError when success is false or data is not an
//     array of objects; an I/O or syntax error otherwise.
func LoadPOSource(path string) (*POSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PO source: %w", err)
	}
	return DecodePOSource(bytes.NewReader(data), path)
}

// DecodePOSource decodes a PO source document. name is used in errors.
func DecodePOSource(r io.Reader, name string) (*POSource, error) {
	top, err := decodeObject(r, name)
	if err != nil {
		return nil, err
	}

	src := &POSource{Success: true}

	if raw, ok := top["success"]; ok {
		success, isBool := raw.(bool)
		if !isBool {
			return nil, &types.StructureError{File: name, Field: "success", Reason: "must be a boolean"}
		}
		if !success {
			return nil, &types.StructureError{File: name, Field: "success", Reason: "upstream reported failure"}
		}
	}

	rawData, ok := top["data"]
	if !ok {
		return nil, &types.StructureError{File: name, Field: "data", Reason: "missing"}
	}
	items, ok := rawData.([]any)
	if !ok {
		return nil, &types.StructureError{File: name, Field: "data", Reason: "must be an array"}
	}

	src.Data = make([]types.Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &types.StructureError{File: name, Field: fmt.Sprintf("data[%d]", i), Reason: "must be an object"}
		}
		src.Data = append(src.Data, types.Record(obj))
	}

	src.TotalRecords = len(src.Data)
	if raw, ok := top["totalRecords"].(json.Number); ok {
		if n, err := raw.Int64(); err == nil {
			src.TotalRecords = int(n)
		}
	}

	return src, nil
}

// decodeObject decodes a JSON object with numbers preserved.
func decodeObject(r io.Reader, name string) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: malformed JSON: %w", name, err)
	}
	top, ok := doc.(map[string]any)
	if !ok {
		return nil, &types.StructureError{File: name, Field: "(root)", Reason: "must be a JSON object"}
	}
	return top, nil
}

// =============================================================================
// VENDORS
// =============================================================================

// VendorFile is a decoded SuiteQL vendor result.
type VendorFile struct {
	Items []types.Vendor `json:"items"`
	Count int            `json:"count,omitempty"`
}

// LoadVendors reads and validates a vendor file.
func LoadVendors(path string) (*VendorFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vendor file: %w", err)
	}
	return DecodeVendors(data, path)
}

// DecodeVendors decodes a vendor document. name is used in errors.
func DecodeVendors(data []byte, name string) (*VendorFile, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%s: malformed JSON: %w", name, err)
	}
	if top == nil {
		return nil, &types.StructureError{File: name, Field: "(root)", Reason: "must be a JSON object"}
	}

	rawItems, ok := top["items"]
	if !ok {
		return nil, &types.StructureError{File: name, Field: "items", Reason: "missing"}
	}
	if !strings.HasPrefix(strings.TrimSpace(string(rawItems)), "[") {
		return nil, &types.StructureError{File: name, Field: "items", Reason: "must be an array"}
	}

	var file VendorFile
	if err := json.Unmarshal(rawItems, &file.Items); err != nil {
		return nil, &types.StructureError{File: name, Field: "items", Reason: err.Error()}
	}
	file.Count = len(file.Items)
	return &file, nil
}

// =============================================================================
// DERIVED LOOKUPS
// =============================================================================

// VendorIndex maps entity ID to vendor term info. A repeated entity ID keeps
// the last entry.
func VendorIndex(vendors []types.Vendor) map[string]types.VendorTermInfo {
	index := make(map[string]types.VendorTermInfo, len(vendors))
	for _, v := range vendors {
		index[v.EntityID.String()] = types.VendorTermInfo{
			VendorID:    v.EntityID.String(),
			TermName:    v.TermName.String(),
			Terms:       v.Terms.String(),
			CompanyName: v.CompanyName.String(),
		}
	}
	return index
}

// VendorIDs returns the distinct non-empty vendor IDs of lines in first-seen
// order. These feed the SuiteQL vendor query.
func VendorIDs(lines []types.Record) []string {
	ids := types.NewOrderedSet()
	for _, line := range lines {
		if id := strings.TrimSpace(line.String(types.FieldVendorID)); id != "" {
			ids.Add(id)
		}
	}
	return ids.Items()
}
