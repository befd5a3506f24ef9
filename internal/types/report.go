package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// FINAL REPORT
// =============================================================================

// FinalReport is the JSON document written at the end of a run and read back
// by the report renderers. Key names (typos included) are what downstream
// spreadsheets already consume.
type FinalReport struct {
	Data []Record `json:"data"`

	TotalLines            int `json:"totalLines"`
	POCount               int `json:"POs Amounts"`
	RemovedDuplicateLines int `json:"Removals Dulplicate Line"`
	RemovedInvalidLines   int `json:"Removed Invalid Lines"`

	EmptyTermPOs     []string `json:"Empty Payment_Terms POs"`
	EmptyTermVendors []string `json:"Empty Payment_Terms Vendors"`
	EmptyTermAmount  any      `json:"undefinePT_AmountEffected"`

	ERDConflictPOCount int    `json:"Mutiple ERDs conflict PO Count"`
	ERDConflictAmount  string `json:"Error Estimation Due To Line Conflicts"`

	UndefinedTermVendors []string `json:"Having Payment Term Value but not in PTDefine.csv Vendors"`
	UndefinedTermPOs     []string `json:"Having Payment Term Value but not in PTDefine.csv POs"`
}

// =============================================================================
// ORDERED SET
// =============================================================================

// OrderedSet is a de-duplicated list that keeps first-insertion order.
type OrderedSet struct {
	seen  map[string]struct{}
	items []string
}

// NewOrderedSet returns an empty set.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{seen: make(map[string]struct{}), items: []string{}}
}

// Add inserts value unless it is already present.
func (s *OrderedSet) Add(value string) {
	if _, ok := s.seen[value]; ok {
		return
	}
	s.seen[value] = struct{}{}
	s.items = append(s.items, value)
}

// Len returns the number of distinct values.
func (s *OrderedSet) Len() int {
	return len(s.items)
}

// Items returns a copy of the values in insertion order. Never nil.
func (s *OrderedSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrInvalidStructure is wrapped by every StructureError.
var ErrInvalidStructure = errors.New("invalid input structure")

// StructureError reports a required top-level field that is missing or has
// the wrong type. It always aborts the run.
type StructureError struct {
	File   string
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", e.File, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidStructure.
func (e *StructureError) Unwrap() error {
	return ErrInvalidStructure
}
