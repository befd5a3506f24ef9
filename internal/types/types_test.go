package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "Net 30", "Net 30"},
		{"json number", json.Number("12.50"), "12.50"},
		{"bool", true, "true"},
		{"float", 0.5, "0.5"},
		{"int", 7, "7"},
		{"decimal", decimal.RequireFromString("3.25"), "3.25"},
		{"stringer", FlexString("V1"), "V1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.value))
		})
	}
}

func TestRecordClone(t *testing.T) {
	rec := Record{FieldPONumber: "1001", FieldSupplier: "Acme"}
	clone := rec.Clone()
	clone[FieldSupplier] = "Beta"

	assert.Equal(t, "Acme", rec.String(FieldSupplier))
	assert.True(t, clone.Has(FieldPONumber))
	assert.False(t, clone.Has(FieldBalance))
}

func TestRecordIsClosed(t *testing.T) {
	assert.True(t, Record{FieldClosed: true}.IsClosed())
	assert.True(t, Record{FieldClosed: " Yes "}.IsClosed())
	assert.True(t, Record{FieldClosed: "T"}.IsClosed())
	assert.False(t, Record{FieldClosed: "F"}.IsClosed())
	assert.False(t, Record{FieldClosed: false}.IsClosed())
	assert.False(t, Record{}.IsClosed())
}

func TestFlexString(t *testing.T) {
	var v Vendor
	require.NoError(t, json.Unmarshal([]byte(`{"id":123,"entityid":"V1","terms":null,"term_name":"Net 30"}`), &v))
	assert.Equal(t, "123", v.ID.String())
	assert.Equal(t, "V1", v.EntityID.String())
	assert.Equal(t, "", v.Terms.String())
	assert.Equal(t, "Net 30", v.TermName.String())

	err := json.Unmarshal([]byte(`{"id":[1]}`), &v)
	assert.Error(t, err)
}

func TestTermDefinitionIsEmpty(t *testing.T) {
	assert.True(t, TermDefinition{Name: "Net 30"}.IsEmpty())
	assert.False(t, TermDefinition{Name: "Net 30", NetDays: "30"}.IsEmpty())
}

func TestPolicyPreset(t *testing.T) {
	p, err := PolicyPreset("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)

	p, err = PolicyPreset(" Full-Sourcing ")
	require.NoError(t, err)
	assert.Equal(t, BaseLineMinNumber, p.BaseLineSelection)
	assert.Equal(t, BucketByMonth, p.DateBucketGranularity)

	_, err = PolicyPreset("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default, full-sourcing, line-zero-merge")
}

func TestPolicyValidate(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := PolicyPreset(name)
		require.NoError(t, err)
		assert.NoError(t, p.Validate(), name)
	}

	p := DefaultPolicy()
	p.RemainderBase = "everything"
	assert.Error(t, p.Validate())
}

func TestOrderedSet(t *testing.T) {
	s := NewOrderedSet()
	assert.Equal(t, []string{}, s.Items())

	s.Add("b")
	s.Add("a")
	s.Add("b")
	assert.Equal(t, 2, s.Len())

	items := s.Items()
	assert.Equal(t, []string{"b", "a"}, items)
	items[0] = "changed"
	assert.Equal(t, []string{"b", "a"}, s.Items())
}

func TestStructureError(t *testing.T) {
	err := error(&StructureError{File: "Record.json", Field: "data", Reason: "missing"})

	assert.True(t, errors.Is(err, ErrInvalidStructure))
	assert.Equal(t, `Record.json: field "data": missing`, err.Error())
}
