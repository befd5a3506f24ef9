// =============================================================================
// PO Payment Schedule - Pipeline Policy
// =============================================================================
//
// The scripts this tool replaces each hard-coded a slightly different set of
// business rules. Policy names every one of those choices so a single
// pipeline can reproduce any of them.
//
// PRESETS:
//   default          : lineZero, filter ON,  remainder on unpaid,  day anchors
//   line-zero-merge  : lineZero, filter OFF, remainder on balance, day anchors
//   full-sourcing    : minLineNumber, filter ON, remainder on unpaid, month anchors
//
// =============================================================================

package types

import (
	"fmt"
	"sort"
	"strings"
)

// BaseLineSelection picks the line that represents a consolidated PO.
type BaseLineSelection string

const (
	// BaseLineZero consolidates into the line numbered "0". Groups without
	// such a line pass through unconsolidated.
	BaseLineZero BaseLineSelection = "lineZero"

	// BaseLineMinNumber consolidates into the numerically smallest line.
	BaseLineMinNumber BaseLineSelection = "minLineNumber"
)

// RemainderBase is the amount the remainder fraction is applied to.
type RemainderBase string

const (
	// RemainderOnBalance applies the fraction to the PO balance and only
	// when something has been paid.
	RemainderOnBalance RemainderBase = "balance"

	// RemainderOnUnpaid applies the fraction to the unpaid amount and only
	// when something is still owed.
	RemainderOnUnpaid RemainderBase = "unpaid"
)

// BucketGranularity controls how "Past Due" is decided.
type BucketGranularity string

const (
	// BucketByDay marks dates before the reference day as past due.
	BucketByDay BucketGranularity = "day"

	// BucketByMonth marks dates in a month before the reference month as past due.
	BucketByMonth BucketGranularity = "month"
)

// Policy enumerates the business rules that differ between pipeline variants.
type Policy struct {
	BaseLineSelection        BaseLineSelection `yaml:"base_line_selection"`
	FilterClosedOrMissingERD bool              `yaml:"filter_closed_or_missing_erd"`
	RemainderBase            RemainderBase     `yaml:"remainder_base"`
	DateBucketGranularity    BucketGranularity `yaml:"date_bucket_granularity"`
}

// Preset names.
const (
	PresetDefault       = "default"
	PresetLineZeroMerge = "line-zero-merge"
	PresetFullSourcing  = "full-sourcing"
)

var presets = map[string]Policy{
	PresetDefault: {
		BaseLineSelection:        BaseLineZero,
		FilterClosedOrMissingERD: true,
		RemainderBase:            RemainderOnUnpaid,
		DateBucketGranularity:    BucketByDay,
	},
	PresetLineZeroMerge: {
		BaseLineSelection:        BaseLineZero,
		FilterClosedOrMissingERD: false,
		RemainderBase:            RemainderOnBalance,
		DateBucketGranularity:    BucketByDay,
	},
	PresetFullSourcing: {
		BaseLineSelection:        BaseLineMinNumber,
		FilterClosedOrMissingERD: true,
		RemainderBase:            RemainderOnUnpaid,
		DateBucketGranularity:    BucketByMonth,
	},
}

// DefaultPolicy returns the "default" preset.
func DefaultPolicy() Policy {
	return presets[PresetDefault]
}

// PolicyPreset returns a named preset. An empty name means "default".
func PolicyPreset(name string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = PresetDefault
	}
	p, ok := presets[name]
	if !ok {
		return Policy{}, fmt.Errorf("unknown policy preset %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every enumerated field holds a known value.
func (p Policy) Validate() error {
	switch p.BaseLineSelection {
	case BaseLineZero, BaseLineMinNumber:
	default:
		return fmt.Errorf("invalid base_line_selection %q", p.BaseLineSelection)
	}
	switch p.RemainderBase {
	case RemainderOnBalance, RemainderOnUnpaid:
	default:
		return fmt.Errorf("invalid remainder_base %q", p.RemainderBase)
	}
	switch p.DateBucketGranularity {
	case BucketByDay, BucketByMonth:
	default:
		return fmt.Errorf("invalid date_bucket_granularity %q", p.DateBucketGranularity)
	}
	return nil
}
