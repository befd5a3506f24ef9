// =============================================================================
// PO Payment Schedule - Validation Engine
// =============================================================================
//
// This module checks PO lines for values the pipeline will silently default:
//   - Missing PO number (the line forms its own "" group)
//   - Quantity / Cost in USD that are not numbers (read as 0)
//   - Date Entered / ERD that are not M/D/YYYY dates (empty date and anchor)
//   - Repeated PO number + line number pairs
//
// ERROR HANDLING:
//   - Issues are collected, never returned as errors
//   - Each issue carries the record index, PO and line number
//   - Every built-in rule is a warning; the run always continues unless
//     TreatWarningsAsErrors is set by the caller
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/po-payment-schedule/internal/money"
	"github.com/ginjaninja78/po-payment-schedule/internal/schedule"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names.
const (
	RuleRequired = "required"
	RuleNumeric  = "numeric"
	RuleDate     = "date"
	RuleUnique   = "unique"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation issue.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the column that failed validation.
	Field string

	// Value is the offending value.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable description.
	Message string

	// RecordIndex is the 0-based position in the PO source "data" array.
	RecordIndex int

	// PONumber and LineNumber identify the line for remediation.
	PONumber   string
	LineNumber string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Record %d, PO '%s' line '%s', Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RecordIndex,
		e.PONumber,
		e.LineNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all issues, warnings included, in record order.
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// RecordsValidated is the number of records checked.
	RecordsValidated int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// TreatWarningsAsErrors marks the result invalid on any warning.
	TreatWarningsAsErrors bool

	// DateFields are checked with the M/D/YYYY rule.
	DateFields []string

	// NumericFields are checked with the numeric rule.
	NumericFields []string
}

// DefaultValidationOptions returns the default validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		DateFields:    []string{types.FieldDateEntered, types.FieldERD},
		NumericFields: []string{types.FieldQuantity, types.FieldCostUSD},
	}
}

// Validator checks PO lines.
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a Validator with default options.
func NewValidator() *Validator {
	return &Validator{options: DefaultValidationOptions()}
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// Validate checks every record with default options.
func Validate(records []types.Record) []*ValidationError {
	return NewValidator().ValidateAll(records).Errors
}

// ValidateAll checks every record and returns a detailed result.
func (v *Validator) ValidateAll(records []types.Record) *ValidationResult {
	result := &ValidationResult{
		IsValid:          true,
		Errors:           make([]*ValidationError, 0),
		RecordsValidated: len(records),
	}

	seen := make(map[[2]string]int)
	for i, rec := range records {
		issues := v.ValidateRecord(i, rec)

		key := [2]string{rec.String(types.FieldPONumber), rec.String(types.FieldLineNumber)}
		if first, dup := seen[key]; dup && key[0] != "" {
			issues = append(issues, newIssue(i, rec, types.FieldLineNumber, key[1], RuleUnique,
				fmt.Sprintf("duplicate PO line, first seen at record %d", first)))
		} else if !dup {
			seen[key] = i
		}

		for _, issue := range issues {
			result.Errors = append(result.Errors, issue)
			if issue.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
			} else {
				result.WarningCount++
				if v.options.TreatWarningsAsErrors {
					result.IsValid = false
				}
			}
		}
	}

	return result
}

// ValidateRecord checks a single record. index is reported in each issue.
func (v *Validator) ValidateRecord(index int, rec types.Record) []*ValidationError {
	var issues []*ValidationError

	if strings.TrimSpace(rec.String(types.FieldPONumber)) == "" {
		issues = append(issues, newIssue(index, rec, types.FieldPONumber, "", RuleRequired, "PO number is missing"))
	}

	for _, field := range v.options.NumericFields {
		value := rec.String(field)
		if !money.IsNumeric(value) {
			issues = append(issues, newIssue(index, rec, field, value, RuleNumeric, "not a number, treated as 0"))
		}
	}

	for _, field := range v.options.DateFields {
		value := rec.String(field)
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, ok := schedule.ParseDate(value); !ok {
			issues = append(issues, newIssue(index, rec, field, value, RuleDate, "not an M/D/YYYY date, schedule date left empty"))
		}
	}

	return issues
}

func newIssue(index int, rec types.Record, field, value, rule, message string) *ValidationError {
	return &ValidationError{
		Severity:    SeverityWarning,
		Field:       field,
		Value:       value,
		Rule:        rule,
		Message:     message,
		RecordIndex: index,
		PONumber:    rec.String(types.FieldPONumber),
		LineNumber:  rec.String(types.FieldLineNumber),
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d issue(s):\n\n", len(errors)))
	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}

// WriteErrorLog writes validation errors to a text file.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create validation log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(FormatErrors(errors)); err != nil {
		return fmt.Errorf("failed to write validation log: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write validation log: %w", err)
	}
	return nil
}
