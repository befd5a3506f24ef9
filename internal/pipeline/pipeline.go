package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
	"github.com/ginjaninja78/po-payment-schedule/internal/ingest"
	"github.com/ginjaninja78/po-payment-schedule/internal/logging"
	"github.com/ginjaninja78/po-payment-schedule/internal/lookup"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
	"github.com/ginjaninja78/po-payment-schedule/internal/validation"
)

// ErrValidationFailed is returned by Run when validation.warnings_as_errors
// is set and a PO line has an issue. The Result is still returned so the
// issues can be written out.
var ErrValidationFailed = errors.New("PO lines failed validation")

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in logs and output names.
	RunID string

	// Report is the final document. Nil when the run failed.
	Report *types.FinalReport

	// Source is the decoded PO source, kept for exports that embed it.
	Source *ingest.POSource

	// Vendors is the decoded vendor file.
	Vendors *ingest.VendorFile

	// Issues are the validation warnings raised on the PO lines.
	Issues []*validation.ValidationError

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// Pipeline loads the inputs named by a configuration and processes them.
type Pipeline struct {
	cfg    *config.MainConfig
	policy types.Policy
	now    time.Time
}

// New resolves the configured policy and reference time.
//
// PARAMETERS:
//   - cfg: The main configuration. Inputs must be filled.
//   - now: The wall clock, used unless cfg pins a reference date.
func New(cfg *config.MainConfig, now time.Time) (*Pipeline, error) {
	policy, err := cfg.ResolvePolicy()
	if err != nil {
		return nil, err
	}
	ref, err := cfg.ReferenceTime(now)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, policy: policy, now: ref}, nil
}

// Policy returns the resolved policy.
func (p *Pipeline) Policy() types.Policy {
	return p.policy
}

// Now returns the reference time used for anchors.
func (p *Pipeline) Now() time.Time {
	return p.now
}

// Run loads the four inputs in order (PO source, vendors, term definitions,
// paid ledger), validates the PO lines and processes them. Any load failure
// aborts the run. Validation issues are logged, and abort the run with
// ErrValidationFailed only when warnings are treated as errors.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.FromContext(ctx)
	inputs := p.cfg.Inputs

	logger.Info("starting run",
		"po_source", inputs.POSource,
		"policy_base_line", p.policy.BaseLineSelection,
		"policy_filter", p.policy.FilterClosedOrMissingERD,
		"policy_remainder_base", p.policy.RemainderBase,
		"policy_granularity", p.policy.DateBucketGranularity,
		"reference_date", p.now.Format(config.ReferenceDateLayout),
	)

	source, err := ingest.LoadPOSource(inputs.POSource)
	if err != nil {
		logger.Error("failed to load PO source", "path", inputs.POSource, "error", err)
		return nil, err
	}
	result.Source = source
	logger.Info("loaded PO source", "lines", len(source.Data), "total_records", source.TotalRecords)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vendors, err := ingest.LoadVendors(inputs.Vendors)
	if err != nil {
		logger.Error("failed to load vendors", "path", inputs.Vendors, "error", err)
		return nil, err
	}
	result.Vendors = vendors
	logger.Info("loaded vendors", "count", len(vendors.Items))

	terms, err := lookup.LoadTermDefinitions(inputs.TermDefinitions, p.cfg.CSVSettings)
	if err != nil {
		logger.Error("failed to load term definitions", "path", inputs.TermDefinitions, "error", err)
		return nil, err
	}
	logger.Info("loaded term definitions", "count", len(terms))

	paid, err := lookup.LoadPaidLedger(inputs.PaidLedger, p.cfg.CSVSettings)
	if err != nil {
		logger.Error("failed to load paid ledger", "path", inputs.PaidLedger, "error", err)
		return nil, err
	}
	logger.Info("loaded paid ledger", "count", len(paid))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := validation.DefaultValidationOptions()
	opts.TreatWarningsAsErrors = p.cfg.Validation.WarningsAsErrors
	check := validation.NewValidatorWithOptions(opts).ValidateAll(source.Data)
	result.Issues = check.Errors
	vlog := logging.WithFields(ctx, "stage", "validate")
	for _, issue := range check.Errors {
		vlog.Warn("validation issue",
			"rule", issue.Rule,
			"field", issue.Field,
			"value", issue.Value,
			"po", issue.PONumber,
			"line", issue.LineNumber,
			"record", issue.RecordIndex,
		)
	}
	if !check.IsValid {
		vlog.Error("validation failed", "issues", len(check.Errors))
		return result, fmt.Errorf("%w: %d issue(s) in %s", ErrValidationFailed, len(check.Errors), inputs.POSource)
	}

	report, stats := Process(Input{
		Lines:   source.Data,
		Vendors: ingest.VendorIndex(vendors.Items),
		Terms:   terms,
		Paid:    paid,
	}, Options{
		Policy:     p.policy,
		Now:        p.now,
		DropFields: p.cfg.DropFields,
	})
	stats.ValidationIssues = len(check.Errors)
	stats.ProcessingTime = time.Since(start)

	result.Report = report
	result.Stats = stats
	logStats(logger, stats)
	return result, nil
}

func logStats(logger *slog.Logger, stats ProcessingStats) {
	logger.Info("run complete",
		"lines_read", stats.LinesRead,
		"records_written", stats.RecordsWritten,
		"merged_lines", stats.MergedLines,
		"filtered_lines", stats.FilteredLines,
		"pass_through_pos", stats.PassThroughPOs,
		"empty_term_records", stats.EmptyTermRecords,
		"undefined_term_pos", stats.UndefinedTermPOs,
		"erd_conflicts", stats.ERDConflicts,
		"validation_issues", stats.ValidationIssues,
		"duration", stats.ProcessingTime.String(),
	)
}

// String summarises the stats for the CLI.
func (s ProcessingStats) String() string {
	return fmt.Sprintf("%d lines -> %d records (%d merged, %d filtered, %d without term, %d ERD conflicts, %d warnings) in %s",
		s.LinesRead, s.RecordsWritten, s.MergedLines, s.FilteredLines,
		s.EmptyTermRecords, s.ERDConflicts, s.ValidationIssues, s.ProcessingTime.Round(time.Millisecond))
}
