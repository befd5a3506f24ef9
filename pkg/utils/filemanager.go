// =============================================================================
// PO Payment Schedule - File Management Utilities
// =============================================================================
//
// This package provides utility functions for file management operations:
//   - Creating the output and archive directories
//   - Generating output file names from a format string
//   - Writing JSON documents atomically
//   - Archiving the inputs of a successful run
//   - Writing the run summary log
//
// =============================================================================

package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArchiveDateLayout names the dated archive subdirectory.
const ArchiveDateLayout = "2006-01-02"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles the output and archive directories of a run.
type FileManager struct {
	// OutputDir receives final JSON, HTML, XLSX and log files.
	OutputDir string

	// ArchiveDir receives dated copies of the inputs.
	ArchiveDir string

	// Now is the clock used for archive subdirectories. Nil means time.Now.
	Now func() time.Time
}

// NewFileManager creates a new FileManager.
func NewFileManager(outputDir, archiveDir string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
	}
}

// EnsureDirectories creates the output and archive directories if they
// don't exist. Empty paths are skipped.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.OutputDir, fm.ArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// OutputPath joins a generated file name onto the output directory.
func (fm *FileManager) OutputPath(name string) string {
	return filepath.Join(fm.OutputDir, name)
}

// ArchiveInputFile copies an input file into ArchiveDir/<YYYY-MM-DD>/.
//
// PARAMETERS:
//   - filePath: The path to the input that was used by the run.
//
// RETURNS:
//   - The path to the archived copy.
//   - An error if archival fails.
//
// NOTE: Inputs are copied, not moved, so a rerun sees the same files.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	archivePath := fm.getArchivePath(filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy %s to archive: %w", filePath, err)
	}
	return archivePath, nil
}

// getArchivePath constructs the archive path for a file.
func (fm *FileManager) getArchivePath(filePath string) string {
	now := time.Now
	if fm.Now != nil {
		now = fm.Now
	}
	return filepath.Join(fm.ArchiveDir, now().Format(ArchiveDateLayout), filepath.Base(filePath))
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders of an output name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {date}      - Run date as Mon_D (e.g. Mar_5)
//     {timestamp} - Run time (YYYYMMDD_HHMMSS)
//     {uuid}      - A random UUID
//   - now: The run time.
//   - params: Extra placeholder values, keyed without braces.
//
// EXAMPLE:
//
//	format: "final_{date}.json"
//	output: "final_Mar_5.json"
func GenerateOutputFileName(format string, now time.Time, params map[string]string) string {
	replacements := map[string]string{
		"{date}":      DateStamp(now),
		"{timestamp}": now.Format("20060102_150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	if strings.Contains(result, "{uuid}") {
		result = strings.ReplaceAll(result, "{uuid}", uuid.New().String())
	}
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// DateStamp renders t as Mon_D ("Mar_5", "Mar_15").
func DateStamp(t time.Time) string {
	return t.Format("Jan") + "_" + strconv.Itoa(t.Day())
}

// =============================================================================
// JSON OUTPUT
// =============================================================================

// WriteJSON writes v as 2-space indented JSON. The document is written to a
// temporary file in the target directory and renamed into place.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return WriteFileAtomic(path, append(data, '\n'))
}

// WriteFileAtomic writes data through a temporary file and a rename.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about a processing run.
type RunSummary struct {
	RunID            string
	StartTime        time.Time
	EndTime          time.Time
	Inputs           []string
	Outputs          []string
	Archived         []string
	ValidationIssues int
	Stats            string
}

// WriteSummaryLog writes a run summary next to the outputs.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	summaryPath := filepath.Join(outputDir,
		fmt.Sprintf("processing_summary_%s.txt", summary.StartTime.Format("20060102_150405")))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	rule := strings.Repeat("=", 80) + "\n"

	fmt.Fprintf(writer, "PO Payment Schedule - Processing Summary\n%s\n", rule)
	fmt.Fprintf(writer, "Run Information:\n")
	fmt.Fprintf(writer, "  Run ID:         %s\n", summary.RunID)
	fmt.Fprintf(writer, "  Start Time:     %s\n", summary.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(writer, "  End Time:       %s\n", summary.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(writer, "  Duration:       %s\n\n", summary.EndTime.Sub(summary.StartTime))

	writeList(writer, "Inputs", summary.Inputs)
	writeList(writer, "Outputs", summary.Outputs)
	writeList(writer, "Archived", summary.Archived)

	fmt.Fprintf(writer, "Validation Issues: %d\n\n", summary.ValidationIssues)
	if summary.Stats != "" {
		fmt.Fprintf(writer, "Statistics:\n%s\n\n", summary.Stats)
	}
	fmt.Fprintf(writer, "%sEnd of Summary\n", rule)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}
	return summaryPath, nil
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
	fmt.Fprintln(w)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
