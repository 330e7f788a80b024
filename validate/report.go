package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// CheckResult is the outcome of a single validation check. Details carries
// one line per observation, empty for checks with nothing to report.
type CheckResult struct {
	Name    string   `json:"name"`
	Passed  bool     `json:"passed"`
	Details []string `json:"details"`
}

// Report is the full outcome of validating one generated package against
// its source document. Issues are defects that make the output unusable or
// wrong; warnings note degradations that a reader may still accept.
// OverallStatus is true exactly when no issues were found.
type Report struct {
	Timestamp     time.Time     `json:"timestamp"`
	SourcePath    string        `json:"sourcePath"`
	OutputPath    string        `json:"outputPath"`
	Checks        []CheckResult `json:"checks"`
	Issues        []string      `json:"issues"`
	Warnings      []string      `json:"warnings"`
	OverallStatus bool          `json:"overallStatus"`
}

func (r *Report) addCheck(name string, passed bool, details ...string) {
	r.Checks = append(r.Checks, CheckResult{
		Name:    name,
		Passed:  passed,
		Details: append([]string{}, details...),
	})
}

func (r *Report) addIssue(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

func (r *Report) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// finalize derives the overall status from the collected issues.
func (r *Report) finalize() *Report {
	r.OverallStatus = len(r.Issues) == 0
	return r
}

// Save writes the report as indented JSON.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("validate: marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("validate: write report: %w", err)
	}
	return nil
}
