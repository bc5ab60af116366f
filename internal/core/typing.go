package core

// typing.go applies a category's semantic types to a frame.
//
// The flow is:
//  1. Check every typed column and collect the distinct values that do not fit
//  2. If remediation is enabled and something did not fit, remediate those
//     columns and check again
//  3. Fail with a ValidationError if anything still does not fit
//  4. Convert every typed column to its canonical cell kind

import (
	"log/slog"
	"strings"

	"github.com/JonMunkholm/filety/internal/frame"
)

// ColumnSpec binds a column name to its semantic type.
type ColumnSpec struct {
	Name string
	Type SemanticType
}

// TypingReport records what the typing pass found and did.
type TypingReport struct {
	Inconsistent []ColumnIssue `json:"inconsistent,omitempty"` // before remediation
	Remediated   []string      `json:"remediated,omitempty"`   // columns rewritten by remediation
	Remaining    []ColumnIssue `json:"remaining,omitempty"`    // after remediation
}

// inconsistencies returns, per column, the distinct raw values that fail
// the column's type, in order of first appearance.
func inconsistencies(f frame.Frame, specs []ColumnSpec) []ColumnIssue {
	var issues []ColumnIssue
	for _, spec := range specs {
		cells, ok := f.Column(spec.Name)
		if !ok {
			continue
		}
		var values []string
		seen := make(map[string]bool)
		for _, c := range cells {
			if spec.Type.IsConsistent(c) {
				continue
			}
			v := c.String()
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			issues = append(issues, ColumnIssue{Column: spec.Name, Type: spec.Type.String(), Values: values})
		}
	}
	return issues
}

// TypeColumns checks, optionally remediates, and converts the typed columns
// of f. Columns of f without a spec are left as they are.
func TypeColumns(f frame.Frame, specs []ColumnSpec, remediate bool, logger *slog.Logger) (frame.Frame, TypingReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	byName := make(map[string]SemanticType, len(specs))
	for _, s := range specs {
		byName[s.Name] = s.Type
	}

	var report TypingReport
	issues := inconsistencies(f, specs)
	report.Inconsistent = issues
	logIssues(logger, issues)

	if remediate && len(issues) > 0 {
		plan := make([]string, len(issues))
		for i, is := range issues {
			plan[i] = "values in \"" + is.Column + "\" " + byName[is.Column].RemediationDescription()
		}
		logger.Info("attempting remediation", "plan", strings.Join(plan, "; "))

		var err error
		for _, is := range issues {
			f, err = f.Map(is.Column, byName[is.Column].Remediate)
			if err != nil {
				return frame.Frame{}, report, err
			}
			report.Remediated = append(report.Remediated, is.Column)
		}
		issues = inconsistencies(f, specs)
		report.Remaining = issues
		logIssues(logger, issues)
	} else {
		report.Remaining = issues
	}

	if len(issues) > 0 {
		return frame.Frame{}, report, &ValidationError{
			Message: "unable to set column types: values not consistent with column types",
			Columns: issues,
		}
	}

	for _, spec := range specs {
		cells, ok := f.Column(spec.Name)
		if !ok {
			continue
		}
		var bad []string
		for r, c := range cells {
			conv, err := spec.Type.Convert(c)
			if err != nil {
				bad = append(bad, c.String())
				continue
			}
			cells[r] = conv
		}
		if len(bad) > 0 {
			return frame.Frame{}, report, &ValidationError{
				Message: "unable to convert values: values not consistent with column types",
				Columns: []ColumnIssue{{Column: spec.Name, Type: spec.Type.String(), Values: bad}},
			}
		}
		var err error
		if f, err = f.WithColumn(spec.Name, cells); err != nil {
			return frame.Frame{}, report, err
		}
	}
	return f, report, nil
}

func logIssues(logger *slog.Logger, issues []ColumnIssue) {
	for _, is := range issues {
		logger.Warn("values not suitable for column type",
			"column", is.Column,
			"type", is.Type,
			"values", quoteAll(is.Values),
		)
	}
}
