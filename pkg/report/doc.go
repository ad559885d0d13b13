// Package report renders a diff.Result as a human-readable text report.
package report
