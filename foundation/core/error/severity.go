// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors. The interpreter treats user
//              mistakes as low severity and broken internals as high severity,
//              which drives the log level a driver reports them with.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-14 v0.2.0: Severity mapping for pipeline codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a rejected statement, the session goes on
	SeverityLow Severity = iota

	// SeverityMedium indicates a failure that has a workaround
	SeverityMedium

	// SeverityHigh indicates an internal inconsistency in the pipeline
	SeverityHigh

	// SeverityCritical indicates the session cannot continue
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should be surfaced loudly
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the default severity for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeLexical, CodeParse, CodeDivisionByZero, CodeDuplicateVariable,
		CodeUndefinedVariable, CodeKindMismatch, CodeInvalidInput, CodeCanceled:
		return SeverityLow
	case CodeTree, CodeTranslation, CodeUnknownOpcode, CodeOperandCount,
		CodeOperandClass, CodeUnknownRegister, CodeInternal:
		return SeverityHigh
	case CodeConfigError, CodeInvalidConfig:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}
