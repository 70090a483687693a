// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across the interpreter pipeline.
//              Every stage owns one top-level code; the engine additionally
//              distinguishes each violated instruction contract.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-14 v0.2.0: Pipeline stage codes and engine contract codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeCanceled     Code = "CANCELED"

	// Pipeline stages
	CodeLexical     Code = "LEXICAL"
	CodeTree        Code = "TREE"
	CodeParse       Code = "PARSE"
	CodeTranslation Code = "TRANSLATION"
	CodeExecution   Code = "EXECUTION"

	// Engine contracts
	CodeUnknownOpcode     Code = "UNKNOWN_OPCODE"
	CodeOperandCount      Code = "OPERAND_COUNT"
	CodeOperandClass      Code = "OPERAND_CLASS"
	CodeUnknownRegister   Code = "UNKNOWN_REGISTER"
	CodeDivisionByZero    Code = "DIVISION_BY_ZERO"
	CodeDuplicateVariable Code = "DUPLICATE_VARIABLE"
	CodeUndefinedVariable Code = "UNDEFINED_VARIABLE"
	CodeKindMismatch      Code = "KIND_MISMATCH"

	// Configuration and storage
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"
	CodeHistoryError  Code = "HISTORY_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeInvalidInput, CodeCanceled,
		CodeLexical, CodeTree, CodeParse, CodeTranslation, CodeExecution,
		CodeUnknownOpcode, CodeOperandCount, CodeOperandClass, CodeUnknownRegister,
		CodeDivisionByZero, CodeDuplicateVariable, CodeUndefinedVariable, CodeKindMismatch,
		CodeConfigError, CodeInvalidConfig, CodeHistoryError:
		return true
	default:
		return false
	}
}

// Category returns the pipeline stage or layer a code belongs to
func (c Code) Category() string {
	switch c {
	case CodeLexical:
		return "lexical"
	case CodeTree:
		return "tree"
	case CodeParse:
		return "parse"
	case CodeTranslation:
		return "translation"
	case CodeExecution, CodeUnknownOpcode, CodeOperandCount, CodeOperandClass, CodeUnknownRegister,
		CodeDivisionByZero, CodeDuplicateVariable, CodeUndefinedVariable, CodeKindMismatch:
		return "execution"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeHistoryError:
		return "history"
	default:
		return "generic"
	}
}
