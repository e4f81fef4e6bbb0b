// Package sasmerr defines the single error type surfaced by every stage
// of the SASM translation pipeline.
package sasmerr

import (
	"fmt"
)

// Kind categorizes the type of translation failure. The string values
// returned by Error() are part of the user-visible contract and must not
// change without a corresponding spec update.
type Kind int

const (
	DuplicateConstant Kind = iota
	DuplicateLabel
	DuplicateExtern
	ShadowedConstant
	BadAddress
	BadOperandCombination
	BadImmediate
	UnknownMnemonic
	BadExternSyntax
	BadLocalSyntax
	BadLabelName
	BadDataDirective
)

func (k Kind) String() string {
	switch k {
	case DuplicateConstant:
		return "DuplicateConstant"
	case DuplicateLabel:
		return "DuplicateLabel"
	case DuplicateExtern:
		return "DuplicateExtern"
	case ShadowedConstant:
		return "ShadowedConstant"
	case BadAddress:
		return "BadAddress"
	case BadOperandCombination:
		return "BadOperandCombination"
	case BadImmediate:
		return "BadImmediate"
	case UnknownMnemonic:
		return "UnknownMnemonic"
	case BadExternSyntax:
		return "BadExternSyntax"
	case BadLocalSyntax:
		return "BadLocalSyntax"
	case BadLabelName:
		return "BadLabelName"
	case BadDataDirective:
		return "BadDataDirective"
	default:
		return "UnknownError"
	}
}

// TranslationError is the single error type surfaced by the pipeline.
// Reason is either the offending source line (preprocessor/expander/label
// errors) or the instruction record being encoded (encoder errors).
type TranslationError struct {
	Kind    Kind
	Message string
	Reason  any
}

// New creates a TranslationError with no reason attached yet.
func New(kind Kind, message string) *TranslationError {
	return &TranslationError{Kind: kind, Message: message}
}

// Newf creates a TranslationError with a formatted message.
func Newf(kind Kind, format string, args ...any) *TranslationError {
	return &TranslationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithReason attaches a reason if one isn't already set, and returns the
// receiver. Encoder code uses this to attach the instruction record only
// when a nested parser hasn't already set a more specific reason.
func (e *TranslationError) WithReason(reason any) *TranslationError {
	if e.Reason == nil {
		e.Reason = reason
	}
	return e
}

func (e *TranslationError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%s: %s (in: %v)", e.Kind, e.Message, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrorList collects non-fatal warnings produced outside the fail-fast
// translation path (e.g. unused-constant diagnostics emitted by tooling
// built on top of the translator).
type ErrorList struct {
	Warnings []string
}

// AddWarning appends a warning message.
func (el *ErrorList) AddWarning(msg string) {
	el.Warnings = append(el.Warnings, msg)
}

// HasWarnings reports whether any warnings were recorded.
func (el *ErrorList) HasWarnings() bool {
	return len(el.Warnings) > 0
}
