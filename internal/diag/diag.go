// Package diag provides the structured diagnostics raised by the linker.
// All error codes follow a consistent taxonomy so that drivers and tests can
// match on codes rather than message text.
package diag

import (
	"fmt"
	"strings"
)

// Error code constants organized by phase.
const (
	// ============================================================================
	// Program space errors (SPC###)
	// ============================================================================

	// DuplicateDefinition indicates the same local name defined twice in a module
	DuplicateDefinition = "SPC001"

	// AmbiguousExport indicates the same symbol exported by two or more modules
	AmbiguousExport = "SPC002"

	// UnknownModule indicates an import referring to a module that is not loaded
	UnknownModule = "SPC003"

	// NotExported indicates an import referring to an unexported symbol
	NotExported = "SPC004"

	// NoSuchSymbol indicates an import referencing neither a term nor a type
	NoSuchSymbol = "SPC005"

	// DuplicateImport indicates the same alias imported twice in one module
	DuplicateImport = "SPC006"

	// ============================================================================
	// Resolver errors (RES###)
	// ============================================================================

	// UnresolvedSymbol indicates a free reference that matched neither the
	// import environment, nor a local definition, nor the export index
	UnresolvedSymbol = "RES001"

	// UnresolvableCycle indicates SCC iteration exceeded the pass cap without
	// reaching a stable hash
	UnresolvableCycle = "RES002"

	// TypeResolutionCap indicates type-reference iteration hit its cap with
	// unresolved references remaining
	TypeResolutionCap = "RES003"

	// DataMalformed indicates a data declaration with no constructors,
	// duplicate names, or a constructor clashing with the type name
	DataMalformed = "RES004"

	// ============================================================================
	// Link driver errors (LNK###)
	// ============================================================================

	// NoMain indicates no module exports main
	NoMain = "LNK001"

	// AmbiguousMain indicates more than one module exports main
	AmbiguousMain = "LNK002"

	// MainIsType indicates the entry point resolves to a type alias
	MainIsType = "LNK003"

	// LoweringCap indicates the ladder did not reach a combinator definition
	// within the bounded number of steps
	LoweringCap = "LNK004"
)

// LinkError is a structured diagnostic. Every linker failure surfaces as one
// LinkError and terminates the link.
type LinkError struct {
	Code       string   // Error code (e.g. SPC002)
	Message    string   // Human-readable message
	Module     string   // Module the error originates in, if any
	Symbol     string   // Symbol involved, if any
	Candidates []string // Candidate providers for unresolved symbols
}

func (e *LinkError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Candidates) > 0 {
		msg += fmt.Sprintf(" (candidates: %s)", strings.Join(e.Candidates, ", "))
	}
	return msg
}

// Errorf builds a LinkError with a formatted message.
func Errorf(code string, format string, args ...any) *LinkError {
	return &LinkError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the diagnostic code carried by err, or "" if err is not a
// LinkError.
func CodeOf(err error) string {
	if le, ok := err.(*LinkError); ok {
		return le.Code
	}
	return ""
}
