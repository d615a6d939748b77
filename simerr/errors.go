// Package simerr defines the sentinel error taxonomy for the simulation
// kernel (spec.md §7) and the Ensure helper for fatal contract violations,
// which are programming errors rather than runtime failures and therefore
// panic instead of returning an error value.
package simerr

import (
	"errors"
	"fmt"
)

// Allocation errors.
var (
	ErrArenaFull             = errors.New("simerr: arena: not enough memory")
	ErrMessagePoolExhausted  = errors.New("simerr: message pool: not enough memory")
	ErrMessageListExhausted  = errors.New("simerr: message list allocator: not enough memory")
)

// Topology errors.
var (
	ErrConnectionExists  = errors.New("simerr: connection: already exists")
	ErrUnknownModel      = errors.New("simerr: topology: unknown model")
	ErrUnknownPort       = errors.New("simerr: topology: unknown port")
	ErrPortOutOfRange    = errors.New("simerr: topology: port index out of range")
)

// Numerics errors.
var (
	ErrNonFiniteQuantum = errors.New("simerr: numerics: non-finite quantum")
	ErrNaNThreshold     = errors.New("simerr: numerics: NaN threshold")
)

// IO errors.
var (
	ErrOpen   = errors.New("simerr: io: open failed")
	ErrRead   = errors.New("simerr: io: read failed")
	ErrWrite  = errors.New("simerr: io: write failed")
	ErrFormat = errors.New("simerr: io: malformed payload")
	ErrHeader = errors.New("simerr: io: malformed header")

	ErrUnknownModelKind = errors.New("simerr: io: unknown model kind")
	ErrUnknownModelPort = errors.New("simerr: io: unknown model port")
)

// Source errors.
var (
	ErrSourcePrepareFailed = errors.New("simerr: source: prepare failed")
	ErrSourceExhausted     = errors.New("simerr: source: stream exhausted")
)

// Embedded-simulation errors.
var (
	ErrEmbeddedSimulationInit     = errors.New("simerr: embedded simulation: init failed")
	ErrEmbeddedSimulationRun      = errors.New("simerr: embedded simulation: run failed")
	ErrEmbeddedSimulationFinalize = errors.New("simerr: embedded simulation: finalize failed")
)

// ContractViolation is the panic payload raised by Ensure. It is never meant
// to be recovered from in production code: it signals a handler broke an
// invariant the driver relies on (e.g. dispatching from inside an HSM
// handler, or re-entering Step).
type ContractViolation struct {
	Message string
}

func (e *ContractViolation) Error() string { return "simerr: contract violation: " + e.Message }

// Ensure panics with a *ContractViolation if cond is false. It exists to
// make programmer-error invariants (as opposed to recoverable runtime
// failures) loud and typed, mirroring the original's irt_assert.
func Ensure(cond bool, format string, args ...any) {
	if !cond {
		panic(&ContractViolation{Message: fmt.Sprintf(format, args...)})
	}
}
