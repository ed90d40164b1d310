// Package log defines the diagnostic hook every distributed primitive
// accepts, rather than hard-wiring a structured-logging library: none
// of the teacher's kept files import one, so callers wire in whatever
// the surrounding prover already uses.
package log

// Logger is the minimal diagnostic sink pkg/transport and
// pkg/primitives accept. A nil Logger is never passed around; callers
// that don't care use Nop.
type Logger interface {
	Debugf(format string, args ...any)
}

// Nop discards every message. The zero value is ready to use.
type Nop struct{}

func (Nop) Debugf(string, ...any) {}

// Default is the package-level no-op Logger, convenient as a field
// initializer.
var Default Logger = Nop{}
