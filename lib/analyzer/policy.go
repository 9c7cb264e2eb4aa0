package analyzer

import "fmt"

// Policy decides what happens when a questionable construct is found.
type Policy int

const (
	// Allow accepts the construct silently.
	Allow Policy = iota
	// Warn accepts the construct and records a diagnostic.
	Warn
	// Fail rejects the whole translation.
	Fail
)

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "allow":
		return Allow, nil
	case "warn":
		return Warn, nil
	case "error":
		return Fail, nil
	}
	return Allow, fmt.Errorf("unknown policy %q (want allow, warn or error)", s)
}

func (p Policy) String() string {
	switch p {
	case Allow:
		return "allow"
	case Warn:
		return "warn"
	case Fail:
		return "error"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// DefaultBufferSize is the capacity of a buffer allocated for INPUT.
const DefaultBufferSize = 50

type Options struct {
	BufferSize    int
	Labels        Policy
	Redeclaration Policy
	TypeDrift     Policy
}

func DefaultOptions() Options {
	return Options{
		BufferSize:    DefaultBufferSize,
		Labels:        Fail,
		Redeclaration: Allow,
		TypeDrift:     Warn,
	}
}
