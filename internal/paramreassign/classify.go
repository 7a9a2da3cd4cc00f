package paramreassign

import "paramcheck/internal/scope"

// Classification is the verdict on a single reference.
type Classification int

const (
	ClassInit  Classification = iota // the binding's own initialisation, never reported
	ClassWrite                       // rebinds the variable
	ClassRead                        // reads the current value
)

func (c Classification) String() string {
	switch c {
	case ClassInit:
		return "init"
	case ClassWrite:
		return "write"
	default:
		return "read"
	}
}

// Classify reports what ref does to its variable. Read-write references
// such as `a += 1` count as writes.
func Classify(ref *scope.Reference) Classification {
	switch {
	case ref.Init:
		return ClassInit
	case ref.IsWrite():
		return ClassWrite
	default:
		return ClassRead
	}
}
