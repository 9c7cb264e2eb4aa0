package analyzer

// Type is the inferred type of a variable. It is fixed at first declaration.
type Type int

const (
	Numeric Type = iota
	String
)

func (t Type) Name() string {
	switch t {
	case Numeric:
		return "numeric"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

func (t Type) String() string { return t.Name() }

func (t Type) Equals(other Type) bool {
	return t == other
}
