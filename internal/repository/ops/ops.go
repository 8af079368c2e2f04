package ops

// Comparison operators understood by every database.Client implementation.
const (
	Equal        = "=="
	NotEqual     = "!="
	Greater      = ">"
	GreaterEqual = ">="
	Less         = "<"
	LessEqual    = "<="
)
