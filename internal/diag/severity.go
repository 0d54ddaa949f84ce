package diag

// Severity defines the importance of a diagnostic. Both levels fail a parse;
// warnings are style problems such as missing attributes.
type Severity uint8

const (
	SevWarning Severity = iota + 1
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
