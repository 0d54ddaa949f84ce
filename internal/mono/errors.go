package mono

import "fmt"

// Error reports a specialization that could not be produced.
type Error struct {
	Signature string // "a::IList<Integer>"
	Reason    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot specialize %s: %s", e.Signature, e.Reason)
}
