package stats

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-stats/internal/errors"
)

// Operation is the kind of a modifier. Operations are applied in ascending
// numeric order, so the values double as evaluation priority.
type Operation int8

// Supported operations
const (
	OpAdd Operation = iota + 1
	OpPercent
	OpMultiply
)

const numOperations = 3

// Operations returns all operations in evaluation order
func Operations() []Operation {
	return []Operation{OpAdd, OpPercent, OpMultiply}
}

// Valid reports whether o is one of the supported operations
func (o Operation) Valid() bool {
	return o >= OpAdd && o <= OpMultiply
}

func (o Operation) index() int {
	return int(o) - 1
}

// String returns the lower-case name of the operation
func (o Operation) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpPercent:
		return "percent"
	case OpMultiply:
		return "multiply"
	default:
		return fmt.Sprintf("Operation(%d)", int8(o))
	}
}

// ParseOperation converts a case-insensitive operation name into an Operation
func ParseOperation(name string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "add":
		return OpAdd, nil
	case "percent":
		return OpPercent, nil
	case "multiply":
		return OpMultiply, nil
	default:
		return 0, errors.InvalidArgumentf("unknown operation %q (expected add, percent or multiply)", name)
	}
}
