package ast

import (
	"strings"

	"cdlc/internal/source"
	"cdlc/internal/types"
)

// ParamAttr is the direction bit-set of a parameter.
type ParamAttr uint8

const (
	ParamIn ParamAttr = 1 << iota
	ParamOut
	// ParamCallee marks an out parameter whose storage the callee allocates.
	ParamCallee
)

// Has reports whether every bit of f is set.
func (a ParamAttr) Has(f ParamAttr) bool { return a&f == f }

func (a ParamAttr) String() string {
	var parts []string
	if a.Has(ParamIn) {
		parts = append(parts, "in")
	}
	if a.Has(ParamOut) {
		parts = append(parts, "out")
	}
	if a.Has(ParamCallee) {
		parts = append(parts, "callee")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Method has no explicit return type: failure is signalled through a status code.
type Method struct {
	Name      string
	Params    []ParamID
	Signature string // "(Integer,Integer*)"
	Span      source.Span
}

type Parameter struct {
	Name  string
	Type  types.TypeID
	Attrs ParamAttr
	Span  source.Span
}

func (c *Component) Method(id MethodID) *Method {
	return c.Methods.Get(uint32(id))
}

func (c *Component) Param(id ParamID) *Parameter {
	return c.Params.Get(uint32(id))
}

// MethodSignature renders the parameter type list used to tell overloads apart.
func MethodSignature(tbl *types.Table, params []types.TypeID) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(tbl.Signature(p))
	}
	sb.WriteByte(')')
	return sb.String()
}
