package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/token"
	"cdlc/internal/types"
)

// Приоритеты бинарных операторов, как в C: | < ^ < & < сдвиги < +- < */%.
var binaryPrec = map[token.Kind]int{
	token.Pipe:    1,
	token.Caret:   2,
	token.Amp:     3,
	token.Shl:     4,
	token.Shr:     4,
	token.Plus:    5,
	token.Minus:   5,
	token.Star:    6,
	token.Slash:   6,
	token.Percent: 6,
}

// parseConstExpr evaluates a constant initializer. Names resolve to earlier
// enumerators first, then to earlier constants visible from scope.
func (p *Parser) parseConstExpr(scope ast.NamespaceID) (ast.ConstValue, bool) {
	return p.parseBinary(scope, 1)
}

func (p *Parser) parseBinary(scope ast.NamespaceID, minPrec int) (ast.ConstValue, bool) {
	lhs, ok := p.parseUnary(scope)
	if !ok {
		return ast.ConstValue{}, false
	}
	for {
		op := p.peek()
		prec, isOp := binaryPrec[op.Kind]
		if !isOp || prec < minPrec {
			return lhs, true
		}
		p.next()
		rhs, ok := p.parseBinary(scope, prec+1)
		if !ok {
			return ast.ConstValue{}, false
		}
		if lhs, ok = p.applyBinary(op, lhs, rhs); !ok {
			return ast.ConstValue{}, false
		}
	}
}

func (p *Parser) parseUnary(scope ast.NamespaceID) (ast.ConstValue, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Minus, token.Plus, token.Tilde:
		p.next()
		v, ok := p.parseUnary(scope)
		if !ok {
			return v, false
		}
		return p.applyUnary(tok, v)
	default:
		return p.parsePrimary(scope)
	}
}

func (p *Parser) parsePrimary(scope ast.NamespaceID) (ast.ConstValue, bool) {
	tok := p.next()
	switch tok.Kind {
	case token.IntLit:
		return p.intLiteral(tok)
	case token.FloatLit:
		f, err := strconv.ParseFloat(strings.TrimRight(tok.Text, "fFdD"), 64)
		if err != nil {
			p.errorAt(diag.LexBadNumber, tok, fmt.Sprintf("Invalid number %s.", tok.Text))
			return ast.ConstValue{}, false
		}
		return ast.ConstValue{Kind: ast.ConstFloat, Float: f}, true
	case token.StringLit:
		s, err := strconv.Unquote(tok.Text)
		if err != nil {
			p.errorAt(diag.SynExpectString, tok, fmt.Sprintf("Invalid string literal %s.", tok.Text))
			return ast.ConstValue{}, false
		}
		return ast.ConstValue{Kind: ast.ConstString, Str: s}, true
	case token.CharLit:
		s, err := strconv.Unquote(tok.Text)
		r, size := utf8.DecodeRuneInString(s)
		if err != nil || size != len(s) || r == utf8.RuneError {
			p.errorAt(diag.SynExpectExpression, tok, fmt.Sprintf("Invalid character literal %s.", tok.Text))
			return ast.ConstValue{}, false
		}
		return ast.ConstValue{Kind: ast.ConstChar, Int: int64(r)}, true
	case token.KwTrue, token.KwFalse:
		return ast.ConstValue{Kind: ast.ConstBool, Bool: tok.Kind == token.KwTrue}, true
	case token.LParen:
		v, ok := p.parseConstExpr(scope)
		if !ok {
			return v, false
		}
		if _, ok := p.expect(token.RParen, diag.SynExpectRParen, `")" is expected.`); !ok {
			return ast.ConstValue{}, false
		}
		return v, true
	case token.Ident:
		name, ok := p.parseQualifiedRest(tok)
		if !ok {
			return ast.ConstValue{}, false
		}
		return p.constName(tok, name, scope)
	default:
		p.unget(tok)
		p.errorAt(diag.SynExpectExpression, tok, "Constant expression is expected.")
		return ast.ConstValue{}, false
	}
}

func (p *Parser) intLiteral(tok token.Token) (ast.ConstValue, bool) {
	text := strings.TrimRight(tok.Text, "lL")
	if n, err := strconv.ParseInt(text, 0, 64); err == nil {
		return ast.ConstValue{Kind: ast.ConstInt, Int: n}, true
	}
	// 0xFFFFFFFFFFFFFFFF и подобные: битовый образ int64
	u, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		p.errorAt(diag.LexBadNumber, tok, fmt.Sprintf("Invalid number %s.", tok.Text))
		return ast.ConstValue{}, false
	}
	return ast.ConstValue{Kind: ast.ConstInt, Int: int64(u)}, true //nolint:gosec // two's complement on purpose
}

func (p *Parser) constName(tok token.Token, name string, scope ast.NamespaceID) (ast.ConstValue, bool) {
	if en, eid, ok := p.c.LookupEnumerator(name, scope); ok {
		return ast.ConstValue{Kind: ast.ConstEnum, Int: en.Value, Enum: eid, Name: en.Name}, true
	}
	if cid, ok := p.c.LookupConstant(name, scope); ok {
		return p.c.Constant(cid).Value, true
	}
	p.errorAt(diag.SemaConstUndefined, tok, fmt.Sprintf("%q was not declared in this scope.", name))
	return ast.ConstValue{}, false
}

func isIntegral(v ast.ConstValue) bool {
	return v.Kind == ast.ConstInt || v.Kind == ast.ConstChar || v.Kind == ast.ConstEnum
}

func intVal(n int64) ast.ConstValue { return ast.ConstValue{Kind: ast.ConstInt, Int: n} }

func (p *Parser) applyUnary(op token.Token, v ast.ConstValue) (ast.ConstValue, bool) {
	switch {
	case isIntegral(v):
		switch op.Kind {
		case token.Minus:
			return intVal(-v.Int), true
		case token.Tilde:
			return intVal(^v.Int), true
		default:
			return intVal(v.Int), true
		}
	case v.Kind == ast.ConstFloat && op.Kind != token.Tilde:
		if op.Kind == token.Minus {
			v.Float = -v.Float
		}
		return v, true
	}
	p.errorAt(diag.SemaConstTypeMismatch, op, fmt.Sprintf("Operator %s cannot be applied to %s.", op.Text, v))
	return ast.ConstValue{}, false
}

func (p *Parser) applyBinary(op token.Token, a, b ast.ConstValue) (ast.ConstValue, bool) {
	if isIntegral(a) && isIntegral(b) {
		return p.intBinary(op, a.Int, b.Int)
	}
	if (a.Kind == ast.ConstFloat || isIntegral(a)) && (b.Kind == ast.ConstFloat || isIntegral(b)) {
		x, y := toFloat(a), toFloat(b)
		switch op.Kind {
		case token.Plus:
			return ast.ConstValue{Kind: ast.ConstFloat, Float: x + y}, true
		case token.Minus:
			return ast.ConstValue{Kind: ast.ConstFloat, Float: x - y}, true
		case token.Star:
			return ast.ConstValue{Kind: ast.ConstFloat, Float: x * y}, true
		case token.Slash:
			if y == 0 {
				p.errorAt(diag.SemaConstDivByZero, op, "Division by zero.")
				return ast.ConstValue{}, false
			}
			return ast.ConstValue{Kind: ast.ConstFloat, Float: x / y}, true
		}
	}
	p.errorAt(diag.SemaConstTypeMismatch, op, fmt.Sprintf("Operator %s cannot be applied to %s and %s.", op.Text, a, b))
	return ast.ConstValue{}, false
}

func (p *Parser) intBinary(op token.Token, x, y int64) (ast.ConstValue, bool) {
	switch op.Kind {
	case token.Plus:
		return intVal(x + y), true
	case token.Minus:
		return intVal(x - y), true
	case token.Star:
		return intVal(x * y), true
	case token.Slash, token.Percent:
		if y == 0 {
			p.errorAt(diag.SemaConstDivByZero, op, "Division by zero.")
			return ast.ConstValue{}, false
		}
		if op.Kind == token.Slash {
			return intVal(x / y), true
		}
		return intVal(x % y), true
	case token.Shl, token.Shr:
		n, err := safecast.Conv[uint8](y)
		if err != nil || n >= 64 {
			p.errorAt(diag.SemaConstTypeMismatch, op, fmt.Sprintf("Invalid shift count %d.", y))
			return ast.ConstValue{}, false
		}
		if op.Kind == token.Shl {
			return intVal(x << n), true
		}
		return intVal(x >> n), true
	case token.Amp:
		return intVal(x & y), true
	case token.Pipe:
		return intVal(x | y), true
	case token.Caret:
		return intVal(x ^ y), true
	}
	return ast.ConstValue{}, false
}

func toFloat(v ast.ConstValue) float64 {
	if v.Kind == ast.ConstFloat {
		return v.Float
	}
	return float64(v.Int)
}

// convertConst checks v against the declared type and returns it in the form
// stored on the constant.
func (p *Parser) convertConst(v ast.ConstValue, typ types.TypeID) (ast.ConstValue, bool) {
	tt := p.c.Types.MustLookup(typ)
	if tt.Kind == types.KindEnum {
		eid, ok := p.c.EnumOf(typ)
		return v, ok && v.Kind == ast.ConstEnum && v.Enum == eid
	}
	if tt.Kind != types.KindPrimitive {
		return v, false
	}
	switch tt.Prim {
	case types.PrimBoolean:
		return v, v.Kind == ast.ConstBool
	case types.PrimString:
		return v, v.Kind == ast.ConstString
	case types.PrimFloat, types.PrimDouble:
		if isIntegral(v) || v.Kind == ast.ConstFloat {
			f := toFloat(v)
			if tt.Prim == types.PrimFloat && math.Abs(f) > math.MaxFloat32 {
				return v, false
			}
			return ast.ConstValue{Kind: ast.ConstFloat, Float: f}, true
		}
		return v, false
	}
	if !isIntegral(v) {
		return v, false
	}
	var err error
	switch tt.Prim {
	case types.PrimByte:
		_, err = safecast.Conv[uint8](v.Int)
	case types.PrimShort:
		_, err = safecast.Conv[int16](v.Int)
	case types.PrimInteger, types.PrimECode, types.PrimChar:
		_, err = safecast.Conv[int32](v.Int)
	}
	if err != nil {
		return v, false
	}
	if tt.Prim == types.PrimChar {
		return ast.ConstValue{Kind: ast.ConstChar, Int: v.Int}, true
	}
	return intVal(v.Int), true
}
