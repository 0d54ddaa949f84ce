package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
)

const testUUID = "5a8ec2d1-55b4-4c0a-8a30-6e0a3d4ba4c1"

// attrs: минимальный блок атрибутов, чтобы не ловить предупреждение.
const attrs = "[uuid(" + testUUID + ")]"

func parseText(t *testing.T, src string) *Result {
	t.Helper()
	res, _ := ParseSource(context.Background(), "test.cdl", []byte(src), Options{})
	return res
}

func mustParse(t *testing.T, src string) *ast.Component {
	t.Helper()
	res := parseText(t, src)
	if !res.Success {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(res.Component.Diagnostics))
	}
	return res.Component
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func diagCodes(bag *diag.Bag) []diag.Code {
	items := bag.Items()
	out := make([]diag.Code, len(items))
	for i, d := range items {
		out[i] = d.Code
	}
	return out
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func findInterface(t *testing.T, c *ast.Component, name string) *ast.Interface {
	t.Helper()
	iid, ok := c.InterfaceOf(c.FindType(name, c.Global))
	if !ok {
		t.Fatalf("interface %s not found", name)
	}
	return c.Interface(iid)
}

func findEnum(t *testing.T, c *ast.Component, name string) *ast.Enumeration {
	t.Helper()
	eid, ok := c.EnumOf(c.FindType(name, c.Global))
	if !ok {
		t.Fatalf("enum %s not found", name)
	}
	return c.Enum(eid)
}
