package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"cdlc/internal/ast"
	"cdlc/internal/source"
)

// ComponentOutput: JSON-представление разобранного компонента.
type ComponentOutput struct {
	Path            string            `json:"path"`
	Files           []string          `json:"files"`
	Module          *ModuleOutput     `json:"module,omitempty"`
	Global          NamespaceOutput   `json:"global"`
	Specializations []InterfaceOutput `json:"specializations,omitempty"`
}

type ModuleOutput struct {
	Name    string `json:"name"`
	UUID    string `json:"uuid,omitempty"`
	Version string `json:"version,omitempty"`
}

type NamespaceOutput struct {
	Name       string            `json:"name"`
	Constants  []ConstantOutput  `json:"constants,omitempty"`
	Interfaces []InterfaceOutput `json:"interfaces,omitempty"`
	Enums      []EnumOutput      `json:"enums,omitempty"`
	Coclasses  []string          `json:"coclasses,omitempty"`
	Namespaces []NamespaceOutput `json:"namespaces,omitempty"`
}

type InterfaceOutput struct {
	Name        string           `json:"name"`
	UUID        string           `json:"uuid,omitempty"`
	Version     string           `json:"version,omitempty"`
	Description string           `json:"description,omitempty"`
	TypeParams  []string         `json:"type_params,omitempty"`
	Base        string           `json:"base,omitempty"`
	Generic     string           `json:"generic,omitempty"`
	TypeArgs    []string         `json:"type_args,omitempty"`
	Constants   []ConstantOutput `json:"constants,omitempty"`
	Methods     []MethodOutput   `json:"methods,omitempty"`
	Enums       []EnumOutput     `json:"enums,omitempty"`
}

type MethodOutput struct {
	Name   string        `json:"name"`
	Params []ParamOutput `json:"params"`
}

type ParamOutput struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Attrs []string `json:"attrs"`
}

type ConstantOutput struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

type EnumOutput struct {
	Name        string             `json:"name"`
	Enumerators []EnumeratorOutput `json:"enumerators"`
}

type EnumeratorOutput struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// BuildComponentOutput flattens the arenas into nested values.
func BuildComponentOutput(c *ast.Component, fs *source.FileSet) ComponentOutput {
	out := ComponentOutput{Path: c.Path, Global: buildNamespace(c, c.Global)}
	for _, id := range c.Files {
		if fs != nil {
			out.Files = append(out.Files, fs.Get(id).Path)
		}
	}
	if c.Module != nil {
		out.Module = &ModuleOutput{Name: c.Module.Name, UUID: c.Module.Attr.UUID, Version: c.Module.Attr.Version}
	}
	for _, e := range c.Pool.Entries() {
		if e.Err != nil {
			continue
		}
		out.Specializations = append(out.Specializations, buildInterface(c, e.Instance))
	}
	return out
}

// ComponentJSON writes BuildComponentOutput as indented JSON.
func ComponentJSON(w io.Writer, c *ast.Component, fs *source.FileSet) error {
	return encodeJSON(w, BuildComponentOutput(c, fs))
}

func buildNamespace(c *ast.Component, id ast.NamespaceID) NamespaceOutput {
	ns := c.Namespace(id)
	out := NamespaceOutput{Name: c.NamespacePath(id)}
	if out.Name == "" {
		out.Name = ast.GlobalNamespaceName
	}
	out.Constants = buildConstants(c, ns.Constants)
	for _, tid := range ns.Types {
		if iid, ok := c.InterfaceOf(tid); ok {
			if c.Interface(iid).Declared {
				out.Interfaces = append(out.Interfaces, buildInterface(c, iid))
			}
			continue
		}
		if eid, ok := c.EnumOf(tid); ok {
			out.Enums = append(out.Enums, buildEnum(c, eid))
		}
	}
	for _, ccid := range ns.Coclasses {
		out.Coclasses = append(out.Coclasses, c.Coclass(ccid).Name)
	}
	for _, child := range ns.Children {
		out.Namespaces = append(out.Namespaces, buildNamespace(c, child))
	}
	return out
}

func buildInterface(c *ast.Component, iid ast.InterfaceID) InterfaceOutput {
	it := c.Interface(iid)
	out := InterfaceOutput{
		Name:        c.Types.Label(it.Type),
		UUID:        it.UUID,
		Version:     it.Version,
		Description: it.Description,
		Constants:   buildConstants(c, it.Constants),
	}
	for _, p := range it.TypeParams {
		out.TypeParams = append(out.TypeParams, c.Types.Label(p))
	}
	if it.Base.IsValid() {
		out.Base = c.Types.Label(it.Base)
	}
	if it.IsSpecialization() {
		out.Generic = c.QualifiedName(it.Generic)
		for _, a := range it.TypeArgs {
			out.TypeArgs = append(out.TypeArgs, c.Types.Label(a))
		}
	}
	for _, mid := range it.Methods {
		m := c.Method(mid)
		mo := MethodOutput{Name: m.Name, Params: make([]ParamOutput, 0, len(m.Params))}
		for _, pid := range m.Params {
			p := c.Param(pid)
			mo.Params = append(mo.Params, ParamOutput{Name: p.Name, Type: c.Types.Label(p.Type), Attrs: paramAttrs(p.Attrs)})
		}
		out.Methods = append(out.Methods, mo)
	}
	if scope := c.Namespace(it.Scope); scope != nil {
		for _, tid := range scope.Types {
			if eid, ok := c.EnumOf(tid); ok {
				out.Enums = append(out.Enums, buildEnum(c, eid))
			}
		}
	}
	return out
}

func paramAttrs(a ast.ParamAttr) []string {
	attrs := []string{}
	for _, f := range []struct {
		bit  ast.ParamAttr
		name string
	}{{ast.ParamIn, "in"}, {ast.ParamOut, "out"}, {ast.ParamCallee, "callee"}} {
		if a.Has(f.bit) {
			attrs = append(attrs, f.name)
		}
	}
	return attrs
}

func buildConstants(c *ast.Component, ids []ast.ConstID) []ConstantOutput {
	var out []ConstantOutput
	for _, cid := range ids {
		k := c.Constant(cid)
		out = append(out, ConstantOutput{Name: k.Name, Type: c.Types.Label(k.Type), Value: k.Value.String()})
	}
	return out
}

func buildEnum(c *ast.Component, eid ast.EnumID) EnumOutput {
	e := c.Enum(eid)
	out := EnumOutput{Name: c.Types.Label(e.Type), Enumerators: make([]EnumeratorOutput, 0, len(e.Enumerators))}
	for _, en := range e.Enumerators {
		out.Enumerators = append(out.Enumerators, EnumeratorOutput{Name: en.Name, Value: en.Value})
	}
	return out
}

// ComponentPretty prints the component as a box-drawn tree:
//
//	Component main.cdl
//	└─ namespace __global__
//	   ├─ interface IFoo [uuid(...)]
//	   │  └─ method Bar(Integer)
func ComponentPretty(w io.Writer, c *ast.Component, fs *source.FileSet) error {
	out := BuildComponentOutput(c, fs)
	root := &treeNode{label: "Component " + out.Path}
	root.children = append(root.children, namespaceTree(out.Global))
	if out.Module != nil {
		root.children = append(root.children, &treeNode{label: fmt.Sprintf("module %s%s", out.Module.Name, attrSuffix(out.Module.UUID, out.Module.Version, ""))})
	}
	if len(out.Specializations) > 0 {
		spec := &treeNode{label: "specializations"}
		for _, it := range out.Specializations {
			spec.children = append(spec.children, interfaceTree(it))
		}
		root.children = append(root.children, spec)
	}
	var sb strings.Builder
	sb.WriteString(root.label + "\n")
	for i, child := range root.children {
		writeTree(&sb, child, "", i == len(root.children)-1)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

type treeNode struct {
	label    string
	children []*treeNode
}

func writeTree(sb *strings.Builder, n *treeNode, prefix string, last bool) {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	sb.WriteString(prefix + branch + n.label + "\n")
	for i, child := range n.children {
		writeTree(sb, child, prefix+next, i == len(n.children)-1)
	}
}

func namespaceTree(ns NamespaceOutput) *treeNode {
	node := &treeNode{label: "namespace " + ns.Name}
	node.children = append(node.children, constantNodes(ns.Constants)...)
	for _, it := range ns.Interfaces {
		node.children = append(node.children, interfaceTree(it))
	}
	for _, e := range ns.Enums {
		node.children = append(node.children, enumTree(e))
	}
	for _, cc := range ns.Coclasses {
		node.children = append(node.children, &treeNode{label: "coclass " + cc})
	}
	for _, child := range ns.Namespaces {
		node.children = append(node.children, namespaceTree(child))
	}
	return node
}

func interfaceTree(it InterfaceOutput) *treeNode {
	label := "interface " + it.Name
	if len(it.TypeParams) > 0 {
		label += "<" + strings.Join(it.TypeParams, ", ") + ">"
	}
	if it.Base != "" {
		label += " : " + it.Base
	}
	node := &treeNode{label: label + attrSuffix(it.UUID, it.Version, it.Description)}
	node.children = append(node.children, constantNodes(it.Constants)...)
	for _, m := range it.Methods {
		params := make([]string, len(m.Params))
		for i, p := range m.Params {
			params[i] = fmt.Sprintf("[%s] %s %s", strings.Join(p.Attrs, ", "), p.Type, p.Name)
		}
		node.children = append(node.children, &treeNode{label: fmt.Sprintf("method %s(%s)", m.Name, strings.Join(params, ", "))})
	}
	for _, e := range it.Enums {
		node.children = append(node.children, enumTree(e))
	}
	return node
}

func enumTree(e EnumOutput) *treeNode {
	node := &treeNode{label: "enum " + e.Name}
	for _, en := range e.Enumerators {
		node.children = append(node.children, &treeNode{label: fmt.Sprintf("%s = %d", en.Name, en.Value)})
	}
	return node
}

func constantNodes(consts []ConstantOutput) []*treeNode {
	nodes := make([]*treeNode, 0, len(consts))
	for _, k := range consts {
		nodes = append(nodes, &treeNode{label: fmt.Sprintf("const %s %s = %s", k.Type, k.Name, k.Value)})
	}
	return nodes
}

func attrSuffix(uuid, version, description string) string {
	a := ast.Attribute{UUID: uuid, Version: version, Description: description}
	if uuid == "" && version == "" && description == "" {
		return ""
	}
	return " " + a.String()
}
