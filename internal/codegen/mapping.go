// Package codegen emits host-language source text from a fully analyzed
// AST. It is a pure syntax mapping: every ambiguity and compatibility
// question was settled upstream, so an inability to emit a construct here
// is an internal contract violation, not a user error.
package codegen

import (
	"fmt"
	"strings"

	"github.com/cinder-lang/cinder/internal/ast"
)

// hostError is the boxed error side of the fallible sum type.
const hostError = "Box<dyn std::error::Error>"

// hostPrimitives is the fixed primitive mapping table. The source's
// generic integer and float keywords map to fixed-width host primitives;
// void maps to the unit type.
var hostPrimitives = map[ast.PrimitiveKind]string{
	ast.PrimInt:    "i32",
	ast.PrimUint:   "u32",
	ast.PrimLong:   "i64",
	ast.PrimUlong:  "u64",
	ast.PrimShort:  "i16",
	ast.PrimByte:   "u8",
	ast.PrimFloat:  "f32",
	ast.PrimDouble: "f64",
	ast.PrimBool:   "bool",
	ast.PrimChar:   "char",
	ast.PrimString: "String",
	ast.PrimVoid:   "()",
}

// hostType renders the host spelling of a type. Named types are resolved
// through the unit's environment first, so alias chains surface as their
// concrete targets in the output.
func (g *Generator) hostType(t ast.Type) string {
	return g.hostTypeResolved(g.env.ResolveType(t))
}

func (g *Generator) hostTypeResolved(t ast.Type) string {
	switch x := t.(type) {
	case *ast.PrimitiveType:
		if host, ok := hostPrimitives[x.Kind]; ok {
			return host
		}
		g.internalf("no host mapping for primitive %s", x.Kind)
		return ""
	case *ast.NamedType:
		return x.Name
	case *ast.PointerType:
		if x.Mutable {
			return "*mut " + g.hostTypeResolved(x.Inner)
		}
		return "*const " + g.hostTypeResolved(x.Inner)
	case *ast.ReferenceType:
		if x.Mutable {
			return "&mut " + g.hostTypeResolved(x.Inner)
		}
		return "&" + g.hostTypeResolved(x.Inner)
	case *ast.ArrayType:
		return fmt.Sprintf("[%s; %d]", g.hostTypeResolved(x.Inner), x.Size)
	case *ast.SliceType:
		return "&[" + g.hostTypeResolved(x.Inner) + "]"
	case *ast.TupleType:
		parts := make([]string, len(x.Elements))
		for i, el := range x.Elements {
			parts[i] = g.hostTypeResolved(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.GenericType:
		parts := make([]string, len(x.Args))
		for i, arg := range x.Args {
			parts[i] = g.hostTypeResolved(arg)
		}
		return x.Base + "<" + strings.Join(parts, ", ") + ">"
	case *ast.FunctionType:
		parts := make([]string, len(x.Params))
		for i, pt := range x.Params {
			parts[i] = g.hostTypeResolved(pt)
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + g.hostTypeResolved(x.Return)
	case *ast.FallibleType:
		return "Result<" + g.hostTypeResolved(x.Inner) + ", " + hostError + ">"
	default:
		g.internalf("no host mapping for type %T", t)
		return ""
	}
}

// hostMacroName strips the double delimiters and appends the host macro
// marker: `__println__` becomes `println!`.
func hostMacroName(name string) string {
	return strings.TrimSuffix(strings.TrimPrefix(name, "__"), "__") + "!"
}

// hostVisibility maps the inverted visibility polarity: absence of the
// restricted storage class means host-public.
func hostVisibility(v ast.Visibility) string {
	if v == ast.Restricted {
		return ""
	}
	return "pub "
}

// implTarget renders the merged host target of an impl block: the alias
// chain behind the block's target name, fully resolved.
func (g *Generator) implTarget(name string) string {
	return g.hostType(&ast.NamedType{Name: name})
}
