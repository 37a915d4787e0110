package schema

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// Classify turns a //validgen:validator payload into a Validator.
//
// The payload is tried first as a function reference (identifier,
// qualified identifier, instantiation or a call producing a function),
// then as a function literal, then as a guard pair "pred, errValue".
// The boolean is false when the payload is present but none of those
// parse; the returned Validator is then of kind None.
func Classify(payload string) (Validator, bool) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Validator{}, false
	}

	if src, err := parseSource(payload); err == nil {
		if kind := funcKind(src.expr); kind != ValidatorNone {
			return Validator{
				Kind:    kind,
				Func:    src.expr,
				FuncSrc: payload,
				Source:  payload,
			}, true
		}
	}

	if v, ok := classifyGuard(payload); ok {
		return v, true
	}

	return Validator{Source: payload}, false
}

func classifyGuard(payload string) (Validator, bool) {
	candidates := []string{payload}
	if strings.HasPrefix(payload, "(") && strings.HasSuffix(payload, ")") {
		candidates = append(candidates, payload[1:len(payload)-1])
	}

	for _, c := range candidates {
		src, err := parseSource("_(" + c + ")")
		if err != nil {
			continue
		}

		call, ok := src.expr.(*ast.CallExpr)
		if !ok || len(call.Args) != 2 || call.Ellipsis.IsValid() {
			continue
		}

		kind := funcKind(call.Args[0])
		if kind == ValidatorNone {
			continue
		}

		return Validator{
			Kind:     kind,
			Func:     call.Args[0],
			FuncSrc:  src.text(call.Args[0]),
			Guard:    call.Args[1],
			GuardSrc: src.text(call.Args[1]),
			Source:   payload,
		}, true
	}

	return Validator{}, false
}

// funcKind reports which kind of validator an expression can denote.
func funcKind(expr ast.Expr) ValidatorKind {
	switch e := ast.Unparen(expr).(type) {
	case *ast.FuncLit:
		return ValidatorInline
	case *ast.CallExpr:
		if isFuncRef(e.Fun) {
			return ValidatorNamed
		}
	default:
		if isFuncRef(e) {
			return ValidatorNamed
		}
	}

	return ValidatorNone
}

// isFuncRef accepts f, pkg.f, x.y.f, f[T] and f[K, V].
func isFuncRef(expr ast.Expr) bool {
	switch e := ast.Unparen(expr).(type) {
	case *ast.Ident:
		return e.Name != "_" && e.Name != "nil" && e.Name != "true" && e.Name != "false"
	case *ast.SelectorExpr:
		return isFuncRef(e.X)
	case *ast.IndexExpr:
		return isFuncRef(e.X)
	case *ast.IndexListExpr:
		return isFuncRef(e.X)
	case *ast.CallExpr:
		// Higher-order factories may be chained: limits(1)(10).
		return isFuncRef(e.Fun)
	}

	return false
}

// source is a parsed expression together with the text it came from.
type source struct {
	fset *token.FileSet
	src  string
	expr ast.Expr
}

func parseSource(src string) (*source, error) {
	fset := token.NewFileSet()

	expr, err := parser.ParseExprFrom(fset, "", []byte(src), 0)
	if err != nil {
		return nil, err
	}

	return &source{fset: fset, src: src, expr: expr}, nil
}

// text returns the exact source of a node inside the parsed expression.
func (s *source) text(n ast.Node) string {
	f := s.fset.File(n.Pos())
	if f == nil {
		return ""
	}

	return s.src[f.Offset(n.Pos()):f.Offset(n.End())]
}
