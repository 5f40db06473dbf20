package cel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// NodeFields lists the fields NodeVars binds under "_".
var NodeFields = []string{"children", "container", "depth", "name", "path", "refs", "type", "types"}

// ReferencedFields parses expr and returns the distinct fields selected
// directly on "_" (as in _.name), sorted.
func ReferencedFields(env *cel.Env, expr string) ([]string, error) {
	ast, issues := env.Parse(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("parse error: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	collectRootSelects(parsed.GetExpr(), seen)
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

func collectRootSelects(expr *exprpb.Expr, seen map[string]bool) {
	if expr == nil {
		return
	}
	switch kind := expr.ExprKind.(type) {
	case *exprpb.Expr_SelectExpr:
		sel := kind.SelectExpr
		if ident := sel.GetOperand().GetIdentExpr(); ident != nil && ident.GetName() == "_" {
			seen[sel.GetField()] = true
			return
		}
		collectRootSelects(sel.GetOperand(), seen)
	case *exprpb.Expr_CallExpr:
		collectRootSelects(kind.CallExpr.GetTarget(), seen)
		for _, arg := range kind.CallExpr.GetArgs() {
			collectRootSelects(arg, seen)
		}
	case *exprpb.Expr_ListExpr:
		for _, el := range kind.ListExpr.GetElements() {
			collectRootSelects(el, seen)
		}
	case *exprpb.Expr_StructExpr:
		for _, entry := range kind.StructExpr.GetEntries() {
			collectRootSelects(entry.GetMapKey(), seen)
			collectRootSelects(entry.GetValue(), seen)
		}
	case *exprpb.Expr_ComprehensionExpr:
		c := kind.ComprehensionExpr
		for _, e := range []*exprpb.Expr{c.GetIterRange(), c.GetAccuInit(), c.GetLoopCondition(), c.GetLoopStep(), c.GetResult()} {
			collectRootSelects(e, seen)
		}
	}
}

func checkNodeFields(env *cel.Env, expr string) error {
	fields, err := ReferencedFields(env, expr)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(NodeFields))
	for _, f := range NodeFields {
		known[f] = true
	}
	var unknown []string
	for _, f := range fields {
		if !known[f] {
			unknown = append(unknown, f)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown node field(s) %s: valid fields are %s", strings.Join(unknown, ", "), strings.Join(NodeFields, ", "))
	}
	return nil
}
