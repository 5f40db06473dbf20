// Package cel evaluates CEL expressions against namespace nodes. A node is
// exposed as the variable "_" with the fields name, path, type, types, refs,
// children, depth and container.
package cel

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/objtree/internal/container"
	"github.com/oakwood-commons/objtree/internal/navigator"
	"github.com/oakwood-commons/objtree/internal/object"
)

// Evaluator compiles and evaluates CEL expressions.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates a new CEL evaluator with standard library functions.
func NewEvaluator() (*Evaluator, error) {
	env, err := newStandardCELEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 4+len(opts))
	allOpts = append(allOpts,
		cel.Variable("_", cel.DynType),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

func (e *Evaluator) program(expr string) (cel.Program, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return prg, nil
}

// Evaluate evaluates expr with data bound to "_" and returns a Go value.
func (e *Evaluator) Evaluate(expr string, data interface{}) (interface{}, error) {
	prg, err := e.program(expr)
	if err != nil {
		return nil, err
	}
	result, _, err := prg.Eval(map[string]interface{}{"_": data})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToGo(result), nil
}

// Filter is a compiled boolean predicate over nodes.
type Filter struct {
	expr string
	prg  cel.Program
}

// Compile prepares expr for repeated matching. Fields selected on "_" must
// be among NodeFields.
func (e *Evaluator) Compile(expr string) (*Filter, error) {
	if err := checkNodeFields(e.env, expr); err != nil {
		return nil, err
	}
	prg, err := e.program(expr)
	if err != nil {
		return nil, err
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// Match reports whether the predicate holds for node. Non-boolean results are errors.
func (f *Filter) Match(node *object.Object) (bool, error) {
	result, _, err := f.prg.Eval(map[string]interface{}{"_": NodeVars(node)})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := result.(types.Bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %s, want bool", f.expr, result.Type().TypeName())
	}
	return bool(b), nil
}

// Match compiles expr and matches it against node once.
func (e *Evaluator) Match(expr string, node *object.Object) (bool, error) {
	f, err := e.Compile(expr)
	if err != nil {
		return false, err
	}
	return f.Match(node)
}

// NodeVars is the value bound to "_" for node.
func NodeVars(node *object.Object) map[string]interface{} {
	ancestors := node.Type().Ancestors()
	typeNames := make([]interface{}, len(ancestors))
	for i, name := range ancestors {
		typeNames[i] = name
	}
	depth := 0
	for p := node.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return map[string]interface{}{
		"name":      node.Name(),
		"path":      navigator.CanonicalPath(node),
		"type":      node.TypeName(),
		"types":     typeNames,
		"refs":      int64(node.RefCount()),
		"children":  int64(node.ChildCount()),
		"depth":     int64(depth),
		"container": node.TypeName() == container.TypeName,
	}
}

// ToGo converts CEL values to Go values, recursing into lists and maps.
func ToGo(val ref.Val) interface{} {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	}

	if valuer, ok := val.(interface{ Value() interface{} }); ok {
		switch inner := valuer.Value().(type) {
		case []ref.Val:
			out := make([]interface{}, len(inner))
			for i, elem := range inner {
				out[i] = ToGo(elem)
			}
			return out
		case []interface{}:
			out := make([]interface{}, len(inner))
			for i, elem := range inner {
				if rv, ok := elem.(ref.Val); ok {
					out[i] = ToGo(rv)
				} else {
					out[i] = elem
				}
			}
			return out
		case map[ref.Val]ref.Val:
			out := make(map[string]interface{}, len(inner))
			for k, v := range inner {
				out[fmt.Sprintf("%v", ToGo(k))] = ToGo(v)
			}
			return out
		default:
			return inner
		}
	}
	return val
}
