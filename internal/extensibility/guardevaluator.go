package extensibility

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/comalice/bootnav/internal/primitives"
	"github.com/comalice/bootnav/router"
)

// Expression is a parsed guard condition of the form "key op value",
// for example "loggedIn == true" or "params.id > 10".
type Expression struct {
	Key   string
	Op    string
	Value string
}

var validOps = map[string]bool{"==": true, "!=": true, ">": true, "<": true, ">=": true, "<=": true}

// ParseExpression parses s. It fails on anything but three
// whitespace-separated fields with a known operator.
func ParseExpression(s string) (Expression, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return Expression{}, fmt.Errorf("guard %q: want \"key op value\"", s)
	}
	if !validOps[parts[1]] {
		return Expression{}, fmt.Errorf("guard %q: unknown operator %q", s, parts[1])
	}
	return Expression{Key: parts[0], Op: parts[1], Value: parts[2]}, nil
}

func (e Expression) String() string {
	return e.Key + " " + e.Op + " " + e.Value
}

// Eval evaluates e against vars. A missing key is false for every
// operator, including "!=".
func (e Expression) Eval(vars *primitives.Context) bool {
	v, ok := vars.Get(e.Key)
	if !ok {
		return false
	}
	switch e.Op {
	case "==":
		return equal(v, e.Value)
	case "!=":
		return !equal(v, e.Value)
	}

	want, err := strconv.ParseFloat(e.Value, 64)
	if err != nil {
		return false
	}
	got, ok := toFloat(v)
	if !ok {
		return false
	}
	switch e.Op {
	case ">":
		return got > want
	case "<":
		return got < want
	case ">=":
		return got >= want
	case "<=":
		return got <= want
	}
	return false
}

func equal(v any, raw string) bool {
	switch raw {
	case "true":
		return v == true
	case "false":
		return v == false
	case "nil":
		return v == nil
	}
	if want, err := strconv.ParseFloat(raw, 64); err == nil {
		if got, ok := toFloat(v); ok {
			return got == want
		}
	}
	if s, ok := v.(string); ok {
		return s == raw
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// ExpressionGuard compiles expr into a router.Guard evaluated against
// session. Route params are visible as "params.<name>".
func ExpressionGuard(expr string, session *primitives.Context) (router.Guard, error) {
	e, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = primitives.NewContext()
	}
	return func(_ context.Context, nav *router.Navigation) (bool, error) {
		vars := primitives.NewContextFrom(session.Snapshot())
		for k, v := range nav.Params {
			vars.Set("params."+k, v)
		}
		return e.Eval(vars), nil
	}, nil
}
