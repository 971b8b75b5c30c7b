package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Scope enforcement for the tool endpoint. Each tool requires one of the
// advertised OAuth scopes; a grant missing it is refused before the gateway
// is reached.
const authzModule = `
package buildclub.authz

tool_scopes := {
	"list_events": "read_data",
	"get_event": "read_data",
	"event_registration": "write_data",
}

default allow = false

allow {
	required_scope == input.scopes[_]
}

required_scope := tool_scopes[input.tool]
`

type Engine struct {
	queryCache *queryCache
}

func NewEngine() *Engine {
	return &Engine{queryCache: newQueryCache()}
}

// Allow reports whether a grant with the given scopes may invoke the tool.
// Unknown tools are denied: their required scope is undefined.
func (e *Engine) Allow(ctx context.Context, tool string, scopes []string) (bool, error) {
	input := map[string]any{"tool": tool, "scopes": scopes}

	rs, err := e.eval(ctx, "allow", input)
	if err != nil {
		return false, err
	}

	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, errors.New("allow decision was not a boolean")
	}

	return allowed, nil
}

// RequiredScope returns the scope a tool demands, for refusal messages.
func (e *Engine) RequiredScope(ctx context.Context, tool string) (string, bool) {
	rs, err := e.eval(ctx, "required_scope", map[string]any{"tool": tool})
	if err != nil || len(rs) == 0 {
		return "", false
	}

	scope, ok := rs[0].Expressions[0].Value.(string)
	return scope, ok
}

func (e *Engine) eval(ctx context.Context, rule string, input any) (rego.ResultSet, error) {
	pq, err := e.queryCache.Get(rule, func(rule string) (*rego.PreparedEvalQuery, error) {
		pq, err := rego.New(
			rego.Query(fmt.Sprintf("data.buildclub.authz.%s", rule)),
			rego.Module("authz.rego", authzModule),
		).PrepareForEval(ctx)
		if err != nil {
			return nil, err
		}

		return &pq, nil
	})
	if err != nil {
		return nil, err
	}

	rs, err := pq.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, err
	} else if len(rs) == 0 {
		return nil, fmt.Errorf("%v decision was undefined", rule)
	}

	return rs, nil
}
