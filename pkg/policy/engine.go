package policy

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
	"github.com/rs/zerolog"
)

// Engine evaluates advice policies against a learner's progress.
type Engine struct {
	mu       sync.RWMutex
	policies map[string]*compiledPolicy
	logger   zerolog.Logger
}

// compiledPolicy is a policy with its query prepared for reuse.
type compiledPolicy struct {
	policy   *Policy
	query    rego.PreparedEvalQuery
	compiled time.Time
}

// NewEngine creates an engine with the built-in policies loaded.
func NewEngine(logger zerolog.Logger) (*Engine, error) {
	e := &Engine{
		policies: make(map[string]*compiledPolicy),
		logger:   logger.With().Str("component", "policy-engine").Logger(),
	}

	builtins := BuiltinPolicies()
	for i := range builtins {
		if err := e.compileAndStore(context.Background(), &builtins[i]); err != nil {
			return nil, fmt.Errorf("failed to compile built-in policy %s: %w", builtins[i].Name, err)
		}
	}

	e.logger.Debug().Int("count", len(builtins)).Msg("Built-in policies loaded")

	return e, nil
}

// Evaluate runs every enabled policy and returns the combined advice,
// warnings first. A policy that fails to evaluate is logged and skipped.
func (e *Engine) Evaluate(ctx context.Context, input *Input) ([]Advice, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	start := time.Now()
	var all []Advice

	for _, cp := range e.policies {
		if !cp.policy.Enabled {
			continue
		}

		advice, err := e.evaluatePolicy(ctx, cp, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Warn().Err(err).Str("policy", cp.policy.Name).Msg("Policy evaluation failed")
			continue
		}
		all = append(all, advice...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Severity != all[j].Severity {
			return all[i].Severity == SeverityWarning
		}
		if all[i].Policy != all[j].Policy {
			return all[i].Policy < all[j].Policy
		}
		if all[i].Lesson != all[j].Lesson {
			return all[i].Lesson < all[j].Lesson
		}
		return all[i].Message < all[j].Message
	})

	e.logger.Debug().
		Int("advice", len(all)).
		Dur("duration", time.Since(start)).
		Msg("Policy evaluation completed")

	return all, nil
}

func (e *Engine) evaluatePolicy(ctx context.Context, cp *compiledPolicy, input *Input) ([]Advice, error) {
	results, err := cp.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("policy evaluation error: %w", err)
	}

	var advice []Advice
	for _, result := range results {
		if len(result.Expressions) == 0 {
			continue
		}
		set, ok := result.Expressions[0].Value.([]interface{})
		if !ok {
			continue
		}
		for _, item := range set {
			advice = append(advice, newAdvice(cp.policy, item))
		}
	}
	return advice, nil
}

// newAdvice reads one element of an advice set. Elements are either plain
// strings or objects with message, lesson and severity keys.
func newAdvice(policy *Policy, item interface{}) Advice {
	a := Advice{
		Policy:   policy.Name,
		Severity: policy.Severity,
	}

	switch v := item.(type) {
	case string:
		a.Message = v
	case map[string]interface{}:
		if msg, ok := v["message"].(string); ok {
			a.Message = msg
		}
		if lesson, ok := v["lesson"].(string); ok {
			a.Lesson = lesson
		}
		if sev, ok := v["severity"].(string); ok {
			a.Severity = Severity(sev)
		}
	default:
		a.Message = fmt.Sprintf("%v", item)
	}

	return a
}

// compileAndStore parses the module and prepares `data.<package>.advice`.
func (e *Engine) compileAndStore(ctx context.Context, policy *Policy) error {
	module, err := ast.ParseModule(policy.Name, policy.Rego)
	if err != nil {
		return fmt.Errorf("failed to parse policy: %w", err)
	}

	query := module.Package.Path.String() + ".advice"
	prepared, err := rego.New(
		rego.Module(policy.Name, policy.Rego),
		rego.Query(query),
	).PrepareForEval(ctx)
	if err != nil {
		return fmt.Errorf("failed to prepare query: %w", err)
	}

	e.policies[policy.Name] = &compiledPolicy{
		policy:   policy,
		query:    prepared,
		compiled: time.Now(),
	}

	e.logger.Debug().Str("policy", policy.Name).Str("query", query).Msg("Policy compiled")

	return nil
}

// LoadPolicies compiles the .rego files found at paths. A policy with the
// name of an existing one replaces it.
func (e *Engine) LoadPolicies(ctx context.Context, paths []string) error {
	policies, err := NewLoader(e.logger).LoadFromPaths(ctx, paths)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range policies {
		if err := e.compileAndStore(ctx, &policies[i]); err != nil {
			return fmt.Errorf("failed to compile policy %s: %w", policies[i].Name, err)
		}
	}

	e.logger.Info().Int("count", len(policies)).Msg("Policies loaded")

	return nil
}

// GetPolicy returns a policy by name.
func (e *Engine) GetPolicy(name string) (*Policy, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cp, ok := e.policies[name]
	if !ok {
		return nil, fmt.Errorf("policy not found: %s", name)
	}
	return cp.policy, nil
}

// ListPolicies returns the loaded policies sorted by name.
func (e *Engine) ListPolicies() []Policy {
	e.mu.RLock()
	defer e.mu.RUnlock()

	policies := make([]Policy, 0, len(e.policies))
	for _, cp := range e.policies {
		policies = append(policies, *cp.policy)
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i].Name < policies[j].Name })
	return policies
}

// SetEnabled turns a policy on or off.
func (e *Engine) SetEnabled(name string, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cp, ok := e.policies[name]
	if !ok {
		return fmt.Errorf("policy not found: %s", name)
	}
	cp.policy.Enabled = enabled
	return nil
}
