// Package policy evaluates Rego policies that gate summary export.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Export decisions.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// ExportInput is the document the export policy is evaluated against.
type ExportInput struct {
	SummaryID int64  `json:"summary_id"`
	Status    string `json:"status"`
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.export_policy.decision"),
		rego.Module("export_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the decision for input. A policy that produces no
// decision, or a non-string one, denies.
func (e *Engine) Evaluate(ctx context.Context, input ExportInput) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]any{
		"summary_id": input.SummaryID,
		"status":     input.Status,
	}))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionDeny, nil
	}
	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionDeny, nil
}

// Allowed reports whether input may be exported.
func (e *Engine) Allowed(ctx context.Context, input ExportInput) (bool, error) {
	decision, err := e.Evaluate(ctx, input)
	if err != nil {
		return false, err
	}
	return decision == DecisionAllow, nil
}

// DefaultPolicy only lets approved summaries leave the system.
const DefaultPolicy = `
package export_policy

default decision = "deny"

decision = "allow" {
	input.status == "approved"
}
`
