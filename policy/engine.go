// Package policy evaluates upload admission rules.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by Evaluate.
const (
	DecisionAllow           = "allow"
	DecisionTooLarge        = "too_large"
	DecisionUnsupportedType = "unsupported_type"
)

// UploadInput describes an upload candidate for policy evaluation.
type UploadInput struct {
	Filename          string
	Extension         string
	SizeBytes         int64
	MaxSizeBytes      int64
	AllowedExtensions []string
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.upload_policy.decision"),
		rego.Module("upload_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the upload policy and returns one of the Decision values.
func (e *Engine) Evaluate(ctx context.Context, input UploadInput) (string, error) {
	extensions := make([]interface{}, 0, len(input.AllowedExtensions))
	for _, ext := range input.AllowedExtensions {
		extensions = append(extensions, ext)
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"filename":           input.Filename,
		"extension":          input.Extension,
		"size_bytes":         input.SizeBytes,
		"max_size_bytes":     input.MaxSizeBytes,
		"allowed_extensions": extensions,
	}))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	decision, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
	}
	return decision, nil
}

// DefaultPolicy is the default upload admission policy. The size check runs
// first so an oversize file is rejected before its type is considered.
const DefaultPolicy = `
package upload_policy

import rego.v1

default decision := "allow"

decision := "too_large" if {
	input.size_bytes > input.max_size_bytes
}

decision := "unsupported_type" if {
	input.size_bytes <= input.max_size_bytes
	not allowed_extension
}

allowed_extension if {
	some ext in input.allowed_extensions
	ext == input.extension
}
`
