package governance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/diwise/asset-catalog/pkg/catalog/assets"
	"github.com/diwise/asset-catalog/pkg/catalog/tags"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/open-policy-agent/opa/rego"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("asset-catalog/governance")

// Violation is a message produced by the deny rule of a governance policy.
type Violation struct {
	GUID          string `json:"guid,omitempty"`
	TypeName      string `json:"typeName"`
	QualifiedName string `json:"qualifiedName,omitempty"`
	Message       string `json:"message"`
}

type Checker interface {
	Check(ctx context.Context, asset assets.Asset) ([]Violation, error)
}

type checkerImpl struct {
	preparedQuery rego.PreparedEvalQuery
	tagNames      tags.NameResolver
}

type CheckerOption func(*checkerImpl)

// WithTagNames makes tag names, rather than tag ids, available to policies as input.tags.
func WithTagNames(resolver tags.NameResolver) CheckerOption {
	return func(c *checkerImpl) {
		c.tagNames = resolver
	}
}

// NewChecker prepares the rego module read from policies. The module must define
// data.catalog.governance.deny as a set of messages.
func NewChecker(ctx context.Context, policies io.Reader, options ...CheckerOption) (Checker, error) {

	module, err := io.ReadAll(policies)
	if err != nil {
		return nil, fmt.Errorf("unable to read governance policies: %s", err.Error())
	}

	impl := &checkerImpl{}
	for _, option := range options {
		option(impl)
	}

	impl.preparedQuery, err = rego.New(
		rego.Query("x = data.catalog.governance.deny"),
		rego.Module("governance.rego", string(module)),
	).PrepareForEval(ctx)

	if err != nil {
		return nil, err
	}

	return impl, nil
}

func (c *checkerImpl) Check(ctx context.Context, asset assets.Asset) ([]Violation, error) {
	var err error

	ctx, span := tracer.Start(ctx, "check-governance", trace.WithAttributes(attribute.String("typeName", asset.TypeName())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	input, err := c.input(ctx, asset)
	if err != nil {
		return nil, err
	}

	results, err := c.preparedQuery.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		err = fmt.Errorf("opa eval failed: %w", err)
		return nil, err
	}

	if len(results) == 0 {
		err = errors.New("governance check failed: opa query could not be satisfied")
		return nil, err
	}

	messages, ok := results[0].Bindings["x"].([]any)
	if !ok {
		err = errors.New("opa error: unexpected result type")
		return nil, err
	}

	e := asset.GetEntity()
	violations := make([]Violation, 0, len(messages))

	for _, m := range messages {
		msg, ok := m.(string)
		if !ok {
			msg = fmt.Sprint(m)
		}

		violations = append(violations, Violation{
			GUID:          e.GUID,
			TypeName:      asset.TypeName(),
			QualifiedName: asset.GetAttributes().QualifiedName,
			Message:       msg,
		})
	}

	logging.GetFromContext(ctx).Debug("checked governance policies", "typeName", asset.TypeName(), "violations", len(violations))

	return violations, nil
}

func (c *checkerImpl) input(ctx context.Context, asset assets.Asset) (map[string]any, error) {
	b, err := json.Marshal(asset)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", asset.TypeName(), err)
	}

	wire := struct {
		Attributes map[string]any `json:"attributes"`
	}{}
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", asset.TypeName(), err)
	}

	if wire.Attributes == nil {
		wire.Attributes = map[string]any{}
	}

	e := asset.GetEntity()

	var tagNames []string
	if c.tagNames != nil {
		tagNames = e.AtlanTagNames(ctx, c.tagNames)
	} else {
		for _, t := range e.Tags {
			tagNames = append(tagNames, t.TypeName)
		}
		if len(tagNames) == 0 {
			tagNames = e.TagNames
		}
	}

	input := map[string]any{
		"typeName":   asset.TypeName(),
		"guid":       e.GUID,
		"attributes": wire.Attributes,
		"tags":       anySlice(tagNames),
	}

	return input, nil
}

func anySlice(s []string) []any {
	result := make([]any, 0, len(s))
	for _, v := range s {
		result = append(result, v)
	}
	return result
}
