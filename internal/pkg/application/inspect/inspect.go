package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/diwise/asset-catalog/internal/pkg/application/governance"
	"github.com/diwise/asset-catalog/pkg/catalog/assets"
	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("asset-catalog/inspect")

// Summary describes the assets read by Run.
type Summary struct {
	Total      int                    `json:"total"`
	Skipped    int                    `json:"skipped,omitempty"`
	ByType     map[string]int         `json:"byType"`
	Violations []governance.Violation `json:"violations,omitempty"`
}

func (s *Summary) HasViolations() bool {
	return len(s.Violations) > 0
}

type options struct {
	checker         governance.Checker
	skipUnsupported bool
	trim            bool
}

type Option func(*options)

// WithChecker checks every resolved asset against governance policies.
func WithChecker(checker governance.Checker) Option {
	return func(o *options) {
		o.checker = checker
	}
}

// SkipUnsupported counts records of unknown types as skipped instead of failing.
func SkipUnsupported() Option {
	return func(o *options) {
		o.skipUnsupported = true
	}
}

// TrimToRequired writes the minimal form of every asset, as used to update it.
func TrimToRequired() Option {
	return func(o *options) {
		o.trim = true
	}
}

// Run reads a stream of asset records from in, where each value is either a single
// record or an array of records, and writes the resolved assets to out as JSON lines.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts ...Option) (*Summary, error) {
	var err error

	ctx, span := tracer.Start(ctx, "inspect-assets")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)
	summary := &Summary{ByType: map[string]int{}}

	dec := json.NewDecoder(in)
	enc := json.NewEncoder(out)

	for index := 0; ; index++ {
		var value json.RawMessage
		if err = dec.Decode(&value); err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
				break
			}
			err = fmt.Errorf("failed to read asset records: %w", err)
			return summary, err
		}

		for _, record := range records(value) {
			var a assets.Asset
			a, err = assets.Resolve(ctx, record)
			if err != nil {
				if o.skipUnsupported && errors.Is(err, catalogerrors.ErrUnsupportedType) {
					log.Warn("skipping record", "index", index, "err", err.Error())
					summary.Skipped++
					err = nil
					continue
				}
				err = fmt.Errorf("failed to resolve record %d: %w", index, err)
				return summary, err
			}

			if err = inspect(ctx, a, o, summary, enc); err != nil {
				return summary, err
			}
		}
	}

	log.Info("inspected assets", "total", summary.Total, "skipped", summary.Skipped, "violations", len(summary.Violations))

	return summary, nil
}

func inspect(ctx context.Context, a assets.Asset, o *options, summary *Summary, enc *json.Encoder) error {
	if o.checker != nil {
		violations, err := o.checker.Check(ctx, a)
		if err != nil {
			return fmt.Errorf("failed to check %s %q: %w", a.TypeName(), a.GetAttributes().QualifiedName, err)
		}
		summary.Violations = append(summary.Violations, violations...)
	}

	if o.trim {
		trimmed, err := a.TrimToRequired()
		if err != nil {
			return err
		}
		a = trimmed
	}

	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.TypeName(), err)
	}

	summary.Total++
	summary.ByType[a.TypeName()]++

	return nil
}

func records(value json.RawMessage) []json.RawMessage {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []json.RawMessage{value}
	}

	list := []json.RawMessage{}
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return []json.RawMessage{value}
	}

	return list
}
