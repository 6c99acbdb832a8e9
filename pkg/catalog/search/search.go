// Package search builds index search requests. Requests are never executed here;
// they are serialized into the DSL string that some assets (data products) embed as
// an attribute value.
package search

import (
	"encoding/json"
	"fmt"

	"github.com/diwise/asset-catalog/pkg/catalog/fields"
)

type RequestDecoratorFunc func(*Request)

type Request struct {
	filters    []map[string]any
	mustNot    []map[string]any
	size       int
	attributes []string
}

func NewRequest(decorators ...RequestDecoratorFunc) *Request {
	r := &Request{size: 20}
	for _, decorate := range decorators {
		decorate(r)
	}
	return r
}

func Term(field fields.Keyworder, value any) RequestDecoratorFunc {
	return func(r *Request) {
		r.filters = append(r.filters, map[string]any{
			"term": map[string]any{field.KeywordFieldName(): value},
		})
	}
}

func Terms[V any](field fields.Keyworder, values []V) RequestDecoratorFunc {
	return func(r *Request) {
		r.filters = append(r.filters, map[string]any{
			"terms": map[string]any{field.KeywordFieldName(): values},
		})
	}
}

func Prefix(field fields.Keyworder, prefix string) RequestDecoratorFunc {
	return func(r *Request) {
		r.filters = append(r.filters, map[string]any{
			"prefix": map[string]any{field.KeywordFieldName(): map[string]any{"value": prefix}},
		})
	}
}

func Exists(field fields.Field) RequestDecoratorFunc {
	return func(r *Request) {
		r.filters = append(r.filters, map[string]any{
			"exists": map[string]any{"field": indexName(field)},
		})
	}
}

func NotTerm(field fields.Keyworder, value any) RequestDecoratorFunc {
	return func(r *Request) {
		r.mustNot = append(r.mustNot, map[string]any{
			"term": map[string]any{field.KeywordFieldName(): value},
		})
	}
}

func Size(size int) RequestDecoratorFunc {
	return func(r *Request) {
		r.size = size
	}
}

// Attributes requests additional attributes to be included on each matching asset.
func Attributes(attrs ...fields.Field) RequestDecoratorFunc {
	return func(r *Request) {
		for _, a := range attrs {
			r.attributes = append(r.attributes, a.AtlanFieldName())
		}
	}
}

func (r *Request) query() map[string]any {
	boolQuery := map[string]any{}
	if len(r.filters) > 0 {
		boolQuery["filter"] = r.filters
	}
	if len(r.mustNot) > 0 {
		boolQuery["must_not"] = r.mustNot
	}

	return map[string]any{
		"from":  0,
		"size":  r.size,
		"query": map[string]any{"bool": boolQuery},
	}
}

// DSL returns the request in the serialized form accepted by the index search endpoint.
func (r *Request) DSL() (string, error) {
	attributes := r.attributes
	if attributes == nil {
		attributes = []string{}
	}

	body := map[string]any{
		"query": map[string]any{
			"dsl":        r.query(),
			"attributes": attributes,
		},
		"filterScrubbed": true,
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal search request: %w", err)
	}

	return string(b), nil
}

func indexName(field fields.Field) string {
	switch f := field.(type) {
	case fields.Keyworder:
		return f.KeywordFieldName()
	case fields.Numericer:
		return f.NumericFieldName()
	case fields.Booleaner:
		return f.BooleanFieldName()
	case fields.Texter:
		return f.TextFieldName()
	}
	return field.AtlanFieldName()
}
