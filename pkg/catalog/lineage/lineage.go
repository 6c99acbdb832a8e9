// Package lineage holds the request entity used to ask the catalog for the lineage
// of an asset. Traversal itself is performed by the catalog service.
package lineage

import (
	"encoding/json"
	"fmt"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
)

type Direction string

const (
	Upstream   Direction = "UPSTREAM"
	Downstream Direction = "DOWNSTREAM"
	Both       Direction = "BOTH"
)

const (
	DefaultDepth int = 1000000
	DefaultSize  int = 10
)

type RequestDecoratorFunc func(*Request)

type Request struct {
	GUID            string    `json:"guid"`
	Direction       Direction `json:"direction"`
	Depth           int       `json:"depth"`
	Size            int       `json:"size"`
	From            int       `json:"from"`
	IncludeMeanings bool      `json:"excludeMeanings"`
	IncludeTags     bool      `json:"excludeClassifications"`
	Attributes      []string  `json:"attributes,omitempty"`
	ImmediateOnly   bool      `json:"immediateNeighbors"`
}

// NewRequest creates a lineage request starting at the asset with the given guid.
func NewRequest(guid string, decorators ...RequestDecoratorFunc) (*Request, error) {
	if guid == "" {
		return nil, catalogerrors.NewRequiredFieldsError("LineageRequest", "guid")
	}

	r := &Request{
		GUID:            guid,
		Direction:       Downstream,
		Depth:           DefaultDepth,
		Size:            DefaultSize,
		IncludeMeanings: true,
		IncludeTags:     true,
	}

	for _, decorate := range decorators {
		decorate(r)
	}

	return r, nil
}

func WithDirection(d Direction) RequestDecoratorFunc {
	return func(r *Request) { r.Direction = d }
}

func WithDepth(depth int) RequestDecoratorFunc {
	return func(r *Request) { r.Depth = depth }
}

func WithSize(size int) RequestDecoratorFunc {
	return func(r *Request) { r.Size = size }
}

func WithAttributes(attrs ...string) RequestDecoratorFunc {
	return func(r *Request) { r.Attributes = append(r.Attributes, attrs...) }
}

func ExcludeMeanings() RequestDecoratorFunc {
	return func(r *Request) { r.IncludeMeanings = false }
}

func ExcludeTags() RequestDecoratorFunc {
	return func(r *Request) { r.IncludeTags = false }
}

func ImmediateNeighbours() RequestDecoratorFunc {
	return func(r *Request) { r.ImmediateOnly = true }
}

// MarshalJSON inverts the include flags into the exclude flags expected by the API.
func (r Request) MarshalJSON() ([]byte, error) {
	type plain Request
	p := plain(r)
	p.IncludeMeanings = !r.IncludeMeanings
	p.IncludeTags = !r.IncludeTags

	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lineage request: %w", err)
	}
	return b, nil
}

// UnmarshalJSON reads the exclude flags of the API back into include flags.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	p := plain{}

	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to unmarshal lineage request: %w", err)
	}

	p.IncludeMeanings = !p.IncludeMeanings
	p.IncludeTags = !p.IncludeTags
	*r = Request(p)

	return nil
}
