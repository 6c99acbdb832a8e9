// Package structs contains the small value types that are used as attribute payloads
// on assets. On the wire a struct is sent as {"typeName": "...", "attributes": {...}},
// while older payloads and hand-written fixtures use a flat object. Both are accepted
// when decoding; encoding always produces the nested form.
package structs

import (
	"bytes"
	"encoding/json"
	"fmt"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
)

const (
	AwsTagTypeName                   string = "AwsTag"
	ColumnValueFrequencyMapTypeName  string = "ColumnValueFrequencyMap"
	HistogramTypeName                string = "Histogram"
	PopularityInsightsTypeName       string = "PopularityInsights"
	SourceTagAttachmentTypeName      string = "SourceTagAttachment"
	SourceTagAttachmentValueTypeName string = "SourceTagAttachmentValue"
)

// Histogram of the values in a column.
type Histogram struct {
	Boundaries  []float64 `json:"boundaries"`
	Frequencies []float64 `json:"frequencies"`
}

func (h Histogram) MarshalJSON() ([]byte, error) {
	type plain Histogram
	return marshalStruct(HistogramTypeName, plain(h))
}

func (h *Histogram) UnmarshalJSON(data []byte) error {
	type plain Histogram
	return unmarshalStruct(data, HistogramTypeName, (*plain)(h))
}

// ColumnValueFrequencyMap records how often a single value occurs in a column.
type ColumnValueFrequencyMap struct {
	ColumnValue          string `json:"columnValue,omitempty"`
	ColumnValueFrequency int64  `json:"columnValueFrequency,omitempty"`
}

func (c ColumnValueFrequencyMap) MarshalJSON() ([]byte, error) {
	type plain ColumnValueFrequencyMap
	return marshalStruct(ColumnValueFrequencyMapTypeName, plain(c))
}

func (c *ColumnValueFrequencyMap) UnmarshalJSON(data []byte) error {
	type plain ColumnValueFrequencyMap
	return unmarshalStruct(data, ColumnValueFrequencyMapTypeName, (*plain)(c))
}

// PopularityInsights is one usage record (a user, a query, a warehouse) for an asset.
type PopularityInsights struct {
	RecordUser            string  `json:"recordUser,omitempty"`
	RecordQuery           string  `json:"recordQuery,omitempty"`
	RecordQueryDuration   int64   `json:"recordQueryDuration,omitempty"`
	RecordQueryCount      int64   `json:"recordQueryCount,omitempty"`
	RecordTotalUserCount  int64   `json:"recordTotalUserCount,omitempty"`
	RecordComputeCost     float64 `json:"recordComputeCost,omitempty"`
	RecordMaxComputeCost  float64 `json:"recordMaxComputeCost,omitempty"`
	RecordComputeCostUnit string  `json:"recordComputeCostUnit,omitempty"`
	RecordLastTimestamp   int64   `json:"recordLastTimestamp,omitempty"`
	RecordWarehouse       string  `json:"recordWarehouse,omitempty"`
}

func (p PopularityInsights) MarshalJSON() ([]byte, error) {
	type plain PopularityInsights
	return marshalStruct(PopularityInsightsTypeName, plain(p))
}

func (p *PopularityInsights) UnmarshalJSON(data []byte) error {
	type plain PopularityInsights
	return unmarshalStruct(data, PopularityInsightsTypeName, (*plain)(p))
}

type SourceTagAttachmentValue struct {
	TagAttachmentKey   string `json:"tagAttachmentKey,omitempty"`
	TagAttachmentValue string `json:"tagAttachmentValue,omitempty"`
}

func (v SourceTagAttachmentValue) MarshalJSON() ([]byte, error) {
	type plain SourceTagAttachmentValue
	return marshalStruct(SourceTagAttachmentValueTypeName, plain(v))
}

func (v *SourceTagAttachmentValue) UnmarshalJSON(data []byte) error {
	type plain SourceTagAttachmentValue
	return unmarshalStruct(data, SourceTagAttachmentValueTypeName, (*plain)(v))
}

// SourceTagAttachment links a tag to the tag it was synced from in a source system.
type SourceTagAttachment struct {
	SourceTagName          string                     `json:"sourceTagName,omitempty"`
	SourceTagQualifiedName string                     `json:"sourceTagQualifiedName,omitempty"`
	SourceTagGUID          string                     `json:"sourceTagGuid,omitempty"`
	SourceTagConnectorName string                     `json:"sourceTagConnectorName,omitempty"`
	SourceTagValue         []SourceTagAttachmentValue `json:"sourceTagValue,omitempty"`
	IsSourceTagSynced      bool                       `json:"isSourceTagSynced,omitempty"`
	SourceTagSyncTimestamp int64                      `json:"sourceTagSyncTimestamp,omitempty"`
	SourceTagSyncError     string                     `json:"sourceTagSyncError,omitempty"`
}

func (s SourceTagAttachment) MarshalJSON() ([]byte, error) {
	type plain SourceTagAttachment
	return marshalStruct(SourceTagAttachmentTypeName, plain(s))
}

func (s *SourceTagAttachment) UnmarshalJSON(data []byte) error {
	type plain SourceTagAttachment
	return unmarshalStruct(data, SourceTagAttachmentTypeName, (*plain)(s))
}

type AwsTag struct {
	AwsTagKey   string `json:"awsTagKey,omitempty"`
	AwsTagValue string `json:"awsTagValue,omitempty"`
}

func (a AwsTag) MarshalJSON() ([]byte, error) {
	type plain AwsTag
	return marshalStruct(AwsTagTypeName, plain(a))
}

func (a *AwsTag) UnmarshalJSON(data []byte) error {
	type plain AwsTag
	return unmarshalStruct(data, AwsTagTypeName, (*plain)(a))
}

func marshalStruct(typeName string, attributes any) ([]byte, error) {
	return json.Marshal(struct {
		TypeName   string `json:"typeName"`
		Attributes any    `json:"attributes"`
	}{
		TypeName:   typeName,
		Attributes: attributes,
	})
}

func unmarshalStruct(data []byte, typeName string, target any) error {
	header := struct {
		TypeName   string          `json:"typeName"`
		Attributes json.RawMessage `json:"attributes"`
	}{}

	if err := json.Unmarshal(data, &header); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", typeName, err)
	}

	if header.TypeName != "" && header.TypeName != typeName {
		return catalogerrors.NewTypeMismatchError(typeName, header.TypeName)
	}

	// flat payloads carry the attributes at the top level
	if len(header.Attributes) == 0 || bytes.Equal(header.Attributes, []byte("null")) {
		return json.Unmarshal(data, target)
	}

	return json.Unmarshal(header.Attributes, target)
}
