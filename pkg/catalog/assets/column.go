package assets

import (
	"fmt"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
	"github.com/diwise/asset-catalog/pkg/catalog/structs"
)

const ColumnTypeName string = "Column"

var (
	ColumnDataType      = fields.NewKeywordTextField("dataType", "dataType", "dataType.text")
	ColumnOrder         = fields.NewNumericField("order", "order")
	ColumnIsPrimary     = fields.NewBooleanField("isPrimary", "isPrimary")
	ColumnIsNullable    = fields.NewBooleanField("isNullable", "isNullable")
	ColumnDistinctCount = fields.NewNumericField("columnDistinctValuesCount", "columnDistinctValuesCount")
	ColumnTable         = fields.NewRelationField("table")
	ColumnView          = fields.NewRelationField("view")
)

type ColumnAttributes struct {
	SQLAttributes

	DataType                  string                            `json:"dataType,omitempty"`
	SubDataType               string                            `json:"subDataType,omitempty"`
	RawDataTypeDefinition     string                            `json:"rawDataTypeDefinition,omitempty"`
	Order                     int                               `json:"order,omitempty"`
	NestedColumnOrder         string                            `json:"nestedColumnOrder,omitempty"`
	IsPartition               bool                              `json:"isPartition,omitempty"`
	PartitionOrder            int                               `json:"partitionOrder,omitempty"`
	IsPrimary                 bool                              `json:"isPrimary,omitempty"`
	IsForeign                 bool                              `json:"isForeign,omitempty"`
	IsNullable                bool                              `json:"isNullable,omitempty"`
	IsSort                    bool                              `json:"isSort,omitempty"`
	IsIndexed                 bool                              `json:"isIndexed,omitempty"`
	MaxLength                 int64                             `json:"maxLength,omitempty"`
	Precision                 int                               `json:"precision,omitempty"`
	NumericScale              float64                           `json:"numericScale,omitempty"`
	ColumnDistinctValuesCount int64                             `json:"columnDistinctValuesCount,omitempty"`
	ColumnMax                 float64                           `json:"columnMax,omitempty"`
	ColumnMin                 float64                           `json:"columnMin,omitempty"`
	ColumnMean                float64                           `json:"columnMean,omitempty"`
	ColumnMedian              float64                           `json:"columnMedian,omitempty"`
	ColumnHistogram           *structs.Histogram                `json:"columnHistogram,omitempty"`
	ColumnTopValues           []structs.ColumnValueFrequencyMap `json:"columnTopValues,omitempty"`
	Table                     *Table                            `json:"table,omitempty"`
	View                      *View                             `json:"view,omitempty"`
	MaterialisedView          *MaterialisedView                 `json:"materialisedView,omitempty"`
}

type Column struct {
	Entity
	Attributes ColumnAttributes `json:"attributes"`
}

func init() {
	Register(ColumnTypeName, func() Asset { return &Column{} })
}

// NewColumn creates a column at position order (starting at 1) in the table, view or
// materialised view with the given qualified name. parentType is the type name of the parent.
func NewColumn(name, parentType, parentQualifiedName string, order int, decorators ...EntityDecoratorFunc) (*Column, error) {
	if err := requireFields(ColumnTypeName, "name", name, "parentType", parentType, "parentQualifiedName", parentQualifiedName); err != nil {
		return nil, err
	}

	if order < 1 {
		return nil, catalogerrors.NewValidationError("Column: order must be a positive number", "order")
	}

	segments, err := qualifiedname.Split(parentQualifiedName, parentType, qualifiedname.TableSegments)
	if err != nil {
		return nil, err
	}

	c := &Column{Entity: newEntity(ColumnTypeName)}

	attrs := &c.Attributes
	attrs.Name = name
	attrs.Order = order
	attrs.QualifiedName = qualifiedname.Join(parentQualifiedName, name)
	attrs.ConnectionQualifiedName = qualifiedname.ConnectionQualifiedName(parentQualifiedName)
	attrs.ConnectorName = segments[1]
	attrs.DatabaseName = segments[3]
	attrs.DatabaseQualifiedName = qualifiedname.Join(attrs.ConnectionQualifiedName, segments[3])
	attrs.SchemaName = segments[4]
	attrs.SchemaQualifiedName = qualifiedname.Parent(parentQualifiedName)

	switch parentType {
	case TableTypeName:
		attrs.TableName = segments[5]
		attrs.TableQualifiedName = parentQualifiedName
		attrs.Table = RefByQualifiedName[Table](parentQualifiedName)
	case ViewTypeName:
		attrs.ViewName = segments[5]
		attrs.ViewQualifiedName = parentQualifiedName
		attrs.View = RefByQualifiedName[View](parentQualifiedName)
	case MaterialisedViewTypeName:
		attrs.ViewName = segments[5]
		attrs.ViewQualifiedName = parentQualifiedName
		attrs.MaterialisedView = RefByQualifiedName[MaterialisedView](parentQualifiedName)
	default:
		return nil, catalogerrors.NewValidationError(fmt.Sprintf("Column: %q cannot contain columns", parentType), "parentType")
	}

	decorate(c, decorators)

	return c, nil
}

func (c *Column) TypeName() string {
	return ColumnTypeName
}

func (c *Column) GetAttributes() *AssetAttributes {
	return &c.Attributes.AssetAttributes
}

func (c *Column) TrimToRequired() (Asset, error) {
	return trimToRequired[Column](c)
}

func (c Column) MarshalJSON() ([]byte, error) {
	return encodeAsset(ColumnTypeName, c.Entity, c.Attributes)
}

func (c *Column) UnmarshalJSON(data []byte) error {
	type plain Column
	return decodeAsset(data, ColumnTypeName, (*plain)(c))
}
