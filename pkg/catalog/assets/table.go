package assets

import (
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
)

const TableTypeName string = "Table"

var (
	TableColumnCount   = fields.NewNumericField("columnCount", "columnCount")
	TableRowCount      = fields.NewNumericField("rowCount", "rowCount")
	TableSizeBytes     = fields.NewNumericField("sizeBytes", "sizeBytes")
	TableIsPartitioned = fields.NewBooleanField("isPartitioned", "isPartitioned")
	TableSchema        = fields.NewRelationField("atlanSchema")
	TableColumns       = fields.NewRelationField("columns")
)

type TableAttributes struct {
	SQLAttributes

	ColumnCount        int64     `json:"columnCount,omitempty"`
	RowCount           int64     `json:"rowCount,omitempty"`
	SizeBytes          int64     `json:"sizeBytes,omitempty"`
	Alias              string    `json:"alias,omitempty"`
	IsTemporary        bool      `json:"isTemporary,omitempty"`
	IsQueryPreview     bool      `json:"isQueryPreview,omitempty"`
	External           bool      `json:"external,omitempty"`
	ExternalLocation   string    `json:"externalLocation,omitempty"`
	TableType          string    `json:"tableType,omitempty"`
	IsPartitioned      bool      `json:"isPartitioned,omitempty"`
	PartitionStrategy  string    `json:"partitionStrategy,omitempty"`
	PartitionCount     int64     `json:"partitionCount,omitempty"`
	TableRetentionTime int64     `json:"tableRetentionTime,omitempty"`
	Schema             *Schema   `json:"atlanSchema,omitempty"`
	Columns            []*Column `json:"columns,omitempty"`
}

type Table struct {
	Entity
	Attributes TableAttributes `json:"attributes"`
}

func init() {
	Register(TableTypeName, func() Asset { return &Table{} })
}

// NewTable creates a table in the schema with the given qualified name.
func NewTable(name, schemaQualifiedName string, decorators ...EntityDecoratorFunc) (*Table, error) {
	t := &Table{Entity: newEntity(TableTypeName)}

	if err := placeInSchema(&t.Attributes.SQLAttributes, TableTypeName, name, schemaQualifiedName); err != nil {
		return nil, err
	}
	t.Attributes.Schema = RefByQualifiedName[Schema](schemaQualifiedName)

	decorate(t, decorators)

	return t, nil
}

func (t *Table) TypeName() string {
	return TableTypeName
}

func (t *Table) GetAttributes() *AssetAttributes {
	return &t.Attributes.AssetAttributes
}

func (t *Table) TrimToRequired() (Asset, error) {
	return trimToRequired[Table](t)
}

func (t Table) MarshalJSON() ([]byte, error) {
	return encodeAsset(TableTypeName, t.Entity, t.Attributes)
}

func (t *Table) UnmarshalJSON(data []byte) error {
	type plain Table
	return decodeAsset(data, TableTypeName, (*plain)(t))
}

// placeInSchema sets the name, qualified name and ancestry of an asset that lives in a schema.
func placeInSchema(attrs *SQLAttributes, typeName, name, schemaQualifiedName string) error {
	if err := requireFields(typeName, "name", name, "schemaQualifiedName", schemaQualifiedName); err != nil {
		return err
	}

	segments, err := qualifiedname.Split(schemaQualifiedName, SchemaTypeName, qualifiedname.SchemaSegments)
	if err != nil {
		return err
	}

	attrs.Name = name
	attrs.QualifiedName = qualifiedname.Join(schemaQualifiedName, name)
	attrs.ConnectionQualifiedName = qualifiedname.ConnectionQualifiedName(schemaQualifiedName)
	attrs.ConnectorName = segments[1]
	attrs.DatabaseName = segments[3]
	attrs.DatabaseQualifiedName = qualifiedname.Parent(schemaQualifiedName)
	attrs.SchemaName = segments[4]
	attrs.SchemaQualifiedName = schemaQualifiedName

	return nil
}
