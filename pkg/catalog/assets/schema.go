package assets

import (
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
)

const SchemaTypeName string = "Schema"

var (
	SchemaTableCount = fields.NewNumericField("tableCount", "tableCount")
	SchemaViewCount  = fields.NewNumericField("viewsCount", "viewsCount")
	SchemaDatabase   = fields.NewRelationField("database")
	SchemaTables     = fields.NewRelationField("tables")
	SchemaViews      = fields.NewRelationField("views")
)

type SchemaAttributes struct {
	SQLAttributes

	TableCount                int64               `json:"tableCount,omitempty"`
	ViewsCount                int64               `json:"viewsCount,omitempty"`
	LinkedSchemaQualifiedName string              `json:"linkedSchemaQualifiedName,omitempty"`
	Database                  *Database           `json:"database,omitempty"`
	Tables                    []*Table            `json:"tables,omitempty"`
	Views                     []*View             `json:"views,omitempty"`
	MaterialisedViews         []*MaterialisedView `json:"materialisedViews,omitempty"`
	Procedures                []*Procedure        `json:"procedures,omitempty"`
}

type Schema struct {
	Entity
	Attributes SchemaAttributes `json:"attributes"`
}

func init() {
	Register(SchemaTypeName, func() Asset { return &Schema{} })
}

// NewSchema creates a schema in the database with the given qualified name.
func NewSchema(name, databaseQualifiedName string, decorators ...EntityDecoratorFunc) (*Schema, error) {
	if err := requireFields(SchemaTypeName, "name", name, "databaseQualifiedName", databaseQualifiedName); err != nil {
		return nil, err
	}

	segments, err := qualifiedname.Split(databaseQualifiedName, DatabaseTypeName, qualifiedname.DatabaseSegments)
	if err != nil {
		return nil, err
	}

	s := &Schema{Entity: newEntity(SchemaTypeName)}
	s.Attributes.Name = name
	s.Attributes.QualifiedName = qualifiedname.Join(databaseQualifiedName, name)
	s.Attributes.ConnectionQualifiedName = qualifiedname.ConnectionQualifiedName(databaseQualifiedName)
	s.Attributes.ConnectorName = segments[1]
	s.Attributes.DatabaseName = segments[3]
	s.Attributes.DatabaseQualifiedName = databaseQualifiedName
	s.Attributes.Database = RefByQualifiedName[Database](databaseQualifiedName)

	decorate(s, decorators)

	return s, nil
}

func (s *Schema) TypeName() string {
	return SchemaTypeName
}

func (s *Schema) GetAttributes() *AssetAttributes {
	return &s.Attributes.AssetAttributes
}

func (s *Schema) TrimToRequired() (Asset, error) {
	return trimToRequired[Schema](s)
}

func (s Schema) MarshalJSON() ([]byte, error) {
	return encodeAsset(SchemaTypeName, s.Entity, s.Attributes)
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	type plain Schema
	return decodeAsset(data, SchemaTypeName, (*plain)(s))
}
