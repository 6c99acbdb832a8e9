package assets

import (
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
)

const DatabaseTypeName string = "Database"

var (
	DatabaseSchemaCount = fields.NewNumericField("schemaCount", "schemaCount")
	DatabaseSchemas     = fields.NewRelationField("schemas")
)

type DatabaseAttributes struct {
	SQLAttributes

	SchemaCount int64     `json:"schemaCount,omitempty"`
	Schemas     []*Schema `json:"schemas,omitempty"`
}

type Database struct {
	Entity
	Attributes DatabaseAttributes `json:"attributes"`
}

func init() {
	Register(DatabaseTypeName, func() Asset { return &Database{} })
}

// NewDatabase creates a database below the connection with the given qualified name.
func NewDatabase(name, connectionQualifiedName string, decorators ...EntityDecoratorFunc) (*Database, error) {
	if err := requireFields(DatabaseTypeName, "name", name, "connectionQualifiedName", connectionQualifiedName); err != nil {
		return nil, err
	}

	segments, err := qualifiedname.Split(connectionQualifiedName, ConnectionTypeName, qualifiedname.ConnectionSegments)
	if err != nil {
		return nil, err
	}

	d := &Database{Entity: newEntity(DatabaseTypeName)}
	d.Attributes.Name = name
	d.Attributes.QualifiedName = qualifiedname.Join(connectionQualifiedName, name)
	d.Attributes.ConnectionQualifiedName = connectionQualifiedName
	d.Attributes.ConnectorName = segments[1]

	decorate(d, decorators)

	return d, nil
}

func (d *Database) TypeName() string {
	return DatabaseTypeName
}

func (d *Database) GetAttributes() *AssetAttributes {
	return &d.Attributes.AssetAttributes
}

func (d *Database) TrimToRequired() (Asset, error) {
	return trimToRequired[Database](d)
}

func (d Database) MarshalJSON() ([]byte, error) {
	return encodeAsset(DatabaseTypeName, d.Entity, d.Attributes)
}

func (d *Database) UnmarshalJSON(data []byte) error {
	type plain Database
	return decodeAsset(data, DatabaseTypeName, (*plain)(d))
}
