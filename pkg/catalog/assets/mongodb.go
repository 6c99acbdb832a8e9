package assets

import (
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
)

const (
	MongoDBDatabaseTypeName   string = "MongoDBDatabase"
	MongoDBCollectionTypeName string = "MongoDBCollection"
)

var (
	MongoDBDatabaseCollectionCount    = fields.NewNumericField("mongoDBDatabaseCollectionCount", "mongoDBDatabaseCollectionCount")
	MongoDBCollectionSubtype          = fields.NewKeywordTextField("mongoDBCollectionSubtype", "mongoDBCollectionSubtype", "mongoDBCollectionSubtype.text")
	MongoDBCollectionIsCapped         = fields.NewBooleanField("mongoDBCollectionIsCapped", "mongoDBCollectionIsCapped")
	MongoDBCollectionDocumentCount    = fields.NewNumericField("mongoDBCollectionMaximumDocumentCount", "mongoDBCollectionMaximumDocumentCount")
	MongoDBCollectionSchemaDefinition = fields.NewTextField("mongoDBCollectionSchemaDefinition", "mongoDBCollectionSchemaDefinition")
	MongoDBCollectionDatabase         = fields.NewRelationField("mongoDBDatabase")
)

type MongoDBDatabaseAttributes struct {
	DatabaseAttributes

	MongoDBDatabaseCollectionCount int64                `json:"mongoDBDatabaseCollectionCount,omitempty"`
	MongoDBCollections             []*MongoDBCollection `json:"mongoDBCollections,omitempty"`
}

type MongoDBDatabase struct {
	Entity
	Attributes MongoDBDatabaseAttributes `json:"attributes"`
}

type MongoDBCollectionAttributes struct {
	TableAttributes

	MongoDBCollectionSubtype              string           `json:"mongoDBCollectionSubtype,omitempty"`
	MongoDBCollectionIsCapped             bool             `json:"mongoDBCollectionIsCapped,omitempty"`
	MongoDBCollectionTimeField            string           `json:"mongoDBCollectionTimeField,omitempty"`
	MongoDBCollectionTimeGranularity      string           `json:"mongoDBCollectionTimeGranularity,omitempty"`
	MongoDBCollectionExpireAfterSeconds   int64            `json:"mongoDBCollectionExpireAfterSeconds,omitempty"`
	MongoDBCollectionMaximumDocumentCount int64            `json:"mongoDBCollectionMaximumDocumentCount,omitempty"`
	MongoDBCollectionMaxSize              int64            `json:"mongoDBCollectionMaxSize,omitempty"`
	MongoDBCollectionNumOrphanDocs        int64            `json:"mongoDBCollectionNumOrphanDocs,omitempty"`
	MongoDBCollectionNumIndexes           int64            `json:"mongoDBCollectionNumIndexes,omitempty"`
	MongoDBCollectionTotalIndexSize       int64            `json:"mongoDBCollectionTotalIndexSize,omitempty"`
	MongoDBCollectionAverageObjectSize    int64            `json:"mongoDBCollectionAverageObjectSize,omitempty"`
	MongoDBCollectionSchemaDefinition     string           `json:"mongoDBCollectionSchemaDefinition,omitempty"`
	MongoDBDatabase                       *MongoDBDatabase `json:"mongoDBDatabase,omitempty"`
}

type MongoDBCollection struct {
	Entity
	Attributes MongoDBCollectionAttributes `json:"attributes"`
}

func init() {
	Register(MongoDBDatabaseTypeName, func() Asset { return &MongoDBDatabase{} })
	Register(MongoDBCollectionTypeName, func() Asset { return &MongoDBCollection{} })
}

// NewMongoDBDatabase creates a database below the MongoDB connection with the given qualified name.
func NewMongoDBDatabase(name, connectionQualifiedName string, decorators ...EntityDecoratorFunc) (*MongoDBDatabase, error) {
	if err := requireFields(MongoDBDatabaseTypeName, "name", name, "connectionQualifiedName", connectionQualifiedName); err != nil {
		return nil, err
	}

	segments, err := qualifiedname.Split(connectionQualifiedName, ConnectionTypeName, qualifiedname.ConnectionSegments)
	if err != nil {
		return nil, err
	}

	d := &MongoDBDatabase{Entity: newEntity(MongoDBDatabaseTypeName)}
	d.Attributes.Name = name
	d.Attributes.QualifiedName = qualifiedname.Join(connectionQualifiedName, name)
	d.Attributes.ConnectionQualifiedName = connectionQualifiedName
	d.Attributes.ConnectorName = segments[1]

	decorate(d, decorators)

	return d, nil
}

func (d *MongoDBDatabase) TypeName() string {
	return MongoDBDatabaseTypeName
}

func (d *MongoDBDatabase) GetAttributes() *AssetAttributes {
	return &d.Attributes.AssetAttributes
}

func (d *MongoDBDatabase) TrimToRequired() (Asset, error) {
	return trimToRequired[MongoDBDatabase](d)
}

func (d MongoDBDatabase) MarshalJSON() ([]byte, error) {
	return encodeAsset(MongoDBDatabaseTypeName, d.Entity, d.Attributes)
}

func (d *MongoDBDatabase) UnmarshalJSON(data []byte) error {
	type plain MongoDBDatabase
	return decodeAsset(data, MongoDBDatabaseTypeName, (*plain)(d))
}

// NewMongoDBCollection creates a collection in the MongoDB database with the given qualified name.
func NewMongoDBCollection(name, databaseQualifiedName string, decorators ...EntityDecoratorFunc) (*MongoDBCollection, error) {
	if err := requireFields(MongoDBCollectionTypeName, "name", name, "databaseQualifiedName", databaseQualifiedName); err != nil {
		return nil, err
	}

	segments, err := qualifiedname.Split(databaseQualifiedName, MongoDBDatabaseTypeName, qualifiedname.DatabaseSegments)
	if err != nil {
		return nil, err
	}

	c := &MongoDBCollection{Entity: newEntity(MongoDBCollectionTypeName)}

	attrs := &c.Attributes
	attrs.Name = name
	attrs.QualifiedName = qualifiedname.Join(databaseQualifiedName, name)
	attrs.ConnectionQualifiedName = qualifiedname.ConnectionQualifiedName(databaseQualifiedName)
	attrs.ConnectorName = segments[1]
	attrs.DatabaseName = segments[3]
	attrs.DatabaseQualifiedName = databaseQualifiedName
	attrs.MongoDBDatabase = RefByQualifiedName[MongoDBDatabase](databaseQualifiedName)

	decorate(c, decorators)

	return c, nil
}

func (c *MongoDBCollection) TypeName() string {
	return MongoDBCollectionTypeName
}

func (c *MongoDBCollection) GetAttributes() *AssetAttributes {
	return &c.Attributes.AssetAttributes
}

func (c *MongoDBCollection) TrimToRequired() (Asset, error) {
	return trimToRequired[MongoDBCollection](c)
}

func (c MongoDBCollection) MarshalJSON() ([]byte, error) {
	return encodeAsset(MongoDBCollectionTypeName, c.Entity, c.Attributes)
}

func (c *MongoDBCollection) UnmarshalJSON(data []byte) error {
	type plain MongoDBCollection
	return decodeAsset(data, MongoDBCollectionTypeName, (*plain)(c))
}
