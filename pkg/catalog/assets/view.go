package assets

import (
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
)

const ViewTypeName string = "View"

var (
	ViewColumnCount = fields.NewNumericField("columnCount", "columnCount")
	ViewDefinition  = fields.NewKeywordField("definition", "definition")
	ViewSchema      = fields.NewRelationField("atlanSchema")
	ViewColumns     = fields.NewRelationField("columns")
)

type ViewAttributes struct {
	SQLAttributes

	ColumnCount    int64     `json:"columnCount,omitempty"`
	RowCount       int64     `json:"rowCount,omitempty"`
	SizeBytes      int64     `json:"sizeBytes,omitempty"`
	Alias          string    `json:"alias,omitempty"`
	IsTemporary    bool      `json:"isTemporary,omitempty"`
	IsQueryPreview bool      `json:"isQueryPreview,omitempty"`
	Definition     string    `json:"definition,omitempty"`
	Schema         *Schema   `json:"atlanSchema,omitempty"`
	Columns        []*Column `json:"columns,omitempty"`
}

type View struct {
	Entity
	Attributes ViewAttributes `json:"attributes"`
}

func init() {
	Register(ViewTypeName, func() Asset { return &View{} })
}

func NewView(name, schemaQualifiedName string, decorators ...EntityDecoratorFunc) (*View, error) {
	v := &View{Entity: newEntity(ViewTypeName)}

	if err := placeInSchema(&v.Attributes.SQLAttributes, ViewTypeName, name, schemaQualifiedName); err != nil {
		return nil, err
	}
	v.Attributes.Schema = RefByQualifiedName[Schema](schemaQualifiedName)

	decorate(v, decorators)

	return v, nil
}

func (v *View) TypeName() string {
	return ViewTypeName
}

func (v *View) GetAttributes() *AssetAttributes {
	return &v.Attributes.AssetAttributes
}

func (v *View) TrimToRequired() (Asset, error) {
	return trimToRequired[View](v)
}

func (v View) MarshalJSON() ([]byte, error) {
	return encodeAsset(ViewTypeName, v.Entity, v.Attributes)
}

func (v *View) UnmarshalJSON(data []byte) error {
	type plain View
	return decodeAsset(data, ViewTypeName, (*plain)(v))
}
