package assets

import (
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
)

const MaterialisedViewTypeName string = "MaterialisedView"

var (
	MaterialisedViewRefreshMode   = fields.NewKeywordField("refreshMode", "refreshMode")
	MaterialisedViewRefreshMethod = fields.NewKeywordField("refreshMethod", "refreshMethod")
	MaterialisedViewStaleness     = fields.NewKeywordField("staleness", "staleness")
	MaterialisedViewColumnCount   = fields.NewNumericField("columnCount", "columnCount")
	MaterialisedViewSchema        = fields.NewRelationField("atlanSchema")
)

type MaterialisedViewAttributes struct {
	SQLAttributes

	RefreshMode    string    `json:"refreshMode,omitempty"`
	RefreshMethod  string    `json:"refreshMethod,omitempty"`
	Staleness      string    `json:"staleness,omitempty"`
	StaleSinceDate int64     `json:"staleSinceDate,omitempty"`
	ColumnCount    int64     `json:"columnCount,omitempty"`
	RowCount       int64     `json:"rowCount,omitempty"`
	SizeBytes      int64     `json:"sizeBytes,omitempty"`
	IsQueryPreview bool      `json:"isQueryPreview,omitempty"`
	Definition     string    `json:"definition,omitempty"`
	Schema         *Schema   `json:"atlanSchema,omitempty"`
	Columns        []*Column `json:"columns,omitempty"`
}

type MaterialisedView struct {
	Entity
	Attributes MaterialisedViewAttributes `json:"attributes"`
}

func init() {
	Register(MaterialisedViewTypeName, func() Asset { return &MaterialisedView{} })
}

func NewMaterialisedView(name, schemaQualifiedName string, decorators ...EntityDecoratorFunc) (*MaterialisedView, error) {
	mv := &MaterialisedView{Entity: newEntity(MaterialisedViewTypeName)}

	if err := placeInSchema(&mv.Attributes.SQLAttributes, MaterialisedViewTypeName, name, schemaQualifiedName); err != nil {
		return nil, err
	}
	mv.Attributes.Schema = RefByQualifiedName[Schema](schemaQualifiedName)

	decorate(mv, decorators)

	return mv, nil
}

func (mv *MaterialisedView) TypeName() string {
	return MaterialisedViewTypeName
}

func (mv *MaterialisedView) GetAttributes() *AssetAttributes {
	return &mv.Attributes.AssetAttributes
}

func (mv *MaterialisedView) TrimToRequired() (Asset, error) {
	return trimToRequired[MaterialisedView](mv)
}

func (mv MaterialisedView) MarshalJSON() ([]byte, error) {
	return encodeAsset(MaterialisedViewTypeName, mv.Entity, mv.Attributes)
}

func (mv *MaterialisedView) UnmarshalJSON(data []byte) error {
	type plain MaterialisedView
	return decodeAsset(data, MaterialisedViewTypeName, (*plain)(mv))
}
