package assets

import (
	"fmt"
	"strings"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
	"github.com/diwise/asset-catalog/pkg/catalog/search"
)

const (
	DataDomainTypeName  string = "DataDomain"
	DataProductTypeName string = "DataProduct"
)

type DataProductStatus string

const (
	DataProductActive   DataProductStatus = "Active"
	DataProductSunset   DataProductStatus = "Sunset"
	DataProductArchived DataProductStatus = "Archived"
)

type DataProductVisibility string

const (
	DataProductPrivate   DataProductVisibility = "Private"
	DataProductProtected DataProductVisibility = "Protected"
	DataProductPublic    DataProductVisibility = "Public"
)

var (
	DataMeshParentDomainQualifiedName = fields.NewKeywordTextField("parentDomainQualifiedName", "parentDomainQualifiedName", "parentDomainQualifiedName.text")
	DataMeshSuperDomainQualifiedName  = fields.NewKeywordTextField("superDomainQualifiedName", "superDomainQualifiedName", "superDomainQualifiedName.text")
	DataDomainSubDomains              = fields.NewRelationField("subDomains")
	DataDomainDataProducts            = fields.NewRelationField("dataProducts")
	DataProductStatusField            = fields.NewKeywordField("dataProductStatus", "dataProductStatus")
	DataProductCriticality            = fields.NewKeywordField("dataProductCriticality", "dataProductCriticality")
	DataProductAssetsDSL              = fields.NewTextField("dataProductAssetsDSL", "dataProductAssetsDSL")
	DataProductDomain                 = fields.NewRelationField("dataDomain")
)

const superDomainSegment string = "super"

// DataMeshAttributes are shared by domains and products.
type DataMeshAttributes struct {
	AssetAttributes

	ParentDomainQualifiedName string `json:"parentDomainQualifiedName,omitempty"`
	SuperDomainQualifiedName  string `json:"superDomainQualifiedName,omitempty"`
}

type DataDomainAttributes struct {
	DataMeshAttributes

	ParentDomain *DataDomain    `json:"parentDomain,omitempty"`
	SubDomains   []*DataDomain  `json:"subDomains,omitempty"`
	DataProducts []*DataProduct `json:"dataProducts,omitempty"`
}

type DataDomain struct {
	Entity
	Attributes DataDomainAttributes `json:"attributes"`
}

type DataProductAttributes struct {
	DataMeshAttributes

	DataProductStatus               DataProductStatus     `json:"dataProductStatus,omitempty"`
	DataProductCriticality          string                `json:"dataProductCriticality,omitempty"`
	DataProductSensitivity          string                `json:"dataProductSensitivity,omitempty"`
	DataProductVisibility           DataProductVisibility `json:"dataProductVisibility,omitempty"`
	DataProductAssetsDSL            string                `json:"dataProductAssetsDSL,omitempty"`
	DataProductAssetsPlaybookFilter string                `json:"dataProductAssetsPlaybookFilter,omitempty"`
	DataProductScore                float64               `json:"dataProductScore,omitempty"`
	DaapVisibilityUsers             []string              `json:"daapVisibilityUsers,omitempty"`
	DaapVisibilityGroups            []string              `json:"daapVisibilityGroups,omitempty"`
	DataDomain                      *DataDomain           `json:"dataDomain,omitempty"`
	OutputPorts                     Assets                `json:"outputPorts,omitempty"`
}

type DataProduct struct {
	Entity
	Attributes DataProductAttributes `json:"attributes"`
}

func init() {
	Register(DataDomainTypeName, func() Asset { return &DataDomain{} })
	Register(DataProductTypeName, func() Asset { return &DataProduct{} })
}

// NewDataDomain creates a domain. When parentDomainQualifiedName is empty a top level
// (super) domain is created, otherwise a sub domain of the given parent.
func NewDataDomain(name, parentDomainQualifiedName string, decorators ...EntityDecoratorFunc) (*DataDomain, error) {
	if err := requireFields(DataDomainTypeName, "name", name); err != nil {
		return nil, err
	}

	slug := qualifiedname.Slug(name)
	if slug == "" {
		return nil, catalogerrors.NewValidationError("DataDomain: name must contain letters or digits", "name")
	}

	d := &DataDomain{Entity: newEntity(DataDomainTypeName)}
	d.Attributes.Name = name

	if parentDomainQualifiedName == "" {
		d.Attributes.QualifiedName = qualifiedname.Join("default", "domain", slug, superDomainSegment)
	} else {
		super, err := superDomainOf(parentDomainQualifiedName)
		if err != nil {
			return nil, err
		}

		d.Attributes.QualifiedName = qualifiedname.Join(parentDomainQualifiedName, "domain", slug)
		d.Attributes.ParentDomainQualifiedName = parentDomainQualifiedName
		d.Attributes.SuperDomainQualifiedName = super
		d.Attributes.ParentDomain = RefByQualifiedName[DataDomain](parentDomainQualifiedName)
	}

	decorate(d, decorators)

	return d, nil
}

func (d *DataDomain) TypeName() string {
	return DataDomainTypeName
}

func (d *DataDomain) GetAttributes() *AssetAttributes {
	return &d.Attributes.AssetAttributes
}

func (d *DataDomain) TrimToRequired() (Asset, error) {
	return trimToRequired[DataDomain](d)
}

func (d DataDomain) MarshalJSON() ([]byte, error) {
	return encodeAsset(DataDomainTypeName, d.Entity, d.Attributes)
}

func (d *DataDomain) UnmarshalJSON(data []byte) error {
	type plain DataDomain
	return decodeAsset(data, DataDomainTypeName, (*plain)(d))
}

// NewDataProduct creates a product in the domain with the given qualified name. The
// assets that make up the product are those matched by assetSelection.
func NewDataProduct(name, domainQualifiedName string, assetSelection *search.Request, decorators ...EntityDecoratorFunc) (*DataProduct, error) {
	if err := requireFields(DataProductTypeName, "name", name, "domainQualifiedName", domainQualifiedName); err != nil {
		return nil, err
	}

	if assetSelection == nil {
		return nil, catalogerrors.NewRequiredFieldsError(DataProductTypeName, "assetSelection")
	}

	slug := qualifiedname.Slug(name)
	if slug == "" {
		return nil, catalogerrors.NewValidationError("DataProduct: name must contain letters or digits", "name")
	}

	super, err := superDomainOf(domainQualifiedName)
	if err != nil {
		return nil, err
	}

	dsl, err := assetSelection.DSL()
	if err != nil {
		return nil, err
	}

	p := &DataProduct{Entity: newEntity(DataProductTypeName)}
	p.Attributes.Name = name
	p.Attributes.QualifiedName = qualifiedname.Join(domainQualifiedName, "product", slug)
	p.Attributes.ParentDomainQualifiedName = domainQualifiedName
	p.Attributes.SuperDomainQualifiedName = super
	p.Attributes.DataProductAssetsDSL = dsl
	p.Attributes.DataProductStatus = DataProductActive
	p.Attributes.DataDomain = RefByQualifiedName[DataDomain](domainQualifiedName)

	decorate(p, decorators)

	return p, nil
}

func (p *DataProduct) TypeName() string {
	return DataProductTypeName
}

func (p *DataProduct) GetAttributes() *AssetAttributes {
	return &p.Attributes.AssetAttributes
}

func (p *DataProduct) TrimToRequired() (Asset, error) {
	return trimToRequired[DataProduct](p)
}

func (p DataProduct) MarshalJSON() ([]byte, error) {
	return encodeAsset(DataProductTypeName, p.Entity, p.Attributes)
}

func (p *DataProduct) UnmarshalJSON(data []byte) error {
	type plain DataProduct
	return decodeAsset(data, DataProductTypeName, (*plain)(p))
}

// superDomainOf returns the qualified name of the top level domain above the domain
// with the given qualified name, which always has the form default/domain/<slug>/super.
func superDomainOf(domainQualifiedName string) (string, error) {
	segments := strings.Split(domainQualifiedName, qualifiedname.Separator)

	if len(segments) < 4 || segments[0] != "default" || segments[1] != "domain" || segments[3] != superDomainSegment {
		return "", catalogerrors.NewValidationError(
			fmt.Sprintf("%q is not the qualified name of a domain", domainQualifiedName), "parentDomainQualifiedName",
		)
	}

	return strings.Join(segments[:4], qualifiedname.Separator), nil
}
