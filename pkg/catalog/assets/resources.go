package assets

import (
	"bytes"
	"fmt"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
)

const (
	ReadmeTypeName string = "Readme"
	LinkTypeName   string = "Link"
)

var (
	ResourceLink      = fields.NewKeywordField("link", "link")
	ResourceIsGlobal  = fields.NewBooleanField("isGlobal", "isGlobal")
	ResourceReference = fields.NewKeywordField("reference", "reference")
	ReadmeAsset       = fields.NewRelationField("asset")
	LinkAsset         = fields.NewRelationField("asset")
)

// ResourceAttributes are shared by the resources (readmes and links) attached to assets.
type ResourceAttributes struct {
	AssetAttributes

	Link             string            `json:"link,omitempty"`
	IsGlobal         bool              `json:"isGlobal,omitempty"`
	Reference        string            `json:"reference,omitempty"`
	ResourceMetadata map[string]string `json:"resourceMetadata,omitempty"`
}

type ReadmeAttributes struct {
	ResourceAttributes

	Asset   *AnyAsset `json:"asset,omitempty"`
	SeeAlso []*Readme `json:"seeAlso,omitempty"`
}

type Readme struct {
	Entity
	Attributes ReadmeAttributes `json:"attributes"`
}

type LinkAttributes struct {
	ResourceAttributes

	Icon     string    `json:"icon,omitempty"`
	IconType string    `json:"iconType,omitempty"`
	Asset    *AnyAsset `json:"asset,omitempty"`
}

type Link struct {
	Entity
	Attributes LinkAttributes `json:"attributes"`
}

func init() {
	Register(ReadmeTypeName, func() Asset { return &Readme{} })
	Register(LinkTypeName, func() Asset { return &Link{} })
}

// NewReadme creates a readme with HTML content for an existing asset. The asset must
// have a guid and a name.
func NewReadme(asset Asset, content string, decorators ...EntityDecoratorFunc) (*Readme, error) {
	if asset == nil {
		return nil, catalogerrors.NewRequiredFieldsError(ReadmeTypeName, "asset")
	}

	guid := asset.GetEntity().GUID
	if isPlaceholderGUID(guid) {
		guid = ""
	}

	assetName := asset.GetAttributes().Name
	if err := requireFields(ReadmeTypeName, "asset.guid", guid, "asset.name", assetName); err != nil {
		return nil, err
	}

	ref, err := referenceTo(asset)
	if err != nil {
		return nil, err
	}

	r := &Readme{Entity: newEntity(ReadmeTypeName)}
	r.Attributes.Name = fmt.Sprintf("%s Readme", assetName)
	r.Attributes.QualifiedName = qualifiedname.Join(guid, "readme")
	r.Attributes.Description = content
	r.Attributes.Asset = NewAnyAsset(ref)

	decorate(r, decorators)

	return r, nil
}

// NewReadmeFromMarkdown creates a readme for an existing asset, rendering markdown to HTML.
func NewReadmeFromMarkdown(asset Asset, markdown string, decorators ...EntityDecoratorFunc) (*Readme, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("failed to render readme: %w", err)
	}

	return NewReadme(asset, buf.String(), decorators...)
}

func (r *Readme) TypeName() string {
	return ReadmeTypeName
}

func (r *Readme) GetAttributes() *AssetAttributes {
	return &r.Attributes.AssetAttributes
}

func (r *Readme) TrimToRequired() (Asset, error) {
	return trimToRequired[Readme](r)
}

func (r Readme) MarshalJSON() ([]byte, error) {
	return encodeAsset(ReadmeTypeName, r.Entity, r.Attributes)
}

func (r *Readme) UnmarshalJSON(data []byte) error {
	type plain Readme
	return decodeAsset(data, ReadmeTypeName, (*plain)(r))
}

// NewLink creates a link to url, attached to an asset that has a qualified name.
func NewLink(asset Asset, name, url string, decorators ...EntityDecoratorFunc) (*Link, error) {
	if asset == nil {
		return nil, catalogerrors.NewRequiredFieldsError(LinkTypeName, "asset")
	}

	assetQualifiedName := qualifiedNameOf(asset)
	if err := requireFields(LinkTypeName, "name", name, "link", url, "asset.qualifiedName", assetQualifiedName); err != nil {
		return nil, err
	}

	ref, err := referenceTo(asset)
	if err != nil {
		return nil, err
	}

	l := &Link{Entity: newEntity(LinkTypeName)}
	l.Attributes.Name = name
	l.Attributes.Link = url
	l.Attributes.QualifiedName = qualifiedname.Join(assetQualifiedName, uuid.NewString())
	l.Attributes.Asset = NewAnyAsset(ref)

	decorate(l, decorators)

	return l, nil
}

func (l *Link) TypeName() string {
	return LinkTypeName
}

func (l *Link) GetAttributes() *AssetAttributes {
	return &l.Attributes.AssetAttributes
}

func (l *Link) TrimToRequired() (Asset, error) {
	return trimToRequired[Link](l)
}

func (l Link) MarshalJSON() ([]byte, error) {
	return encodeAsset(LinkTypeName, l.Entity, l.Attributes)
}

func (l *Link) UnmarshalJSON(data []byte) error {
	type plain Link
	return decodeAsset(data, LinkTypeName, (*plain)(l))
}
