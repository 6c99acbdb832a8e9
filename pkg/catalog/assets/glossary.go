package assets

import (
	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/google/uuid"
)

const (
	GlossaryTypeName         string = "AtlasGlossary"
	GlossaryTermTypeName     string = "AtlasGlossaryTerm"
	GlossaryCategoryTypeName string = "AtlasGlossaryCategory"
)

var (
	GlossaryShortDescription = fields.NewKeywordField("shortDescription", "shortDescription")
	GlossaryLongDescription  = fields.NewKeywordField("longDescription", "longDescription")
	GlossaryType             = fields.NewKeywordField("glossaryType", "glossaryType")
	GlossaryTerms            = fields.NewRelationField("terms")
	GlossaryCategories       = fields.NewRelationField("categories")
	GlossaryTermAnchor       = fields.NewKeywordField("anchor", "__glossary")
	GlossaryTermAbbreviation = fields.NewKeywordField("abbreviation", "abbreviation")
	GlossaryTermAssigned     = fields.NewRelationField("assignedEntities")
	GlossaryCategoryAnchor   = fields.NewKeywordField("anchor", "__glossary")
	GlossaryCategoryParent   = fields.NewKeywordField("parentCategory", "__parentCategory")
)

type GlossaryAttributes struct {
	AssetAttributes

	ShortDescription     string              `json:"shortDescription,omitempty"`
	LongDescription      string              `json:"longDescription,omitempty"`
	Language             string              `json:"language,omitempty"`
	Usage                string              `json:"usage,omitempty"`
	GlossaryType         string              `json:"glossaryType,omitempty"`
	AdditionalAttributes map[string]string   `json:"additionalAttributes,omitempty"`
	Terms                []*GlossaryTerm     `json:"terms,omitempty"`
	Categories           []*GlossaryCategory `json:"categories,omitempty"`
}

type Glossary struct {
	Entity
	Attributes GlossaryAttributes `json:"attributes"`
}

type GlossaryTermAttributes struct {
	AssetAttributes

	ShortDescription     string              `json:"shortDescription,omitempty"`
	LongDescription      string              `json:"longDescription,omitempty"`
	Examples             []string            `json:"examples,omitempty"`
	Abbreviation         string              `json:"abbreviation,omitempty"`
	Usage                string              `json:"usage,omitempty"`
	AdditionalAttributes map[string]string   `json:"additionalAttributes,omitempty"`
	Anchor               *Glossary           `json:"anchor,omitempty"`
	Categories           []*GlossaryCategory `json:"categories,omitempty"`
	AssignedEntities     Assets              `json:"assignedEntities,omitempty"`
	SeeAlso              []*GlossaryTerm     `json:"seeAlso,omitempty"`
	Synonyms             []*GlossaryTerm     `json:"synonyms,omitempty"`
	Antonyms             []*GlossaryTerm     `json:"antonyms,omitempty"`
	PreferredTerms       []*GlossaryTerm     `json:"preferredTerms,omitempty"`
	ReplacedBy           []*GlossaryTerm     `json:"replacedBy,omitempty"`
}

type GlossaryTerm struct {
	Entity
	Attributes GlossaryTermAttributes `json:"attributes"`
}

type GlossaryCategoryAttributes struct {
	AssetAttributes

	ShortDescription     string              `json:"shortDescription,omitempty"`
	LongDescription      string              `json:"longDescription,omitempty"`
	AdditionalAttributes map[string]string   `json:"additionalAttributes,omitempty"`
	Anchor               *Glossary           `json:"anchor,omitempty"`
	ParentCategory       *GlossaryCategory   `json:"parentCategory,omitempty"`
	ChildrenCategories   []*GlossaryCategory `json:"childrenCategories,omitempty"`
	Terms                []*GlossaryTerm     `json:"terms,omitempty"`
}

type GlossaryCategory struct {
	Entity
	Attributes GlossaryCategoryAttributes `json:"attributes"`
}

func init() {
	Register(GlossaryTypeName, func() Asset { return &Glossary{} })
	Register(GlossaryTermTypeName, func() Asset { return &GlossaryTerm{} })
	Register(GlossaryCategoryTypeName, func() Asset { return &GlossaryCategory{} })
}

func NewGlossary(name string, decorators ...EntityDecoratorFunc) (*Glossary, error) {
	if err := requireFields(GlossaryTypeName, "name", name); err != nil {
		return nil, err
	}

	g := &Glossary{Entity: newEntity(GlossaryTypeName)}
	g.Attributes.Name = name
	g.Attributes.QualifiedName = uuid.NewString()

	decorate(g, decorators)

	return g, nil
}

func (g *Glossary) TypeName() string {
	return GlossaryTypeName
}

func (g *Glossary) GetAttributes() *AssetAttributes {
	return &g.Attributes.AssetAttributes
}

func (g *Glossary) TrimToRequired() (Asset, error) {
	return trimToRequired[Glossary](g)
}

func (g Glossary) MarshalJSON() ([]byte, error) {
	return encodeAsset(GlossaryTypeName, g.Entity, g.Attributes)
}

func (g *Glossary) UnmarshalJSON(data []byte) error {
	type plain Glossary
	return decodeAsset(data, GlossaryTypeName, (*plain)(g))
}

// NewGlossaryTerm creates a term in a glossary that is identified either by its guid
// or, when the guid is empty, by its qualified name.
func NewGlossaryTerm(name, glossaryGUID, glossaryQualifiedName string, decorators ...EntityDecoratorFunc) (*GlossaryTerm, error) {
	anchor, err := glossaryAnchor(GlossaryTermTypeName, glossaryGUID, glossaryQualifiedName)
	if err != nil {
		return nil, err
	}

	if err := requireFields(GlossaryTermTypeName, "name", name); err != nil {
		return nil, err
	}

	t := &GlossaryTerm{Entity: newEntity(GlossaryTermTypeName)}
	t.Attributes.Name = name
	t.Attributes.QualifiedName = uuid.NewString()
	t.Attributes.Anchor = anchor

	decorate(t, decorators)

	return t, nil
}

func (t *GlossaryTerm) TypeName() string {
	return GlossaryTermTypeName
}

func (t *GlossaryTerm) GetAttributes() *AssetAttributes {
	return &t.Attributes.AssetAttributes
}

// TrimToRequired keeps the anchor, which is required when updating a term.
func (t *GlossaryTerm) TrimToRequired() (Asset, error) {
	trimmed, err := Updater[GlossaryTerm](t.Attributes.QualifiedName, t.Attributes.Name)
	if err != nil {
		return nil, err
	}

	if trimmed.Attributes.Anchor, err = trimAnchor(GlossaryTermTypeName, t.Attributes.Anchor); err != nil {
		return nil, err
	}

	return trimmed, nil
}

func (t GlossaryTerm) MarshalJSON() ([]byte, error) {
	return encodeAsset(GlossaryTermTypeName, t.Entity, t.Attributes)
}

func (t *GlossaryTerm) UnmarshalJSON(data []byte) error {
	type plain GlossaryTerm
	return decodeAsset(data, GlossaryTermTypeName, (*plain)(t))
}

// NewGlossaryCategory creates a category in a glossary that is identified either by
// its guid or, when the guid is empty, by its qualified name.
func NewGlossaryCategory(name, glossaryGUID, glossaryQualifiedName string, decorators ...EntityDecoratorFunc) (*GlossaryCategory, error) {
	anchor, err := glossaryAnchor(GlossaryCategoryTypeName, glossaryGUID, glossaryQualifiedName)
	if err != nil {
		return nil, err
	}

	if err := requireFields(GlossaryCategoryTypeName, "name", name); err != nil {
		return nil, err
	}

	c := &GlossaryCategory{Entity: newEntity(GlossaryCategoryTypeName)}
	c.Attributes.Name = name
	c.Attributes.QualifiedName = uuid.NewString()
	c.Attributes.Anchor = anchor

	decorate(c, decorators)

	return c, nil
}

func ParentCategory(parent *GlossaryCategory) EntityDecoratorFunc {
	return func(a Asset) {
		if c, ok := a.(*GlossaryCategory); ok && parent != nil {
			if ref, err := referenceTo(parent); err == nil {
				c.Attributes.ParentCategory = ref.(*GlossaryCategory)
			}
		}
	}
}

func (c *GlossaryCategory) TypeName() string {
	return GlossaryCategoryTypeName
}

func (c *GlossaryCategory) GetAttributes() *AssetAttributes {
	return &c.Attributes.AssetAttributes
}

// TrimToRequired keeps the anchor, which is required when updating a category.
func (c *GlossaryCategory) TrimToRequired() (Asset, error) {
	trimmed, err := Updater[GlossaryCategory](c.Attributes.QualifiedName, c.Attributes.Name)
	if err != nil {
		return nil, err
	}

	if trimmed.Attributes.Anchor, err = trimAnchor(GlossaryCategoryTypeName, c.Attributes.Anchor); err != nil {
		return nil, err
	}

	return trimmed, nil
}

func (c GlossaryCategory) MarshalJSON() ([]byte, error) {
	return encodeAsset(GlossaryCategoryTypeName, c.Entity, c.Attributes)
}

func (c *GlossaryCategory) UnmarshalJSON(data []byte) error {
	type plain GlossaryCategory
	return decodeAsset(data, GlossaryCategoryTypeName, (*plain)(c))
}

func glossaryAnchor(typeName, glossaryGUID, glossaryQualifiedName string) (*Glossary, error) {
	if glossaryGUID != "" {
		return RefByGUID[Glossary](glossaryGUID), nil
	}
	if glossaryQualifiedName != "" {
		return RefByQualifiedName[Glossary](glossaryQualifiedName), nil
	}
	return nil, catalogerrors.NewRequiredFieldsError(typeName, "anchor")
}

func trimAnchor(typeName string, anchor *Glossary) (*Glossary, error) {
	if anchor == nil {
		return nil, catalogerrors.NewRequiredFieldsError(typeName, "anchor")
	}

	ref, err := referenceTo(anchor)
	if err != nil {
		return nil, err
	}

	return ref.(*Glossary), nil
}
