package assets

import (
	"context"
	"fmt"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/tags"
)

const (
	PersonaTypeName string = "Persona"
	PurposeTypeName string = "Purpose"
)

var (
	AccessControlIsEnabled = fields.NewBooleanField("isAccessControlEnabled", "isAccessControlEnabled")
	AccessControlDenyTabs  = fields.NewKeywordField("denyAssetTabs", "denyAssetTabs")
	PersonaGroups          = fields.NewKeywordField("personaGroups", "personaGroups")
	PersonaUsers           = fields.NewKeywordField("personaUsers", "personaUsers")
	PurposeAtlanTags       = fields.NewKeywordField("purposeClassifications", "purposeClassifications")
)

// AccessControlAttributes are shared by personas and purposes.
type AccessControlAttributes struct {
	AssetAttributes

	IsAccessControlEnabled  bool     `json:"isAccessControlEnabled,omitempty"`
	DenyCustomMetadataGUIDs []string `json:"denyCustomMetadataGuids,omitempty"`
	DenyAssetTabs           []string `json:"denyAssetTabs,omitempty"`
	DenyAssetFilters        []string `json:"denyAssetFilters,omitempty"`
	DenyAssetTypes          []string `json:"denyAssetTypes,omitempty"`
	DenyNavigationPages     []string `json:"denyNavigationPages,omitempty"`
	DefaultNavigation       string   `json:"defaultNavigation,omitempty"`
	ChannelLink             string   `json:"channelLink,omitempty"`
}

type PersonaAttributes struct {
	AccessControlAttributes

	PersonaGroups []string `json:"personaGroups,omitempty"`
	PersonaUsers  []string `json:"personaUsers,omitempty"`
	RoleID        string   `json:"roleId,omitempty"`
}

type Persona struct {
	Entity
	Attributes PersonaAttributes `json:"attributes"`
}

type PurposeAttributes struct {
	AccessControlAttributes

	PurposeAtlanTags []string `json:"purposeClassifications,omitempty"`
}

type Purpose struct {
	Entity
	Attributes PurposeAttributes `json:"attributes"`
}

func init() {
	Register(PersonaTypeName, func() Asset { return &Persona{} })
	Register(PurposeTypeName, func() Asset { return &Purpose{} })
}

func NewPersona(name string, decorators ...EntityDecoratorFunc) (*Persona, error) {
	if err := requireFields(PersonaTypeName, "name", name); err != nil {
		return nil, err
	}

	p := &Persona{Entity: newEntity(PersonaTypeName)}
	p.Attributes.Name = name
	p.Attributes.DisplayName = name
	p.Attributes.QualifiedName = name
	p.Attributes.IsAccessControlEnabled = true

	decorate(p, decorators)

	return p, nil
}

func (p *Persona) TypeName() string {
	return PersonaTypeName
}

func (p *Persona) GetAttributes() *AssetAttributes {
	return &p.Attributes.AssetAttributes
}

// TrimToRequired keeps the access control flag, which is sent with every update.
func (p *Persona) TrimToRequired() (Asset, error) {
	trimmed, err := Updater[Persona](p.Attributes.QualifiedName, p.Attributes.Name)
	if err != nil {
		return nil, err
	}
	trimmed.Attributes.IsAccessControlEnabled = p.Attributes.IsAccessControlEnabled
	return trimmed, nil
}

func (p Persona) MarshalJSON() ([]byte, error) {
	return encodeAsset(PersonaTypeName, p.Entity, p.Attributes)
}

func (p *Persona) UnmarshalJSON(data []byte) error {
	type plain Persona
	return decodeAsset(data, PersonaTypeName, (*plain)(p))
}

// NewPurpose creates a purpose covering the assets tagged with any of the given tags.
// Tag names are translated into tag ids with resolver.
func NewPurpose(ctx context.Context, name string, tagNames []string, resolver tags.IDResolver, decorators ...EntityDecoratorFunc) (*Purpose, error) {
	if err := requireFields(PurposeTypeName, "name", name); err != nil {
		return nil, err
	}

	if len(tagNames) == 0 {
		return nil, catalogerrors.NewRequiredFieldsError(PurposeTypeName, "atlanTags")
	}

	ids := make([]string, 0, len(tagNames))
	for _, tagName := range tagNames {
		id, err := resolver.IDForName(ctx, tagName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tag %q for purpose %q: %w", tagName, name, err)
		}
		ids = append(ids, id)
	}

	p := &Purpose{Entity: newEntity(PurposeTypeName)}
	p.Attributes.Name = name
	p.Attributes.DisplayName = name
	p.Attributes.QualifiedName = name
	p.Attributes.IsAccessControlEnabled = true
	p.Attributes.PurposeAtlanTags = ids

	decorate(p, decorators)

	return p, nil
}

func (p *Purpose) TypeName() string {
	return PurposeTypeName
}

func (p *Purpose) GetAttributes() *AssetAttributes {
	return &p.Attributes.AssetAttributes
}

// TrimToRequired keeps the access control flag, which is sent with every update.
func (p *Purpose) TrimToRequired() (Asset, error) {
	trimmed, err := Updater[Purpose](p.Attributes.QualifiedName, p.Attributes.Name)
	if err != nil {
		return nil, err
	}
	trimmed.Attributes.IsAccessControlEnabled = p.Attributes.IsAccessControlEnabled
	return trimmed, nil
}

func (p Purpose) MarshalJSON() ([]byte, error) {
	return encodeAsset(PurposeTypeName, p.Entity, p.Attributes)
}

func (p *Purpose) UnmarshalJSON(data []byte) error {
	type plain Purpose
	return decodeAsset(data, PurposeTypeName, (*plain)(p))
}
