package assets

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/diwise/asset-catalog/pkg/catalog/connectors"
	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
)

// ExtensionType describes an asset type that is not declared in this package.
// ParentAttribute, if set, names the attribute in which NewExtension records the
// qualified name of the parent of a new asset.
type ExtensionType struct {
	TypeName        string
	SuperType       string
	ParentAttribute string
}

// ExtensionAttributes holds the common attributes of an extension asset. Any other
// attribute is kept, undecoded, in Extra.
type ExtensionAttributes struct {
	CatalogAttributes

	Extra map[string]json.RawMessage `json:"-"`
}

var catalogAttributeNames = sync.OnceValue(func() map[string]bool {
	return attributeNames(CatalogAttributes{})
})

func (a ExtensionAttributes) MarshalJSON() ([]byte, error) {
	type plain ExtensionAttributes

	b, err := json.Marshal(plain(a))
	if err != nil {
		return nil, err
	}

	if len(a.Extra) == 0 {
		return b, nil
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}

	for k, v := range a.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}

	return json.Marshal(merged)
}

func (a *ExtensionAttributes) UnmarshalJSON(data []byte) error {
	type plain ExtensionAttributes

	if err := json.Unmarshal(data, (*plain)(a)); err != nil {
		return err
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := catalogAttributeNames()
	for k, v := range raw {
		if known[k] {
			continue
		}
		if a.Extra == nil {
			a.Extra = map[string]json.RawMessage{}
		}
		a.Extra[k] = v
	}

	return nil
}

// Extension is an asset of a type registered with RegisterExtensionType.
type Extension struct {
	Entity
	Attributes ExtensionAttributes `json:"attributes"`

	superType string
}

// RegisterExtensionType makes assets of the described type resolvable.
func RegisterExtensionType(def ExtensionType) error {
	if err := requireFields("Extension", "typeName", def.TypeName, "superType", def.SuperType); err != nil {
		return err
	}

	factory := func() Asset {
		return &Extension{Entity: Entity{Type: def.TypeName}, superType: def.SuperType}
	}

	if err := RegisterExtension(def.TypeName, factory); err != nil {
		return err
	}

	extensions.Lock()
	extensions.types[def.TypeName] = def
	extensions.Unlock()

	return nil
}

func extensionType(typeName string) (ExtensionType, bool) {
	extensions.RLock()
	defer extensions.RUnlock()

	def, ok := extensions.types[typeName]
	return def, ok
}

// NewExtension creates an asset of a registered extension type. parentQualifiedName may
// be empty for types that are not placed below another asset.
func NewExtension(typeName, name, parentQualifiedName string, decorators ...EntityDecoratorFunc) (*Extension, error) {
	def, ok := extensionType(typeName)
	if !ok {
		return nil, catalogerrors.NewUnsupportedTypeError(typeName)
	}

	if err := requireFields(typeName, "name", name); err != nil {
		return nil, err
	}

	x := &Extension{Entity: newEntity(typeName), superType: def.SuperType}
	x.Attributes.Name = name
	x.Attributes.QualifiedName = name

	if parentQualifiedName != "" {
		x.Attributes.QualifiedName = qualifiedname.Join(parentQualifiedName, name)

		if connector, err := connectors.FromQualifiedName(parentQualifiedName); err == nil {
			x.Attributes.ConnectorName = connector.String()
			x.Attributes.ConnectionQualifiedName = qualifiedname.ConnectionQualifiedName(parentQualifiedName)
		}

		if def.ParentAttribute != "" {
			if err := x.SetAttribute(def.ParentAttribute, parentQualifiedName); err != nil {
				return nil, err
			}
		}
	}

	decorate(x, decorators)

	return x, nil
}

func (x *Extension) TypeName() string {
	return x.Type
}

// SuperType returns the name of the type this extension specializes.
func (x *Extension) SuperType() string {
	return x.superType
}

func (x *Extension) GetAttributes() *AssetAttributes {
	return &x.Attributes.AssetAttributes
}

// Attribute decodes the extra attribute with the given name into target.
func (x *Extension) Attribute(name string, target any) error {
	v, ok := x.Attributes.Extra[name]
	if !ok {
		return catalogerrors.NewNotFoundError(fmt.Sprintf("%s has no attribute %q", x.Type, name))
	}
	return json.Unmarshal(v, target)
}

func (x *Extension) SetAttribute(name string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal attribute %q: %w", name, err)
	}

	if x.Attributes.Extra == nil {
		x.Attributes.Extra = map[string]json.RawMessage{}
	}
	x.Attributes.Extra[name] = b

	return nil
}

func (x *Extension) TrimToRequired() (Asset, error) {
	if err := requireFields(x.Type, "qualifiedName", x.Attributes.QualifiedName, "name", x.Attributes.Name); err != nil {
		return nil, err
	}

	trimmed := &Extension{Entity: Entity{Type: x.Type}, superType: x.superType}
	trimmed.Attributes.QualifiedName = x.Attributes.QualifiedName
	trimmed.Attributes.Name = x.Attributes.Name

	return trimmed, nil
}

func (x Extension) MarshalJSON() ([]byte, error) {
	return encodeAsset(x.Type, x.Entity, x.Attributes)
}

func (x *Extension) UnmarshalJSON(data []byte) error {
	type plain Extension
	return decodeAsset(data, x.Type, (*plain)(x))
}
