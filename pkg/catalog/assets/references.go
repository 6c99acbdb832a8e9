package assets

import (
	"encoding/json"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
)

type ReferenceOptionFunc func(e *Entity)

// WithSemantic sets how the reference is merged into the relationship it is used in.
func WithSemantic(semantic SaveSemantic) ReferenceOptionFunc {
	return func(e *Entity) {
		e.semantic = semantic
	}
}

// RefByGUID creates a reference to the T with the given guid.
func RefByGUID[T any, PT interface {
	*T
	Asset
}](guid string, options ...ReferenceOptionFunc) PT {
	ref := PT(new(T))

	e := ref.GetEntity()
	e.Type = ref.TypeName()
	e.GUID = guid

	for _, option := range options {
		option(e)
	}

	return ref
}

// RefByQualifiedName creates a reference to the T with the given qualified name.
func RefByQualifiedName[T any, PT interface {
	*T
	Asset
}](qualifiedName string, options ...ReferenceOptionFunc) PT {
	ref := PT(new(T))

	e := ref.GetEntity()
	e.Type = ref.TypeName()
	e.UniqueAttributes = map[string]any{"qualifiedName": qualifiedName}

	for _, option := range options {
		option(e)
	}

	return ref
}

// IsReference reports whether a only points at another asset. A reference is identified
// by a saved guid or by unique attributes and carries no attributes besides its name and
// qualified name.
func IsReference(a Asset) bool {
	if a == nil {
		return false
	}

	e := a.GetEntity()
	if isPlaceholderGUID(e.GUID) && len(e.UniqueAttributes) == 0 {
		return false
	}

	b, err := json.Marshal(a)
	if err != nil {
		return false
	}

	var wire struct {
		Attributes map[string]json.RawMessage `json:"attributes"`
		Appended   map[string]json.RawMessage `json:"appendRelationshipAttributes"`
		Removed    map[string]json.RawMessage `json:"removeRelationshipAttributes"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return false
	}

	if len(wire.Appended) > 0 || len(wire.Removed) > 0 {
		return false
	}

	for name := range wire.Attributes {
		if name != "name" && name != "qualifiedName" {
			return false
		}
	}

	return true
}

// Updater creates the minimal T needed to modify an existing asset.
func Updater[T any, PT interface {
	*T
	Asset
}](qualifiedName, name string) (PT, error) {
	a := PT(new(T))

	if err := requireFields(a.TypeName(), "qualifiedName", qualifiedName, "name", name); err != nil {
		return nil, err
	}

	a.GetEntity().Type = a.TypeName()

	attrs := a.GetAttributes()
	attrs.QualifiedName = qualifiedName
	attrs.Name = name

	return a, nil
}

func trimToRequired[T any, PT interface {
	*T
	Asset
}](a Asset) (Asset, error) {
	attrs := a.GetAttributes()

	trimmed, err := Updater[T, PT](attrs.QualifiedName, attrs.Name)
	if err != nil {
		return nil, err
	}

	return trimmed, nil
}

// requireFields takes pairs of field names and values and reports every name whose value is empty.
func requireFields(typeName string, namesAndValues ...string) error {
	var missing []string

	for i := 0; i+1 < len(namesAndValues); i += 2 {
		if namesAndValues[i+1] == "" {
			missing = append(missing, namesAndValues[i])
		}
	}

	if len(missing) > 0 {
		return catalogerrors.NewRequiredFieldsError(typeName, missing...)
	}

	return nil
}
