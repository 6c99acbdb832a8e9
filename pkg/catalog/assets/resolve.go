package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// Factory returns a new, empty instance of a concrete asset type.
type Factory func() Asset

// registry maps type names to the asset types declared in this package. It is
// only written from init functions.
var registry = map[string]Factory{}

var extensions = struct {
	sync.RWMutex
	factories map[string]Factory
	types     map[string]ExtensionType
}{
	factories: map[string]Factory{},
	types:     map[string]ExtensionType{},
}

// Register adds a concrete asset type to the registry. It is meant to be called from
// init and panics if typeName is already registered.
func Register(typeName string, factory Factory) {
	if _, ok := registry[typeName]; ok {
		panic(fmt.Sprintf("asset type %q registered twice", typeName))
	}
	registry[typeName] = factory
}

// RegisterExtension adds an asset type that is not declared in this package, such as
// a custom type described in configuration, to the secondary registry.
func RegisterExtension(typeName string, factory Factory) error {
	if typeName == "" {
		return catalogerrors.NewRequiredFieldsError("Extension", "typeName")
	}

	if _, ok := registry[typeName]; ok {
		return catalogerrors.NewValidationError(fmt.Sprintf("type %q is a built in asset type", typeName), "typeName")
	}

	extensions.Lock()
	defer extensions.Unlock()

	if _, ok := extensions.factories[typeName]; ok {
		return catalogerrors.NewValidationError(fmt.Sprintf("extension type %q already registered", typeName), "typeName")
	}

	extensions.factories[typeName] = factory
	return nil
}

// RegisteredTypes returns the sorted names of all registered asset types, extensions included.
func RegisteredTypes() []string {
	extensions.RLock()
	defer extensions.RUnlock()

	names := slices.Collect(maps.Keys(registry))
	names = append(names, slices.Collect(maps.Keys(extensions.factories))...)
	slices.Sort(names)

	return names
}

func lookup(ctx context.Context, typeName string) (Factory, error) {
	if f, ok := registry[typeName]; ok {
		return f, nil
	}

	extensions.RLock()
	f, ok := extensions.factories[typeName]
	extensions.RUnlock()

	if ok {
		logging.GetFromContext(ctx).Debug("resolved extension type", "typeName", typeName)
		return f, nil
	}

	return nil, catalogerrors.NewUnsupportedTypeError(typeName)
}

// FromJSON resolves a single asset from its wire form.
func FromJSON(data []byte) (Asset, error) {
	return Resolve(context.Background(), data)
}

// FromSlice resolves a JSON array of assets, keeping their order.
func FromSlice(data []byte) ([]Asset, error) {
	return ResolveAll(context.Background(), data)
}

// Resolve returns the concrete asset described by input, which may be an Asset (returned
// as is), a map[string]any or the JSON encoding of an object.
func Resolve(ctx context.Context, input any) (Asset, error) {
	data, a, err := toJSON(input)
	if err != nil || a != nil {
		return a, err
	}

	raw, err := toRaw(data)
	if err != nil {
		return nil, err
	}

	typeName, err := discriminator(raw)
	if err != nil {
		return nil, err
	}

	if typeName == "" {
		return nil, catalogerrors.NewMissingTypeError("record has no type name and no concrete type was given")
	}

	return construct(ctx, typeName, data)
}

// ResolveAll resolves every element of a list input. Accepted inputs are []Asset, Assets,
// []any, []map[string]any, []json.RawMessage and the JSON encoding of an array.
func ResolveAll(ctx context.Context, input any) ([]Asset, error) {
	var elements []any

	switch v := input.(type) {
	case []Asset:
		return slices.Clone(v), nil
	case Assets:
		return slices.Clone([]Asset(v)), nil
	case []any:
		elements = v
	case []map[string]any:
		for _, m := range v {
			elements = append(elements, m)
		}
	case []json.RawMessage:
		for _, m := range v {
			elements = append(elements, m)
		}
	case json.RawMessage, []byte, string:
		data, _, err := toJSON(v)
		if err != nil {
			return nil, err
		}

		list := []json.RawMessage{}
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to unmarshal asset list: %w", err)
		}
		for _, m := range list {
			elements = append(elements, m)
		}
	default:
		return nil, catalogerrors.NewValidationError(fmt.Sprintf("cannot resolve assets from %T", input))
	}

	resolved := make([]Asset, 0, len(elements))
	for i, e := range elements {
		a, err := Resolve(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve asset at index %d: %w", i, err)
		}
		resolved = append(resolved, a)
	}

	return resolved, nil
}

// ResolveAs resolves input knowing that it describes a T. Records without a type name
// are decoded as T directly.
func ResolveAs[T any, PT interface {
	*T
	Asset
}](ctx context.Context, input any) (PT, error) {
	data, a, err := toJSON(input)
	if err != nil {
		return nil, err
	}

	if a == nil {
		var raw map[string]json.RawMessage
		if raw, err = toRaw(data); err != nil {
			return nil, err
		}

		var typeName string
		if typeName, err = discriminator(raw); err != nil {
			return nil, err
		}

		if typeName == "" {
			t := PT(new(T))
			if err = json.Unmarshal(data, t); err != nil {
				return nil, err
			}
			return t, nil
		}

		if a, err = construct(ctx, typeName, data); err != nil {
			return nil, err
		}
	}

	t, ok := a.(PT)
	if !ok {
		return nil, catalogerrors.NewTypeMismatchError(PT(new(T)).TypeName(), a.TypeName())
	}

	return t, nil
}

func construct(ctx context.Context, typeName string, data []byte) (Asset, error) {
	factory, err := lookup(ctx, typeName)
	if err != nil {
		return nil, err
	}

	a := factory()
	if err := json.Unmarshal(data, a); err != nil {
		return nil, err
	}

	return a, nil
}

func toJSON(input any) ([]byte, Asset, error) {
	switch v := input.(type) {
	case Asset:
		return nil, v, nil
	case json.RawMessage:
		return v, nil, nil
	case []byte:
		return v, nil, nil
	case string:
		return []byte(v), nil, nil
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal asset record: %w", err)
		}
		return b, nil, nil
	case []any, []map[string]any, []json.RawMessage, []Asset, Assets:
		return nil, nil, errListInput
	case nil:
		return nil, nil, catalogerrors.NewValidationError("cannot resolve an asset from nil")
	}

	return nil, nil, catalogerrors.NewValidationError(fmt.Sprintf("cannot resolve an asset from %T", input))
}

var errListInput = catalogerrors.NewValidationError("cannot resolve a single asset from a list, use ResolveAll")

func toRaw(data []byte) (map[string]json.RawMessage, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, errListInput
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asset record: %w", err)
	}
	if raw == nil {
		return nil, catalogerrors.NewValidationError("cannot resolve an asset from null")
	}
	return raw, nil
}
