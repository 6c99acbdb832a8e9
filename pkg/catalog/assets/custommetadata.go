package assets

import (
	"fmt"
	"maps"
	"slices"
)

// CustomMetadataNames translates between the names of custom metadata sets and
// attributes and the ids they are stored under in businessAttributes.
type CustomMetadataNames interface {
	SetID(setName string) (string, error)
	AttributeID(setID, attributeName string) (string, error)
	AttributeName(setID, attributeID string) (string, error)
}

// identityNames is used when no translation is given: names are ids.
type identityNames struct{}

func (identityNames) SetID(setName string) (string, error)                { return setName, nil }
func (identityNames) AttributeID(_, attributeName string) (string, error) { return attributeName, nil }
func (identityNames) AttributeName(_, attributeID string) (string, error) { return attributeID, nil }

func orIdentity(names CustomMetadataNames) CustomMetadataNames {
	if names == nil {
		return identityNames{}
	}
	return names
}

// GetCustomMetadata returns the values of the custom metadata set with the given name,
// keyed by attribute name. Changes made to the returned map are kept until flushed.
func (e *Entity) GetCustomMetadata(set string, names CustomMetadataNames) (map[string]any, error) {
	if values, ok := e.customMetadata[set]; ok {
		return values, nil
	}

	names = orIdentity(names)

	setID, err := names.SetID(set)
	if err != nil {
		return nil, fmt.Errorf("unknown custom metadata set %q: %w", set, err)
	}

	values := map[string]any{}
	for attrID, v := range e.BusinessAttributes[setID] {
		name, err := names.AttributeName(setID, attrID)
		if err != nil {
			return nil, fmt.Errorf("unknown attribute %q in custom metadata set %q: %w", attrID, set, err)
		}
		values[name] = v
	}

	if e.customMetadata == nil {
		e.customMetadata = map[string]map[string]any{}
	}
	e.customMetadata[set] = values

	return values, nil
}

// SetCustomMetadata replaces the values of the custom metadata set with the given name.
func (e *Entity) SetCustomMetadata(set string, values map[string]any) {
	if e.customMetadata == nil {
		e.customMetadata = map[string]map[string]any{}
	}
	e.customMetadata[set] = maps.Clone(values)
}

// FlushCustomMetadata writes all custom metadata that has been read or set into
// BusinessAttributes, translating names into ids.
func (e *Entity) FlushCustomMetadata(names CustomMetadataNames) error {
	if len(e.customMetadata) == 0 {
		return nil
	}

	names = orIdentity(names)

	flushed := make(map[string]map[string]any, len(e.BusinessAttributes)+len(e.customMetadata))
	maps.Copy(flushed, e.BusinessAttributes)

	for _, set := range slices.Sorted(maps.Keys(e.customMetadata)) {
		setID, err := names.SetID(set)
		if err != nil {
			return fmt.Errorf("unknown custom metadata set %q: %w", set, err)
		}

		attributes := make(map[string]any, len(e.customMetadata[set]))
		for name, v := range e.customMetadata[set] {
			attrID, err := names.AttributeID(setID, name)
			if err != nil {
				return fmt.Errorf("unknown attribute %q in custom metadata set %q: %w", name, set, err)
			}
			attributes[attrID] = v
		}

		flushed[setID] = attributes
	}

	e.BusinessAttributes = flushed

	return nil
}
