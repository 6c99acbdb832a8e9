package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
)

const (
	discriminatorKey       string = "type_name"
	legacyDiscriminatorKey string = "typeName"
)

// moveStruct reconciles the layouts a record may arrive in with the layout the
// asset types decode from:
//
//   - the discriminator is moved from "type_name" to "typeName"
//   - the attributes of a flat record (no "attributes" object) are moved below "attributes"
//   - relationship attributes are moved into "attributes" unless already present there,
//     except when they hold the attributes of the relationship itself (a struct envelope)
func moveStruct(raw map[string]json.RawMessage) error {
	if tn, ok := raw[discriminatorKey]; ok {
		if !isNull(tn) {
			raw[legacyDiscriminatorKey] = tn
		}
		delete(raw, discriminatorKey)
	}

	attributes := map[string]json.RawMessage{}

	if a, ok := raw["attributes"]; ok && !isNull(a) {
		if err := json.Unmarshal(a, &attributes); err != nil {
			return fmt.Errorf("failed to unmarshal attributes: %w", err)
		}
	} else {
		for k, v := range raw {
			if !headerKeys[k] {
				attributes[k] = v
				delete(raw, k)
			}
		}
	}

	if r, ok := raw["relationshipAttributes"]; ok && !isStructEnvelope(r) {
		relationships := map[string]json.RawMessage{}
		if !isNull(r) {
			if err := json.Unmarshal(r, &relationships); err != nil {
				return fmt.Errorf("failed to unmarshal relationship attributes: %w", err)
			}
		}

		for k, v := range relationships {
			if existing, found := attributes[k]; found && !isNull(existing) {
				continue
			}
			if !isNull(v) {
				attributes[k] = v
			}
			delete(relationships, k)
		}

		if len(relationships) == 0 {
			delete(raw, "relationshipAttributes")
		} else {
			b, err := json.Marshal(relationships)
			if err != nil {
				return err
			}
			raw["relationshipAttributes"] = b
		}
	}

	b, err := json.Marshal(attributes)
	if err != nil {
		return err
	}
	raw["attributes"] = b

	return nil
}

// isStructEnvelope reports whether b holds a typed struct, a string "typeName" next to
// an "attributes" object, rather than a map of related entities.
func isStructEnvelope(b json.RawMessage) bool {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &m); err != nil {
		return false
	}

	tn, ok := m[legacyDiscriminatorKey]
	if !ok {
		return false
	}

	var typeName string
	if err := json.Unmarshal(tn, &typeName); err != nil || typeName == "" {
		return false
	}

	a, ok := m["attributes"]
	if !ok {
		return false
	}

	a = bytes.TrimSpace(a)
	return len(a) > 0 && a[0] == '{'
}

// discriminator returns the type name of a raw record, preferring "type_name" over "typeName".
func discriminator(raw map[string]json.RawMessage) (string, error) {
	for _, key := range []string{discriminatorKey, legacyDiscriminatorKey} {
		v, ok := raw[key]
		if !ok || isNull(v) {
			continue
		}

		var typeName string
		if err := json.Unmarshal(v, &typeName); err != nil {
			return "", catalogerrors.NewValidationError(fmt.Sprintf("%s must be a string", key), key)
		}
		if typeName != "" {
			return typeName, nil
		}
	}
	return "", nil
}

// decodeAsset unmarshals data into target after normalizing it. declared is the type name
// of target and any discriminator found in data must match it.
func decodeAsset(data []byte, declared string, target any) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", declared, err)
	}

	if raw == nil {
		return nil
	}

	if err := moveStruct(raw); err != nil {
		return fmt.Errorf("failed to normalize %s: %w", declared, err)
	}

	typeName, err := discriminator(raw)
	if err != nil {
		return err
	}

	if typeName != "" && declared != "" && typeName != declared {
		return catalogerrors.NewTypeMismatchError(declared, typeName)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(normalized, target); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", declared, err)
	}

	if e, ok := target.(interface{ GetEntity() *Entity }); ok && e.GetEntity().Type == "" {
		e.GetEntity().Type = declared
	}

	return nil
}

// encodeAsset produces the wire form of an asset. Attributes are omitted altogether
// for reference entities, and relationship values that are to be appended or removed
// are moved out of the attributes.
func encodeAsset(declared string, e Entity, attributes any) ([]byte, error) {
	if e.Type == "" {
		e.Type = declared
	}

	header, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", declared, err)
	}

	contents := map[string]json.RawMessage{}
	if err := json.Unmarshal(header, &contents); err != nil {
		return nil, err
	}

	attrs, err := marshalAttributes(attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attributes of %s: %w", declared, err)
	}

	appendRelationships, removeRelationships, err := moveSemanticRelationships(attributes, attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relationships of %s: %w", declared, err)
	}

	if err := setObject(contents, "attributes", attrs, nil); err != nil {
		return nil, err
	}
	if err := setObject(contents, "appendRelationshipAttributes", appendRelationships, e.AppendRelationshipAttributes); err != nil {
		return nil, err
	}
	if err := setObject(contents, "removeRelationshipAttributes", removeRelationships, e.RemoveRelationshipAttributes); err != nil {
		return nil, err
	}

	return json.Marshal(contents)
}

func setObject(contents map[string]json.RawMessage, key string, computed, existing map[string]json.RawMessage) error {
	merged := make(map[string]json.RawMessage, len(computed)+len(existing))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range computed {
		merged[k] = v
	}

	if len(merged) == 0 {
		delete(contents, key)
		return nil
	}

	b, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	contents[key] = b
	return nil
}

func marshalAttributes(attributes any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(attributes)
	if err != nil {
		return nil, err
	}

	attrs := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &attrs); err != nil {
		return nil, err
	}

	return attrs, nil
}

// moveSemanticRelationships removes every relationship value whose save semantic is
// Append or Remove from attrs and returns them keyed by attribute name.
func moveSemanticRelationships(attributes any, attrs map[string]json.RawMessage) (appendRelationships, removeRelationships map[string]json.RawMessage, err error) {
	appendRelationships = map[string]json.RawMessage{}
	removeRelationships = map[string]json.RawMessage{}

	visitAttributes(reflect.ValueOf(attributes), func(name string, field reflect.Value) {
		if err != nil {
			return
		}

		if a, ok := asAsset(field); ok {
			switch a.GetEntity().Semantic() {
			case Append:
				appendRelationships[name] = attrs[name]
				delete(attrs, name)
			case Remove:
				removeRelationships[name] = attrs[name]
				delete(attrs, name)
			}
			return
		}

		if field.Kind() != reflect.Slice || field.Len() == 0 {
			return
		}

		var keep, appended, removed []Asset
		for i := range field.Len() {
			element := field.Index(i)
			if isNilElement(element) {
				continue
			}

			a, ok := asAsset(element)
			if !ok {
				return
			}
			switch a.GetEntity().Semantic() {
			case Append:
				appended = append(appended, a)
			case Remove:
				removed = append(removed, a)
			default:
				keep = append(keep, a)
			}
		}

		if len(appended) == 0 && len(removed) == 0 {
			return
		}

		delete(attrs, name)
		attrs, err = putList(attrs, name, keep)
		if err == nil {
			appendRelationships, err = putList(appendRelationships, name, appended)
		}
		if err == nil {
			removeRelationships, err = putList(removeRelationships, name, removed)
		}
	})

	return appendRelationships, removeRelationships, err
}

func putList(dst map[string]json.RawMessage, name string, list []Asset) (map[string]json.RawMessage, error) {
	if len(list) == 0 {
		return dst, nil
	}

	b, err := json.Marshal(list)
	if err != nil {
		return dst, err
	}
	dst[name] = b

	return dst, nil
}

// visitAttributes calls visit for every json encoded field of the attribute struct v,
// descending into embedded attribute records.
func visitAttributes(v reflect.Value, visit func(name string, field reflect.Value)) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("json")
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && tag == "" {
			visitAttributes(v.Field(i), visit)
			continue
		}

		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}

		visit(name, v.Field(i))
	}
}

// attributeNames returns the json names of all fields of the attribute struct v.
func attributeNames(v any) map[string]bool {
	names := map[string]bool{}
	visitAttributes(reflect.ValueOf(v), func(name string, _ reflect.Value) {
		names[name] = true
	})
	return names
}

func isNilElement(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return true
		}
		a, ok := v.Interface().(*AnyAsset)
		return ok && a.Asset == nil
	}
	return false
}

func asAsset(v reflect.Value) (Asset, bool) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, false
		}
	default:
		return nil, false
	}

	switch a := v.Interface().(type) {
	case *AnyAsset:
		if a.Asset == nil {
			return nil, false
		}
		return a.Asset, true
	case Asset:
		return a, true
	}

	return nil, false
}

func isNull(b json.RawMessage) bool {
	return len(b) == 0 || bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}
