package assets

import (
	"context"
	"encoding/json"
)

// Assets is a relationship to assets of any type. Its elements are resolved by type name
// when decoded.
type Assets []Asset

func (a *Assets) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*a = nil
		return nil
	}

	resolved, err := ResolveAll(context.Background(), json.RawMessage(data))
	if err != nil {
		return err
	}

	*a = resolved
	return nil
}

// AnyAsset is a relationship to a single asset of any type.
type AnyAsset struct {
	Asset
}

func NewAnyAsset(a Asset) *AnyAsset {
	return &AnyAsset{Asset: a}
}

func (a AnyAsset) MarshalJSON() ([]byte, error) {
	if a.Asset == nil {
		return []byte("null"), nil
	}
	return json.Marshal(a.Asset)
}

func (a *AnyAsset) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		a.Asset = nil
		return nil
	}

	resolved, err := Resolve(context.Background(), json.RawMessage(data))
	if err != nil {
		return err
	}

	a.Asset = resolved
	return nil
}

// referenceTo returns a new reference entity of the same type as a, pointing at a
// by guid when it has one and by qualified name otherwise.
func referenceTo(a Asset) (Asset, error) {
	factory, err := lookup(context.Background(), a.TypeName())
	if err != nil {
		return nil, err
	}

	ref := factory()
	e := ref.GetEntity()
	e.Type = a.TypeName()

	if guid := a.GetEntity().GUID; !isPlaceholderGUID(guid) {
		e.GUID = guid
		return ref, nil
	}

	qn := qualifiedNameOf(a)
	if qn == "" {
		e.GUID = a.GetEntity().GUID
		return ref, nil
	}

	e.UniqueAttributes = map[string]any{"qualifiedName": qn}
	return ref, nil
}

// qualifiedNameOf returns the qualified name of a, from its attributes or its unique attributes.
func qualifiedNameOf(a Asset) string {
	if qn := a.GetAttributes().QualifiedName; qn != "" {
		return qn
	}
	qn, _ := a.GetEntity().UniqueAttributes["qualifiedName"].(string)
	return qn
}
