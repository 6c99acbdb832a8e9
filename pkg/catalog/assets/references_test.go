package assets

import (
	"encoding/json"
	"errors"
	"testing"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
)

func wireForm(t *testing.T, a Asset) map[string]any {
	t.Helper()

	b, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}

	var wire map[string]any
	if err := json.Unmarshal(b, &wire); err != nil {
		t.Fatal(err)
	}

	return wire
}

func TestRefByGUID(t *testing.T) {
	is := is.New(t)

	ref := RefByGUID[Schema]("g1")
	is.Equal(ref.GUID, "g1")
	is.Equal(ref.Type, SchemaTypeName)
	is.Equal(ref.Attributes.QualifiedName, "")
	is.Equal(len(ref.UniqueAttributes), 0)
	is.Equal(ref.Semantic(), Replace)
	is.True(IsReference(ref))

	wire := wireForm(t, ref)
	_, hasAttributes := wire["attributes"]
	is.True(!hasAttributes) // references are encoded without attributes
	is.Equal(wire["guid"], "g1")
	is.Equal(wire["typeName"], SchemaTypeName)
}

func TestRefByQualifiedName(t *testing.T) {
	is := is.New(t)

	ref := RefByQualifiedName[Table]("a/b/c")
	is.Equal(ref.GUID, "")
	is.Equal(cmp.Diff(ref.UniqueAttributes, map[string]any{"qualifiedName": "a/b/c"}), "")
	is.True(IsReference(ref))

	wire := wireForm(t, ref)
	is.Equal(cmp.Diff(wire["uniqueAttributes"], map[string]any{"qualifiedName": "a/b/c"}), "")
}

func TestSavedAssetWithContentIsNotAReference(t *testing.T) {
	is := is.New(t)

	full, err := FromJSON([]byte(`{"typeName": "Table", "guid": "abc", "attributes": {"name": "orders", "qualifiedName": "` + schemaQN + `/orders", "description": "full"}}`))
	is.NoErr(err)
	is.True(!IsReference(full))

	identity, err := FromJSON([]byte(`{"typeName": "Table", "guid": "abc", "attributes": {"name": "orders", "qualifiedName": "` + schemaQN + `/orders"}}`))
	is.NoErr(err)
	is.True(IsReference(identity))

	created, err := NewTable("orders", schemaQN)
	is.NoErr(err)
	is.True(!IsReference(created)) // placeholder guid

	appended := RefByGUID[Table]("t1")
	appended.Attributes.Columns = []*Column{RefByGUID[Column]("c1", WithSemantic(Append))}
	is.True(!IsReference(appended))
}

func TestUpdaterRequiresQualifiedNameAndName(t *testing.T) {
	is := is.New(t)

	_, err := Updater[Table]("", "")
	is.True(errors.Is(err, catalogerrors.ErrValidation))
	is.Equal(catalogerrors.Fields(err), []string{"qualifiedName", "name"})

	u, err := Updater[Table](schemaQN+"/T", "T")
	is.NoErr(err)
	is.Equal(u.Type, TableTypeName)
	is.Equal(u.GUID, "")
}

func TestTrimToRequiredKeepsOnlyIdentity(t *testing.T) {
	is := is.New(t)

	tbl, err := NewTable("T", schemaQN, Description("orders"), OwnerUsers("jdoe"))
	is.NoErr(err)

	trimmed, err := tbl.TrimToRequired()
	is.NoErr(err)

	attrs := wireForm(t, trimmed)["attributes"].(map[string]any)
	is.Equal(cmp.Diff(attrs, map[string]any{"name": "T", "qualifiedName": schemaQN + "/T"}), "")
}

func TestSemanticRelationshipsAreMovedOutOfAttributes(t *testing.T) {
	is := is.New(t)

	tbl, err := NewTable("T", schemaQN)
	is.NoErr(err)

	tbl.Attributes.Columns = []*Column{
		RefByGUID[Column]("c1", WithSemantic(Append)),
		RefByGUID[Column]("c2", WithSemantic(Remove)),
		RefByGUID[Column]("c3"),
	}
	tbl.Attributes.Schema = RefByGUID[Schema]("s1", WithSemantic(Append))

	wire := wireForm(t, tbl)

	attrs := wire["attributes"].(map[string]any)
	is.Equal(cmp.Diff(attrs["columns"], []any{map[string]any{"typeName": "Column", "guid": "c3"}}), "")

	_, hasSchema := attrs["atlanSchema"]
	is.True(!hasSchema)

	appended := wire["appendRelationshipAttributes"].(map[string]any)
	is.Equal(cmp.Diff(appended["columns"], []any{map[string]any{"typeName": "Column", "guid": "c1"}}), "")
	is.Equal(cmp.Diff(appended["atlanSchema"], map[string]any{"typeName": "Schema", "guid": "s1"}), "")

	removed := wire["removeRelationshipAttributes"].(map[string]any)
	is.Equal(cmp.Diff(removed["columns"], []any{map[string]any{"typeName": "Column", "guid": "c2"}}), "")
}

func TestNilRelationshipValuesDoNotStopSemanticMoves(t *testing.T) {
	is := is.New(t)

	tbl, err := NewTable("T", schemaQN)
	is.NoErr(err)

	tbl.Attributes.Columns = []*Column{nil, RefByGUID[Column]("c1", WithSemantic(Append))}

	wire := wireForm(t, tbl)

	_, hasColumns := wire["attributes"].(map[string]any)["columns"]
	is.True(!hasColumns)

	appended := wire["appendRelationshipAttributes"].(map[string]any)
	is.Equal(cmp.Diff(appended["columns"], []any{map[string]any{"typeName": "Column", "guid": "c1"}}), "")
}

func TestAnyAssetKeepsConcreteType(t *testing.T) {
	is := is.New(t)

	var holder struct {
		Asset *AnyAsset `json:"asset"`
	}

	err := json.Unmarshal([]byte(`{"asset": {"typeName": "MongoDBCollection", "guid": "m1"}}`), &holder)
	is.NoErr(err)

	_, ok := holder.Asset.Asset.(*MongoDBCollection)
	is.True(ok)

	b, err := json.Marshal(NewAnyAsset(nil))
	is.NoErr(err)
	is.Equal(string(b), "null")
}
