package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/matryer/is"
)

func TestResolveListKeepsOrderAndTypes(t *testing.T) {
	is := is.New(t)

	data := []byte(`[
		{"typeName": "Table", "attributes": {"name": "orders"}},
		{"type_name": "Column", "attributes": {"name": "id"}},
		{"typeName": "AtlasGlossary", "attributes": {"name": "Business"}}
	]`)

	resolved, err := FromSlice(data)
	is.NoErr(err)
	is.Equal(len(resolved), 3)

	tbl, ok := resolved[0].(*Table)
	is.True(ok)
	is.Equal(tbl.Attributes.Name, "orders")

	col, ok := resolved[1].(*Column)
	is.True(ok)
	is.Equal(col.Attributes.Name, "id")
	is.Equal(col.Type, ColumnTypeName)

	_, ok = resolved[2].(*Glossary)
	is.True(ok)
}

func TestResolveReturnsTypedAssetUnchanged(t *testing.T) {
	is := is.New(t)

	tbl, err := NewTable("T", "conn/snowflake/acct/db/schema")
	is.NoErr(err)

	resolved, err := Resolve(context.Background(), tbl)
	is.NoErr(err)
	is.True(resolved.(*Table) == tbl)

	list, err := ResolveAll(context.Background(), []Asset{tbl})
	is.NoErr(err)
	is.True(list[0].(*Table) == tbl)
}

func TestResolveAsFallsBackToConcreteType(t *testing.T) {
	is := is.New(t)

	tbl, err := ResolveAs[Table](context.Background(), []byte(`{"name": "x"}`))
	is.NoErr(err)
	is.Equal(tbl.Attributes.Name, "x")
	is.Equal(tbl.TypeName(), TableTypeName)
	is.Equal(tbl.Type, TableTypeName)
}

func TestResolveAsRejectsOtherTypes(t *testing.T) {
	is := is.New(t)

	_, err := ResolveAs[Table](context.Background(), map[string]any{"typeName": "View", "attributes": map[string]any{"name": "v"}})
	is.True(errors.Is(err, catalogerrors.ErrValidation))
}

func TestResolveWithoutTypeNameFails(t *testing.T) {
	is := is.New(t)

	_, err := FromJSON([]byte(`{"name": "x"}`))
	is.True(errors.Is(err, catalogerrors.ErrMissingType))
	is.True(errors.Is(err, catalogerrors.ErrResolution))
}

func TestResolveUnsupportedTypeNamesTheType(t *testing.T) {
	is := is.New(t)

	_, err := FromJSON([]byte(`{"type_name": "NoSuchType"}`))
	is.True(errors.Is(err, catalogerrors.ErrUnsupportedType))
	is.True(strings.Contains(err.Error(), "NoSuchType"))
}

func TestNewerDiscriminatorWins(t *testing.T) {
	is := is.New(t)

	a, err := FromJSON([]byte(`{"type_name": "View", "typeName": "Table", "attributes": {"name": "v"}}`))
	is.NoErr(err)

	_, ok := a.(*View)
	is.True(ok)
}

func TestEveryRegisteredTypeChecksItsDiscriminator(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	for _, typeName := range RegisteredTypes() {
		a, err := FromJSON(fmt.Appendf(nil, `{"typeName": %q}`, typeName))
		is.NoErr(err)
		is.Equal(a.TypeName(), typeName)

		factory, err := lookup(ctx, typeName)
		is.NoErr(err)

		err = json.Unmarshal([]byte(`{"typeName": "SomethingElse"}`), factory())
		is.True(errors.Is(err, catalogerrors.ErrValidation)) // mismatching discriminator must be rejected
	}
}

func TestRelationshipAttributesAreMovedIntoAttributes(t *testing.T) {
	is := is.New(t)

	a, err := FromJSON([]byte(`{
		"typeName": "Table",
		"guid": "t1",
		"attributes": {"name": "orders", "atlanSchema": {"typeName": "Schema", "guid": "s0"}},
		"relationshipAttributes": {
			"atlanSchema": {"typeName": "Schema", "guid": "s1"},
			"columns": [{"typeName": "Column", "guid": "c1"}, {"typeName": "Column", "guid": "c2"}]
		}
	}`))
	is.NoErr(err)

	tbl := a.(*Table)
	is.Equal(tbl.GUID, "t1")
	is.Equal(tbl.Attributes.Schema.GUID, "s0") // attributes take precedence over relationship attributes
	is.Equal(len(tbl.Attributes.Columns), 2)
	is.Equal(tbl.Attributes.Columns[1].GUID, "c2")

	_, kept := tbl.RelationshipAttributes["atlanSchema"]
	is.True(kept)
	_, kept = tbl.RelationshipAttributes["columns"]
	is.True(!kept)
}

func TestFlatRecordIsMovedIntoAttributes(t *testing.T) {
	is := is.New(t)

	a, err := FromJSON([]byte(`{"type_name": "Database", "guid": "d1", "name": "sales", "schemaCount": 4}`))
	is.NoErr(err)

	db := a.(*Database)
	is.Equal(db.GUID, "d1")
	is.Equal(db.Attributes.Name, "sales")
	is.Equal(db.Attributes.SchemaCount, int64(4))
}

func TestPolymorphicRelationshipsAreResolved(t *testing.T) {
	is := is.New(t)

	a, err := FromJSON([]byte(`{
		"typeName": "Process",
		"attributes": {
			"name": "load",
			"inputs": [{"typeName": "Table", "guid": "t1"}, {"typeName": "File", "guid": "f1"}],
			"outputs": [{"typeName": "View", "guid": "v1"}]
		}
	}`))
	is.NoErr(err)

	p := a.(*Process)
	is.Equal(len(p.Attributes.Inputs), 2)

	_, ok := p.Attributes.Inputs[0].(*Table)
	is.True(ok)
	_, ok = p.Attributes.Inputs[1].(*File)
	is.True(ok)
	_, ok = p.Attributes.Outputs[0].(*View)
	is.True(ok)
}

func TestExtensionTypesAreResolvedFromTheSecondaryRegistry(t *testing.T) {
	is := is.New(t)

	err := RegisterExtensionType(ExtensionType{
		TypeName:        "CustomDashboard",
		SuperType:       "BI",
		ParentAttribute: "dashboardFolderQualifiedName",
	})
	is.NoErr(err)

	err = RegisterExtensionType(ExtensionType{TypeName: "CustomDashboard", SuperType: "BI"})
	is.True(errors.Is(err, catalogerrors.ErrValidation)) // already registered

	x, err := NewExtension("CustomDashboard", "Revenue", "default/custom/1700000000", Description("monthly revenue"))
	is.NoErr(err)
	is.Equal(x.Attributes.QualifiedName, "default/custom/1700000000/Revenue")
	is.Equal(x.Attributes.ConnectorName, "custom")

	b, err := json.Marshal(x)
	is.NoErr(err)

	a, err := FromJSON(b)
	is.NoErr(err)

	decoded, ok := a.(*Extension)
	is.True(ok)
	is.Equal(decoded.TypeName(), "CustomDashboard")
	is.Equal(decoded.SuperType(), "BI")
	is.Equal(decoded.Attributes.Description, "monthly revenue")

	var folder string
	is.NoErr(decoded.Attribute("dashboardFolderQualifiedName", &folder))
	is.Equal(folder, "default/custom/1700000000")
}

func TestBuiltInTypesCannotBeRegisteredAsExtensions(t *testing.T) {
	is := is.New(t)

	err := RegisterExtension(TableTypeName, func() Asset { return &Extension{} })
	is.True(errors.Is(err, catalogerrors.ErrValidation))
}

func TestRelationshipStructsOfRelatedEntitiesAreKept(t *testing.T) {
	is := is.New(t)

	a, err := FromJSON([]byte(`{
		"typeName": "Table",
		"guid": "t1",
		"attributes": {"name": "orders"},
		"relationshipAttributes": {
			"meanings": [{
				"typeName": "AtlasGlossaryTerm",
				"guid": "g1",
				"relationshipAttributes": {
					"typeName": "AtlasGlossarySemanticAssignment",
					"attributes": {"description": "assigned by steward", "confidence": 80}
				}
			}]
		}
	}`))
	is.NoErr(err)

	tbl := a.(*Table)
	is.Equal(len(tbl.Attributes.Meanings), 1)

	term := tbl.Attributes.Meanings[0]
	is.Equal(term.GUID, "g1")
	is.Equal(string(term.RelationshipAttributes["typeName"]), `"AtlasGlossarySemanticAssignment"`)
	is.Equal(term.Attributes.Name, "") // nothing hoisted from the relationship struct

	b, err := json.Marshal(tbl)
	is.NoErr(err)

	var wire struct {
		Attributes struct {
			Meanings []struct {
				RelationshipAttributes struct {
					TypeName   string         `json:"typeName"`
					Attributes map[string]any `json:"attributes"`
				} `json:"relationshipAttributes"`
			} `json:"meanings"`
		} `json:"attributes"`
	}
	is.NoErr(json.Unmarshal(b, &wire))
	is.Equal(len(wire.Attributes.Meanings), 1)

	edge := wire.Attributes.Meanings[0].RelationshipAttributes
	is.Equal(edge.TypeName, "AtlasGlossarySemanticAssignment")
	is.Equal(edge.Attributes["description"], "assigned by steward")
	is.Equal(edge.Attributes["confidence"], 80.0)
}

func TestResolveRejectsLists(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	_, err := Resolve(ctx, []byte(` [{"typeName": "Table"}]`))
	is.True(errors.Is(err, catalogerrors.ErrValidation))
	is.True(strings.Contains(err.Error(), "ResolveAll"))

	_, err = Resolve(ctx, []any{map[string]any{"typeName": "Table"}})
	is.True(errors.Is(err, catalogerrors.ErrValidation))

	_, err = FromSlice([]byte(`[{"typeName": "Table"}, [{"typeName": "View"}]]`))
	is.True(errors.Is(err, catalogerrors.ErrValidation))
	is.True(strings.Contains(err.Error(), "index 1"))
}
