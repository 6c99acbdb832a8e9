package assets

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/diwise/asset-catalog/pkg/catalog/connectors"
	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/lineage"
	"github.com/diwise/asset-catalog/pkg/catalog/search"
	"github.com/diwise/asset-catalog/pkg/catalog/tags"
	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
)

const schemaQN string = "conn/snowflake/acct/db/schema"

func TestNewTable(t *testing.T) {
	is := is.New(t)

	tbl, err := NewTable("T", schemaQN)
	is.NoErr(err)

	is.Equal(tbl.TypeName(), TableTypeName)
	is.Equal(tbl.Attributes.Name, "T")
	is.Equal(tbl.Attributes.QualifiedName, "conn/snowflake/acct/db/schema/T")
	is.Equal(tbl.Attributes.ConnectionQualifiedName, "conn/snowflake/acct")
	is.Equal(tbl.Attributes.ConnectorName, "snowflake")
	is.Equal(tbl.Attributes.DatabaseName, "db")
	is.Equal(tbl.Attributes.DatabaseQualifiedName, "conn/snowflake/acct/db")
	is.Equal(tbl.Attributes.SchemaName, "schema")
	is.Equal(tbl.Attributes.SchemaQualifiedName, schemaQN)
	is.True(isPlaceholderGUID(tbl.GUID))
}

func TestNewTableWithMalformedSchemaQualifiedName(t *testing.T) {
	is := is.New(t)

	_, err := NewTable("T", "conn/snowflake/acct/db")
	is.True(errors.Is(err, catalogerrors.ErrMalformedQualifiedName))

	_, err = NewTable("", schemaQN)
	is.True(errors.Is(err, catalogerrors.ErrValidation))
	is.Equal(catalogerrors.Fields(err), []string{"name"})
}

func TestNewColumn(t *testing.T) {
	is := is.New(t)

	col, err := NewColumn("id", ViewTypeName, schemaQN+"/V", 1)
	is.NoErr(err)

	is.Equal(col.Attributes.QualifiedName, schemaQN+"/V/id")
	is.Equal(col.Attributes.ViewName, "V")
	is.Equal(col.Attributes.SchemaQualifiedName, schemaQN)
	is.Equal(col.Attributes.View.UniqueAttributes["qualifiedName"], schemaQN+"/V")
	is.True(col.Attributes.Table == nil)

	_, err = NewColumn("id", TableTypeName, schemaQN+"/T", 0)
	is.True(errors.Is(err, catalogerrors.ErrValidation))

	_, err = NewColumn("id", SchemaTypeName, schemaQN+"/T", 1)
	is.True(errors.Is(err, catalogerrors.ErrValidation))
}

func TestNewConnectionRequiresAnAdmin(t *testing.T) {
	is := is.New(t)

	defer func(f func() time.Time) { now = f }(now)
	now = func() time.Time { return time.Unix(1700000000, 0) }

	_, err := NewConnection("production", connectors.Snowflake)
	is.True(errors.Is(err, catalogerrors.ErrValidation))

	c, err := NewConnection("production", connectors.Snowflake, AdminUsers("jdoe"))
	is.NoErr(err)
	is.Equal(c.Attributes.QualifiedName, "default/snowflake/1700000000")
	is.Equal(c.Attributes.Category, connectors.CategoryWarehouse)
	is.Equal(c.Attributes.AdminUsers, []string{"jdoe"})
}

func TestNewSchemaAndDatabase(t *testing.T) {
	is := is.New(t)

	db, err := NewDatabase("db", "default/postgres/1700000000")
	is.NoErr(err)
	is.Equal(db.Attributes.QualifiedName, "default/postgres/1700000000/db")

	s, err := NewSchema("public", db.Attributes.QualifiedName)
	is.NoErr(err)
	is.Equal(s.Attributes.QualifiedName, "default/postgres/1700000000/db/public")
	is.Equal(s.Attributes.DatabaseName, "db")
	is.Equal(s.Attributes.Database.UniqueAttributes["qualifiedName"], db.Attributes.QualifiedName)
}

func TestProcessQualifiedNameIsStable(t *testing.T) {
	is := is.New(t)

	connQN := "default/airflow/1700000000"
	in := []Asset{RefByQualifiedName[Table](schemaQN + "/A")}
	out := []Asset{RefByQualifiedName[View](schemaQN + "/B")}

	p1, err := NewProcess("load", connQN, "", in, out)
	is.NoErr(err)
	p2, err := NewProcess("load", connQN, "", in, out)
	is.NoErr(err)
	is.Equal(p1.Attributes.QualifiedName, p2.Attributes.QualifiedName)
	is.True(strings.HasPrefix(p1.Attributes.QualifiedName, connQN+"/"))

	p3, err := NewProcess("load", connQN, "", out, in)
	is.NoErr(err)
	is.True(p1.Attributes.QualifiedName != p3.Attributes.QualifiedName)

	p4, err := NewProcess("load", connQN, "job-42", in, out)
	is.NoErr(err)
	is.Equal(p4.Attributes.QualifiedName, connQN+"/job-42")

	_, err = NewProcess("load", connQN, "", nil, nil)
	is.True(errors.Is(err, catalogerrors.ErrValidation))
}

func TestColumnProcessRequiresParent(t *testing.T) {
	is := is.New(t)

	connQN := "default/airflow/1700000000"
	in := []Asset{RefByQualifiedName[Column](schemaQN + "/A/id")}

	_, err := NewColumnProcess("map id", connQN, "", in, nil, nil)
	is.True(errors.Is(err, catalogerrors.ErrValidation))

	parent, err := NewProcess("load", connQN, "job-42", []Asset{RefByGUID[Table]("t1")}, nil)
	is.NoErr(err)

	cp, err := NewColumnProcess("map id", connQN, "", in, nil, parent)
	is.NoErr(err)
	is.Equal(cp.Attributes.Process.UniqueAttributes["qualifiedName"], connQN+"/job-42")
}

func TestGlossaryTermNeedsAnAnchor(t *testing.T) {
	is := is.New(t)

	_, err := NewGlossaryTerm("Revenue", "", "")
	is.True(errors.Is(err, catalogerrors.ErrValidation))
	is.Equal(catalogerrors.Fields(err), []string{"anchor"})

	term, err := NewGlossaryTerm("Revenue", "g1", "", Description("money in"))
	is.NoErr(err)
	is.Equal(term.Attributes.Anchor.GUID, "g1")

	trimmed, err := term.TrimToRequired()
	is.NoErr(err)

	tt := trimmed.(*GlossaryTerm)
	is.Equal(tt.Attributes.Name, "Revenue")
	is.Equal(tt.Attributes.Description, "")
	is.Equal(tt.Attributes.Anchor.GUID, "g1")
}

func TestDataDomainsAndProducts(t *testing.T) {
	is := is.New(t)

	super, err := NewDataDomain("Marketing & Sales", "")
	is.NoErr(err)
	is.Equal(super.Attributes.QualifiedName, "default/domain/marketing-sales/super")

	sub, err := NewDataDomain("EMEA", super.Attributes.QualifiedName)
	is.NoErr(err)
	is.Equal(sub.Attributes.QualifiedName, "default/domain/marketing-sales/super/domain/emea")
	is.Equal(sub.Attributes.SuperDomainQualifiedName, super.Attributes.QualifiedName)

	_, err = NewDataDomain("EMEA", "default/domain/marketing-sales/superb")
	is.True(errors.Is(err, catalogerrors.ErrValidation))

	p, err := NewDataProduct("Orders", sub.Attributes.QualifiedName, search.NewRequest(search.Term(TypeNameField, TableTypeName)))
	is.NoErr(err)
	is.Equal(p.Attributes.QualifiedName, sub.Attributes.QualifiedName+"/product/orders")
	is.Equal(p.Attributes.SuperDomainQualifiedName, super.Attributes.QualifiedName)
	is.True(strings.Contains(p.Attributes.DataProductAssetsDSL, `"__typeName.keyword":"Table"`))
}

func TestReadmeFromMarkdown(t *testing.T) {
	is := is.New(t)

	asset := RefByGUID[Table]("t1")
	asset.Attributes.Name = "orders"

	r, err := NewReadmeFromMarkdown(asset, "# Orders")
	is.NoErr(err)
	is.Equal(r.Attributes.Name, "orders Readme")
	is.Equal(r.Attributes.QualifiedName, "t1/readme")
	is.True(strings.Contains(r.Attributes.Description, "<h1>Orders</h1>"))
	is.Equal(r.Attributes.Asset.GetEntity().GUID, "t1")

	unsaved, err := NewTable("T", schemaQN)
	is.NoErr(err)

	_, err = NewReadme(unsaved, "<p>hi</p>")
	is.True(errors.Is(err, catalogerrors.ErrValidation))
}

func TestNewLink(t *testing.T) {
	is := is.New(t)

	tbl, err := NewTable("T", schemaQN)
	is.NoErr(err)

	l, err := NewLink(tbl, "Runbook", "https://example.com/runbook")
	is.NoErr(err)
	is.True(strings.HasPrefix(l.Attributes.QualifiedName, tbl.Attributes.QualifiedName+"/"))
	is.Equal(l.Attributes.Link, "https://example.com/runbook")
	is.Equal(l.Attributes.Asset.GetEntity().UniqueAttributes["qualifiedName"], tbl.Attributes.QualifiedName)
}

func testTagCache(t *testing.T) *tags.Cache {
	cache, err := tags.NewCache(tags.LoaderFunc(func(context.Context) (map[string]string, error) {
		return map[string]string{"id1": "PII", "id2": "Confidential"}, nil
	}), 0)
	if err != nil {
		t.Fatal(err)
	}
	return cache
}

func TestNewPurposeResolvesTagNames(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	cache := testTagCache(t)

	p, err := NewPurpose(ctx, "Sensitive data", []string{"PII", "Confidential"}, cache)
	is.NoErr(err)
	is.Equal(p.Attributes.PurposeAtlanTags, []string{"id1", "id2"})
	is.True(p.Attributes.IsAccessControlEnabled)

	_, err = NewPurpose(ctx, "Unknown", []string{"NoSuchTag"}, cache)
	is.True(errors.Is(err, catalogerrors.ErrNotFound))

	_, err = NewPurpose(ctx, "Empty", nil, cache)
	is.True(errors.Is(err, catalogerrors.ErrValidation))
}

func TestAtlanTagNames(t *testing.T) {
	is := is.New(t)

	a, err := FromJSON([]byte(`{
		"typeName": "Table",
		"guid": "t1",
		"classifications": [{"typeName": "id1"}, {"typeName": "gone"}, {"typeName": "id1"}]
	}`))
	is.NoErr(err)

	names := a.GetEntity().AtlanTagNames(context.Background(), testTagCache(t))
	is.Equal(names, []string{"PII", tags.DeletedTagName})
}

func TestLineageNeedsASavedEntity(t *testing.T) {
	is := is.New(t)

	tbl, err := NewTable("T", schemaQN)
	is.NoErr(err)

	_, err = tbl.Lineage()
	is.True(errors.Is(err, catalogerrors.ErrValidation))

	tbl.GUID = "t1"
	req, err := tbl.Lineage(lineage.WithDirection(lineage.Upstream))
	is.NoErr(err)
	is.Equal(req.GUID, "t1")
	is.Equal(req.Direction, lineage.Upstream)
}

func TestDecoratorsAreApplied(t *testing.T) {
	is := is.New(t)

	tbl, err := NewTable("T", schemaQN,
		Certificate(CertificateVerified, "checked"),
		Announcement(AnnouncementWarning, "Migration", "moving next week"),
		OwnerUsers("jdoe"),
		AtlanTags("id1"),
	)
	is.NoErr(err)

	b, err := json.Marshal(tbl)
	is.NoErr(err)

	var wire map[string]any
	is.NoErr(json.Unmarshal(b, &wire))

	attrs := wire["attributes"].(map[string]any)
	is.Equal(attrs["certificateStatus"], "VERIFIED")
	is.Equal(attrs["announcementType"], "warning")
	is.Equal(attrs["ownerUsers"], []any{"jdoe"})

	want := []any{map[string]any{
		"typeName":                            "id1",
		"propagate":                           true,
		"removePropagationsOnEntityDelete":    false,
		"restrictPropagationThroughLineage":   false,
		"restrictPropagationThroughHierarchy": false,
	}}
	is.Equal(cmp.Diff(wire["classifications"], want), "")
}

func TestFactoriesPlaceAssetsBelowTheirParent(t *testing.T) {
	const (
		mongoQN = "default/mongodb/1700000000/sales"
		s3QN    = "default/s3/1700000000"
	)

	inSchema := func(is *is.I, attrs SQLAttributes, schema *Schema) {
		is.Equal(attrs.ConnectionQualifiedName, "conn/snowflake/acct")
		is.Equal(attrs.ConnectorName, "snowflake")
		is.Equal(attrs.DatabaseName, "db")
		is.Equal(attrs.DatabaseQualifiedName, "conn/snowflake/acct/db")
		is.Equal(attrs.SchemaName, "schema")
		is.Equal(attrs.SchemaQualifiedName, schemaQN)
		is.Equal(schema.UniqueAttributes["qualifiedName"], schemaQN)
	}

	testCases := map[string]struct {
		create    func(parent string) (Asset, error)
		parent    string
		malformed string
		wantQN    string
		check     func(is *is.I, a Asset)
	}{
		ViewTypeName: {
			create:    func(parent string) (Asset, error) { return NewView("V", parent) },
			parent:    schemaQN,
			malformed: "conn/snowflake/acct/db",
			wantQN:    schemaQN + "/V",
			check: func(is *is.I, a Asset) {
				v := a.(*View)
				inSchema(is, v.Attributes.SQLAttributes, v.Attributes.Schema)
			},
		},
		MaterialisedViewTypeName: {
			create:    func(parent string) (Asset, error) { return NewMaterialisedView("MV", parent) },
			parent:    schemaQN,
			malformed: schemaQN + "/T",
			wantQN:    schemaQN + "/MV",
			check: func(is *is.I, a Asset) {
				mv := a.(*MaterialisedView)
				inSchema(is, mv.Attributes.SQLAttributes, mv.Attributes.Schema)
			},
		},
		ProcedureTypeName: {
			create:    func(parent string) (Asset, error) { return NewProcedure("P", parent, "BEGIN END") },
			parent:    schemaQN,
			malformed: "conn/snowflake",
			wantQN:    schemaQN + "/P",
			check: func(is *is.I, a Asset) {
				p := a.(*Procedure)
				inSchema(is, p.Attributes.SQLAttributes, p.Attributes.Schema)
				is.Equal(p.Attributes.Definition, "BEGIN END")
			},
		},
		MongoDBDatabaseTypeName: {
			create:    func(parent string) (Asset, error) { return NewMongoDBDatabase("sales", parent) },
			parent:    "default/mongodb/1700000000",
			malformed: mongoQN,
			wantQN:    mongoQN,
			check: func(is *is.I, a Asset) {
				d := a.(*MongoDBDatabase)
				is.Equal(d.Attributes.ConnectionQualifiedName, "default/mongodb/1700000000")
				is.Equal(d.Attributes.ConnectorName, "mongodb")
			},
		},
		MongoDBCollectionTypeName: {
			create:    func(parent string) (Asset, error) { return NewMongoDBCollection("orders", parent) },
			parent:    mongoQN,
			malformed: "default/mongodb/1700000000",
			wantQN:    mongoQN + "/orders",
			check: func(is *is.I, a Asset) {
				c := a.(*MongoDBCollection)
				is.Equal(c.Attributes.ConnectionQualifiedName, "default/mongodb/1700000000")
				is.Equal(c.Attributes.ConnectorName, "mongodb")
				is.Equal(c.Attributes.DatabaseName, "sales")
				is.Equal(c.Attributes.DatabaseQualifiedName, mongoQN)
				is.Equal(c.Attributes.MongoDBDatabase.UniqueAttributes["qualifiedName"], mongoQN)
				is.Equal(c.Attributes.MongoDBDatabase.Type, MongoDBDatabaseTypeName)
			},
		},
		FileTypeName: {
			create:    func(parent string) (Asset, error) { return NewFile("report.pdf", parent, FileTypePDF) },
			parent:    s3QN,
			malformed: s3QN + "/bucket",
			wantQN:    s3QN + "/report.pdf",
			check: func(is *is.I, a Asset) {
				f := a.(*File)
				is.Equal(f.Attributes.ConnectionQualifiedName, s3QN)
				is.Equal(f.Attributes.ConnectorName, "s3")
				is.Equal(f.Attributes.FileType, FileTypePDF)
			},
		},
	}

	for typeName, tc := range testCases {
		t.Run(typeName, func(t *testing.T) {
			is := is.New(t)

			a, err := tc.create(tc.parent)
			is.NoErr(err)
			is.Equal(a.TypeName(), typeName)
			is.Equal(a.GetEntity().Type, typeName)
			is.Equal(a.GetAttributes().QualifiedName, tc.wantQN)
			is.True(isPlaceholderGUID(a.GetEntity().GUID))
			tc.check(is, a)

			_, err = tc.create(tc.malformed)
			is.True(errors.Is(err, catalogerrors.ErrMalformedQualifiedName))

			_, err = tc.create("")
			is.True(errors.Is(err, catalogerrors.ErrValidation))
		})
	}
}

func TestNewProcedureRequiresADefinition(t *testing.T) {
	is := is.New(t)

	_, err := NewProcedure("P", schemaQN, "")
	is.True(errors.Is(err, catalogerrors.ErrValidation))
	is.Equal(catalogerrors.Fields(err), []string{"definition"})

	p, err := NewProcedure("P", schemaQN, "BEGIN END", Description("loads orders"))
	is.NoErr(err)

	trimmed, err := p.TrimToRequired()
	is.NoErr(err)

	attrs := wireForm(t, trimmed)["attributes"].(map[string]any)
	is.Equal(cmp.Diff(attrs, map[string]any{
		"name":          "P",
		"qualifiedName": schemaQN + "/P",
		"definition":    "BEGIN END",
	}), "")
}

func TestNewPersona(t *testing.T) {
	is := is.New(t)

	p, err := NewPersona("Analysts", OwnerGroups("data"))
	is.NoErr(err)
	is.Equal(p.Attributes.QualifiedName, "Analysts")
	is.Equal(p.Attributes.DisplayName, "Analysts")
	is.True(p.Attributes.IsAccessControlEnabled)
	is.Equal(p.Attributes.OwnerGroups, []string{"data"})

	trimmed, err := p.TrimToRequired()
	is.NoErr(err)
	is.True(trimmed.(*Persona).Attributes.IsAccessControlEnabled)
	is.Equal(trimmed.(*Persona).Attributes.DisplayName, "")

	_, err = NewPersona("")
	is.True(errors.Is(err, catalogerrors.ErrValidation))
	is.Equal(catalogerrors.Fields(err), []string{"name"})
}
