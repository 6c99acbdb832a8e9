package assets

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
)

func TestCustomMetadataRoundTrip(t *testing.T) {
	is := is.New(t)

	tbl, err := NewTable("T", schemaQN)
	is.NoErr(err)

	values := map[string]any{"score": 9.5, "steward": "jdoe"}
	tbl.SetCustomMetadata("Data Quality", values)
	is.NoErr(tbl.FlushCustomMetadata(nil))

	b, err := json.Marshal(tbl)
	is.NoErr(err)

	decoded, err := FromJSON(b)
	is.NoErr(err)

	want := map[string]map[string]any{"Data Quality": values}
	is.Equal(cmp.Diff(decoded.GetEntity().BusinessAttributes, want), "")

	read, err := decoded.GetEntity().GetCustomMetadata("Data Quality", nil)
	is.NoErr(err)
	is.Equal(cmp.Diff(read, values), "")
}

type fakeNames struct {
	sets       map[string]string
	attributes map[string]string
}

func (n fakeNames) SetID(setName string) (string, error) {
	if id, ok := n.sets[setName]; ok {
		return id, nil
	}
	return "", fmt.Errorf("no set %q", setName)
}

func (n fakeNames) AttributeID(_, attributeName string) (string, error) {
	if id, ok := n.attributes[attributeName]; ok {
		return id, nil
	}
	return "", fmt.Errorf("no attribute %q", attributeName)
}

func (n fakeNames) AttributeName(_, attributeID string) (string, error) {
	for name, id := range n.attributes {
		if id == attributeID {
			return name, nil
		}
	}
	return "", fmt.Errorf("no attribute with id %q", attributeID)
}

func TestCustomMetadataIsStoredByID(t *testing.T) {
	is := is.New(t)

	names := fakeNames{
		sets:       map[string]string{"Data Quality": "dq1"},
		attributes: map[string]string{"score": "a1"},
	}

	tbl, err := NewTable("T", schemaQN)
	is.NoErr(err)
	tbl.BusinessAttributes = map[string]map[string]any{"other": {"x": 1.0}}

	tbl.SetCustomMetadata("Data Quality", map[string]any{"score": 9.5})
	is.NoErr(tbl.FlushCustomMetadata(names))

	want := map[string]map[string]any{"dq1": {"a1": 9.5}, "other": {"x": 1.0}}
	is.Equal(cmp.Diff(tbl.BusinessAttributes, want), "")

	decoded, err := FromJSON(fmt.Appendf(nil, `{"typeName": "Table", "businessAttributes": {"dq1": {"a1": 7}}}`))
	is.NoErr(err)

	read, err := decoded.GetEntity().GetCustomMetadata("Data Quality", names)
	is.NoErr(err)
	is.Equal(read["score"], 7.0)

	err = tbl.FlushCustomMetadata(fakeNames{})
	is.True(err != nil) // unknown set
}
