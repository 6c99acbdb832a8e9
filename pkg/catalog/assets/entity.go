package assets

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/lineage"
	"github.com/diwise/asset-catalog/pkg/catalog/structs"
	"github.com/diwise/asset-catalog/pkg/catalog/tags"
)

type EntityStatus string

const (
	StatusActive  EntityStatus = "ACTIVE"
	StatusDeleted EntityStatus = "DELETED"
)

// SaveSemantic controls how a referenced entity is merged into a relationship when the
// referencing asset is saved.
type SaveSemantic string

const (
	Replace SaveSemantic = "REPLACE"
	Append  SaveSemantic = "APPEND"
	Remove  SaveSemantic = "REMOVE"
)

// Asset is implemented by every concrete asset type.
type Asset interface {
	TypeName() string
	GetEntity() *Entity
	GetAttributes() *AssetAttributes
	// TrimToRequired returns a new asset holding only what is needed to identify
	// this asset in an update.
	TrimToRequired() (Asset, error)
}

// Tag is an (Atlan) tag attached to an entity. TypeName holds the internal tag id.
type Tag struct {
	TypeName                            string                                   `json:"typeName"`
	EntityGUID                          string                                   `json:"entityGuid,omitempty"`
	EntityStatus                        EntityStatus                             `json:"entityStatus,omitempty"`
	Propagate                           bool                                     `json:"propagate"`
	RemovePropagationsOnEntityDelete    bool                                     `json:"removePropagationsOnEntityDelete"`
	RestrictPropagationThroughLineage   bool                                     `json:"restrictPropagationThroughLineage"`
	RestrictPropagationThroughHierarchy bool                                     `json:"restrictPropagationThroughHierarchy"`
	Attributes                          map[string][]structs.SourceTagAttachment `json:"attributes,omitempty"`
}

// Entity is the identity header shared by all assets. It is embedded by value in every
// concrete asset type and must not implement json.Marshaler or json.Unmarshaler itself.
type Entity struct {
	Type                         string                     `json:"typeName"`
	GUID                         string                     `json:"guid,omitempty"`
	Status                       EntityStatus               `json:"status,omitempty"`
	CreatedBy                    string                     `json:"createdBy,omitempty"`
	UpdatedBy                    string                     `json:"updatedBy,omitempty"`
	CreateTime                   int64                      `json:"createTime,omitempty"`
	UpdateTime                   int64                      `json:"updateTime,omitempty"`
	IsIncomplete                 bool                       `json:"isIncomplete,omitempty"`
	Tags                         []Tag                      `json:"classifications,omitempty"`
	TagNames                     []string                   `json:"classificationNames,omitempty"`
	MeaningNames                 []string                   `json:"meaningNames,omitempty"`
	Labels                       []string                   `json:"labels,omitempty"`
	PendingTasks                 []string                   `json:"pendingTasks,omitempty"`
	DisplayText                  string                     `json:"displayText,omitempty"`
	RelationshipGUID             string                     `json:"relationshipGuid,omitempty"`
	RelationshipType             string                     `json:"relationshipType,omitempty"`
	RelationshipStatus           string                     `json:"relationshipStatus,omitempty"`
	BusinessAttributes           map[string]map[string]any  `json:"businessAttributes,omitempty"`
	UniqueAttributes             map[string]any             `json:"uniqueAttributes,omitempty"`
	RelationshipAttributes       map[string]json.RawMessage `json:"relationshipAttributes,omitempty"`
	AppendRelationshipAttributes map[string]json.RawMessage `json:"appendRelationshipAttributes,omitempty"`
	RemoveRelationshipAttributes map[string]json.RawMessage `json:"removeRelationshipAttributes,omitempty"`

	semantic       SaveSemantic
	customMetadata map[string]map[string]any
}

// headerKeys are the top level keys of the wire format that belong to the entity header.
// Any other top level key of a flat record is an attribute.
var headerKeys = map[string]bool{
	discriminatorKey:               true,
	legacyDiscriminatorKey:         true,
	"guid":                         true,
	"status":                       true,
	"createdBy":                    true,
	"updatedBy":                    true,
	"createTime":                   true,
	"updateTime":                   true,
	"isIncomplete":                 true,
	"classifications":              true,
	"classificationNames":          true,
	"meaningNames":                 true,
	"labels":                       true,
	"pendingTasks":                 true,
	"displayText":                  true,
	"entityStatus":                 true,
	"relationshipGuid":             true,
	"relationshipType":             true,
	"relationshipStatus":           true,
	"businessAttributes":           true,
	"uniqueAttributes":             true,
	"relationshipAttributes":       true,
	"appendRelationshipAttributes": true,
	"removeRelationshipAttributes": true,
	"attributes":                   true,
}

func (e *Entity) GetEntity() *Entity {
	return e
}

// Semantic returns how this entity is merged when used as a relationship value.
func (e *Entity) Semantic() SaveSemantic {
	if e.semantic == "" {
		return Replace
	}
	return e.semantic
}

// AtlanTagNames returns the human readable names of the tags on this entity.
func (e *Entity) AtlanTagNames(ctx context.Context, resolver tags.NameResolver) []string {
	ids := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		ids = append(ids, t.TypeName)
	}
	if len(ids) == 0 {
		ids = e.TagNames
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name := resolver.NameForID(ctx, id)
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names
}

// Lineage creates a request for the lineage of this entity.
func (e *Entity) Lineage(decorators ...lineage.RequestDecoratorFunc) (*lineage.Request, error) {
	if isPlaceholderGUID(e.GUID) {
		return nil, catalogerrors.NewValidationError("lineage requires the guid of a saved entity", "guid")
	}
	return lineage.NewRequest(e.GUID, decorators...)
}

func newEntity(typeName string) Entity {
	return Entity{
		Type: typeName,
		GUID: placeholderGUID(),
	}
}

// placeholderGUID returns a negative number that the catalog replaces with a real
// guid when the entity is created.
func placeholderGUID() string {
	return strconv.FormatInt(-(rand.Int64N(10000000) + 1), 10)
}

func isPlaceholderGUID(guid string) bool {
	return guid == "" || strings.HasPrefix(guid, "-")
}
