package assets

import (
	"time"

	"github.com/diwise/asset-catalog/pkg/catalog/connectors"
	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
)

const ConnectionTypeName string = "Connection"

var (
	ConnectionCategory          = fields.NewKeywordField("category", "category")
	ConnectionHost              = fields.NewKeywordField("host", "host")
	ConnectionPort              = fields.NewNumericField("port", "port")
	ConnectionAllowQuery        = fields.NewBooleanField("allowQuery", "allowQuery")
	ConnectionAllowQueryPreview = fields.NewBooleanField("allowQueryPreview", "allowQueryPreview")
)

// now is replaced in tests
var now = time.Now

type ConnectionAttributes struct {
	AssetAttributes

	Category                   connectors.Category `json:"category,omitempty"`
	SubCategory                string              `json:"subCategory,omitempty"`
	Host                       string              `json:"host,omitempty"`
	Port                       int                 `json:"port,omitempty"`
	AllowQuery                 *bool               `json:"allowQuery,omitempty"`
	AllowQueryPreview          *bool               `json:"allowQueryPreview,omitempty"`
	QueryPreviewConfig         map[string]string   `json:"queryPreviewConfig,omitempty"`
	QueryConfig                string              `json:"queryConfig,omitempty"`
	CredentialStrategy         string              `json:"credentialStrategy,omitempty"`
	PreviewCredentialStrategy  string              `json:"previewCredentialStrategy,omitempty"`
	DefaultCredentialGUID      string              `json:"defaultCredentialGuid,omitempty"`
	SourceLogo                 string              `json:"sourceLogo,omitempty"`
	IsSampleDataPreviewEnabled bool                `json:"isSampleDataPreviewEnabled,omitempty"`
	RowLimit                   int64               `json:"rowLimit,omitempty"`
	QueryTimeout               int64               `json:"queryTimeout,omitempty"`
}

type Connection struct {
	Entity
	Attributes ConnectionAttributes `json:"attributes"`
}

func init() {
	Register(ConnectionTypeName, func() Asset { return &Connection{} })
}

// NewConnection creates a connection for the given connector. At least one admin
// user, group or role must be given through the AdminUsers, AdminGroups or AdminRoles
// decorators.
func NewConnection(name string, connector connectors.Type, decorators ...EntityDecoratorFunc) (*Connection, error) {
	if err := requireFields(ConnectionTypeName, "name", name, "connectorName", string(connector)); err != nil {
		return nil, err
	}

	c := &Connection{Entity: newEntity(ConnectionTypeName)}
	c.Attributes.Name = name
	c.Attributes.QualifiedName = connector.ToQualifiedName(now())
	c.Attributes.ConnectorName = connector.String()
	c.Attributes.Category = connector.Category()

	decorate(c, decorators)

	attrs := c.Attributes
	if len(attrs.AdminUsers) == 0 && len(attrs.AdminGroups) == 0 && len(attrs.AdminRoles) == 0 {
		return nil, catalogerrors.NewValidationError(
			"Connection: at least one admin user, group or role is required",
			"adminUsers", "adminGroups", "adminRoles",
		)
	}

	return c, nil
}

func (c *Connection) TypeName() string {
	return ConnectionTypeName
}

func (c *Connection) GetAttributes() *AssetAttributes {
	return &c.Attributes.AssetAttributes
}

func (c *Connection) TrimToRequired() (Asset, error) {
	return trimToRequired[Connection](c)
}

func (c Connection) MarshalJSON() ([]byte, error) {
	return encodeAsset(ConnectionTypeName, c.Entity, c.Attributes)
}

func (c *Connection) UnmarshalJSON(data []byte) error {
	type plain Connection
	return decodeAsset(data, ConnectionTypeName, (*plain)(c))
}
