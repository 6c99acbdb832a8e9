package assets

import (
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/structs"
)

type CertificateStatus string

const (
	CertificateVerified   CertificateStatus = "VERIFIED"
	CertificateDraft      CertificateStatus = "DRAFT"
	CertificateDeprecated CertificateStatus = "DEPRECATED"
)

type AnnouncementType string

const (
	AnnouncementInformation AnnouncementType = "information"
	AnnouncementWarning     AnnouncementType = "warning"
	AnnouncementIssue       AnnouncementType = "issue"
)

// Search index descriptors for the entity header and the attributes common to all assets.
var (
	TypeNameField = fields.NewInternalKeywordField("typeName", "__typeName.keyword", "__typeName")
	GUIDField     = fields.NewInternalKeywordField("guid", "__guid", "__guid")
	StatusField   = fields.NewInternalKeywordField("status", "__state", "__state")
	TagsField     = fields.NewInternalKeywordField("classificationNames", "__traitNames", "__classificationsText")
	CreateTime    = fields.NewNumericField("createTime", "__timestamp")
	UpdateTime    = fields.NewNumericField("updateTime", "__modificationTimestamp")

	AssetName                    = fields.NewKeywordTextStemmedField("name", "name.keyword", "name", "name.stemmed")
	AssetQualifiedName           = fields.NewKeywordTextField("qualifiedName", "qualifiedName", "qualifiedName.text")
	AssetDisplayName             = fields.NewKeywordTextField("displayName", "displayName.keyword", "displayName")
	AssetDescription             = fields.NewKeywordTextField("description", "description.keyword", "description")
	AssetUserDescription         = fields.NewKeywordTextField("userDescription", "userDescription.keyword", "userDescription")
	AssetCertificateStatus       = fields.NewKeywordTextField("certificateStatus", "certificateStatus", "certificateStatus.text")
	AssetAnnouncementType        = fields.NewKeywordField("announcementType", "announcementType")
	AssetOwnerUsers              = fields.NewKeywordTextField("ownerUsers", "ownerUsers", "ownerUsers.text")
	AssetOwnerGroups             = fields.NewKeywordTextField("ownerGroups", "ownerGroups", "ownerGroups.text")
	AssetConnectorName           = fields.NewKeywordTextField("connectorName", "connectorName", "connectorName.text")
	AssetConnectionQualifiedName = fields.NewKeywordTextField("connectionQualifiedName", "connectionQualifiedName", "connectionQualifiedName.text")
	AssetHasLineage              = fields.NewBooleanField("__hasLineage", "__hasLineage")
	AssetPopularityScore         = fields.NewNumericRankField("popularityScore", "popularityScore", "popularityScore.rank_feature")
	AssetTags                    = fields.NewKeywordTextField("assetTags", "assetTags", "assetTags.text")
	AssetDomainGUIDs             = fields.NewKeywordField("domainGUIDs", "domainGUIDs")
	AssetReadme                  = fields.NewRelationField("readme")
	AssetLinks                   = fields.NewRelationField("links")
	AssetMeanings                = fields.NewRelationField("meanings")
)

// AssetAttributes are the attributes every asset carries.
type AssetAttributes struct {
	QualifiedName            string            `json:"qualifiedName,omitempty"`
	Name                     string            `json:"name,omitempty"`
	DisplayName              string            `json:"displayName,omitempty"`
	Description              string            `json:"description,omitempty"`
	UserDescription          string            `json:"userDescription,omitempty"`
	TenantID                 string            `json:"tenantId,omitempty"`
	CertificateStatus        CertificateStatus `json:"certificateStatus,omitempty"`
	CertificateStatusMessage string            `json:"certificateStatusMessage,omitempty"`
	CertificateUpdatedBy     string            `json:"certificateUpdatedBy,omitempty"`
	CertificateUpdatedAt     int64             `json:"certificateUpdatedAt,omitempty"`
	AnnouncementTitle        string            `json:"announcementTitle,omitempty"`
	AnnouncementMessage      string            `json:"announcementMessage,omitempty"`
	AnnouncementType         AnnouncementType  `json:"announcementType,omitempty"`
	AnnouncementUpdatedAt    int64             `json:"announcementUpdatedAt,omitempty"`
	AnnouncementUpdatedBy    string            `json:"announcementUpdatedBy,omitempty"`
	OwnerUsers               []string          `json:"ownerUsers,omitempty"`
	OwnerGroups              []string          `json:"ownerGroups,omitempty"`
	AdminUsers               []string          `json:"adminUsers,omitempty"`
	AdminGroups              []string          `json:"adminGroups,omitempty"`
	AdminRoles               []string          `json:"adminRoles,omitempty"`
	ViewerUsers              []string          `json:"viewerUsers,omitempty"`
	ViewerGroups             []string          `json:"viewerGroups,omitempty"`
	ConnectorName            string            `json:"connectorName,omitempty"`
	ConnectionName           string            `json:"connectionName,omitempty"`
	ConnectionQualifiedName  string            `json:"connectionQualifiedName,omitempty"`
	HasLineage               bool              `json:"__hasLineage,omitempty"`
	IsDiscoverable           *bool             `json:"isDiscoverable,omitempty"`
	IsEditable               *bool             `json:"isEditable,omitempty"`
	SubType                  string            `json:"subType,omitempty"`
	ViewScore                float64           `json:"viewScore,omitempty"`
	PopularityScore          float64           `json:"popularityScore,omitempty"`
	SourceOwners             string            `json:"sourceOwners,omitempty"`
	SourceURL                string            `json:"sourceURL,omitempty"`
	SourceCreatedBy          string            `json:"sourceCreatedBy,omitempty"`
	SourceCreatedAt          int64             `json:"sourceCreatedAt,omitempty"`
	SourceUpdatedBy          string            `json:"sourceUpdatedBy,omitempty"`
	SourceUpdatedAt          int64             `json:"sourceUpdatedAt,omitempty"`
	LastSyncRun              string            `json:"lastSyncRun,omitempty"`
	LastSyncRunAt            int64             `json:"lastSyncRunAt,omitempty"`
	LastSyncWorkflowName     string            `json:"lastSyncWorkflowName,omitempty"`
	AssetTags                []string          `json:"assetTags,omitempty"`
	AssetIcon                string            `json:"assetIcon,omitempty"`
	IsAIGenerated            bool              `json:"isAIGenerated,omitempty"`
	DomainGUIDs              []string          `json:"domainGUIDs,omitempty"`
	ProductGUIDs             []string          `json:"productGUIDs,omitempty"`

	Readme   *Readme         `json:"readme,omitempty"`
	Links    []*Link         `json:"links,omitempty"`
	Meanings []*GlossaryTerm `json:"meanings,omitempty"`
	Files    []*File         `json:"files,omitempty"`
}

// CatalogAttributes are shared by assets that take part in lineage.
type CatalogAttributes struct {
	AssetAttributes

	InputToProcesses    []*Process `json:"inputToProcesses,omitempty"`
	OutputFromProcesses []*Process `json:"outputFromProcesses,omitempty"`
}

// SQLAttributes are shared by everything found below a relational connection.
type SQLAttributes struct {
	CatalogAttributes

	QueryCount            int64  `json:"queryCount,omitempty"`
	QueryUserCount        int64  `json:"queryUserCount,omitempty"`
	QueryCountUpdatedAt   int64  `json:"queryCountUpdatedAt,omitempty"`
	DatabaseName          string `json:"databaseName,omitempty"`
	DatabaseQualifiedName string `json:"databaseQualifiedName,omitempty"`
	SchemaName            string `json:"schemaName,omitempty"`
	SchemaQualifiedName   string `json:"schemaQualifiedName,omitempty"`
	TableName             string `json:"tableName,omitempty"`
	TableQualifiedName    string `json:"tableQualifiedName,omitempty"`
	ViewName              string `json:"viewName,omitempty"`
	ViewQualifiedName     string `json:"viewQualifiedName,omitempty"`
	IsProfiled            bool   `json:"isProfiled,omitempty"`
	LastProfiledAt        int64  `json:"lastProfiledAt,omitempty"`

	SourceReadCount                    int64                        `json:"sourceReadCount,omitempty"`
	SourceReadUserCount                int64                        `json:"sourceReadUserCount,omitempty"`
	SourceReadRecentUserRecordList     []structs.PopularityInsights `json:"sourceReadRecentUserRecordList,omitempty"`
	SourceReadTopUserRecordList        []structs.PopularityInsights `json:"sourceReadTopUserRecordList,omitempty"`
	SourceReadPopularQueryRecordList   []structs.PopularityInsights `json:"sourceReadPopularQueryRecordList,omitempty"`
	SourceReadExpensiveQueryRecordList []structs.PopularityInsights `json:"sourceReadExpensiveQueryRecordList,omitempty"`
}

var (
	SQLQueryCount            = fields.NewNumericField("queryCount", "queryCount")
	SQLDatabaseName          = fields.NewKeywordTextField("databaseName", "databaseName.keyword", "databaseName")
	SQLDatabaseQualifiedName = fields.NewKeywordField("databaseQualifiedName", "databaseQualifiedName")
	SQLSchemaName            = fields.NewKeywordTextField("schemaName", "schemaName.keyword", "schemaName")
	SQLSchemaQualifiedName   = fields.NewKeywordField("schemaQualifiedName", "schemaQualifiedName")
	SQLTableName             = fields.NewKeywordTextField("tableName", "tableName.keyword", "tableName")
	SQLTableQualifiedName    = fields.NewKeywordField("tableQualifiedName", "tableQualifiedName")
	SQLSourceReadCount       = fields.NewNumericField("sourceReadCount", "sourceReadCount")
	CatalogInputToProcesses  = fields.NewRelationField("inputToProcesses")
	CatalogOutputFromProcess = fields.NewRelationField("outputFromProcesses")
)
