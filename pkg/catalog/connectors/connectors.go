package connectors

import (
	"fmt"
	"strings"
	"time"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
)

type Category string

const (
	CategoryBI          Category = "bi"
	CategoryDatabase    Category = "database"
	CategoryLake        Category = "lake"
	CategoryObjectStore Category = "ObjectStore"
	CategoryOrchestrate Category = "elt"
	CategoryWarehouse   Category = "warehouse"
	CategoryCustom      Category = "custom"
)

type Type string

const (
	BigQuery   Type = "bigquery"
	Databricks Type = "databricks"
	Files      Type = "files"
	MongoDB    Type = "mongodb"
	MySQL      Type = "mysql"
	Postgres   Type = "postgres"
	PowerBI    Type = "powerbi"
	Redshift   Type = "redshift"
	S3         Type = "s3"
	Snowflake  Type = "snowflake"
	Tableau    Type = "tableau"
	Airflow    Type = "airflow"
	Custom     Type = "custom"
)

var categories = map[Type]Category{
	BigQuery:   CategoryWarehouse,
	Databricks: CategoryLake,
	Files:      CategoryObjectStore,
	MongoDB:    CategoryDatabase,
	MySQL:      CategoryDatabase,
	Postgres:   CategoryDatabase,
	PowerBI:    CategoryBI,
	Redshift:   CategoryWarehouse,
	S3:         CategoryObjectStore,
	Snowflake:  CategoryWarehouse,
	Tableau:    CategoryBI,
	Airflow:    CategoryOrchestrate,
	Custom:     CategoryCustom,
}

// Parse returns the connector type with the given (case insensitive) name.
func Parse(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := categories[t]; !ok {
		return "", catalogerrors.NewValidationError(fmt.Sprintf("unknown connector type %q", name), "connectorName")
	}
	return t, nil
}

// FromQualifiedName extracts the connector type from any qualified name below a connection.
func FromQualifiedName(qn string) (Type, error) {
	name := qualifiedname.ConnectorName(qn)
	if name == "" {
		return "", catalogerrors.NewMalformedQualifiedNameError("Connection", qn, qualifiedname.ConnectionSegments, len(strings.Split(qn, qualifiedname.Separator)))
	}
	return Parse(name)
}

func (t Type) Category() Category {
	return categories[t]
}

func (t Type) String() string {
	return string(t)
}

// ToQualifiedName creates a new connection qualified name for this connector,
// using the epoch seconds of now to make it unique.
func (t Type) ToQualifiedName(now time.Time) string {
	return fmt.Sprintf("default/%s/%d", t, now.Unix())
}
