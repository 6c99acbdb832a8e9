// Package qualifiedname composes and decomposes the hierarchical qualified names
// that identify assets, e.g. default/snowflake/1700000000/DB/SCHEMA/TABLE.
package qualifiedname

import (
	"strings"
	"unicode"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
)

const Separator string = "/"

// Segment counts of well known parent qualified names.
const (
	ConnectionSegments int = 3
	DatabaseSegments   int = 4
	SchemaSegments     int = 5
	TableSegments      int = 6
)

// Split breaks qualifiedName into its segments and checks that there are exactly want of them.
// typeName is only used to describe the failure.
func Split(qualifiedName, typeName string, want int) ([]string, error) {
	segments := strings.Split(qualifiedName, Separator)

	if qualifiedName == "" || len(segments) != want {
		got := len(segments)
		if qualifiedName == "" {
			got = 0
		}
		return nil, catalogerrors.NewMalformedQualifiedNameError(typeName, qualifiedName, want, got)
	}

	for _, s := range segments {
		if s == "" {
			return nil, catalogerrors.NewMalformedQualifiedNameError(typeName, qualifiedName, want, len(segments))
		}
	}

	return segments, nil
}

// Join appends name to parent.
func Join(parent string, name ...string) string {
	return strings.Join(append([]string{parent}, name...), Separator)
}

// ConnectionQualifiedName returns the connection part (first three segments) of any
// qualified name below a connection, or "" when there are fewer segments.
func ConnectionQualifiedName(qualifiedName string) string {
	segments := strings.SplitN(qualifiedName, Separator, ConnectionSegments+1)
	if len(segments) < ConnectionSegments {
		return ""
	}
	return strings.Join(segments[:ConnectionSegments], Separator)
}

// ConnectorName returns the connector segment of a qualified name below a connection.
func ConnectorName(qualifiedName string) string {
	segments := strings.SplitN(qualifiedName, Separator, 3)
	if len(segments) < 3 {
		return ""
	}
	return segments[1]
}

// Parent strips the last segment of qualifiedName.
func Parent(qualifiedName string) string {
	idx := strings.LastIndex(qualifiedName, Separator)
	if idx < 0 {
		return ""
	}
	return qualifiedName[:idx]
}

// Slug lowercases name and replaces every run of non alphanumeric characters with a single dash.
func Slug(name string) string {
	var sb strings.Builder
	dash := false

	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteRune('-')
			dash = true
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
