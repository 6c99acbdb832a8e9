package assets

import (
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
	"github.com/diwise/asset-catalog/pkg/catalog/structs"
)

const FileTypeName string = "File"

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOC  FileType = "doc"
	FileTypeXLS  FileType = "xls"
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
	FileTypeJSON FileType = "json"
	FileTypeTXT  FileType = "txt"
	FileTypePNG  FileType = "png"
	FileTypeJPG  FileType = "jpg"
)

var (
	FileFileType = fields.NewKeywordField("fileType", "fileType")
	FileFilePath = fields.NewKeywordField("filePath", "filePath")
	FileAssets   = fields.NewRelationField("fileAssets")
)

type FileAttributes struct {
	AssetAttributes

	FileType   FileType         `json:"fileType,omitempty"`
	FilePath   string           `json:"filePath,omitempty"`
	AwsTags    []structs.AwsTag `json:"awsTags,omitempty"`
	FileAssets *AnyAsset        `json:"fileAssets,omitempty"`
}

type File struct {
	Entity
	Attributes FileAttributes `json:"attributes"`
}

func init() {
	Register(FileTypeName, func() Asset { return &File{} })
}

// NewFile creates a file stored below the connection with the given qualified name.
func NewFile(name, connectionQualifiedName string, fileType FileType, decorators ...EntityDecoratorFunc) (*File, error) {
	if err := requireFields(FileTypeName, "name", name, "connectionQualifiedName", connectionQualifiedName, "fileType", string(fileType)); err != nil {
		return nil, err
	}

	segments, err := qualifiedname.Split(connectionQualifiedName, ConnectionTypeName, qualifiedname.ConnectionSegments)
	if err != nil {
		return nil, err
	}

	f := &File{Entity: newEntity(FileTypeName)}
	f.Attributes.Name = name
	f.Attributes.QualifiedName = qualifiedname.Join(connectionQualifiedName, name)
	f.Attributes.ConnectionQualifiedName = connectionQualifiedName
	f.Attributes.ConnectorName = segments[1]
	f.Attributes.FileType = fileType

	decorate(f, decorators)

	return f, nil
}

func (f *File) TypeName() string {
	return FileTypeName
}

func (f *File) GetAttributes() *AssetAttributes {
	return &f.Attributes.AssetAttributes
}

func (f *File) TrimToRequired() (Asset, error) {
	return trimToRequired[File](f)
}

func (f File) MarshalJSON() ([]byte, error) {
	return encodeAsset(FileTypeName, f.Entity, f.Attributes)
}

func (f *File) UnmarshalJSON(data []byte) error {
	type plain File
	return decodeAsset(data, FileTypeName, (*plain)(f))
}
