package assets

import (
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
)

const ProcedureTypeName string = "Procedure"

var ProcedureDefinition = fields.NewKeywordField("definition", "definition")

type ProcedureAttributes struct {
	SQLAttributes

	Definition string  `json:"definition,omitempty"`
	Schema     *Schema `json:"atlanSchema,omitempty"`
}

type Procedure struct {
	Entity
	Attributes ProcedureAttributes `json:"attributes"`
}

func init() {
	Register(ProcedureTypeName, func() Asset { return &Procedure{} })
}

// NewProcedure creates a stored procedure in the schema with the given qualified name.
// The definition is required.
func NewProcedure(name, schemaQualifiedName, definition string, decorators ...EntityDecoratorFunc) (*Procedure, error) {
	if err := requireFields(ProcedureTypeName, "definition", definition); err != nil {
		return nil, err
	}

	p := &Procedure{Entity: newEntity(ProcedureTypeName)}

	if err := placeInSchema(&p.Attributes.SQLAttributes, ProcedureTypeName, name, schemaQualifiedName); err != nil {
		return nil, err
	}
	p.Attributes.Definition = definition
	p.Attributes.Schema = RefByQualifiedName[Schema](schemaQualifiedName)

	decorate(p, decorators)

	return p, nil
}

func (p *Procedure) TypeName() string {
	return ProcedureTypeName
}

func (p *Procedure) GetAttributes() *AssetAttributes {
	return &p.Attributes.AssetAttributes
}

// TrimToRequired keeps the definition, which is required when updating a procedure.
func (p *Procedure) TrimToRequired() (Asset, error) {
	trimmed, err := Updater[Procedure](p.Attributes.QualifiedName, p.Attributes.Name)
	if err != nil {
		return nil, err
	}

	trimmed.Attributes.Definition = p.Attributes.Definition

	return trimmed, nil
}

func (p Procedure) MarshalJSON() ([]byte, error) {
	return encodeAsset(ProcedureTypeName, p.Entity, p.Attributes)
}

func (p *Procedure) UnmarshalJSON(data []byte) error {
	type plain Procedure
	return decodeAsset(data, ProcedureTypeName, (*plain)(p))
}
