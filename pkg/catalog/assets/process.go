package assets

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/diwise/asset-catalog/pkg/catalog/fields"
	"github.com/diwise/asset-catalog/pkg/catalog/qualifiedname"
)

const (
	ProcessTypeName       string = "Process"
	ColumnProcessTypeName string = "ColumnProcess"
)

var (
	ProcessCode            = fields.NewKeywordField("code", "code")
	ProcessSQL             = fields.NewKeywordField("sql", "sql")
	ProcessInputs          = fields.NewRelationField("inputs")
	ProcessOutputs         = fields.NewRelationField("outputs")
	ProcessColumnProcesses = fields.NewRelationField("columnProcesses")
	ColumnProcessProcess   = fields.NewRelationField("process")
)

type ProcessAttributes struct {
	AssetAttributes

	Code                 string           `json:"code,omitempty"`
	SQL                  string           `json:"sql,omitempty"`
	AST                  string           `json:"ast,omitempty"`
	AdditionalEtlContext string           `json:"additionalEtlContext,omitempty"`
	Inputs               Assets           `json:"inputs,omitempty"`
	Outputs              Assets           `json:"outputs,omitempty"`
	ColumnProcesses      []*ColumnProcess `json:"columnProcesses,omitempty"`
}

type Process struct {
	Entity
	Attributes ProcessAttributes `json:"attributes"`
}

type ColumnProcessAttributes struct {
	ProcessAttributes

	Process *Process `json:"process,omitempty"`
}

type ColumnProcess struct {
	Entity
	Attributes ColumnProcessAttributes `json:"attributes"`
}

func init() {
	Register(ProcessTypeName, func() Asset { return &Process{} })
	Register(ColumnProcessTypeName, func() Asset { return &ColumnProcess{} })
}

// NewProcess creates a lineage process from inputs to outputs. When processID is empty
// the qualified name is derived from the name, connection, inputs and outputs, so that
// the same process is identified by the same qualified name every time it is created.
func NewProcess(name, connectionQualifiedName, processID string, inputs, outputs []Asset, decorators ...EntityDecoratorFunc) (*Process, error) {
	p := &Process{Entity: newEntity(ProcessTypeName)}

	if err := initProcess(&p.Attributes, ProcessTypeName, name, connectionQualifiedName, processID, inputs, outputs); err != nil {
		return nil, err
	}

	decorate(p, decorators)

	return p, nil
}

func (p *Process) TypeName() string {
	return ProcessTypeName
}

func (p *Process) GetAttributes() *AssetAttributes {
	return &p.Attributes.AssetAttributes
}

func (p *Process) TrimToRequired() (Asset, error) {
	return trimToRequired[Process](p)
}

func (p Process) MarshalJSON() ([]byte, error) {
	return encodeAsset(ProcessTypeName, p.Entity, p.Attributes)
}

func (p *Process) UnmarshalJSON(data []byte) error {
	type plain Process
	return decodeAsset(data, ProcessTypeName, (*plain)(p))
}

// NewColumnProcess creates column level lineage that is part of the parent process.
func NewColumnProcess(name, connectionQualifiedName, processID string, inputs, outputs []Asset, parent *Process, decorators ...EntityDecoratorFunc) (*ColumnProcess, error) {
	if parent == nil {
		return nil, catalogerrors.NewRequiredFieldsError(ColumnProcessTypeName, "process")
	}

	cp := &ColumnProcess{Entity: newEntity(ColumnProcessTypeName)}

	if err := initProcess(&cp.Attributes.ProcessAttributes, ColumnProcessTypeName, name, connectionQualifiedName, processID, inputs, outputs); err != nil {
		return nil, err
	}

	ref, err := referenceTo(parent)
	if err != nil {
		return nil, err
	}
	cp.Attributes.Process = ref.(*Process)

	decorate(cp, decorators)

	return cp, nil
}

func (cp *ColumnProcess) TypeName() string {
	return ColumnProcessTypeName
}

func (cp *ColumnProcess) GetAttributes() *AssetAttributes {
	return &cp.Attributes.AssetAttributes
}

func (cp *ColumnProcess) TrimToRequired() (Asset, error) {
	return trimToRequired[ColumnProcess](cp)
}

func (cp ColumnProcess) MarshalJSON() ([]byte, error) {
	return encodeAsset(ColumnProcessTypeName, cp.Entity, cp.Attributes)
}

func (cp *ColumnProcess) UnmarshalJSON(data []byte) error {
	type plain ColumnProcess
	return decodeAsset(data, ColumnProcessTypeName, (*plain)(cp))
}

func initProcess(attrs *ProcessAttributes, typeName, name, connectionQualifiedName, processID string, inputs, outputs []Asset) error {
	if err := requireFields(typeName, "name", name, "connectionQualifiedName", connectionQualifiedName); err != nil {
		return err
	}

	if len(inputs) == 0 && len(outputs) == 0 {
		return catalogerrors.NewValidationError(fmt.Sprintf("%s: at least one input or output is required", typeName), "inputs", "outputs")
	}

	segments, err := qualifiedname.Split(connectionQualifiedName, ConnectionTypeName, qualifiedname.ConnectionSegments)
	if err != nil {
		return err
	}

	if processID == "" {
		processID = processDigest(name, connectionQualifiedName, inputs, outputs)
	}

	attrs.Name = name
	attrs.QualifiedName = qualifiedname.Join(connectionQualifiedName, processID)
	attrs.ConnectionQualifiedName = connectionQualifiedName
	attrs.ConnectorName = segments[1]

	for _, in := range inputs {
		ref, err := referenceTo(in)
		if err != nil {
			return err
		}
		attrs.Inputs = append(attrs.Inputs, ref)
	}

	for _, out := range outputs {
		ref, err := referenceTo(out)
		if err != nil {
			return err
		}
		attrs.Outputs = append(attrs.Outputs, ref)
	}

	return nil
}

func processDigest(name, connectionQualifiedName string, inputs, outputs []Asset) string {
	d := xxhash.New()

	write := func(s string) {
		d.WriteString(s)
		d.WriteString("\x00")
	}

	identity := func(a Asset) string {
		if qn := qualifiedNameOf(a); qn != "" {
			return qn
		}
		return a.GetEntity().GUID
	}

	write(name)
	write(connectionQualifiedName)
	for _, in := range inputs {
		write(identity(in))
	}
	write("->")
	for _, out := range outputs {
		write(identity(out))
	}

	return fmt.Sprintf("%016x", d.Sum64())
}
