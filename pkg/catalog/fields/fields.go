// Package fields describes how asset attributes map onto the keys of the search index.
//
// Descriptors are immutable values. A single attribute may be indexed several ways
// (exact keyword, analyzed text, stemmed text, numeric rank), so each descriptor type
// exposes the index field names that apply to it.
package fields

// Field is implemented by every descriptor.
type Field interface {
	// AtlanFieldName is the name of the attribute as it appears in an asset payload.
	AtlanFieldName() string
}

// Keyworder is implemented by descriptors that can be matched exactly.
type Keyworder interface {
	Field
	KeywordFieldName() string
}

// Texter is implemented by descriptors that are indexed as analyzed text.
type Texter interface {
	Field
	TextFieldName() string
}

// Numericer is implemented by descriptors indexed as numbers.
type Numericer interface {
	Field
	NumericFieldName() string
}

// Booleaner is implemented by descriptors indexed as booleans.
type Booleaner interface {
	Field
	BooleanFieldName() string
}

type base struct {
	atlan string
}

func (b base) AtlanFieldName() string { return b.atlan }

type KeywordField struct {
	base
	keyword string
}

func NewKeywordField(atlan, keyword string) KeywordField {
	return KeywordField{base: base{atlan}, keyword: keyword}
}

func (f KeywordField) KeywordFieldName() string { return f.keyword }

// InternalKeywordField is a keyword field whose index name differs from any attribute
// name, such as the entity header fields "__guid" or "__typeName.keyword".
type InternalKeywordField struct {
	KeywordField
	internal string
}

func NewInternalKeywordField(atlan, keyword, internal string) InternalKeywordField {
	return InternalKeywordField{KeywordField: NewKeywordField(atlan, keyword), internal: internal}
}

func (f InternalKeywordField) InternalFieldName() string { return f.internal }

type TextField struct {
	base
	text string
}

func NewTextField(atlan, text string) TextField {
	return TextField{base: base{atlan}, text: text}
}

func (f TextField) TextFieldName() string { return f.text }

type NumericField struct {
	base
	numeric string
}

func NewNumericField(atlan, numeric string) NumericField {
	return NumericField{base: base{atlan}, numeric: numeric}
}

func (f NumericField) NumericFieldName() string { return f.numeric }

type BooleanField struct {
	base
	boolean string
}

func NewBooleanField(atlan, boolean string) BooleanField {
	return BooleanField{base: base{atlan}, boolean: boolean}
}

func (f BooleanField) BooleanFieldName() string { return f.boolean }

type KeywordTextField struct {
	base
	keyword string
	text    string
}

func NewKeywordTextField(atlan, keyword, text string) KeywordTextField {
	return KeywordTextField{base: base{atlan}, keyword: keyword, text: text}
}

func (f KeywordTextField) KeywordFieldName() string { return f.keyword }
func (f KeywordTextField) TextFieldName() string    { return f.text }

type KeywordTextStemmedField struct {
	KeywordTextField
	stemmed string
}

func NewKeywordTextStemmedField(atlan, keyword, text, stemmed string) KeywordTextStemmedField {
	return KeywordTextStemmedField{
		KeywordTextField: NewKeywordTextField(atlan, keyword, text),
		stemmed:          stemmed,
	}
}

func (f KeywordTextStemmedField) StemmedFieldName() string { return f.stemmed }

// NumericRankField is a numeric field that also carries a rank feature used for scoring.
type NumericRankField struct {
	NumericField
	rank string
}

func NewNumericRankField(atlan, numeric, rank string) NumericRankField {
	return NumericRankField{NumericField: NewNumericField(atlan, numeric), rank: rank}
}

func (f NumericRankField) RankFieldName() string { return f.rank }

// RelationField names a relationship attribute. Relationships are not searchable
// by value, only by presence.
type RelationField struct {
	base
}

func NewRelationField(atlan string) RelationField {
	return RelationField{base: base{atlan}}
}
