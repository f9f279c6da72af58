package domain

import (
	"encoding/json"
	"sort"
)

// FieldKey enumerates the fixed set of normalised MARC keys.
type FieldKey int

// Fixed tag keys followed by the four indicator-qualified keys.
// The declaration order is the iteration order used everywhere.
const (
	Field001 FieldKey = iota
	Field041
	Field100
	Field110
	Field111
	Field245
	Field336
	Field520
	Field540
	Field600
	Field610
	Field611
	Field650
	Field651
	Field700
	Field710
	Field711
	Field909
	Field85642u
	Field852c
	Field982b
	Field260c

	fieldKeyCount
)

var fieldKeyNames = [fieldKeyCount]string{
	"001", "041", "100", "110", "111", "245", "336", "520", "540",
	"600", "610", "611", "650", "651", "700", "710", "711", "909",
	"85642u", "852__c", "982__b", "260__c",
}

// String returns the key as written in MARC notation.
func (k FieldKey) String() string {
	if k < 0 || k >= fieldKeyCount {
		return "unknown"
	}
	return fieldKeyNames[k]
}

// IsDerived reports whether the key is extracted with indicator/subfield qualification.
func (k FieldKey) IsDerived() bool {
	return k >= Field85642u && k < fieldKeyCount
}

// AllFieldKeys returns every key in declaration order.
func AllFieldKeys() []FieldKey {
	keys := make([]FieldKey, fieldKeyCount)
	for i := range keys {
		keys[i] = FieldKey(i)
	}
	return keys
}

// NormalizedFields holds a Value for every FieldKey. Keys cannot be
// omitted: absent data is the Empty value.
type NormalizedFields [fieldKeyCount]Value

// Get returns the value stored for key.
func (n *NormalizedFields) Get(key FieldKey) Value {
	return n[key]
}

// MarshalJSON encodes the fields as an object keyed by MARC notation.
func (n NormalizedFields) MarshalJSON() ([]byte, error) {
	m := make(map[string]Value, fieldKeyCount)
	for i, v := range n {
		m[fieldKeyNames[i]] = v
	}
	return json.Marshal(m)
}

// SemanticName is a metadata key in the document metadata schema.
type SemanticName string

// Semantic names recognised in DocumentMetadata.
const (
	MetaTindID      SemanticName = "tind_id"
	MetaTitle       SemanticName = "title"
	MetaCreator     SemanticName = "creator"
	MetaSubject     SemanticName = "subject"
	MetaContributor SemanticName = "contributor"
	MetaIsPartOf    SemanticName = "isPartOf"
	MetaDate        SemanticName = "date"
	MetaLanguage    SemanticName = "language"
	MetaDescription SemanticName = "description"
	MetaRights      SemanticName = "rights"
	MetaCoverage    SemanticName = "coverage"
	MetaPublisher   SemanticName = "publisher"
	MetaReferences  SemanticName = "references"
	MetaSource      SemanticName = "source"
	MetaType        SemanticName = "type"
)

// RenameTable maps every FieldKey to its semantic name.
var RenameTable = [fieldKeyCount]SemanticName{
	Field001:    MetaTindID,
	Field041:    MetaLanguage,
	Field100:    MetaCreator,
	Field110:    MetaCreator,
	Field111:    MetaCreator,
	Field245:    MetaTitle,
	Field336:    MetaType,
	Field520:    MetaDescription,
	Field540:    MetaRights,
	Field600:    MetaSubject,
	Field610:    MetaSubject,
	Field611:    MetaSubject,
	Field650:    MetaSubject,
	Field651:    MetaCoverage,
	Field700:    MetaContributor,
	Field710:    MetaContributor,
	Field711:    MetaContributor,
	Field909:    MetaSource,
	Field85642u: MetaReferences,
	Field852c:   MetaPublisher,
	Field982b:   MetaIsPartOf,
	Field260c:   MetaDate,
}

// AllSemanticNames returns the distinct semantic names of RenameTable
// in first-appearance order.
func AllSemanticNames() []SemanticName {
	seen := make(map[SemanticName]bool)
	var out []SemanticName
	for _, name := range RenameTable {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// DocumentMetadata is the semantic metadata attached to every chunk
// derived from a record.
type DocumentMetadata map[SemanticName]Value

// NewDocumentMetadata returns metadata with every semantic name set to Empty.
func NewDocumentMetadata() DocumentMetadata {
	md := make(DocumentMetadata)
	for _, name := range AllSemanticNames() {
		md[name] = Empty()
	}
	return md
}

// Get returns the value for name, Empty when unset.
func (m DocumentMetadata) Get(name SemanticName) Value {
	if m == nil {
		return Empty()
	}
	return m[name]
}

// RecordID returns the tind_id of the metadata, "" when absent.
func (m DocumentMetadata) RecordID() string {
	return m.Get(MetaTindID).First()
}

// Clone returns an independent copy. Values never share backing arrays
// with their inputs, so copying the map is enough.
func (m DocumentMetadata) Clone() DocumentMetadata {
	if m == nil {
		return nil
	}
	cp := make(DocumentMetadata, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// Names returns the keys of m sorted alphabetically.
func (m DocumentMetadata) Names() []SemanticName {
	names := make([]SemanticName, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
