package marc

import (
	"strings"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// Any matches every indicator value in ExtractIndicatorQualified.
const Any = "*"

// fixedTags maps the plain tag keys to their MARC tag.
var fixedTags = map[domain.FieldKey]string{
	domain.Field001: "001",
	domain.Field041: "041",
	domain.Field100: "100",
	domain.Field110: "110",
	domain.Field111: "111",
	domain.Field245: "245",
	domain.Field336: "336",
	domain.Field520: "520",
	domain.Field540: "540",
	domain.Field600: "600",
	domain.Field610: "610",
	domain.Field611: "611",
	domain.Field650: "650",
	domain.Field651: "651",
	domain.Field700: "700",
	domain.Field710: "710",
	domain.Field711: "711",
	domain.Field909: "909",
}

// qualifier selects a subfield from fields with matching indicators.
type qualifier struct {
	tag, ind1, ind2, code string
}

// derivedKeys are tags reused for distinct semantics depending on indicators.
var derivedKeys = map[domain.FieldKey]qualifier{
	domain.Field85642u: {tag: "856", ind1: "4", ind2: "2", code: "u"},
	domain.Field852c:   {tag: "852", ind1: " ", ind2: " ", code: "c"},
	domain.Field982b:   {tag: "982", ind1: Any, ind2: Any, code: "b"},
	domain.Field260c:   {tag: "260", ind1: Any, ind2: Any, code: "c"},
}

// ValidateRequired checks that rec has a title (245 $a) and a control
// number (001). Every violation is reported in one error.
func ValidateRequired(rec *domain.RawRecord) error {
	var missing []string
	if !hasTitle(rec) {
		missing = append(missing, "245 missing or None")
	}
	if rec.ID() == "" {
		missing = append(missing, "001 missing or None")
	}
	if len(missing) > 0 {
		return &domain.MissingRequiredFieldError{RecordID: rec.ID(), Fields: missing}
	}
	return nil
}

func hasTitle(rec *domain.RawRecord) bool {
	for _, f := range rec.DataFieldsByTag("245") {
		for _, v := range f.SubfieldValues("a") {
			if strings.TrimSpace(v) != "" {
				return true
			}
		}
	}
	return false
}

// ExtractFields reads every fixed key from rec. Tags with one instance
// yield a single value; repeated tags yield a list in record order.
// The derived keys are filled by ExtractIndicatorQualified.
func ExtractFields(rec *domain.RawRecord) domain.NormalizedFields {
	var fields domain.NormalizedFields
	for _, key := range domain.AllFieldKeys() {
		if tag, ok := fixedTags[key]; ok {
			fields[key] = domain.FromList(rec.FieldValues(tag))
			continue
		}
		q := derivedKeys[key]
		fields[key] = ExtractIndicatorQualified(rec, q.tag, q.ind1, q.ind2, q.code)
	}
	return fields
}

// ExtractIndicatorQualified collects subfield code from every instance of
// tag whose indicators match ind1 and ind2. Any (or "") matches all
// indicators; an empty code collects every subfield. Results are flattened.
func ExtractIndicatorQualified(rec *domain.RawRecord, tag, ind1, ind2, code string) domain.Value {
	var results []string
	for _, f := range rec.DataFieldsByTag(tag) {
		if !indicatorMatches(ind1, f.Ind1) || !indicatorMatches(ind2, f.Ind2) {
			continue
		}
		results = append(results, f.SubfieldValues(code)...)
	}
	return domain.FromList(results)
}

func indicatorMatches(want, got string) bool {
	return want == Any || want == "" || want == got
}

// ToDocumentMetadata renames fields to their semantic names and merges
// keys that share a name, in FieldKey order. Every semantic name is present.
func ToDocumentMetadata(fields domain.NormalizedFields) domain.DocumentMetadata {
	md := domain.NewDocumentMetadata()
	for _, key := range domain.AllFieldKeys() {
		name := domain.RenameTable[key]
		md[name] = md[name].Merge(fields.Get(key))
	}
	return md
}

// Normalize validates rec and converts it to document metadata.
func Normalize(rec *domain.RawRecord) (domain.DocumentMetadata, error) {
	if err := ValidateRequired(rec); err != nil {
		return nil, err
	}
	return ToDocumentMetadata(ExtractFields(rec)), nil
}

// Normalizer adapts Normalize to the driven.MetadataNormaliser port.
type Normalizer struct{}

// Normalize implements driven.MetadataNormaliser.
func (Normalizer) Normalize(rec *domain.RawRecord) (domain.DocumentMetadata, error) {
	return Normalize(rec)
}
