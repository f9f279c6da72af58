package domain

import "strings"

// ControlField is a MARC control field (tags 001-009). It carries data
// but no indicators or subfields.
type ControlField struct {
	Tag  string
	Data string
}

// Subfield is one labelled value inside a data field.
type Subfield struct {
	Code  string
	Value string
}

// DataField is a MARC data field instance with two single-character
// indicators and an ordered list of subfields.
type DataField struct {
	Tag       string
	Ind1      string
	Ind2      string
	Subfields []Subfield
}

// Value returns the subfield values joined by single spaces.
func (f DataField) Value() string {
	parts := make([]string, 0, len(f.Subfields))
	for _, sf := range f.Subfields {
		parts = append(parts, sf.Value)
	}
	return strings.Join(parts, " ")
}

// SubfieldValues returns every value for the given subfield code, in order.
// An empty code returns all subfield values.
func (f DataField) SubfieldValues(code string) []string {
	var out []string
	for _, sf := range f.Subfields {
		if code == "" || sf.Code == code {
			out = append(out, sf.Value)
		}
	}
	return out
}

// RawRecord is a bibliographic record in its original multi-valued form.
// Field order is the order the catalogue returned them in.
// A RawRecord is not modified after it is fetched.
type RawRecord struct {
	Leader        string
	ControlFields []ControlField
	DataFields    []DataField
}

// FieldValues returns the value of every instance of tag in record order.
// Control fields yield their data; data fields yield their joined subfields.
func (r *RawRecord) FieldValues(tag string) []string {
	var out []string
	for _, cf := range r.ControlFields {
		if cf.Tag == tag {
			out = append(out, cf.Data)
		}
	}
	for _, df := range r.DataFields {
		if df.Tag == tag {
			out = append(out, df.Value())
		}
	}
	return out
}

// DataFieldsByTag returns every data field instance with the given tag.
func (r *RawRecord) DataFieldsByTag(tag string) []DataField {
	var out []DataField
	for _, df := range r.DataFields {
		if df.Tag == tag {
			out = append(out, df)
		}
	}
	return out
}

// ID returns the control number (001) of the record, or "" if absent.
func (r *RawRecord) ID() string {
	for _, cf := range r.ControlFields {
		if cf.Tag == "001" {
			return strings.TrimSpace(cf.Data)
		}
	}
	return ""
}

// FileDescriptor describes one downloadable file attached to a record.
type FileDescriptor struct {
	// URL is the download location.
	URL string `json:"url"`

	// Name is the file name reported by the catalogue.
	Name string `json:"name"`
}
