// Package marc normalises MARC bibliographic records into flat, validated
// metadata. It reads and writes the MARCXML slim format used by the catalogue.
package marc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// Namespace is the MARC21 slim XML namespace.
const Namespace = "http://www.loc.gov/MARC21/slim"

// XMLRecord is a MARCXML <record> element.
type XMLRecord struct {
	Leader        string            `xml:"leader,omitempty"`
	ControlFields []xmlControlField `xml:"controlfield"`
	DataFields    []xmlDataField    `xml:"datafield"`
}

type xmlControlField struct {
	Tag  string `xml:"tag,attr"`
	Data string `xml:",chardata"`
}

type xmlDataField struct {
	Tag       string        `xml:"tag,attr"`
	Ind1      string        `xml:"ind1,attr"`
	Ind2      string        `xml:"ind2,attr"`
	Subfields []xmlSubfield `xml:"subfield"`
}

type xmlSubfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

// ToRawRecord converts the XML form into a domain record.
// Missing indicators are normalised to a single space.
func (x XMLRecord) ToRawRecord() *domain.RawRecord {
	rec := &domain.RawRecord{Leader: x.Leader}
	for _, cf := range x.ControlFields {
		rec.ControlFields = append(rec.ControlFields, domain.ControlField{Tag: cf.Tag, Data: cf.Data})
	}
	for _, df := range x.DataFields {
		field := domain.DataField{Tag: df.Tag, Ind1: indicator(df.Ind1), Ind2: indicator(df.Ind2)}
		for _, sf := range df.Subfields {
			field.Subfields = append(field.Subfields, domain.Subfield{Code: sf.Code, Value: sf.Value})
		}
		rec.DataFields = append(rec.DataFields, field)
	}
	return rec
}

func indicator(s string) string {
	if s == "" {
		return " "
	}
	return s
}

// FromRawRecord converts a domain record into its XML form.
func FromRawRecord(rec *domain.RawRecord) XMLRecord {
	x := XMLRecord{Leader: rec.Leader}
	for _, cf := range rec.ControlFields {
		x.ControlFields = append(x.ControlFields, xmlControlField{Tag: cf.Tag, Data: cf.Data})
	}
	for _, df := range rec.DataFields {
		field := xmlDataField{Tag: df.Tag, Ind1: indicator(df.Ind1), Ind2: indicator(df.Ind2)}
		for _, sf := range df.Subfields {
			field.Subfields = append(field.Subfields, xmlSubfield{Code: sf.Code, Value: sf.Value})
		}
		x.DataFields = append(x.DataFields, field)
	}
	return x
}

// Parse reads every record from a MARCXML document. Both a bare <record>
// root and a <collection> root are accepted.
func Parse(r io.Reader) ([]*domain.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read marcxml: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) ([]*domain.RawRecord, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []*domain.RawRecord
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse marcxml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "record" {
			continue
		}
		var x XMLRecord
		if err := dec.DecodeElement(&x, &start); err != nil {
			return nil, fmt.Errorf("parse marcxml record: %w", err)
		}
		out = append(out, x.ToRawRecord())
	}
	return out, nil
}

// Marshal encodes rec as an indented MARCXML collection holding one record.
func Marshal(rec *domain.RawRecord) ([]byte, error) {
	coll := struct {
		XMLName xml.Name    `xml:"collection"`
		Xmlns   string      `xml:"xmlns,attr"`
		Records []XMLRecord `xml:"record"`
	}{Xmlns: Namespace, Records: []XMLRecord{FromRawRecord(rec)}}

	body, err := xml.MarshalIndent(coll, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal marcxml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
