package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRecord() *RawRecord {
	return &RawRecord{
		ControlFields: []ControlField{{Tag: "001", Data: " 103806 "}},
		DataFields: []DataField{
			{Tag: "245", Ind1: "1", Ind2: "0", Subfields: []Subfield{{Code: "a", Value: "Title"}, {Code: "b", Value: "sub"}}},
			{Tag: "650", Ind1: " ", Ind2: "0", Subfields: []Subfield{{Code: "a", Value: "Labor"}}},
			{Tag: "650", Ind1: " ", Ind2: "0", Subfields: []Subfield{{Code: "a", Value: "Farming"}}},
		},
	}
}

// TestRawRecord_FieldValues tests joined field values in record order
func TestRawRecord_FieldValues(t *testing.T) {
	rec := testRecord()
	assert.Equal(t, []string{"Title sub"}, rec.FieldValues("245"))
	assert.Equal(t, []string{"Labor", "Farming"}, rec.FieldValues("650"))
	assert.Equal(t, []string{" 103806 "}, rec.FieldValues("001"))
	assert.Nil(t, rec.FieldValues("999"))
}

// TestRawRecord_ID tests control number lookup
func TestRawRecord_ID(t *testing.T) {
	assert.Equal(t, "103806", testRecord().ID())
	assert.Equal(t, "", (&RawRecord{}).ID())
}

// TestDataField_SubfieldValues tests subfield selection
func TestDataField_SubfieldValues(t *testing.T) {
	f := testRecord().DataFields[0]
	assert.Equal(t, []string{"Title"}, f.SubfieldValues("a"))
	assert.Equal(t, []string{"Title", "sub"}, f.SubfieldValues(""))
	assert.Nil(t, f.SubfieldValues("z"))
}
