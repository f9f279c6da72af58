package marc

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/core/domain"
)

func loadRecords(t *testing.T) []*domain.RawRecord {
	t.Helper()
	f, err := os.Open("testdata/records.xml")
	require.NoError(t, err)
	defer f.Close()

	recs, err := Parse(f)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	return recs
}

func TestParse_Collection(t *testing.T) {
	recs := loadRecords(t)

	first := recs[0]
	assert.Equal(t, "19217", first.ID())
	assert.Equal(t, "00000nkm a2200000 i 4500", first.Leader)
	assert.Len(t, first.ControlFields, 2)
	require.Len(t, first.DataFields, 7)
	assert.Equal(t, "245", first.DataFields[1].Tag)
	assert.Equal(t, "1", first.DataFields[1].Ind1)
	assert.Equal(t, "0", first.DataFields[1].Ind2)
	assert.Equal(t, "Avocado orchard, Fritz, Emanuel.", first.DataFields[1].Value())

	assert.Equal(t, "Bioscience, Natural Resources & Public Health Library",
		recs[1].DataFieldsByTag("852")[0].SubfieldValues("c")[0])
}

func TestParse_SingleRecordRoot(t *testing.T) {
	doc := `<record><controlfield tag="001">7</controlfield>
		<datafield tag="245" ind1="" ind2="0"><subfield code="a">T</subfield></datafield></record>`

	recs, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "7", recs[0].ID())
	assert.Equal(t, " ", recs[0].DataFields[0].Ind1)
}

func TestParse_Malformed(t *testing.T) {
	_, err := ParseBytes([]byte(`<collection><record><controlfield tag="001">1</record>`))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	recs, err := Parse(strings.NewReader(`<collection xmlns="http://www.loc.gov/MARC21/slim"></collection>`))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestMarshal_RoundTrip(t *testing.T) {
	recs := loadRecords(t)

	data, err := Marshal(recs[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))
	assert.Contains(t, string(data), Namespace)

	back, err := ParseBytes(data)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, recs[0], back[0])
}
