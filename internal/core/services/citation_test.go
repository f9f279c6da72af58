package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/willa/internal/core/domain"
)

func TestCitationFormatter_BuildURL(t *testing.T) {
	assert.Equal(t, "https://digicoll.lib.berkeley.edu/record/103806",
		NewCitationFormatter("").BuildURL("103806"))
	assert.Equal(t, "https://tind.example/record/1",
		NewCitationFormatter("https://tind.example/").BuildURL("1"))
}

func TestRenderCitations_ScalarFields(t *testing.T) {
	f := NewCitationFormatter("")

	got := f.RenderCitations([]domain.Chunk{chunkFor("103806", "Thalia Zepatos", "text")})

	want := "\n\nTind ID: 103806\n\nTitle: Thalia Zepatos\n\n" +
		"Catalogue Link: https://digicoll.lib.berkeley.edu/record/103806" +
		"\n___________\n\n"
	assert.Equal(t, want, got)
}

func TestRenderCitations_ListFieldsOneLinePerValue(t *testing.T) {
	c := chunkFor("1", "T", "")
	c.Metadata[domain.MetaContributor] = domain.Many("Meeker, Martin", "Rees, Kate")
	c.Metadata[domain.MetaIsPartOf] = domain.Many("Project A")

	got := NewCitationFormatter("").RenderCitations([]domain.Chunk{c})

	assert.Contains(t, got, "Contributor: Meeker, Martin\nContributor: Rees, Kate\n")
	assert.Contains(t, got, "Project Name: Project A\nCatalogue Link:")
}

func TestRenderCitations_EmptyFieldsRenderNothing(t *testing.T) {
	got := NewCitationFormatter("").RenderCitations([]domain.Chunk{chunkFor("1", "T", "")})

	assert.NotContains(t, got, "Contributor:")
	assert.NotContains(t, got, "Project Name:")
}

func TestRenderCitations_DedupByRecordID(t *testing.T) {
	f := NewCitationFormatter("")

	same := f.RenderCitations([]domain.Chunk{chunkFor("1", "A", "x"), chunkFor("1", "A", "y")})
	assert.Equal(t, 1, strings.Count(same, "Catalogue Link:"))

	distinct := f.RenderCitations([]domain.Chunk{
		chunkFor("2", "B", ""), chunkFor("1", "A", ""), chunkFor("2", "B", ""),
	})
	assert.Equal(t, 2, strings.Count(distinct, "Catalogue Link:"))
	assert.Less(t, strings.Index(distinct, "record/2"), strings.Index(distinct, "record/1"))
}

func TestRenderCitations_Empty(t *testing.T) {
	assert.Equal(t, "", NewCitationFormatter("").RenderCitations(nil))
}
