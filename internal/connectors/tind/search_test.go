package tind

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/core/domain"
)

func searchPage(searchID string, ids ...int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<collection xmlns="http://www.loc.gov/MARC21/slim">`)
	if searchID != "" {
		fmt.Fprintf(&b, "<search_id>%s</search_id>", searchID)
	}
	for _, id := range ids {
		fmt.Fprintf(&b, `<record><controlfield tag="001">%d</controlfield>`+
			`<datafield tag="245" ind1=" " ind2=" "><subfield code="a">Record %d</subfield></datafield></record>`, id, id)
	}
	b.WriteString(`</collection>`)
	return b.String()
}

func drain(t *testing.T, c *Client, query string) ([]*domain.RawRecord, error) {
	t.Helper()
	pager, err := c.Search(context.Background(), query)
	require.NoError(t, err)

	var all []*domain.RawRecord
	for i := 0; i < 10; i++ {
		page, err := pager.NextPage(context.Background())
		if err != nil {
			return all, err
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)
	}
	t.Fatal("pager did not terminate")
	return nil, nil
}

func TestSearch_PagesUntilEmpty(t *testing.T) {
	first := make([]int, 20)
	for i := range first {
		first[i] = 34059 + i
	}
	var cursors []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/search", r.URL.Path)
		assert.Equal(t, "alligator", r.URL.Query().Get("p"))
		cursor := r.URL.Query().Get("search_id")
		cursors = append(cursors, cursor)
		switch len(cursors) {
		case 1:
			fmt.Fprint(w, searchPage("abc", first...))
		case 2:
			fmt.Fprint(w, searchPage("abc", 99999))
		default:
			fmt.Fprint(w, searchPage("abc"))
		}
	})

	records, err := drain(t, c, "alligator")

	require.NoError(t, err)
	assert.Len(t, records, 21)
	assert.Equal(t, []string{"", "abc", "abc"}, cursors)
	assert.Equal(t, "99999", records[20].ID())
}

func TestSearch_LaterPageFailureIsFatal(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, searchPage("cursor", 1, 2))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"reason": "search_id expired"}`)
	})

	records, err := drain(t, c, "q")

	assert.Len(t, records, 2)
	var ce *domain.CatalogueError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "search_id expired", ce.Reason)
}

func TestSearch_ErrorResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": "User guest is not authorized to perform runapi"}`)
	})

	_, err := drain(t, c, "alligator")

	var ce *domain.CatalogueError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusForbidden, ce.StatusCode)
}

func TestSearch_NoCursorStopsAfterFirstPage(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, searchPage("", 1, 2, 3))
	})

	records, err := drain(t, c, "q")

	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, 1, calls)
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := New(Config{APIKey: "k"})

	_, err := c.Search(context.Background(), "  ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseSearchPage(t *testing.T) {
	records, id, err := parseSearchPage([]byte(searchPage(" xyz ", 7)))

	require.NoError(t, err)
	assert.Equal(t, "xyz", id)
	require.Len(t, records, 1)
	assert.Equal(t, "7", records[0].ID())

	_, _, err = parseSearchPage([]byte("<collection><record>"))
	assert.Error(t, err)
}
