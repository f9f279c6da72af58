package tind

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
	"github.com/custodia-labs/willa/internal/logger"
	"github.com/custodia-labs/willa/internal/normalisers/marc"
)

// Search starts a paginated search for query.
func (c *Client) Search(_ context.Context, query string) (driven.SearchPager, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidInput)
	}
	return &searchPager{client: c, query: query}, nil
}

// searchPager walks the pages of one search using the search_id cursor.
type searchPager struct {
	client   *Client
	query    string
	searchID string
	page     int
	done     bool
}

// NextPage returns the next page of hits. Once an empty page has been
// returned every further call returns an empty page.
func (p *searchPager) NextPage(ctx context.Context) ([]*domain.RawRecord, error) {
	if p.done {
		return nil, nil
	}

	params := url.Values{"p": {p.query}, "of": {"xm"}}
	if p.searchID != "" {
		params.Set("search_id", p.searchID)
	}

	resp, err := p.client.get(ctx, p.client.endpoint("search"), params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search page %d: %w", p.page+1, readError(resp))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search page %d: %w", p.page+1, err)
	}

	records, searchID, err := parseSearchPage(body)
	if err != nil {
		return nil, fmt.Errorf("search page %d: %w", p.page+1,
			&domain.CatalogueError{StatusCode: resp.StatusCode, Reason: err.Error()})
	}

	p.page++
	logger.Debug("tind: search %q page %d returned %d records", p.query, p.page, len(records))

	switch {
	case len(records) == 0:
		p.done = true
	case searchID != "":
		p.searchID = searchID
	case p.searchID == "":
		// Without a cursor the next request would repeat this page.
		p.done = true
	}
	return records, nil
}

// parseSearchPage reads the records and search_id of one MARCXML search page.
func parseSearchPage(data []byte) ([]*domain.RawRecord, string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		records  []*domain.RawRecord
		searchID string
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("parse search page: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "record":
			var x marc.XMLRecord
			if err := dec.DecodeElement(&x, &start); err != nil {
				return nil, "", fmt.Errorf("parse search record: %w", err)
			}
			records = append(records, x.ToRawRecord())
		case "search_id":
			var id string
			if err := dec.DecodeElement(&id, &start); err != nil {
				return nil, "", fmt.Errorf("parse search_id: %w", err)
			}
			searchID = strings.TrimSpace(id)
		}
	}
	return records, searchID, nil
}
