package tind

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/normalisers/marc"
)

// FetchMetadata returns the MARC record for id.
func (c *Client) FetchMetadata(ctx context.Context, id string) (*domain.RawRecord, error) {
	resp, err := c.get(ctx, c.endpoint("record/"+url.PathEscape(id)+"/"), url.Values{"of": {"xm"}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: record %s not found in TIND", domain.ErrRecordNotFound, id)
	case resp.StatusCode != http.StatusOK:
		return nil, readError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read record %s: %w", id, err)
	}

	records, err := marc.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	switch len(records) {
	case 0:
		return nil, fmt.Errorf("%w: record %s not found in TIND", domain.ErrRecordNotFound, id)
	case 1:
		return records[0], nil
	default:
		return nil, fmt.Errorf("%w: record %s matched more than one record in TIND", domain.ErrRecordNotFound, id)
	}
}

// FetchFileList returns the files attached to record id.
func (c *Client) FetchFileList(ctx context.Context, id string) ([]domain.FileDescriptor, error) {
	resp, err := c.get(ctx, c.endpoint("record/"+url.PathEscape(id)+"/files"), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var files []domain.FileDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, &domain.CatalogueError{StatusCode: resp.StatusCode, Reason: nonJSONReason}
	}
	return files, nil
}
