package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/99minutos/delivery-map/internal/core/domain"
)

type recordDTO struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

type listResponse struct {
	Records []recordDTO `json:"records"`
	Offset  string      `json:"offset"`
}

func (r recordDTO) toDomain() domain.Record {
	rec := domain.Record{ID: r.ID, Fields: r.Fields}
	if rec.Fields == nil {
		rec.Fields = map[string]any{}
	}
	if t, err := time.Parse(time.RFC3339, r.CreatedTime); err == nil {
		rec.CreatedTime = t
	}
	return rec
}

// FetchOne retrieves a record by id.
func (c *Client) FetchOne(ctx context.Context, table, recordID string) (domain.Record, error) {
	if strings.TrimSpace(recordID) == "" {
		return domain.Record{}, fmt.Errorf("airtable find: %w: empty record id", domain.ErrRecordNotFound)
	}

	var dto recordDTO
	if err := c.getJSON(ctx, c.tableURL(table)+"/"+url.PathEscape(recordID), nil, &dto); err != nil {
		return domain.Record{}, classify("find", err, true)
	}
	return dto.toDomain(), nil
}

// FetchAll walks the offset cursor until the view is exhausted.
func (c *Client) FetchAll(ctx context.Context, table, view string) ([]domain.Record, error) {
	out := []domain.Record{}
	offset := ""

	for {
		q := url.Values{}
		q.Set("pageSize", strconv.Itoa(pageSize))
		if view != "" {
			q.Set("view", view)
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse
		if err := c.getJSON(ctx, c.tableURL(table), q, &page); err != nil {
			return nil, classify("list", err, false)
		}
		for _, r := range page.Records {
			out = append(out, r.toDomain())
		}

		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// Ping reads at most one record from the ping table.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("pageSize", "1")
	q.Set("maxRecords", "1")

	var page listResponse
	if err := c.getJSON(ctx, c.tableURL(c.pingTable), q, &page); err != nil {
		return classify("ping", err, false)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, v any) error {
	req, err := c.newRequest(ctx, endpoint, query)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
