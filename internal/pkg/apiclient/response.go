package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/pagination"
)

// Response is a successful backend answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// envelope is the backend wrapper {statusCode,message,success,data,meta}.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    *bool           `json:"success"`
	Data       json.RawMessage `json:"data"`
	Meta       json.RawMessage `json:"meta"`
}

// rawMeta accepts both pagination meta shapes: {total,page,limit,totalPages}
// and {totalItems,itemCount,itemsPerPage,totalPages,currentPage}.
type rawMeta struct {
	Total        *int `json:"total"`
	TotalItems   *int `json:"totalItems"`
	Page         int  `json:"page"`
	CurrentPage  int  `json:"currentPage"`
	Limit        int  `json:"limit"`
	ItemsPerPage int  `json:"itemsPerPage"`
	TotalPages   *int `json:"totalPages"`
}

func (r *Response) envelope() (envelope, bool) {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return envelope{}, false
	}
	if env.Success == nil && env.Data == nil {
		return envelope{}, false
	}
	return env, true
}

// Into decodes the payload into v, unwrapping the envelope when present. An
// envelope with "success": false is returned as an *Error even on a 2xx status.
func (r *Response) Into(v any) error {
	payload := r.Body
	if env, ok := r.envelope(); ok {
		if env.Success != nil && !*env.Success {
			status := env.StatusCode
			if status < http.StatusBadRequest {
				status = http.StatusUnprocessableEntity
			}
			return parseError("", "", "", status, r.Body)
		}
		if env.Data != nil {
			payload = env.Data
		}
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Meta returns the pagination metadata, or false when the body carries none.
func (r *Response) Meta() (pagination.Meta, bool) {
	env, ok := r.envelope()
	if !ok || len(env.Meta) == 0 || string(env.Meta) == "null" {
		return pagination.Meta{}, false
	}
	var m rawMeta
	if err := json.Unmarshal(env.Meta, &m); err != nil {
		return pagination.Meta{}, false
	}

	total := 0
	switch {
	case m.Total != nil:
		total = *m.Total
	case m.TotalItems != nil:
		total = *m.TotalItems
	}
	page := m.Page
	if page == 0 {
		page = m.CurrentPage
	}
	limit := m.Limit
	if limit == 0 {
		limit = m.ItemsPerPage
	}
	meta := pagination.NewMeta(total, page, limit)
	if m.TotalPages != nil {
		meta.TotalPages = *m.TotalPages
	}
	return meta, true
}

// ContentType returns the response Content-Type header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}
