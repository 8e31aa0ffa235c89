package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fwojciec/rag"
)

// Search runs a document search.
func (c *Client) Search(ctx context.Context, query string) ([]rag.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("api: query must not be empty: %w", rag.ErrValidation)
	}
	var res struct {
		Results []apiSearchHit `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, searchPath, map[string]string{"query": query}, &res); err != nil {
		return nil, err
	}
	hits := make([]rag.SearchHit, len(res.Results))
	for i, h := range res.Results {
		hits[i] = rag.SearchHit{Content: h.Content, Highlight: h.Highlight, DocName: h.DocName}
	}
	return hits, nil
}

// Documents lists the source documents known to the backend. Older
// backends return the list under "files" instead of "docs".
func (c *Client) Documents(ctx context.Context) ([]rag.Document, error) {
	var res struct {
		Docs  []apiDocument `json:"docs"`
		Files []apiDocument `json:"files"`
	}
	if err := c.do(ctx, http.MethodGet, docsPath, nil, &res); err != nil {
		return nil, err
	}
	list := res.Docs
	if len(list) == 0 {
		list = res.Files
	}
	docs := make([]rag.Document, len(list))
	for i, d := range list {
		docs[i] = rag.Document{
			Name:    d.Name,
			Path:    d.Path,
			Size:    d.Size,
			ModTime: d.ModTime.Time(),
			Hash:    d.Hash,
			Indexed: bool(d.Indexed),
		}
	}
	return docs, nil
}

// Upload sends a document for indexing. name is the file name reported to
// the backend. Requires an admin token.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (rag.UploadResult, error) {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return rag.UploadResult{}, fmt.Errorf("api: upload name must not be empty: %w", rag.ErrValidation)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return rag.UploadResult{}, fmt.Errorf("api: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return rag.UploadResult{}, fmt.Errorf("api: read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return rag.UploadResult{}, fmt.Errorf("api: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, uploadPath, &body)
	if err != nil {
		return rag.UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", jsonContentType)

	var res struct {
		Success     bool   `json:"success"`
		Filename    string `json:"filename"`
		Added       int    `json:"added"`
		IngestError string `json:"ingest_error"`
	}
	if err := c.send(req, &res); err != nil {
		return rag.UploadResult{}, err
	}
	if !res.Success {
		return rag.UploadResult{}, fmt.Errorf("api: upload %s: %s", name, res.IngestError)
	}
	return rag.UploadResult{Filename: res.Filename, Added: res.Added}, nil
}

// Ingest asks the backend to re-index its document root.
func (c *Client) Ingest(ctx context.Context) (rag.IngestResult, error) {
	var res struct {
		Added    int    `json:"added"`
		RawItems int    `json:"raw_items"`
		Chunks   int    `json:"chunks"`
		JobID    string `json:"job_id"`
	}
	if err := c.do(ctx, http.MethodPost, ingestPath, nil, &res); err != nil {
		return rag.IngestResult{}, err
	}
	return rag.IngestResult{Added: res.Added, RawItems: res.RawItems, Chunks: res.Chunks, JobID: res.JobID}, nil
}

// Health reports backend liveness.
func (c *Client) Health(ctx context.Context) (rag.Health, error) {
	var res struct {
		Status  string `json:"status"`
		Backend string `json:"backend"`
	}
	if err := c.do(ctx, http.MethodGet, healthPath, nil, &res); err != nil {
		return rag.Health{}, err
	}
	return rag.Health{Status: res.Status, Backend: res.Backend}, nil
}
