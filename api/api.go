// Package api implements [rag.Asker] and the account, document, and admin
// operations of the RAG backend's HTTP API.
//
// Answers are consumed from the streaming endpoint as SSE-style frames and
// normalized into [rag.Event] deliveries. When the streaming endpoint is
// missing (HTTP 404) or unreachable, the client transparently falls back to
// the non-streaming endpoint and synthesizes the same event sequence.
package api

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fwojciec/rag"
)

const (
	askPath           = "/ask"
	askStreamPath     = "/ask/stream"
	loginPath         = "/login"
	registerPath      = "/register"
	searchPath        = "/search"
	docsPath          = "/docs"
	uploadPath        = "/upload"
	ingestPath        = "/ingest"
	healthPath        = "/health"
	adminUsersPath    = "/admin/users"
	adminTokensPath   = "/admin/tokens"
	adminRevokePath   = "/admin/tokens/revoke"
	requestIDHeader   = "X-Request-ID"
	eventStreamType   = "text/event-stream"
	jsonContentType   = "application/json"
	maxErrorBodyBytes = 64 << 10
)

// apiAskRequest is the JSON body sent to both ask endpoints.
type apiAskRequest struct {
	Question       string  `json:"question"`
	TopK           int     `json:"top_k"`
	BM25Weight     float64 `json:"bm25_weight"`
	IncludeContent bool    `json:"include_content"`
}

func convertAskRequest(req rag.AskRequest) apiAskRequest {
	return apiAskRequest{
		Question:       req.Question,
		TopK:           req.TopK,
		BM25Weight:     req.BM25Weight,
		IncludeContent: req.IncludeContent,
	}
}

// apiContext is a retrieved passage. The backend sends a null score when
// the retriever did not rank the passage.
type apiContext struct {
	Source  string   `json:"source"`
	Content string   `json:"content,omitempty"`
	Score   *float64 `json:"score"`
	Hash    string   `json:"hash,omitempty"`
}

func convertContexts(in []apiContext) []rag.ContextItem {
	if len(in) == 0 {
		return nil
	}
	out := make([]rag.ContextItem, len(in))
	for i, c := range in {
		out[i] = rag.ContextItem{Source: c.Source, Content: c.Content, Hash: c.Hash}
		if c.Score != nil {
			out[i].Score = *c.Score
		}
	}
	return out
}

type apiAskResult struct {
	Answer   string       `json:"answer"`
	Contexts []apiContext `json:"contexts"`
}

// apiError is the error body shape shared by the backend's views.
type apiError struct {
	Error       string `json:"error"`
	Detail      string `json:"detail"`
	IngestError string `json:"ingest_error"`
}

type apiCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type apiLogin struct {
	Token   string `json:"token"`
	IsAdmin flag   `json:"is_admin"`
	JTI     string `json:"jti"`
}

type apiUser struct {
	ID        int      `json:"id"`
	Username  string   `json:"username"`
	IsAdmin   flag     `json:"is_admin"`
	IsActive  flag     `json:"is_active"`
	CreatedAt unixTime `json:"created_at"`
}

type apiRevoked struct {
	ID        int      `json:"id"`
	JTI       string   `json:"jti"`
	RevokedAt unixTime `json:"revoked_at"`
	RevokedBy string   `json:"revoked_by"`
}

type apiDocument struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Size    int64    `json:"size"`
	ModTime unixTime `json:"mtime"`
	Hash    string   `json:"hash"`
	Indexed flag     `json:"indexed"`
}

type apiSearchHit struct {
	Content   string `json:"content"`
	Highlight string `json:"highlight"`
	DocName   string `json:"doc_name"`
}

// flag decodes JSON booleans as well as the 0/1 integers SQLite rows produce.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// unixTime is a timestamp in seconds since the epoch. Zero means unset.
type unixTime int64

func (u unixTime) Time() time.Time {
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(int64(u), 0).UTC()
}
