package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	baseURL = "https://www.googleapis.com/drive/v3/files"

	// MaxPageSize is the largest page the listing API accepts.
	MaxPageSize = 1000

	// Fields is the projection requested for every page.
	Fields = "nextPageToken,files(id,name,thumbnailLink,size,createdTime,webContentLink)"
)

// Client is a Drive v3 files API client authenticated with an API key
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// File represents a file entry as returned by the listing API
type File struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ThumbnailLink  string `json:"thumbnailLink,omitempty"`
	Size           string `json:"size,omitempty"`
	CreatedTime    string `json:"createdTime,omitempty"`
	WebContentLink string `json:"webContentLink,omitempty"`
}

// ListFilesResponse represents one page of the listing
type ListFilesResponse struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken"`
}

// ListOptions controls a listing request
type ListOptions struct {
	Query    string
	PageSize int
}

// Option customizes a Client
type Option func(*Client)

// WithBaseURL points the client at another files endpoint, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new Drive API client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FolderVideosQuery builds the search expression selecting non-trashed
// video files whose parent is folderID.
func FolderVideosQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and mimeType contains 'video/' and trashed = false", escapeQueryString(folderID))
}

func escapeQueryString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// ListFiles fetches a single page of files
func (c *Client) ListFiles(ctx context.Context, opts ListOptions, pageToken string) (*ListFilesResponse, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	params := url.Values{}
	params.Set("q", opts.Query)
	params.Set("fields", Fields)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list failed with status %d: %s", resp.StatusCode, string(body))
	}

	var listResp ListFilesResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &listResp, nil
}

// ListAllFiles lists all files (handles pagination). Pages are concatenated
// in the order they were received; any page failure aborts the listing.
func (c *Client) ListAllFiles(ctx context.Context, opts ListOptions) ([]File, error) {
	var allFiles []File
	pageToken := ""

	for {
		resp, err := c.ListFiles(ctx, opts, pageToken)
		if err != nil {
			return nil, err
		}

		allFiles = append(allFiles, resp.Files...)

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return allFiles, nil
}
