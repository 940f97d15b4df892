package drive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFolderVideosQuery(t *testing.T) {
	got := FolderVideosQuery("abc")
	want := "'abc' in parents and mimeType contains 'video/' and trashed = false"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	got = FolderVideosQuery(`it's`)
	want = `'it\'s' in parents and mimeType contains 'video/' and trashed = false`
	if got != want {
		t.Fatalf("escaping: got %q, want %q", got, want)
	}
}

func TestListAllFiles_FollowsPageToken(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		q := r.URL.Query()
		if q.Get("key") != "k" {
			t.Errorf("missing key, got %q", q.Get("key"))
		}
		if q.Get("fields") != Fields {
			t.Errorf("unexpected fields %q", q.Get("fields"))
		}
		if q.Get("pageSize") != "1000" {
			t.Errorf("unexpected pageSize %q", q.Get("pageSize"))
		}
		var resp ListFilesResponse
		switch n {
		case 1:
			if q.Get("pageToken") != "" {
				t.Errorf("first request carried token %q", q.Get("pageToken"))
			}
			resp = ListFilesResponse{Files: []File{{ID: "a"}, {ID: "b"}}, NextPageToken: "p2"}
		case 2:
			if q.Get("pageToken") != "p2" {
				t.Errorf("second request token = %q", q.Get("pageToken"))
			}
			resp = ListFilesResponse{Files: []File{{ID: "c"}}}
		default:
			t.Errorf("unexpected request %d", n)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	files, err := c.ListAllFiles(context.Background(), ListOptions{Query: FolderVideosQuery("f")})
	if err != nil {
		t.Fatalf("ListAllFiles: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 requests, got %d", calls)
	}
	if len(files) != 3 || files[0].ID != "a" || files[1].ID != "b" || files[2].ID != "c" {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestListFiles_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	if _, err := c.ListFiles(context.Background(), ListOptions{}, ""); err == nil {
		t.Fatal("expected error for 403")
	}
}

func TestListFiles_ClampsPageSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageSize"); got != "50" {
			t.Errorf("pageSize = %q", got)
		}
		_, _ = w.Write([]byte(`{"files":[]}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	if _, err := c.ListFiles(context.Background(), ListOptions{PageSize: 50}, ""); err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
}
