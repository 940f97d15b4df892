package transfer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHandle_Completes(t *testing.T) {
	h := Start(context.Background(), time.Second, func(ctx context.Context) error {
		return nil
	})
	if got := h.Wait(context.Background()); got != Completed {
		t.Fatalf("expected completed, got %s", got)
	}
	if h.Err() != nil {
		t.Fatalf("unexpected error: %v", h.Err())
	}
	if h.ID == "" {
		t.Fatal("handle has no id")
	}
}

func TestHandle_RecordsWorkError(t *testing.T) {
	boom := errors.New("boom")
	h := Start(context.Background(), time.Second, func(ctx context.Context) error { return boom })
	h.Wait(context.Background())
	if !errors.Is(h.Err(), boom) {
		t.Fatalf("expected boom, got %v", h.Err())
	}
}

func TestHandle_TimesOutWithoutStoppingWork(t *testing.T) {
	release := make(chan struct{})
	h := Start(context.Background(), 20*time.Millisecond, func(ctx context.Context) error {
		<-release
		return nil
	})

	if got := h.Wait(context.Background()); got != TimedOut {
		t.Fatalf("expected timed-out, got %s", got)
	}
	select {
	case <-h.Finished():
		t.Fatal("work should still be running after timeout")
	default:
	}

	close(release)
	<-h.Finished()
	if got := h.State(); got != TimedOut {
		t.Fatalf("late completion changed state to %s", got)
	}
}

func TestHandle_NilWorkTimesOut(t *testing.T) {
	h := Start(context.Background(), 10*time.Millisecond, nil)
	if got := h.Wait(context.Background()); got != TimedOut {
		t.Fatalf("expected timed-out, got %s", got)
	}
}

func TestHandle_Cancel(t *testing.T) {
	h := Start(context.Background(), time.Minute, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	h.Cancel()
	if got := h.Wait(context.Background()); got != Completed {
		t.Fatalf("expected completed after cancel, got %s", got)
	}
	if !errors.Is(h.Err(), context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", h.Err())
	}
}

func TestSaver_Save(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("video-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := NewSaver(dir, srv.Client())

	path, err := s.Save(context.Background(), "id1", "Episode 1.mp4", srv.URL+"/file")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(dir, "Episode 1.mp4") {
		t.Fatalf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "video-bytes" {
		t.Fatalf("unexpected content %q, err %v", data, err)
	}

	second, err := s.Save(context.Background(), "id2", "Episode 1.mp4", srv.URL+"/file")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if second != filepath.Join(dir, "Episode 1 (id2).mp4") {
		t.Fatalf("collision path %q", second)
	}

	if _, err := s.Save(context.Background(), "id3", "x.mp4", srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404")
	}
	if _, err := s.Save(context.Background(), "id4", "x.mp4", ""); err == nil {
		t.Fatal("expected error for empty link")
	}
}

func TestSaver_ConcurrentSameName(t *testing.T) {
	arrived := make(chan struct{}, 3)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		arrived <- struct{}{}
		<-release
		_, _ = w.Write([]byte(r.URL.Query().Get("id")))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := NewSaver(dir, srv.Client())

	type result struct {
		path string
		err  error
	}
	results := make(chan result, 2)
	for _, id := range []string{"id1", "id2"} {
		go func(id string) {
			path, err := s.Save(context.Background(), id, "clip.mp4", srv.URL+"/file?id="+id)
			results <- result{path, err}
		}(id)
	}
	<-arrived
	<-arrived
	time.Sleep(50 * time.Millisecond)
	close(release)

	paths := map[string]bool{}
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			t.Fatalf("Save: %v", r.err)
		}
		paths[r.path] = true
	}
	if len(paths) != 2 {
		t.Fatalf("both saves returned the same path: %v", paths)
	}
	contents := map[string]bool{}
	for p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		contents[string(data)] = true
	}
	if !contents["id1"] || !contents["id2"] {
		t.Fatalf("expected both bodies on disk, got %v", contents)
	}

	again, err := s.Save(context.Background(), "id2", "clip.mp4", srv.URL+"/file?id=id2")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if paths[again] {
		t.Fatalf("repeat save overwrote %s", again)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"a/b:c.mp4":  "a_b_c.mp4",
		"  ..hidden": "hidden",
		"plain.mkv":  "plain.mkv",
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
