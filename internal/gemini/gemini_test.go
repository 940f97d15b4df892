package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func textResponse(text string) *GenerateContentResponse {
	return &GenerateContentResponse{Candidates: []Candidate{{Content: Content{Parts: []Part{{Text: text}}}}}}
}

type fakeGenerator struct {
	resp *GenerateContentResponse
	err  error
	last *GenerateContentRequest
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, body *GenerateContentRequest) (*GenerateContentResponse, error) {
	f.last = body
	return f.resp, f.err
}

func TestSuggest_SplitsAndCaps(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(" Episode 1, Episode 2 ,, Trailer, Extra ")}
	a := NewAssistant(gen, "", nil)

	got := a.Suggest(context.Background(), "ep", []string{"Episode 1", "Episode 2"})
	want := []string{"Episode 1", "Episode 2", "Trailer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if gen.last.GenerationConfig == nil || gen.last.GenerationConfig.Temperature == nil {
		t.Fatal("expected temperature to be set")
	}
}

func TestFilter_DropsUnknownIDs(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`{"matchingIds":["b","zzz","a","b"]}`)}
	a := NewAssistant(gen, "", nil)

	got := a.Filter(context.Background(), "q", []VideoRef{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}})
	want := []string{"b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if gen.last.GenerationConfig.ResponseJSONSchema == nil {
		t.Fatal("expected a response schema")
	}
}

func TestAssistant_FailuresYieldEmpty(t *testing.T) {
	cases := []struct {
		name string
		gen  Generator
	}{
		{"network", &fakeGenerator{err: errors.New("connection refused")}},
		{"no candidates", &fakeGenerator{resp: &GenerateContentResponse{}}},
		{"bad json", &fakeGenerator{resp: textResponse("not json")}},
		{"disabled", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NewAssistant(c.gen, "", nil)
			if got := a.Filter(context.Background(), "q", []VideoRef{{ID: "a"}}); got == nil || len(got) != 0 {
				t.Errorf("Filter: expected empty slice, got %#v", got)
			}
			if c.name == "bad json" {
				return
			}
			if got := a.Suggest(context.Background(), "q", []string{"a"}); got == nil || len(got) != 0 {
				t.Errorf("Suggest: expected empty slice, got %#v", got)
			}
		})
	}
}

func TestAssistant_HTTPFailureInjection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := NewAssistant(NewClient("k", WithBaseURL(url)), "", nil)
	if got := a.Suggest(context.Background(), "q", []string{"x"}); len(got) != 0 {
		t.Fatalf("Suggest: got %v", got)
	}
	if got := a.Filter(context.Background(), "q", []VideoRef{{ID: "x"}}); len(got) != 0 {
		t.Fatalf("Filter: got %v", got)
	}
}

func TestClient_GenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/m1:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		var body GenerateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(body.Contents) != 1 || body.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("unexpected body %+v", body)
		}
		_ = json.NewEncoder(w).Encode(textResponse("hi there"))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	resp, err := c.GenerateContent(context.Background(), "m1", &GenerateContentRequest{Contents: UserPrompt("hello")})
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if resp.Text() != "hi there" {
		t.Fatalf("text = %q", resp.Text())
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	if _, err := c.GenerateContent(context.Background(), "", &GenerateContentRequest{Contents: UserPrompt("x")}); err == nil {
		t.Fatal("expected error for 429")
	}
}
