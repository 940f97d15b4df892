package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// MaxSuggestions caps the number of suggested search terms.
const MaxSuggestions = 3

// Generator is the part of Client the Assistant needs.
type Generator interface {
	GenerateContent(ctx context.Context, model string, body *GenerateContentRequest) (*GenerateContentResponse, error)
}

// VideoRef identifies a video for semantic filtering.
type VideoRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assistant offers best-effort search help. Its methods never fail:
// every error is logged and turned into an empty result.
type Assistant struct {
	gen    Generator
	model  string
	logger *log.Logger
}

// NewAssistant creates an assistant. A nil generator disables it.
func NewAssistant(gen Generator, model string, logger *log.Logger) *Assistant {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Assistant{gen: gen, model: model, logger: logger}
}

// Enabled reports whether a generator is configured.
func (a *Assistant) Enabled() bool {
	return a != nil && a.gen != nil
}

var suggestTemperature = 0.7

// Suggest returns up to MaxSuggestions search terms related to query.
func (a *Assistant) Suggest(ctx context.Context, query string, names []string) []string {
	if !a.Enabled() {
		return []string{}
	}

	prompt := fmt.Sprintf(
		"The user is searching for %q in their Google Drive video library. "+
			"These are the available titles: %s. "+
			"Identify the %d most likely titles or related terms that would help the search. "+
			"Answer only with the terms separated by commas.",
		query, strings.Join(names, ", "), MaxSuggestions)

	resp, err := a.gen.GenerateContent(ctx, a.model, &GenerateContentRequest{
		Contents:         UserPrompt(prompt),
		GenerationConfig: &GenerationConfig{Temperature: &suggestTemperature},
	})
	if err != nil {
		a.logger.Printf("suggest: %v", err)
		return []string{}
	}

	return splitTerms(resp.Text(), MaxSuggestions)
}

func splitTerms(text string, limit int) []string {
	terms := []string{}
	for _, s := range strings.Split(text, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		terms = append(terms, s)
		if len(terms) == limit {
			break
		}
	}
	return terms
}

type filterResult struct {
	MatchingIDs []string `json:"matchingIds"`
}

var filterSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"matchingIds": {
			Type:  "array",
			Items: &jsonschema.Schema{Type: "string"},
		},
	},
	Required: []string{"matchingIds"},
}

// Filter returns the ids of refs judged semantically relevant to query.
// Ids not present in refs are dropped.
func (a *Assistant) Filter(ctx context.Context, query string, refs []VideoRef) []string {
	if !a.Enabled() {
		return []string{}
	}

	list, err := json.Marshal(refs)
	if err != nil {
		a.logger.Printf("filter: %v", err)
		return []string{}
	}

	prompt := fmt.Sprintf(
		"Given the search %q and the video list %s, return a JSON object whose "+
			"matchingIds array holds the ids of the videos that semantically match the search.",
		query, list)

	resp, err := a.gen.GenerateContent(ctx, a.model, &GenerateContentRequest{
		Contents: UserPrompt(prompt),
		GenerationConfig: &GenerationConfig{
			ResponseMimeType:   "application/json",
			ResponseJSONSchema: filterSchema,
		},
	})
	if err != nil {
		a.logger.Printf("filter: %v", err)
		return []string{}
	}

	var result filterResult
	if err := json.Unmarshal([]byte(resp.Text()), &result); err != nil {
		a.logger.Printf("filter: failed to parse response: %v", err)
		return []string{}
	}

	known := make(map[string]bool, len(refs))
	for _, r := range refs {
		known[r.ID] = true
	}
	ids := []string{}
	for _, id := range result.MatchingIDs {
		if known[id] {
			ids = append(ids, id)
			delete(known, id)
		}
	}
	return ids
}
