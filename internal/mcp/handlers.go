package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takeshy/drivevids/internal/catalog"
	"github.com/takeshy/drivevids/internal/gemini"
	"github.com/takeshy/drivevids/internal/view"
)

func toInfo(v catalog.Video) VideoInfo {
	return VideoInfo{
		ID:        v.ID,
		Name:      v.Name,
		Size:      v.SizeLabel,
		Created:   v.DateLabel,
		Download:  v.DownloadLink,
		Thumbnail: v.ThumbnailURL,
	}
}

func textResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

// handleListVideos handles the list_videos tool. It derives its own view
// so tool calls never disturb the shared query and sort state.
func (s *Server) handleListVideos(ctx context.Context, req *mcp.CallToolRequest, input ListVideosInput) (*mcp.CallToolResult, ListVideosOutput, error) {
	output := ListVideosOutput{Videos: []VideoInfo{}}

	order := view.ParseSortOrder(input.Order)
	if input.Limit < 0 {
		return nil, output, fmt.Errorf("limit must not be negative")
	}

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, output, fmt.Errorf("failed to load catalog: %w", err)
	}

	visible := view.Derive(s.catalog.Videos(), input.Query, order)
	output.Total = len(visible)
	if input.Limit > 0 && len(visible) > input.Limit {
		visible = visible[:input.Limit]
	}
	for _, v := range visible {
		output.Videos = append(output.Videos, toInfo(v))
	}

	if input.Query != "" {
		return textResult("Found %d videos matching '%s'", output.Total, input.Query), output, nil
	}
	return textResult("Found %d videos", output.Total), output, nil
}

// handleRefresh handles the refresh_catalog tool
func (s *Server) handleRefresh(ctx context.Context, req *mcp.CallToolRequest, input RefreshInput) (*mcp.CallToolResult, RefreshOutput, error) {
	output := RefreshOutput{}

	if err := s.catalog.Refresh(ctx); err != nil {
		output.Error = err.Error()
		output.Total = len(s.catalog.Videos())
		return textResult("Refresh failed: %v", err), output, nil
	}

	output.Success = true
	output.Total = len(s.catalog.Videos())
	return textResult("Catalog refreshed: %d videos", output.Total), output, nil
}

// handleSuggest handles the suggest_terms tool
func (s *Server) handleSuggest(ctx context.Context, req *mcp.CallToolRequest, input SuggestInput) (*mcp.CallToolResult, SuggestOutput, error) {
	output := SuggestOutput{Terms: []string{}}

	if strings.TrimSpace(input.Query) == "" {
		return nil, output, fmt.Errorf("query is required")
	}
	if !s.assistant.Enabled() {
		return textResult("AI suggestions are disabled (no Gemini API key)"), output, nil
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, output, fmt.Errorf("failed to load catalog: %w", err)
	}

	videos := s.catalog.Videos()
	names := make([]string, len(videos))
	for i, v := range videos {
		names[i] = v.Name
	}

	output.Terms = s.assistant.Suggest(ctx, input.Query, names)
	if len(output.Terms) == 0 {
		return textResult("No suggestions"), output, nil
	}
	return textResult("Suggestions: %s", strings.Join(output.Terms, ", ")), output, nil
}

// handleAIFilter handles the ai_filter tool
func (s *Server) handleAIFilter(ctx context.Context, req *mcp.CallToolRequest, input AIFilterInput) (*mcp.CallToolResult, AIFilterOutput, error) {
	output := AIFilterOutput{Videos: []VideoInfo{}}

	if strings.TrimSpace(input.Query) == "" {
		return nil, output, fmt.Errorf("query is required")
	}
	if !s.assistant.Enabled() {
		return textResult("AI filter is disabled (no Gemini API key)"), output, nil
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, output, fmt.Errorf("failed to load catalog: %w", err)
	}

	videos := s.catalog.Videos()
	refs := make([]gemini.VideoRef, len(videos))
	for i, v := range videos {
		refs[i] = gemini.VideoRef{ID: v.ID, Name: v.Name}
	}

	for _, id := range s.assistant.Filter(ctx, input.Query, refs) {
		if v, ok := s.catalog.Video(id); ok {
			output.Videos = append(output.Videos, toInfo(v))
		}
	}
	output.Total = len(output.Videos)
	return textResult("Found %d relevant videos", output.Total), output, nil
}

// handleVideoLinks handles the video_links tool
func (s *Server) handleVideoLinks(ctx context.Context, req *mcp.CallToolRequest, input VideoLinksInput) (*mcp.CallToolResult, VideoLinksOutput, error) {
	output := VideoLinksOutput{ID: input.ID}

	if input.ID == "" {
		return nil, output, fmt.Errorf("id is required")
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, output, fmt.Errorf("failed to load catalog: %w", err)
	}

	v, ok := s.catalog.Video(input.ID)
	if !ok {
		return nil, output, fmt.Errorf("video '%s' not found", input.ID)
	}

	lb := s.catalog.Links()
	output.Name = v.Name
	output.Viewer = lb.Viewer(v.ID)
	output.Preview = lb.Preview(v.ID)
	output.Thumbnail = v.ThumbnailURL
	output.Download = v.DownloadLink
	return textResult("%s: %s", v.Name, output.Viewer), output, nil
}
