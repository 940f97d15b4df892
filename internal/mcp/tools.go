package mcp

// ListVideosInput represents input for the list_videos tool
type ListVideosInput struct {
	Query string `json:"query,omitempty" jsonschema:"case-insensitive substring the video name must contain"`
	Order string `json:"order,omitempty" jsonschema:"sort direction by name: asc (default) or desc"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of videos to return (0 for all)"`
}

// ListVideosOutput represents output from the list_videos tool
type ListVideosOutput struct {
	Videos []VideoInfo `json:"videos"`
	Total  int         `json:"total"`
}

// VideoInfo represents a single video in tool output
type VideoInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Created   string `json:"created"`
	Download  string `json:"download_link,omitempty"`
	Thumbnail string `json:"thumbnail_url,omitempty"`
}

// RefreshInput represents input for the refresh_catalog tool
type RefreshInput struct{}

// RefreshOutput represents output from the refresh_catalog tool
type RefreshOutput struct {
	Success bool   `json:"success"`
	Total   int    `json:"total"`
	Error   string `json:"error,omitempty"`
}

// SuggestInput represents input for the suggest_terms tool
type SuggestInput struct {
	Query string `json:"query" jsonschema:"the search text to expand"`
}

// SuggestOutput represents output from the suggest_terms tool
type SuggestOutput struct {
	Terms []string `json:"terms"`
}

// AIFilterInput represents input for the ai_filter tool
type AIFilterInput struct {
	Query string `json:"query" jsonschema:"natural language description of the videos wanted"`
}

// AIFilterOutput represents output from the ai_filter tool
type AIFilterOutput struct {
	Videos []VideoInfo `json:"videos"`
	Total  int         `json:"total"`
}

// VideoLinksInput represents input for the video_links tool
type VideoLinksInput struct {
	ID string `json:"id" jsonschema:"Drive file id of the video"`
}

// VideoLinksOutput represents output from the video_links tool
type VideoLinksOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Viewer    string `json:"viewer"`
	Preview   string `json:"preview"`
	Thumbnail string `json:"thumbnail"`
	Download  string `json:"download,omitempty"`
}
