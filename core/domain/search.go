// ABOUTME: Search domain models for aggregated 3D model search results
// ABOUTME: Defines the normalized record every source adapter produces

package domain

// MaxResultsPerSource caps how many records a single source may contribute
const MaxResultsPerSource = 15

// Source identifies the upstream a search result came from
type Source string

const (
	// SourcePrintables is the Printables GraphQL catalog
	SourcePrintables Source = "Printables"

	// SourceThingiverse is the token-authenticated Thingiverse REST API
	SourceThingiverse Source = "Thingiverse"

	// SourceMakerworld is the scraped MakerWorld search page
	SourceMakerworld Source = "Makerworld"
)

// SearchResult represents one model hit normalized from any source
type SearchResult struct {
	// Title is the model's display name
	Title string `json:"title" doc:"Model title"`

	// URL points at the model page on the source site
	URL string `json:"url" doc:"Model page URL"`

	// ImageURL is a preview image of the model
	ImageURL string `json:"imageUrl" doc:"Preview image URL"`

	// Source names the upstream the hit came from
	Source Source `json:"source" doc:"Upstream source" enum:"Printables,Thingiverse,Makerworld"`

	// Author is the uploader's display name, may be empty
	Author string `json:"author" doc:"Uploader display name"`
}

// IsComplete reports whether the fields needed to render a result card are present
func (r SearchResult) IsComplete() bool {
	return r.Title != "" && r.URL != "" && r.ImageURL != ""
}
