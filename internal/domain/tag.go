package domain

// Tag types served by the flat /api/filters demo list.
const (
	TagPersona        = "persona"
	TagAuthorityLevel = "authority_level"
	TagKeyword        = "keyword"
)

// Tag is one entry in the flat segment-tag list. ContactCount is omitted
// for keyword tags.
type Tag struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Value        string `json:"value"`
	ContactCount int    `json:"contactCount,omitempty"`
}
