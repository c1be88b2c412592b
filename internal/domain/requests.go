package domain

// CreateRecordRequest is the body for record create. Every field is optional
// and defaulted; create never rejects a payload.
type CreateRecordRequest struct {
	Title        string        `json:"title"`
	Key          string        `json:"key"`
	Contacts     string        `json:"contacts"`
	FilterGroups []FilterGroup `json:"filterGroups"`
}

// UpdateRecordRequest is the body for record replace (partial merge with
// upsert fallback). Contacts and FilterGroups are pointers because the
// Authority Level family distinguishes "absent" from "present but empty".
type UpdateRecordRequest struct {
	Title        string         `json:"title"`
	Key          string         `json:"key"`
	Contacts     *string        `json:"contacts"`
	FilterGroups *[]FilterGroup `json:"filterGroups"`
}

// FilterGroupRequest is the body for filter-group create and operator
// update.
type FilterGroupRequest struct {
	Operator string `json:"operator"`
}

// CreateFilterRequest is the body for filter create. GroupID selects the
// target group; the NewGroupSentinel value forces a fresh group.
type CreateFilterRequest struct {
	Type     string `json:"type"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	GroupID  string `json:"groupId"`
}

// CreateTagRequest is the body for the flat tag-list create, which echoes
// without persisting.
type CreateTagRequest struct {
	Type         string `json:"type"`
	Value        string `json:"value"`
	ContactCount int    `json:"contactCount"`
}

// OnboardingForm is the wizard's accumulated form payload; the client keys
// it by step index.
type OnboardingForm map[string]any

// OnboardingRequest wraps the wizard form for submission.
type OnboardingRequest struct {
	FormData OnboardingForm `json:"formData"`
}
