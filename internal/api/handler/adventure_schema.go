package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type startAdventureRequest struct {
	Prompt           string `json:"prompt"              validate:"required,min=3"`
	Perspective      string `json:"perspective"         validate:"omitempty,oneof=first second third"`
	Language         string `json:"language"            validate:"omitempty,min=2"`
	MaxLevels        int    `json:"max_levels"          validate:"omitempty,gte=1,lte=20"`
	MinWordsPerLevel int    `json:"min_words_per_level" validate:"omitempty,gte=10"`
	MaxWordsPerLevel int    `json:"max_words_per_level" validate:"omitempty,gtefield=MinWordsPerLevel"`
	IsPublic         bool   `json:"is_public"`
	CoverImage       bool   `json:"cover_image"`
}

type continueAdventureRequest struct {
	NodeIndex      int    `json:"node_index"      validate:"gte=0"`
	SelectedOption *int   `json:"selected_option" validate:"required,gte=0"`
	Outcome        string `json:"outcome"         validate:"omitempty,oneof=continue finish dead"`
}

type truncateAdventureRequest struct {
	NodeIndex int `json:"node_index" validate:"gte=0"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type adventureSummaryResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Synopsis         string    `json:"synopsis"`
	Status           string    `json:"status"`
	Perspective      string    `json:"perspective,omitempty"`
	MaxLevels        int       `json:"max_levels"`
	MinWordsPerLevel int       `json:"min_words_per_level"`
	MaxWordsPerLevel int       `json:"max_words_per_level"`
	NumNodes         int       `json:"num_nodes"`
	CloneOf          string    `json:"clone_of,omitempty"`
	HasCover         bool      `json:"has_cover"`
	CreatedAt        time.Time `json:"created_at"`
}

type nodeResponse struct {
	Text            string    `json:"text"`
	Options         []string  `json:"options"`
	Level           int       `json:"level"`
	PrevOptionIndex *int      `json:"prev_option_index,omitempty"`
	PrevOptionText  string    `json:"prev_option_text,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type adventureDetailResponse struct {
	adventureSummaryResponse
	Nodes []nodeResponse `json:"nodes"`
}

type continueResponse struct {
	AdventureID string `json:"adventure_id"`
	NodeIndex   int    `json:"node_index"`
	Status      string `json:"status"`
}

type coverURLResponse struct {
	URL string `json:"url"`
}

type listAdventuresResponse struct {
	Data []adventureSummaryResponse `json:"data"`
}
