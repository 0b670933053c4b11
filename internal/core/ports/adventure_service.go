package ports

import (
	"context"
	"time"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// StartAdventureInput carries everything needed to open a new adventure.
type StartAdventureInput struct {
	Prompt           string
	Perspective      string
	Language         string
	MaxLevels        int
	MinWordsPerLevel int
	MaxWordsPerLevel int
	IsPublic         bool
	// CoverImage requests best-effort cover generation.
	CoverImage bool
}

// AdventureSummary is the lightweight view used in list and create
// responses; it omits the node texts.
type AdventureSummary struct {
	ID               string
	Title            string
	Synopsis         string
	Status           string
	Perspective      string
	MaxLevels        int
	MinWordsPerLevel int
	MaxWordsPerLevel int
	NumNodes         int
	CloneOf          string
	HasCover         bool
	CreatedAt        time.Time
}

// ContinueAdventureInput appends a node derived from a selected option of
// the adventure's last node. NodeIndex is the index of the node whose
// option is being taken; it doubles as the optimistic-concurrency token
// (the stored node count must equal NodeIndex+1 at write time).
type ContinueAdventureInput struct {
	AdventureID    string
	NodeIndex      int
	SelectedOption int
	Outcome        domain.Outcome
}

// ContinueResult reports the appended node's index and the resulting
// lifecycle status.
type ContinueResult struct {
	AdventureID string
	NodeIndex   int
	Status      string
}

// AdventureService is the resource gateway for adventure operations.
// Every method runs load -> decide -> act: the addressed adventure is
// loaded (or its absence established), the ownership authority renders a
// verdict, and only an allow produces any side effect.
type AdventureService interface {
	Start(ctx context.Context, p domain.Principal, in StartAdventureInput) (*AdventureSummary, error)
	List(ctx context.Context, p domain.Principal) ([]AdventureSummary, error)
	Nodes(ctx context.Context, p domain.Principal, adventureID string) (*domain.Adventure, error)
	Continue(ctx context.Context, p domain.Principal, in ContinueAdventureInput) (*ContinueResult, error)
	Truncate(ctx context.Context, p domain.Principal, adventureID string, nodeIndex int) (*AdventureSummary, error)
	Clone(ctx context.Context, p domain.Principal, adventureID string) (*AdventureSummary, error)
	Delete(ctx context.Context, p domain.Principal, adventureID string) error
	CoverURL(ctx context.Context, p domain.Principal, adventureID string) (string, error)
	RegenerateCover(ctx context.Context, p domain.Principal, adventureID string) (string, error)
}
