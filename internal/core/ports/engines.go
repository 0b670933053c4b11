package ports

import (
	"context"
	"io"
	"time"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// NewStoryInput carries everything the story engine needs to open a new
// adventure.
type NewStoryInput struct {
	Prompt           string
	Perspective      string
	Language         string
	MinWordsPerLevel int
	MaxWordsPerLevel int
}

// StoryDraft is the engine's response for a new adventure: the metadata
// plus the opening chapter.
type StoryDraft struct {
	Title    string
	Synopsis string
	Text     string
	Options  []string
}

// NextNodeInput carries the accumulated story state and the choice taken.
type NextNodeInput struct {
	Title            string
	Synopsis         string
	Perspective      string
	PreviousTexts    []string
	SelectedOption   string
	Outcome          domain.Outcome
	MinWordsPerLevel int
	MaxWordsPerLevel int
}

// NodeDraft is the engine's response for a continuation chapter.
// Options is empty when the outcome was terminal.
type NodeDraft struct {
	Text    string
	Options []string
}

// StoryEngine generates story content from an external language model.
// Failures surface as domain.ErrUpstream; the gateway must not partially
// persist an adventure when generation fails.
type StoryEngine interface {
	NewStory(ctx context.Context, in NewStoryInput) (*StoryDraft, error)
	NextNode(ctx context.Context, in NextNodeInput) (*NodeDraft, error)
}

// ImageEngine generates cover art. Cover generation is best-effort: a
// failure degrades to an adventure without a cover, never a fatal error.
type ImageEngine interface {
	GenerateCover(ctx context.Context, prompt string) (data []byte, contentType string, err error)
}

// ObjectStore abstracts the cloud object store holding cover images.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (domain.ImageRef, error)
	PresignGet(ctx context.Context, ref domain.ImageRef, ttl time.Duration) (string, error)
}

// PasswordHasher is a memory-hard one-way password hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) bool
}
