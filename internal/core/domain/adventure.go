package domain

import (
	"errors"
	"time"
)

// AdventureStatus represents the lifecycle state of an adventure.
type AdventureStatus string

const (
	StatusActive   AdventureStatus = "active"
	StatusFinished AdventureStatus = "finished"
	StatusDead     AdventureStatus = "dead"
)

// Outcome is the caller-supplied marker on a continue operation. Finish
// and Dead produce the final node and move the adventure to a terminal
// state; OutcomeContinue keeps it active.
type Outcome string

const (
	OutcomeContinue Outcome = "continue"
	OutcomeFinish   Outcome = "finish"
	OutcomeDead     Outcome = "dead"
)

// StatusAfter returns the adventure status that applies once a node with
// this outcome has been appended.
func (o Outcome) StatusAfter() AdventureStatus {
	switch o {
	case OutcomeFinish:
		return StatusFinished
	case OutcomeDead:
		return StatusDead
	default:
		return StatusActive
	}
}

// validTransitions defines the allowed lifecycle transitions. Truncate
// always returns an adventure to StatusActive, which is why both terminal
// states list it as a valid target.
var validTransitions = map[AdventureStatus][]AdventureStatus{
	StatusActive:   {StatusFinished, StatusDead},
	StatusFinished: {StatusActive},
	StatusDead:     {StatusActive},
}

var ErrAdventureNotFound = errors.New("adventure not found")
var ErrAdventureEnded = errors.New("adventure has ended")
var ErrInvalidIndex = errors.New("node index out of range")
var ErrInvalidOption = errors.New("selected option does not exist")
var ErrNoCoverImage = errors.New("adventure has no cover image")
var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransitionTo reports whether a transition from s to next is valid.
func (s AdventureStatus) CanTransitionTo(next AdventureStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the adventure no longer accepts continue.
func (s AdventureStatus) Terminal() bool {
	return s == StatusFinished || s == StatusDead
}

// Node is a single story chapter. Level is the node's position in the
// sequence and is strictly increasing by array index; the branching
// structure is realized through truncation and re-append, not stored.
type Node struct {
	Text            string    `json:"text" bson:"text"`
	Options         []string  `json:"options" bson:"options"`
	Level           int       `json:"level" bson:"level"`
	PrevOptionIndex *int      `json:"prev_option_index,omitempty" bson:"prev_option_index,omitempty"`
	PrevOptionText  string    `json:"prev_option_text,omitempty" bson:"prev_option_text,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// ImageRef locates an adventure's cover image in the object store.
// A zero ImageRef means the adventure has no cover.
type ImageRef struct {
	Bucket string `json:"bucket,omitempty" bson:"bucket,omitempty"`
	Key    string `json:"key,omitempty" bson:"key,omitempty"`
}

// Empty reports whether no cover image has been stored.
func (r ImageRef) Empty() bool {
	return r.Bucket == "" || r.Key == ""
}

// Adventure is the core aggregate root. OwnerID is fixed at creation and
// never reassigned. Nodes is non-empty after creation.
type Adventure struct {
	ID               string          `json:"id" bson:"_id,omitempty"`
	OwnerID          string          `json:"owner_id" bson:"owner_id"`
	Title            string          `json:"title" bson:"title"`
	Synopsis         string          `json:"synopsis" bson:"synopsis"`
	Prompt           string          `json:"prompt" bson:"prompt"`
	Perspective      string          `json:"perspective" bson:"perspective"`
	Language         string          `json:"language,omitempty" bson:"language,omitempty"`
	MaxLevels        int             `json:"max_levels" bson:"max_levels"`
	MinWordsPerLevel int             `json:"min_words_per_level" bson:"min_words_per_level"`
	MaxWordsPerLevel int             `json:"max_words_per_level" bson:"max_words_per_level"`
	IsPublic         bool            `json:"is_public" bson:"is_public"`
	Status           AdventureStatus `json:"status" bson:"status"`
	Nodes            []Node          `json:"nodes" bson:"nodes"`
	CloneOf          string          `json:"clone_of,omitempty" bson:"clone_of,omitempty"`
	Image            ImageRef        `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt        time.Time       `json:"created_at" bson:"created_at"`
}

// LastNode returns the final node of the sequence. Callers must ensure
// the adventure has at least one node.
func (a *Adventure) LastNode() Node {
	return a.Nodes[len(a.Nodes)-1]
}
