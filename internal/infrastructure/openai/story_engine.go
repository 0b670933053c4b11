// Package openai adapts the OpenAI API to the story and image engine
// ports. All failures are returned raw; the gateway wraps them in the
// upstream sentinel.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

const defaultTextModel = openai.ChatModelGPT4oMini

// StoryEngine generates adventure content through chat completions with a
// strict JSON schema response, so the model output always parses.
type StoryEngine struct {
	client openai.Client
	model  openai.ChatModel
	log    zerolog.Logger
}

func NewStoryEngine(apiKey, model string, log zerolog.Logger) *StoryEngine {
	m := defaultTextModel
	if model != "" {
		m = openai.ChatModel(model)
	}
	return &StoryEngine{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
		log:    log,
	}
}

type storyDraftJSON struct {
	Title    string   `json:"title"`
	Synopsis string   `json:"synopsis"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
}

type nodeDraftJSON struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

var storySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":    map[string]any{"type": "string"},
		"synopsis": map[string]any{"type": "string"},
		"text":     map[string]any{"type": "string"},
		"options": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"title", "synopsis", "text", "options"},
	"additionalProperties": false,
}

var nodeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"text": map[string]any{"type": "string"},
		"options": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"text", "options"},
	"additionalProperties": false,
}

func (e *StoryEngine) NewStory(ctx context.Context, in ports.NewStoryInput) (*ports.StoryDraft, error) {
	var sys strings.Builder
	sys.WriteString("You are the narrator of an interactive branching adventure. ")
	sys.WriteString("Write the opening chapter from the given premise, plus a title and a one-sentence synopsis. ")
	sys.WriteString("End the chapter with 2 to 4 options the reader can choose from.")
	if in.Perspective != "" {
		fmt.Fprintf(&sys, " Narrate in the %s person.", in.Perspective)
	}
	if in.Language != "" {
		fmt.Fprintf(&sys, " Write in %s.", in.Language)
	}
	if in.MinWordsPerLevel > 0 || in.MaxWordsPerLevel > 0 {
		fmt.Fprintf(&sys, " The chapter text must be between %d and %d words.", in.MinWordsPerLevel, in.MaxWordsPerLevel)
	}

	raw, err := e.complete(ctx, sys.String(), "Premise: "+in.Prompt, "story_opening", storySchema)
	if err != nil {
		return nil, err
	}

	var draft storyDraftJSON
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("decode story draft: %w", err)
	}
	if draft.Text == "" || len(draft.Options) == 0 {
		return nil, fmt.Errorf("story draft incomplete")
	}
	return &ports.StoryDraft{
		Title:    draft.Title,
		Synopsis: draft.Synopsis,
		Text:     draft.Text,
		Options:  draft.Options,
	}, nil
}

func (e *StoryEngine) NextNode(ctx context.Context, in ports.NextNodeInput) (*ports.NodeDraft, error) {
	var sys strings.Builder
	sys.WriteString("You are the narrator of an interactive branching adventure. ")
	sys.WriteString("Continue the story from the chapters so far and the option the reader chose.")
	switch in.Outcome {
	case domain.OutcomeFinish:
		sys.WriteString(" This chapter concludes the story with a satisfying ending. Return an empty options array.")
	case domain.OutcomeDead:
		sys.WriteString(" This chapter ends the story with the protagonist's demise. Return an empty options array.")
	default:
		sys.WriteString(" End the chapter with 2 to 4 options the reader can choose from.")
	}
	if in.Perspective != "" {
		fmt.Fprintf(&sys, " Narrate in the %s person.", in.Perspective)
	}
	if in.MinWordsPerLevel > 0 || in.MaxWordsPerLevel > 0 {
		fmt.Fprintf(&sys, " The chapter text must be between %d and %d words.", in.MinWordsPerLevel, in.MaxWordsPerLevel)
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Title: %s\nSynopsis: %s\n\n", in.Title, in.Synopsis)
	for i, text := range in.PreviousTexts {
		fmt.Fprintf(&user, "Chapter %d:\n%s\n\n", i+1, text)
	}
	fmt.Fprintf(&user, "The reader chose: %s", in.SelectedOption)

	raw, err := e.complete(ctx, sys.String(), user.String(), "story_node", nodeSchema)
	if err != nil {
		return nil, err
	}

	var draft nodeDraftJSON
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("decode node draft: %w", err)
	}
	if draft.Text == "" {
		return nil, fmt.Errorf("node draft empty")
	}
	if in.Outcome != domain.OutcomeContinue {
		draft.Options = nil
	}
	return &ports.NodeDraft{Text: draft.Text, Options: draft.Options}, nil
}

func (e *StoryEngine) complete(ctx context.Context, system, user, schemaName string, schema map[string]any) (string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: e.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
