package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adventureapp/adventure-api/internal/api/metrics"
	"github.com/adventureapp/adventure-api/internal/core/authz"
	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

const coverPresignTTL = time.Hour

// CoverURLCache caches presigned cover URLs so repeated reads do not
// re-sign on every request. Misses are non-fatal.
type CoverURLCache interface {
	Get(ctx context.Context, adventureID string) (string, bool)
	Set(ctx context.Context, adventureID, url string, ttl time.Duration)
	Invalidate(ctx context.Context, adventureID string)
}

// AdventureService is the resource gateway for adventures. Every
// operation follows load -> decide -> act: no side effect happens before
// the ownership authority allows it, and every outcome is recorded on the
// audit sink.
type AdventureService struct {
	repo      ports.AdventureRepository
	authority authz.Authority
	story     ports.StoryEngine
	images    ports.ImageEngine
	objects   ports.ObjectStore
	covers    CoverURLCache
	audit     ports.AuditSink
	logger    zerolog.Logger
}

func NewAdventureService(
	repo ports.AdventureRepository,
	authority authz.Authority,
	story ports.StoryEngine,
	images ports.ImageEngine,
	objects ports.ObjectStore,
	covers CoverURLCache,
	audit ports.AuditSink,
	logger zerolog.Logger,
) *AdventureService {
	return &AdventureService{
		repo:      repo,
		authority: authority,
		story:     story,
		images:    images,
		objects:   objects,
		covers:    covers,
		audit:     audit,
		logger:    logger,
	}
}

// load fetches the adventure and renders the authority's verdict in one
// step. A nil adventure with a nil error never escapes: either the verdict
// allows and the adventure is returned, or the appropriate sentinel comes
// back.
func (s *AdventureService) load(ctx context.Context, p domain.Principal, action authz.Action, id string) (*domain.Adventure, error) {
	adv, err := s.repo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrAdventureNotFound) {
		return nil, err
	}

	res := authz.Resource{}
	if adv != nil {
		res = authz.Resource{OwnerID: adv.OwnerID, Exists: true, Public: adv.IsPublic}
	}

	decision := s.authority.Decide(p, action, res)
	metrics.AuthzDecisionsTotal.WithLabelValues(string(action), decisionLabel(decision)).Inc()
	if err := decision.Err(domain.ErrAdventureNotFound); err != nil {
		s.record(p, action, id, outcomeFor(decision), "")
		return nil, err
	}
	return adv, nil
}

func decisionLabel(d authz.Decision) string {
	switch d.Effect {
	case authz.EffectAllow:
		return "allow"
	case authz.EffectNotFound:
		return "not_found"
	default:
		return "deny"
	}
}

func outcomeFor(d authz.Decision) domain.AuditOutcome {
	if d.Effect == authz.EffectNotFound {
		return domain.AuditNotFound
	}
	return domain.AuditDenied
}

func (s *AdventureService) record(p domain.Principal, action authz.Action, resourceID string, outcome domain.AuditOutcome, detail string) {
	s.audit.Record(domain.AuditEntry{
		PrincipalID:   p.ID,
		PrincipalRole: p.Role,
		Action:        string(action),
		ResourceType:  "adventure",
		ResourceID:    resourceID,
		Outcome:       outcome,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	})
}

// Start creates a new adventure owned by the principal. Story generation
// failure aborts before anything is persisted; cover generation failure
// only costs the cover.
func (s *AdventureService) Start(ctx context.Context, p domain.Principal, in ports.StartAdventureInput) (*ports.AdventureSummary, error) {
	decision := s.authority.Decide(p, authz.ActionCreateAdventure, authz.Global)
	metrics.AuthzDecisionsTotal.WithLabelValues(string(authz.ActionCreateAdventure), decisionLabel(decision)).Inc()
	if err := decision.Err(domain.ErrAdventureNotFound); err != nil {
		return nil, err
	}

	started := time.Now()
	draft, err := s.story.NewStory(ctx, ports.NewStoryInput{
		Prompt:           in.Prompt,
		Perspective:      in.Perspective,
		Language:         in.Language,
		MinWordsPerLevel: in.MinWordsPerLevel,
		MaxWordsPerLevel: in.MaxWordsPerLevel,
	})
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("story").Inc()
		s.record(p, authz.ActionCreateAdventure, "", domain.AuditError, "story generation failed")
		return nil, fmt.Errorf("start adventure: %w", errors.Join(domain.ErrUpstream, err))
	}
	metrics.StoryGenerationDuration.WithLabelValues("new").Observe(time.Since(started).Seconds())

	now := time.Now().UTC()
	adv := &domain.Adventure{
		OwnerID:          p.ID,
		Title:            draft.Title,
		Synopsis:         draft.Synopsis,
		Prompt:           in.Prompt,
		Perspective:      in.Perspective,
		Language:         in.Language,
		MaxLevels:        in.MaxLevels,
		MinWordsPerLevel: in.MinWordsPerLevel,
		MaxWordsPerLevel: in.MaxWordsPerLevel,
		IsPublic:         in.IsPublic,
		Status:           domain.StatusActive,
		CreatedAt:        now,
		Nodes: []domain.Node{{
			Text:      draft.Text,
			Options:   draft.Options,
			Level:     0,
			CreatedAt: now,
		}},
	}

	created, err := s.repo.Create(ctx, adv)
	if err != nil {
		return nil, err
	}

	if in.CoverImage {
		s.attachCover(ctx, created, in.Prompt)
	}

	metrics.AdventuresCreatedTotal.WithLabelValues(string(p.Kind)).Inc()
	s.record(p, authz.ActionCreateAdventure, created.ID, domain.AuditAllowed, "")
	s.logger.Info().Str("adventure_id", created.ID).Str("owner_id", p.ID).Msg("adventure started")

	return summarize(created), nil
}

// attachCover generates and stores a cover image. Any failure degrades to
// an adventure without a cover; the already-created adventure is never
// rolled back.
func (s *AdventureService) attachCover(ctx context.Context, adv *domain.Adventure, prompt string) {
	data, contentType, err := s.images.GenerateCover(ctx, prompt)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("image").Inc()
		s.logger.Warn().Err(err).Str("adventure_id", adv.ID).Msg("cover generation failed, continuing without cover")
		return
	}

	ref, err := s.objects.Put(ctx, coverKey(adv.ID, contentType), bytes.NewReader(data), contentType)
	if err != nil {
		s.logger.Warn().Err(err).Str("adventure_id", adv.ID).Msg("cover upload failed, continuing without cover")
		return
	}

	if err := s.repo.SetImage(ctx, adv.ID, ref); err != nil {
		s.logger.Warn().Err(err).Str("adventure_id", adv.ID).Msg("failed to record cover metadata")
		return
	}
	adv.Image = ref
}

func coverKey(adventureID, contentType string) string {
	ext := ".png"
	if contentType == "image/jpeg" {
		ext = ".jpg"
	}
	return "covers/" + adventureID + ext
}

// List returns adventures owned by the principal. Admins see their own
// here like everyone else; there is no admin-wide listing on this route.
func (s *AdventureService) List(ctx context.Context, p domain.Principal) ([]ports.AdventureSummary, error) {
	advs, err := s.repo.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	out := make([]ports.AdventureSummary, 0, len(advs))
	for _, a := range advs {
		out = append(out, *summarize(a))
	}
	return out, nil
}

// Nodes returns the full node sequence after a read check.
func (s *AdventureService) Nodes(ctx context.Context, p domain.Principal, adventureID string) (*domain.Adventure, error) {
	return s.load(ctx, p, authz.ActionReadAdventure, adventureID)
}

// Continue appends the next story node. The append is conditional on the
// node count observed by the caller: of two racing continues exactly one
// wins and the other gets ErrConflict.
func (s *AdventureService) Continue(ctx context.Context, p domain.Principal, in ports.ContinueAdventureInput) (*ports.ContinueResult, error) {
	adv, err := s.load(ctx, p, authz.ActionContinueAdventure, in.AdventureID)
	if err != nil {
		return nil, err
	}

	if adv.Status.Terminal() {
		return nil, domain.ErrAdventureEnded
	}
	if in.NodeIndex < 0 || in.NodeIndex != len(adv.Nodes)-1 {
		// Continuing from anything but the last node means the caller's
		// view is stale.
		return nil, domain.ErrConflict
	}
	last := adv.LastNode()
	if in.SelectedOption < 0 || in.SelectedOption >= len(last.Options) {
		return nil, domain.ErrInvalidOption
	}

	selectedText := last.Options[in.SelectedOption]
	texts := make([]string, 0, len(adv.Nodes))
	for _, n := range adv.Nodes {
		texts = append(texts, n.Text)
	}

	started := time.Now()
	draft, err := s.story.NextNode(ctx, ports.NextNodeInput{
		Title:            adv.Title,
		Synopsis:         adv.Synopsis,
		Perspective:      adv.Perspective,
		PreviousTexts:    texts,
		SelectedOption:   selectedText,
		Outcome:          in.Outcome,
		MinWordsPerLevel: adv.MinWordsPerLevel,
		MaxWordsPerLevel: adv.MaxWordsPerLevel,
	})
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("story").Inc()
		s.record(p, authz.ActionContinueAdventure, adv.ID, domain.AuditError, "story generation failed")
		return nil, fmt.Errorf("continue adventure: %w", errors.Join(domain.ErrUpstream, err))
	}
	metrics.StoryGenerationDuration.WithLabelValues("node").Observe(time.Since(started).Seconds())

	optIdx := in.SelectedOption
	node := domain.Node{
		Text:            draft.Text,
		Options:         draft.Options,
		Level:           in.NodeIndex + 1,
		PrevOptionIndex: &optIdx,
		PrevOptionText:  selectedText,
		CreatedAt:       time.Now().UTC(),
	}
	newStatus := in.Outcome.StatusAfter()

	if err := s.repo.AppendNode(ctx, adv.ID, node, in.NodeIndex+1, newStatus); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.record(p, authz.ActionContinueAdventure, adv.ID, domain.AuditConflict, "")
		}
		return nil, err
	}

	s.record(p, authz.ActionContinueAdventure, adv.ID, domain.AuditAllowed, fmt.Sprintf("node %d", node.Level))
	return &ports.ContinueResult{
		AdventureID: adv.ID,
		NodeIndex:   node.Level,
		Status:      string(newStatus),
	}, nil
}

// Truncate keeps nodes[0..nodeIndex] inclusive and returns the adventure
// to the active state. Indices outside [0, len(nodes)) are rejected with
// ErrInvalidIndex and leave the adventure untouched.
func (s *AdventureService) Truncate(ctx context.Context, p domain.Principal, adventureID string, nodeIndex int) (*ports.AdventureSummary, error) {
	adv, err := s.load(ctx, p, authz.ActionTruncateAdventure, adventureID)
	if err != nil {
		return nil, err
	}

	if nodeIndex < 0 || nodeIndex >= len(adv.Nodes) {
		return nil, domain.ErrInvalidIndex
	}

	if err := s.repo.TruncateNodes(ctx, adv.ID, nodeIndex, len(adv.Nodes)); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.record(p, authz.ActionTruncateAdventure, adv.ID, domain.AuditConflict, "")
		}
		return nil, err
	}

	adv.Nodes = adv.Nodes[:nodeIndex+1]
	adv.Status = domain.StatusActive
	s.record(p, authz.ActionTruncateAdventure, adv.ID, domain.AuditAllowed, fmt.Sprintf("kept through node %d", nodeIndex))
	return summarize(adv), nil
}

// Clone copies an adventure's content into a new record owned by the
// cloning principal, with clone_of pointing at the source.
func (s *AdventureService) Clone(ctx context.Context, p domain.Principal, adventureID string) (*ports.AdventureSummary, error) {
	src, err := s.load(ctx, p, authz.ActionCloneAdventure, adventureID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	nodes := make([]domain.Node, len(src.Nodes))
	copy(nodes, src.Nodes)

	clone := &domain.Adventure{
		OwnerID:          p.ID,
		Title:            "(copy) " + src.Title,
		Synopsis:         src.Synopsis,
		Prompt:           src.Prompt,
		Perspective:      src.Perspective,
		Language:         src.Language,
		MaxLevels:        src.MaxLevels,
		MinWordsPerLevel: src.MinWordsPerLevel,
		MaxWordsPerLevel: src.MaxWordsPerLevel,
		Status:           domain.StatusActive,
		Nodes:            nodes,
		CloneOf:          src.ID,
		Image:            src.Image,
		CreatedAt:        now,
	}

	created, err := s.repo.Create(ctx, clone)
	if err != nil {
		return nil, err
	}

	s.record(p, authz.ActionCloneAdventure, created.ID, domain.AuditAllowed, "cloned from "+src.ID)
	return summarize(created), nil
}

// Delete removes the adventure record entirely.
func (s *AdventureService) Delete(ctx context.Context, p domain.Principal, adventureID string) error {
	adv, err := s.load(ctx, p, authz.ActionDeleteAdventure, adventureID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, adv.ID); err != nil {
		return err
	}

	s.record(p, authz.ActionDeleteAdventure, adv.ID, domain.AuditAllowed, "")
	s.logger.Info().Str("adventure_id", adv.ID).Str("principal_id", p.ID).Msg("adventure deleted")
	return nil
}

// CoverURL returns a presigned URL for the adventure's cover image,
// serving from the cache when a signed URL is still live.
func (s *AdventureService) CoverURL(ctx context.Context, p domain.Principal, adventureID string) (string, error) {
	adv, err := s.load(ctx, p, authz.ActionReadAdventure, adventureID)
	if err != nil {
		return "", err
	}
	if adv.Image.Empty() {
		return "", domain.ErrNoCoverImage
	}

	if url, ok := s.covers.Get(ctx, adv.ID); ok {
		return url, nil
	}

	url, err := s.objects.PresignGet(ctx, adv.Image, coverPresignTTL)
	if err != nil {
		return "", err
	}

	// Cache for slightly less than the signature lifetime so a cached
	// URL is never handed out already expired.
	s.covers.Set(ctx, adv.ID, url, coverPresignTTL-5*time.Minute)
	return url, nil
}

// RegenerateCover replaces the adventure's cover image with a freshly
// generated one and returns a presigned URL for it. Unlike the cover pass
// in Start, failure here is an error: the caller explicitly asked for a
// new image.
func (s *AdventureService) RegenerateCover(ctx context.Context, p domain.Principal, adventureID string) (string, error) {
	adv, err := s.load(ctx, p, authz.ActionUpdateAdventure, adventureID)
	if err != nil {
		return "", err
	}

	data, contentType, err := s.images.GenerateCover(ctx, adv.Prompt)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("image").Inc()
		return "", fmt.Errorf("regenerate cover: %w", errors.Join(domain.ErrUpstream, err))
	}

	ref, err := s.objects.Put(ctx, coverKey(adv.ID, contentType), bytes.NewReader(data), contentType)
	if err != nil {
		return "", err
	}
	if err := s.repo.SetImage(ctx, adv.ID, ref); err != nil {
		return "", err
	}

	// Any cached URL still points at the replaced object.
	s.covers.Invalidate(ctx, adv.ID)

	url, err := s.objects.PresignGet(ctx, ref, coverPresignTTL)
	if err != nil {
		return "", err
	}
	s.covers.Set(ctx, adv.ID, url, coverPresignTTL-5*time.Minute)

	s.record(p, authz.ActionUpdateAdventure, adv.ID, domain.AuditAllowed, "cover regenerated")
	s.logger.Info().Str("adventure_id", adv.ID).Str("principal", p.ID).Msg("cover regenerated")
	return url, nil
}

func summarize(a *domain.Adventure) *ports.AdventureSummary {
	return &ports.AdventureSummary{
		ID:               a.ID,
		Title:            a.Title,
		Synopsis:         a.Synopsis,
		Status:           string(a.Status),
		Perspective:      a.Perspective,
		MaxLevels:        a.MaxLevels,
		MinWordsPerLevel: a.MinWordsPerLevel,
		MaxWordsPerLevel: a.MaxWordsPerLevel,
		NumNodes:         len(a.Nodes),
		CloneOf:          a.CloneOf,
		HasCover:         !a.Image.Empty(),
		CreatedAt:        a.CreatedAt,
	}
}
