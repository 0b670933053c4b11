package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adventureapp/adventure-api/internal/core/authz"
	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

type stubAdventureRepo struct {
	mu     sync.Mutex
	seq    int
	byID   map[string]*domain.Adventure
	setErr error
}

func newStubAdventureRepo() *stubAdventureRepo {
	return &stubAdventureRepo{byID: make(map[string]*domain.Adventure)}
}

func copyAdventure(a *domain.Adventure) *domain.Adventure {
	clone := *a
	clone.Nodes = make([]domain.Node, len(a.Nodes))
	copy(clone.Nodes, a.Nodes)
	return &clone
}

func (r *stubAdventureRepo) Create(_ context.Context, a *domain.Adventure) (*domain.Adventure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := copyAdventure(a)
	clone.ID = fmt.Sprintf("adv-%d", r.seq)
	r.byID[clone.ID] = clone
	return copyAdventure(clone), nil
}

func (r *stubAdventureRepo) FindByID(_ context.Context, id string) (*domain.Adventure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAdventureNotFound
	}
	return copyAdventure(a), nil
}

func (r *stubAdventureRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Adventure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Adventure
	for _, a := range r.byID {
		if a.OwnerID == ownerID {
			out = append(out, copyAdventure(a))
		}
	}
	return out, nil
}

func (r *stubAdventureRepo) AppendNode(_ context.Context, id string, node domain.Node, expectedLen int, status domain.AdventureStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAdventureNotFound
	}
	if len(a.Nodes) != expectedLen {
		return domain.ErrConflict
	}
	a.Nodes = append(a.Nodes, node)
	a.Status = status
	return nil
}

func (r *stubAdventureRepo) TruncateNodes(_ context.Context, id string, keepThrough int, expectedLen int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAdventureNotFound
	}
	if len(a.Nodes) != expectedLen {
		return domain.ErrConflict
	}
	a.Nodes = a.Nodes[:keepThrough+1]
	a.Status = domain.StatusActive
	return nil
}

func (r *stubAdventureRepo) SetImage(_ context.Context, id string, image domain.ImageRef) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAdventureNotFound
	}
	a.Image = image
	return nil
}

func (r *stubAdventureRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAdventureNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubStoryEngine struct {
	mu       sync.Mutex
	newErr   error
	nextErr  error
	newCalls int
	nodeSeq  int
}

func (e *stubStoryEngine) NewStory(_ context.Context, in ports.NewStoryInput) (*ports.StoryDraft, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.newErr != nil {
		return nil, e.newErr
	}
	e.newCalls++
	return &ports.StoryDraft{
		Title:    "The Hollow Lighthouse",
		Synopsis: "A keeper's final season.",
		Text:     "The lamp went dark at dusk.",
		Options:  []string{"Climb the stairs", "Check the generator"},
	}, nil
}

func (e *stubStoryEngine) NextNode(_ context.Context, in ports.NextNodeInput) (*ports.NodeDraft, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.nextErr != nil {
		return nil, e.nextErr
	}
	e.nodeSeq++
	if in.Outcome != domain.OutcomeContinue {
		return &ports.NodeDraft{Text: fmt.Sprintf("ending %d", e.nodeSeq)}, nil
	}
	return &ports.NodeDraft{
		Text:    fmt.Sprintf("chapter %d", e.nodeSeq),
		Options: []string{"Left", "Right"},
	}, nil
}

type stubImageEngine struct {
	err   error
	calls int
}

func (e *stubImageEngine) GenerateCover(_ context.Context, _ string) ([]byte, string, error) {
	e.calls++
	if e.err != nil {
		return nil, "", e.err
	}
	return []byte{0x89, 0x50}, "image/png", nil
}

type stubObjectStore struct {
	mu           sync.Mutex
	puts         int
	presignCalls int
}

func (s *stubObjectStore) Put(_ context.Context, key string, _ io.Reader, _ string) (domain.ImageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	return domain.ImageRef{Bucket: "covers", Key: key}, nil
}

func (s *stubObjectStore) PresignGet(_ context.Context, ref domain.ImageRef, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presignCalls++
	return "https://covers.example/" + ref.Key + "?sig=abc", nil
}

type memCoverCache struct {
	mu   sync.Mutex
	urls map[string]string
}

func newMemCoverCache() *memCoverCache {
	return &memCoverCache{urls: make(map[string]string)}
}

func (c *memCoverCache) Get(_ context.Context, adventureID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.urls[adventureID]
	return u, ok
}

func (c *memCoverCache) Set(_ context.Context, adventureID, url string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls[adventureID] = url
}

func (c *memCoverCache) Invalidate(_ context.Context, adventureID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.urls, adventureID)
}

type memAuditSink struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (s *memAuditSink) Record(e domain.AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func (s *memAuditSink) outcomes() []domain.AuditOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditOutcome, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Outcome)
	}
	return out
}

type adventureFixture struct {
	svc     *AdventureService
	repo    *stubAdventureRepo
	story   *stubStoryEngine
	images  *stubImageEngine
	objects *stubObjectStore
	cache   *memCoverCache
	audit   *memAuditSink
}

func newAdventureFixture() *adventureFixture {
	f := &adventureFixture{
		repo:    newStubAdventureRepo(),
		story:   &stubStoryEngine{},
		images:  &stubImageEngine{},
		objects: &stubObjectStore{},
		cache:   newMemCoverCache(),
		audit:   &memAuditSink{},
	}
	f.svc = NewAdventureService(
		f.repo, authz.Authority{}, f.story, f.images,
		f.objects, f.cache, f.audit, zerolog.Nop(),
	)
	return f
}

var (
	owner = domain.Principal{ID: "alice", Role: domain.RoleUser, Kind: domain.PrincipalUser}
	other = domain.Principal{ID: "bob", Role: domain.RoleUser, Kind: domain.PrincipalUser}
	admin = domain.Principal{ID: "root", Role: domain.RoleAdmin, Kind: domain.PrincipalUser}
)

func (f *adventureFixture) start(t *testing.T, p domain.Principal) *ports.AdventureSummary {
	t.Helper()
	sum, err := f.svc.Start(context.Background(), p, ports.StartAdventureInput{
		Prompt:           "lighthouse mystery",
		Perspective:      "second",
		Language:         "en",
		MaxLevels:        5,
		MinWordsPerLevel: 50,
		MaxWordsPerLevel: 200,
	})
	if err != nil {
		t.Fatalf("start adventure: %v", err)
	}
	return sum
}

func TestStart_PersistsOpeningNode(t *testing.T) {
	f := newAdventureFixture()

	sum := f.start(t, owner)
	if sum.NumNodes != 1 || sum.Status != string(domain.StatusActive) {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	adv, err := f.repo.FindByID(context.Background(), sum.ID)
	if err != nil {
		t.Fatalf("find created adventure: %v", err)
	}
	if adv.OwnerID != owner.ID {
		t.Fatalf("owner = %q, want %q", adv.OwnerID, owner.ID)
	}
	if adv.Nodes[0].Level != 0 || len(adv.Nodes[0].Options) != 2 {
		t.Fatalf("unexpected opening node: %+v", adv.Nodes[0])
	}
	if adv.Nodes[0].PrevOptionIndex != nil {
		t.Fatal("opening node must have no provenance")
	}
}

func TestStart_UpstreamFailurePersistsNothing(t *testing.T) {
	f := newAdventureFixture()
	f.story.newErr = errors.New("model overloaded")

	_, err := f.svc.Start(context.Background(), owner, ports.StartAdventureInput{Prompt: "x"})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if len(f.repo.byID) != 0 {
		t.Fatal("adventure must not be persisted when generation fails")
	}
}

func TestStart_WithCover(t *testing.T) {
	f := newAdventureFixture()

	sum, err := f.svc.Start(context.Background(), owner, ports.StartAdventureInput{
		Prompt:     "lighthouse",
		CoverImage: true,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !sum.HasCover {
		t.Fatal("summary should report a cover")
	}
	if f.objects.puts != 1 {
		t.Fatalf("expected one upload, got %d", f.objects.puts)
	}
}

func TestStart_CoverFailureIsNotFatal(t *testing.T) {
	f := newAdventureFixture()
	f.svc = NewAdventureService(
		f.repo, authz.Authority{}, f.story, &stubImageEngine{err: errors.New("quota")},
		f.objects, f.cache, f.audit, zerolog.Nop(),
	)

	sum, err := f.svc.Start(context.Background(), owner, ports.StartAdventureInput{
		Prompt:     "lighthouse",
		CoverImage: true,
	})
	if err != nil {
		t.Fatalf("start must survive cover failure, got %v", err)
	}
	if sum.HasCover {
		t.Fatal("summary must not report a cover")
	}
}

// A denied mutation must leave the store byte-for-byte as it was.
func TestMutations_DenialLeavesStateUntouched(t *testing.T) {
	f := newAdventureFixture()
	sum := f.start(t, owner)
	before, _ := f.repo.FindByID(context.Background(), sum.ID)

	ctx := context.Background()
	if _, err := f.svc.Continue(ctx, other, ports.ContinueAdventureInput{
		AdventureID: sum.ID, NodeIndex: 0, SelectedOption: 0, Outcome: domain.OutcomeContinue,
	}); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("continue by non-owner: expected ErrNotOwner, got %v", err)
	}
	if _, err := f.svc.Truncate(ctx, other, sum.ID, 0); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("truncate by non-owner: expected ErrNotOwner, got %v", err)
	}
	if err := f.svc.Delete(ctx, other, sum.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("delete by non-owner: expected ErrNotOwner, got %v", err)
	}

	after, err := f.repo.FindByID(ctx, sum.ID)
	if err != nil {
		t.Fatalf("adventure vanished after denied mutations: %v", err)
	}
	if len(after.Nodes) != len(before.Nodes) || after.Status != before.Status {
		t.Fatalf("denied mutations changed state: before %+v after %+v", before, after)
	}
	if f.story.nodeSeq != 0 {
		t.Fatal("story engine must not be called for a denied continue")
	}
}

func TestContinue_AppendsAndFinishes(t *testing.T) {
	f := newAdventureFixture()
	sum := f.start(t, owner)
	ctx := context.Background()

	res, err := f.svc.Continue(ctx, owner, ports.ContinueAdventureInput{
		AdventureID: sum.ID, NodeIndex: 0, SelectedOption: 1, Outcome: domain.OutcomeContinue,
	})
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if res.NodeIndex != 1 || res.Status != string(domain.StatusActive) {
		t.Fatalf("unexpected result: %+v", res)
	}

	adv, _ := f.repo.FindByID(ctx, sum.ID)
	appended := adv.Nodes[1]
	if appended.PrevOptionIndex == nil || *appended.PrevOptionIndex != 1 {
		t.Fatalf("missing provenance index: %+v", appended)
	}
	if appended.PrevOptionText != "Check the generator" {
		t.Fatalf("provenance text = %q", appended.PrevOptionText)
	}

	res, err = f.svc.Continue(ctx, owner, ports.ContinueAdventureInput{
		AdventureID: sum.ID, NodeIndex: 1, SelectedOption: 0, Outcome: domain.OutcomeFinish,
	})
	if err != nil {
		t.Fatalf("finishing continue: %v", err)
	}
	if res.Status != string(domain.StatusFinished) {
		t.Fatalf("status = %s, want finished", res.Status)
	}

	// The adventure is now terminal and rejects further continues.
	_, err = f.svc.Continue(ctx, owner, ports.ContinueAdventureInput{
		AdventureID: sum.ID, NodeIndex: 2, SelectedOption: 0, Outcome: domain.OutcomeContinue,
	})
	if !errors.Is(err, domain.ErrAdventureEnded) {
		t.Fatalf("expected ErrAdventureEnded, got %v", err)
	}
}

func TestContinue_Validation(t *testing.T) {
	f := newAdventureFixture()
	sum := f.start(t, owner)
	ctx := context.Background()

	_, err := f.svc.Continue(ctx, owner, ports.ContinueAdventureInput{
		AdventureID: sum.ID, NodeIndex: 3, SelectedOption: 0, Outcome: domain.OutcomeContinue,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("stale node index: expected ErrConflict, got %v", err)
	}

	_, err = f.svc.Continue(ctx, owner, ports.ContinueAdventureInput{
		AdventureID: sum.ID, NodeIndex: 0, SelectedOption: 9, Outcome: domain.OutcomeContinue,
	})
	if !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("bad option: expected ErrInvalidOption, got %v", err)
	}
}

// Two continues racing from the same node index: exactly one wins, the
// other observes a conflict, and exactly one node lands.
func TestContinue_ConcurrentSingleWinner(t *testing.T) {
	f := newAdventureFixture()
	sum := f.start(t, owner)
	ctx := context.Background()

	const racers = 8
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Continue(ctx, owner, ports.ContinueAdventureInput{
				AdventureID: sum.ID, NodeIndex: 0, SelectedOption: 0, Outcome: domain.OutcomeContinue,
			})
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected racer error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1 (conflicts %d)", wins, conflicts)
	}

	adv, _ := f.repo.FindByID(ctx, sum.ID)
	if len(adv.Nodes) != 2 {
		t.Fatalf("node count = %d, want 2", len(adv.Nodes))
	}
}

func TestTruncate_KeepsThroughIndexAndRevives(t *testing.T) {
	f := newAdventureFixture()
	sum := f.start(t, owner)
	ctx := context.Background()

	for i, outcome := range []domain.Outcome{domain.OutcomeContinue, domain.OutcomeFinish} {
		if _, err := f.svc.Continue(ctx, owner, ports.ContinueAdventureInput{
			AdventureID: sum.ID, NodeIndex: i, SelectedOption: 0, Outcome: outcome,
		}); err != nil {
			t.Fatalf("grow adventure: %v", err)
		}
	}

	// Three nodes, finished. Truncating at index 0 keeps only the root and
	// returns the adventure to active.
	res, err := f.svc.Truncate(ctx, owner, sum.ID, 0)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if res.NumNodes != 1 || res.Status != string(domain.StatusActive) {
		t.Fatalf("unexpected summary after truncate: %+v", res)
	}

	adv, _ := f.repo.FindByID(ctx, sum.ID)
	if len(adv.Nodes) != 1 || adv.Nodes[0].Level != 0 {
		t.Fatalf("unexpected nodes after truncate: %+v", adv.Nodes)
	}
}

func TestTruncate_IndexBounds(t *testing.T) {
	f := newAdventureFixture()
	sum := f.start(t, owner)
	ctx := context.Background()

	for _, idx := range []int{-1, 1, 99} {
		if _, err := f.svc.Truncate(ctx, owner, sum.ID, idx); !errors.Is(err, domain.ErrInvalidIndex) {
			t.Errorf("index %d: expected ErrInvalidIndex, got %v", idx, err)
		}
	}

	adv, _ := f.repo.FindByID(ctx, sum.ID)
	if len(adv.Nodes) != 1 {
		t.Fatalf("rejected truncate changed nodes: %d", len(adv.Nodes))
	}
}

func TestClone_CopiesContentToNewOwner(t *testing.T) {
	f := newAdventureFixture()
	sum := f.start(t, owner)
	ctx := context.Background()

	cloned, err := f.svc.Clone(ctx, admin, sum.ID)
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if cloned.ID == sum.ID {
		t.Fatal("clone reused the source ID")
	}
	if cloned.Title != "(copy) The Hollow Lighthouse" {
		t.Fatalf("title = %q", cloned.Title)
	}
	if cloned.CloneOf != sum.ID {
		t.Fatalf("clone_of = %q, want %q", cloned.CloneOf, sum.ID)
	}

	adv, _ := f.repo.FindByID(ctx, cloned.ID)
	if adv.OwnerID != admin.ID {
		t.Fatalf("clone owner = %q, want %q", adv.OwnerID, admin.ID)
	}
	if adv.Status != domain.StatusActive {
		t.Fatalf("clone status = %s, want active", adv.Status)
	}
}

func TestClone_PublicAdventureGatedByConfig(t *testing.T) {
	f := newAdventureFixture()
	ctx := context.Background()
	sum, err := f.svc.Start(ctx, owner, ports.StartAdventureInput{Prompt: "x", IsPublic: true})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := f.svc.Clone(ctx, other, sum.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("public clone disabled: expected ErrNotOwner, got %v", err)
	}

	open := NewAdventureService(
		f.repo, authz.Authority{PublicClone: true}, f.story, &stubImageEngine{},
		f.objects, f.cache, f.audit, zerolog.Nop(),
	)
	if _, err := open.Clone(ctx, other, sum.ID); err != nil {
		t.Fatalf("public clone enabled: %v", err)
	}
}

// Full ownership walk: the owner and an admin can delete, another user
// cannot and learns nothing.
func TestDelete_OwnershipScenario(t *testing.T) {
	f := newAdventureFixture()
	ctx := context.Background()
	mine := f.start(t, owner)
	theirs := f.start(t, other)

	if err := f.svc.Delete(ctx, owner, theirs.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("cross-owner delete: expected ErrNotOwner, got %v", err)
	}
	if err := f.svc.Delete(ctx, owner, mine.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := f.svc.Delete(ctx, admin, theirs.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if len(f.repo.byID) != 0 {
		t.Fatalf("%d adventures left, want 0", len(f.repo.byID))
	}
}

func TestCoverURL(t *testing.T) {
	f := newAdventureFixture()
	ctx := context.Background()

	bare := f.start(t, owner)
	if _, err := f.svc.CoverURL(ctx, owner, bare.ID); !errors.Is(err, domain.ErrNoCoverImage) {
		t.Fatalf("expected ErrNoCoverImage, got %v", err)
	}

	withCover, err := f.svc.Start(ctx, owner, ports.StartAdventureInput{Prompt: "x", CoverImage: true})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	url1, err := f.svc.CoverURL(ctx, owner, withCover.ID)
	if err != nil {
		t.Fatalf("cover url: %v", err)
	}
	url2, err := f.svc.CoverURL(ctx, owner, withCover.ID)
	if err != nil {
		t.Fatalf("cover url (cached): %v", err)
	}
	if url1 != url2 {
		t.Fatalf("cached URL differs: %q vs %q", url1, url2)
	}
	if f.objects.presignCalls != 1 {
		t.Fatalf("presign calls = %d, want 1", f.objects.presignCalls)
	}
}

func TestRegenerateCover_ReplacesImageAndCache(t *testing.T) {
	f := newAdventureFixture()
	ctx := context.Background()

	sum, err := f.svc.Start(ctx, owner, ports.StartAdventureInput{Prompt: "x", CoverImage: true})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.CoverURL(ctx, owner, sum.ID); err != nil {
		t.Fatalf("cover url: %v", err)
	}

	url, err := f.svc.RegenerateCover(ctx, owner, sum.ID)
	if err != nil {
		t.Fatalf("regenerate cover: %v", err)
	}
	if url == "" {
		t.Fatal("expected a presigned URL")
	}
	if f.objects.puts != 2 {
		t.Fatalf("uploads = %d, want 2", f.objects.puts)
	}
	// A fresh signature was issued for the new object, not served from
	// the cache populated by the earlier read.
	if f.objects.presignCalls != 2 {
		t.Fatalf("presign calls = %d, want 2", f.objects.presignCalls)
	}
	if cached, ok := f.cache.Get(ctx, sum.ID); !ok || cached != url {
		t.Fatalf("cached = %q (%v), want %q", cached, ok, url)
	}
}

func TestRegenerateCover_DeniedForNonOwner(t *testing.T) {
	f := newAdventureFixture()
	ctx := context.Background()
	sum := f.start(t, owner)

	calls := f.images.calls
	if _, err := f.svc.RegenerateCover(ctx, other, sum.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if f.images.calls != calls {
		t.Fatal("image engine called despite denial")
	}

	if _, err := f.svc.RegenerateCover(ctx, owner, "adv-missing"); !errors.Is(err, domain.ErrAdventureNotFound) {
		t.Fatalf("expected ErrAdventureNotFound, got %v", err)
	}
}

func TestRegenerateCover_UpstreamFailure(t *testing.T) {
	f := newAdventureFixture()
	ctx := context.Background()
	sum := f.start(t, owner)

	f.images.err = errors.New("quota exceeded")
	if _, err := f.svc.RegenerateCover(ctx, owner, sum.ID); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if f.objects.puts != 0 {
		t.Fatalf("uploads = %d, want 0", f.objects.puts)
	}
}

func TestAudit_RecordsDenialsAndMisses(t *testing.T) {
	f := newAdventureFixture()
	ctx := context.Background()
	sum := f.start(t, owner)

	_ = f.svc.Delete(ctx, other, sum.ID)
	_ = f.svc.Delete(ctx, owner, "adv-missing")

	outcomes := f.audit.outcomes()
	var sawDenied, sawNotFound bool
	for _, o := range outcomes {
		switch o {
		case domain.AuditDenied:
			sawDenied = true
		case domain.AuditNotFound:
			sawNotFound = true
		}
	}
	if !sawDenied || !sawNotFound {
		t.Fatalf("missing denial/miss audit entries in %v", outcomes)
	}
}
