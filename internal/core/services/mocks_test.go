package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
)

// --- Mock implementations for service testing ---

var errMock = errors.New("mock failure")

// stubNormaliser derives a readable fingerprint from title and body.
type stubNormaliser struct{}

func (stubNormaliser) Normalise(a domain.Article) domain.NormalisedArticle {
	text := "# " + a.Title + "\n\n" + a.Body
	return domain.NormalisedArticle{
		ArticleID:   a.ID,
		Title:       a.Title,
		Slug:        strings.ToLower(strings.ReplaceAll(a.Title, " ", "-")),
		Text:        text,
		Fingerprint: "fp:" + text,
		UpdatedAt:   a.UpdatedAt,
	}
}

// fakeClock advances only when sleep is called.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return nil
}

// memRunStates implements driven.RunStateStore.
type memRunStates struct {
	mu      sync.Mutex
	state   domain.RunState
	saves   int
	loadErr error
	saveErr error
}

func (m *memRunStates) Load(_ context.Context) (domain.RunState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return domain.RunState{}, m.loadErr
	}
	s := m.state
	s.PendingFiles = append([]domain.PendingFile(nil), m.state.PendingFiles...)
	return s, nil
}

func (m *memRunStates) Save(_ context.Context, state domain.RunState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = state
	return nil
}

// fakeRemote implements the three remote service ports.
type fakeRemote struct {
	mu sync.Mutex

	// Behaviour
	uploadErrs     map[string]error
	existing       map[string]bool
	existsErr      error
	createIndexErr error
	createBatchErr error
	initialStatus  string
	pollStatuses   []string
	pollErrs       int
	createAgentErr error
	bindErr        error

	// Recorded calls
	uploads      []string
	indexChecks  []string
	indexCreates []string
	batches      [][]string
	polls        int
	agents       []domain.AgentSpec
	binds        map[string][]string
	nextID       int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		uploadErrs:    make(map[string]error),
		existing:      make(map[string]bool),
		initialStatus: domain.BatchInProgress,
		pollStatuses:  []string{domain.BatchCompleted},
		binds:         make(map[string][]string),
	}
}

func (f *fakeRemote) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s_%d", prefix, f.nextID)
}

func (f *fakeRemote) UploadFile(_ context.Context, filename string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename)
	if err := f.uploadErrs[filename]; err != nil {
		return "", err
	}
	if len(content) == 0 {
		return "", errMock
	}
	return f.id("file"), nil
}

func (f *fakeRemote) CreateVectorStore(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexCreates = append(f.indexCreates, name)
	if f.createIndexErr != nil {
		return "", f.createIndexErr
	}
	id := f.id("vs")
	f.existing[id] = true
	return id, nil
}

func (f *fakeRemote) VectorStoreExists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexChecks = append(f.indexChecks, id)
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[id], nil
}

func (f *fakeRemote) CreateFileBatch(_ context.Context, indexID string, fileIDs []string) (domain.FileBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string(nil), fileIDs...))
	if f.createBatchErr != nil {
		return domain.FileBatch{}, f.createBatchErr
	}
	return domain.FileBatch{ID: f.id("batch"), IndexID: indexID, Status: f.initialStatus}, nil
}

func (f *fakeRemote) GetFileBatch(_ context.Context, indexID, batchID string) (domain.FileBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.pollErrs > 0 {
		f.pollErrs--
		return domain.FileBatch{}, errMock
	}
	status := f.pollStatuses[0]
	if len(f.pollStatuses) > 1 {
		f.pollStatuses = f.pollStatuses[1:]
	}
	return domain.FileBatch{ID: batchID, IndexID: indexID, Status: status}, nil
}

func (f *fakeRemote) CreateAssistant(_ context.Context, spec domain.AgentSpec) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agents = append(f.agents, spec)
	if f.createAgentErr != nil {
		return "", f.createAgentErr
	}
	return f.id("asst"), nil
}

func (f *fakeRemote) AttachVectorStores(_ context.Context, assistantID string, indexIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bindErr != nil {
		return f.bindErr
	}
	f.binds[assistantID] = append([]string(nil), indexIDs...)
	return nil
}

// calls returns the total number of remote calls made.
func (f *fakeRemote) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads) + len(f.indexChecks) + len(f.indexCreates) +
		len(f.batches) + f.polls + len(f.agents) + len(f.binds)
}

// memFingerprints implements driven.FingerprintStore.
type memFingerprints struct {
	mu      sync.Mutex
	snap    domain.FingerprintSnapshot
	saves   int
	loadErr error
	saveErr error
}

func (m *memFingerprints) Load(_ context.Context) (domain.FingerprintSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.snap == nil {
		return domain.NewFingerprintSnapshot(), nil
	}
	return m.snap.Clone(), nil
}

func (m *memFingerprints) Save(_ context.Context, snap domain.FingerprintSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap.Clone()
	return nil
}

// fakeSource implements driven.ArticleSource.
type fakeSource struct {
	articles []domain.Article
	err      error
}

func (s *fakeSource) FetchArticles(_ context.Context) ([]domain.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

// memArchive implements driven.ArticleArchive.
type memArchive struct {
	files map[string]string
	err   error
}

func (a *memArchive) Write(_ context.Context, article domain.NormalisedArticle) error {
	if a.err != nil {
		return a.err
	}
	if a.files == nil {
		a.files = make(map[string]string)
	}
	a.files[article.Filename()] = article.Text
	return nil
}

// memHistory implements driven.RunHistoryStore.
type memHistory struct {
	mu        sync.Mutex
	reports   []domain.RunReport
	pruneKeep int
	recordErr error
}

func (h *memHistory) Record(_ context.Context, report domain.RunReport) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.recordErr != nil {
		return h.recordErr
	}
	h.reports = append(h.reports, report)
	return nil
}

func (h *memHistory) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.RunReport, 0, len(h.reports))
	for i := len(h.reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.reports[i])
	}
	return out, nil
}

func (h *memHistory) Prune(_ context.Context, keep int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruneKeep = keep
	if len(h.reports) > keep {
		h.reports = h.reports[len(h.reports)-keep:]
	}
	return nil
}

func (h *memHistory) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.reports)
}

// recordingDriver implements driving.SyncDriver with a scripted result.
type recordingDriver struct {
	mu       sync.Mutex
	calls    [][]domain.NormalisedArticle
	failIDs  map[string]bool
	failSync bool
}

func (d *recordingDriver) Sync(_ context.Context, changed []domain.NormalisedArticle) domain.SyncResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, changed)

	result := domain.SyncResult{AgentID: "asst_1", IndexID: "vs_1", Success: !d.failSync}
	for i, a := range changed {
		u := domain.UploadOutcome{ArticleID: a.ArticleID, Slug: a.Slug}
		if d.failIDs[a.ArticleID] {
			u.Err = errMock
		} else {
			u.FileID = fmt.Sprintf("file_%d", i+1)
		}
		result.Uploads = append(result.Uploads, u)
	}
	if d.failSync {
		result.IndexAttach = domain.StageOutcome{Attempted: true, Err: domain.ErrBatchTimeout}
	}
	return result
}

func (d *recordingDriver) SyncFrom(
	ctx context.Context,
	changed []domain.NormalisedArticle,
	_ domain.RunState,
) domain.SyncResult {
	return d.Sync(ctx, changed)
}

// Ensure mocks implement interfaces
var (
	_ driven.Normaliser         = stubNormaliser{}
	_ driven.RunStateStore      = (*memRunStates)(nil)
	_ driven.FileUploader       = (*fakeRemote)(nil)
	_ driven.VectorStoreService = (*fakeRemote)(nil)
	_ driven.AssistantService   = (*fakeRemote)(nil)
	_ driven.FingerprintStore   = (*memFingerprints)(nil)
	_ driven.ArticleSource      = (*fakeSource)(nil)
	_ driven.ArticleArchive     = (*memArchive)(nil)
	_ driven.RunHistoryStore    = (*memHistory)(nil)
	_ driving.SyncDriver        = (*recordingDriver)(nil)
)

func article(id, title, body string) domain.Article {
	return domain.Article{
		ID:    id,
		Title: title,
		Body:  body,
		URL:   "https://support.example.com/articles/" + id,
	}
}
