package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/olp-go/internal/model"
)

// fakeLocal is an in-memory LocalStore.
type fakeLocal struct {
	mu      stdsync.Mutex
	doc     *model.ContentDocument
	saveErr error
	loadErr error
	saves   int
}

func (f *fakeLocal) Load(_ context.Context) (*model.ContentDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.doc, nil
}

func (f *fakeLocal) Save(_ context.Context, doc *model.ContentDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.doc = doc
	return nil
}

func (f *fakeLocal) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// fakeRemote is an in-memory RemoteStore that records upserts.
type fakeRemote struct {
	mu        stdsync.Mutex
	doc       *model.ContentDocument
	upserts   []*model.ContentDocument
	upsertErr error
}

func (f *fakeRemote) FetchLatest(_ context.Context) *model.ContentDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc
}

func (f *fakeRemote) Upsert(_ context.Context, doc *model.ContentDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, doc)
	return nil
}

func (f *fakeRemote) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func (f *fakeRemote) lastUpsert() *model.ContentDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.upserts) == 0 {
		return nil
	}
	return f.upserts[len(f.upserts)-1]
}

func namedDoc(name string) *model.ContentDocument {
	doc := model.Default()
	doc.Branding.BrandName = name
	return doc
}

func TestStartRemoteWins(t *testing.T) {
	local := &fakeLocal{doc: namedDoc("cached")}
	rem := &fakeRemote{doc: namedDoc("remote")}
	s := New(Config{Local: local, Remote: rem})

	s.Start(context.Background())

	require.True(t, s.Ready())
	assert.Equal(t, "remote", s.Current().Branding.BrandName)
	// The local cache is refreshed with the remote document.
	assert.Equal(t, "remote", local.doc.Branding.BrandName)
}

func TestStartFallsBackToCache(t *testing.T) {
	local := &fakeLocal{doc: namedDoc("cached")}
	s := New(Config{Local: local})

	s.Start(context.Background())

	require.True(t, s.Ready())
	assert.Equal(t, "cached", s.Current().Branding.BrandName)
}

func TestStartFallsBackToDefaults(t *testing.T) {
	local := &fakeLocal{}
	s := New(Config{Local: local})

	s.Start(context.Background())

	require.True(t, s.Ready())
	assert.Equal(t, model.Default().Branding.BrandName, s.Current().Branding.BrandName)
}

func TestStartDefaultsWhenCacheLoadFails(t *testing.T) {
	local := &fakeLocal{loadErr: errors.New("disk gone")}
	s := New(Config{Local: local})

	s.Start(context.Background())

	require.True(t, s.Ready())
	assert.NotNil(t, s.Current())
}

func TestCurrentNilBeforeStart(t *testing.T) {
	s := New(Config{Local: &fakeLocal{}})

	assert.False(t, s.Ready())
	assert.Nil(t, s.Current())
}

func TestUpdateBeforeReadyRejected(t *testing.T) {
	s := New(Config{Local: &fakeLocal{}})

	err := s.Update(context.Background(), namedDoc("early"))
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestUpdateSavesLocallyAndBumpsRevision(t *testing.T) {
	local := &fakeLocal{}
	s := New(Config{Local: local})
	s.Start(context.Background())

	rev := s.Revision()
	require.NoError(t, s.Update(context.Background(), namedDoc("edited")))

	assert.Equal(t, "edited", s.Current().Branding.BrandName)
	assert.Equal(t, rev+1, s.Revision())
	assert.Equal(t, "edited", local.doc.Branding.BrandName)
}

func TestUpdateSurvivesLocalSaveFailure(t *testing.T) {
	local := &fakeLocal{saveErr: errors.New("disk full")}
	s := New(Config{Local: local})
	s.Start(context.Background())

	require.NoError(t, s.Update(context.Background(), namedDoc("memory-only")))
	assert.Equal(t, "memory-only", s.Current().Branding.BrandName)
}

func TestDebouncedUpsertCancelAndRestart(t *testing.T) {
	local := &fakeLocal{}
	rem := &fakeRemote{}
	s := New(Config{Local: local, Remote: rem, Debounce: 60 * time.Millisecond})
	s.Start(context.Background())
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Update(ctx, namedDoc("edit-1")))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Update(ctx, namedDoc("edit-2")))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Update(ctx, namedDoc("edit-3")))

	// The quiet window restarts on every write: nothing should have been
	// pushed yet even though the first edit is older than the debounce.
	assert.Equal(t, 0, rem.upsertCount())

	// Every intermediate state reached the local cache.
	assert.Equal(t, 3, local.saveCount())

	time.Sleep(120 * time.Millisecond)

	require.Equal(t, 1, rem.upsertCount(), "only the final state reaches the remote")
	assert.Equal(t, "edit-3", rem.lastUpsert().Branding.BrandName)
}

func TestRemoteOutageKeepsLocalEditsFlowing(t *testing.T) {
	local := &fakeLocal{doc: namedDoc("cached")}
	rem := &fakeRemote{upsertErr: errors.New("connection refused")}
	s := New(Config{Local: local, Remote: rem, Debounce: 30 * time.Millisecond})
	s.Start(context.Background())
	defer s.Close()

	// Startup fetch yielded nothing, so the cached copy serves.
	require.True(t, s.Ready())
	assert.Equal(t, "cached", s.Current().Branding.BrandName)

	ctx := context.Background()
	require.NoError(t, s.Update(ctx, namedDoc("edit-1")))
	time.Sleep(90 * time.Millisecond)

	// The push failed, but the edit stayed in memory and on disk.
	assert.Equal(t, 0, rem.upsertCount())
	assert.Equal(t, "edit-1", s.Current().Branding.BrandName)
	assert.Equal(t, "edit-1", local.doc.Branding.BrandName)

	// Later edits keep flowing locally despite the remote being down.
	require.NoError(t, s.Update(ctx, namedDoc("edit-2")))
	time.Sleep(90 * time.Millisecond)
	assert.Equal(t, 0, rem.upsertCount())
	assert.Equal(t, "edit-2", local.doc.Branding.BrandName)
	assert.Equal(t, 2, local.saveCount())

	// A manual push surfaces the failure instead of swallowing it.
	assert.Error(t, s.SyncNow(ctx))
}

func TestSyncNowBypassesDebounce(t *testing.T) {
	rem := &fakeRemote{}
	s := New(Config{Local: &fakeLocal{}, Remote: rem, Debounce: time.Hour})
	s.Start(context.Background())
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Update(ctx, namedDoc("pending")))
	require.NoError(t, s.SyncNow(ctx))

	assert.Equal(t, 1, rem.upsertCount())
	assert.Equal(t, "pending", rem.lastUpsert().Branding.BrandName)
}

func TestSyncNowWithoutRemote(t *testing.T) {
	s := New(Config{Local: &fakeLocal{}})
	s.Start(context.Background())

	err := s.SyncNow(context.Background())
	assert.Error(t, err)
}

func TestCloseCancelsPendingUpsert(t *testing.T) {
	rem := &fakeRemote{}
	s := New(Config{Local: &fakeLocal{}, Remote: rem, Debounce: 40 * time.Millisecond})
	s.Start(context.Background())

	require.NoError(t, s.Update(context.Background(), namedDoc("doomed")))
	s.Close()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, rem.upsertCount(), "no upsert may fire after Close")
}

func TestStartOnlyRunsOnce(t *testing.T) {
	local := &fakeLocal{doc: namedDoc("cached")}
	s := New(Config{Local: local})

	s.Start(context.Background())
	require.NoError(t, s.Update(context.Background(), namedDoc("edited")))

	// A second Start must not reset the document.
	s.Start(context.Background())
	assert.Equal(t, "edited", s.Current().Branding.BrandName)
}

func TestOnUpdateCallback(t *testing.T) {
	s := New(Config{Local: &fakeLocal{}})
	var calls int
	s.OnUpdate(func() { calls++ })
	s.Start(context.Background())

	require.NoError(t, s.Update(context.Background(), namedDoc("a")))
	require.NoError(t, s.Update(context.Background(), namedDoc("b")))

	assert.Equal(t, 2, calls)
}
