package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"auctiondesk-api/internal/mirror"
	"auctiondesk-api/internal/model"
	"auctiondesk-api/internal/repository"
	"auctiondesk-api/pkg/displayid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchCall struct {
	documentID string
	fields     map[string]interface{}
}

// fakeRepo is an in-memory ListingRepository with switchable failures.
type fakeRepo struct {
	mu      sync.Mutex
	docs    map[string]*model.Listing
	order   []string
	nextID  int
	patches []patchCall

	failCreate bool
	failPatch  bool
	failDelete bool
	failList   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[string]*model.Listing)}
}

func (r *fakeRepo) ListAll(ctx context.Context) ([]*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errors.New("store offline")
	}
	out := make([]*model.Listing, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.docs[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) Create(ctx context.Context, l *model.Listing) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return "", errors.New("store offline")
	}
	r.nextID++
	id := fmt.Sprintf("doc-%d", r.nextID)
	cp := *l
	cp.DocumentID = id
	r.docs[id] = &cp
	r.order = append(r.order, id)
	return id, nil
}

func (r *fakeRepo) Patch(ctx context.Context, documentID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPatch {
		return errors.New("store offline")
	}
	doc, ok := r.docs[documentID]
	if !ok {
		return repository.ErrNotFound
	}
	r.patches = append(r.patches, patchCall{documentID: documentID, fields: fields})
	for k, v := range fields {
		switch k {
		case "display_id":
			doc.DisplayID = v.(string)
		case "remark":
			doc.Remark = v.(string)
		case "barcode":
			doc.Barcode = v.(string)
		case "note":
			doc.Note = v.(string)
		case "image":
			doc.Image = v.(string)
		case "image2":
			doc.Image2 = v.(string)
		case "sold":
			doc.Sold = v.(bool)
		case "paid":
			doc.Paid = v.(bool)
		case "finished":
			doc.Finished = v.(bool)
		}
	}
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDelete {
		return errors.New("store offline")
	}
	if _, ok := r.docs[documentID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, documentID)
	for i, id := range r.order {
		if id == documentID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) Close() error { return nil }

func (r *fakeRepo) seed(t *testing.T, listings ...*model.Listing) {
	t.Helper()
	for _, l := range listings {
		r.mu.Lock()
		r.docs[l.DocumentID] = l
		r.order = append(r.order, l.DocumentID)
		r.mu.Unlock()
	}
}

func setupService(t *testing.T, repo *fakeRepo) *ListingService {
	t.Helper()
	svc := NewListingService(repo)
	require.NotNil(t, svc)
	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	return svc
}

func TestNewListingService_NilRepo(t *testing.T) {
	assert.Nil(t, NewListingService(nil))
}

func TestSnapshot_BackfillsMissingDisplayIDs(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(t,
		&model.Listing{DocumentID: "doc-a", Title: "Camera"},
		&model.Listing{DocumentID: "doc-b", Title: "Lens", DisplayID: "B111B"},
	)

	svc := setupService(t, repo)

	a, ok := svc.Get("doc-a")
	require.True(t, ok)
	assert.True(t, displayid.IsValid(a.DisplayID), "got %q", a.DisplayID)

	b, _ := svc.Get("doc-b")
	assert.Equal(t, "B111B", b.DisplayID)

	// the fresh code was persisted back before the mirror load
	require.Len(t, repo.patches, 1)
	assert.Equal(t, "doc-a", repo.patches[0].documentID)
	assert.Equal(t, a.DisplayID, repo.patches[0].fields["display_id"])
}

func TestSnapshot_BackfillPersistFailureKeepsSessionID(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(t, &model.Listing{DocumentID: "doc-a", Title: "Camera"})
	repo.failPatch = true

	svc := NewListingService(repo)
	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	// the code still serves this session even though it was not durable
	a, _ := svc.Get("doc-a")
	assert.True(t, displayid.IsValid(a.DisplayID))
}

func TestSnapshot_ListFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failList = true

	svc := NewListingService(repo)
	_, err := svc.Snapshot(context.Background())
	require.Error(t, err)
}

func TestWriteField_PatchesExactlyThatField(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(t, &model.Listing{DocumentID: "doc-a", DisplayID: "A111A", Title: "Camera"})
	svc := setupService(t, repo)

	require.NoError(t, svc.WriteField(context.Background(), "doc-a", model.FieldRemark, "scratched"))

	e, _ := svc.Get("doc-a")
	assert.Equal(t, "scratched", e.Remark)

	last := repo.patches[len(repo.patches)-1]
	assert.Equal(t, map[string]interface{}{"remark": "scratched"}, last.fields)
}

func TestWriteField_LastWriteWinsLocally(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(t, &model.Listing{DocumentID: "doc-a", DisplayID: "A111A", Title: "Camera"})
	svc := setupService(t, repo)

	for i := 0; i < 10; i++ {
		require.NoError(t, svc.WriteField(context.Background(), "doc-a", model.FieldNote, fmt.Sprintf("n%d", i)))
	}

	e, _ := svc.Get("doc-a")
	assert.Equal(t, "n9", e.Note)
}

func TestWriteField_NoRollbackOnRemoteFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(t, &model.Listing{DocumentID: "doc-a", DisplayID: "A111A", Title: "Camera", Remark: "old"})
	svc := setupService(t, repo)

	repo.failPatch = true
	err := svc.WriteField(context.Background(), "doc-a", model.FieldRemark, "new")
	require.Error(t, err)

	// local optimistic value stays the source of truth
	e, _ := svc.Get("doc-a")
	assert.Equal(t, "new", e.Remark)
}

func TestWriteField_Rejections(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(t, &model.Listing{DocumentID: "doc-a", DisplayID: "A111A", Title: "Camera"})
	svc := setupService(t, repo)

	err := svc.WriteField(context.Background(), "doc-a", model.Field("title"), "x")
	require.ErrorIs(t, err, ErrFieldNotEditable)

	err = svc.WriteField(context.Background(), "missing", model.FieldRemark, "x")
	require.ErrorIs(t, err, mirror.ErrUnknownDocument)
}

func TestCycleStatus_PersistsAllThreeFlagsAtOnce(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(t, &model.Listing{DocumentID: "doc-a", DisplayID: "A111A", Title: "Camera"})
	svc := setupService(t, repo)

	next, err := svc.CycleStatus(context.Background(), "doc-a")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSoldUnpaid, next)

	last := repo.patches[len(repo.patches)-1]
	assert.Equal(t, map[string]interface{}{"sold": true, "paid": false, "finished": false}, last.fields)

	// a full lap returns to unsold with every flag cleared
	for i := 0; i < 3; i++ {
		next, err = svc.CycleStatus(context.Background(), "doc-a")
		require.NoError(t, err)
	}
	assert.Equal(t, model.StatusUnsold, next)
	last = repo.patches[len(repo.patches)-1]
	assert.Equal(t, map[string]interface{}{"sold": false, "paid": false, "finished": false}, last.fields)
}

func TestCycleStatus_RemoteFailureKeepsLocalAdvance(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(t, &model.Listing{DocumentID: "doc-a", DisplayID: "A111A", Title: "Camera"})
	svc := setupService(t, repo)

	repo.failPatch = true
	next, err := svc.CycleStatus(context.Background(), "doc-a")
	require.Error(t, err)
	assert.Equal(t, model.StatusSoldUnpaid, next)

	e, _ := svc.Get("doc-a")
	assert.Equal(t, model.StatusSoldUnpaid, e.Status)
}

func TestDelete_RemoteFirstThenMirror(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(t, &model.Listing{DocumentID: "doc-a", DisplayID: "A111A", Title: "Camera"})
	svc := setupService(t, repo)

	require.NoError(t, svc.Delete(context.Background(), "doc-a"))
	_, ok := svc.Get("doc-a")
	assert.False(t, ok)
}

func TestDelete_FailureLeavesEntryUnchanged(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(t, &model.Listing{DocumentID: "doc-a", DisplayID: "A111A", Title: "Camera", Remark: "keep me"})
	svc := setupService(t, repo)

	repo.failDelete = true
	require.Error(t, svc.Delete(context.Background(), "doc-a"))

	e, ok := svc.Get("doc-a")
	require.True(t, ok)
	assert.Equal(t, "keep me", e.Remark)
	assert.Len(t, svc.List("", model.TabAll), 1)
}

func TestCreate_AssignsDisplayIDAndMirrors(t *testing.T) {
	repo := newFakeRepo()
	svc := setupService(t, repo)

	entry, err := svc.Create(context.Background(), scrapeMeta("Camera", "https://auctions.yahoo.co.jp/item/q1"))
	require.NoError(t, err)

	assert.True(t, displayid.IsValid(entry.DisplayID))
	assert.Equal(t, model.StatusUnsold, entry.Status)

	got, ok := svc.Get(entry.DocumentID)
	require.True(t, ok)
	assert.Equal(t, "Camera", got.Title)
}

func TestCreate_RepoFailureLeavesMirrorUntouched(t *testing.T) {
	repo := newFakeRepo()
	svc := setupService(t, repo)
	repo.failCreate = true

	_, err := svc.Create(context.Background(), scrapeMeta("Camera", "https://auctions.yahoo.co.jp/item/q1"))
	require.Error(t, err)
	assert.Equal(t, 0, svc.MirroredCount())
}
