package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Rank    int       `json:"rank"`
	Version int       `json:"version"`
}

func newTestCollection(t *testing.T) *Collection[record] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	return NewVersioned(path,
		func(r *record) uuid.UUID { return r.ID },
		func(r *record) int { return r.Version },
		func(r *record, v int) { r.Version = v })
}

func TestInsertAndGet(t *testing.T) {
	coll := newTestCollection(t)

	rec := record{ID: uuid.New(), Name: "first"}
	require.NoError(t, coll.Insert(&rec))
	assert.Equal(t, 1, rec.Version)

	got, err := coll.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, 1, got.Version)
}

func TestInsertRejectsMissingID(t *testing.T) {
	coll := newTestCollection(t)

	rec := record{Name: "no id"}
	err := coll.Insert(&rec)
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	coll := newTestCollection(t)

	rec := record{ID: uuid.New(), Name: "first"}
	require.NoError(t, coll.Insert(&rec))

	dup := record{ID: rec.ID, Name: "second"}
	err := coll.Insert(&dup)
	assert.ErrorIs(t, err, ErrDuplicateID)

	count, err := coll.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetNotFound(t *testing.T) {
	coll := newTestCollection(t)

	_, err := coll.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	id := func(r *record) uuid.UUID { return r.ID }

	coll := New(path, id)
	rec := record{ID: uuid.New(), Name: "durable"}
	require.NoError(t, coll.Insert(&rec))

	reopened := New(path, id)
	got, err := reopened.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Name)
}

func TestMalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	coll := New(path, func(r *record) uuid.UUID { return r.ID })
	_, err := coll.All()
	assert.Error(t, err)
}

func TestUpdateBumpsVersion(t *testing.T) {
	coll := newTestCollection(t)

	rec := record{ID: uuid.New(), Name: "before"}
	require.NoError(t, coll.Insert(&rec))

	rec.Name = "after"
	require.NoError(t, coll.Update(&rec))
	assert.Equal(t, 2, rec.Version)

	got, err := coll.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, 2, got.Version)
}

func TestUpdateDetectsLostUpdate(t *testing.T) {
	coll := newTestCollection(t)

	rec := record{ID: uuid.New(), Name: "base"}
	require.NoError(t, coll.Insert(&rec))

	// two readers fetch the same version
	first, err := coll.Get(rec.ID)
	require.NoError(t, err)
	second, err := coll.Get(rec.ID)
	require.NoError(t, err)

	first.Name = "first writer"
	require.NoError(t, coll.Update(first))

	second.Name = "second writer"
	err = coll.Update(second)
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, err := coll.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", got.Name)
}

func TestUpdateNotFound(t *testing.T) {
	coll := newTestCollection(t)

	rec := record{ID: uuid.New(), Name: "ghost", Version: 1}
	err := coll.Update(&rec)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnversionedUpdateSkipsVersionCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	coll := New(path, func(r *record) uuid.UUID { return r.ID })

	rec := record{ID: uuid.New(), Name: "before"}
	require.NoError(t, coll.Insert(&rec))

	rec.Name = "after"
	rec.Version = 99 // ignored
	require.NoError(t, coll.Update(&rec))

	got, err := coll.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
}

func TestDeleteNonexistentLeavesCollectionUnchanged(t *testing.T) {
	coll := newTestCollection(t)

	rec := record{ID: uuid.New(), Name: "keep"}
	require.NoError(t, coll.Insert(&rec))

	err := coll.Delete(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := coll.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteWhere(t *testing.T) {
	coll := newTestCollection(t)

	for i := 0; i < 5; i++ {
		rec := record{ID: uuid.New(), Rank: i}
		require.NoError(t, coll.Insert(&rec))
	}

	removed, err := coll.DeleteWhere(func(r *record) bool { return r.Rank%2 == 0 })
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	count, err := coll.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPaginateProperties(t *testing.T) {
	tests := []struct {
		name          string
		total         int
		limit         int
		wantPageCount int
	}{
		{"exact multiple", 10, 5, 2},
		{"remainder page", 11, 5, 3},
		{"single record", 1, 10, 1},
		{"empty", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll := newTestCollection(t)
			for i := 0; i < tt.total; i++ {
				rec := record{ID: uuid.New(), Rank: i}
				require.NoError(t, coll.Insert(&rec))
			}

			less := func(a, b *record) bool { return a.Rank < b.Rank }

			page, err := coll.Paginate(nil, less, 1, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.total, page.Total)
			assert.Equal(t, tt.wantPageCount, page.PageCount)

			// concatenating every page yields all records in order
			var seen []int
			for p := 1; p <= page.PageCount; p++ {
				pg, err := coll.Paginate(nil, less, p, tt.limit)
				require.NoError(t, err)
				assert.Equal(t, p != pg.PageCount && pg.PageCount > 0, pg.HasMore)
				for i := range pg.Data {
					seen = append(seen, pg.Data[i].Rank)
				}
			}
			assert.Len(t, seen, tt.total)
			for i, rank := range seen {
				assert.Equal(t, i, rank)
			}
		})
	}
}

func TestPaginateBeyondLastPageIsEmpty(t *testing.T) {
	coll := newTestCollection(t)
	rec := record{ID: uuid.New()}
	require.NoError(t, coll.Insert(&rec))

	page, err := coll.Paginate(nil, nil, 99, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.HasMore)
}

func TestBackupCopiesCollections(t *testing.T) {
	dataDir := t.TempDir()
	backupDir := t.TempDir()

	coll := New(filepath.Join(dataDir, "records.json"),
		func(r *record) uuid.UUID { return r.ID })
	rec := record{ID: uuid.New(), Name: "snapshot me"}
	require.NoError(t, coll.Insert(&rec))

	dest, err := Backup(dataDir, backupDir, "20260101-000000")
	require.NoError(t, err)

	restored := New(filepath.Join(dest, "records.json"),
		func(r *record) uuid.UUID { return r.ID })
	got, err := restored.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "snapshot me", got.Name)
}
