package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"edutech_backend/internal/model"
	"edutech_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	return store, path
}

func TestFileStoreRoundtrip(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	user := model.NewUser("Priya", "priya@example.com", model.Fresher)
	user.EnrolledCourses = []string{"course-a"}
	user.CourseProgress["course-a"] = &model.CourseProgress{
		CourseID:           "course-a",
		CompletedModules:   []string{"mod-1"},
		CurrentModuleIndex: 1,
		OverallProgress:    33,
		QuizScores:         map[string]int{"mod-1": 80},
	}

	require.NoError(t, store.Save(ctx, user))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
	assert.Equal(t, user.EnrolledCourses, loaded.EnrolledCourses)
	assert.Equal(t, 80, loaded.CourseProgress["course-a"].QuizScores["mod-1"])
}

func TestFileStoreSaveOverwritesWhole(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	first := model.NewUser("Priya", "priya@example.com", model.Fresher)
	first.EnrolledCourses = []string{"course-a", "course-b"}
	require.NoError(t, store.Save(ctx, first))

	second := model.NewUser("Arun", "arun@example.com", model.Analyst)
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)
	assert.Empty(t, loaded.EnrolledCourses)
}

func TestFileStoreMissingSnapshot(t *testing.T) {
	store, _ := newTestFileStore(t)
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, util.ErrSnapshotNotFound)
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	store, path := newTestFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0644))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, util.ErrSnapshotCorrupt)
}

func TestFileStoreClear(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, model.NewUser("Priya", "priya@example.com", model.Fresher)))
	require.NoError(t, store.Clear(ctx))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// Clearing an already-empty store is not an error.
	require.NoError(t, store.Clear(ctx))
}
