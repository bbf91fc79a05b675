package store_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"submerge/internal/domain/merge"
	"submerge/internal/errors"
	"submerge/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	opts := merge.DefaultOptions()
	opts.EnableBasicMerge = true
	opts.MaxMergeCount = 4

	created, err := s.CreatePreset(store.Preset{
		Name:        "Anime defaults",
		Description: "aggressive merging for short cues",
		Options:     opts,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "pre_"), "id %q should carry the preset prefix", created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := s.GetPreset(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Anime defaults", got.Name)
	assert.Equal(t, "aggressive merging for short cues", got.Description)
	assert.Equal(t, opts, got.Options)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
}

func TestStore_CreateRejectsDuplicateName(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreatePreset(store.Preset{Name: "movie night", Options: merge.DefaultOptions()})
	require.NoError(t, err)

	_, err = s.CreatePreset(store.Preset{Name: "MOVIE NIGHT", Options: merge.DefaultOptions()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig), "duplicate name should be a config error, got %v", err)
}

func TestStore_CreateRejectsBadInput(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreatePreset(store.Preset{Name: "   ", Options: merge.DefaultOptions()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))

	bad := merge.DefaultOptions()
	bad.MaxMergeCount = 0
	_, err = s.CreatePreset(store.Preset{Name: "broken", Options: bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetPreset("pre_does-not-exist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestStore_GetByName(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreatePreset(store.Preset{Name: "Documentary", Options: merge.DefaultOptions()})
	require.NoError(t, err)

	got, err := s.GetPresetByName("  documentary ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.GetPresetByName("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestStore_ListSortsByName(t *testing.T) {
	s := newTestStore(t)

	empty, err := s.ListPresets()
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, name := range []string{"zebra", "Alpha", "mango"} {
		_, err := s.CreatePreset(store.Preset{Name: name, Options: merge.DefaultOptions()})
		require.NoError(t, err)
	}

	got, err := s.ListPresets()
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Alpha", "mango", "zebra"}, names)
}

func TestStore_Update(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreatePreset(store.Preset{Name: "draft", Options: merge.DefaultOptions()})
	require.NoError(t, err)

	updated := created
	updated.Name = "final"
	updated.Options.MaxTextLength = 90

	got, err := s.UpdatePreset(updated)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "final", got.Name)
	assert.Equal(t, 90, got.Options.MaxTextLength)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
	assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))

	// The old name is free again after a rename.
	_, err = s.GetPresetByName("draft")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	reused, err := s.CreatePreset(store.Preset{Name: "draft", Options: merge.DefaultOptions()})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, reused.ID)
}

func TestStore_UpdateRejectsTakenName(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreatePreset(store.Preset{Name: "first", Options: merge.DefaultOptions()})
	require.NoError(t, err)
	second, err := s.CreatePreset(store.Preset{Name: "second", Options: merge.DefaultOptions()})
	require.NoError(t, err)

	second.Name = "First"
	_, err = s.UpdatePreset(second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))
}

func TestStore_UpdateMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdatePreset(store.Preset{ID: "pre_ghost", Name: "ghost", Options: merge.DefaultOptions()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestStore_UpdateKeepsOwnName(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreatePreset(store.Preset{Name: "steady", Options: merge.DefaultOptions()})
	require.NoError(t, err)

	created.Description = "unchanged name, new description"
	got, err := s.UpdatePreset(created)
	require.NoError(t, err)
	assert.Equal(t, "steady", got.Name)

	byName, err := s.GetPresetByName("steady")
	require.NoError(t, err)
	assert.Equal(t, "unchanged name, new description", byName.Description)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreatePreset(store.Preset{Name: "ephemeral", Options: merge.DefaultOptions()})
	require.NoError(t, err)

	require.NoError(t, s.DeletePreset(created.ID))

	_, err = s.GetPreset(created.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	_, err = s.GetPresetByName("ephemeral")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = s.DeletePreset(created.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := store.Open(dir, nil)
	require.NoError(t, err)
	created, err := s.CreatePreset(store.Preset{Name: "durable", Options: merge.DefaultOptions()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.Open(dir, nil)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, err := s.GetPreset(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Name)
}
