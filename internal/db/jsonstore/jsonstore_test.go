package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Counters map[string]int `json:"counters"`
}

func newTestDoc() *testDoc {
	return &testDoc{Counters: make(map[string]int)}
}

func TestOpenCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	store, err := Open(path, newTestDoc)
	require.NoError(t, err)

	// Файл создан сразу, с пустым документом
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"counters": {}}`, string(raw))

	store.View(func(doc *testDoc) {
		assert.Empty(t, doc.Counters)
	})
}

func TestOpenResetsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{не json"), 0o644))

	store, err := Open(path, newTestDoc)
	require.NoError(t, err)

	store.View(func(doc *testDoc) {
		assert.Empty(t, doc.Counters)
	})

	// Файл пересоздан валидным
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"counters": {}}`, string(raw))
}

func TestUpdatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	store, err := Open(path, newTestDoc)
	require.NoError(t, err)

	require.NoError(t, store.Update(func(doc *testDoc) (bool, error) {
		doc.Counters["42"] = 7
		return true, nil
	}))

	reopened, err := Open(path, newTestDoc)
	require.NoError(t, err)
	reopened.View(func(doc *testDoc) {
		assert.Equal(t, 7, doc.Counters["42"])
	})
}

func TestUpdateErrorDoesNotFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	store, err := Open(path, newTestDoc)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Update(func(doc *testDoc) (bool, error) {
		doc.Counters["42"] = 7
		return true, boom
	})
	require.ErrorIs(t, err, boom)

	// На диске по-прежнему пустой документ
	reopened, err := Open(path, newTestDoc)
	require.NoError(t, err)
	reopened.View(func(doc *testDoc) {
		assert.Empty(t, doc.Counters)
	})
}

func TestUpdateUnchangedSkipsFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	store, err := Open(path, newTestDoc)
	require.NoError(t, err)
	require.NoError(t, store.Update(func(doc *testDoc) (bool, error) {
		doc.Counters["42"] = 7
		return true, nil
	}))

	before, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, store.Update(func(doc *testDoc) (bool, error) {
		return false, nil
	}))

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestBackupCopiesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	store, err := Open(path, newTestDoc)
	require.NoError(t, err)
	require.NoError(t, store.Update(func(doc *testDoc) (bool, error) {
		doc.Counters["42"] = 7
		return true, nil
	}))

	require.NoError(t, store.Backup())

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, original, backup)
}

func TestKeyRoundTrip(t *testing.T) {
	assert.Equal(t, "-1001234567890", ChatID(-1001234567890).Key())
	assert.Equal(t, "99", UserID(99).Key())

	id, err := ParseUserID(UserID(99).Key())
	require.NoError(t, err)
	assert.Equal(t, UserID(99), id)
}
