package store

import (
	"testing"

	"github.com/Sajjon/svar"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSealed(t *testing.T) *svar.SealedSecret {
	t.Helper()

	var answers []svar.QuestionAnswer
	for i, a := range []string{"Golf TDI", "Berlin, 1976", "Maria"} {
		answers = append(answers, svar.QuestionAnswer{
			Question: svar.Question{ID: uint16(i), Version: 1, Kind: svar.KindFreeform, Text: a + "?"},
			Answer:   svar.Freeform(a),
		})
	}

	sealed, err := svar.Seal([]byte("stored secret"), 2, answers)
	require.NoError(t, err)
	return sealed
}

func TestFileStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs)
	sealed := sampleSealed(t)

	path := "/home/user/.local/share/svar/sealed_secret.json"

	exists, err := s.Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Save(path, sealed, false))

	exists, err = s.Exists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	loaded, err := s.Load(path)
	require.NoError(t, err)
	assert.Equal(t, sealed, loaded)

	err = s.Save(path, sealed, false)
	assert.ErrorIs(t, err, ErrExists)

	require.NoError(t, s.Save(path, sealed, true))

	entries, err := afero.ReadDir(fs, "/home/user/.local/share/svar")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestFileStore_Load(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs)

	_, err := s.Load("/missing.json")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/broken.json", []byte(`{"format_version": 1}`), 0o600))
	_, err = s.Load("/broken.json")
	assert.ErrorIs(t, err, svar.ErrSerialization)
}

func TestFileStore_SaveInvalid(t *testing.T) {
	s := NewFileStore(afero.NewMemMapFs())
	sealed := sampleSealed(t)
	sealed.Packages = nil

	err := s.Save("/sealed.json", sealed, false)
	assert.ErrorIs(t, err, svar.ErrSerialization)
}
