package aws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStorage struct {
	data   map[string][]byte
	resets int
}

func (m *mapStorage) Get(key string) ([]byte, error) { return m.data[key], nil }
func (m *mapStorage) Set(key string, val []byte, _ time.Duration) error {
	m.data[key] = val
	return nil
}
func (m *mapStorage) Delete(key string) error { delete(m.data, key); return nil }
func (m *mapStorage) Reset() error            { m.resets++; return nil }
func (m *mapStorage) Close() error            { return nil }

func TestSessionKeysArePrefixed(t *testing.T) {
	backing := &mapStorage{data: map[string][]byte{}}
	s := newPrefixed(backing, sessionPrefix)

	require.NoError(t, s.Set("abc", []byte("payload"), time.Hour))
	assert.Equal(t, []byte("payload"), backing.data["sessions/abc"])

	got, err := s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, s.Delete("abc"))
	assert.Empty(t, backing.data)
}

func TestEmptyKeysAndValuesAreIgnored(t *testing.T) {
	backing := &mapStorage{data: map[string][]byte{}}
	s := newPrefixed(backing, sessionPrefix)

	require.NoError(t, s.Set("", []byte("x"), time.Hour))
	require.NoError(t, s.Set("k", nil, time.Hour))
	assert.Empty(t, backing.data)

	got, err := s.Get("")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Reset())
	assert.Zero(t, backing.resets)
}
