package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptedRoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()

	enc, err := NewEncrypted(ctx, inner, "correct horse")
	require.NoError(t, err)
	require.NoError(t, enc.Put(ctx, map[string][]byte{"tasks": []byte(`{"tasks":[]}`)}))

	raw, err := inner.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tasks")

	got, err := enc.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, `{"tasks":[]}`, string(got))

	// reopen with the same passphrase
	again, err := NewEncrypted(ctx, inner, "correct horse")
	require.NoError(t, err)
	got, err = again.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, `{"tasks":[]}`, string(got))
}

func TestEncryptedWrongPassphrase(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()

	_, err := NewEncrypted(ctx, inner, "first")
	require.NoError(t, err)

	_, err = NewEncrypted(ctx, inner, "second")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestEncryptedMissingKey(t *testing.T) {
	ctx := context.Background()
	enc, err := NewEncrypted(ctx, NewMemory(), "pw")
	require.NoError(t, err)

	_, err = enc.Get(ctx, "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEncryptedRejectsEmptyPassphrase(t *testing.T) {
	_, err := NewEncrypted(context.Background(), NewMemory(), "")
	assert.Error(t, err)
}

func TestEncryptedNoncesDiffer(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	enc, err := NewEncrypted(ctx, inner, "pw")
	require.NoError(t, err)

	require.NoError(t, enc.Put(ctx, map[string][]byte{"a": []byte("same"), "b": []byte("same")}))
	a, _ := inner.Get(ctx, "a")
	b, _ := inner.Get(ctx, "b")
	assert.NotEqual(t, a, b)
}
