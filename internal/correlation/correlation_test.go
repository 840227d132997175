package correlation

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvphrm/internal/store"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string, string) (string, error) {
	return "", errors.New("storage unavailable")
}
func (failingStore) Set(context.Context, string, string, string) error { return nil }

func TestGenerate_Format(t *testing.T) {
	now := time.UnixMilli(1714550400123)

	id := Generate(now)

	assert.Regexp(t, regexp.MustCompile(`^1714550400123-[0-9a-f]{9}$`), id)
	assert.NotEqual(t, id, Generate(now))
}

func TestEnsure_StableWithinSession(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemorySessionStore(0)

	first, err := Ensure(ctx, st, "tab-1")
	require.NoError(t, err)
	second, err := Ensure(ctx, st, "tab-1")
	require.NoError(t, err)
	other, err := Ensure(ctx, st, "tab-2")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestEnsure_RegeneratesWhenStorageIsEmpty(t *testing.T) {
	ctx := context.Background()

	a, err := Ensure(ctx, store.NewMemorySessionStore(0), "tab-1")
	require.NoError(t, err)
	b, err := Ensure(ctx, store.NewMemorySessionStore(0), "tab-1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestEnsure_PropagatesStorageError(t *testing.T) {
	_, err := Ensure(context.Background(), failingStore{}, "tab-1")

	assert.EqualError(t, err, "storage unavailable")
}

func TestContext(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))

	ctx := WithID(context.Background(), "cid-1")

	assert.Equal(t, "cid-1", FromContext(ctx))
}
