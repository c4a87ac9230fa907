package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/itish2003/neuronova/models"
)

func setupRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, opts...), mr
}

func TestRedisStore_EntriesUnknownSession(t *testing.T) {
	store, _ := setupRedisStore(t)

	entries, err := store.Entries(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRedisStore_InvalidID(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Append(ctx, "", entry(models.SpeakerUser, "hi")), ErrInvalidSessionID)
	_, err := store.Entries(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidSessionID)
}

func TestRedisStore_AppendAndEntries(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", entry(models.SpeakerUser, "Explain it"), entry(models.SpeakerBot, "It loops.")))
	require.NoError(t, store.Append(ctx, "s1", entry(models.SpeakerBot, " Twice.")))

	entries, err := store.Entries(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.SpeakerUser, entries[0].Speaker)
	assert.Equal(t, "Explain it", entries[0].Text)
	assert.Equal(t, "It loops.", entries[1].Text)
	assert.Equal(t, " Twice.", entries[2].Text)
	assert.True(t, entries[0].CreatedAt.Equal(time.Unix(1700000000, 0)))

	raw, err := mr.List("neuronova:transcript:s1")
	require.NoError(t, err)
	assert.Len(t, raw, 3)
}

func TestRedisStore_AppendNothing(t *testing.T) {
	store, mr := setupRedisStore(t)

	require.NoError(t, store.Append(context.Background(), "s1"))
	assert.False(t, mr.Exists("neuronova:transcript:s1"))
}

func TestRedisStore_WithPrefix(t *testing.T) {
	store, mr := setupRedisStore(t, WithPrefix("custom"))

	require.NoError(t, store.Append(context.Background(), "s1", entry(models.SpeakerUser, "hi")))
	assert.True(t, mr.Exists("custom:transcript:s1"))
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := setupRedisStore(t, WithTTL(time.Hour))
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", entry(models.SpeakerUser, "hi")))
	assert.Equal(t, time.Hour, mr.TTL("neuronova:transcript:s1"))

	mr.FastForward(2 * time.Hour)

	entries, err := store.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRedisStore_NoTTLByDefault(t *testing.T) {
	store, mr := setupRedisStore(t)

	require.NoError(t, store.Append(context.Background(), "s1", entry(models.SpeakerUser, "hi")))
	assert.Equal(t, time.Duration(0), mr.TTL("neuronova:transcript:s1"))
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	store, mr := setupRedisStore(t)

	_, err := mr.Push("neuronova:transcript:s1", "not-json")
	require.NoError(t, err)

	_, err = store.Entries(context.Background(), "s1")
	assert.Error(t, err)
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := setupRedisStore(t)
	mr.Close()

	err := store.Append(context.Background(), "s1", entry(models.SpeakerUser, "hi"))
	assert.Error(t, err)
}
