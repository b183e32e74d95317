package history_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
	"github.com/joseph-fajen/ai-resume-chat/internal/service/history"
)

func TestStoreKeepsInsertionOrder(t *testing.T) {
	store := history.NewStore()
	store.Append(chat.UserMessage("q1"))
	store.Append(chat.AssistantMessage("a1"))
	store.Append(chat.UserMessage("q2"))

	got := store.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, []chat.Message{
		{Role: chat.RoleUser, Content: "q1"},
		{Role: chat.RoleAssistant, Content: "a1"},
		{Role: chat.RoleUser, Content: "q2"},
	}, got)

	last, ok := store.Last()
	require.True(t, ok)
	assert.Equal(t, "q2", last.Content)
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	store := history.NewStore()
	store.Append(chat.UserMessage("original"))

	snap := store.Snapshot()
	snap[0].Content = "mutated"

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "original", store.Snapshot()[0].Content)
}

func TestStoreEmpty(t *testing.T) {
	store := history.NewStore()
	_, ok := store.Last()
	assert.False(t, ok)
	assert.Empty(t, store.Snapshot())
}

func TestStoreConcurrentReaders(t *testing.T) {
	store := history.NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.Snapshot()
			}
		}()
	}
	for i := 0; i < 100; i++ {
		store.Append(chat.UserMessage("q"))
	}
	wg.Wait()
	assert.Equal(t, 100, store.Len())
}
