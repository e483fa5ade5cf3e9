package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zfogg/socialcommerce/cli/pkg/api"
)

func TestThreadDedupesAndFilters(t *testing.T) {
	th := NewThread("r1", []api.Message{
		{MessageID: "a", RoomID: "r1", Content: "hi"},
		{MessageID: "b", RoomID: "r1", Content: "yo"},
	})
	assert.Equal(t, "r1", th.RoomID())
	assert.Equal(t, 2, th.Len())

	assert.False(t, th.Add(api.Message{MessageID: "a", RoomID: "r1"}), "duplicate id")
	assert.False(t, th.Add(api.Message{MessageID: "c", RoomID: "r2"}), "other room")
	assert.True(t, th.Add(api.Message{MessageID: "c", RoomID: "r1", Content: "sup"}))
	assert.True(t, th.Add(api.Message{Content: "no id"}))
	assert.True(t, th.Add(api.Message{Content: "no id"}), "messages without ids are never deduped")

	msgs := th.Messages()
	assert.Len(t, msgs, 5)
	assert.Equal(t, "sup", msgs[2].Content)

	msgs[0].Content = "changed"
	assert.Equal(t, "hi", th.Messages()[0].Content)
}
