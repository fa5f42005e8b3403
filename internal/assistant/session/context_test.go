package session_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/littledragon/assistant/internal/assistant/domain"
	"github.com/littledragon/assistant/internal/assistant/session"
)

func history(n int) []domain.Message {
	msgs := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, domain.UserMessage(fmt.Sprintf("h%d", i)))
	}
	return msgs
}

func TestWindowShortHistoryKeptWhole(t *testing.T) {
	t.Parallel()

	got := session.Window(history(3), domain.UserMessage("new"), 10)
	require.Len(t, got, 4)
	require.Equal(t, "h0", got[0].Content)
	require.Equal(t, "new", got[3].Content)
}

func TestWindowTruncatesToSuffix(t *testing.T) {
	t.Parallel()

	got := session.Window(history(20), domain.UserMessage("new"), 10)
	require.Len(t, got, 10)
	require.Equal(t, "h11", got[0].Content, "oldest surviving message is history tail")
	require.Equal(t, "new", got[9].Content)
}

func TestWindowAlwaysIncludesNewest(t *testing.T) {
	t.Parallel()

	got := session.Window(history(5), domain.UserMessage("new"), 1)
	require.Len(t, got, 1)
	require.Equal(t, "new", got[0].Content)
}

func TestWindowEmptyHistory(t *testing.T) {
	t.Parallel()

	got := session.Window(nil, domain.UserMessage("new"), 10)
	require.Len(t, got, 1)
	require.Equal(t, "new", got[0].Content)
}

func TestWindowZeroLimitUsesDefault(t *testing.T) {
	t.Parallel()

	got := session.Window(history(30), domain.UserMessage("new"), 0)
	require.Len(t, got, session.DefaultContextLimit)
	require.Equal(t, "new", got[len(got)-1].Content)
}
