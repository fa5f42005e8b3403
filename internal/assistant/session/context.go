package session

import "github.com/littledragon/assistant/internal/assistant/domain"

// DefaultContextLimit bounds how many messages are sent upstream per request.
const DefaultContextLimit = 10

// Window selects the provider context for a new message: the most recent
// messages from history with the new message last. With limit L and history
// length h it returns min(h+1, L) messages; the newest message is always
// included, even at limit 1.
func Window(history []domain.Message, newest domain.Message, limit int) []domain.Message {
	if limit <= 0 {
		limit = DefaultContextLimit
	}

	keep := limit - 1
	if keep > len(history) {
		keep = len(history)
	}

	out := make([]domain.Message, 0, keep+1)
	out = append(out, history[len(history)-keep:]...)
	out = append(out, newest)
	return out
}
