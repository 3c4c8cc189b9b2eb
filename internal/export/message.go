package export

import "time"

// Message is one exported chat message, flattened for a workbook row.
type Message struct {
	Timestamp       time.Time
	AuthorName      string
	AuthorID        string
	Content         string
	MessageID       string
	GuildName       string
	ChannelName     string
	EditedAt        *time.Time
	AttachmentCount int
	AttachmentURLs  []string
	ReactionCount   int
	Reactions       []string // rendered as emoji(count)
	Mentions        []string
	IsBot           bool
}

// Window restricts which messages an export collects. Zero fields mean
// unbounded; Limit caps messages per channel, 0 means no cap.
type Window struct {
	After  *time.Time
	Before *time.Time
	Limit  int
}

// Contains reports whether ts falls inside the window bounds.
func (w Window) Contains(ts time.Time) bool {
	if w.After != nil && !ts.After(*w.After) {
		return false
	}
	if w.Before != nil && !ts.Before(*w.Before) {
		return false
	}
	return true
}
