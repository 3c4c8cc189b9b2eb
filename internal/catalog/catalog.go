package catalog

import "time"

// UncategorizedLabel is the bucket used for channels without a parent
// category. It sorts after every named category regardless of its own
// lexical position.
const UncategorizedLabel = "Uncategorized"

// Channel is one selectable unit of the catalog. Records are immutable once
// fetched; the selection layer treats them as read-only input.
type Channel struct {
	ID                string
	GuildID           string
	GuildName         string
	Name              string
	Category          *string // nil = uncategorized
	EstimatedMessages int
	CreatedAt         time.Time
}

// CategoryLabel returns the channel's grouping key.
func (c Channel) CategoryLabel() string {
	if c.Category == nil {
		return UncategorizedLabel
	}
	return *c.Category
}

// TotalEstimated sums the estimated message counts of channels.
func TotalEstimated(channels []Channel) int {
	total := 0
	for _, c := range channels {
		total += c.EstimatedMessages
	}
	return total
}
