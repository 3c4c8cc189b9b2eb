package selector

import (
	"sort"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
)

type entryKind int

const (
	entryCategoryHeader entryKind = iota
	entryChannel
)

// DisplayEntry is one row of the flattened selection list: either a category
// header or a single channel. Channel entries carry the index of the channel
// in the original catalog order; headers carry -1.
type DisplayEntry struct {
	Kind         entryKind
	Category     string
	ChannelIndex int
}

// DisplayList is the render-ready flattening of a catalog snapshot. It is
// built once per selection session and never mutated afterwards.
type DisplayList struct {
	Entries    []DisplayEntry
	Categories []string         // category labels in display order
	Members    map[string][]int // category label -> original channel indices
}

// BuildDisplayList groups channels by category and flattens them into an
// ordered entry sequence: each non-empty category contributes one header
// immediately followed by its members in their original relative order.
// Categories sort lexically ascending, except Uncategorized which always
// comes last. The output is a pure function of the input order.
func BuildDisplayList(channels []catalog.Channel) DisplayList {
	members := make(map[string][]int)
	for i, c := range channels {
		label := c.CategoryLabel()
		members[label] = append(members[label], i)
	}

	labels := make([]string, 0, len(members))
	for label := range members {
		if label != catalog.UncategorizedLabel {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	if _, ok := members[catalog.UncategorizedLabel]; ok {
		labels = append(labels, catalog.UncategorizedLabel)
	}

	entries := make([]DisplayEntry, 0, len(channels)+len(labels))
	for _, label := range labels {
		entries = append(entries, DisplayEntry{Kind: entryCategoryHeader, Category: label, ChannelIndex: -1})
		for _, idx := range members[label] {
			entries = append(entries, DisplayEntry{Kind: entryChannel, Category: label, ChannelIndex: idx})
		}
	}

	return DisplayList{Entries: entries, Categories: labels, Members: members}
}
