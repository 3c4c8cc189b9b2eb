package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sheetMessages     = "All_Messages"
	sheetChannelStats = "Channel_Statistics"
	sheetUserStats    = "User_Statistics"
	sheetTotalStats   = "Total_Statistics"

	timeLayout = "2006-01-02 15:04:05"
)

// WriteWorkbook writes messages and derived statistics to an xlsx file.
// Rows are ordered by guild, channel, then timestamp so each channel reads
// oldest first. batchID tags the workbook so repeated exports are
// distinguishable.
func WriteWorkbook(path, batchID string, msgs []Message) error {
	sorted := append([]Message(nil), msgs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].GuildName != sorted[j].GuildName {
			return sorted[i].GuildName < sorted[j].GuildName
		}
		if sorted[i].ChannelName != sorted[j].ChannelName {
			return sorted[i].ChannelName < sorted[j].ChannelName
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetMessages); err != nil {
		return err
	}
	if err := writeMessages(f, sorted); err != nil {
		return err
	}
	if err := writeChannelStats(f, sorted); err != nil {
		return err
	}
	if err := writeUserStats(f, sorted); err != nil {
		return err
	}
	if err := writeTotalStats(f, sorted, batchID); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeMessages(f *excelize.File, msgs []Message) error {
	header := []interface{}{
		"Timestamp", "Author", "Author ID", "Content", "Message ID",
		"Guild", "Channel", "Edited At", "Attachments", "Attachment URLs",
		"Reaction Count", "Reactions", "Mentions", "Is Bot",
	}
	if err := setRow(f, sheetMessages, 1, header); err != nil {
		return err
	}
	for i, m := range msgs {
		edited := ""
		if m.EditedAt != nil {
			edited = m.EditedAt.Format(timeLayout)
		}
		row := []interface{}{
			m.Timestamp.Format(timeLayout),
			m.AuthorName,
			m.AuthorID,
			m.Content,
			m.MessageID,
			m.GuildName,
			m.ChannelName,
			edited,
			m.AttachmentCount,
			strings.Join(m.AttachmentURLs, "; "),
			m.ReactionCount,
			strings.Join(m.Reactions, "; "),
			strings.Join(m.Mentions, "; "),
			m.IsBot,
		}
		if err := setRow(f, sheetMessages, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

type statAgg struct {
	messages    int
	attachments int
	reactions   int
}

func writeChannelStats(f *excelize.File, msgs []Message) error {
	if _, err := f.NewSheet(sheetChannelStats); err != nil {
		return err
	}
	type key struct{ guild, channel string }
	agg := make(map[key]*statAgg)
	for _, m := range msgs {
		k := key{m.GuildName, m.ChannelName}
		a := agg[k]
		if a == nil {
			a = &statAgg{}
			agg[k] = a
		}
		a.messages++
		a.attachments += m.AttachmentCount
		a.reactions += m.ReactionCount
	}
	keys := make([]key, 0, len(agg))
	for k := range agg {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].guild != keys[j].guild {
			return keys[i].guild < keys[j].guild
		}
		return keys[i].channel < keys[j].channel
	})

	if err := setRow(f, sheetChannelStats, 1, []interface{}{"Guild", "Channel", "Messages", "Attachments", "Reactions"}); err != nil {
		return err
	}
	for i, k := range keys {
		a := agg[k]
		if err := setRow(f, sheetChannelStats, i+2, []interface{}{k.guild, k.channel, a.messages, a.attachments, a.reactions}); err != nil {
			return err
		}
	}
	return nil
}

func writeUserStats(f *excelize.File, msgs []Message) error {
	if _, err := f.NewSheet(sheetUserStats); err != nil {
		return err
	}
	type key struct{ guild, channel, author string }
	agg := make(map[key]*statAgg)
	for _, m := range msgs {
		k := key{m.GuildName, m.ChannelName, m.AuthorName}
		a := agg[k]
		if a == nil {
			a = &statAgg{}
			agg[k] = a
		}
		a.messages++
		a.attachments += m.AttachmentCount
		a.reactions += m.ReactionCount
	}
	keys := make([]key, 0, len(agg))
	for k := range agg {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].guild != keys[j].guild {
			return keys[i].guild < keys[j].guild
		}
		if keys[i].channel != keys[j].channel {
			return keys[i].channel < keys[j].channel
		}
		return keys[i].author < keys[j].author
	})

	if err := setRow(f, sheetUserStats, 1, []interface{}{"Guild", "Channel", "Author", "Messages", "Attachments", "Reactions"}); err != nil {
		return err
	}
	for i, k := range keys {
		a := agg[k]
		if err := setRow(f, sheetUserStats, i+2, []interface{}{k.guild, k.channel, k.author, a.messages, a.attachments, a.reactions}); err != nil {
			return err
		}
	}
	return nil
}

func writeTotalStats(f *excelize.File, msgs []Message, batchID string) error {
	if _, err := f.NewSheet(sheetTotalStats); err != nil {
		return err
	}
	authors := make(map[string]struct{})
	botMessages, attachments, withReactions := 0, 0, 0
	for _, m := range msgs {
		authors[m.AuthorName] = struct{}{}
		if m.IsBot {
			botMessages++
		}
		attachments += m.AttachmentCount
		if m.ReactionCount > 0 {
			withReactions++
		}
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total messages", len(msgs)},
		{"Unique authors", len(authors)},
		{"Bot messages", botMessages},
		{"Total attachments", attachments},
		{"Messages with reactions", withReactions},
		{"Exported at", time.Now().UTC().Format(timeLayout)},
		{"Export batch", batchID},
	}
	for i, row := range rows {
		if err := setRow(f, sheetTotalStats, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
