package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
	"github.com/takayamaekawa/discord-exporter-tui/internal/export"
)

// estimateSample is how many recent messages seed the per-channel estimate.
const estimateSample = 10

// Client wraps a discordgo session for REST-only catalog and history reads.
// The gateway is never opened.
type Client struct {
	session *discordgo.Session
}

func New(token string) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("discord token is empty")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &Client{session: s}, nil
}

// FetchChannels walks the bot's guilds and returns every text channel with
// its category and a message-count estimate. guildFilter narrows to one
// guild by id or name; empty means all guilds.
func (c *Client) FetchChannels(ctx context.Context, guildFilter string) ([]catalog.Channel, error) {
	guilds, err := c.session.UserGuilds(100, "", "", false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list guilds: %w", err)
	}

	var out []catalog.Channel
	for _, g := range guilds {
		if guildFilter != "" && g.ID != guildFilter && !strings.EqualFold(g.Name, guildFilter) {
			continue
		}
		chans, err := c.session.GuildChannels(g.ID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list channels for %s: %w", g.Name, err)
		}

		categoryName := make(map[string]string)
		for _, ch := range chans {
			if ch.Type == discordgo.ChannelTypeGuildCategory {
				categoryName[ch.ID] = ch.Name
			}
		}

		for _, ch := range chans {
			if ch.Type != discordgo.ChannelTypeGuildText && ch.Type != discordgo.ChannelTypeGuildNews {
				continue
			}
			created, err := discordgo.SnowflakeTimestamp(ch.ID)
			if err != nil {
				created = time.Now().UTC()
			}
			rec := catalog.Channel{
				ID:                ch.ID,
				GuildID:           g.ID,
				GuildName:         g.Name,
				Name:              ch.Name,
				EstimatedMessages: c.estimateMessages(ctx, ch.ID, created),
				CreatedAt:         created.UTC(),
			}
			if name, ok := categoryName[ch.ParentID]; ok {
				rec.Category = &name
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

// estimateMessages extrapolates a channel's total from its newest messages:
// the sample's posting rate applied over the channel's whole lifetime. A
// partial sample is already the full history, so it is returned as-is.
// Channels the bot cannot read estimate to zero rather than failing the scan.
func (c *Client) estimateMessages(ctx context.Context, channelID string, created time.Time) int {
	msgs, err := c.session.ChannelMessages(channelID, estimateSample, "", "", "", discordgo.WithContext(ctx))
	if err != nil || len(msgs) == 0 {
		return 0
	}
	if len(msgs) < estimateSample {
		return len(msgs)
	}
	newest := msgs[0].Timestamp
	oldest := msgs[len(msgs)-1].Timestamp
	span := newest.Sub(oldest).Seconds()
	if span <= 0 {
		return len(msgs)
	}
	rate := float64(len(msgs)) / span
	age := time.Since(created).Seconds()
	return int(rate * age)
}

// Messages collects a channel's history newest-first from the API and
// returns it filtered to the window. History pages backwards 100 messages
// at a time; once a message predates the window's lower bound the walk
// stops.
func (c *Client) Messages(ctx context.Context, channel catalog.Channel, window export.Window) ([]export.Message, error) {
	var out []export.Message
	beforeID := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, err := c.session.ChannelMessages(channel.ID, 100, beforeID, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetch history for #%s: %w", channel.Name, err)
		}
		if len(batch) == 0 {
			return out, nil
		}
		for _, m := range batch {
			ts := m.Timestamp
			if window.After != nil && !ts.After(*window.After) {
				// History descends, nothing older will match.
				return out, nil
			}
			if !window.Contains(ts) {
				continue
			}
			out = append(out, convertMessage(m, channel.GuildName, channel.Name))
			if window.Limit > 0 && len(out) >= window.Limit {
				return out, nil
			}
		}
		beforeID = batch[len(batch)-1].ID
		if len(batch) < 100 {
			return out, nil
		}
	}
}

func convertMessage(m *discordgo.Message, guildName, channelName string) export.Message {
	msg := export.Message{
		Timestamp:       m.Timestamp.UTC(),
		Content:         m.Content,
		MessageID:       m.ID,
		GuildName:       guildName,
		ChannelName:     channelName,
		AttachmentCount: len(m.Attachments),
	}
	if m.EditedTimestamp != nil {
		edited := m.EditedTimestamp.UTC()
		msg.EditedAt = &edited
	}
	if m.Author != nil {
		msg.AuthorName = displayName(m.Author)
		msg.AuthorID = m.Author.ID
		msg.IsBot = m.Author.Bot
	}
	for _, a := range m.Attachments {
		msg.AttachmentURLs = append(msg.AttachmentURLs, a.URL)
	}
	for _, r := range m.Reactions {
		msg.ReactionCount += r.Count
		msg.Reactions = append(msg.Reactions, fmt.Sprintf("%s(%d)", r.Emoji.Name, r.Count))
	}
	for _, u := range m.Mentions {
		msg.Mentions = append(msg.Mentions, displayName(u))
	}
	return msg
}

func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
