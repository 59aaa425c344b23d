// Package notification delivers scan lifecycle messages to Discord.
package notification

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Message is one scan notification. Severity picks the embed color;
// Fields carry the severity totals.
type Message struct {
	Title       string
	Description string
	Severity    string
	Fields      map[string]string
	Timestamp   time.Time
}

var severityColors = map[string]int{
	"high":   0xFF0000,
	"medium": 0xFF8C00,
	"low":    0xFFD700,
	"info":   0x00BFFF,
}

type NotificationClient struct {
	session   *discordgo.Session
	channelID string
}

// NewNotificationClient connects to Discord using DISCORD_TOKEN and
// DISCORD_CHANNEL_ID from the environment.
func NewNotificationClient() (*NotificationClient, error) {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN environment variable not set")
	}
	channelID := os.Getenv("DISCORD_CHANNEL_ID")
	if channelID == "" {
		return nil, fmt.Errorf("DISCORD_CHANNEL_ID environment variable not set")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	if err := session.Open(); err != nil {
		return nil, err
	}

	return &NotificationClient{session: session, channelID: channelID}, nil
}

// Send posts the message as a single embed with severity totals as inline
// fields in stable alphabetical order.
func (c *NotificationClient) Send(msg Message) error {
	if c.session == nil {
		return fmt.Errorf("discord client not initialized")
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	color, ok := severityColors[msg.Severity]
	if !ok {
		color = 0x808080
	}

	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       color,
		Timestamp:   msg.Timestamp.Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "webscan"},
	}

	keys := make([]string, 0, len(msg.Fields))
	for key := range msg.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   key,
			Value:  msg.Fields[key],
			Inline: true,
		})
	}

	_, err := c.session.ChannelMessageSendEmbed(c.channelID, embed)
	return err
}

func (c *NotificationClient) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}
