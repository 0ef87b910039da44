package notifier

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/gdg-garage/kursverwaltung/internal/models"
)

// Event describes a mutation worth telling people about.
type Event struct {
	Entity string
	Action string
	// Summary names the affected record, e.g. participant and course.
	Summary string
	Paid    *bool
}

type Notifier interface {
	Notify(event Event) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// NewFromToken opens a bot session. It returns nil and an error when the
// notifier is not configured.
func NewFromToken(botToken, channelID string) (*DiscordNotifier, error) {
	if botToken == "" || channelID == "" {
		return nil, fmt.Errorf("discord bot token or channel ID is empty")
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, err
	}
	return NewDiscordNotifier(session, channelID), nil
}

func (n *DiscordNotifier) Notify(event Event) error {
	if n == nil || n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, Message(event))
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

// Message formats the text posted for an event.
func Message(event Event) string {
	var b strings.Builder
	switch {
	case event.Action == models.ActionToggle && event.Paid != nil && *event.Paid:
		b.WriteString("💶 **Zahlung eingegangen**")
	case event.Action == models.ActionToggle:
		b.WriteString("⏳ **Zahlung wieder offen**")
	case event.Action == models.ActionCreate:
		b.WriteString("🎉 **" + event.Entity + " angelegt**")
	default:
		b.WriteString("✏️ **" + event.Entity + " " + event.Action + "**")
	}
	if event.Summary != "" {
		b.WriteString("\n" + event.Summary)
	}
	return b.String()
}
