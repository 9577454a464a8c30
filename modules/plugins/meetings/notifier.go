package meetings

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Message is an outgoing chat message.
// Only users listed in MentionUserIDs get pinged.
type Message struct {
	Content        string
	Embed          *discordgo.MessageEmbed
	MentionUserIDs []string
}

// Notifier delivers messages to the chat platform
type Notifier interface {
	SendChannel(ctx context.Context, channelID string, message Message) (messageID string, err error)
	SendDirect(ctx context.Context, userID string, message Message) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}

// DiscordNotifier implements Notifier on a discordgo session
type DiscordNotifier struct {
	session *discordgo.Session
}

func NewDiscordNotifier(session *discordgo.Session) *DiscordNotifier {
	return &DiscordNotifier{session: session}
}

func (n *DiscordNotifier) toSend(message Message) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content: message.Content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: message.MentionUserIDs,
		},
	}
	if message.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{message.Embed}
	}
	return send
}

func (n *DiscordNotifier) SendChannel(ctx context.Context, channelID string, message Message) (string, error) {
	sent, err := n.session.ChannelMessageSendComplex(channelID, n.toSend(message), discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return sent.ID, nil
}

func (n *DiscordNotifier) SendDirect(ctx context.Context, userID string, message Message) error {
	dmChannel, err := n.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = n.session.ChannelMessageSendComplex(dmChannel.ID, n.toSend(message), discordgo.WithContext(ctx))
	return err
}

func (n *DiscordNotifier) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return n.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

func (n *DiscordNotifier) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return n.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}
