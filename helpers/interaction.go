package helpers

import (
	"github.com/bwmarrin/discordgo"
)

// InteractionUser returns the invoking user of guild and direct message interactions
func InteractionUser(interaction *discordgo.InteractionCreate) *discordgo.User {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User
	}
	return interaction.User
}

// InteractionUserName prefers the guild nickname over the global name over the username
func InteractionUserName(interaction *discordgo.InteractionCreate) string {
	if interaction.Member != nil && interaction.Member.Nick != "" {
		return interaction.Member.Nick
	}
	user := InteractionUser(interaction)
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// RespondEphemeral answers an interaction with a message only the invoker can see
func RespondEphemeral(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string) error {
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// DeferResponse acknowledges an interaction, the answer follows through EditResponse
func DeferResponse(session *discordgo.Session, interaction *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// EditResponse replaces the deferred answer with $content and optional $embed
func EditResponse(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, embed *discordgo.MessageEmbed) error {
	edit := &discordgo.WebhookEdit{
		Content: &content,
	}
	if embed != nil {
		embeds := []*discordgo.MessageEmbed{embed}
		edit.Embeds = &embeds
	}
	_, err := session.InteractionResponseEdit(interaction.Interaction, edit)
	return err
}

// CommandOptions maps the options of the first subcommand, or of the command itself, by name
func CommandOptions(data discordgo.ApplicationCommandInteractionData) (subcommand string, options map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	list := data.Options
	if len(list) == 1 && list[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		subcommand = list[0].Name
		list = list[0].Options
	}
	options = make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(list))
	for _, option := range list {
		options[option.Name] = option
	}
	return subcommand, options
}
