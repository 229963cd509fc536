package discord

// DiscordMessagePayload represents the JSON payload sent to a Discord webhook.
type DiscordMessagePayload struct {
	Content   string         `json:"content,omitempty"`
	Username  string         `json:"username,omitempty"`   // overrides the webhook's name
	AvatarURL string         `json:"avatar_url,omitempty"` // overrides the webhook's avatar
	Embeds    []DiscordEmbed `json:"embeds,omitempty"`
}
