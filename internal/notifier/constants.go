package notifier

// Discord formatting constants
const (
	DiscordUsername = "Deal Notifier"
	DealEmbedColor  = 0x5CB85C // Bootstrap success green
)
