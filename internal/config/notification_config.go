package config

// EmailConfig defines the SMTP transport used for deal emails.
// An empty Host disables email delivery.
type EmailConfig struct {
	DefaultRecipient string `json:"default_recipient,omitempty" yaml:"default_recipient,omitempty" validate:"omitempty,email"`
	From             string `json:"from,omitempty" yaml:"from,omitempty" validate:"required_with=Host,omitempty,email"`
	Host             string `json:"host,omitempty" yaml:"host,omitempty" validate:"omitempty,hostname|ip"`
	Password         string `json:"password,omitempty" yaml:"password,omitempty"`
	Port             int    `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	SSL              bool   `json:"ssl" yaml:"ssl"`
	TimeoutSeconds   int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
	TLSPolicy        string `json:"tls_policy,omitempty" yaml:"tls_policy,omitempty" validate:"omitempty,tlspolicy"`
	Username         string `json:"username,omitempty" yaml:"username,omitempty"`
}

// Enabled reports whether an SMTP host is configured.
func (c EmailConfig) Enabled() bool {
	return c.Host != ""
}

// NotificationConfig defines configuration for notifications
type NotificationConfig struct {
	DiscordWebhookURL string      `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
	Email             EmailConfig `json:"email,omitempty" yaml:"email,omitempty"`
	Language          string      `json:"language,omitempty" yaml:"language,omitempty" validate:"omitempty,language"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Email: EmailConfig{
			Port:           DefaultEmailPort,
			TLSPolicy:      DefaultEmailTLSPolicy,
			TimeoutSeconds: DefaultEmailTimeoutSeconds,
		},
		Language: DefaultLanguage,
	}
}
