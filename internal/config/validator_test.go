package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *GlobalConfig)
		wantErr   bool
		errSubstr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *GlobalConfig) {},
		},
		{
			name:      "unknown mode",
			mutate:    func(cfg *GlobalConfig) { cfg.Mode = "forever" },
			wantErr:   true,
			errSubstr: "Mode",
		},
		{
			name:      "empty mode",
			mutate:    func(cfg *GlobalConfig) { cfg.Mode = "" },
			wantErr:   true,
			errSubstr: "required",
		},
		{
			name:      "bad log level",
			mutate:    func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" },
			wantErr:   true,
			errSubstr: "loglevel",
		},
		{
			name:      "bad log format",
			mutate:    func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" },
			wantErr:   true,
			errSubstr: "logformat",
		},
		{
			name:      "bad cron expression",
			mutate:    func(cfg *GlobalConfig) { cfg.SchedulerConfig.CronExpression = "every tuesday" },
			wantErr:   true,
			errSubstr: "cronexpr",
		},
		{
			name:   "five field cron expression",
			mutate: func(cfg *GlobalConfig) { cfg.SchedulerConfig.CronExpression = "*/15 * * * *" },
		},
		{
			name:   "quartz style cron expression with seconds",
			mutate: func(cfg *GlobalConfig) { cfg.SchedulerConfig.CronExpression = "30 0 8 * * *" },
		},
		{
			name:      "unsupported language",
			mutate:    func(cfg *GlobalConfig) { cfg.NotificationConfig.Language = "de" },
			wantErr:   true,
			errSubstr: "language",
		},
		{
			name:      "bad tls policy",
			mutate:    func(cfg *GlobalConfig) { cfg.NotificationConfig.Email.TLSPolicy = "always" },
			wantErr:   true,
			errSubstr: "tlspolicy",
		},
		{
			name: "email host without sender",
			mutate: func(cfg *GlobalConfig) {
				cfg.NotificationConfig.Email.Host = "smtp.example.com"
			},
			wantErr:   true,
			errSubstr: "required_with",
		},
		{
			name: "complete email settings",
			mutate: func(cfg *GlobalConfig) {
				cfg.NotificationConfig.Email.Host = "smtp.example.com"
				cfg.NotificationConfig.Email.From = "deals@example.com"
				cfg.NotificationConfig.Email.DefaultRecipient = "me@example.com"
			},
		},
		{
			name:      "invalid default recipient",
			mutate:    func(cfg *GlobalConfig) { cfg.NotificationConfig.Email.DefaultRecipient = "not-an-email" },
			wantErr:   true,
			errSubstr: "DefaultRecipient",
		},
		{
			name:      "invalid webhook",
			mutate:    func(cfg *GlobalConfig) { cfg.NotificationConfig.DiscordWebhookURL = "not a url" },
			wantErr:   true,
			errSubstr: "DiscordWebhookURL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	assert.Error(t, ValidateConfig(nil))
}
