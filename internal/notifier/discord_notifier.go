package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aleister1102/dealnotifier/internal/httpclient"
	"github.com/aleister1102/dealnotifier/internal/messages"
	"github.com/aleister1102/dealnotifier/internal/notifier/discord"
	"github.com/rs/zerolog"
)

// DiscordSender posts deal alerts to a Discord webhook as an embed.
type DiscordSender struct {
	webhookURL string
	client     *httpclient.HTTPClient
	messages   *messages.Messages
	logger     zerolog.Logger
	now        func() time.Time
}

// NewDiscordSender validates the webhook URL. client should carry a retry handler for 429 and 5xx.
func NewDiscordSender(webhookURL string, client *httpclient.HTTPClient, msgs *messages.Messages, logger zerolog.Logger) (*DiscordSender, error) {
	if _, err := url.ParseRequestURI(webhookURL); err != nil {
		return nil, fmt.Errorf("invalid Discord webhook URL: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("discord sender requires an HTTP client")
	}
	if msgs == nil {
		msgs = messages.New("")
	}
	return &DiscordSender{
		webhookURL: webhookURL,
		client:     client,
		messages:   msgs,
		logger:     logger.With().Str("component", "DiscordSender").Logger(),
		now:        time.Now,
	}, nil
}

// NewDiscordHTTPClient builds the retrying client used for webhook calls.
func NewDiscordHTTPClient(logger zerolog.Logger) (*httpclient.HTTPClient, error) {
	return httpclient.NewHTTPClientBuilder(logger).
		WithConnectTimeout(10 * time.Second).
		WithReadTimeout(20 * time.Second).
		WithTimeout(30 * time.Second).
		WithRetry(httpclient.DefaultRetryHandlerConfig()).
		Build()
}

// Send posts the embed and fails on any non-2xx answer.
func (ds *DiscordSender) Send(ctx context.Context, n Notification) error {
	payload, err := ds.buildPayload(n)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	resp, err := ds.client.Do(&httpclient.HTTPRequest{
		URL:     ds.webhookURL,
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
		Context: ctx,
	})
	if err != nil {
		return fmt.Errorf("failed to send discord notification: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord notification failed: %w",
			httpclient.NewHTTPErrorWithURL(resp.StatusCode, string(resp.Body), ds.webhookURL))
	}

	ds.logger.Debug().Int("status_code", resp.StatusCode).Str("url", n.URL).Msg("Discord notification delivered")
	return nil
}

func (ds *DiscordSender) buildPayload(n Notification) (discord.DiscordMessagePayload, error) {
	pageURL := n.URL
	if pageURL == "" {
		pageURL = n.Body
	}
	name := n.Title
	if name == "" {
		name = pageURL
	}
	recipient := n.Recipient
	if recipient == "" {
		recipient = ds.messages.Get(messages.KeyDealDefaultRecip)
	}

	embed, err := discord.NewDiscordEmbedBuilder().
		WithTitle(ds.messages.Get(messages.KeyDealTitle)).
		WithDescription(ds.messages.Get(messages.KeyDealDescription, name)).
		WithURL(pageURL).
		WithColor(DealEmbedColor).
		WithTimestamp(ds.now()).
		AddField(ds.messages.Get(messages.KeyDealFieldPage), pageURL, false).
		AddField(ds.messages.Get(messages.KeyDealFieldRecipient), recipient, true).
		WithFooter(ds.messages.Get(messages.KeyDealFooter), "").
		Build()
	if err != nil {
		return discord.DiscordMessagePayload{}, err
	}

	return discord.NewDiscordMessagePayloadBuilder().
		WithUsername(DiscordUsername).
		AddEmbed(embed).
		Build(), nil
}
