package discord

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordEmbedBuilder_Build(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	embed, err := NewDiscordEmbedBuilder().
		WithTitle("Deal found!").
		WithDescription("A deal is available for Widget").
		WithURL("https://shop.example/dp/1").
		WithTimestamp(ts).
		WithColor(0x00FF00).
		AddField("Product page", "https://shop.example/dp/1", false).
		WithFooter("Deal Notifier", "").
		Build()

	require.NoError(t, err)
	assert.Equal(t, "Deal found!", embed.Title)
	assert.Equal(t, "https://shop.example/dp/1", embed.URL)
	assert.Equal(t, "2024-03-01T09:00:00Z", embed.Timestamp)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Deal Notifier", embed.Footer.Text)
}

func TestDiscordEmbedBuilder_Truncates(t *testing.T) {
	embed, err := NewDiscordEmbedBuilder().
		WithTitle("t").
		WithDescription(strings.Repeat("é", 5000)).
		AddField("long", strings.Repeat("x", 2000), false).
		Build()

	require.NoError(t, err)
	assert.Equal(t, maxDescriptionLength, utf8.RuneCountInString(embed.Description))
	assert.True(t, strings.HasSuffix(embed.Description, "…"))
	assert.Equal(t, maxFieldValueLength, utf8.RuneCountInString(embed.Fields[0].Value))
}

func TestDiscordEmbedBuilder_ValidationErrors(t *testing.T) {
	_, err := NewDiscordEmbedBuilder().WithTitle(strings.Repeat("x", 300)).Build()
	assert.Error(t, err)

	_, err = NewDiscordEmbedBuilder().AddField("", "value", false).Build()
	assert.Error(t, err)

	_, err = NewDiscordEmbedBuilder().AddField("name", "", false).Build()
	assert.Error(t, err)
}

func TestDiscordMessagePayloadBuilder(t *testing.T) {
	embed := DiscordEmbed{Title: "x"}
	payload := NewDiscordMessagePayloadBuilder().
		WithUsername("Deal Notifier").
		WithContent("hello").
		AddEmbed(embed).
		Build()

	assert.Equal(t, "Deal Notifier", payload.Username)
	assert.Equal(t, "hello", payload.Content)
	assert.Equal(t, []DiscordEmbed{embed}, payload.Embeds)
}
