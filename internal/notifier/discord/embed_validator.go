package discord

import (
	"fmt"
	"unicode/utf8"

	"github.com/aleister1102/dealnotifier/internal/common"
)

// Discord embed limits, counted in characters.
const (
	maxTitleLength       = 256
	maxDescriptionLength = 4096
	maxFields            = 25
	maxFieldNameLength   = 256
	maxFieldValueLength  = 1024
	maxFooterTextLength  = 2048
)

// DiscordEmbedValidator validates Discord embed objects
type DiscordEmbedValidator struct{}

func NewDiscordEmbedValidator() *DiscordEmbedValidator {
	return &DiscordEmbedValidator{}
}

// ValidateEmbed checks the embed against Discord's documented limits.
func (dev *DiscordEmbedValidator) ValidateEmbed(embed DiscordEmbed) error {
	if utf8.RuneCountInString(embed.Title) > maxTitleLength {
		return common.NewValidationError("title", embed.Title, "title cannot exceed 256 characters")
	}
	if utf8.RuneCountInString(embed.Description) > maxDescriptionLength {
		return common.NewValidationError("description", len(embed.Description), "description cannot exceed 4096 characters")
	}
	if len(embed.Fields) > maxFields {
		return common.NewValidationError("fields", len(embed.Fields), "cannot have more than 25 fields")
	}

	for i, field := range embed.Fields {
		if field.Name == "" {
			return common.NewValidationError("field_name", field.Name, fmt.Sprintf("field %d name cannot be empty", i))
		}
		if field.Value == "" {
			return common.NewValidationError("field_value", field.Value, fmt.Sprintf("field %d value cannot be empty", i))
		}
		if utf8.RuneCountInString(field.Name) > maxFieldNameLength {
			return common.NewValidationError("field_name", field.Name, fmt.Sprintf("field %d name cannot exceed 256 characters", i))
		}
		if utf8.RuneCountInString(field.Value) > maxFieldValueLength {
			return common.NewValidationError("field_value", len(field.Value), fmt.Sprintf("field %d value cannot exceed 1024 characters", i))
		}
	}

	if embed.Footer != nil && utf8.RuneCountInString(embed.Footer.Text) > maxFooterTextLength {
		return common.NewValidationError("footer_text", embed.Footer.Text, "footer text cannot exceed 2048 characters")
	}
	return nil
}
