// Package messages holds the user-facing strings shown on the console and in
// notifications, in English and Italian.
package messages

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyBanner             = "banner"
	KeyConfigError        = "config.error"
	KeyRunFailed          = "run.failed"
	KeyRunSummary         = "run.summary"
	KeyRunCancelled       = "run.cancelled"
	KeyDealTitle          = "deal.title"
	KeyDealDescription    = "deal.description"
	KeyDealFieldPage      = "deal.field.page"
	KeyDealFieldRecipient = "deal.field.recipient"
	KeyDealDefaultRecip   = "deal.default_recipient"
	KeyDealFooter         = "deal.footer"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		KeyBanner:             "Deal notifier starting in %s mode",
		KeyConfigError:        "Configuration error: %v",
		KeyRunFailed:          "Run failed: %v",
		KeyRunSummary:         "Run %s finished: %d checked, %d deals, %d skipped",
		KeyRunCancelled:       "Run %s interrupted after %d of %d products",
		KeyDealTitle:          "Deal found!",
		KeyDealDescription:    "A deal is available for %s",
		KeyDealFieldPage:      "Product page",
		KeyDealFieldRecipient: "Recipient",
		KeyDealDefaultRecip:   "default recipient",
		KeyDealFooter:         "Deal Notifier",
	},
	language.Italian: {
		KeyBanner:             "Deal notifier avviato in modalità %s",
		KeyConfigError:        "Errore di configurazione: %v",
		KeyRunFailed:          "Esecuzione fallita: %v",
		KeyRunSummary:         "Esecuzione %s terminata: %d controllati, %d offerte, %d saltati",
		KeyRunCancelled:       "Esecuzione %s interrotta dopo %d di %d prodotti",
		KeyDealTitle:          "Offerta trovata!",
		KeyDealDescription:    "È disponibile un'offerta per %s",
		KeyDealFieldPage:      "Pagina prodotto",
		KeyDealFieldRecipient: "Destinatario",
		KeyDealDefaultRecip:   "destinatario predefinito",
		KeyDealFooter:         "Deal Notifier",
	},
}

var (
	supported = []language.Tag{language.English, language.Italian}
	matcher   = language.NewMatcher(supported)
	cat       = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Messages formats keys for one language.
type Messages struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns messages for lang, a BCP 47 tag such as "it" or "en-US".
// Unknown or unsupported languages fall back to English.
func New(lang string) *Messages {
	tag := language.English
	if parsed, err := language.Parse(strings.TrimSpace(lang)); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Messages{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Language returns the selected language.
func (m *Messages) Language() language.Tag {
	return m.tag
}

// Get formats the message for key with args.
func (m *Messages) Get(key string, args ...interface{}) string {
	return m.printer.Sprintf(key, args...)
}
