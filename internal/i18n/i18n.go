package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-cycle/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
	listSep      = ","
)

// Translator resolves user-facing strings for one language.
type Translator struct {
	Bundle    *goi18n.Bundle
	Localizer *goi18n.Localizer
	Lang      string

	// SupportedLanguages lists the locale files found in the embedded FS.
	SupportedLanguages []string
}

// New loads every embedded locale and selects lang (falling back to English).
func New(lang string) *Translator {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{Bundle: bundle}

	files, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		t.SetLanguage(lang)
		return t
	}

	for _, f := range files {
		name := f.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.SupportedLanguages = append(t.SupportedLanguages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	t.SetLanguage(lang)
	return t
}

// SetLanguage switches the active localizer.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.Lang = lang
	t.Localizer = goi18n.NewLocalizer(t.Bundle, lang, config.DefaultLanguage)
}

// Msg translates key, returning the key itself when no translation exists.
func (t *Translator) Msg(key string) string {
	return t.localize(&goi18n.LocalizeConfig{MessageID: key})
}

// MsgData translates key with template data.
func (t *Translator) MsgData(key string, data map[string]any) string {
	return t.localize(&goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// Plural translates key with a plural count, exposed to the template as .Count.
func (t *Translator) Plural(key string, count int) string {
	return t.localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	})
}

// List translates a comma separated message into its items.
func (t *Translator) List(key string, want int) []string {
	items := strings.Split(t.Msg(key), listSep)
	if len(items) != want {
		return nil
	}
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items
}

func (t *Translator) localize(cfg *goi18n.LocalizeConfig) string {
	if t == nil || t.Localizer == nil {
		return cfg.MessageID
	}
	msg, err := t.Localizer.Localize(cfg)
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, cfg.MessageID,
			config.LogKeyError, fmt.Sprint(err),
		)
		return cfg.MessageID
	}
	return msg
}
