package localization

import (
	"context"
	"errors"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/nicksnyder/go-i18n/v2/i18n/template"
	"github.com/pitabwire/util"

	"github.com/greendam/greenframe/internal/msgformat"
)

// Catalog renders message codes for a locale. Positional "{0}" placeholders
// are filled from args; without args the stored template is returned as is.
type Catalog interface {
	Message(locale Locale, code string, args ...any) string
}

type Manager interface {
	Catalog
	Bundle() *i18n.Bundle
	DefaultLocale() Locale
	Resolver() *Resolver
	// Translate renders code in the locale carried by ctx, falling back to
	// the default locale.
	Translate(ctx context.Context, code string, args ...any) string
}

var _ Manager = new(managerImpl)

type managerImpl struct {
	bundle   *i18n.Bundle
	resolver *Resolver
}

func (m *managerImpl) Bundle() *i18n.Bundle {
	return m.bundle
}

func (m *managerImpl) DefaultLocale() Locale {
	return m.resolver.DefaultLocale()
}

func (m *managerImpl) Resolver() *Resolver {
	return m.resolver
}

func (m *managerImpl) Message(locale Locale, code string, args ...any) string {
	return m.render(context.Background(), locale, code, args)
}

func (m *managerImpl) Translate(ctx context.Context, code string, args ...any) string {
	return m.render(ctx, LocaleOrDefault(ctx, m.DefaultLocale()), code, args)
}

func (m *managerImpl) render(ctx context.Context, locale Locale, code string, args []any) string {
	localizer := i18n.NewLocalizer(m.bundle, locale.Tag().String(), m.DefaultLocale().Tag().String())

	text, err := localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: code, Other: code},
		TemplateParser: template.IdentityParser{},
	})
	if err != nil {
		var notFound *i18n.MessageNotFoundErr
		log := util.Log(ctx).WithField("code", code).WithField("locale", locale.String())
		if errors.As(err, &notFound) {
			log.Debug("message missing for locale, using fallback")
		} else {
			log.WithError(err).Warn("could not render message")
		}
		if text == "" {
			text = code
		}
	}

	if len(args) == 0 {
		return text
	}
	return msgformat.Indexed(text, args...)
}
