// Package translate provides per-message translation with a deterministic
// mock fallback when no real provider is available.
package translate

import (
	"context"
	"fmt"
	"strings"

	"emergency-alert-service/internal/logging"
)

// Provider is a real translation backend. It receives the upper-cased target
// language code and may fail; the Gateway absorbs those failures.
type Provider interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Gateway translates text into a target language. Its Translate never fails:
// without a provider, or when the provider errors, it falls back to a
// deterministic mock translation that preserves the original text.
type Gateway struct {
	provider Provider
	logger   *logging.Logger
}

func NewGateway(provider Provider, logger *logging.Logger) *Gateway {
	return &Gateway{provider: provider, logger: logger}
}

func (g *Gateway) Translate(ctx context.Context, text, targetLang string) string {
	if g.provider == nil {
		g.logger.Warnf("Translator not initialized, using mock translation for %q", targetLang)
		return MockTranslation(text, targetLang)
	}

	out, err := g.provider.Translate(ctx, text, strings.ToUpper(targetLang))
	if err != nil {
		g.logger.Warnf("Translation to %q failed, falling back to mock: %v", targetLang, err)
		return MockTranslation(text, targetLang)
	}
	return out
}

// MockTranslation is the deterministic placeholder used when real
// translation is unavailable. The original text is kept for traceability.
func MockTranslation(text, targetLang string) string {
	switch strings.ToLower(targetLang) {
	case "es":
		return "[MOCK SPANISH] " + text
	case "fr":
		return "[MOCK FRENCH] " + text
	case "hi":
		return "[MOCK HINDI] " + text
	case "zh":
		return "[MOCK MANDARIN] " + text
	}
	return fmt.Sprintf("[%s MOCK TRANSLATION] %s", strings.ToUpper(targetLang), text)
}
