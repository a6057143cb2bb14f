// Package translate provides a blocking machine translation client used to
// localize admin-entered content into the non-Uzbek languages.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"telegram-quiz-bot/internal/model"
)

// Translator maps (text, target language) to translated text.
// Implementations block for the round trip; callers are expected to
// degrade to the source text on error.
type Translator interface {
	Translate(ctx context.Context, text string, target model.Language) (string, error)
}

// langCodes maps UI languages to translation API language codes.
// Uzbek is the source language and is never sent for translation.
var langCodes = map[model.Language]string{
	model.LangRU: "ru",
	model.LangAR: "ar",
	model.LangEN: "en",
}

// GoogleTranslator calls the public Google translate endpoint.
type GoogleTranslator struct {
	endpoint string
	client   *http.Client
}

// NewGoogleTranslator creates a translator against the given endpoint.
func NewGoogleTranslator(endpoint string, timeout time.Duration) *GoogleTranslator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GoogleTranslator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Translate translates text into the target language. Uzbek and empty
// input are returned unchanged without a network call.
func (g *GoogleTranslator) Translate(ctx context.Context, text string, target model.Language) (string, error) {
	if strings.TrimSpace(text) == "" || target == model.LangUZ {
		return text, nil
	}

	code, ok := langCodes[target]
	if !ok {
		return text, nil
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", code)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build translate request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translate response: %w", err)
	}

	translated, err := parseResponse(body)
	if err != nil {
		return "", err
	}
	return translated, nil
}

// parseResponse extracts the translated text from the endpoint's nested
// array payload: [[["translated","source",...],...],...]. Long inputs are
// split across several segments which are concatenated in order.
func parseResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translate response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("translate response contained no text")
	}
	return b.String(), nil
}

// OrFallback translates text and substitutes the source text on any
// failure. Failures are logged and never propagated to users.
func OrFallback(ctx context.Context, tr Translator, text string, target model.Language) string {
	translated, err := tr.Translate(ctx, text, target)
	if err != nil {
		log.Warn().
			Err(err).
			Str("target", string(target)).
			Msg("Translation failed, using source text")
		return text
	}
	return translated
}

// Localize fills a LocalizedText from Uzbek source text, translating into
// the three remaining languages with per-language fallback.
func Localize(ctx context.Context, tr Translator, sourceUZ string) model.LocalizedText {
	return model.LocalizedText{
		UZ: sourceUZ,
		RU: OrFallback(ctx, tr, sourceUZ, model.LangRU),
		AR: OrFallback(ctx, tr, sourceUZ, model.LangAR),
		EN: OrFallback(ctx, tr, sourceUZ, model.LangEN),
	}
}
