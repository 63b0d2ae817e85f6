package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DeepLProvider calls the DeepL REST API. Language codes are passed through
// upper-cased by the Gateway, which matches what DeepL expects.
type DeepLProvider struct {
	http   *resty.Client
	url    string
	apiKey string
}

func NewDeepLProvider(url, apiKey string) *DeepLProvider {
	return &DeepLProvider{
		http:   resty.New().SetTimeout(10 * time.Second),
		url:    url,
		apiKey: apiKey,
	}
}

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

func (p *DeepLProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "DeepL-Auth-Key "+p.apiKey).
		SetFormData(map[string]string{
			"text":        text,
			"target_lang": targetLang,
		}).
		Post(p.url)
	if err != nil {
		return "", fmt.Errorf("deepl request failed: %w", err)
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		return "", fmt.Errorf("deepl authorization failed: status %d", resp.StatusCode())
	}
	if resp.IsError() {
		return "", fmt.Errorf("deepl returned status %d", resp.StatusCode())
	}

	var body deeplResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("deepl response parse failed: %w", err)
	}
	if len(body.Translations) == 0 {
		return "", fmt.Errorf("deepl returned no translations")
	}
	return body.Translations[0].Text, nil
}
