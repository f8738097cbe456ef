package genapi

import (
	"context"
	"fmt"

	"modeltron/internal/config"
	"modeltron/internal/logging"
)

// Providers are the generative collaborators built from config.
// Text is nil when the configured provider is simulated.
type Providers struct {
	Text   TextGenerator
	Imager Imager
}

// NewFromConfig builds the text and image providers named in cfg.
func NewFromConfig(ctx context.Context, cfg config.GenerativeConfig) (*Providers, error) {
	var (
		poll   *PollinationsClient
		gemini *GeminiClient
	)
	pollinations := func() *PollinationsClient {
		if poll == nil {
			poll = NewPollinationsClient(PollinationsConfig{
				TextBaseURL:  cfg.TextBaseURL,
				ImageBaseURL: cfg.ImageBaseURL,
				Timeout:      cfg.GetTimeout(),
			})
		}
		return poll
	}
	geminiClient := func() (*GeminiClient, error) {
		if gemini != nil {
			return gemini, nil
		}
		var err error
		gemini, err = NewGeminiClient(ctx, GeminiConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.GeminiModel,
			ImageModel: cfg.ImagenModel,
			ImageDir:   cfg.ImageDir,
		})
		return gemini, err
	}

	p := &Providers{}

	switch cfg.Provider {
	case config.ProviderPollinations, "":
		p.Text = pollinations()
	case config.ProviderGemini:
		g, err := geminiClient()
		if err != nil {
			return nil, err
		}
		p.Text = g
	case config.ProviderSimulated:
		p.Text = nil
	default:
		return nil, fmt.Errorf("unknown text provider: %s", cfg.Provider)
	}

	var imager Imager
	switch cfg.ImageProvider {
	case config.ProviderPollinations, "":
		imager = pollinations()
	case config.ProviderGemini:
		g, err := geminiClient()
		if err != nil {
			return nil, err
		}
		imager = g
	case config.ProviderChart:
		imager = NewChartImager(cfg.ImageDir)
	default:
		return nil, fmt.Errorf("unknown image provider: %s", cfg.ImageProvider)
	}

	cached, err := NewCachedImager(imager, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	p.Imager = cached

	textName := "simulated"
	if p.Text != nil {
		textName = p.Text.Name()
	}
	logging.API("providers ready: text=%s image=%s", textName, imager.Name())
	return p, nil
}

// TextOptionsFor returns chat or analysis options from cfg.
func TextOptionsFor(cfg config.GenerativeConfig, chat bool) TextOptions {
	model := cfg.TextModel
	if chat {
		model = cfg.ChatModel
	}
	return TextOptions{
		Model:       model,
		Seed:        cfg.Seed,
		Temperature: cfg.Temperature,
		JSONMode:    cfg.JSONMode,
	}
}
