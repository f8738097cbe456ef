package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Generative providers.
const (
	ProviderPollinations = "pollinations"
	ProviderGemini       = "gemini"
	ProviderSimulated    = "simulated" // chat answered by the simulated debugger
	ProviderChart        = "chart"     // images rendered locally
)

// ValidTextProviders lists providers that can answer text and chat.
var ValidTextProviders = []string{ProviderPollinations, ProviderGemini, ProviderSimulated}

// ValidImageProviders lists providers that can produce images.
var ValidImageProviders = []string{ProviderPollinations, ProviderGemini, ProviderChart}

// GenerativeConfig configures the third-party text/image API.
type GenerativeConfig struct {
	Provider      string `yaml:"provider"`       // text and chat
	ImageProvider string `yaml:"image_provider"` // visualizations
	APIKey        string `yaml:"api_key"`        // gemini only

	TextBaseURL  string `yaml:"text_base_url"`
	ImageBaseURL string `yaml:"image_base_url"`

	TextModel   string  `yaml:"text_model"`
	ChatModel   string  `yaml:"chat_model"`
	ImageModel  string  `yaml:"image_model"`
	GeminiModel string  `yaml:"gemini_model"`
	ImagenModel string  `yaml:"imagen_model"`
	Seed        int     `yaml:"seed"`
	Temperature float64 `yaml:"temperature"`
	JSONMode    bool    `yaml:"json_mode"`

	ImageWidth  int    `yaml:"image_width"`
	ImageHeight int    `yaml:"image_height"`
	NoLogo      bool   `yaml:"nologo"`
	Enhance     bool   `yaml:"enhance"`
	ImageDir    string `yaml:"image_dir"`
	CacheSize   int    `yaml:"cache_size"`

	Timeout string `yaml:"timeout"`
}

// DefaultGenerativeConfig returns the generative defaults.
func DefaultGenerativeConfig() GenerativeConfig {
	return GenerativeConfig{
		Provider:      ProviderPollinations,
		ImageProvider: ProviderPollinations,
		TextBaseURL:   "https://text.pollinations.ai",
		ImageBaseURL:  "https://image.pollinations.ai",
		TextModel:     "mistral-large",
		ChatModel:     "openai",
		ImageModel:    "flux",
		GeminiModel:   "gemini-2.5-flash",
		ImagenModel:   "imagen-3.0-generate-002",
		Seed:          42,
		Temperature:   0.7,
		ImageWidth:    800,
		ImageHeight:   400,
		NoLogo:        true,
		ImageDir:      filepath.Join(DefaultDir, "images"),
		CacheSize:     128,
		Timeout:       "60s",
	}
}

// Validate checks provider names and the gemini key.
func (g *GenerativeConfig) Validate() error {
	if !contains(ValidTextProviders, g.Provider) {
		return fmt.Errorf("invalid generative provider: %s (valid: %v)", g.Provider, ValidTextProviders)
	}
	if !contains(ValidImageProviders, g.ImageProvider) {
		return fmt.Errorf("invalid image provider: %s (valid: %v)", g.ImageProvider, ValidImageProviders)
	}
	if (g.Provider == ProviderGemini || g.ImageProvider == ProviderGemini) && g.APIKey == "" {
		return fmt.Errorf("gemini provider requires an API key (set GEMINI_API_KEY or GOOGLE_API_KEY)")
	}
	if g.ImageWidth <= 0 || g.ImageHeight <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", g.ImageWidth, g.ImageHeight)
	}
	return nil
}

// GetTimeout returns the per-request timeout.
func (g *GenerativeConfig) GetTimeout() time.Duration {
	return parseDuration(g.Timeout, 60*time.Second)
}
