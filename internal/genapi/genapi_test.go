package genapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modeltron/internal/config"
	"modeltron/internal/metrics"
	"modeltron/internal/types"
)

// fakeText records the conversations it receives.
type fakeText struct {
	reply string
	err   error
	calls [][]Turn
}

func (f *fakeText) Name() string { return "fake" }

func (f *fakeText) Complete(_ context.Context, turns []Turn, _ TextOptions) (string, error) {
	f.calls = append(f.calls, append([]Turn(nil), turns...))
	return f.reply, f.err
}

// gatedText blocks in Complete until release delivers a result.
type gatedText struct {
	entered chan struct{}
	release chan gatedResult
}

type gatedResult struct {
	reply string
	err   error
}

func newGatedText() *gatedText {
	return &gatedText{entered: make(chan struct{}, 1), release: make(chan gatedResult)}
}

func (g *gatedText) Name() string { return "gated" }

func (g *gatedText) Complete(ctx context.Context, _ []Turn, _ TextOptions) (string, error) {
	g.entered <- struct{}{}
	select {
	case r := <-g.release:
		return r.reply, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type countingImager struct{ n atomic.Int32 }

func (c *countingImager) Name() string { return "counting" }

func (c *countingImager) Image(_ context.Context, req ImageRequest) (string, error) {
	c.n.Add(1)
	return "https://img.test/" + url.PathEscape(req.Prompt), nil
}

func TestPollinations_Complete(t *testing.T) {
	var got pollinationsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("  Model looks overfit.\n"))
	}))
	defer server.Close()

	client := NewPollinationsClient(PollinationsConfig{TextBaseURL: server.URL})
	client.httpClient = server.Client()

	reply, err := Generate(context.Background(), client, "system prompt", "hello", TextOptions{Model: "openai", Seed: 42, Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "Model looks overfit.", reply)

	want := pollinationsRequest{
		Messages: []Turn{
			{Role: types.RoleSystem, Content: "system prompt"},
			{Role: types.RoleUser, Content: "hello"},
		},
		Model:       "openai",
		Seed:        42,
		Temperature: 0.7,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestPollinations_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantMsg: "status 500"},
		{name: "blank body", status: http.StatusOK, body: "   ", wantErr: ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewPollinationsClient(PollinationsConfig{TextBaseURL: server.URL})
			client.httpClient = server.Client()

			_, err := Generate(context.Background(), client, "", "hi", TextOptions{})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestPollinations_ImageURL(t *testing.T) {
	t.Parallel()

	client := NewPollinationsClient(PollinationsConfig{ImageBaseURL: "https://image.test/"})
	u, err := client.Image(context.Background(), ImageRequest{
		Prompt: "bar chart of 90% accuracy",
		Width:  800, Height: 400, Seed: 42, Model: "flux", NoLogo: true,
	})
	require.NoError(t, err)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "image.test", parsed.Host)
	assert.Equal(t, "/prompt/bar chart of 90% accuracy", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "800", q.Get("width"))
	assert.Equal(t, "400", q.Get("height"))
	assert.Equal(t, "42", q.Get("seed"))
	assert.Equal(t, "flux", q.Get("model"))
	assert.Equal(t, "true", q.Get("nologo"))
	assert.Equal(t, "false", q.Get("enhance"))

	_, err = client.Image(context.Background(), ImageRequest{Prompt: "  "})
	assert.Error(t, err)
}

func TestChat_History(t *testing.T) {
	t.Parallel()

	gen := &fakeText{reply: "ack"}
	chat := NewChat(gen, "You are MODELTRON", TextOptions{})

	reply, err := chat.Send(context.Background(), "first")
	require.NoError(t, err)
	assert.Equal(t, "ack", reply)
	_, err = chat.Send(context.Background(), "second")
	require.NoError(t, err)

	want := []Turn{
		{Role: types.RoleSystem, Content: "You are MODELTRON"},
		{Role: types.RoleUser, Content: "first"},
		{Role: types.RoleAssistant, Content: "ack"},
		{Role: types.RoleUser, Content: "second"},
		{Role: types.RoleAssistant, Content: "ack"},
	}
	if diff := cmp.Diff(want, chat.Messages()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, gen.calls[1], 4, "provider sees the full conversation")

	chat.Reset()
	assert.Equal(t, want[:1], chat.Messages())
}

func TestChat_FailureRollsBack(t *testing.T) {
	t.Parallel()

	gen := &fakeText{err: errors.New("offline")}
	chat := NewChat(gen, "sys", TextOptions{})

	_, err := chat.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Len(t, chat.Messages(), 1)
}

func TestChat_ResetDuringSend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result gatedResult
	}{
		{name: "failed send keeps system prompt", result: gatedResult{err: errors.New("offline")}},
		{name: "late reply is discarded", result: gatedResult{reply: "stale reply"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := newGatedText()
			chat := NewChat(gen, "SYSTEM", TextOptions{})

			errCh := make(chan error, 1)
			go func() {
				_, err := chat.Send(context.Background(), "hello")
				errCh <- err
			}()
			<-gen.entered
			chat.Reset()
			gen.release <- tt.result

			assert.ErrorIs(t, <-errCh, ErrChatReset)
			want := []Turn{{Role: types.RoleSystem, Content: "SYSTEM"}}
			if diff := cmp.Diff(want, chat.Messages()); diff != "" {
				t.Errorf("history mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCachedImager(t *testing.T) {
	t.Parallel()

	inner := &countingImager{}
	cached, err := NewCachedImager(inner, 2)
	require.NoError(t, err)

	ctx := context.Background()
	a := ImageRequest{Prompt: "a", Seed: 42}
	u1, err := cached.Image(ctx, a)
	require.NoError(t, err)
	u2, err := cached.Image(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, u1, u2)
	assert.EqualValues(t, 1, inner.n.Load())

	// different options are a different key
	_, err = cached.Image(ctx, ImageRequest{Prompt: "a", Seed: 7})
	require.NoError(t, err)
	assert.EqualValues(t, 2, inner.n.Load())
	assert.Equal(t, 2, cached.Len())
}

func TestChartImager(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imager := NewChartImager(dir)
	m := types.DefaultMetrics()
	m.Accuracy, m.Precision = 80, 70

	u, err := imager.Image(context.Background(), ImageRequest{Kind: metrics.ChartLine, Metrics: m, Width: 400, Height: 200})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(u, "file://"), u)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	data, err := os.ReadFile(parsed.Path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestAspectRatio(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "16:9", aspectRatio(800, 400))
	assert.Equal(t, "1:1", aspectRatio(512, 512))
	assert.Equal(t, "9:16", aspectRatio(400, 800))
	assert.Equal(t, "16:9", aspectRatio(0, 0))
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := config.DefaultGenerativeConfig()
	p, err := NewFromConfig(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &PollinationsClient{}, p.Text)
	assert.Equal(t, "pollinations", p.Imager.Name())

	cfg.Provider = config.ProviderSimulated
	cfg.ImageProvider = config.ProviderChart
	cfg.ImageDir = t.TempDir()
	p, err = NewFromConfig(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, p.Text)
	assert.Equal(t, "chart", p.Imager.Name())

	cfg.Provider = config.ProviderGemini
	cfg.APIKey = ""
	_, err = NewFromConfig(ctx, cfg)
	assert.Error(t, err, "gemini needs a key")

	cfg.Provider = "bogus"
	_, err = NewFromConfig(ctx, cfg)
	assert.Error(t, err)
}

func TestTextOptionsFor(t *testing.T) {
	t.Parallel()
	cfg := config.DefaultGenerativeConfig()
	assert.Equal(t, TextOptions{Model: "openai", Seed: 42, Temperature: 0.7}, TextOptionsFor(cfg, true))
	assert.Equal(t, "mistral-large", TextOptionsFor(cfg, false).Model)
}
