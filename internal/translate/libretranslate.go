package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

const (
	libreRequestTimeout = 20 * time.Second
	libreMaxRetries     = 3
	libreInitialBackoff = 1 * time.Second
)

var (
	libreInstance *LibreTranslator
	libreOnce     sync.Once
)

// LibreTranslator posts to a LibreTranslate endpoint. The endpoint comes
// from LIBRETRANSLATE_URL; the API key is optional for self-hosted instances.
type LibreTranslator struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format,omitempty"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
}

func GetLibreTranslator() *LibreTranslator {
	libreOnce.Do(func() {
		endpoint := os.Getenv("LIBRETRANSLATE_URL")
		if endpoint == "" {
			endpoint = "http://localhost:5000/translate"
		}

		libreInstance = &LibreTranslator{
			client:   &http.Client{Timeout: libreRequestTimeout},
			endpoint: endpoint,
			apiKey:   os.Getenv("LIBRETRANSLATE_API_KEY"),
		}
		slog.Info("[LibreTranslator] Client initialized",
			slog.String("endpoint", endpoint),
			slog.Duration("timeout", libreRequestTimeout))
	})
	return libreInstance
}

func (t *LibreTranslator) Translate(ctx context.Context, text string, sourceLang string) (string, error) {
	body, err := json.Marshal(libreRequest{
		Q:      text,
		Source: sourceLang,
		Target: "en",
		Format: "text",
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %v", ErrTranslationUnavailable, err)
	}

	resp, err := t.doWithRetry(ctx, body)
	if err != nil {
		slog.Error("[LibreTranslator] Request failed after retries",
			slog.String("source_lang", sourceLang),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrTranslationUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrTranslationUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrTranslationUnavailable, resp.StatusCode)
	}

	var result libreResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: unmarshaling response: %v", ErrTranslationUnavailable, err)
	}
	if result.TranslatedText == "" {
		return "", fmt.Errorf("%w: empty translation", ErrTranslationUnavailable)
	}

	return result.TranslatedText, nil
}

func (t *LibreTranslator) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := libreInitialBackoff

	for attempt := 0; attempt < libreMaxRetries; attempt++ {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = t.client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		slog.Warn("[LibreTranslator] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		time.Sleep(backoff)
		backoff *= 2
	}

	if err == nil {
		err = fmt.Errorf("status %d after %d attempts", resp.StatusCode, libreMaxRetries)
	}
	return nil, err
}

// HealthCheck probes the endpoint so the consumer can pause translation work
// while the service is down.
func (t *LibreTranslator) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 500
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return "unknown error"
}
