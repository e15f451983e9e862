// Package translate defines the external translation collaborator and its
// OpenAI- and LibreTranslate-backed implementations.
package translate

import (
	"context"
	"errors"
	"os"
)

// ErrTranslationUnavailable is a per-record failure: the record is omitted
// from the successful output and listed as failed in the final report. It
// never aborts the batch.
var ErrTranslationUnavailable = errors.New("translation unavailable")

// Translator converts feedback text from sourceLang to English.
// Implementations must honor ctx cancellation; a timeout is reported as
// ErrTranslationUnavailable.
type Translator interface {
	Translate(ctx context.Context, text string, sourceLang string) (string, error)
}

// FromEnv picks the backing service: TRANSLATOR=openai selects the chat
// completions translator, anything else the LibreTranslate client.
func FromEnv() Translator {
	if os.Getenv("TRANSLATOR") == "openai" {
		return GetOpenAITranslator()
	}
	return GetLibreTranslator()
}

// Func adapts a plain function into a Translator, mostly for tests.
type Func func(ctx context.Context, text string, sourceLang string) (string, error)

func (f Func) Translate(ctx context.Context, text string, sourceLang string) (string, error) {
	return f(ctx, text, sourceLang)
}
