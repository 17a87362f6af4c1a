package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/craftfolio/api/internal/config"
	"github.com/craftfolio/api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter scripts provider replies without a network.
type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, req Request) (string, error) {
	f.calls++
	return f.reply, f.err
}

func testAbilities(t *testing.T, client Completer) *Abilities {
	t.Helper()
	log, err := logger.NewLogger(logger.WithOutputDir(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return NewAbilities(client, log)
}

func TestRewriteTextReturnsReply(t *testing.T) {
	a := testAbilities(t, &fakeCompleter{reply: "  Polished text.  "})
	assert.Equal(t, "Polished text.", a.RewriteText(context.Background(), "rough text", "professional"))
}

func TestRewriteTextDegradesOnProviderFailure(t *testing.T) {
	a := testAbilities(t, &fakeCompleter{err: errors.New("provider down")})
	assert.Equal(t, "", a.RewriteText(context.Background(), "rough text", "confident"))
}

func TestRewriteTextSkipsEmptyInput(t *testing.T) {
	fake := &fakeCompleter{reply: "never used"}
	a := testAbilities(t, fake)
	assert.Equal(t, "", a.RewriteText(context.Background(), "   ", "friendly"))
	assert.Zero(t, fake.calls)
}

func TestSummarizeTextDegradesOnProviderFailure(t *testing.T) {
	a := testAbilities(t, &fakeCompleter{err: errors.New("timeout")})
	assert.Equal(t, "", a.SummarizeText(context.Background(), "long background text", 3))
}

func TestSuggestTagsParsesJSONArray(t *testing.T) {
	a := testAbilities(t, &fakeCompleter{reply: `["cloud","aws","architecture"]`})
	assert.Equal(t, []string{"cloud", "aws", "architecture"}, a.SuggestTags(context.Background(), "AWS Solutions Architect", "Amazon"))
}

func TestSuggestTagsUnwrapsCodeFences(t *testing.T) {
	a := testAbilities(t, &fakeCompleter{reply: "```json\n[\"kubernetes\", \"DevOps\"]\n```"})
	assert.Equal(t, []string{"kubernetes", "devops"}, a.SuggestTags(context.Background(), "CKA", ""))
}

func TestSuggestTagsDegradesOnMalformedOutput(t *testing.T) {
	a := testAbilities(t, &fakeCompleter{reply: "Sure! Here are some tags: cloud, aws"})
	assert.Empty(t, a.SuggestTags(context.Background(), "AWS Solutions Architect", "Amazon"))
}

func TestSuggestTagsCapsAtFive(t *testing.T) {
	a := testAbilities(t, &fakeCompleter{reply: `["a","b","c","d","e","f","g"]`})
	assert.Len(t, a.SuggestTags(context.Background(), "Big cert", ""), 5)
}

func TestExtractResumeDegradesOnMalformedOutput(t *testing.T) {
	a := testAbilities(t, &fakeCompleter{reply: "I could not parse that resume."})
	profile := a.ExtractResume(context.Background(), "John Doe, software engineer since 2015")
	assert.Equal(t, ResumeProfile{}, profile)
}

func TestExtractResumeParsesProfile(t *testing.T) {
	a := testAbilities(t, &fakeCompleter{reply: `{"name":"Jane Doe","headline":"Backend Engineer","summary":"Ten years of Go.","skills":["go","postgres"]}`})
	profile := a.ExtractResume(context.Background(), "Jane Doe...")
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, []string{"go", "postgres"}, profile.Skills)
}

func TestClientCompleteAgainstFakeProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.AIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: srv.URL})
	out, err := client.Complete(context.Background(), Request{User: "say hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestClientRetriesTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"finally"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
	out, err := client.Complete(context.Background(), Request{User: "try again"})
	require.NoError(t, err)
	assert.Equal(t, "finally", out)
	assert.Equal(t, 3, attempts)
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad request"}}`))
	}))
	defer srv.Close()

	client := NewClient(config.AIConfig{APIKey: "test-key", BaseURL: srv.URL})
	_, err := client.Complete(context.Background(), Request{User: "oops"})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
