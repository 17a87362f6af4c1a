package ai

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/craftfolio/api/pkg/logger"
)

// Abilities wraps the provider with the product-facing text helpers. Each
// ability returns its zero value on provider failure so callers can always
// render something.
type Abilities struct {
	client Completer
	log    *logger.Logger
}

func NewAbilities(client Completer, log *logger.Logger) *Abilities {
	return &Abilities{client: client, log: log}
}

// Tone values accepted by RewriteText.
var RewriteTones = []string{"professional", "confident", "friendly", "concise"}

// RewriteText rewrites text in the requested tone. An unknown tone falls back
// to professional. Returns "" when the provider fails.
func (a *Abilities) RewriteText(ctx context.Context, text, tone string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	valid := false
	for _, t := range RewriteTones {
		if t == tone {
			valid = true
			break
		}
	}
	if !valid {
		tone = "professional"
	}

	out, err := a.client.Complete(ctx, Request{
		System: "You rewrite portfolio and resume text. Respond with the rewritten text only, no preamble and no quotes.",
		User:   "Rewrite the following in a " + tone + " tone:\n\n" + text,
	})
	if err != nil {
		a.log.Warn(ctx).WithFields("error", err.Error()).Logs("Rewrite ability degraded to empty result")
		return ""
	}
	return strings.TrimSpace(out)
}

// SummarizeText condenses text to at most maxSentences sentences. Returns ""
// when the provider fails.
func (a *Abilities) SummarizeText(ctx context.Context, text string, maxSentences int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if maxSentences <= 0 || maxSentences > 10 {
		maxSentences = 3
	}

	out, err := a.client.Complete(ctx, Request{
		System: "You summarize professional background text. Respond with the summary only.",
		User:   "Summarize the following in at most " + strconv.Itoa(maxSentences) + " sentences:\n\n" + text,
	})
	if err != nil {
		a.log.Warn(ctx).WithFields("error", err.Error()).Logs("Summarize ability degraded to empty result")
		return ""
	}
	return strings.TrimSpace(out)
}

// SuggestTags proposes short tag names for a certification title and issuer.
// Returns an empty slice when the provider fails or replies with something
// that is not a JSON string array.
func (a *Abilities) SuggestTags(ctx context.Context, title, issuer string) []string {
	if strings.TrimSpace(title) == "" {
		return []string{}
	}

	prompt := "Suggest up to 5 short lowercase tags for this certification. Respond with a JSON array of strings and nothing else.\n\nTitle: " + title
	if issuer != "" {
		prompt += "\nIssuer: " + issuer
	}

	out, err := a.client.Complete(ctx, Request{
		System: "You label certifications with topic tags. Respond with a JSON array of strings only.",
		User:   prompt,
	})
	if err != nil {
		a.log.Warn(ctx).WithFields("error", err.Error()).Logs("Tag suggestion degraded to empty result")
		return []string{}
	}

	var tags []string
	if err := json.Unmarshal([]byte(stripCodeFence(out)), &tags); err != nil {
		a.log.Warn(ctx).WithFields("raw", out).Logs("Tag suggestion returned unparseable output")
		return []string{}
	}

	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && len(t) <= 40 {
			cleaned = append(cleaned, t)
		}
		if len(cleaned) == 5 {
			break
		}
	}
	return cleaned
}

// stripCodeFence unwraps ```json ... ``` style wrapping some models add
// around structured output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
