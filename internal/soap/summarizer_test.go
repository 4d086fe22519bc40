package soap

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalmedics/transcript-summarizer/internal/apperror"
	"github.com/globalmedics/transcript-summarizer/internal/llm"
	"github.com/globalmedics/transcript-summarizer/internal/llm/llmtest"
	"github.com/globalmedics/transcript-summarizer/internal/metrics"
)

const transcript = "Doctor: How are you? Patient: Fine."

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(transcript)

	assert.Contains(t, prompt, "interpret the spoken conversation "+transcript)
	assert.NotContains(t, prompt, transcriptPlaceholder)
	for _, section := range []string{"Subjective:", "Objective:", "Assessment:", "Plan:"} {
		assert.Contains(t, prompt, section)
	}
	assert.Contains(t, prompt, "Repeat this validation twice")
}

func TestBuildPromptKeepsTranscriptVerbatim(t *testing.T) {
	raw := "Patient: it's 100% {{transcript}} <b>bad</b>\n\tDoctor: %s"
	prompt := BuildPrompt(raw)

	assert.Contains(t, prompt, raw)
	assert.Equal(t, 1, strings.Count(prompt, raw))
}

func TestBuildPromptKeepsTemplateWhitespace(t *testing.T) {
	prompt := BuildPrompt(transcript)

	assert.True(t, strings.HasPrefix(prompt, "\n              You are an AI assistant to a doctor."))
	assert.True(t, strings.HasSuffix(prompt, "hallucinating. \n              "))
	assert.Contains(t, prompt, transcript+" \n              between the doctor")
	assert.Contains(t, prompt, "provide the following,  if available: ")
	assert.Contains(t, prompt, "reported by the patient  (e.g.")
}

func TestSummarize(t *testing.T) {
	provider := &llmtest.Provider{
		Content: "Subjective:\n- Feels fine",
		Usage:   llm.Usage{PromptTokens: 800, CompletionTokens: 50, TotalTokens: 850},
	}
	m := metrics.New(prometheus.NewRegistry())
	s := New(provider, WithMetrics(m))

	resp, err := s.Summarize(context.Background(), transcript)
	require.NoError(t, err)
	assert.Equal(t, "Subjective:\n- Feels fine", resp.Conversation)

	requests := provider.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, SystemPrompt, req.SystemMessage)
	assert.Contains(t, req.UserMessage, transcript)
	assert.Equal(t, int64(3000), req.MaxTokens)
	assert.Equal(t, 0.2, req.Temperature)
	assert.Equal(t, 0.95, req.TopP)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Summaries.WithLabelValues("success")))
	assert.Equal(t, float64(800), testutil.ToFloat64(m.Tokens.WithLabelValues("prompt")))
}

func TestSummarizeUpstreamError(t *testing.T) {
	cause := errors.New("401 Unauthorized")
	s := New(&llmtest.Provider{Err: cause})

	_, err := s.Summarize(context.Background(), transcript)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperror.KindUpstream, apperror.KindOf(err))
	assert.Equal(t, "model provider request failed", apperror.PublicMessage(err))
}

func TestSummarizeTimeout(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	s := New(&llmtest.Provider{Block: true}, WithTimeout(20*time.Millisecond), WithMetrics(m))

	_, err := s.Summarize(context.Background(), transcript)
	require.Error(t, err)
	assert.Equal(t, apperror.KindTimeout, apperror.KindOf(err))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Summaries.WithLabelValues("timeout")))
}

func TestSummarizeCallerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(&llmtest.Provider{Block: true})
	_, err := s.Summarize(ctx, transcript)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestSplitDuration(t *testing.T) {
	h, m, sec := splitDuration(time.Hour + 2*time.Minute + 3*time.Second + 400*time.Millisecond)
	assert.Equal(t, []int{1, 2, 3}, []int{h, m, sec})
}
