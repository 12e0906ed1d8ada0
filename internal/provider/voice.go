package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/elevenlabs"
)

const scriptSystemPrompt = "You write concise, warm phone scripts for medical receptionists. " +
	"Respond with only the script text, no preamble."

// elevenLabsVoice creates an ElevenLabs conversational agent per practice,
// with the agent prompt drafted by Claude when an Anthropic key is present.
type elevenLabsVoice struct {
	el      elevenlabs.Client
	llm     anthropic.Client
	model   string
	voiceID string
}

// NewElevenLabsVoice creates a VoiceProvider backed by ElevenLabs. llm may be
// nil; the agent then uses a templated script. A nil el client produces an
// unconfigured provider that always reports unavailable.
func NewElevenLabsVoice(el elevenlabs.Client, llm anthropic.Client, llmModel, voiceID string) VoiceProvider {
	return &elevenLabsVoice{el: el, llm: llm, model: llmModel, voiceID: voiceID}
}

func (v *elevenLabsVoice) Name() string { return "elevenlabs" }

func (v *elevenLabsVoice) Synthesize(ctx context.Context, practice *model.PracticeData) (*model.VoiceRef, error) {
	if v.el == nil {
		return nil, Unavailable(v.Name(), "no api key configured")
	}

	script := v.draftScript(ctx, practice)

	req := elevenlabs.CreateAgentRequest{
		Name: practice.PracticeID() + "-agent",
		ConversationConfig: elevenlabs.ConversationConfig{
			Agent: elevenlabs.AgentConfig{
				Prompt:       elevenlabs.PromptConfig{Prompt: script},
				FirstMessage: fmt.Sprintf("Thank you for calling %s. How can I help you today?", practice.Company),
				Language:     "en",
			},
		},
	}
	if v.voiceID != "" {
		req.ConversationConfig.TTS = &elevenlabs.TTSConfig{VoiceID: v.voiceID}
	}

	resp, err := v.el.CreateAgent(ctx, req)
	if err != nil {
		var apiErr *elevenlabs.APIError
		if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			err = resilience.NewTransientError(err, apiErr.StatusCode)
		}
		return nil, WrapCall(v.Name(), err)
	}

	return &model.VoiceRef{
		Provider: v.Name(),
		AgentID:  resp.AgentID,
		VoiceID:  v.voiceID,
	}, nil
}

// draftScript asks Claude for a receptionist script, falling back to a
// template when no LLM is configured or the call fails. A bad script is not
// worth failing the phase over.
func (v *elevenLabsVoice) draftScript(ctx context.Context, practice *model.PracticeData) string {
	if v.llm == nil {
		return templateScript(practice)
	}

	prompt := fmt.Sprintf(
		"Write a receptionist system prompt for %s, a healthcare practice", practice.Company)
	if practice.Doctor != "" {
		prompt += fmt.Sprintf(" led by %s", practice.Doctor)
	}
	if len(practice.Services) > 0 {
		prompt += fmt.Sprintf(". Services offered: %s", strings.Join(practice.Services, ", "))
	}
	prompt += ". The agent answers calls, books appointments, and answers basic questions about opening hours and services."

	resp, err := v.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     v.model,
		MaxTokens: 1024,
		System:    scriptSystemPrompt,
		Prompt:    prompt,
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		zap.L().Warn("script drafting failed, using template",
			zap.String("company", practice.Company),
			zap.Error(err),
		)
		return templateScript(practice)
	}
	return resp.Text
}

func templateScript(practice *model.PracticeData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the virtual receptionist for %s.", practice.Company)
	if practice.Doctor != "" {
		fmt.Fprintf(&b, " The practice is led by %s.", practice.Doctor)
	}
	if len(practice.Services) > 0 {
		fmt.Fprintf(&b, " The practice offers: %s.", strings.Join(practice.Services, ", "))
	}
	b.WriteString(" Greet callers warmly, help them book appointments, and answer questions about services and opening hours. Keep answers short and friendly.")
	return b.String()
}
