package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimroute/internal/model"
)

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt("POLICY NUMBER: POL-1")

	for _, key := range FieldKeys {
		assert.Contains(t, prompt, "- "+key+"\n")
	}
	assert.True(t, strings.HasSuffix(prompt, "POLICY NUMBER: POL-1"))
}

func TestBuildExtractionPrompt_TruncatesText(t *testing.T) {
	text := strings.Repeat("a", maxPromptChars+500)
	prompt := BuildExtractionPrompt(text)

	assert.NotContains(t, prompt, strings.Repeat("a", maxPromptChars+1))
	assert.Contains(t, prompt, strings.Repeat("a", maxPromptChars))
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":"b"}`, `{"a":"b"}`},
		{"json fence", "```json\n{\"a\":\"b\"}\n```", `{"a":"b"}`},
		{"plain fence", "```\n{\"a\":\"b\"}\n```", `{"a":"b"}`},
		{"surrounding space", "  \n```json\n{}\n```\n ", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}

func TestParseFields(t *testing.T) {
	fields, err := parseFields(`{"policy_number": "POL-1", "estimated_damage": 100, "year": "2020", "extra": [1]}`)
	require.NoError(t, err)
	assert.Equal(t, "POL-1", fields["policy_number"])
	assert.Equal(t, 100.0, fields["estimated_damage"])

	_, err = parseFields(`not json`)
	assert.Error(t, err)

	_, err = parseFields(`["policy_number"]`)
	assert.Error(t, err, "top level must be an object")

	_, err = parseFields(`{"claimant": 42}`)
	assert.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider(Config{Provider: "Claude", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())

	p, err = NewProvider(Config{Provider: "ollama", Model: "llama3.1"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	_, err = NewProvider(Config{Provider: "gemini"})
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestConfigFromModel(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.APIKey = "sk-test"
	cfg.HTTP.HTTPSProxy = "http://proxy.local:3128"

	got := ConfigFromModel(cfg, nil)
	assert.Equal(t, "openai", got.Provider)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, "sk-test", got.APIKey)
	assert.Equal(t, "http://proxy.local:3128", got.HTTPSProxy)
	assert.NotNil(t, got.logger())
}
