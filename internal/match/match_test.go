package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"gpt-4 turbo",
		"gpt4 turbo",
		"gpt 4 turbo",
		"gpt-4-turbo",
	}, Variants("GPT-4 Turbo"))

	// Single-word names collapse to one variant.
	assert.Equal(t, []string{"codex"}, Variants("Codex"))
}

func TestMentions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		name string
		want bool
	}{
		{"I tried gpt4 turbo yesterday and it was fast", "GPT-4 Turbo", true},
		{"the gpt-4-turbo rollout continues", "GPT-4 Turbo", true},
		{"Claude Code keeps improving", "Claude Code", true},
		{"nothing about language models here", "GPT-5", false},
		{"some text", "", false},
		{"some text", "   ", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Mentions(tc.text, tc.name), "text=%q name=%q", tc.text, tc.name)
	}
}

func TestSameCompany(t *testing.T) {
	t.Parallel()

	assert.True(t, SameCompany("OpenAI", "openai"))
	assert.True(t, SameCompany("  Anthropic ", "anthropic"))
	assert.False(t, SameCompany("OpenAI", "Anthropic"))
}
