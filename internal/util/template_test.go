package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplatePlainTextFastPath(t *testing.T) {
	out, err := RenderTemplate("You are a helpful assistant.", nil)
	require.NoError(t, err)
	assert.Equal(t, "You are a helpful assistant.", out)
}

func TestRenderTemplateSubstitution(t *testing.T) {
	out, err := RenderTemplate("Run for {{.audience}} in {{upper .lang}}.", map[string]any{
		"audience": "developers",
		"lang":     "go",
	})
	require.NoError(t, err)
	assert.Equal(t, "Run for developers in GO.", out)
}

func TestRenderTemplateDefaultFunc(t *testing.T) {
	out, err := RenderTemplate(`Tone: {{default "neutral" .tone}}`, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Tone: neutral", out)
}

func TestRenderTemplateParseError(t *testing.T) {
	_, err := RenderTemplate("broken {{.", nil)
	assert.Error(t, err)
}
