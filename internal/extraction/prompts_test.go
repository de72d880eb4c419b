package extraction

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONTemplateIsValidJSON(t *testing.T) {
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(jsonTemplate), &obj))

	// 19 top-level keys: 13 scalars, 4 dates, address, medical block.
	assert.Len(t, obj, 19)
	assert.Contains(t, obj, "שם משפחה")
	assert.Contains(t, obj, "מספר זהות")
	assert.Contains(t, obj, `למילוי ע"י המוסד הרפואי`)

	date, ok := obj["תאריך לידה"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, date, 3)

	address, ok := obj["כתובת"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, address, 7)
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := buildExtractionPrompt("some ocr text")

	assert.Contains(t, prompt, "some ocr text")
	assert.Contains(t, prompt, "שם משפחה")
	// The template must appear after the OCR text so the model sees the
	// requested shape last.
	assert.Greater(t, strings.Index(prompt, "שם משפחה"), strings.Index(prompt, "some ocr text"))
}

func TestSystemPromptCoversCheckboxMarkers(t *testing.T) {
	assert.Contains(t, systemPrompt, ":selected:")
	assert.Contains(t, systemPrompt, ":unselected:")
	assert.Contains(t, systemPrompt, "JSON")
}
