package ocr

import (
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segment(start, end int64) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{
		TextAnchor: &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
				{StartIndex: start, EndIndex: end},
			},
		},
	}
}

func TestAnchorText(t *testing.T) {
	text := "Family name Cohen"

	assert.Equal(t, "Family name", anchorText(text, segment(0, 11)))
	assert.Equal(t, "Cohen", anchorText(text, segment(12, 17)))
	assert.Equal(t, "", anchorText(text, nil))
	assert.Equal(t, "", anchorText(text, &documentaipb.Document_Page_Layout{}))
}

func TestAnchorTextIgnoresInvalidSegments(t *testing.T) {
	text := "short"

	// Out-of-range and inverted segments are skipped, not panicked on.
	assert.Equal(t, "", anchorText(text, segment(0, 100)))
	assert.Equal(t, "", anchorText(text, segment(4, 2)))
}

func TestRenderDocumentFormFields(t *testing.T) {
	s := &DocumentAIOCRService{log: zerolog.Nop()}

	text := "Family name Cohen male female"
	doc := &documentaipb.Document{
		Text: text,
		Pages: []*documentaipb.Document_Page{
			{
				DetectedLanguages: []*documentaipb.Document_Page_DetectedLanguage{
					{LanguageCode: "he"},
				},
				FormFields: []*documentaipb.Document_Page_FormField{
					{
						FieldName:  segment(0, 11),
						FieldValue: segment(12, 17),
					},
					{
						FieldName: segment(18, 22),
						ValueType: "filled_checkbox",
					},
					{
						FieldName: segment(23, 29),
						ValueType: "unfilled_checkbox",
					},
				},
			},
		},
	}

	result, err := s.renderDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, []string{"he"}, result.LanguageCodes)
	assert.Contains(t, result.Text, "Family name: Cohen")
	assert.Contains(t, result.Text, ":selected: male")
	assert.Contains(t, result.Text, ":unselected: female")
	// Page text comes first, form fields after the separator.
	assert.Contains(t, result.Text, "--- Form fields (page 1) ---")
}

func TestRenderDocumentEmpty(t *testing.T) {
	s := &DocumentAIOCRService{log: zerolog.Nop()}

	_, err := s.renderDocument(&documentaipb.Document{})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
