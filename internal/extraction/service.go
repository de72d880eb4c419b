// Package extraction turns OCR text of a scanned claim form into a
// structured Form283 record using an OpenAI chat model.
package extraction

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"form283/internal/logger"
	"form283/internal/schema"
	"form283/pkg/models"
)

// ExtractionService extracts structured form data from OCR text.
type ExtractionService interface {
	// ExtractForm maps OCR text to a Form283 record. The returned metadata
	// carries model and token accounting for the run.
	ExtractForm(ctx context.Context, ocrText string) (*models.Form283, *ExtractionMetadata, error)
}

// ExtractionMetadata describes a single extraction run.
type ExtractionMetadata struct {
	Model            string        `json:"model"`
	Attempts         int           `json:"attempts"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	TotalTokens      int           `json:"total_tokens"`
	Duration         time.Duration `json:"duration"`
}

// ExtractionConfig configures the OpenAI extraction service.
type ExtractionConfig struct {
	Model       string  // e.g. gpt-4o
	Temperature float32 // low temperature keeps transcription deterministic
	MaxRetries  int
}

// OpenAIExtractionService implements ExtractionService with go-openai.
type OpenAIExtractionService struct {
	client *openai.Client
	config ExtractionConfig
	log    zerolog.Logger
}

// NewOpenAIExtractionService creates the service with configuration from
// the environment. Requires OPENAI_API_KEY; OPENAI_MODEL, OPENAI_TEMPERATURE
// and EXTRACTION_MAX_RETRIES are optional.
func NewOpenAIExtractionService() (ExtractionService, error) {
	const op = "NewOpenAIExtractionService"

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, WrapExtractionError(op, ErrMissingAPIKey, "")
	}

	config := ExtractionConfig{
		Model:       os.Getenv("OPENAI_MODEL"),
		Temperature: parseFloatEnv("OPENAI_TEMPERATURE", 0.1),
		MaxRetries:  parseIntEnv("EXTRACTION_MAX_RETRIES", 3),
	}
	if config.Model == "" {
		config.Model = "gpt-4o"
	}

	return NewOpenAIExtractionServiceWithDeps(openai.NewClient(apiKey), config), nil
}

// NewOpenAIExtractionServiceWithDeps creates the service with explicit
// dependencies (for testing).
func NewOpenAIExtractionServiceWithDeps(client *openai.Client, config ExtractionConfig) ExtractionService {
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	return &OpenAIExtractionService{
		client: client,
		config: config,
		log:    logger.WithComponent("extraction"),
	}
}

// ExtractForm maps OCR text to a Form283 record.
func (s *OpenAIExtractionService) ExtractForm(ctx context.Context, ocrText string) (*models.Form283, *ExtractionMetadata, error) {
	const op = "ExtractForm"
	startTime := time.Now()

	if strings.TrimSpace(ocrText) == "" {
		return nil, nil, WrapExtractionError(op, ErrEmptyText, "")
	}

	prompt := buildExtractionPrompt(ocrText)
	meta := &ExtractionMetadata{Model: s.config.Model}

	s.log.Debug().
		Int("prompt_length", len(prompt)).
		Str("model", s.config.Model).
		Float32("temperature", s.config.Temperature).
		Msg("Sending extraction request")

	var lastErr error
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		meta.Attempts = attempt

		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.config.Model,
			Temperature: s.config.Temperature,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		})
		if err != nil {
			lastErr = err
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_retries", s.config.MaxRetries).
				Msg("Extraction request failed, retrying")
			continue
		}

		meta.PromptTokens += resp.Usage.PromptTokens
		meta.CompletionTokens += resp.Usage.CompletionTokens
		meta.TotalTokens += resp.Usage.TotalTokens

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no response choices from model")
			continue
		}

		content := resp.Choices[0].Message.Content
		rec, err := schema.DecodeJSON([]byte(content))
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrInvalidResponse, err)
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Msg("Model response did not decode, retrying")
			continue
		}

		meta.Duration = time.Since(startTime)
		s.log.Info().
			Str("model", meta.Model).
			Int("attempts", meta.Attempts).
			Int("total_tokens", meta.TotalTokens).
			Dur("duration", meta.Duration).
			Msg("Form extraction completed")

		return rec, meta, nil
	}

	return nil, nil, WrapExtractionError(op, ErrExtractionFailed,
		fmt.Sprintf("all %d attempts failed, last error: %v", s.config.MaxRetries, lastErr))
}

func parseIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseFloatEnv(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}
