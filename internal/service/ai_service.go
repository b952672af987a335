package service

import (
	"bitbybit_backend/internal/config"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GeneratedQuestion is the shape the model is instructed to emit, one entry
// per MCQ.
type GeneratedQuestion struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Marks        float64  `json:"marks"`
}

const generatorSystemPrompt = "You are an expert exam setter for competitive exams."

func generatorPrompt(notes string, numQuestions int, difficulty string) string {
	return fmt.Sprintf(`Based on the following text notes, generate %d %s level Multiple Choice Questions (MCQ).

The output MUST be a valid JSON array. Do not include markdown formatting like `+"```json ... ```"+`.
Each object in the array must have:
- "question_text": String
- "options": Array of 4 strings
- "correct_index": Integer (0-3)
- "marks": Integer (Default to 2)

Here are the notes:
%s`, numQuestions, difficulty, notes)
}

// GenerateQuestions asks the configured model for MCQs over the given notes
// and parses its reply. Models like to wrap JSON in code fences, so fences
// are stripped before decoding.
func (s *AIService) GenerateQuestions(notes string, numQuestions int, difficulty string) ([]GeneratedQuestion, error) {
	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: generatorSystemPrompt},
			{Role: "user", Content: generatorPrompt(notes, numQuestions, difficulty)},
		},
	}

	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest(http.MethodPost, s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, err
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("AI API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("AI API returned no choices")
	}

	return ParseGeneratedQuestions(completion.Choices[0].Message.Content)
}

// ParseGeneratedQuestions decodes the model output into question structs.
func ParseGeneratedQuestions(raw string) ([]GeneratedQuestion, error) {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var questions []GeneratedQuestion
	if err := json.Unmarshal([]byte(clean), &questions); err != nil {
		return nil, fmt.Errorf("AI output is not a valid question array: %w", err)
	}

	for i, q := range questions {
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d has %d options, want 4", i, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex > 3 {
			return nil, fmt.Errorf("question %d has correct_index %d out of range", i, q.CorrectIndex)
		}
	}
	return questions, nil
}
