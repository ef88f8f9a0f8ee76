package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"video2quiz/internal/app/api"
	"video2quiz/internal/app/model"
)

const promptTemplate = `Based on the following lecture transcript segment, generate %d multiple-choice questions.
Each question should have 4 options (A, B, C, D) with only one correct answer.

Transcript:
%s

Please format your response as JSON with the following structure:
{
    "questions": [
        {
            "question": "Question text here?",
            "options": ["Option A", "Option B", "Option C", "Option D"],
            "correct_answer": 0,
            "explanation": "Brief explanation of why this is correct"
        }
    ]
}

Make sure the questions test understanding of key concepts mentioned in the transcript.`

// Generator implements the question-generation stage using OpenAI chat
// completions, one request per transcript segment.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a Generator. An empty model falls back to
// gpt-3.5-turbo.
func NewGenerator(client *openai.Client, chatModel string) *Generator {
	if chatModel == "" {
		chatModel = openai.GPT3Dot5Turbo
	}
	return &Generator{client: client, model: chatModel}
}

// GenerateQuestions produces one question set per segment, preserving
// input order. An empty transcript yields an empty result without any
// API call.
func (g *Generator) GenerateQuestions(ctx context.Context, segments []model.TranscriptSegment, perSegment int) ([]model.QuestionSet, error) {
	sets := make([]model.QuestionSet, 0, len(segments))
	for _, seg := range segments {
		questions, err := g.generateForSegment(ctx, seg.Text, perSegment)
		if err != nil {
			return nil, err
		}
		sets = append(sets, model.QuestionSet{
			SegmentID: seg.ID,
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
			Questions: questions,
		})
	}
	return sets, nil
}

type llmQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type llmResponse struct {
	Questions []llmQuestion `json:"questions"`
}

func (g *Generator) generateForSegment(ctx context.Context, text string, perSegment int) ([]model.Question, error) {
	request := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, perSegment, text),
			},
		},
		Temperature: 0.7,
	}
	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, api.NewStageError(api.StageQuestionGeneration, "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, api.NewStageError(api.StageQuestionGeneration, "chat completion returned no choices", nil)
	}

	parsed, err := parseQuestions(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, api.NewStageError(api.StageQuestionGeneration, "malformed model output", err)
	}

	questions := make([]model.Question, 0, len(parsed))
	for i, q := range parsed {
		if q.Question == "" || len(q.Options) < 2 {
			return nil, api.NewStageError(api.StageQuestionGeneration,
				fmt.Sprintf("model output question %d is incomplete", i), nil)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, api.NewStageError(api.StageQuestionGeneration,
				fmt.Sprintf("model output question %d has out-of-range answer index", i), nil)
		}
		questions = append(questions, model.Question{
			ID:                 uuid.New().String(),
			Prompt:             q.Question,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectAnswer,
			Explanation:        q.Explanation,
		})
	}
	return questions, nil
}

// parseQuestions extracts the JSON object from the model reply, which
// may be wrapped in prose or a code fence.
func parseQuestions(content string) ([]llmQuestion, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model reply")
	}

	var parsed llmResponse
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("decode model reply: %w", err)
	}
	return parsed.Questions, nil
}
