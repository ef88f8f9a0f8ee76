package quizgen_http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video2quiz/internal/app/api"
	"video2quiz/internal/app/model"
)

func testSegments() []model.TranscriptSegment {
	return []model.TranscriptSegment{
		{ID: "1", StartTime: 0, EndTime: 30, Text: "goroutines are cheap", Duration: 30},
		{ID: "2", StartTime: 30, EndTime: 60, Text: "channels synchronize them", Duration: 30},
	}
}

func validSets() []map[string]interface{} {
	question := func(prompt string) map[string]interface{} {
		return map[string]interface{}{
			"id":            "q",
			"question":      prompt,
			"options":       []string{"a", "b", "c", "d"},
			"correctAnswer": 1,
		}
	}
	return []map[string]interface{}{
		{"segmentId": "1", "questions": []interface{}{question("What are goroutines?")}},
		{"segmentId": "2", "questions": []interface{}{question("What do channels do?")}},
	}
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewProvider(Config{BaseURL: srv.URL})
}

func TestProvider_GenerateQuestions(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate-questions", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req["segments"], 2)
		assert.Equal(t, float64(3), req["num_questions_per_segment"])
		assert.NotEmpty(t, req["job_id"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"job_id":        req["job_id"],
			"question_sets": validSets(),
		})
	})

	sets, err := provider.GenerateQuestions(context.Background(), testSegments(), 3)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "1", sets[0].SegmentID)
	assert.Equal(t, "2", sets[1].SegmentID)
	assert.Equal(t, "What are goroutines?", sets[0].Questions[0].Prompt)
	assert.Equal(t, 1, sets[0].Questions[0].CorrectOptionIndex)

	// Segment times are filled in when the service omits them.
	assert.Equal(t, 0.0, sets[0].StartTime)
	assert.Equal(t, 30.0, sets[0].EndTime)
	assert.Equal(t, 60.0, sets[1].EndTime)
}

func TestProvider_GenerateQuestionsEmptyInput(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"job_id":        "x",
			"question_sets": []interface{}{},
		})
	})

	sets, err := provider.GenerateQuestions(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Empty(t, sets)
}

func TestProvider_GenerateQuestionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		reason  string
	}{
		{
			name: "upstream error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
			reason: "status 429",
		},
		{
			name: "set count mismatch",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"question_sets": validSets()[:1],
				})
			},
			reason: "expected 2 question sets",
		},
		{
			name: "out of order sets",
			handler: func(w http.ResponseWriter, r *http.Request) {
				sets := validSets()
				sets[0], sets[1] = sets[1], sets[0]
				json.NewEncoder(w).Encode(map[string]interface{}{
					"question_sets": sets,
				})
			},
			reason: "expected \"1\"",
		},
		{
			name: "empty prompt",
			handler: func(w http.ResponseWriter, r *http.Request) {
				sets := validSets()
				sets[0]["questions"] = []interface{}{map[string]interface{}{
					"question":      "",
					"options":       []string{"a", "b"},
					"correctAnswer": 0,
				}}
				json.NewEncoder(w).Encode(map[string]interface{}{
					"question_sets": sets,
				})
			},
			reason: "empty prompt",
		},
		{
			name: "too few options",
			handler: func(w http.ResponseWriter, r *http.Request) {
				sets := validSets()
				sets[0]["questions"] = []interface{}{map[string]interface{}{
					"question":      "Pick one",
					"options":       []string{"only"},
					"correctAnswer": 0,
				}}
				json.NewEncoder(w).Encode(map[string]interface{}{
					"question_sets": sets,
				})
			},
			reason: "need at least 2",
		},
		{
			name: "answer index out of range",
			handler: func(w http.ResponseWriter, r *http.Request) {
				sets := validSets()
				sets[0]["questions"] = []interface{}{map[string]interface{}{
					"question":      "Pick one",
					"options":       []string{"a", "b"},
					"correctAnswer": 5,
				}}
				json.NewEncoder(w).Encode(map[string]interface{}{
					"question_sets": sets,
				})
			},
			reason: "out-of-range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newTestProvider(t, tt.handler)

			_, err := provider.GenerateQuestions(context.Background(), testSegments(), 2)
			require.Error(t, err)

			var stageErr *api.StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, api.StageQuestionGeneration, stageErr.Stage)
			assert.Contains(t, stageErr.Reason, tt.reason)
		})
	}
}
