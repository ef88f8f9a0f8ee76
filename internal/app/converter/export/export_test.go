package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"video2quiz/internal/app/model"
)

func TestToExcel(t *testing.T) {
	job := &model.Job{
		ID:       "job-1",
		FileName: "lecture.mp4",
		Status:   model.JobStatusCompleted,
		QuestionSets: []model.QuestionSet{
			{
				SegmentID: "1",
				StartTime: 0,
				EndTime:   300,
				Questions: []model.Question{
					{
						Prompt:             "What is a goroutine?",
						Options:            []string{"a thread", "a lightweight routine", "a process", "a channel"},
						CorrectOptionIndex: 1,
						Explanation:        "scheduled by the Go runtime",
					},
					{
						Prompt:             "What synchronizes goroutines?",
						Options:            []string{"channels", "files"},
						CorrectOptionIndex: 0,
					},
				},
			},
			{
				SegmentID: "2",
				StartTime: 300,
				EndTime:   420,
				Questions: []model.Question{
					{
						Prompt:             "What was covered last?",
						Options:            []string{"closing remarks", "introductions"},
						CorrectOptionIndex: 0,
					},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "questions.xlsx")
	require.NoError(t, ToExcel(job, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Questions", sheet.Name)

	// Header + three question rows + metadata footer.
	require.Len(t, sheet.Rows, 5)
	assert.Equal(t, "Question", sheet.Rows[0].Cells[3].Value)
	assert.Equal(t, "What is a goroutine?", sheet.Rows[1].Cells[3].Value)
	assert.Equal(t, "a lightweight routine", sheet.Rows[1].Cells[5].Value)
	assert.Contains(t, sheet.Rows[1].Cells[4].Value, " | ")
	assert.Equal(t, "2", sheet.Rows[3].Cells[0].Value)
}

func TestToExcel_NoQuestions(t *testing.T) {
	job := &model.Job{ID: "job-2", FileName: "silent.mp4", Status: model.JobStatusCompleted}

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, ToExcel(job, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets[0].Rows, 2)
}
