package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"video2quiz/internal/app/model"
)

// ToExcel writes a completed job's question sets to an xlsx workbook,
// one row per question.
func ToExcel(job *model.Job, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Questions")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "Segment"
	headerRow.AddCell().Value = "Start (s)"
	headerRow.AddCell().Value = "End (s)"
	headerRow.AddCell().Value = "Question"
	headerRow.AddCell().Value = "Options"
	headerRow.AddCell().Value = "Correct Answer"
	headerRow.AddCell().Value = "Explanation"

	for _, set := range job.QuestionSets {
		for _, q := range set.Questions {
			row := sheet.AddRow()
			row.AddCell().Value = set.SegmentID
			row.AddCell().Value = fmt.Sprintf("%.0f", set.StartTime)
			row.AddCell().Value = fmt.Sprintf("%.0f", set.EndTime)
			row.AddCell().Value = q.Prompt
			row.AddCell().Value = strings.Join(q.Options, " | ")
			row.AddCell().Value = q.Options[q.CorrectOptionIndex]
			row.AddCell().Value = q.Explanation
		}
	}

	meta := sheet.AddRow()
	meta.AddCell().Value = fmt.Sprintf("Exported from %s at %s", job.FileName, time.Now().Format(time.RFC3339))

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}
