package whisper

import (
	"context"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"

	"video2quiz/internal/app/api"
	"video2quiz/internal/app/model"
)

// chunkDuration groups raw Whisper output into 5-minute transcript
// segments, matching the granularity question generation expects.
const chunkDuration = 300.0

// RemoteTranscriber implements the transcription stage using the
// OpenAI Whisper API.
type RemoteTranscriber struct {
	client *openai.Client
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client) *RemoteTranscriber {
	return &RemoteTranscriber{client: client}
}

// Transcribe uploads the file at sourceRef for remote transcription and
// returns the transcript re-chunked into 5-minute segments.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, sourceRef string) ([]model.TranscriptSegment, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: sourceRef,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, api.NewStageError(api.StageTranscription, "createTranscription failed", err)
	}

	raw := make([]rawSegment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		raw = append(raw, rawSegment{start: s.Start, end: s.End, text: s.Text})
	}
	return chunk(raw), nil
}

type rawSegment struct {
	start float64
	end   float64
	text  string
}

// chunk merges raw speech segments into fixed-duration transcript
// segments. Silent media yields an empty result, which is a valid
// stage outcome.
func chunk(raw []rawSegment) []model.TranscriptSegment {
	segments := make([]model.TranscriptSegment, 0)
	if len(raw) == 0 {
		return segments
	}

	windowStart := 0.0
	windowEnd := chunkDuration
	text := ""
	maxEnd := 0.0

	flush := func() {
		if text == "" {
			return
		}
		end := windowEnd
		if maxEnd < end {
			end = maxEnd
		}
		segments = append(segments, model.TranscriptSegment{
			ID:        strconv.Itoa(len(segments) + 1),
			StartTime: windowStart,
			EndTime:   end,
			Text:      text,
			Duration:  end - windowStart,
		})
	}

	for _, s := range raw {
		for s.start >= windowEnd {
			flush()
			windowStart = windowEnd
			windowEnd += chunkDuration
			text = ""
		}
		if text != "" {
			text += " "
		}
		text += strings.TrimSpace(s.text)
		if s.end > maxEnd {
			maxEnd = s.end
		}
	}
	flush()
	return segments
}
