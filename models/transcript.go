package models

// TranscriptLine is one parsed subtitle cue. Times are in seconds; a line is
// active while the playback cursor is inside [StartTime, EndTime).
type TranscriptLine struct {
	ID        int     `json:"id"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
}
