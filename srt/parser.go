// Package srt parses SubRip subtitle documents into transcript lines.
package srt

import (
	"regexp"
	"strconv"
	"strings"

	"langlab_backend/models"
)

var (
	blockSeparator = regexp.MustCompile(`\r?\n\r?\n`)
	timecodeLine   = regexp.MustCompile(`(\d{2}:\d{2}:\d{2},\d{3}) --> (\d{2}:\d{2}:\d{2},\d{3})`)
)

// Parse converts raw SRT content into ordered transcript lines. Malformed
// blocks are skipped, never fatal.
func Parse(content string) []models.TranscriptLine {
	blocks := blockSeparator.Split(strings.TrimSpace(content), -1)
	transcript := make([]models.TranscriptLine, 0, len(blocks))

	for _, block := range blocks {
		parts := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
		if len(parts) < 3 {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}

		match := timecodeLine.FindStringSubmatch(parts[1])
		if match == nil {
			continue
		}

		transcript = append(transcript, models.TranscriptLine{
			ID:        id,
			StartTime: timeToSeconds(match[1]),
			EndTime:   timeToSeconds(match[2]),
			Text:      strings.Join(parts[2:], " "),
		})
	}

	return transcript
}

// timeToSeconds converts "HH:MM:SS,mmm" to seconds.
func timeToSeconds(t string) float64 {
	parts := strings.Split(strings.ReplaceAll(t, ",", "."), ":")
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds, _ := strconv.ParseFloat(parts[2], 64)
	return float64(hours)*3600 + float64(minutes)*60 + seconds
}

// Text flattens a transcript back into plain text, one cue per line. Used as
// the input for vocabulary generation when the raw file is unavailable.
func Text(lines []models.TranscriptLine) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.Text)
	}
	return b.String()
}
