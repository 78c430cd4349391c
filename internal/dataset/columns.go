package dataset

import (
	"strconv"
	"strings"

	"coach-insights-go/internal/feedback"
	"coach-insights-go/internal/types"
)

// columnIndex holds the detected position of each record column, -1 when
// the sheet lacks it.
type columnIndex struct {
	agent       int
	date        int
	filename    int
	transcript  int
	disposition int
	duration    int
	audioURL    int
	feedback    int
}

// detectColumns matches header names case-insensitively, preferring the
// first hit per column. Sheets exported from different sources vary in
// header wording, so matching is by substring.
func detectColumns(header []string) columnIndex {
	cols := columnIndex{
		agent: -1, date: -1, filename: -1, transcript: -1,
		disposition: -1, duration: -1, audioURL: -1, feedback: -1,
	}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.agent == -1 && (strings.Contains(l, "agent") || strings.Contains(l, "rep_name")):
			cols.agent = i
		case cols.date == -1 && strings.Contains(l, "date"):
			cols.date = i
		case cols.filename == -1 && (strings.Contains(l, "filename") || strings.Contains(l, "file")):
			cols.filename = i
		case cols.transcript == -1 && (strings.Contains(l, "transcript") || strings.Contains(l, "text")):
			cols.transcript = i
		case cols.disposition == -1 && strings.Contains(l, "disposition"):
			cols.disposition = i
		case cols.duration == -1 && strings.Contains(l, "duration"):
			cols.duration = i
		case cols.audioURL == -1 && (strings.Contains(l, "audio") || strings.Contains(l, "url") || strings.Contains(l, "link")):
			cols.audioURL = i
		case cols.feedback == -1 && strings.Contains(l, "feedback"):
			cols.feedback = i
		}
	}
	return cols
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// buildRecord assembles one CallRecord from a data row, parsing its
// feedback payload at the boundary. Rows with neither agent nor filename
// are treated as padding and dropped.
func buildRecord(cols columnIndex, row []string) (types.CallRecord, bool) {
	rec := types.CallRecord{
		AgentName:   cell(row, cols.agent),
		Date:        cell(row, cols.date),
		Filename:    cell(row, cols.filename),
		Transcript:  cell(row, cols.transcript),
		Disposition: cell(row, cols.disposition),
		AudioURL:    cell(row, cols.audioURL),
	}
	if rec.AgentName == "" && rec.Filename == "" {
		return types.CallRecord{}, false
	}
	if d := cell(row, cols.duration); d != "" {
		rec.CallDuration, _ = strconv.ParseFloat(d, 64)
	}
	rec.Feedback = feedback.Parse(cell(row, cols.feedback))
	return rec, true
}

// recordsFromRows converts a header row plus data rows into CallRecords.
func recordsFromRows(rows [][]string) []types.CallRecord {
	if len(rows) <= 1 {
		return nil
	}
	cols := detectColumns(rows[0])
	var out []types.CallRecord
	for _, row := range rows[1:] {
		if rec, ok := buildRecord(cols, row); ok {
			out = append(out, rec)
		}
	}
	return out
}
