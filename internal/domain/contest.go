package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// DefaultContestID is used when a request carries no contest id.
const DefaultContestID int64 = 1

// TopParticipantsLimit is how many leaders a snapshot reports.
const TopParticipantsLimit = 2

// Contest is a row of the concursos table.
type Contest struct {
	ID       int64      `json:"id_concurso"`
	Name     string     `json:"nombre_evento"`
	ClosesAt *time.Time `json:"fecha_cierre"`
}

// timestampLayout matches the ISO strings existing clients already
// compare against: UTC with exactly three fractional digits.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// MarshalJSON encodes fecha_cierre as "2025-10-31T00:00:00.000Z", or null.
func (c Contest) MarshalJSON() ([]byte, error) {
	var closesAt *string
	if c.ClosesAt != nil {
		s := c.ClosesAt.UTC().Format(timestampLayout)
		closesAt = &s
	}
	// Event names are user text; keep "&", "<" and ">" unescaped like the
	// rest of the response.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		ID       int64   `json:"id_concurso"`
		Name     string  `json:"nombre_evento"`
		ClosesAt *string `json:"fecha_cierre"`
	}{c.ID, c.Name, closesAt})
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Totals aggregates the conteos rows of one contest.
type Totals struct {
	Participants int64 `json:"participantes"`
	Comments     int64 `json:"total_comentarios"`
}

// TopParticipant is one entry of the leaderboard.
type TopParticipant struct {
	Nick     string `json:"nick"`
	Comments int64  `json:"total_comentarios"`
}

// Winner is one awarded prize joined with the winner's nickname.
type Winner struct {
	Prize       string  `json:"premio"`
	Reason      *string `json:"motivo"`
	TopPosition *int64  `json:"posicion_top"`
	Nick        string  `json:"nick"`
}

// Snapshot is the consolidated statistics payload for one contest.
// The reads behind it are independent statements, not one transaction.
type Snapshot struct {
	Contest Contest          `json:"concurso"`
	Totals  Totals           `json:"totales"`
	Top     []TopParticipant `json:"top2"`
	Winners []Winner         `json:"ganadores"`
}

// ParseContestID interprets the raw id query parameter.
// An empty value selects DefaultContestID.
func ParseContestID(raw string) (int64, error) {
	if raw == "" {
		return DefaultContestID, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidContestID
	}
	return id, nil
}
