package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity subtypes. Coloring is the open-ended visual type: its system
// score is provisional and only a teacher grade counts toward averages.
const (
	SubtypeColoring = "coloring"
	SubtypePuzzle   = "puzzle"
	SubtypeMatching = "matching"
	SubtypeGuessing = "guessing"
	SubtypeQuiz     = "quiz"
)

type Activity struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	Subtype   string     `json:"subtype"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Level     string     `json:"level"`
	ClassID   *uuid.UUID `json:"class_id,omitempty"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ActivityMeta is the catalog projection consumed by reporting. It is never
// required for write-path invariants.
type ActivityMeta struct {
	ID       uuid.UUID `json:"id"`
	Kind     string    `json:"kind"`
	Subtype  string    `json:"subtype"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Level    string    `json:"level"`
}

// IsOpenEnded reports whether the activity's system score is provisional
// until a teacher grades it.
func (m ActivityMeta) IsOpenEnded() bool {
	return m.Subtype == SubtypeColoring
}
