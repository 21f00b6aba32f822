package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"littlesteps-backend/internal/models"
)

func TestPresenceKey(t *testing.T) {
	start := time.Now().Add(-10 * time.Minute)
	end := time.Now().Add(-5 * time.Minute)

	tests := []struct {
		name     string
		session  *models.AppSession
		expected time.Time
	}{
		{"open session uses start", &models.AppSession{Status: models.SessionActive, StartedAt: start}, start},
		{"closed session uses end", &models.AppSession{Status: models.SessionCompleted, StartedAt: start, EndedAt: &end}, end},
		{"closed without end falls back to start", &models.AppSession{Status: models.SessionCompleted, StartedAt: start}, start},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PresenceKey(tc.session); !got.Equal(tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestReduceLatestPerLearner(t *testing.T) {
	now := time.Now()
	learnerA := uuid.New()
	learnerB := uuid.New()
	learnerC := uuid.New()

	endB := now.Add(-200 * time.Second)

	sessions := []*models.AppSession{
		{LearnerID: learnerA, Status: models.SessionActive, StartedAt: now.Add(-10 * time.Second)},
		{LearnerID: learnerB, Status: models.SessionCompleted, StartedAt: now.Add(-300 * time.Second), EndedAt: &endB},
		{LearnerID: learnerC, Status: models.SessionActive, StartedAt: now.Add(-50 * time.Second)},
	}

	reduced := ReduceLatestPerLearner(sessions)

	if len(reduced) != 3 {
		t.Fatalf("Expected 3 learners, got %d", len(reduced))
	}

	// Active@T-10s, then Active@T-50s, then Closed with end@T-200s
	expected := []uuid.UUID{learnerA, learnerC, learnerB}
	for i, want := range expected {
		if reduced[i].LearnerID != want {
			t.Errorf("Position %d: expected learner %s, got %s", i, want, reduced[i].LearnerID)
		}
	}
}

func TestReduceLatestPerLearner_OneSessionPerLearner(t *testing.T) {
	now := time.Now()
	learner := uuid.New()

	oldEnd := now.Add(-1 * time.Hour)
	newEnd := now.Add(-2 * time.Minute)

	sessions := []*models.AppSession{
		{LearnerID: learner, Status: models.SessionCompleted, StartedAt: now.Add(-2 * time.Hour), EndedAt: &oldEnd},
		{LearnerID: learner, Status: models.SessionCompleted, StartedAt: now.Add(-10 * time.Minute), EndedAt: &newEnd},
		{LearnerID: learner, Status: models.SessionCompleted, StartedAt: now.Add(-3 * time.Hour)},
	}

	reduced := ReduceLatestPerLearner(sessions)

	if len(reduced) != 1 {
		t.Fatalf("Expected a single session for the learner, got %d", len(reduced))
	}
	if !PresenceKey(reduced[0]).Equal(newEnd) {
		t.Errorf("Expected the latest end time to win, got %v", PresenceKey(reduced[0]))
	}
}

func TestBuildActiveLearner(t *testing.T) {
	now := time.Now()
	start := now.Add(-(2*time.Hour + 25*time.Minute))

	session := &models.AppSession{
		LearnerID: uuid.New(),
		Status:    models.SessionActive,
		StartedAt: start,
	}
	profile := &models.Learner{ID: session.LearnerID, FullName: "Mai"}

	row := buildActiveLearner(session, profile, now)

	if !row.IsActive {
		t.Error("Expected active flag for open session")
	}
	if row.ElapsedHours != 2 {
		t.Errorf("Expected 2 elapsed hours, got %d", row.ElapsedHours)
	}
	if row.RemainderMinutes != 25 {
		t.Errorf("Expected 25 remainder minutes, got %d", row.RemainderMinutes)
	}
	if row.ElapsedMinutes != 145 {
		t.Errorf("Expected 145 elapsed minutes, got %d", row.ElapsedMinutes)
	}
}
