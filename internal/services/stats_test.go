package services

import (
	"testing"

	"github.com/google/uuid"

	"littlesteps-backend/internal/models"
)

func intPtr(v int) *int { return &v }

func TestEffectiveScore(t *testing.T) {
	tests := []struct {
		name      string
		record    *models.ActivityCompletion
		openEnded bool
		expected  int
	}{
		{"teacher score wins", &models.ActivityCompletion{SystemScore: 85, TeacherScore: intPtr(90)}, false, 90},
		{"teacher score wins on open-ended", &models.ActivityCompletion{SystemScore: 0, TeacherScore: intPtr(75)}, true, 75},
		{"system score without override", &models.ActivityCompletion{SystemScore: 85}, false, 85},
		{"ungraded open-ended counts as zero", &models.ActivityCompletion{SystemScore: 60}, true, 0},
		{"teacher zero is still a grade", &models.ActivityCompletion{SystemScore: 80, TeacherScore: intPtr(0)}, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveScore(tc.record, tc.openEnded); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestRoundAverage(t *testing.T) {
	tests := []struct {
		name     string
		sum      int
		count    int
		expected int
	}{
		{"empty set is zero", 0, 0, 0},
		{"exact division", 300, 10, 30},
		{"rounds half up", 85, 2, 43},
		{"rounds down below half", 84, 5, 17},
		{"single value", 77, 1, 77},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RoundAverage(tc.sum, tc.count); got != tc.expected {
				t.Errorf("RoundAverage(%d, %d): expected %d, got %d", tc.sum, tc.count, tc.expected, got)
			}
		})
	}
}

func TestComputeLearnerStats(t *testing.T) {
	activityA := uuid.New()
	activityB := uuid.New()
	activityC := uuid.New()

	records := []*models.ActivityCompletion{
		{ActivityID: activityA, Status: models.ProgressCompleted, SystemScore: 85, TimeSpentSeconds: 120},
		{ActivityID: activityB, Status: models.ProgressCompleted, SystemScore: 85, TeacherScore: intPtr(90), TimeSpentSeconds: 200},
		{ActivityID: activityC, Status: models.ProgressInProgress, SystemScore: 0, TimeSpentSeconds: 30},
	}

	stats := ComputeLearnerStats(records, map[uuid.UUID]*models.ActivityMeta{})

	if stats.TotalActivities != 3 {
		t.Errorf("Expected 3 total activities, got %d", stats.TotalActivities)
	}
	if stats.CompletedCount != 2 {
		t.Errorf("Expected 2 completed, got %d", stats.CompletedCount)
	}
	if stats.InProgressCount != 1 {
		t.Errorf("Expected 1 in progress, got %d", stats.InProgressCount)
	}
	// (85 + 90) / 2 = 87.5 rounds to 88
	if stats.AverageScore != 88 {
		t.Errorf("Expected average 88 using the teacher override, got %d", stats.AverageScore)
	}
	if stats.TotalTimeSpent != 350 {
		t.Errorf("Expected total time 350, got %d", stats.TotalTimeSpent)
	}
	if stats.CompletionRate != 67 {
		t.Errorf("Expected completion rate 67, got %d", stats.CompletionRate)
	}
}

func TestComputeLearnerStats_Empty(t *testing.T) {
	stats := ComputeLearnerStats(nil, map[uuid.UUID]*models.ActivityMeta{})

	if stats.AverageScore != 0 || stats.CompletionRate != 0 {
		t.Errorf("Empty record set must average to 0, got avg=%d rate=%d", stats.AverageScore, stats.CompletionRate)
	}
}

func newRosterLearner(name string) *models.Learner {
	return &models.Learner{ID: uuid.New(), FullName: name}
}

func TestComputeClassActivityStats(t *testing.T) {
	roster := make([]*models.Learner, 10)
	for i := range roster {
		roster[i] = newRosterLearner("Learner")
	}

	scores := []int{80, 90, 70, 60}
	records := make([]*models.ActivityCompletion, len(scores))
	for i, score := range scores {
		records[i] = &models.ActivityCompletion{
			ID:          uuid.New(),
			LearnerID:   roster[i].ID,
			Status:      models.ProgressCompleted,
			SystemScore: score,
		}
	}

	stats := ComputeClassActivityStats(roster, records, false)

	if stats.SubmittedCount != 4 {
		t.Errorf("Expected 4 submitted, got %d", stats.SubmittedCount)
	}
	if stats.NotSubmittedCount != 6 {
		t.Errorf("Expected 6 not submitted, got %d", stats.NotSubmittedCount)
	}
	// (80+90+70+60 + 0*6) / 10 = 30
	if stats.AverageScore != 30 {
		t.Errorf("Expected roster-wide average 30, got %d", stats.AverageScore)
	}
	if len(stats.Results) != 10 {
		t.Errorf("Expected one result per roster member, got %d", len(stats.Results))
	}
}

func TestComputeClassActivityStats_OpenEnded(t *testing.T) {
	roster := []*models.Learner{newRosterLearner("A"), newRosterLearner("B")}

	ungraded := &models.ActivityCompletion{
		ID:          uuid.New(),
		LearnerID:   roster[0].ID,
		Status:      models.ProgressCompleted,
		SystemScore: 0,
	}

	stats := ComputeClassActivityStats(roster, []*models.ActivityCompletion{ungraded}, true)
	if stats.AverageScore != 0 {
		t.Errorf("Ungraded open-ended submission must contribute 0, got average %d", stats.AverageScore)
	}

	graded := &models.ActivityCompletion{
		ID:           ungraded.ID,
		LearnerID:    roster[0].ID,
		Status:       models.ProgressCompleted,
		SystemScore:  0,
		TeacherScore: intPtr(75),
	}

	stats = ComputeClassActivityStats(roster, []*models.ActivityCompletion{graded}, true)
	// (75 + 0) / 2 = 37.5 rounds to 38
	if stats.AverageScore != 38 {
		t.Errorf("Expected average 38 after grading, got %d", stats.AverageScore)
	}
}

func TestComputeClassActivityStats_EmptyRoster(t *testing.T) {
	stats := ComputeClassActivityStats(nil, nil, false)
	if stats.AverageScore != 0 || stats.TotalRoster != 0 {
		t.Errorf("Empty roster must yield zeroes, got %+v", stats)
	}
}

func TestComputeCategoryBreakdown(t *testing.T) {
	mathLesson := uuid.New()
	mathGame := uuid.New()
	colorGame := uuid.New()
	orphan := uuid.New()

	metas := map[uuid.UUID]*models.ActivityMeta{
		mathLesson: {ID: mathLesson, Category: "numbers", Subtype: models.SubtypeQuiz},
		mathGame:   {ID: mathGame, Category: "numbers", Subtype: models.SubtypeMatching},
		colorGame:  {ID: colorGame, Category: "colors", Subtype: models.SubtypeColoring},
	}

	records := []*models.ActivityCompletion{
		{ActivityID: mathLesson, Status: models.ProgressCompleted, SystemScore: 80},
		{ActivityID: mathGame, Status: models.ProgressCompleted, SystemScore: 90},
		{ActivityID: colorGame, Status: models.ProgressCompleted, SystemScore: 50},
		{ActivityID: orphan, Status: models.ProgressCompleted, SystemScore: 100},
	}

	categories := ComputeCategoryBreakdown(records, metas)

	if len(categories) != 2 {
		t.Fatalf("Expected 2 categories (orphan dropped), got %d", len(categories))
	}

	// Sorted alphabetically: colors, numbers
	if categories[0].Category != "colors" || categories[0].AverageScore != 0 {
		t.Errorf("Ungraded coloring submission must average 0, got %+v", categories[0])
	}
	if categories[1].Category != "numbers" || categories[1].AverageScore != 85 {
		t.Errorf("Expected numbers average 85, got %+v", categories[1])
	}
}

func TestComputeAchievements(t *testing.T) {
	activity := uuid.New()

	var records []*models.ActivityCompletion
	for i := 0; i < 12; i++ {
		records = append(records, &models.ActivityCompletion{
			ActivityID:       activity,
			Status:           models.ProgressCompleted,
			SystemScore:      95,
			TimeSpentSeconds: 60,
		})
	}
	records = append(records, &models.ActivityCompletion{
		ActivityID: activity,
		Status:     models.ProgressInProgress,
	})

	a := ComputeAchievements(records, map[uuid.UUID]*models.ActivityMeta{})

	if a.TotalActivities != 12 {
		t.Errorf("In-progress records must not count, got %d", a.TotalActivities)
	}
	if a.ExcellentCount != 12 || a.GoodCount != 12 || a.PassCount != 12 {
		t.Errorf("Tier counts wrong: %+v", a)
	}
	if a.AverageScore != 95 {
		t.Errorf("Expected average 95, got %d", a.AverageScore)
	}

	hasBadge := func(name string) bool {
		for _, b := range a.Badges {
			if b.Name == name {
				return true
			}
		}
		return false
	}
	if !hasBadge("Star Scholar") {
		t.Error("Expected Star Scholar badge for 12 excellent scores")
	}
	if !hasBadge("Outstanding") {
		t.Error("Expected Outstanding badge for average >= 85")
	}
	if hasBadge("Persistent") {
		t.Error("Persistent badge requires 50 activities")
	}
}
