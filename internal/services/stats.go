package services

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"littlesteps-backend/internal/models"
	"littlesteps-backend/internal/repository"
)

type StatsService struct {
	progress   *repository.ProgressRepo
	activities *repository.ActivityRepo
	learners   *repository.LearnerRepo
	roster     *SessionService
}

func NewStatsService(
	progress *repository.ProgressRepo,
	activities *repository.ActivityRepo,
	learners *repository.LearnerRepo,
	roster *SessionService,
) *StatsService {
	return &StatsService{
		progress:   progress,
		activities: activities,
		learners:   learners,
		roster:     roster,
	}
}

// EffectiveScore is the single score-precedence rule used by every
// aggregation path. A teacher grade always wins. Without one, an open-ended
// activity (whose system score is provisional) counts as 0, while an
// objectively scored activity falls back to its system score.
func EffectiveScore(c *models.ActivityCompletion, openEnded bool) int {
	if c.TeacherScore != nil {
		return *c.TeacherScore
	}
	if openEnded {
		return 0
	}
	return c.SystemScore
}

// RoundAverage divides and rounds half-up to the nearest integer. An empty
// set averages to 0, never an error.
func RoundAverage(sum, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Floor(float64(sum)/float64(count) + 0.5))
}

// LearnerStats aggregates one learner's completion records, plus a
// per-category breakdown joined against catalog metadata. Records whose
// catalog entry cannot be resolved still count in the overall numbers but
// are omitted from the breakdown.
func (s *StatsService) LearnerStats(ctx context.Context, callerID uuid.UUID, role string, learnerID uuid.UUID) (*models.LearnerStats, []*models.CategoryStats, error) {
	learner, err := s.roster.ResolveLearner(ctx, callerID, role, learnerID)
	if err != nil {
		return nil, nil, err
	}

	records, err := s.progress.ListByLearner(ctx, learner.ID, 0)
	if err != nil {
		return nil, nil, err
	}

	metas := s.resolveMetas(ctx, records)

	stats := ComputeLearnerStats(records, metas)
	categories := ComputeCategoryBreakdown(records, metas)
	return stats, categories, nil
}

// ComputeLearnerStats reduces completion records to the overall learner
// figures. The average covers completed records only, using the effective
// score of each.
func ComputeLearnerStats(records []*models.ActivityCompletion, metas map[uuid.UUID]*models.ActivityMeta) *models.LearnerStats {
	stats := &models.LearnerStats{TotalActivities: len(records)}

	scoreSum := 0
	for _, r := range records {
		stats.TotalTimeSpent += r.TimeSpentSeconds
		switch r.Status {
		case models.ProgressCompleted:
			stats.CompletedCount++
			scoreSum += EffectiveScore(r, isOpenEnded(metas, r.ActivityID))
		case models.ProgressInProgress:
			stats.InProgressCount++
		}
	}

	stats.AverageScore = RoundAverage(scoreSum, stats.CompletedCount)
	stats.CompletionRate = RoundAverage(stats.CompletedCount*100, stats.TotalActivities)
	return stats
}

// ComputeCategoryBreakdown groups records by catalog category. Records with
// unresolved metadata are dropped rather than failing the aggregate.
func ComputeCategoryBreakdown(records []*models.ActivityCompletion, metas map[uuid.UUID]*models.ActivityMeta) []*models.CategoryStats {
	type bucket struct {
		total     int
		completed int
		scoreSum  int
	}
	buckets := make(map[string]*bucket)

	for _, r := range records {
		meta, ok := metas[r.ActivityID]
		if !ok {
			continue
		}
		b := buckets[meta.Category]
		if b == nil {
			b = &bucket{}
			buckets[meta.Category] = b
		}
		b.total++
		if r.Status == models.ProgressCompleted {
			b.completed++
			b.scoreSum += EffectiveScore(r, meta.IsOpenEnded())
		}
	}

	categories := make([]*models.CategoryStats, 0, len(buckets))
	for name, b := range buckets {
		categories = append(categories, &models.CategoryStats{
			Category:     name,
			Total:        b.total,
			Completed:    b.completed,
			AverageScore: RoundAverage(b.scoreSum, b.completed),
		})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Category < categories[j].Category })
	return categories
}

// ClassActivityStats computes the submitted/not-submitted split and the
// roster-wide average for one activity. Learners who have not submitted
// contribute 0 to the average.
func (s *StatsService) ClassActivityStats(ctx context.Context, activityID uuid.UUID) (*models.ClassActivityStats, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Activity not found"}
		}
		return nil, &DependencyError{Message: "Catalog lookup failed"}
	}

	var roster []*models.Learner
	if activity.ClassID != nil {
		roster, err = s.learners.ListByClass(ctx, *activity.ClassID)
		if err != nil {
			return nil, err
		}
	}

	rosterIDs := make([]uuid.UUID, len(roster))
	for i, l := range roster {
		rosterIDs[i] = l.ID
	}

	var records []*models.ActivityCompletion
	if len(rosterIDs) > 0 {
		records, err = s.progress.ListCompletedByActivity(ctx, activity.ID, rosterIDs)
		if err != nil {
			return nil, err
		}
	}

	return ComputeClassActivityStats(roster, records, activity.Subtype == models.SubtypeColoring), nil
}

// ComputeClassActivityStats reduces roster and submissions to the class
// report. The average runs over the whole roster with absent submissions
// counted as 0, using the effective-score precedence rule.
func ComputeClassActivityStats(roster []*models.Learner, records []*models.ActivityCompletion, openEnded bool) *models.ClassActivityStats {
	byLearner := make(map[uuid.UUID]*models.ActivityCompletion, len(records))
	for _, r := range records {
		byLearner[r.LearnerID] = r
	}

	stats := &models.ClassActivityStats{
		TotalRoster: len(roster),
		Results:     make([]*models.RosterResult, 0, len(roster)),
	}

	scoreSum := 0
	for _, learner := range roster {
		result := &models.RosterResult{
			LearnerID:   learner.ID,
			LearnerName: learner.FullName,
		}

		if r, ok := byLearner[learner.ID]; ok {
			result.Submitted = true
			result.Score = EffectiveScore(r, openEnded)
			result.TeacherScore = r.TeacherScore
			result.GradingState = r.GradingStatus
			result.TimeSpent = r.TimeSpentSeconds
			result.RecordID = r.ID
			stats.SubmittedCount++
		}

		scoreSum += result.Score
		stats.Results = append(stats.Results, result)
	}

	stats.NotSubmittedCount = stats.TotalRoster - stats.SubmittedCount
	stats.AverageScore = RoundAverage(scoreSum, stats.TotalRoster)
	return stats
}

// Achievements summarizes a learner's completed work into score-tier counts
// and earned badges.
func (s *StatsService) Achievements(ctx context.Context, callerID uuid.UUID, role string, learnerID uuid.UUID) (*models.Achievements, error) {
	learner, err := s.roster.ResolveLearner(ctx, callerID, role, learnerID)
	if err != nil {
		return nil, err
	}

	records, err := s.progress.ListByLearner(ctx, learner.ID, 0)
	if err != nil {
		return nil, err
	}

	return ComputeAchievements(records, s.resolveMetas(ctx, records)), nil
}

func ComputeAchievements(records []*models.ActivityCompletion, metas map[uuid.UUID]*models.ActivityMeta) *models.Achievements {
	a := &models.Achievements{Badges: []models.Badge{}}

	scoreSum := 0
	for _, r := range records {
		if r.Status != models.ProgressCompleted {
			continue
		}
		score := EffectiveScore(r, isOpenEnded(metas, r.ActivityID))
		a.TotalActivities++
		a.TotalTimeSpent += r.TimeSpentSeconds
		scoreSum += score
		if score >= 90 {
			a.ExcellentCount++
		}
		if score >= 80 {
			a.GoodCount++
		}
		if score >= 70 {
			a.PassCount++
		}
	}
	a.AverageScore = RoundAverage(scoreSum, a.TotalActivities)

	if a.ExcellentCount >= 10 {
		a.Badges = append(a.Badges, models.Badge{Name: "Star Scholar", Icon: "trophy", Color: "#FFD700"})
	}
	if a.GoodCount >= 20 {
		a.Badges = append(a.Badges, models.Badge{Name: "Hard Worker", Icon: "star", Color: "#FF6B6B"})
	}
	if a.TotalActivities >= 50 {
		a.Badges = append(a.Badges, models.Badge{Name: "Persistent", Icon: "medal", Color: "#4ECDC4"})
	}
	if a.AverageScore >= 85 && a.TotalActivities > 0 {
		a.Badges = append(a.Badges, models.Badge{Name: "Outstanding", Icon: "crown", Color: "#9C27B0"})
	}

	return a
}

// resolveMetas bulk-loads catalog metadata for the referenced activities.
// Catalog failure degrades to an empty map; reporting then treats every
// activity as objectively scored rather than failing the read.
func (s *StatsService) resolveMetas(ctx context.Context, records []*models.ActivityCompletion) map[uuid.UUID]*models.ActivityMeta {
	seen := make(map[uuid.UUID]bool, len(records))
	ids := make([]uuid.UUID, 0, len(records))
	for _, r := range records {
		if !seen[r.ActivityID] {
			seen[r.ActivityID] = true
			ids = append(ids, r.ActivityID)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*models.ActivityMeta{}
	}

	metas, err := s.activities.GetMetaByIDs(ctx, ids)
	if err != nil {
		return map[uuid.UUID]*models.ActivityMeta{}
	}
	return metas
}

func isOpenEnded(metas map[uuid.UUID]*models.ActivityMeta, activityID uuid.UUID) bool {
	meta, ok := metas[activityID]
	return ok && meta.IsOpenEnded()
}
