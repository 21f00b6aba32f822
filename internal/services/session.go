package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"littlesteps-backend/internal/models"
	"littlesteps-backend/internal/repository"
)

// Caller roles carried in the JWT.
const (
	RoleStudent  = "student"
	RoleGuardian = "guardian"
	RoleTeacher  = "teacher"
	RoleAdmin    = "admin"
)

type SessionService struct {
	sessions *repository.SessionRepo
	learners *repository.LearnerRepo
}

func NewSessionService(sessions *repository.SessionRepo, learners *repository.LearnerRepo) *SessionService {
	return &SessionService{sessions: sessions, learners: learners}
}

// ResolveLearner maps an authenticated caller to the learner record they may
// act on. Students resolve to their own profile (learner id equals account
// id); guardians must own the child; admins pass through. Any failure is
// NotFound and nothing is mutated.
func (s *SessionService) ResolveLearner(ctx context.Context, callerID uuid.UUID, role string, learnerID uuid.UUID) (*models.Learner, error) {
	var (
		learner *models.Learner
		err     error
	)

	switch role {
	case RoleStudent:
		learner, err = s.learners.GetByID(ctx, callerID)
	case RoleGuardian:
		if learnerID == uuid.Nil {
			return nil, &ValidationError{Fields: map[string]string{"learner_id": "Learner ID is required"}}
		}
		learner, err = s.learners.GetOwnedByGuardian(ctx, learnerID, callerID)
	case RoleAdmin, RoleTeacher:
		if learnerID == uuid.Nil {
			return nil, &ValidationError{Fields: map[string]string{"learner_id": "Learner ID is required"}}
		}
		learner, err = s.learners.GetByID(ctx, learnerID)
	default:
		return nil, &ForbiddenError{Message: "Caller may not manage learner sessions"}
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Learner not found"}
		}
		return nil, &DependencyError{Message: "Roster lookup failed"}
	}
	return learner, nil
}

// Start opens a session for the learner or refreshes the open one. Safe to
// retry: a second start while active just moves the start time forward.
func (s *SessionService) Start(ctx context.Context, callerID uuid.UUID, role string, learnerID uuid.UUID) (*models.AppSession, error) {
	learner, err := s.ResolveLearner(ctx, callerID, role, learnerID)
	if err != nil {
		return nil, err
	}
	return s.sessions.Start(ctx, learner.ID)
}

// End closes the learner's open session. With no open session the caller
// gets NotFound, which is also what the loser of a concurrent double-close
// observes.
func (s *SessionService) End(ctx context.Context, callerID uuid.UUID, role string, learnerID uuid.UUID) (*models.AppSession, error) {
	learner, err := s.ResolveLearner(ctx, callerID, role, learnerID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.End(ctx, learner.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "No active session found"}
		}
		return nil, err
	}
	return session, nil
}

func (s *SessionService) List(ctx context.Context, callerID uuid.UUID, role string, learnerID uuid.UUID, page, limit int) (*models.SessionPage, error) {
	learner, err := s.ResolveLearner(ctx, callerID, role, learnerID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	sessions, total, err := s.sessions.ListByLearner(ctx, learner.ID, page, limit)
	if err != nil {
		return nil, err
	}

	pages := total / limit
	if total%limit > 0 {
		pages++
	}

	return &models.SessionPage{
		Sessions: sessions,
		Total:    total,
		Page:     page,
		Limit:    limit,
		Pages:    pages,
	}, nil
}

// TotalUsage sums completed sessions, optionally restricted to a start-date
// range. Both bounds must be present for the filter to apply.
func (s *SessionService) TotalUsage(ctx context.Context, callerID uuid.UUID, role string, learnerID uuid.UUID, from, to *time.Time) (*models.UsageTotals, error) {
	learner, err := s.ResolveLearner(ctx, callerID, role, learnerID)
	if err != nil {
		return nil, err
	}

	if from == nil || to == nil {
		from, to = nil, nil
	}

	totalSeconds, sessionCount, err := s.sessions.UsageTotals(ctx, learner.ID, from, to)
	if err != nil {
		return nil, err
	}

	return &models.UsageTotals{
		TotalSeconds: totalSeconds,
		SessionCount: sessionCount,
		TotalMinutes: totalSeconds / 60,
		TotalHours:   totalSeconds / 3600,
	}, nil
}

// LastActivity reports the learner's most recent usage: the open session if
// one exists, otherwise the latest completed one, otherwise "no activity".
func (s *SessionService) LastActivity(ctx context.Context, callerID uuid.UUID, role string, learnerID uuid.UUID) (*models.LastActivity, error) {
	learner, err := s.ResolveLearner(ctx, callerID, role, learnerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	active, err := s.sessions.LatestActive(ctx, learner.ID)
	if err == nil {
		elapsed := int(now.Sub(active.StartedAt).Seconds())
		return &models.LastActivity{
			LastActivityAt: &active.StartedAt,
			TimeAgo:        activeTimeText(elapsed),
			DurationSecs:   elapsed,
			IsActive:       true,
			StatusText:     "Active",
		}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	last, err := s.sessions.LatestCompleted(ctx, learner.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.LastActivity{
				TimeAgo:    "No activity yet",
				IsActive:   false,
				StatusText: "No activity yet",
			}, nil
		}
		return nil, err
	}

	elapsed := int(now.Sub(*last.EndedAt).Seconds())
	return &models.LastActivity{
		LastActivityAt: last.EndedAt,
		TimeAgo:        timeAgoText(elapsed),
		DurationSecs:   last.DurationSeconds,
		IsActive:       false,
		StatusText:     "Ended",
	}, nil
}

// activeTimeText describes how long an open session has been running.
func activeTimeText(seconds int) string {
	switch {
	case seconds < 60:
		return "Active now"
	case seconds < 3600:
		return fmt.Sprintf("Active for %d minutes", seconds/60)
	case seconds < 86400:
		hours := seconds / 3600
		mins := (seconds % 3600) / 60
		if mins > 0 {
			return fmt.Sprintf("Active for %d hours %d minutes", hours, mins)
		}
		return fmt.Sprintf("Active for %d hours", hours)
	default:
		days := seconds / 86400
		hours := (seconds % 86400) / 3600
		if hours > 0 {
			return fmt.Sprintf("Active for %d days %d hours", days, hours)
		}
		return fmt.Sprintf("Active for %d days", days)
	}
}

// timeAgoText buckets how long ago a closed session ended.
func timeAgoText(seconds int) string {
	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return fmt.Sprintf("%d minutes ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%d days ago", seconds/86400)
	default:
		return fmt.Sprintf("%d months ago", seconds/2592000)
	}
}
