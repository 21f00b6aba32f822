package services

import (
	"reflect"
	"testing"

	"littlesteps-backend/internal/models"
)

func TestNormalizeAnswers(t *testing.T) {
	answers := []models.Answer{
		{ItemID: "q-abc", Answer: " red ", IsCorrect: true},
		{ItemID: "", Answer: "blue", IsCorrect: false},
		{ItemID: "   ", Answer: "green", IsCorrect: true},
	}

	normalized := NormalizeAnswers(answers)

	expected := []models.Answer{
		{ItemID: "q-abc", Answer: "red", IsCorrect: true},
		{ItemID: "question_1", Answer: "blue", IsCorrect: false},
		{ItemID: "question_2", Answer: "green", IsCorrect: true},
	}

	if !reflect.DeepEqual(normalized, expected) {
		t.Errorf("Expected %+v, got %+v", expected, normalized)
	}
}

func TestNormalizeAnswers_Empty(t *testing.T) {
	if got := NormalizeAnswers(nil); len(got) != 0 {
		t.Errorf("Expected empty slice, got %+v", got)
	}
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name      string
		kind      string
		score     int
		timeSpent int
		badFields []string
	}{
		{"valid lesson", models.KindLesson, 85, 120, nil},
		{"valid game at bounds", models.KindGame, 100, 0, nil},
		{"score too high", models.KindLesson, 101, 0, []string{"system_score"}},
		{"score negative", models.KindLesson, -1, 0, []string{"system_score"}},
		{"negative time", models.KindGame, 50, -5, []string{"time_spent_seconds"}},
		{"unknown kind", "story", 50, 0, []string{"kind"}},
		{"everything wrong", "story", 200, -1, []string{"kind", "system_score", "time_spent_seconds"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := validateSubmission(tc.kind, tc.score, tc.timeSpent)

			if len(fields) != len(tc.badFields) {
				t.Fatalf("Expected %d invalid fields, got %v", len(tc.badFields), fields)
			}
			for _, f := range tc.badFields {
				if _, ok := fields[f]; !ok {
					t.Errorf("Expected field %q to be flagged, got %v", f, fields)
				}
			}
		})
	}
}

func TestScoreAchievements(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		timeSpent int
		expected  []string
	}{
		{"excellent and fast", 95, 45, []string{"excellent", "good", "pass", "fast"}},
		{"good only tiers", 82, 300, []string{"good", "pass"}},
		{"pass boundary", 70, 61, []string{"pass"}},
		{"below pass", 50, 30, []string{"fast"}},
		{"zero time is not fast", 95, 0, []string{"excellent", "good", "pass"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := scoreAchievements(tc.score, tc.timeSpent)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}
