package services

import "testing"

func TestActiveTimeText(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		expected string
	}{
		{"under a minute", 45, "Active now"},
		{"minutes", 180, "Active for 3 minutes"},
		{"hours with remainder", 3900, "Active for 1 hours 5 minutes"},
		{"whole hours", 7200, "Active for 2 hours"},
		{"days with hours", 90000, "Active for 1 days 1 hours"},
		{"whole days", 172800, "Active for 2 days"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := activeTimeText(tc.seconds); got != tc.expected {
				t.Errorf("activeTimeText(%d): expected %q, got %q", tc.seconds, tc.expected, got)
			}
		})
	}
}

func TestTimeAgoText(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		expected string
	}{
		{"under a minute", 30, "Just now"},
		{"minutes", 125, "2 minutes ago"},
		{"hours", 7300, "2 hours ago"},
		{"days", 200000, "2 days ago"},
		{"months", 5200000, "2 months ago"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := timeAgoText(tc.seconds); got != tc.expected {
				t.Errorf("timeAgoText(%d): expected %q, got %q", tc.seconds, tc.expected, got)
			}
		})
	}
}
