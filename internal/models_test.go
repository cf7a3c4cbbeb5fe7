package internal

import (
	"testing"
	"time"
)

func TestDifficultyValid(t *testing.T) {
	tests := []struct {
		name string
		d    Difficulty
		want bool
	}{
		{name: "easy", d: DifficultyEasy, want: true},
		{name: "medium", d: DifficultyMedium, want: true},
		{name: "hard", d: DifficultyHard, want: true},
		{name: "empty", d: Difficulty(""), want: false},
		{name: "unknown", d: Difficulty("extreme"), want: false},
		{name: "wrong case", d: Difficulty("Easy"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Valid(); got != tt.want {
				t.Errorf("Difficulty(%q).Valid() = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Difficulty
	}{
		{name: "easy", input: "easy", want: DifficultyEasy},
		{name: "medium", input: "medium", want: DifficultyMedium},
		{name: "hard", input: "hard", want: DifficultyHard},
		{name: "empty falls back to medium", input: "", want: DifficultyMedium},
		{name: "unknown falls back to medium", input: "nightmare", want: DifficultyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDifficulty(tt.input); got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStudySessionStartedAt(t *testing.T) {
	tests := []struct {
		name      string
		session   *StudySession
		wantZero  bool
		wantYear  int
		wantMonth time.Month
	}{
		{
			name:     "nil session",
			session:  nil,
			wantZero: true,
		},
		{
			name:     "empty start time",
			session:  &StudySession{ID: 1},
			wantZero: true,
		},
		{
			name:     "malformed start time",
			session:  &StudySession{ID: 1, StartTime: "yesterday"},
			wantZero: true,
		},
		{
			name:      "rfc3339",
			session:   &StudySession{ID: 1, StartTime: "2025-03-14T09:30:00Z"},
			wantYear:  2025,
			wantMonth: time.March,
		},
		{
			name:      "bare iso without zone",
			session:   &StudySession{ID: 1, StartTime: "2025-03-14T09:30:00.123456"},
			wantYear:  2025,
			wantMonth: time.March,
		},
		{
			name:      "bare iso without fraction",
			session:   &StudySession{ID: 1, StartTime: "2025-07-01T18:00:00"},
			wantYear:  2025,
			wantMonth: time.July,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.session.StartedAt()
			if tt.wantZero {
				if !got.IsZero() {
					t.Errorf("StartedAt() = %v, want zero time", got)
				}
				return
			}
			if got.IsZero() {
				t.Fatal("StartedAt() returned zero time, want parsed time")
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth {
				t.Errorf("StartedAt() = %v, want year %d month %v", got, tt.wantYear, tt.wantMonth)
			}
		})
	}
}
