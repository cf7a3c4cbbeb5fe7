package internal

import (
	"time"
)

// User is the authenticated platform user as returned by the backend.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Difficulty classifies a study question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the declared difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty maps user input to a difficulty level.
// Empty or unknown input falls back to medium, the server-side default.
func ParseDifficulty(s string) Difficulty {
	d := Difficulty(s)
	if !d.Valid() {
		return DifficultyMedium
	}
	return d
}

// StudySession mirrors the backend session record.
// Score and Duration are nil while the session is still running.
type StudySession struct {
	ID             int      `json:"id"`
	UserID         int      `json:"user_id,omitempty"`
	StartTime      string   `json:"start_time,omitempty"`
	EndTime        string   `json:"end_time,omitempty"`
	Duration       *float64 `json:"duration,omitempty"`
	Score          *float64 `json:"score,omitempty"`
	QuestionsCount int      `json:"questions_count,omitempty"`
}

// StartedAt parses the session start time. Returns the zero time when
// the field is absent or malformed.
func (s *StudySession) StartedAt() time.Time {
	if s == nil || s.StartTime == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.StartTime)
	if err != nil {
		// The backend emits bare ISO timestamps without a zone suffix.
		t, err = time.Parse("2006-01-02T15:04:05.999999", s.StartTime)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}

// QuestionRequest is the payload for adding a question to a session.
type QuestionRequest struct {
	QuestionText string     `json:"question_text"`
	AnswerText   string     `json:"answer_text"`
	Difficulty   Difficulty `json:"difficulty"`
	Topic        string     `json:"topic,omitempty"`
}

// TopicProgress is the per-topic score record from the backend.
type TopicProgress struct {
	ID          int     `json:"id,omitempty"`
	UserID      int     `json:"user_id,omitempty"`
	Topic       string  `json:"topic"`
	Score       float64 `json:"score"`
	LastUpdated string  `json:"last_updated,omitempty"`
}

// DashboardStats holds the aggregate counters shown on the dashboard.
type DashboardStats struct {
	TotalSessions  int `json:"total_sessions"`
	TotalQuestions int `json:"total_questions"`
}

// DashboardData is the combined dashboard payload.
type DashboardData struct {
	Stats          DashboardStats  `json:"stats"`
	RecentSessions []StudySession  `json:"recent_sessions"`
	Progress       []TopicProgress `json:"progress"`
}

// ChatReply is the assistant's answer to a chat message, including
// which backing AI service produced it.
type ChatReply struct {
	Response    string `json:"response"`
	ServiceUsed string `json:"service_used"`
	Success     bool   `json:"success"`
}

// AIServiceInfo describes the availability of one backend AI service.
type AIServiceInfo struct {
	Available bool    `json:"available"`
	Error     string  `json:"error,omitempty"`
	LastTest  float64 `json:"last_test,omitempty"`
}

// Sender identifies which side of the chat produced a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// TranscriptEntry is one message in the chat transcript.
// The transcript is append-only and lives in memory only.
type TranscriptEntry struct {
	Sender      Sender
	Text        string
	Timestamp   time.Time
	ServiceUsed string
}
