package internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	activeNavStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Underline(true)

	barFillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	aiBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Empty-state texts. Rendered instead of an empty container.
const (
	EmptySessionsText = "No sessions yet"
	EmptyProgressText = "No progress recorded yet"
)

const chartBarWidth = 30

// RenderNav renders the section navigation line, highlighting the
// active section. Protected sections are hidden when logged out; that
// is the only gate on them.
func RenderNav(active Section, authenticated bool) string {
	var parts []string
	for _, s := range Sections() {
		if !authenticated && s != SectionWelcome {
			continue
		}
		if authenticated && s == SectionWelcome {
			continue
		}
		label := string(s)
		if s == active {
			parts = append(parts, activeNavStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, mutedStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

// RenderWelcome renders the unauthenticated landing view.
func RenderWelcome() string {
	var b strings.Builder
	banner := figure.NewFigure("studyctl", "", true)
	b.WriteString(banner.String())
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("AI Study Platform"))
	b.WriteString("\n\n")
	b.WriteString("Track study sessions, review your progress and chat with the assistant.\n\n")
	b.WriteString(mutedStyle.Render("Log in with `login` or create an account with `register`."))
	b.WriteString("\n")
	return b.String()
}

// RenderDashboard formats the dashboard payload: aggregate stats,
// recent sessions and progress by topic. Pure formatting; d comes
// already fetched.
func RenderDashboard(d *DashboardData) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Sessions: %s   Questions: %s\n\n",
		scoreStyle.Render(fmt.Sprintf("%d", d.Stats.TotalSessions)),
		scoreStyle.Render(fmt.Sprintf("%d", d.Stats.TotalQuestions))))

	b.WriteString(titleStyle.Render("Recent sessions"))
	b.WriteString("\n")
	b.WriteString(RenderRecentSessions(d.RecentSessions))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Progress by topic"))
	b.WriteString("\n")
	b.WriteString(RenderProgressChart(d.Progress))

	return b.String()
}

// RenderRecentSessions formats the recent-session list, one line per
// session.
func RenderRecentSessions(sessions []StudySession) string {
	if len(sessions) == 0 {
		return mutedStyle.Render(EmptySessionsText) + "\n"
	}

	var b strings.Builder
	for i := range sessions {
		s := &sessions[i]
		score := mutedStyle.Render("in progress")
		if s.Score != nil {
			score = scoreStyle.Render(fmt.Sprintf("%.0f%%", clampScore(*s.Score)))
		}
		duration := ""
		if s.Duration != nil {
			duration = mutedStyle.Render(fmt.Sprintf("  %d min", int(*s.Duration/60)))
		}
		started := ""
		if t := s.StartedAt(); !t.IsZero() {
			started = mutedStyle.Render("  " + t.Format("Jan 02 15:04"))
		}
		b.WriteString(fmt.Sprintf("  #%d  %s%s%s\n", s.ID, score, duration, started))
	}
	return b.String()
}

// RenderProgressChart renders a horizontal bar chart of per-topic
// scores. The display axis is clamped to [0,100].
func RenderProgressChart(progress []TopicProgress) string {
	if len(progress) == 0 {
		return mutedStyle.Render(EmptyProgressText) + "\n"
	}

	topicWidth := 0
	for _, p := range progress {
		if len(p.Topic) > topicWidth {
			topicWidth = len(p.Topic)
		}
	}
	if topicWidth > 24 {
		topicWidth = 24
	}

	var b strings.Builder
	for _, p := range progress {
		topic := p.Topic
		if len(topic) > 24 {
			topic = topic[:21] + "..."
		}
		score := clampScore(p.Score)
		filled := int(score / 100 * chartBarWidth)
		bar := barFillStyle.Render(strings.Repeat("█", filled)) +
			mutedStyle.Render(strings.Repeat("░", chartBarWidth-filled))
		b.WriteString(fmt.Sprintf("  %-*s %s %s\n",
			topicWidth, topic, bar, scoreStyle.Render(fmt.Sprintf("%3.0f%%", score))))
	}
	return b.String()
}

// RenderSessionSummary renders the active-session header of the study
// section.
func RenderSessionSummary(s *StudySession, questionsAdded int) string {
	if s == nil {
		return mutedStyle.Render("No active session. Start one with `study start`.") + "\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Study session #%d", s.ID)))
	b.WriteString("\n")
	if t := s.StartedAt(); !t.IsZero() {
		b.WriteString(mutedStyle.Render("Started " + t.Format("Jan 02 15:04")))
		b.WriteString("\n")
	}
	switch questionsAdded {
	case 0:
		b.WriteString(mutedStyle.Render("No questions added yet"))
	case 1:
		b.WriteString(scoreStyle.Render("1 question added"))
	default:
		b.WriteString(scoreStyle.Render(fmt.Sprintf("%d questions added", questionsAdded)))
	}
	b.WriteString("\n")
	return b.String()
}

// RenderFinalScore reports the score of an ended session.
func RenderFinalScore(s *StudySession) string {
	if s == nil || s.Score == nil {
		return "Session finished."
	}
	return fmt.Sprintf("Session finished! Score: %s",
		scoreStyle.Render(fmt.Sprintf("%.0f%%", clampScore(*s.Score))))
}

// RenderTranscriptEntry formats one chat transcript entry.
func RenderTranscriptEntry(e TranscriptEntry) string {
	meta := e.Timestamp.Format("15:04:05")
	if e.Sender == SenderAI && e.ServiceUsed != "" {
		meta += " · " + e.ServiceUsed
	}

	switch e.Sender {
	case SenderUser:
		return fmt.Sprintf("%s %s\n%s\n",
			userBubbleStyle.Render("you>"), e.Text, mutedStyle.Render(meta))
	default:
		return fmt.Sprintf("%s %s\n%s\n",
			aiBubbleStyle.Render("ai>"), e.Text, mutedStyle.Render(meta))
	}
}

// RenderAIStatus formats the AI service availability listing.
func RenderAIStatus(services map[string]AIServiceInfo) string {
	if len(services) == 0 {
		return mutedStyle.Render("No AI services configured") + "\n"
	}

	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		info := services[name]
		if info.Available {
			b.WriteString(fmt.Sprintf("  %s %s\n", onlineStyle.Render("●"), name))
		} else {
			line := fmt.Sprintf("  %s %s", offlineStyle.Render("●"), name)
			if info.Error != "" {
				line += "  " + mutedStyle.Render(info.Error)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
