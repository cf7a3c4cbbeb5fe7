package cmd

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var (
	// Styles
	listHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	listCountStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	listDateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List your study session history",
	Long:  `List past and running study sessions, most recent first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireAuth(); err != nil {
			return err
		}

		ctx := context.Background()
		var sessions []internal.StudySession
		err = internal.ShowPending(ctx, "Loading sessions...", func() error {
			var reqErr error
			sessions, reqErr = app.client.Sessions(ctx)
			return reqErr
		})
		if err != nil {
			internal.PrintError(internal.UserMessage(err, "Failed to load sessions"))
			return err
		}

		displaySessions(sessions)
		return nil
	},
}

func displaySessions(sessions []internal.StudySession) {
	if len(sessions) == 0 {
		fmt.Println(listHeaderStyle.Render(internal.EmptySessionsText))
		return
	}

	fmt.Println(listHeaderStyle.Render(fmt.Sprintf("Found %d session(s)", len(sessions))))
	fmt.Println()

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, listTitleStyle.Render("ID")+"\t"+
		listTitleStyle.Render("Started")+"\t"+
		listTitleStyle.Render("Questions")+"\t"+
		listTitleStyle.Render("Score")+"\t")

	for i := range sessions {
		s := &sessions[i]

		started := listDateStyle.Render("-")
		if t := s.StartedAt(); !t.IsZero() {
			now := time.Now()
			diff := now.Sub(t)
			switch {
			case diff < 24*time.Hour:
				started = listDateStyle.Render(t.Format("Today 15:04"))
			case diff < 7*24*time.Hour:
				started = listDateStyle.Render(t.Format("Mon 15:04"))
			default:
				started = listDateStyle.Render(t.Format("2006-01-02"))
			}
		}

		score := listDateStyle.Render("in progress")
		if s.Score != nil {
			score = listCountStyle.Render(fmt.Sprintf("%.0f%%", *s.Score))
		}

		questions := listCountStyle.Render(strconv.Itoa(s.QuestionsCount))

		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n", s.ID, started, questions, score)
	}

	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
