package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Interactive shell",
	Long: `Open an interactive shell with all sections in one place:
welcome, dashboard, study, chat and progress. Exactly one section is
visible at a time; the navigation line highlights the active one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		return runShell(app)
	},
}

// shell hosts the view router and flows for the interactive session.
type shell struct {
	app   *appContext
	auth  *internal.AuthFlow
	study *internal.StudyFlow
	chat  *internal.ChatFlow
}

func runShell(app *appContext) error {
	s := &shell{
		app:   app,
		auth:  internal.NewAuthFlow(app.store, app.client, app.router),
		study: internal.NewStudyFlow(app.store, app.client, app.router),
		chat:  internal.NewChatFlow(app.client),
	}

	app.router.SetLoader(internal.SectionDashboard, app.dashboardLoader())
	app.router.SetLoader(internal.SectionProgress, app.progressLoader())
	app.router.SetLoader(internal.SectionWelcome, func(ctx context.Context) error {
		fmt.Print(internal.RenderWelcome())
		return nil
	})
	app.router.SetLoader(internal.SectionStudy, func(ctx context.Context) error {
		fmt.Print(internal.RenderSessionSummary(app.store.Session(), s.study.QuestionsAdded()))
		return nil
	})
	app.router.SetLoader(internal.SectionChat, func(ctx context.Context) error {
		internal.PrintInfo("Type a message to chat; `back` returns to the dashboard.")
		return nil
	})

	s.study.SetDashboardRefresh(func(ctx context.Context) error {
		// The shell stays on the study section after a session ends;
		// the dashboard is refetched so its next activation is fresh.
		_, err := app.client.Dashboard(ctx)
		return err
	})

	// Re-render navigation after every store mutation.
	app.store.SetChangeListener(func() {
		fmt.Println()
		fmt.Println(internal.RenderNav(app.router.Active(), app.store.IsAuthenticated()))
	})

	ctx := context.Background()
	if app.store.IsAuthenticated() {
		s.activate(ctx, internal.SectionDashboard)
	} else {
		s.activate(ctx, internal.SectionWelcome)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("\n%s\n> ", internal.RenderNav(app.router.Active(), app.store.IsAuthenticated()))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		s.dispatch(ctx, line)
	}
}

func (s *shell) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	command := fields[0]

	switch command {
	case "help":
		s.printHelp()
	case "login":
		// runLogin reports its own errors and routes to the dashboard
		// on success.
		_ = runLogin(s.app)
	case "register":
		s.register(ctx)
	case "logout":
		s.auth.Logout()
		s.activate(ctx, internal.SectionWelcome)
	case "welcome", "dashboard", "study", "chat", "progress":
		section := internal.Section(command)
		if section != internal.SectionWelcome && !s.app.store.IsAuthenticated() {
			internal.PrintWarning("Log in first")
			return
		}
		s.activate(ctx, section)
	case "start":
		s.startSession(ctx)
	case "add":
		s.addQuestion(ctx)
	case "end":
		s.endSession(ctx)
	case "back":
		if s.app.store.IsAuthenticated() {
			s.activate(ctx, internal.SectionDashboard)
		} else {
			s.activate(ctx, internal.SectionWelcome)
		}
	case "status":
		s.aiStatus(ctx)
	default:
		if s.app.router.Active() == internal.SectionChat {
			s.send(ctx, line)
			return
		}
		internal.PrintWarning(fmt.Sprintf("Unknown command %q; try `help`", command))
	}
}

func (s *shell) activate(ctx context.Context, section internal.Section) {
	run := func() error { return s.app.router.Activate(ctx, section) }

	var err error
	if section.RequiresData() {
		err = internal.ShowPending(ctx, "Loading...", run)
	} else {
		err = run()
	}
	if err != nil {
		internal.PrintError(internal.UserMessage(err, "Failed to load section data"))
	}
}

func (s *shell) register(ctx context.Context) {
	username, err := promptLine("Username")
	if err != nil {
		return
	}
	email, err := promptLine("Email")
	if err != nil {
		return
	}
	password, err := promptPassword("Password")
	if err != nil {
		return
	}

	err = internal.ShowPending(ctx, "Creating account...", func() error {
		_, registerErr := s.auth.Register(ctx, username, email, password)
		return registerErr
	})
	if err != nil {
		var valErr *internal.ValidationError
		if errors.As(err, &valErr) {
			internal.PrintError("Please fill in all required fields")
			return
		}
		internal.PrintError(internal.UserMessage(err, internal.RegisterFailedMessage))
		return
	}

	internal.PrintSuccess(internal.RegisterSuccessMessage)
	time.Sleep(internal.LoginPromptDelay)
	internal.PrintInfo("Log in with your new account:")
	_ = runLogin(s.app)
}

func (s *shell) startSession(ctx context.Context) {
	if !s.app.store.IsAuthenticated() {
		internal.PrintWarning("Log in first")
		return
	}
	var sess *internal.StudySession
	err := internal.ShowPending(ctx, "Starting session...", func() error {
		var reqErr error
		sess, reqErr = s.study.CreateSession(ctx)
		return reqErr
	})
	if err != nil {
		internal.PrintError(internal.UserMessage(err, "Failed to start session"))
		return
	}
	if sess != nil {
		internal.PrintSuccess(fmt.Sprintf("Study session #%d started", sess.ID))
	}
}

func (s *shell) addQuestion(ctx context.Context) {
	if s.app.store.Session() == nil {
		internal.PrintWarning("No active session; `start` one first")
		return
	}
	text, err := promptLine("Question")
	if err != nil {
		return
	}
	answer, err := promptLine("Answer")
	if err != nil {
		return
	}
	difficulty, err := promptLine("Difficulty (easy|medium|hard, default medium)")
	if err != nil {
		return
	}
	topic, err := promptLine("Topic (optional)")
	if err != nil {
		return
	}

	var count int
	err = internal.ShowPending(ctx, "Adding question...", func() error {
		var reqErr error
		count, reqErr = s.study.AddQuestion(ctx, text, answer,
			internal.ParseDifficulty(difficulty), topic)
		return reqErr
	})
	if err != nil {
		var valErr *internal.ValidationError
		if errors.As(err, &valErr) {
			internal.PrintError("Please fill in the question and the answer")
			return
		}
		internal.PrintError(internal.UserMessage(err, "Failed to add question"))
		return
	}
	internal.PrintSuccess(fmt.Sprintf("%d question(s) added", count))
}

func (s *shell) endSession(ctx context.Context) {
	var ended *internal.StudySession
	err := internal.ShowPending(ctx, "Ending session...", func() error {
		var reqErr error
		ended, reqErr = s.study.EndSession(ctx)
		return reqErr
	})
	if err != nil {
		internal.PrintError(internal.UserMessage(err, "Failed to end session"))
		return
	}
	if ended == nil {
		internal.PrintInfo("No active session")
		return
	}
	internal.PrintSuccess(internal.RenderFinalScore(ended))
}

func (s *shell) send(ctx context.Context, message string) {
	before := len(s.chat.Transcript())
	_ = internal.ShowPending(ctx, "Assistant is typing...", func() error {
		_, err := s.chat.Send(ctx, message)
		return err
	})
	for _, entry := range s.chat.Transcript()[before:] {
		fmt.Print(internal.RenderTranscriptEntry(entry))
	}
}

func (s *shell) aiStatus(ctx context.Context) {
	var services map[string]internal.AIServiceInfo
	err := internal.ShowPending(ctx, "Checking AI services...", func() error {
		var reqErr error
		services, reqErr = s.app.client.AIStatus(ctx)
		return reqErr
	})
	if err != nil {
		internal.PrintError(internal.UserMessage(err, "Failed to fetch AI service status"))
		return
	}
	fmt.Print(internal.RenderAIStatus(services))
}

func (s *shell) printHelp() {
	fmt.Println(`Sections:  welcome dashboard study chat progress
Auth:      login register logout
Study:     start add end
Other:     status back help quit`)
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
