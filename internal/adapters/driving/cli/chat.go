package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/medrag/internal/adapters/driving/tui"
	"github.com/custodia-labs/medrag/internal/core/domain"
)

var (
	chatAgent       string
	chatSession     string
	chatProfilePath string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive consultation",
	Long: `Start an interactive consultation in the terminal. Each answer keeps
the last turns of the session as context.

Controls:
  Enter     - Ask
  PgUp/PgDn - Scroll the transcript
  Ctrl+N    - Start a new session
  Esc       - Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatAgent, "agent", "a", "", "agent to use (txagent or openai)")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "resume an existing session")
	chatCmd.Flags().StringVar(&chatProfilePath, "profile", "", "path to a patient profile TOML file")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if consultationService == nil {
		return errors.New("consultation service not configured")
	}

	agent := domain.AgentID(chatAgent)
	if chatAgent != "" && !agent.IsValid() {
		return fmt.Errorf("%w: unknown agent %q (use txagent or openai)", domain.ErrInvalidInput, chatAgent)
	}

	profile, err := loadProfile(chatProfilePath)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Consultation: consultationService}, tui.Config{
		UserID:    currentUser(),
		UserToken: identity.UserToken,
		Agent:     agent,
		Profile:   profile,
		SessionID: chatSession,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	app.WithContext(commandContext(cmd))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
