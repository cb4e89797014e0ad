package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

var (
	askAgent       string
	askSession     string
	askProfilePath string
	askHistory     bool
	askTopK        int
	askThreshold   float64
	askJSON        bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Ask a medical question. The answer is grounded in the documents you
uploaded and cites them by filename.

Agents:
  txagent - document-grounded container service (default)
  openai  - general chat-completion API

A patient profile can be supplied as a TOML file:
  age = 54
  gender = "female"
  conditions = ["type 2 diabetes"]
  medications = ["metformin"]
  allergies = ["penicillin"]`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askAgent, "agent", "a", "", "agent to use (txagent or openai)")
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session id for conversation history")
	askCmd.Flags().StringVar(&askProfilePath, "profile", "", "path to a patient profile TOML file")
	askCmd.Flags().BoolVar(&askHistory, "history", false, "include recent turns of the session")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (0 = configured default)")
	askCmd.Flags().Float64Var(&askThreshold, "threshold", 0, "minimum similarity (0 = configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if consultationService == nil {
		return errors.New("consultation service not configured")
	}

	ctx := commandContext(cmd)

	agent := domain.AgentID(askAgent)
	if askAgent != "" && !agent.IsValid() {
		return fmt.Errorf("%w: unknown agent %q (use txagent or openai)", domain.ErrInvalidInput, askAgent)
	}

	profile, err := loadProfile(askProfilePath)
	if err != nil {
		return err
	}

	req := &domain.ConsultationRequest{
		UserID:    currentUser(),
		UserToken: identity.UserToken,
		SessionID: askSession,
		Query:     args[0],
		Profile:   profile,
		Agent:     agent,
		TopK:      askTopK,
		Threshold: askThreshold,
	}

	if askHistory && askSession != "" {
		history, err := consultationService.History(ctx, req.UserID, askSession)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		req.History = history
	}

	result, err := consultationService.Consult(ctx, req)
	if err != nil {
		return fmt.Errorf("consultation failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, result)
	}
	printConsultation(cmd, result)
	return nil
}

// loadProfile reads a patient profile TOML file. An empty path means no profile.
func loadProfile(path string) (*domain.MedicalProfile, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile domain.MedicalProfile
	if err := toml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &profile, nil
}

func printConsultation(cmd *cobra.Command, result *domain.ConsultationResult) {
	if result.Safety.EmergencyDetected {
		cmd.Println(styled(cmd, emergencyStyle, "EMERGENCY"))
		cmd.Println()
	}

	cmd.Println(result.Text)
	cmd.Println()

	if len(result.Sources) > 0 {
		cmd.Println(styled(cmd, headingStyle, "Sources:"))
		for i, src := range result.Sources {
			cmd.Printf("  [%d] %s (%.0f%%)\n", i+1, src.Filename, src.Similarity*100)
		}
		cmd.Println()
	}

	if len(result.Safety.DetectedKeywords) > 0 {
		cmd.Printf("Detected: %v\n", result.Safety.DetectedKeywords)
	}
	cmd.Println(styled(cmd, mutedStyle, result.Safety.Disclaimer))
	if result.Recommendations.SuggestedAction != "" {
		cmd.Println(styled(cmd, mutedStyle, result.Recommendations.SuggestedAction))
	}
	cmd.Println(styled(cmd, mutedStyle, fmt.Sprintf("agent=%s session=%s time=%dms",
		result.AgentID, result.SessionID, result.ProcessingTimeMs)))
}
