package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	consultationsLimit int
	consultationsJSON  bool
)

var consultationsCmd = &cobra.Command{
	Use:   "consultations",
	Short: "Show past consultations",
	Args:  cobra.NoArgs,
	RunE:  runConsultations,
}

func init() {
	consultationsCmd.Flags().IntVarP(&consultationsLimit, "limit", "n", 10, "maximum number of consultations")
	consultationsCmd.Flags().BoolVar(&consultationsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(consultationsCmd)
}

func runConsultations(cmd *cobra.Command, _ []string) error {
	if consultationService == nil {
		return errors.New("consultation service not configured")
	}

	records, err := consultationService.List(commandContext(cmd), currentUser(), consultationsLimit)
	if err != nil {
		return fmt.Errorf("failed to list consultations: %w", err)
	}

	if consultationsJSON {
		return printJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No consultations yet.")
		return nil
	}

	for i := range records {
		r := &records[i]
		marker := ""
		if r.Emergency {
			marker = " " + styled(cmd, emergencyStyle, "EMERGENCY")
		}
		cmd.Printf("  %s  %s  %s%s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.SessionID, r.AgentID, marker)
		cmd.Printf("    Q: %s\n", truncate(r.Query, 100))
		cmd.Printf("    A: %s\n", truncate(r.Response, 100))
		cmd.Println()
	}
	return nil
}
