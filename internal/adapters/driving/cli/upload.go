package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driving"
)

var uploadTags []string

var uploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Upload medical documents",
	Long: `Extract text from each file, split it into chunks, embed every chunk and
store it for retrieval. Supported formats are PDF, DOCX, plain text and
markdown (.md, .markdown).

Chunks that fail to embed are reported; the document is kept as long as
at least one chunk was stored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringSliceVarP(&uploadTags, "tag", "t", nil, "tag to attach (repeatable)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errors.New("upload service not configured")
	}

	ctx := commandContext(cmd)

	var failed int
	for _, path := range args {
		if err := uploadFile(ctx, cmd, path); err != nil {
			failed++
			cmd.Printf("%s %s: %v\n", styled(cmd, warningStyle, "✗"), path, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}

func uploadFile(ctx context.Context, cmd *cobra.Command, path string) error {
	if !uploadService.Supports(path) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	result, err := uploadService.Upload(ctx, driving.UploadRequest{
		UserID:    currentUser(),
		UserToken: identity.UserToken,
		Filename:  filepath.Base(path),
		Content:   content,
		Tags:      uploadTags,
	})
	if err != nil {
		return err
	}

	printUploadResult(cmd, result)
	return nil
}

func printUploadResult(cmd *cobra.Command, result *domain.UploadResult) {
	mark := styled(cmd, successStyle, "✓")
	if result.Partial() {
		mark = styled(cmd, warningStyle, "!")
	}

	cmd.Printf("%s %s (%s)\n", mark, result.Document.Filename, result.Document.ID)
	cmd.Printf("    Chunks stored: %d/%d\n", len(result.Stored), result.TotalChunks())
	cmd.Printf("    Extracted: %d characters via %s\n", result.Extraction.CleanedLength, result.Extraction.Method)
	for _, f := range result.Failed {
		cmd.Printf("    %s\n", styled(cmd, warningStyle, f.Error()))
	}
}
