package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/docqa/internal/extract"
	"github.com/cloo-solutions/docqa/internal/telemetry"
)

func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a document file",
		Long:  "Extract text from a PDF, text or markdown file and store its chunks in the vector collection",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}

	cmd.Flags().String("id", "", "Document id (defaults to the file name)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	documentID, _ := cmd.Flags().GetString("id")
	if documentID == "" {
		documentID = filepath.Base(path)
	}

	if _, err := extract.DetectFormat(path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := extract.Text(path, data)
	if err != nil {
		return fmt.Errorf("failed to extract text from %s: %w", path, err)
	}

	pipeline, err := loadPipeline(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ctx, tx := telemetry.StartTransaction(cmd.Context(), "docqad ingest", "cli")
	defer tx.End()

	result, err := pipeline.Ingestion.Ingest(ctx, documentID, text)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored %d chunks for %s\n", result.ChunkCount, result.DocumentID)
	return nil
}

func AskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the stored documents",
		Args:  cobra.ExactArgs(1),
		RunE:  runAsk,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	pipeline, err := loadPipeline(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ctx, tx := telemetry.StartTransaction(cmd.Context(), "docqad ask", "cli")
	defer tx.End()

	answer, err := pipeline.Query.AnswerQuestion(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	fmt.Fprintln(out, answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Fprintln(out, "\nSources:")
		for _, s := range answer.Sources {
			fmt.Fprintf(out, "  - %s\n", s)
		}
	}
	return nil
}

func SourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the document ids in the vector collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pipeline, err := loadPipeline(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer pipeline.Close()

			sources := pipeline.Sources.ListSources(ctx)
			out := cmd.OutOrStdout()
			if len(sources) == 0 {
				fmt.Fprintln(out, "No documents stored.")
				return nil
			}
			for _, s := range sources {
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}
}

var errResetNotConfirmed = errors.New("refusing to clear the collection without --yes")

func ResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record in the vector collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return errResetNotConfirmed
			}

			ctx := cmd.Context()
			pipeline, err := loadPipeline(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer pipeline.Close()

			if err := pipeline.Ingestion.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Collection %s cleared\n", pipeline.Config.Collection)
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Confirm deletion")

	return cmd
}
