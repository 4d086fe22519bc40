package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/globalmedics/transcript-summarizer/apimodels"
	"github.com/globalmedics/transcript-summarizer/internal/config"
	"github.com/globalmedics/transcript-summarizer/internal/llm"
	"github.com/globalmedics/transcript-summarizer/internal/soap"
)

// NewSummarizeCmd builds the root command. newProvider is swapped in tests.
func NewSummarizeCmd(newProvider func(*config.ModelConfig) (llm.Provider, error)) *cobra.Command {
	var (
		inputPath string
		envFile   string
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a transcript file into a SOAP note",
		Long: `Reads a JSON file with a "conversation" field, sends it to the configured
model and prints the resulting SOAP note as JSON.

Model credentials are read from API_KEY, API_VERSION, AZURE_ENDPOINT and
AZURE_MODEL_DEPLOYMENT, or from the file given with --env-file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, err := ReadTranscriptFile(inputPath)
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig(envFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			provider, err := newProvider(&cfg.Model)
			if err != nil {
				return fmt.Errorf("failed to create model client: %w", err)
			}

			summary, err := soap.New(provider, soap.WithTimeout(cfg.Model.Timeout)).
				Summarize(cmd.Context(), transcript)
			if err != nil {
				return err
			}

			return printSummary(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "input_file.json", "JSON file containing the transcript")
	cmd.Flags().StringVar(&envFile, "env-file", config.DefaultEnvFile(), "optional dotenv file with model credentials (default from ENV_FILE)")

	return cmd
}

// ReadTranscriptFile returns the "conversation" field of a JSON file.
func ReadTranscriptFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open input file: %w", err)
	}

	req, err := apimodels.ParseTranscriptRequest(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse input file %s: %w", path, err)
	}
	return req.Conversation, nil
}

func printSummary(w io.Writer, summary *apimodels.SummaryResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(summary)
}
