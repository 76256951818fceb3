package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var voiceCmd = &cobra.Command{
	Use:   "voice <audio-file>",
	Short: "Process a spoken request from an audio file",
	Long: `Transcribe the given audio file with the configured speech-to-text
command and process the transcript as a calendar request.`,
	Args: cobra.ExactArgs(1),
	RunE: runVoice,
}

func runVoice(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	audio, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read audio file: %w", err)
	}
	if len(audio) == 0 {
		return fmt.Errorf("audio file %s is empty", args[0])
	}

	a, err := buildApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	temporal, err := temporalNow(a.cfg)
	if err != nil {
		return err
	}

	turnCtx, cancel := turnContext(ctx, 0)
	defer cancel()

	result, err := a.service.ProcessAudio(turnCtx, a.owner, audio, temporal)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}
