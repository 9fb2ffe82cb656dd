package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var speakCmd = &cobra.Command{
	Use:   "speak",
	Short: "Synthesize text to an audio file and print its path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		l, config := setup()

		text, _ := cmd.Flags().GetString("text")
		voice, _ := cmd.Flags().GetString("voice")
		format, _ := cmd.Flags().GetString("format")

		synth, err := newSynthesizer(config.TTS, l)
		if err != nil {
			return err
		}

		path, err := synth.Synthesize(cmd.Context(), text, voice, format)
		if err != nil {
			return err
		}

		l.Debug("audio written", zap.String("path", path))
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(speakCmd)

	speakCmd.Flags().String("text", "", "text to read aloud")
	speakCmd.Flags().String("voice", "", "voice name (default is tts.azure.voice)")
	speakCmd.Flags().String("format", "", "output format (default is tts.azure.format)")

	speakCmd.MarkFlagRequired("text")
}
