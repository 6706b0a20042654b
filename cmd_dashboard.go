package main

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/speech"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/tui"
)

func dashboardCmd() *cobra.Command {
	var audio string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive terminal dashboard for face, voice and text analysis",
		Long: `Opens a full-screen dashboard. Logs go to a file under paths.outputs
unless logging.file is set. Speech capture needs --audio and a Deepgram key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var engine speech.Engine
			if audio != "" {
				src, err := speech.OpenAudio(audio)
				if err != nil {
					return err
				}
				defer src.Close()
				dg := newDeepgram(src)
				defer dg.Close()
				engine = dg
			}
			p := newPipeline(engine)
			defer p.Close()
			p.Start(ctx)

			err := tui.Run(ctx, p, conf.Paths.Outputs)
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&audio, "audio", "", `PCM or WAV audio for speech capture ("-" for stdin)`)
	return cmd
}
