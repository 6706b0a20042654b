package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/orchestrator"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/speech"
)

func voiceCmd() *cobra.Command {
	var (
		audio string
		text  string
		out   string
	)
	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Capture speech and analyze its emotion",
		Long: `Streams 16-bit PCM audio to the speech engine until two seconds of
silence, the thirty second limit or Ctrl-C, then sends the transcript for
voice emotion analysis. Use --text to analyze a transcript directly.`,
		Example: `  arecord -f S16_LE -r 16000 -c 1 -t raw | emosense voice --audio -
  emosense voice --audio sample.wav
  emosense voice --text "I can't believe this happened"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			var engine speech.Engine
			if text == "" {
				if audio == "" {
					return errors.New(`no audio source: pass --audio <file> or --audio - for stdin, or --text`)
				}
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

			var (
				res *orchestrator.Result
				err error
			)
			if text != "" {
				res, err = p.Voice.Analyze(ctx, text)
			} else {
				if err := capture(ctx, w, p.Speech); err != nil {
					return err
				}
				res, err = p.AnalyzeTranscript(context.WithoutCancel(ctx))
			}
			if err != nil {
				return err
			}
			printResult(w, emotion.FaceClasses, res)
			return exportReport(cmd, p, out)
		},
	}
	cmd.Flags().StringVar(&audio, "audio", "", `PCM or WAV audio to stream ("-" for stdin)`)
	cmd.Flags().StringVar(&text, "text", "", "analyze this transcript instead of capturing speech")
	addOutFlag(cmd, &out)
	return cmd
}

func newDeepgram(src io.Reader) *speech.Deepgram {
	dg := conf.Speech.Deepgram
	return speech.NewDeepgram(speech.DeepgramConfig{
		URL:        dg.URL,
		APIKey:     dg.APIKey,
		Model:      dg.Model,
		Language:   conf.Speech.Language,
		SampleRate: dg.SampleRate,
		Channels:   dg.Channels,
	}, src, log)
}

// capture listens until the session stops on its own or ctx ends, echoing
// the transcript as it changes.
func capture(ctx context.Context, w io.Writer, s *orchestrator.SpeechSession) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintln(w, "Listening... (Ctrl-C to stop)")

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	last := ""
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			fmt.Fprintln(w)
			return nil
		case <-ticker.C:
		}
		snap := s.Snapshot()
		if snap.Transcript != last {
			last = snap.Transcript
			fmt.Fprintf(w, "\r[%2ds] %s", snap.Remaining, last)
		}
		switch snap.State {
		case orchestrator.SpeechStopped:
			fmt.Fprintf(w, "\nStopped (%s)\n", snap.StopReason)
			return nil
		case orchestrator.SpeechErrored:
			fmt.Fprintln(w)
			return s.LastError()
		}
	}
}
