package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/orchestrator"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/tui"
)

func faceCmd() *cobra.Command {
	var (
		duration time.Duration
		out      string
	)
	cmd := &cobra.Command{
		Use:   "face",
		Short: "Stream live facial emotion from the backend camera",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			p := newPipeline(nil)
			defer p.Close()
			p.Start(ctx)

			wait, cancel := context.WithTimeout(ctx, conf.Backend.Timeout+conf.Connectivity.Interval)
			ok := p.WaitConnected(wait)
			cancel()
			if !ok {
				return fmt.Errorf("backend %s is unreachable", p.Backend().BaseURL())
			}
			if err := p.Camera.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintln(w, "Camera on (Ctrl-C to stop)")

			if duration > 0 {
				var stop context.CancelFunc
				ctx, stop = context.WithTimeout(ctx, duration)
				defer stop()
			}
			watchErr := watchCamera(ctx, p.Camera, func(s orchestrator.CameraSnapshot) {
				if s.Dominant != nil {
					fmt.Fprintf(w, "\n%s %.2f%%\n", emotion.Class(s.Dominant.Label).Title(), s.Dominant.Confidence)
				}
				fmt.Fprintln(w, tui.Bars(emotion.FaceClasses, s.Chart, tui.DefaultBarWidth))
			})

			exportErr := exportReport(cmd, p, out)
			stopCtx, cancelStop := context.WithTimeout(context.WithoutCancel(ctx), conf.Backend.Timeout)
			defer cancelStop()
			stopErr := p.Camera.Stop(stopCtx)
			if stopErr == nil {
				fmt.Fprintln(w, "Camera off")
			}
			return errors.Join(watchErr, exportErr, stopErr)
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (default: until Ctrl-C)")
	addOutFlag(cmd, &out)
	return cmd
}

// watchCamera calls fn for each new prediction until ctx ends or the
// session leaves Active.
func watchCamera(ctx context.Context, s *orchestrator.CameraSession, fn func(orchestrator.CameraSnapshot)) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	seen := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		snap := s.Snapshot()
		if snap.State != orchestrator.CameraActive {
			return s.LastError()
		}
		if snap.Updates != seen {
			seen = snap.Updates
			fn(snap)
		}
	}
}
