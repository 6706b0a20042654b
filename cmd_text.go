package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/emotion"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/orchestrator"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/tui"
)

func textCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "text <text...>",
		Short: "Analyze the sentiment of a piece of text",
		Example: `  emosense text "I had a wonderful day"
  emosense text --out "this is terrible"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPipeline(nil)
			defer p.Close()

			res, err := p.Text.Analyze(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), emotion.TextClasses, res)
			return exportReport(cmd, p, out)
		},
	}
	addOutFlag(cmd, &out)
	return cmd
}

func printResult(w io.Writer, classes []emotion.Class, res *orchestrator.Result) {
	fmt.Fprintf(w, "%s (%d%%)\n\n", res.Label.Title(), res.DisplayConfidence)
	fmt.Fprintln(w, tui.Bars(classes, res.Chart, tui.DefaultBarWidth))
}
