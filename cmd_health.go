package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/clients"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the analysis backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl := clients.NewHTTP(conf.Backend.URL, conf.Backend.Timeout)
			if !cl.Health(cmd.Context()) {
				return fmt.Errorf("backend %s is unreachable", cl.BaseURL())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ connected to %s\n", cl.BaseURL())
			return nil
		},
	}
}
