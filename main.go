package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/config"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/logging"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/orchestrator"
	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/speech"
)

var (
	cfgFile string
	version = "dev"

	v = config.New()

	conf      *config.Root
	log       *logrus.Logger
	logCloser io.Closer

	rootCmd = &cobra.Command{
		Use:   "emosense",
		Short: "Face, voice and text emotion analysis against an EmotionSense backend",
		Long: `emosense drives a running EmotionSense analysis backend: live facial
emotion from the backend camera, speech captured and analyzed for emotion,
and one-shot text sentiment. Results are shown as percentage charts and the
five most recent analyses are kept in a shared history.`,
		PersistentPreRunE:  initConfig,
		PersistentPostRunE: closeLog,
		SilenceUsage:       true,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: config/<CONFIG_ENV>/config.yaml, ./config.yaml or $HOME/.emosense/config.yaml)")
	pf.String("backend", "", "analysis backend base URL")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text, json)")

	_ = v.BindPFlag("backend.url", pf.Lookup("backend"))
	_ = v.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("logging.format", pf.Lookup("log-format"))

	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(textCmd())
	rootCmd.AddCommand(voiceCmd())
	rootCmd.AddCommand(faceCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	c, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	// the dashboard owns the terminal
	if cmd.Name() == "dashboard" && c.Logging.File == "" {
		c.Logging.File = filepath.Join(c.Paths.Outputs, "emosense.log")
	}
	l, closer, err := logging.Setup(c.Logging)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	conf, log, logCloser = c, l, closer
	log.WithField("backend", c.Backend.URL).Debug("configuration loaded")
	return nil
}

func closeLog(_ *cobra.Command, _ []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

func newPipeline(engine speech.Engine) *orchestrator.Pipeline {
	return orchestrator.NewPipeline(conf, engine, orchestrator.WithLogger(log))
}

// addOutFlag registers --out. Without a value the report goes under
// paths.outputs.
func addOutFlag(cmd *cobra.Command, out *string) {
	cmd.Flags().StringVar(out, "out", "", "export a JSON report (optionally into this directory)")
	cmd.Flags().Lookup("out").NoOptDefVal = outDefault
}

const outDefault = "<outputs>"

func exportReport(cmd *cobra.Command, p *orchestrator.Pipeline, out string) error {
	if out == "" {
		return nil
	}
	if out == outDefault {
		out = ""
	}
	path, err := p.Export(out)
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", path)
	return nil
}
