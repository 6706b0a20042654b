package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args from an empty working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"health", "text", "voice", "face", "dashboard", "config", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestOutFlag(t *testing.T) {
	flag := textCmd().Flag("out")
	require.NotNil(t, flag)
	assert.Equal(t, outDefault, flag.NoOptDefVal)
	assert.NotNil(t, voiceCmd().Flag("out"))
	assert.NotNil(t, faceCmd().Flag("out"))
	assert.Equal(t, "0s", faceCmd().Flag("duration").DefValue)
}

func TestTextCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze_text" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"sentiment":"positive","confidence":0.8}`)
	}))
	defer srv.Close()

	out, err := execute(t, "--backend", srv.URL, "--log-level", "error", "text", "what", "a", "day")
	require.NoError(t, err)
	assert.Contains(t, out, "Positive (75%)")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "12.5%")
}

func TestTextCommandBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"No text provided"}`)
	}))
	defer srv.Close()

	_, err := execute(t, "--backend", srv.URL, "--log-level", "error", "text", "x")
	require.Error(t, err)
	assert.Equal(t, "No text provided", err.Error())
}

func TestHealthCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok"}`)
	}))
	out, err := execute(t, "--backend", srv.URL, "--log-level", "error", "health")
	require.NoError(t, err)
	assert.Contains(t, out, "connected to "+srv.URL)

	srv.Close()
	_, err = execute(t, "--backend", srv.URL, "--log-level", "error", "health")
	assert.ErrorContains(t, err, "unreachable")
}

func TestConfigCommandRedactsKey(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "super-secret")
	out, err := execute(t, "--backend", "http://localhost:5000", "--log-level", "error", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "http://localhost:5000")
	assert.NotContains(t, out, "super-secret")
}

func TestVoiceNeedsSource(t *testing.T) {
	_, err := execute(t, "--backend", "http://localhost:5000", "--log-level", "error", "voice")
	assert.ErrorContains(t, err, "no audio source")
}
