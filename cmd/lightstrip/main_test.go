package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "run"}
	c.Flags().StringP("config", "c", "", "")
	c.Flags().String("log-level", "info", "")
	c.Flags().String("log-format", "console", "")
	addRunFlags(c.Flags())
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "strip.yaml")
	require.NoError(t, os.WriteFile(p, []byte("strip:\n  length: 60\ndriver: spi\nbrightness: 20\n"), 0644))

	cfg, err := loadConfig(newRunCmd(t, "--config", p, "--brightness", "88", "--cycle", "5", "--log-format", "json"))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Strip.Length)
	assert.Equal(t, "spi", cfg.Driver)
	assert.Equal(t, 88, cfg.Brightness)
	assert.Equal(t, 5.0, cfg.Playlist.CycleSeconds)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Monitor.Addr)
}

func TestDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := loadConfig(newRunCmd(t, "--addr", ""))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Strip.Length)
	assert.Equal(t, "", cfg.Monitor.Addr)
}

func TestInvalidFlagIsRejected(t *testing.T) {
	_, err := loadConfig(newRunCmd(t, "--length", "0"))
	assert.Error(t, err)
	_, err = loadConfig(newRunCmd(t, "--color-order", "RGBW"))
	assert.Error(t, err)
}

func TestPatternsCommand(t *testing.T) {
	var buf bytes.Buffer
	patternsCmd.SetOut(&buf)
	patternsCmd.Run(patternsCmd, nil)
	assert.Contains(t, buf.String(), "0x06  white\n")
	assert.Contains(t, buf.String(), "0x0D  gradient\n")
	assert.Contains(t, buf.String(), "0xFA  brightness 10 (88/255)\n")
}

func TestSendDryRun(t *testing.T) {
	var buf bytes.Buffer
	sendCmd.SetOut(&buf)
	require.NoError(t, sendCmd.Flags().Set("dry-run", "true"))
	t.Cleanup(func() { _ = sendCmd.Flags().Set("dry-run", "false") })

	require.NoError(t, sendCmd.RunE(sendCmd, []string{"brightness", "7"}))
	require.NoError(t, sendCmd.RunE(sendCmd, []string{"gradient"}))
	assert.Equal(t, "0xF7\n0x0D\n", buf.String())

	assert.Error(t, sendCmd.RunE(sendCmd, []string{"strobe"}))
}
