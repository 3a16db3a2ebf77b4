package main

import (
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String(flagServer, "", "")
	set.Bool(flagInsecure, false, "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestConfig(t *testing.T) {
	home, err := ioutil.TempDir("", "resman-home")
	require.NoError(t, err)
	defer os.RemoveAll(home)
	os.Setenv("RESMAN_HOME", home)
	defer os.Unsetenv("RESMAN_HOME")

	// Nothing is known about the API server yet
	_, err = getConfig(newTestContext(t))
	require.Error(t, err)

	cfg, err := getConfig(
		newTestContext(t, "--server", "https://resman.example.com"),
	)
	require.NoError(t, err)
	require.Equal(t, "https://resman.example.com", cfg.APIAddress)
	require.Equal(t, home, cfg.Home)
	require.Equal(t, "file", cfg.SessionBackend)
	require.Equal(t, 120*time.Second, cfg.ResendCooldown)
	require.Equal(t, 10*time.Second, cfg.NoticeTTL)
	require.Equal(t, 2*time.Second, cfg.RedirectDelay)
	require.False(t, cfg.Insecure)

	// Once saved, the API server is remembered
	require.NoError(t, saveConfig(cfg))
	require.FileExists(t, filepath.Join(home, "config"))
	cfg, err = getConfig(newTestContext(t, "-insecure"))
	require.NoError(t, err)
	require.Equal(t, "https://resman.example.com", cfg.APIAddress)
	require.True(t, cfg.Insecure)

	// The environment overrides the saved config
	os.Setenv("RESMAN_API_ADDRESS", "http://localhost:8080")
	defer os.Unsetenv("RESMAN_API_ADDRESS")
	cfg, err = getConfig(newTestContext(t))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.APIAddress)
}

func TestGetSessionStore(t *testing.T) {
	store, err := getSessionStore(&config{SessionBackend: "file", Home: "/tmp"})
	require.NoError(t, err)
	require.NotNil(t, store)
	_, err = getSessionStore(&config{SessionBackend: "carrier-pigeon"})
	require.Error(t, err)
}
