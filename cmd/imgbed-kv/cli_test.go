package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// run executes the CLI against store and returns stdout.
func run(t *testing.T, store string, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--store", store, "--env-file", ""}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()
	return stdout.String(), err
}

func newStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "kv-store.json")
}

func TestPutGetDelete(t *testing.T) {
	store := newStorePath(t)

	_, err := run(t, store, "", "put", "img/cat.png", "payload", "--metadata", `{"Channel":"telegram"}`)
	require.NoError(t, err)

	out, err := run(t, store, "", "get", "img/cat.png")
	require.NoError(t, err)
	assert.Equal(t, "payload\n", out)

	out, err = run(t, store, "", "get", "img/cat.png", "--meta")
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"payload","metadata":{"Channel":"telegram"}}`, out)

	_, err = run(t, store, "", "delete", "img/cat.png", "img/missing.png")
	require.NoError(t, err)

	_, err = run(t, store, "", "get", "img/cat.png")
	assert.ErrorIs(t, err, errKeyNotFound)
}

func TestPutSettings(t *testing.T) {
	store := newStorePath(t)

	_, err := run(t, store, `{"maxSizeMB": 20}`, "put", "manage@sysConfig@upload")
	require.NoError(t, err)
	_, err = run(t, store, "", "put", "manage@sysConfig@motd", "{not json", "--raw")
	require.NoError(t, err)

	out, err := run(t, store, "", "get", "manage@sysConfig@upload")
	require.NoError(t, err)
	assert.JSONEq(t, `{"maxSizeMB":20}`, out)

	out, err = run(t, store, "", "list", "--prefix", "manage@sysConfig@")
	require.NoError(t, err)
	assert.Equal(t, "manage@sysConfig@motd\t{not json\nmanage@sysConfig@upload\t{\"maxSizeMB\":20}\n", out)
}

func TestPutInvalidMetadata(t *testing.T) {
	_, err := run(t, newStorePath(t), "", "put", "doc1", "x", "--metadata", "[1]")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	store := newStorePath(t)
	for _, key := range []string{"img/a.png", "img/b.jpg", "img/sub/c.png", "txt/readme"} {
		_, err := run(t, store, "", "put", key, "x")
		require.NoError(t, err)
	}

	t.Run("Prefix", func(t *testing.T) {
		out, err := run(t, store, "", "list", "--prefix", "img/")
		require.NoError(t, err)
		assert.Equal(t, "img/a.png\nimg/b.jpg\nimg/sub/c.png\n", out)
	})

	t.Run("Match", func(t *testing.T) {
		out, err := run(t, store, "", "list", "--match", "img/**/*.png")
		require.NoError(t, err)
		assert.Equal(t, "img/a.png\nimg/sub/c.png\n", out)
	})

	t.Run("Invalid Match", func(t *testing.T) {
		_, err := run(t, store, "", "list", "--match", "img/[")
		assert.Error(t, err)
	})

	t.Run("Page JSON", func(t *testing.T) {
		out, err := run(t, store, "", "list", "--limit", "2", "--json")
		require.NoError(t, err)

		var res struct {
			Keys []struct {
				Name string `json:"name"`
			} `json:"keys"`
			Cursor       string `json:"cursor"`
			ListComplete bool   `json:"list_complete"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Len(t, res.Keys, 2)
		assert.Equal(t, "img/b.jpg", res.Cursor)
		assert.False(t, res.ListComplete)
	})

	t.Run("All Pages YAML", func(t *testing.T) {
		out, err := run(t, store, "", "list", "--limit", "1", "--all", "--yaml")
		require.NoError(t, err)

		var res map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &res))
		assert.Len(t, res["keys"], 4)
		assert.Equal(t, true, res["list_complete"])
	})
}

func TestOps(t *testing.T) {
	store := newStorePath(t)

	first, err := run(t, store, "", "ops", "enqueue", "add", `{"file":"img/a.png"}`)
	require.NoError(t, err)
	first = strings.TrimSpace(first)
	require.NotEmpty(t, first)

	second, err := run(t, store, "", "ops", "enqueue", "remove")
	require.NoError(t, err)
	second = strings.TrimSpace(second)

	_, err = run(t, store, "", "ops", "ack", first)
	require.NoError(t, err)

	out, err := run(t, store, "", "ops", "list", "--pending", "--json")
	require.NoError(t, err)
	var pending []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, second, pending[0]["id"])

	out, err = run(t, store, "", "list", "--prefix", "manage@index@operation_")
	require.NoError(t, err)
	assert.Equal(t, "manage@index@operation_"+first+"\nmanage@index@operation_"+second+"\n", out)

	out, err = run(t, store, "", "ops", "purge")
	require.NoError(t, err)
	assert.Equal(t, "purged 1 operations\n", out)

	_, err = run(t, store, "", "ops", "list", "--pending", "--processed")
	assert.Error(t, err)

	_, err = run(t, store, "", "ops", "enqueue", "add", "{bad")
	assert.Error(t, err)
}

func TestState(t *testing.T) {
	store := newStorePath(t)
	_, err := run(t, store, "", "put", "doc1", "hello")
	require.NoError(t, err)

	out, err := run(t, store, "", "state", "--json")
	require.NoError(t, err)

	var state struct {
		RepositoryType string         `json:"repository_type"`
		Repository     map[string]any `json:"repository"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, "kv-file-repository", state.RepositoryType)
	assert.Equal(t, store, state.Repository["path"])
	assert.EqualValues(t, 1, state.Repository["files"])

	out, err = run(t, store, "", "state")
	require.NoError(t, err)
	assert.Contains(t, out, "repository_type: kv-file-repository")
}

func TestStoreLocation(t *testing.T) {
	t.Run("Environment", func(t *testing.T) {
		store := newStorePath(t)
		t.Setenv(envStorePath, store)

		cmd := newRootCmd()
		cmd.SetArgs([]string{"--env-file", "", "put", "doc1", "hello"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		require.NoError(t, cmd.Execute())
		assert.FileExists(t, store)
	})

	t.Run("Dotenv File", func(t *testing.T) {
		dir := t.TempDir()
		store := filepath.Join(dir, "from-dotenv.json")
		envFile := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(envFile, []byte(envStorePath+"="+store+"\n"), 0644))
		t.Setenv(envStorePath, "")
		os.Unsetenv(envStorePath)

		cmd := newRootCmd()
		cmd.SetArgs([]string{"--env-file", envFile, "put", "doc1", "hello"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		require.NoError(t, cmd.Execute())
		assert.FileExists(t, store)
	})

	t.Run("Config File", func(t *testing.T) {
		dir := t.TempDir()
		store := filepath.Join(dir, "from-config.json")
		logFile := filepath.Join(dir, "cli.log")
		config := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(config, []byte("store: "+store+"\nlog:\n  json: true\n  file: "+logFile+"\n"), 0644))
		t.Setenv(envStorePath, "")

		cmd := newRootCmd()
		cmd.SetArgs([]string{"--env-file", "", "--config", config, "put", "doc1", "hello"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		require.NoError(t, cmd.Execute())
		assert.FileExists(t, store)

		logs, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(logs), `"msg":"stored"`)
	})

	t.Run("Flag Wins", func(t *testing.T) {
		t.Setenv(envStorePath, "ignored.json")
		assert.Equal(t, "flag.json", storeLocation("flag.json", fileConfig{Store: "config.json"}))
	})

	t.Run("Missing Config", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestVersion(t *testing.T) {
	out, err := run(t, newStorePath(t), "", "version")
	require.NoError(t, err)
	assert.Equal(t, "imgbed-kv version dev\n", out)
}
