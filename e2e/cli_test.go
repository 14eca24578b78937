package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfellows/userdir/internal/api"
	"github.com/jfellows/userdir/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "userdirctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/userdirctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create application with the fixed seed records loaded
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger: logger,
		Users:  app.Users,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type userResponse struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

type createdResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_UserCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// List the seeded users
	output, err := cli.run("users", "list")
	require.NoError(t, err, "output: %s", output)

	var users []userResponse
	require.NoError(t, json.Unmarshal([]byte(output), &users))
	require.Len(t, users, 5)
	assert.Equal(t, "johndoe", users[0].Username)

	// Filter by username substring
	output, err = cli.run("users", "list", "--filter", "username", "--value", "doe")
	require.NoError(t, err, "output: %s", output)

	require.NoError(t, json.Unmarshal([]byte(output), &users))
	assert.Len(t, users, 2)

	// Get by id
	output, err = cli.run("users", "get", "3")
	require.NoError(t, err, "output: %s", output)

	var user userResponse
	require.NoError(t, json.Unmarshal([]byte(output), &user))
	assert.Equal(t, "sundar2025", user.Username)

	// Create
	output, err = cli.run("users", "create", "--username", "clitest", "--display-name", "CLI Test")
	require.NoError(t, err, "output: %s", output)

	var created createdResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Equal(t, "User created successfully", created.Message)
	assert.Equal(t, 6, created.User.ID)

	// Update
	output, err = cli.run("users", "update", "6", "--username", "clitest2", "--display-name", "CLI Test Two")
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Contains(t, msg.Message, "updated")

	// Patch only one field
	output, err = cli.run("users", "patch", "6", "--display-name", "Patched Name")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("users", "get", "6")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &user))
	assert.Equal(t, "clitest2", user.Username)
	assert.Equal(t, "Patched Name", user.DisplayName)

	// Delete
	output, err = cli.run("users", "delete", "6")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("users", "get", "6")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}

func TestCLI_ValidationErrors(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Duplicate username
	output, err := cli.run("users", "create", "--username", "johndoe", "--display-name", "Copycat")
	assert.Error(t, err)
	assert.Contains(t, output, "Username already exists")

	// Too-short username reports every failed rule
	output, err = cli.run("users", "create", "--username", "a!", "--display-name", "Short Name")
	assert.Error(t, err)
	assert.Contains(t, output, "Username must be between 3 and 20 characters")
	assert.Contains(t, output, "letters, numbers, and underscores")

	// Bad id format
	output, err = cli.run("users", "get", "abc")
	assert.Error(t, err)
	assert.Contains(t, output, "Id must be a positive integer")
}
