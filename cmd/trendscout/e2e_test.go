package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/creack/pty"
)

// buildTrendscout builds the trendscout binary for testing.
func buildTrendscout(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "trendscout")

	cmd := exec.Command("go", "build", "-o", binPath, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	return binPath
}

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/trends", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"trends":["fixture-drones","fixture-solar"]}`))
	})
	mux.HandleFunc("POST /api/analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"keyword":"fixture-drones","ideas":"Fixture idea one"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestE2E_AnalyzeTrend(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and drives the binary")
	}
	binPath := buildTrendscout(t)
	srv := fixtureServer(t)

	// Clean home so config, logs and the event journal stay in the sandbox.
	homeDir := t.TempDir()
	cfgDir := filepath.Join(homeDir, ".trendscout")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	// Unstyled markdown keeps the result text contiguous on screen.
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("ui:\n  theme: notty\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(binPath, "--server", srv.URL)
	cmd.Env = append(os.Environ(), "HOME="+homeDir, "TRENDSCOUT_SERVER=")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		t.Fatalf("failed to start pty: %v", err)
	}
	defer func() {
		_ = ptmx.Close()
		_ = cmd.Process.Kill()
	}()

	if err := pty.Setsize(ptmx, &pty.Winsize{Cols: 120, Rows: 40}); err != nil {
		t.Fatalf("failed to set pty size: %v", err)
	}

	// Keys go straight to the program's pty; the console only watches its
	// output.
	var outputBuf bytes.Buffer
	console, err := expect.NewConsole(
		expect.WithStdin(ptmx),
		expect.WithStdout(&outputBuf),
		expect.WithDefaultTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("failed to create console: %v", err)
	}
	defer console.Close()

	t.Log("Waiting for trends...")
	if _, err := console.ExpectString("Select a trend"); err != nil {
		logs, _ := filepath.Glob(filepath.Join(homeDir, ".trendscout", "logs", "trendscout-*.log"))
		for _, path := range logs {
			if data, err := os.ReadFile(path); err == nil {
				t.Logf("%s:\n%s", filepath.Base(path), data)
			}
		}
		t.Fatalf("trends not loaded: %v\nScreen:\n%s", err, outputBuf.String())
	}

	time.Sleep(300 * time.Millisecond)
	t.Log("Selecting first trend...")
	if _, err := ptmx.WriteString("\x1b[B"); err != nil {
		t.Fatalf("failed to send down: %v", err)
	}
	if _, err := console.ExpectString("fixture-drones"); err != nil {
		t.Fatalf("trend not selected: %v\nScreen:\n%s", err, outputBuf.String())
	}

	t.Log("Submitting...")
	if _, err := ptmx.WriteString("\r"); err != nil {
		t.Fatalf("failed to send enter: %v", err)
	}

	if _, err := console.ExpectString("Fixture idea one"); err != nil {
		t.Fatalf("result not rendered: %v\nScreen:\n%s", err, outputBuf.String())
	}

	t.Log("Quitting...")
	if _, err := ptmx.WriteString("\x03"); err != nil {
		t.Fatalf("failed to send ctrl+c: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Error("process did not exit after ctrl+c")
	}

	if _, err := os.Stat(filepath.Join(homeDir, ".trendscout", "logs", "events.jsonl")); err != nil {
		t.Errorf("event journal not written: %v", err)
	}
}
