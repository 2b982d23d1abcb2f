package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tbuck/tbuck/pkg/logger"
)

func TestNew(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if w == nil {
		t.Error("New() returned nil watcher")
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Close() error = %v", closeErr)
	}
}

func TestStartMissingDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	nonExistent := filepath.Join(tmpDir, "nonexistent", "app.log")

	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			t.Logf("Close() error = %v", closeErr)
		}
	}()

	// All parent directories missing means nothing can be watched.
	startErr := w.Start(context.Background(), []string{nonExistent})
	if !errors.Is(startErr, ErrNoWatchablePaths) {
		t.Errorf("Start() error = %v, want ErrNoWatchablePaths", startErr)
	}
}

func TestStartAlreadyStarted(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "app.log")

	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			t.Logf("Close() error = %v", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if startErr := w.Start(ctx, []string{testFile}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	startErr := w.Start(ctx, []string{testFile})
	if !errors.Is(startErr, ErrAlreadyStarted) {
		t.Errorf("Start() error = %v, want ErrAlreadyStarted", startErr)
	}
}

func TestFileCreate(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "app.log")

	w, err := New(Config{
		DebounceInterval: 50 * time.Millisecond,
	}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			t.Logf("Close() error = %v", closeErr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The file does not exist yet; watching its directory still works.
	if startErr := w.Start(ctx, []string{testFile}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	if writeErr := os.WriteFile(testFile, []byte("line\n"), 0600); writeErr != nil {
		t.Fatalf("Failed to create test file: %v", writeErr)
	}

	select {
	case event := <-w.Events():
		if event.Path != testFile {
			t.Errorf("Event path = %s, want %s", event.Path, testFile)
		}
		if event.Op != OpCreate && event.Op != OpWrite {
			t.Errorf("Event op = %s, want CREATE or WRITE", event.Op)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for file create event")
	}
}

func TestFileModify(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "app.log")
	if err := os.WriteFile(testFile, []byte("initial\n"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	w, err := New(Config{
		DebounceInterval: 50 * time.Millisecond,
	}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			t.Logf("Close() error = %v", closeErr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if startErr := w.Start(ctx, []string{testFile}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	f, err := os.OpenFile(testFile, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	if _, writeErr := f.WriteString("appended\n"); writeErr != nil {
		t.Fatalf("Failed to append to test file: %v", writeErr)
	}
	if closeErr := f.Close(); closeErr != nil {
		t.Fatalf("Failed to close test file: %v", closeErr)
	}

	select {
	case event := <-w.Events():
		if event.Path != testFile {
			t.Errorf("Event path = %s, want %s", event.Path, testFile)
		}
		if event.Op != OpWrite {
			t.Errorf("Event op = %s, want WRITE", event.Op)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for file modify event")
	}
}

func TestOtherFilesIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "app.log")
	if err := os.WriteFile(testFile, []byte("initial\n"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	w, err := New(Config{
		DebounceInterval: 50 * time.Millisecond,
	}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			t.Logf("Close() error = %v", closeErr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if startErr := w.Start(ctx, []string{testFile}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	// A write to an unwatched sibling in the same directory must not
	// surface as an event.
	otherFile := filepath.Join(tmpDir, "other.log")
	if writeErr := os.WriteFile(otherFile, []byte("noise\n"), 0600); writeErr != nil {
		t.Fatalf("Failed to create other file: %v", writeErr)
	}

	select {
	case event := <-w.Events():
		t.Errorf("Received unexpected event for unwatched file: %v", event)
	case <-time.After(500 * time.Millisecond):
		// Expected - no events.
	}
}

func TestDebouncing(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "app.log")
	if err := os.WriteFile(testFile, []byte("initial\n"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	w, err := New(Config{
		DebounceInterval: 200 * time.Millisecond,
	}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			t.Logf("Close() error = %v", closeErr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if startErr := w.Start(ctx, []string{testFile}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	// Rapid writes inside the debounce window.
	for i := 0; i < 5; i++ {
		if writeErr := os.WriteFile(testFile, []byte("content\n"), 0600); writeErr != nil {
			t.Fatalf("Failed to write test file: %v", writeErr)
		}
		time.Sleep(30 * time.Millisecond)
	}

	eventCount := 0
	timeout := time.After(1 * time.Second)

	for eventCount < 3 {
		select {
		case <-w.Events():
			eventCount++
		case <-timeout:
			if eventCount == 0 {
				t.Error("No events received")
			}
			eventCount = 3
		}
	}

	// Without debouncing we'd expect 5+ events.
	if eventCount >= 5 {
		t.Errorf("Received %d events for 5 rapid writes, debouncing not working", eventCount)
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
		{Op(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.op.String()
		if got != tt.want {
			t.Errorf("Op.String() = %s, want %s", got, tt.want)
		}
	}
}

func TestStopNotStarted(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			t.Logf("Close() error = %v", closeErr)
		}
	}()

	stopErr := w.Stop()
	if !errors.Is(stopErr, ErrNotStarted) {
		t.Errorf("Stop() error = %v, want ErrNotStarted", stopErr)
	}
}

func TestCloseWithPendingDebounce(t *testing.T) {
	w, err := New(Config{
		DebounceInterval: 10 * time.Millisecond,
	}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Close while a debounce timer is pending: the timer must not fire
	// into the closed events channel.
	impl := w.(*watcher)
	impl.debounceEvent(Event{Path: "/var/log/app.log", Op: OpWrite, Timestamp: time.Now()})

	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("Close() error = %v", closeErr)
	}

	// Late arrivals after Close are dropped, not scheduled.
	impl.debounceEvent(Event{Path: "/var/log/app.log", Op: OpWrite, Timestamp: time.Now()})

	// A panic in the timer goroutine would crash the test binary.
	time.Sleep(50 * time.Millisecond)

	if _, ok := <-w.Events(); ok {
		t.Error("received event after Close()")
	}
}

func TestCloseTwice(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("First Close() error = %v", closeErr)
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Second Close() error = %v", closeErr)
	}
}

func TestStartAfterClose(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "app.log")

	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Close() error = %v", closeErr)
	}

	startErr := w.Start(context.Background(), []string{testFile})
	if !errors.Is(startErr, ErrWatcherClosed) {
		t.Errorf("Start() error = %v, want ErrWatcherClosed", startErr)
	}
}
