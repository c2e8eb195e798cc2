package commenter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ytget/codesage/internal/model"
)

// fakeServer mimics the local comment server
type fakeServer struct {
	mu       sync.Mutex
	ready    bool
	failOn   string // code containing this fails with 500
	block    chan struct{}
	received []string
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/status":
		f.mu.Lock()
		ready := f.ready
		f.mu.Unlock()
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	case "/generate-comment":
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		code := req["code"]

		f.mu.Lock()
		f.received = append(f.received, code)
		failOn := f.failOn
		block := f.block
		f.mu.Unlock()

		if block != nil {
			select {
			case <-block:
			case <-r.Context().Done():
				return
			}
		}
		if failOn != "" && strings.Contains(code, failOn) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"generation failed"}`))
			return
		}
		_, _ = w.Write([]byte(fmt.Sprintf(`{"comment":"about %s"}`, strings.TrimSuffix(strings.Fields(code)[1], "():"))))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeServer) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

func testBlocks(names ...string) []model.CodeBlock {
	blocks := make([]model.CodeBlock, 0, len(names))
	for i, name := range names {
		blocks = append(blocks, model.CodeBlock{
			Kind:      model.BlockKindFunction,
			Name:      name,
			StartLine: i*3 + 1,
			EndLine:   i*3 + 2,
			Text:      fmt.Sprintf("def %s():\n    pass", name),
		})
	}
	return blocks
}

func newTestService(t *testing.T, f *fakeServer) *Service {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	s := NewService(srv.URL, time.Second)
	s.pollInterval = 10 * time.Millisecond
	return s
}

func TestNewService(t *testing.T) {
	s := NewService("", 0)

	if s.client.BaseURL() != DefaultServerURL {
		t.Errorf("Expected base URL %q, got %q", DefaultServerURL, s.client.BaseURL())
	}
	if s.readyTimeout != DefaultReadyTimeout {
		t.Errorf("Expected ready timeout %v, got %v", DefaultReadyTimeout, s.readyTimeout)
	}
	if len(s.jobs) != 0 {
		t.Errorf("Expected empty jobs map, got %d items", len(s.jobs))
	}
	if _, ok := s.ActiveJob(); ok {
		t.Error("Expected no active job")
	}
}

func TestRun_CommentsEveryBlockInOrder(t *testing.T) {
	f := &fakeServer{ready: true}
	s := newTestService(t, f)

	var results []model.CommentResult
	var finished, failed int
	s.SetCallbacks(Callbacks{
		OnResult:   func(_ model.Job, r model.CommentResult) { results = append(results, r) },
		OnFinished: func(model.Job) { finished++ },
		OnError:    func(model.Job, error) { failed++ },
	})

	job, err := s.Run(context.Background(), testBlocks("a", "b", "c"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if job.Status != model.JobStatusCompleted {
		t.Errorf("Expected status Completed, got %s", job.Status)
	}
	if job.GetProgressString() != "3/3" {
		t.Errorf("Expected progress 3/3, got %s", job.GetProgressString())
	}
	if finished != 1 || failed != 0 {
		t.Errorf("Expected one OnFinished and no OnError, got %d and %d", finished, failed)
	}

	want := []string{"about a", "about b", "about c"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i, r := range results {
		if r.Comment != want[i] {
			t.Errorf("Result %d: expected %q, got %q", i, want[i], r.Comment)
		}
		if r.Block.Name != job.Blocks[i].Name {
			t.Errorf("Result %d: expected block %q, got %q", i, job.Blocks[i].Name, r.Block.Name)
		}
	}

	reqs := f.requests()
	if len(reqs) != 3 || !strings.Contains(reqs[0], "def a") || !strings.Contains(reqs[2], "def c") {
		t.Errorf("Expected requests in block order, got %q", reqs)
	}
}

func TestRun_AbortsOnFirstError(t *testing.T) {
	for failAt := 0; failAt < 4; failAt++ {
		t.Run(fmt.Sprintf("fail at %d", failAt), func(t *testing.T) {
			names := []string{"b0", "b1", "b2", "b3"}
			f := &fakeServer{ready: true, failOn: "def " + names[failAt] + "("}
			s := newTestService(t, f)

			var gotErr error
			var failures, finished int
			s.SetCallbacks(Callbacks{
				OnError:    func(_ model.Job, err error) { failures++; gotErr = err },
				OnFinished: func(model.Job) { finished++ },
			})

			job, err := s.Run(context.Background(), testBlocks(names...))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrServer) {
				t.Errorf("Expected server error, got %v", err)
			}
			if failures != 1 || finished != 0 || gotErr == nil {
				t.Errorf("Expected exactly one OnError, got %d (finished %d)", failures, finished)
			}
			if job.Status != model.JobStatusError {
				t.Errorf("Expected status Error, got %s", job.Status)
			}
			if job.LastError != "generation failed" {
				t.Errorf("Expected last error %q, got %q", "generation failed", job.LastError)
			}
			if job.Done() != failAt {
				t.Errorf("Expected %d results, got %d", failAt, job.Done())
			}
			if n := len(f.requests()); n != failAt+1 {
				t.Errorf("Expected %d requests, got %d", failAt+1, n)
			}
		})
	}
}

func TestRun_ServerNeverReady(t *testing.T) {
	f := &fakeServer{ready: false}
	s := newTestService(t, f)
	s.SetReadyTimeout(80 * time.Millisecond)

	job, err := s.Run(context.Background(), testBlocks("a"))
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("Expected ErrNotReady, got %v", err)
	}
	if job.Status != model.JobStatusError {
		t.Errorf("Expected status Error, got %s", job.Status)
	}
	if n := len(f.requests()); n != 0 {
		t.Errorf("Expected no generate requests, got %d", n)
	}
}

func TestRun_NoBlocks(t *testing.T) {
	s := NewService("", 0)
	if _, err := s.Run(context.Background(), nil); err == nil {
		t.Error("Expected error for empty block list")
	}
}

func TestStart_RejectsSecondJob(t *testing.T) {
	f := &fakeServer{ready: true, block: make(chan struct{})}
	s := newTestService(t, f)

	done := make(chan model.Job, 1)
	s.SetCallbacks(Callbacks{OnFinished: func(j model.Job) { done <- j }})

	first, err := s.Start(testBlocks("a"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(first.ID, JobIDPrefix) {
		t.Errorf("Expected job ID with prefix %q, got %q", JobIDPrefix, first.ID)
	}

	if _, err := s.Start(testBlocks("b")); !errors.Is(err, ErrJobActive) {
		t.Errorf("Expected ErrJobActive, got %v", err)
	}

	active, ok := s.ActiveJob()
	if !ok || active.ID != first.ID {
		t.Errorf("Expected active job %s, got %v", first.ID, active.ID)
	}

	close(f.block)
	select {
	case j := <-done:
		if j.ID != first.ID {
			t.Errorf("Expected finished job %s, got %s", first.ID, j.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("job did not finish")
	}

	if _, ok := s.ActiveJob(); ok {
		t.Error("Expected no active job after completion")
	}
}

func TestCancelActive(t *testing.T) {
	f := &fakeServer{ready: true, block: make(chan struct{})}
	s := newTestService(t, f)

	updates := make(chan model.Job, 8)
	var failed int
	var mu sync.Mutex
	s.SetCallbacks(Callbacks{
		OnUpdate: func(j model.Job) { updates <- j },
		OnError:  func(model.Job, error) { mu.Lock(); failed++; mu.Unlock() },
	})

	job, err := s.Start(testBlocks("a", "b"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// wait until the first request is in flight
	deadline := time.Now().Add(5 * time.Second)
	for len(f.requests()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.CancelActive()

	for {
		select {
		case j := <-updates:
			if !j.Status.IsFinished() {
				continue
			}
			if j.Status != model.JobStatusCancelled {
				t.Fatalf("Expected status Cancelled, got %s", j.Status)
			}
			mu.Lock()
			defer mu.Unlock()
			if failed != 0 {
				t.Errorf("Expected no OnError for a cancelled job, got %d", failed)
			}
			stored, ok := s.GetJob(job.ID)
			if !ok || stored.Status != model.JobStatusCancelled {
				t.Errorf("Expected stored job to be Cancelled, got %v", stored.Status)
			}
			if len(f.requests()) != 1 {
				t.Errorf("Expected a single request, got %d", len(f.requests()))
			}
			return
		case <-time.After(5 * time.Second):
			t.Fatal("job was not cancelled")
		}
	}
}

func TestCancel_UnknownJob(t *testing.T) {
	s := NewService("", 0)
	if err := s.Cancel("job-missing"); err == nil {
		t.Error("Expected error for unknown job")
	}
}
