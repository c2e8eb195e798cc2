package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/codesage/internal/commenter"
	"github.com/ytget/codesage/internal/model"
)

// fakeCommenter records started jobs without talking to a server
type fakeCommenter struct {
	started   [][]model.CodeBlock
	cancelled int
	active    bool
	serverURL string
	callbacks commenter.Callbacks
}

func (f *fakeCommenter) SetCallbacks(cb commenter.Callbacks) { f.callbacks = cb }
func (f *fakeCommenter) SetServerURL(url string)             { f.serverURL = url }
func (f *fakeCommenter) SetReadyTimeout(time.Duration)       {}

func (f *fakeCommenter) Start(blocks []model.CodeBlock) (model.Job, error) {
	if f.active {
		return model.Job{}, commenter.ErrJobActive
	}
	f.started = append(f.started, blocks)
	f.active = true
	return model.Job{ID: "job-test", Blocks: blocks, Status: model.JobStatusPending}, nil
}

func (f *fakeCommenter) Run(context.Context, []model.CodeBlock) (model.Job, error) {
	return model.Job{}, errors.New("not implemented")
}

func (f *fakeCommenter) GetJob(string) (model.Job, bool) { return model.Job{}, false }

func (f *fakeCommenter) ActiveJob() (model.Job, bool) {
	return model.Job{ID: "job-test"}, f.active
}

func (f *fakeCommenter) Cancel(string) error { f.cancelled++; return nil }
func (f *fakeCommenter) CancelActive()       { f.cancelled++; f.active = false }

func newTestUI(t *testing.T) (*RootUI, *fakeCommenter) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)
	w := app.NewWindow("test")
	svc := &fakeCommenter{}
	return NewRootUI(w, app, svc), svc
}

const twoFunctions = "def a():\n    return 1\n\n\nclass B:\n    pass\n"

func TestNewRootUI_WiresService(t *testing.T) {
	ui, svc := newTestUI(t)

	if svc.serverURL == "" {
		t.Error("Expected server URL to be pushed to the service")
	}
	if svc.callbacks.OnResult == nil || svc.callbacks.OnError == nil {
		t.Error("Expected callbacks to be registered")
	}
	if ui.statusLabel.Text != "Ready" {
		t.Errorf("Expected status Ready, got %q", ui.statusLabel.Text)
	}
}

func TestGenerate_EmptySource(t *testing.T) {
	ui, svc := newTestUI(t)

	ui.editor.SetText("   \n")
	ui.onGenerateClick()

	if len(svc.started) != 0 {
		t.Error("Expected no job for empty source")
	}
}

func TestGenerate_NoBlocks(t *testing.T) {
	ui, svc := newTestUI(t)

	ui.editor.SetText("x = 1\nprint(x)\n")
	ui.onGenerateClick()

	if len(svc.started) != 0 {
		t.Error("Expected no job without definitions")
	}
	if ui.statusLabel.Text != "No functions or classes found to comment." {
		t.Errorf("Unexpected status %q", ui.statusLabel.Text)
	}
}

func TestGenerate_StartsJobAndDisablesButtons(t *testing.T) {
	ui, svc := newTestUI(t)

	ui.commentOutput.SetText("stale output")
	ui.editor.SetText(twoFunctions)
	ui.onGenerateClick()

	if len(svc.started) != 1 || len(svc.started[0]) != 2 {
		t.Fatalf("Expected one job with 2 blocks, got %v", svc.started)
	}
	if ui.commentOutput.Text != "" {
		t.Errorf("Expected comment panel to be cleared, got %q", ui.commentOutput.Text)
	}
	if !ui.generateBtn.Disabled() || !ui.openBtn.Disabled() {
		t.Error("Expected buttons to be disabled while generating")
	}

	// a second click while busy is ignored
	ui.onGenerateClick()
	if len(svc.started) != 1 {
		t.Errorf("Expected a single job, got %d", len(svc.started))
	}
}

func TestJobCallbacks_FillCommentPanel(t *testing.T) {
	ui, svc := newTestUI(t)

	ui.editor.SetText(twoFunctions)
	ui.onGenerateClick()
	blocks := svc.started[0]

	job := model.Job{ID: "job-test", Blocks: blocks, Status: model.JobStatusGenerating}
	for i, b := range blocks {
		r := model.CommentResult{Block: b, Comment: "Comment " + b.Name}
		job.Results = append(job.Results, r)
		ui.appendResult(job, r)
		if i == 0 && ui.progressBar.Value != 0.5 {
			t.Errorf("Expected progress 0.5, got %v", ui.progressBar.Value)
		}
	}
	job.Status = model.JobStatusCompleted
	ui.finishJob(job)

	want := job.Results[0].Format() + job.Results[1].Format()
	if ui.commentOutput.Text != want {
		t.Errorf("Expected panel text %q, got %q", want, ui.commentOutput.Text)
	}
	if ui.statusLabel.Text != "All comments generated successfully!" {
		t.Errorf("Unexpected status %q", ui.statusLabel.Text)
	}
	if ui.generateBtn.Disabled() {
		t.Error("Expected buttons to be re-enabled")
	}
}

func TestJobCallbacks_Error(t *testing.T) {
	ui, _ := newTestUI(t)

	ui.editor.SetText(twoFunctions)
	ui.onGenerateClick()
	ui.failJob(model.Job{ID: "job-test", Status: model.JobStatusError}, commenter.ErrNotReady)

	if ui.statusLabel.Text != "Error generating comment" {
		t.Errorf("Unexpected status %q", ui.statusLabel.Text)
	}
	if ui.generateBtn.Disabled() {
		t.Error("Expected buttons to be re-enabled after an error")
	}
}

func TestSaveComments_RoundTrip(t *testing.T) {
	ui, _ := newTestUI(t)

	text := "Code Block:\ndef a():\n    return 1\n\nComment:\nReturns one.\n\n"
	ui.commentOutput.SetText(text)

	path := filepath.Join(t.TempDir(), "out", "a_comments.txt")
	if err := ui.saveComments(path); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if string(data) != ui.commentOutput.Text {
		t.Errorf("Saved text differs from panel:\nwant %q\ngot  %q", ui.commentOutput.Text, string(data))
	}
	if !strings.Contains(ui.statusLabel.Text, path) {
		t.Errorf("Expected status to mention %s, got %q", path, ui.statusLabel.Text)
	}
}

func TestOpenFileAndInsertComments(t *testing.T) {
	ui, _ := newTestUI(t)

	path := filepath.Join(t.TempDir(), "prog.go")
	src := "package main\n\nfunc main() {\n}\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	ui.openFile(path)
	if ui.language != model.LanguageGo {
		t.Errorf("Expected Go language, got %s", ui.language)
	}
	if ui.editor.Text != src {
		t.Errorf("Expected editor to contain file text, got %q", ui.editor.Text)
	}

	ui.results = []model.CommentResult{{
		Block:   model.CodeBlock{StartLine: 3, EndLine: 4, Text: "func main() {\n}"},
		Comment: "Entry point.",
	}}
	ui.insertComments()

	want := "package main\n\n// Entry point.\nfunc main() {\n}\n"
	data, _ := os.ReadFile(path)
	if string(data) != want {
		t.Errorf("Expected file %q, got %q", want, string(data))
	}
	if ui.editor.Text != want {
		t.Errorf("Expected editor %q, got %q", want, ui.editor.Text)
	}
	if ui.results != nil {
		t.Error("Expected results to be reset after inserting")
	}
}

func TestClear(t *testing.T) {
	ui, _ := newTestUI(t)

	ui.editor.SetText(twoFunctions)
	ui.commentOutput.SetText("x")
	ui.onClearClick()

	if ui.editor.Text != "" || ui.commentOutput.Text != "" {
		t.Error("Expected both panels to be empty")
	}
}

func TestCloseRequested_CancelsRunningJob(t *testing.T) {
	ui, svc := newTestUI(t)

	ui.editor.SetText(twoFunctions)
	ui.onGenerateClick()
	ui.onCloseRequested()

	// a confirmation dialog is shown; nothing is cancelled yet
	if svc.cancelled != 0 {
		t.Errorf("Expected no cancellation before confirming, got %d", svc.cancelled)
	}

	ui.onCancelClick()
	if svc.cancelled != 1 {
		t.Errorf("Expected one cancellation, got %d", svc.cancelled)
	}
}

func TestRefreshPreview(t *testing.T) {
	ui, _ := newTestUI(t)

	ui.editor.SetText(twoFunctions)
	ui.refreshPreview()

	if got := segmentText(ui.preview.Segments); got != twoFunctions {
		t.Errorf("Expected preview to mirror editor, got %q", got)
	}
	if ui.previewStale {
		t.Error("Expected preview to be fresh")
	}
}
