package ui

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/codesage/internal/annotate"
	"github.com/ytget/codesage/internal/commenter"
	"github.com/ytget/codesage/internal/config"
	"github.com/ytget/codesage/internal/extract"
	"github.com/ytget/codesage/internal/model"
	"github.com/ytget/codesage/internal/platform"
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	commenter    commenter.Commenter
	settings     *config.Settings
	localization *Localization

	editor        *widget.Entry
	preview       *widget.RichText
	editorTabs    *container.AppTabs
	editorTab     *container.TabItem
	previewTab    *container.TabItem
	commentOutput *widget.Entry
	commentsLabel *widget.Label
	langSelect    *widget.Select

	openBtn     *widget.Button
	saveBtn     *widget.Button
	generateBtn *widget.Button
	clearBtn    *widget.Button
	insertBtn   *widget.Button
	cancelBtn   *widget.Button

	statusLabel *widget.Label
	progressBar *widget.ProgressBar

	// state below is only touched on the UI thread
	language     model.Language
	sourcePath   string
	results      []model.CommentResult
	busy         bool
	previewStale bool
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, svc commenter.Commenter) *RootUI {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		commenter:    svc,
		settings:     settings,
		localization: localization,
		language:     settings.GetDefaultSourceLanguage(),
	}

	svc.SetServerURL(settings.GetServerURL())
	svc.SetReadyTimeout(settings.GetReadyTimeout())
	svc.SetCallbacks(commenter.Callbacks{
		OnUpdate:   ui.onJobUpdate,
		OnResult:   ui.onJobResult,
		OnFinished: ui.onJobFinished,
		OnError:    ui.onJobError,
	})

	window.SetTitle(localization.GetText(KeyAppTitle))
	window.SetCloseIntercept(ui.onCloseRequested)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	t := ui.localization.GetText

	ui.createMenu()

	ui.editor = widget.NewMultiLineEntry()
	ui.editor.TextStyle = fyne.TextStyle{Monospace: true}
	ui.editor.Wrapping = fyne.TextWrapOff
	ui.editor.SetPlaceHolder(t(KeyCodePlaceholder))
	ui.editor.OnChanged = func(string) { ui.previewStale = true }

	ui.preview = widget.NewRichText()
	ui.previewStale = true

	ui.editorTab = container.NewTabItem(t(KeyEditorTab), ui.editor)
	ui.previewTab = container.NewTabItem(t(KeyPreviewTab), container.NewScroll(ui.preview))
	ui.editorTabs = container.NewAppTabs(ui.editorTab, ui.previewTab)
	ui.editorTabs.OnSelected = func(item *container.TabItem) {
		if item == ui.previewTab {
			ui.refreshPreview()
		}
	}

	ui.commentOutput = widget.NewMultiLineEntry()
	ui.commentOutput.Wrapping = fyne.TextWrapWord
	ui.commentOutput.TextStyle = fyne.TextStyle{Monospace: true}
	ui.commentOutput.Disable()
	ui.commentsLabel = widget.NewLabelWithStyle(t(KeyCommentsTitle), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	langOptions := []string{}
	for _, lang := range model.Languages() {
		langOptions = append(langOptions, string(lang))
	}
	ui.langSelect = widget.NewSelect(langOptions, func(selected string) {
		ui.language = model.Language(selected)
		ui.previewStale = true
	})
	ui.langSelect.SetSelected(string(ui.language))

	ui.openBtn = widget.NewButton(t(KeyOpenFile), ui.onOpenClick)
	ui.saveBtn = widget.NewButton(t(KeySaveComment), ui.onSaveClick)
	ui.generateBtn = widget.NewButton(t(KeyGenerate), ui.onGenerateClick)
	ui.generateBtn.Importance = widget.HighImportance
	ui.clearBtn = widget.NewButton(t(KeyClearAll), ui.onClearClick)
	ui.insertBtn = widget.NewButton(t(KeyInsert), ui.onInsertClick)
	ui.cancelBtn = widget.NewButton(t(KeyCancelJob), ui.onCancelClick)
	ui.cancelBtn.Hide()

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	left := []fyne.CanvasObject{settingsBtn}
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(32, 32))
		logoImage.FillMode = canvas.ImageFillContain
		left = append([]fyne.CanvasObject{logoImage}, left...)
	}

	toolbar := container.NewBorder(nil, nil,
		container.NewHBox(left...),
		container.NewHBox(widget.NewLabel(t(KeySourceLanguage)+":"), ui.langSelect),
		container.NewHBox(ui.openBtn, ui.saveBtn, ui.generateBtn, ui.insertBtn, ui.clearBtn, ui.cancelBtn),
	)

	ui.statusLabel = widget.NewLabel(t(KeyReady))
	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.Hide()
	statusBar := container.NewBorder(nil, nil, nil, ui.progressBar, ui.statusLabel)

	commentPanel := container.NewBorder(ui.commentsLabel, nil, nil, nil, ui.commentOutput)
	split := container.NewVSplit(ui.editorTabs, commentPanel)
	split.Offset = EditorSplitOffset

	ui.window.SetContent(container.NewBorder(toolbar, statusBar, nil, nil, split))
	log.Printf("UI setup completed successfully")
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	t := ui.localization.GetText

	fileMenu := fyne.NewMenu(t(KeyFile),
		fyne.NewMenuItem(t(KeyOpenFile), ui.onOpenClick),
		fyne.NewMenuItem(t(KeySaveComment), ui.onSaveClick),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(t(KeySettings), ui.onShowSettings),
	)

	languageMenu := fyne.NewMenu(t(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code // Capture for closure
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(fileMenu, languageMenu))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	t := ui.localization.GetText

	ui.window.SetTitle(t(KeyAppTitle))
	ui.editor.SetPlaceHolder(t(KeyCodePlaceholder))
	ui.editorTab.Text = t(KeyEditorTab)
	ui.previewTab.Text = t(KeyPreviewTab)
	ui.editorTabs.Refresh()
	ui.commentsLabel.SetText(t(KeyCommentsTitle))

	ui.openBtn.SetText(t(KeyOpenFile))
	ui.saveBtn.SetText(t(KeySaveComment))
	ui.generateBtn.SetText(t(KeyGenerate))
	ui.clearBtn.SetText(t(KeyClearAll))
	ui.insertBtn.SetText(t(KeyInsert))
	ui.cancelBtn.SetText(t(KeyCancelJob))
}

// refreshPreview re-highlights the editor text when it changed
func (ui *RootUI) refreshPreview() {
	if !ui.previewStale {
		return
	}
	ui.preview.Segments = HighlightSegments(ui.language, ui.editor.Text)
	ui.preview.Refresh()
	ui.previewStale = false
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.commenter.SetServerURL(ui.settings.GetServerURL())
		ui.commenter.SetReadyTimeout(ui.settings.GetReadyTimeout())
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
	})
}

// setStatus updates the status bar text
func (ui *RootUI) setStatus(text string) {
	ui.statusLabel.SetText(text)
}

// setBusy toggles the controls that must not be used while a job runs
func (ui *RootUI) setBusy(busy bool) {
	ui.busy = busy
	for _, b := range []*widget.Button{ui.openBtn, ui.saveBtn, ui.generateBtn, ui.clearBtn, ui.insertBtn} {
		if busy {
			b.Disable()
		} else {
			b.Enable()
		}
	}
	if busy {
		ui.cancelBtn.Show()
		ui.progressBar.SetValue(0)
		ui.progressBar.Show()
	} else {
		ui.cancelBtn.Hide()
		ui.progressBar.Hide()
	}
}

// onOpenClick shows a file picker and loads the chosen file
func (ui *RootUI) onOpenClick() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		ui.openFile(path)
	}, ui.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".py", ".go", ".txt"}))
	fd.Show()
}

// openFile reads path into the editor and picks the language from its extension
func (ui *RootUI) openFile(path string) {
	text, err := platform.ReadSourceFile(path)
	if err != nil {
		log.Printf("Error opening file %s: %v", path, err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyOpenError), err), ui.window)
		return
	}

	ui.sourcePath = path
	ui.editor.SetText(text)
	ui.language = ui.languageFor(path)
	ui.langSelect.SetSelected(string(ui.language))
	ui.setStatus(fmt.Sprintf(StatusPathFormat, ui.localization.GetText(KeyLoaded), path))
	log.Printf("Loaded %s (%d bytes)", path, len(text))
}

// languageFor picks a language from a file extension, falling back to the
// configured default for unknown extensions
func (ui *RootUI) languageFor(path string) model.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go", ".py":
		return extract.DetectLanguage(path)
	default:
		return ui.settings.GetDefaultSourceLanguage()
	}
}

// onGenerateClick splits the editor text into blocks and starts a job
func (ui *RootUI) onGenerateClick() {
	t := ui.localization.GetText
	if ui.busy {
		return
	}

	code := ui.editor.Text
	if strings.TrimSpace(code) == "" {
		dialog.ShowInformation(t(KeyWarning), t(KeyEnterCode), ui.window)
		return
	}

	blocks, err := extract.Extract(context.Background(), ui.language, code)
	if err != nil {
		log.Printf("Error parsing %s source: %v", ui.language, err)
		dialog.ShowError(fmt.Errorf("%s: %w", t(KeyParseError), err), ui.window)
		return
	}
	if len(blocks) == 0 {
		ui.setStatus(t(KeyNoBlocks))
		return
	}

	ui.commentOutput.SetText("")
	ui.results = nil
	ui.setBusy(true)
	ui.setStatus(t(KeyGenerating))

	job, err := ui.commenter.Start(blocks)
	if err != nil {
		ui.setBusy(false)
		dialog.ShowError(err, ui.window)
		return
	}
	log.Printf("Started job %s for %d blocks", job.ID, len(blocks))
}

func (ui *RootUI) onCancelClick() {
	ui.commenter.CancelActive()
}

// Job callbacks arrive on the worker goroutine and hop to the UI thread.

func (ui *RootUI) onJobUpdate(job model.Job) {
	fyne.Do(func() { ui.showJobStatus(job) })
}

func (ui *RootUI) onJobResult(job model.Job, result model.CommentResult) {
	fyne.Do(func() { ui.appendResult(job, result) })
}

func (ui *RootUI) onJobFinished(job model.Job) {
	fyne.Do(func() { ui.finishJob(job) })
}

func (ui *RootUI) onJobError(job model.Job, err error) {
	fyne.Do(func() { ui.failJob(job, err) })
}

// showJobStatus mirrors non-terminal job states and cancellation
func (ui *RootUI) showJobStatus(job model.Job) {
	t := ui.localization.GetText
	switch job.Status {
	case model.JobStatusWaiting:
		ui.setStatus(t(KeyWaitingServer))
	case model.JobStatusGenerating:
		ui.setStatus(fmt.Sprintf(ProgressFormat, t(KeyGenerating), job.GetProgressString()))
	case model.JobStatusCancelled:
		ui.setBusy(false)
		ui.setStatus(t(KeyCancelled))
	}
}

// appendResult adds one formatted block/comment pair to the comment panel
func (ui *RootUI) appendResult(job model.Job, result model.CommentResult) {
	ui.results = append(ui.results, result)
	ui.commentOutput.SetText(ui.commentOutput.Text + result.Format())
	ui.progressBar.SetValue(job.Progress())
	ui.setStatus(fmt.Sprintf(ProgressFormat, ui.localization.GetText(KeyGenerating), job.GetProgressString()))
}

func (ui *RootUI) finishJob(job model.Job) {
	ui.setBusy(false)
	ui.setStatus(ui.localization.GetText(KeyGenerated))
	log.Printf("Job %s completed in %s", job.ID, job.Elapsed())
}

func (ui *RootUI) failJob(job model.Job, err error) {
	ui.setBusy(false)
	ui.setStatus(ui.localization.GetText(KeyGenerateError))
	log.Printf("Job %s failed after %s blocks: %v", job.ID, job.GetProgressString(), err)
	dialog.ShowError(err, ui.window)
}

// onSaveClick asks for a destination and writes the comment panel to it
func (ui *RootUI) onSaveClick() {
	t := ui.localization.GetText
	if strings.TrimSpace(ui.commentOutput.Text) == "" {
		dialog.ShowInformation(t(KeyWarning), t(KeyNoComment), ui.window)
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := ui.saveComments(path); err != nil {
			dialog.ShowError(fmt.Errorf("%s: %w", t(KeySaveError), err), ui.window)
			return
		}
		ui.settings.SetSaveDirectory(filepath.Dir(path))
		if ui.settings.GetAutoRevealOnSave() {
			if err := platform.OpenFileInManager(path); err != nil {
				log.Printf("Error revealing file %s: %v", path, err)
			}
		}
	}, ui.window)

	fd.SetFileName(platform.DefaultCommentsFileName(ui.sourcePath))
	if dir, err := storage.ListerForURI(storage.NewFileURI(ui.settings.GetSaveDirectory())); err == nil {
		fd.SetLocation(dir)
	}
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".txt"}))
	fd.Show()
}

// saveComments writes the comment panel text verbatim to path
func (ui *RootUI) saveComments(path string) error {
	if err := platform.SaveText(path, ui.commentOutput.Text); err != nil {
		log.Printf("Error saving comments to %s: %v", path, err)
		return err
	}
	ui.setStatus(fmt.Sprintf(StatusPathFormat, ui.localization.GetText(KeySaved), path))
	log.Printf("Comments saved to %s", path)
	return nil
}

// onInsertClick writes the generated comments into the source
func (ui *RootUI) onInsertClick() {
	t := ui.localization.GetText
	if len(ui.results) == 0 {
		dialog.ShowInformation(t(KeyWarning), t(KeyNothingToInsert), ui.window)
		return
	}
	if ui.sourcePath == "" {
		ui.insertComments()
		return
	}

	msg := fmt.Sprintf(t(KeyInsertConfirm), filepath.Base(ui.sourcePath))
	dialog.ShowConfirm(t(KeyInsert), msg, func(ok bool) {
		if ok {
			ui.insertComments()
		}
	}, ui.window)
}

// insertComments annotates the editor text and, when it came from a file,
// writes it back
func (ui *RootUI) insertComments() {
	annotated := annotate.Prepend(ui.language, ui.editor.Text, ui.results)

	if ui.sourcePath != "" {
		if err := platform.SaveText(ui.sourcePath, annotated); err != nil {
			dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeySaveError), err), ui.window)
			return
		}
	}

	ui.editor.SetText(annotated)
	// line numbers changed; comments can't be inserted twice
	ui.results = nil
	ui.setStatus(ui.localization.GetText(KeyInserted))
}

// onClearClick empties both panels
func (ui *RootUI) onClearClick() {
	ui.editor.SetText("")
	ui.commentOutput.SetText("")
	ui.results = nil
	ui.sourcePath = ""
	ui.setStatus(ui.localization.GetText(KeyReady))
}

// onCloseRequested confirms quitting while a job is running
func (ui *RootUI) onCloseRequested() {
	if _, running := ui.commenter.ActiveJob(); !running {
		ui.window.Close()
		return
	}

	t := ui.localization.GetText
	dialog.ShowConfirm(t(KeyQuit), t(KeyQuitConfirm), func(ok bool) {
		if !ok {
			return
		}
		ui.commenter.CancelActive()
		ui.window.Close()
	}, ui.window)
}
