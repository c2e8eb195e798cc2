package ui

import (
	"sort"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/codesage/internal/config"
	"github.com/ytget/codesage/internal/model"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	serverURLEntry    *widget.Entry
	readyTimeoutEntry *widget.Entry
	sourceLangSelect  *widget.Select
	saveDirEntry      *widget.Entry
	autoRevealCheck   *widget.Check
	languageSelect    *widget.Select
}

// ShowSettingsDialog builds and shows the settings dialog. onSaved runs
// after the new values are stored.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window)
	sd.onSaved = onSaved
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.serverURLEntry = widget.NewEntry()
	sd.serverURLEntry.SetPlaceHolder(config.DefaultServerURL)

	sd.readyTimeoutEntry = widget.NewEntry()
	sd.readyTimeoutEntry.SetPlaceHolder(strconv.Itoa(config.MinReadyTimeout) + "-" + strconv.Itoa(config.MaxReadyTimeout))

	sourceOptions := []string{}
	for _, lang := range model.Languages() {
		sourceOptions = append(sourceOptions, string(lang))
	}
	sd.sourceLangSelect = widget.NewSelect(sourceOptions, nil)

	sd.saveDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	saveDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.saveDirEntry)

	sd.autoRevealCheck = widget.NewCheck(t(KeyAutoReveal), nil)

	languageOptions := []string{}
	for code := range sd.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := container.NewVBox(
		widget.NewLabel(t(KeyServerURL)+":"),
		sd.serverURLEntry,

		widget.NewLabel(t(KeyReadyTimeout)+":"),
		sd.readyTimeoutEntry,

		widget.NewLabel(t(KeyDefaultSourceLang)+":"),
		sd.sourceLangSelect,

		widget.NewSeparator(),

		widget.NewLabel(t(KeySaveDirectory)+":"),
		saveDirRow,
		sd.autoRevealCheck,

		widget.NewSeparator(),

		widget.NewLabel(t(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(500, 420))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.serverURLEntry.SetText(sd.settings.GetServerURL())
	sd.readyTimeoutEntry.SetText(strconv.Itoa(int(sd.settings.GetReadyTimeout() / time.Second)))
	sd.sourceLangSelect.SetSelected(string(sd.settings.GetDefaultSourceLanguage()))
	sd.saveDirEntry.SetText(sd.settings.GetSaveDirectory())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnSave())
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.saveDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply stores the form values; invalid numbers are ignored
func (sd *SettingsDialog) apply() {
	sd.settings.SetServerURL(sd.serverURLEntry.Text)

	if seconds, err := strconv.Atoi(sd.readyTimeoutEntry.Text); err == nil {
		sd.settings.SetReadyTimeoutSeconds(seconds)
	}

	if sd.sourceLangSelect.Selected != "" {
		sd.settings.SetDefaultSourceLanguage(model.Language(sd.sourceLangSelect.Selected))
	}

	if sd.saveDirEntry.Text != "" {
		sd.settings.SetSaveDirectory(sd.saveDirEntry.Text)
	}

	sd.settings.SetAutoRevealOnSave(sd.autoRevealCheck.Checked)

	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}
}
