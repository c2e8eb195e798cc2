package config

import (
	"strings"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/codesage/internal/model"
	"github.com/ytget/codesage/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyServerURL        = "server_url"
	KeyReadyTimeout     = "ready_timeout_seconds"
	KeyDefaultLanguage  = "default_source_language"
	KeySaveDir          = "save_directory"
	KeyLanguage         = "app_language"
	KeyAutoRevealOnSave = "auto_reveal_on_save"
)

// Default values
const (
	DefaultServerURL        = "http://127.0.0.1:5000"
	DefaultReadyTimeout     = 30
	DefaultSourceLanguage   = model.LanguagePython
	DefaultLanguage         = "system"
	DefaultAutoRevealOnSave = false
)

// Ready timeout bounds, in seconds
const (
	MinReadyTimeout = 5
	MaxReadyTimeout = 300
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetServerURL returns the comment server base URL
func (s *Settings) GetServerURL() string {
	url := s.app.Preferences().String(KeyServerURL)
	if url == "" {
		s.SetServerURL(DefaultServerURL)
		return DefaultServerURL
	}
	return url
}

// SetServerURL sets the comment server base URL; blank resets to default
func (s *Settings) SetServerURL(url string) {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		url = DefaultServerURL
	}
	s.app.Preferences().SetString(KeyServerURL, url)
}

// SeedServerURL sets the server URL only if the user never chose one
func (s *Settings) SeedServerURL(url string) {
	if s.app.Preferences().String(KeyServerURL) == "" && url != "" {
		s.SetServerURL(url)
	}
}

// GetReadyTimeout returns how long to wait for the server to become ready
func (s *Settings) GetReadyTimeout() time.Duration {
	value := s.app.Preferences().Int(KeyReadyTimeout)
	if value <= 0 {
		s.SetReadyTimeoutSeconds(DefaultReadyTimeout)
		value = DefaultReadyTimeout
	}
	return time.Duration(value) * time.Second
}

// SetReadyTimeoutSeconds sets the ready timeout, clamped to the allowed range
func (s *Settings) SetReadyTimeoutSeconds(seconds int) {
	if seconds < MinReadyTimeout {
		seconds = MinReadyTimeout
	}
	if seconds > MaxReadyTimeout {
		seconds = MaxReadyTimeout
	}
	s.app.Preferences().SetInt(KeyReadyTimeout, seconds)
}

// GetDefaultSourceLanguage returns the language used when a file extension
// gives no hint
func (s *Settings) GetDefaultSourceLanguage() model.Language {
	lang := model.Language(s.app.Preferences().String(KeyDefaultLanguage))
	for _, l := range model.Languages() {
		if l == lang {
			return l
		}
	}
	return DefaultSourceLanguage
}

// SetDefaultSourceLanguage sets the default source language
func (s *Settings) SetDefaultSourceLanguage(lang model.Language) {
	s.app.Preferences().SetString(KeyDefaultLanguage, string(lang))
}

// GetSaveDirectory returns the directory offered first in the save dialog
func (s *Settings) GetSaveDirectory() string {
	dir := s.app.Preferences().String(KeySaveDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeDocumentsDir()
		if err != nil {
			defaultDir = "."
		}
		s.SetSaveDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetSaveDirectory sets the save directory
func (s *Settings) SetSaveDirectory(dir string) {
	s.app.Preferences().SetString(KeySaveDir, dir)
}

// GetLanguage returns the configured UI language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnSave returns whether to reveal saved files in the file manager
func (s *Settings) GetAutoRevealOnSave() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealOnSave, DefaultAutoRevealOnSave)
}

// SetAutoRevealOnSave sets whether to reveal saved files in the file manager
func (s *Settings) SetAutoRevealOnSave(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealOnSave, autoReveal)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
