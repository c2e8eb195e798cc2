package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// MaxSourceFileSize caps what ReadSourceFile will load into the editor
const MaxSourceFileSize = 4 << 20

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// CommentsFileSuffix is appended to a source name to build the default save name
const CommentsFileSuffix = "_comments.txt"

// ReadSourceFile reads a UTF-8 text file for the editor
func ReadSourceFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("failed to open file: %s is a directory", path)
	}
	if info.Size() > MaxSourceFileSize {
		return "", fmt.Errorf("failed to open file: %s is larger than %d bytes", path, MaxSourceFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("failed to open file: %s is not valid UTF-8", path)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// SaveText writes text to path verbatim. Parent directories are created and
// the content goes to a temporary file first, so a failed write leaves any
// existing file untouched. An existing file keeps its permissions.
func SaveText(path, text string) error {
	if path == "" {
		return fmt.Errorf("failed to save file: path is empty")
	}
	dir := filepath.Dir(path)
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	mode := os.FileMode(DefaultFilePermissions)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// DefaultCommentsFileName returns "<name>_comments.txt" for a source path
func DefaultCommentsFileName(sourcePath string) string {
	if sourcePath == "" {
		return "comments.txt"
	}
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + CommentsFileSuffix
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDocumentsDir returns the user's Documents directory, falling back
// to the home directory when there is none
func GetHomeDocumentsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	documentsDir := filepath.Join(homeDir, "Documents")
	if info, err := os.Stat(documentsDir); err == nil && info.IsDir() {
		return documentsDir, nil
	}
	return homeDir, nil
}

// OpenFileInManager opens the file in the system file manager and highlights it
func OpenFileInManager(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("file path is empty")
	}
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %v", err)
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		return openFileInManagerLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openFileInManagerLinux opens directory containing file on Linux
// Note: File selection is not standardized on Linux, so we open the parent directory
func openFileInManagerLinux(filePath string) error {
	dir := filepath.Dir(filePath)

	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}
