package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir returns the per-user application data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return dataDirFor(runtime.GOOS, home, os.Getenv("LOCALAPPDATA"))
}

func dataDirFor(goos, home, localAppData string) string {
	switch goos {
	case "windows":
		if localAppData != "" {
			return filepath.Join(localAppData, "PersonalFinance")
		}
		return filepath.Join(home, "AppData", "Local", "PersonalFinance")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "PersonalFinance")
	default:
		return filepath.Join(home, ".local", "share", "personal-finance")
	}
}

// DefaultExportDir returns the first existing directory among the user's
// Documents, Downloads and home directories, or the working directory.
func DefaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return exportDirFor(home, isDir)
}

func exportDirFor(home string, exists func(string) bool) string {
	for _, dir := range []string{
		filepath.Join(home, "Documents"),
		filepath.Join(home, "Downloads"),
		home,
	} {
		if exists(dir) {
			return dir
		}
	}
	return "."
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
