// =============================================================================
// Spreadsheet Translator - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the processor:
//   - Directory management
//   - Catalog backups (copying a catalog before it is overwritten)
//
// ARCHIVAL STRATEGY:
//   - Existing catalogs are copied to the archive directory before a new
//     version is written
//   - Backup names carry a timestamp and a short unique ID:
//     demo_frontend.es_ES.yml.20240115_143022_a1b2c3d4
//   - With UseTimestampSubdirs, backups go to archive/YYYY/MM/DD/
//   - An empty archive directory disables backups
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the processor.
type FileManager struct {
	// OutputDir is the directory where catalogs are written.
	OutputDir string

	// ArchiveDir is the directory for catalog backups. Empty disables backups.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: archive/2024/01/15/messages.en.yml.20240115_143022_a1b2c3d4
	UseTimestampSubdirs bool

	// now returns the current time. Tests replace it.
	now func() time.Time

	// newID returns the unique suffix of a backup name. Tests replace it.
	newID func() string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(outputDir, archiveDir string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
		now:        time.Now,
		newID:      func() string { return uuid.NewString()[:8] },
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output and archive directories if they don't
// exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.OutputDir}
	if fm.ArchiveDir != "" {
		dirs = append(dirs, fm.ArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// BackupFile copies an existing file to the archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to back up.
//
// RETURNS:
//   - The path to the backup, or "" when backups are disabled or the file
//     does not exist yet.
//   - An error if the copy fails.
func (fm *FileManager) BackupFile(filePath string) (string, error) {
	if fm.ArchiveDir == "" || !FileExists(filePath) {
		return "", nil
	}

	archivePath := fm.getArchivePath(filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file.
// Format: {name}.{timestamp}_{uuid}
func (fm *FileManager) getArchivePath(filePath string) string {
	now := fm.now()
	fileName := fmt.Sprintf("%s.%s_%s", filepath.Base(filePath), now.Format("20060102_150405"), fm.newID())

	if fm.UseTimestampSubdirs {
		return filepath.Join(
			fm.ArchiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
			fileName,
		)
	}

	return filepath.Join(fm.ArchiveDir, fileName)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
