package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/nb2md"
	"github.com/alnah/nb2md/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoNotebooks        = errors.New("no notebooks found")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// checkpointDir is the Jupyter autosave directory, never converted.
const checkpointDir = ".ipynb_checkpoints"

// FileToConvert represents a single notebook to process.
type FileToConvert struct {
	InputPath string
	OutputDir string // Receives <stem>.md and <stem>/
}

// discoverFiles finds all notebooks to convert under inputPath.
// Directory inputs keep their layout below outputDir; hidden directories
// and Jupyter checkpoints are skipped.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.HasExtension(inputPath, nb2md.NotebookExt) {
			return nil, fmt.Errorf("%w: %s", nb2md.ErrNotNotebook, inputPath)
		}
		return []FileToConvert{{
			InputPath: inputPath,
			OutputDir: resolveOutputDir(inputPath, outputDir, ""),
		}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && isSkippedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.HasExtension(path, nb2md.NotebookExt) {
			return nil
		}
		files = append(files, FileToConvert{
			InputPath: path,
			OutputDir: resolveOutputDir(path, outputDir, inputPath),
		})
		return nil
	})

	return files, err
}

func isSkippedDir(name string) bool {
	return name == checkpointDir || strings.HasPrefix(name, ".")
}

// resolveOutputDir determines where a notebook's outputs are written.
func resolveOutputDir(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return filepath.Dir(inputPath)
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath))
		}
	}

	return outputDir
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > nb2md.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, nb2md.MaxWorkers)
	}
	return nil
}
