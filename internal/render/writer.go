package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/alnah/nb2md/internal/fileutil"
	"github.com/alnah/nb2md/internal/pipeline"
)

// ErrWrite indicates an output file could not be written.
var ErrWrite = errors.New("failed to write output")

// FilesWriter persists rendered text and extracted resources under BuildDir.
type FilesWriter struct {
	BuildDir string
}

// Write stores text as <BuildDir>/<stem>.<ext> and every entry of
// res.Outputs at its relative path below BuildDir. Resource paths that
// would escape BuildDir are rejected. It returns the paths written, the
// main document first.
func (w *FilesWriter) Write(text string, res *pipeline.Resources, stem, ext string) ([]string, error) {
	if err := fileutil.ValidateExtension(ext); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	docPath, err := fileutil.SafeJoin(w.BuildDir, stem+"."+ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	// Resources first so the document never references a missing file.
	var written []string
	if res != nil {
		rels := make([]string, 0, len(res.Outputs))
		for rel := range res.Outputs {
			rels = append(rels, rel)
		}
		sort.Strings(rels)

		for _, rel := range rels {
			path, err := fileutil.SafeJoin(w.BuildDir, rel)
			if err != nil {
				return written, fmt.Errorf("%w: %v", ErrWrite, err)
			}
			if err := fileutil.WriteFile(path, res.Outputs[rel]); err != nil {
				return written, fmt.Errorf("%w: %s: %v", ErrWrite, rel, err)
			}
			written = append(written, path)
		}
	}

	if err := fileutil.WriteFile(docPath, []byte(text)); err != nil {
		return written, fmt.Errorf("%w: %s: %v", ErrWrite, filepath.Base(docPath), err)
	}
	return append([]string{docPath}, written...), nil
}
