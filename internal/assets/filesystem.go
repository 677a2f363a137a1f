package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader reads templates and preview styles from a user-supplied
// asset directory laid out like the embedded one:
//
//	<dir>/templates/<name>.tmpl
//	<dir>/styles/<name>.css
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader opens dir as an asset directory. The directory must
// exist and be listable; otherwise the error wraps ErrInvalidBasePath.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	// Compare against the real location so a symlinked asset dir still
	// passes the containment check in open.
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: root}, nil
}

// LoadStyle returns styles/<name>.css, used by the HTML preview.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.open(stylesDir, name, styleExt, ErrStyleNotFound)
}

// LoadTemplate returns templates/<name>.tmpl.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.open(templatesDir, name, templateExt, ErrTemplateNotFound)
}

func (f *FilesystemLoader) open(dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	file := filepath.Join(f.basePath, dir, name+ext)
	if !f.contains(file) {
		return "", fmt.Errorf("%w: %s/%s%s escapes %s", ErrPathTraversal, dir, name, ext, f.basePath)
	}

	data, err := os.ReadFile(file) // #nosec G304 -- name validated, path contained
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", notFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(data), nil
}

// contains reports whether file, after following symlinks, lives under the
// asset directory. A file that does not exist is judged by its lexical path.
func (f *FilesystemLoader) contains(file string) bool {
	abs, err := filepath.Abs(file)
	if err != nil {
		return false
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return strings.HasPrefix(abs, f.basePath+string(filepath.Separator))
}

var _ AssetLoader = (*FilesystemLoader)(nil)
