package mutate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrMarkerNotFound is returned by InjectAfterMarker when the anchor text
// does not occur in the target file.
var ErrMarkerNotFound = errors.New("marker not found")

// defaultFileMode is used for files the mutator creates.
const defaultFileMode fs.FileMode = 0o644

// Mutator edits files below a project root directory.
type Mutator struct {
	root string
}

// New creates a Mutator rooted at dir. Relative paths passed to its
// methods are joined onto dir; absolute paths are used unchanged.
func New(dir string) *Mutator {
	return &Mutator{root: dir}
}

// Root returns the directory the mutator resolves relative paths against.
func (m *Mutator) Root() string {
	return m.root
}

// Path resolves a project-relative path.
func (m *Mutator) Path(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.root, path)
}

// WriteFile creates or truncates path with text, creating parent
// directories as needed.
func (m *Mutator) WriteFile(path, text string) error {
	full := m.Path(path)
	if err := ensureParent(full); err != nil {
		return err
	}
	if err := os.WriteFile(full, []byte(text), defaultFileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// AppendBlock appends text verbatim to path, creating the file and its
// parent directories when absent. It does not check whether the block is
// already present.
func (m *Mutator) AppendBlock(path, text string) error {
	full := m.Path(path)
	if err := ensureParent(full); err != nil {
		return err
	}

	f, err := os.OpenFile(full, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", path, err)
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// InjectAfterMarker inserts text at the start of the line following the
// first line of path that contains marker. The marker line keeps its own
// line ending, "\n" or "\r\n". It returns an error wrapping
// ErrMarkerNotFound when the marker is absent and leaves the file
// untouched.
func (m *Mutator) InjectAfterMarker(path, marker, text string) error {
	return m.rewrite(path, func(content string) (string, error) {
		idx := strings.Index(content, marker)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q in %s", ErrMarkerNotFound, marker, path)
		}
		cut := idx + len(marker)
		eol := strings.IndexByte(content[cut:], '\n')
		if eol < 0 {
			// Marker on the last, unterminated line.
			return content + "\n" + text, nil
		}
		cut += eol + 1
		return content[:cut] + text + content[cut:], nil
	})
}

// CommentOutLines prefixes every line of path that does not already start
// with "#" with "#". Blank lines are commented too; a trailing newline at
// the end of the file does not produce an extra line.
func (m *Mutator) CommentOutLines(path string) error {
	return m.rewrite(path, func(content string) (string, error) {
		if content == "" {
			return content, nil
		}
		trailing := strings.HasSuffix(content, "\n")
		lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
		for i, line := range lines {
			if !strings.HasPrefix(line, "#") {
				lines[i] = "#" + line
			}
		}
		out := strings.Join(lines, "\n")
		if trailing {
			out += "\n"
		}
		return out, nil
	})
}

// CopyFile copies src to dst, both project-relative, creating dst's parent
// directories and overwriting an existing dst.
func (m *Mutator) CopyFile(src, dst string) error {
	in, err := os.Open(m.Path(src))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	full := m.Path(dst)
	if err := ensureParent(full); err != nil {
		return err
	}
	out, err := os.OpenFile(full, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// ReadFile returns the content of a project-relative file.
func (m *Mutator) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(m.Path(path))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Exists reports whether a project-relative path exists.
func (m *Mutator) Exists(path string) bool {
	_, err := os.Stat(m.Path(path))
	return err == nil
}

// rewrite reads path, applies edit and writes the result back with the
// file's original permissions. Nothing is written when edit fails.
func (m *Mutator) rewrite(path string, edit func(string) (string, error)) error {
	full := m.Path(path)

	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated, err := edit(string(data))
	if err != nil {
		return err
	}
	if updated == string(data) {
		return nil
	}

	if err := os.WriteFile(full, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ensureParent creates the parent directory tree of path, like mkdir -p.
func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
