// filesystem/parser.go
package filesystem

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vinizap/pinnotes/domain"
	"gopkg.in/yaml.v3"
)

const noteExt = ".md"

func ReadNote(path string) (*domain.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	front, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{}
	if err := yaml.Unmarshal(front, note); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	note.Content = string(bytes.TrimSpace(body))

	return note, nil
}

var (
	delimiter = []byte("---")
	opening   = []byte("---\n")
)

// splitFrontmatter cuts a note file at its delimiter lines. The file must
// open with a "---" line and the frontmatter ends at the next line that is
// exactly "---".
func splitFrontmatter(data []byte) (front, body []byte, err error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	rest, ok := bytes.CutPrefix(data, opening)
	if !ok {
		return nil, nil, fmt.Errorf("invalid frontmatter format")
	}
	for off := 0; off <= len(rest); {
		line, next, found := bytes.Cut(rest[off:], []byte("\n"))
		if bytes.Equal(line, delimiter) {
			return rest[:off], next, nil
		}
		if !found {
			break
		}
		off += len(line) + 1
	}
	return nil, nil, fmt.Errorf("invalid frontmatter format: no closing delimiter")
}

// WriteNote replaces the file at path. It writes a sibling temp file first
// so readers never see half a note.
func WriteNote(path string, note *domain.Note) error {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(note); err != nil {
		return fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	encoder.Close()

	buf.WriteString("---\n\n")
	buf.WriteString(note.Content)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".note-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func ListNotes(dir string) ([]*domain.Note, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var notes []*domain.Note
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), noteExt) {
			continue
		}

		note, err := ReadNote(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue // Skip invalid notes
		}
		notes = append(notes, note)
	}

	return notes, nil
}
