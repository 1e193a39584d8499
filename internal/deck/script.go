package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Placeholders substituted in job script templates
const (
	TagJobName = "@JOB_NAME"
	TagMatID   = "@MAT_ID"
)

// DefaultScriptFiles are the job submission templates copied into every batch
var DefaultScriptFiles = []string{"env.sh", "jobsubmit.sh", "loongsarax.sh"}

// Scripts holds job submission templates loaded from a directory
type Scripts struct {
	templates map[string]string
	order     []string
}

// LoadScripts reads the named templates from dir. Every file must exist.
func LoadScripts(dir string, files []string) (*Scripts, error) {
	if len(files) == 0 {
		files = DefaultScriptFiles
	}
	s := &Scripts{templates: make(map[string]string, len(files))}
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("script template: %w", err)
		}
		if _, dup := s.templates[name]; !dup {
			s.order = append(s.order, name)
		}
		s.templates[name] = string(data)
	}
	return s, nil
}

// Files returns the template names in load order
func (s *Scripts) Files() []string {
	return append([]string(nil), s.order...)
}

// Expand substitutes the job name and batch id into a template
func Expand(tmpl, job, matID string) string {
	return strings.NewReplacer(TagJobName, job, TagMatID, matID).Replace(tmpl)
}

// WriteTo writes every expanded template into the batch directory dir
func (s *Scripts) WriteTo(w *Writer, dir, job string, b *Batch) error {
	for _, name := range s.order {
		text := Expand(s.templates[name], job, b.Name())
		if err := w.writeAtomic(filepath.Join(dir, name), text, 0o755); err != nil {
			return fmt.Errorf("batch %s: script %s: %w", b.Name(), name, err)
		}
	}
	return nil
}
