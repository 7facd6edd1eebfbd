package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// PageState represents the last build of a single source file
type PageState struct {
	MTime int64  `json:"mtime"`
	Hash  string `json:"hash"`
	Dest  string `json:"dest"`
	Title string `json:"title"`
}

// State is the build manifest
type State struct {
	Pages        map[string]*PageState `json:"pages"` // source path -> last build
	TemplateHash string                `json:"template_hash"`
	BuildID      string                `json:"build_id"`
	BuiltAt      time.Time             `json:"built_at"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Pages: make(map[string]*PageState),
	}
}

// Load reads the manifest at path. A missing file is an empty manifest.
func Load(path string) (*State, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	st := NewState()
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if st.Pages == nil {
		st.Pages = make(map[string]*PageState)
	}

	return st, nil
}

// Save writes the manifest to path, replacing any previous file atomically
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*")
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}

// ComputeHash returns the sha256 of a file's content, prefixed with "sha256:"
func ComputeHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	sum := sha256.New()
	if _, err := io.Copy(sum, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", sum.Sum(nil)), nil
}

// HasChanged reports whether a source differs from its last build. A
// matching mtime is trusted; otherwise the content hash decides, so a
// touched but unedited file is not rebuilt.
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	page, tracked := s.Pages[path]
	if !tracked {
		return true, nil
	}
	if info.ModTime().Unix() == page.MTime {
		return false, nil
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}
	return hash != page.Hash, nil
}

// TemplateChanged reports whether the template differs from the last build
func (s *State) TemplateChanged(path string) (bool, error) {
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}
	return hash != s.TemplateHash, nil
}

// SetTemplate records the template hash used by the current build
func (s *State) SetTemplate(path string) error {
	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}
	s.TemplateHash = hash
	return nil
}

// Update records a successful build of a source
func (s *State) Update(path, dest, title string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.Pages[path] = &PageState{
		MTime: info.ModTime().Unix(),
		Hash:  hash,
		Dest:  dest,
		Title: title,
	}

	return nil
}

// Forget removes a source from the manifest so it is rebuilt next time
func (s *State) Forget(path string) {
	delete(s.Pages, path)
}

// Sources returns the tracked source paths in sorted order
func (s *State) Sources() []string {
	sources := make([]string, 0, len(s.Pages))
	for path := range s.Pages {
		sources = append(sources, path)
	}
	sort.Strings(sources)
	return sources
}

// GetMTime returns the recorded modification time for a source
func (s *State) GetMTime(path string) time.Time {
	if page, exists := s.Pages[path]; exists {
		return time.Unix(page.MTime, 0)
	}
	return time.Time{}
}
