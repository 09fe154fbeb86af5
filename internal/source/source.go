// Package source resolves schema source locators and concatenates their
// contents into the single raw text the merge engine consumes.
package source

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/calvinalkan/schema-merge/internal/fs"
)

// Stdin is the locator that reads standard input.
const Stdin = "-"

var (
	// ErrMissingInput is returned when no base source resolves to a file.
	ErrMissingInput = errors.New("no base schema files found")

	// ErrSourceNotFound is returned when a direct (non-glob) path does not exist.
	ErrSourceNotFound = errors.New("source file does not exist")

	// ErrBadPattern is returned for a malformed glob pattern.
	ErrBadPattern = errors.New("invalid glob pattern")

	// ErrNoStdin is returned when "-" is used but no stdin is attached.
	ErrNoStdin = errors.New("stdin is not available")
)

// Provider turns locators into text.
type Provider struct {
	fs      fs.FS
	workDir string
	stdin   io.Reader
}

// New returns a Provider resolving relative locators against workDir.
// stdin may be nil, in which case the "-" locator fails.
func New(fsys fs.FS, workDir string, stdin io.Reader) *Provider {
	return &Provider{fs: fsys, workDir: workDir, stdin: stdin}
}

// Input is the concatenated raw text plus the files it came from.
type Input struct {
	Text       string
	Base       []string
	Decorators []string

	// Segments records where each file starts in Text, in Files order.
	Segments []Segment
}

// Segment is one source file's span start within [Input.Text].
type Segment struct {
	Path   string
	Offset int
}

// Locate maps a byte offset in Text to the file holding it and the 1-based
// line within that file. Path is empty when no segment covers the offset.
func (in Input) Locate(offset int) (string, int) {
	offset = min(max(offset, 0), len(in.Text))

	seg := Segment{}

	for _, s := range in.Segments {
		if s.Offset > offset {
			break
		}

		seg = s
	}

	return seg.Path, strings.Count(in.Text[seg.Offset:offset], "\n") + 1
}

// Files returns every resolved source, base first.
func (in Input) Files() []string {
	return append(slices.Clone(in.Base), in.Decorators...)
}

// Load resolves base and decorator locators and concatenates their contents
// byte for byte, base sources first, each list in locator order.
//
// Returns [ErrMissingInput] if base resolves to nothing. Decorator globs may
// match nothing.
func (p *Provider) Load(base, decorators []string) (Input, error) {
	basePaths, err := p.Resolve(base)
	if err != nil {
		return Input{}, err
	}

	if len(basePaths) == 0 {
		return Input{}, fmt.Errorf("%w (looked for: %s)", ErrMissingInput, strings.Join(base, ", "))
	}

	decoratorPaths, err := p.Resolve(decorators)
	if err != nil {
		return Input{}, err
	}

	var (
		text     strings.Builder
		segments []Segment
	)

	for _, path := range append(slices.Clone(basePaths), decoratorPaths...) {
		data, readErr := p.read(path)
		if readErr != nil {
			return Input{}, readErr
		}

		segments = append(segments, Segment{Path: path, Offset: text.Len()})
		text.Write(data)
	}

	return Input{
		Text:       text.String(),
		Base:       basePaths,
		Decorators: decoratorPaths,
		Segments:   segments,
	}, nil
}

// Resolve expands locators into concrete paths, in locator order.
//
// A locator containing glob metacharacters is expanded with doublestar ("**"
// matches across directories); its matches are sorted and only regular files
// are kept. Any other locator must name an existing path, else
// [ErrSourceNotFound]. A path seen earlier is skipped.
func (p *Provider) Resolve(locators []string) ([]string, error) {
	var (
		paths []string
		seen  = make(map[string]bool)
	)

	add := func(path string) {
		if seen[path] {
			return
		}

		seen[path] = true
		paths = append(paths, path)
	}

	for _, loc := range locators {
		if loc == Stdin {
			add(Stdin)

			continue
		}

		abs := p.abs(loc)

		if !isGlob(loc) {
			exists, err := p.fs.Exists(abs)
			if err != nil {
				return nil, fmt.Errorf("checking %s: %w", loc, err)
			}

			if !exists {
				return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, abs)
			}

			add(abs)

			continue
		}

		matches, err := doublestar.FilepathGlob(abs, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrBadPattern, loc, err)
		}

		slices.Sort(matches)

		for _, m := range matches {
			add(m)
		}
	}

	return paths, nil
}

func (p *Provider) read(path string) ([]byte, error) {
	if path != Stdin {
		data, err := p.fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		return data, nil
	}

	if p.stdin == nil {
		return nil, ErrNoStdin
	}

	data, err := io.ReadAll(p.stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}

	return data, nil
}

func (p *Provider) abs(loc string) string {
	path := filepath.FromSlash(loc)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(p.workDir, path)
}

func isGlob(loc string) bool {
	return strings.ContainsAny(loc, "*?[{")
}
