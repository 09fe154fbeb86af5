package merge

import (
	"slices"

	"go.uber.org/zap"
)

// DefaultHeader is the provenance line prepended to every merged document.
const DefaultHeader = "// This file was generated by schema-merge. DO NOT EDIT."

// Engine applies decorator directives to a base document.
//
// An Engine holds only configuration and is safe for concurrent use.
type Engine struct {
	kinds  []string
	header string
	log    *zap.Logger
}

// Option configures an [Engine].
type Option func(*Engine)

// WithBlockKinds adds block keywords (e.g. "enum", "type") to [DefaultBlockKinds].
func WithBlockKinds(kinds ...string) Option {
	return func(e *Engine) {
		for _, kind := range kinds {
			if kind == "" || slices.Contains(e.kinds, kind) {
				continue
			}

			e.kinds = append(e.kinds, kind)
		}
	}
}

// WithHeader sets the provenance line. An empty header keeps [DefaultHeader].
func WithHeader(header string) Option {
	return func(e *Engine) {
		if header != "" {
			e.header = header
		}
	}
}

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine returns an engine with the given options applied.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		kinds:  append([]string(nil), DefaultBlockKinds...),
		header: DefaultHeader,
		log:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// BlockKinds returns the block keywords the engine recognises.
func (e *Engine) BlockKinds() []string {
	return append([]string(nil), e.kinds...)
}

// Result is the outcome of [Engine.Merge].
type Result struct {
	// Text is the header line followed by the merged document.
	Text       string
	Directives Directives
	Stats      Stats
}

// Stats counts what the remove and replace passes did.
type Stats struct {
	FieldsRemoved  int
	FieldsReplaced int
	// Missing lists remove/replace fields that matched no line.
	// Missing fields are not errors.
	Missing []MissingField
}

// MissingField is a remove or replace entry that matched nothing.
type MissingField struct {
	Kind   Kind
	Target string
	Field  string
	Line   int
	Offset int
}

func (s *Stats) add(other Stats) {
	s.FieldsRemoved += other.FieldsRemoved
	s.FieldsReplaced += other.FieldsReplaced
	s.Missing = append(s.Missing, other.Missing...)
}

// Merge extracts directives from raw and applies them in the fixed order
// extends, removes, replaces, then prepends the header line.
//
// Errors wrap [ErrMalformedDirective] or [ErrTargetBlockNotFound]; no partial
// result is returned.
func (e *Engine) Merge(raw string) (Result, error) {
	base, directives, err := Extract(raw)
	if err != nil {
		return Result{}, err
	}

	e.log.Debug("extracted directives",
		zap.Int("extends", len(directives.Extends)),
		zap.Int("removes", len(directives.Removes)),
		zap.Int("replaces", len(directives.Replaces)),
	)

	text, err := e.ApplyExtends(base, directives.Extends)
	if err != nil {
		return Result{}, err
	}

	var stats Stats

	text, removeStats := e.ApplyRemoves(text, directives.Removes)
	stats.add(removeStats)

	text, replaceStats := e.ApplyReplaces(text, directives.Replaces)
	stats.add(replaceStats)

	return Result{
		Text:       e.header + "\n" + text,
		Directives: directives,
		Stats:      stats,
	}, nil
}

// Merge runs [Engine.Merge] with default options and returns the merged text.
func Merge(raw string) (string, error) {
	res, err := NewEngine().Merge(raw)
	if err != nil {
		return "", err
	}

	return res.Text, nil
}
