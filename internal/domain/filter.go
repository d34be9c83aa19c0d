package domain

import (
	"fmt"

	"github.com/gobwas/glob"
)

// SourceFilter selects input units by name. An empty include list accepts
// every file; any exclude match rejects it.
type SourceFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewSourceFilter compiles the include and exclude glob patterns.
func NewSourceFilter(include, exclude []string) (*SourceFilter, error) {
	includeGlobs, err := compileGlobs(include)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}

	excludeGlobs, err := compileGlobs(exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}

	return &SourceFilter{include: includeGlobs, exclude: excludeGlobs}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%q: %w", pattern, err)
		}

		globs = append(globs, g)
	}

	return globs, nil
}

// Match reports whether name passes the filter.
func (f *SourceFilter) Match(name string) bool {
	for _, g := range f.exclude {
		if g.Match(name) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}

	for _, g := range f.include {
		if g.Match(name) {
			return true
		}
	}

	return false
}
