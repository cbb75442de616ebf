// Package scan flags files whose path or content looks like a committed
// secret.
package scan

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternSet is the uncompiled form of Patterns, as it appears in config.
type PatternSet struct {
	// Paths are regular expressions matched from the start of a
	// slash-separated relative path.
	Paths []string
	// PathGlobs are doublestar globs matched against the same path.
	PathGlobs []string
	// Content are regular expressions searched anywhere in file content.
	Content []string
}

func DefaultPatternSet() PatternSet {
	return PatternSet{
		Paths: []string{
			`.*\.env$`,
			`.*\.key$`,
			`.*\.pem$`,
			`.*\.p12$`,
			`.*\.crt$`,
			`.*id_rsa.*`,
			`.*\.kdbx$`,
		},
		Content: []string{
			`API_KEY\s*=\s*['"].+['"]`,
			`PASSWORD\s*=\s*['"].+['"]`,
			`AWS_SECRET_ACCESS_KEY\s*=\s*['"].+['"]`,
			`BEGIN PRIVATE KEY`,
			`BEGIN RSA PRIVATE KEY`,
			`BEGIN EC PRIVATE KEY`,
			`[a-zA-Z0-9+_.-]+@[a-zA-Z0-9.-]+`,
		},
	}
}

// Patterns is compiled once at startup and never modified afterwards, so a
// single value can be shared by the scanner and the ignore manager.
type Patterns struct {
	paths   []*regexp.Regexp
	globs   []string
	content []*regexp.Regexp
}

// Compile validates and compiles every pattern in set. All bad patterns are
// reported together.
func Compile(set PatternSet) (*Patterns, error) {
	p := &Patterns{}
	var errs []error

	for _, expr := range set.Paths {
		// Path patterns behave like a match from the start of the path.
		re, err := regexp.Compile(`^(?:` + expr + `)`)
		if err != nil {
			errs = append(errs, fmt.Errorf("path pattern %q: %w", expr, err))
			continue
		}
		p.paths = append(p.paths, re)
	}

	for _, glob := range set.PathGlobs {
		if !doublestar.ValidatePattern(glob) {
			errs = append(errs, fmt.Errorf("path glob %q: %w", glob, doublestar.ErrBadPattern))
			continue
		}
		p.globs = append(p.globs, glob)
	}

	for _, expr := range set.Content {
		re, err := regexp.Compile(expr)
		if err != nil {
			errs = append(errs, fmt.Errorf("content pattern %q: %w", expr, err))
			continue
		}
		p.content = append(p.content, re)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return p, nil
}

// MustCompile is Compile for pattern sets known to be valid.
func MustCompile(set PatternSet) *Patterns {
	p, err := Compile(set)
	if err != nil {
		panic(err)
	}
	return p
}

// MatchPath reports whether a repository-relative path looks sensitive.
func (p *Patterns) MatchPath(rel string) bool {
	rel = normalize(rel)
	for _, re := range p.paths {
		if re.MatchString(rel) {
			return true
		}
	}
	for _, glob := range p.globs {
		if ok, err := doublestar.Match(glob, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// MatchContent reports whether any content pattern occurs in data.
func (p *Patterns) MatchContent(data []byte) bool {
	for _, re := range p.content {
		if re.Match(data) {
			return true
		}
	}
	return false
}

func (p *Patterns) HasContentPatterns() bool {
	return len(p.content) > 0
}

func normalize(rel string) string {
	rel = strings.ReplaceAll(rel, `\`, "/")
	return strings.TrimPrefix(path.Clean(rel), "./")
}
