// Package wordlist holds the common-word stoplist used when guessing which
// capitalized lyric words are names.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed default.txt
var defaultList string

// Set is a case-insensitive word set. The zero value is an empty set.
type Set map[string]struct{}

// Default returns the embedded stoplist. The result is shared and must not
// be modified.
var Default = sync.OnceValue(func() Set {
	s, err := Parse(strings.NewReader(defaultList))
	if err != nil {
		panic(fmt.Sprintf("wordlist: embedded list: %v", err))
	}
	return s
})

func FromWords(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s.add(w)
	}
	return s
}

func (s Set) add(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word != "" {
		s[word] = struct{}{}
	}
}

func (s Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s[strings.ToLower(word)]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Words returns the set sorted.
func (s Set) Words() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Merge returns a new set holding the words of both.
func (s Set) Merge(other Set) Set {
	out := make(Set, len(s)+len(other))
	for w := range s {
		out[w] = struct{}{}
	}
	for w := range other {
		out[w] = struct{}{}
	}
	return out
}

// Parse reads one word per line. Blank lines and lines starting with "#"
// are skipped.
func Parse(r io.Reader) (Set, error) {
	s := Set{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return s, nil
}

// Format writes the set in the form Parse reads.
func (s Set) Format() string {
	return strings.Join(s.Words(), "\n")
}
