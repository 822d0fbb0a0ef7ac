// Package block splits a document into blocks and classifies them.
//
// A block is a run of lines delimited by blank lines. Blank lines inside a
// code or math fence do not end a block.
package block

import (
	"iter"
	"regexp"
	"strings"
)

// Block is a run of lines, without line terminators.
type Block struct {
	Lines []string
	// 1-based number of the first line.
	Line int
}

var (
	// Capture group 1: language tag.
	codeOpenRegexp  = regexp.MustCompile("^```([\\p{L}\\p{N}_+#][\\p{L}\\p{N}_+#\\s]*)$")
	codeFenceRegexp = regexp.MustCompile("^```\\s*$")
	mathOpenRegexp  = regexp.MustCompile(`^«««\s*$`)
	mathCloseRegexp = regexp.MustCompile(`^»»»\s*$`)
)

// Segmenter produces Blocks from a sequence of lines.
type Segmenter struct {
	next func() (string, bool)
	stop func()

	lineno    int
	blankable bool
	done      bool
}

// NewSegmenter creates a Segmenter reading from lines. Lines must not
// contain line terminators.
func NewSegmenter(lines iter.Seq[string]) *Segmenter {
	next, stop := iter.Pull(lines)
	return &Segmenter{next: next, stop: stop}
}

// Next returns the next Block, or false when the input is exhausted.
func (s *Segmenter) Next() (Block, bool) {
	if s.done {
		return Block{}, false
	}
	var b Block
	for {
		line, ok := s.next()
		if !ok {
			s.done = true
			s.stop()
			return b, len(b.Lines) > 0
		}
		s.lineno++

		switch {
		case codeOpenRegexp.MatchString(line):
			s.blankable = true
		case codeFenceRegexp.MatchString(line):
			s.blankable = !s.blankable
		case mathOpenRegexp.MatchString(line):
			s.blankable = true
		case mathCloseRegexp.MatchString(line):
			s.blankable = false
		}

		if strings.TrimSpace(line) == "" && !s.blankable {
			if len(b.Lines) > 0 {
				return b, true
			}
			continue
		}
		if len(b.Lines) == 0 {
			b.Line = s.lineno
		}
		b.Lines = append(b.Lines, line)
	}
}

// Close releases the underlying line iterator. It is only needed when the
// Segmenter is abandoned before Next returns false.
func (s *Segmenter) Close() {
	if !s.done {
		s.done = true
		s.stop()
	}
}

// Segment returns the blocks of lines as a sequence.
func Segment(lines iter.Seq[string]) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		s := NewSegmenter(lines)
		defer s.Close()
		for {
			b, ok := s.Next()
			if !ok || !yield(b) {
				return
			}
		}
	}
}
