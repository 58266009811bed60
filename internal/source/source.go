// Package source owns per-file byte buffers and maps (offset, length)
// spans into retrievable slices and line/column positions, computed on
// demand rather than carried on every token (spec §2 "byte source and
// span service").
package source

import "strings"

// Buffer holds one file's immutable bytes plus its canonical path.
type Buffer struct {
	Path  string
	Bytes []byte

	// lineStarts[i] is the byte offset of the first byte of line i
	// (0-indexed); computed lazily on first position query.
	lineStarts []int
}

// NewBuffer wraps raw bytes read for path. The caller owns bytes and must
// not mutate them afterward; buffers outlive all tokens and AST nodes
// that reference them (spec §5 "Shared resources").
func NewBuffer(path string, bytes []byte) *Buffer {
	return &Buffer{Path: path, Bytes: bytes}
}

func (b *Buffer) ensureLineStarts() {
	if b.lineStarts != nil {
		return
	}
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i, c := range b.Bytes {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	b.lineStarts = starts
}

// Slice returns the byte range [start, start+length) of the buffer. It
// panics if the range is out of bounds, since a well-formed span never
// exceeds its owning buffer.
func (b *Buffer) Slice(start, length int) []byte {
	return b.Bytes[start : start+length]
}

// Text is Slice as a string.
func (b *Buffer) Text(start, length int) string {
	return string(b.Slice(start, length))
}

// Position computes the zero-indexed (line, column) for a byte offset.
func (b *Buffer) Position(offset int) (line, col int) {
	b.ensureLineStarts()
	// binary search for the last line start <= offset
	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, offset - b.lineStarts[lo]
}

// LineText returns the full source line containing offset, without its
// trailing newline.
func (b *Buffer) LineText(offset int) string {
	b.ensureLineStarts()
	line, _ := b.Position(offset)
	start := b.lineStarts[line]
	end := len(b.Bytes)
	if line+1 < len(b.lineStarts) {
		end = b.lineStarts[line+1]
	}
	return strings.TrimRight(string(b.Bytes[start:end]), "\r\n")
}

// Span is a contiguous byte range within a single file.
type Span struct {
	Start  int
	Length int
}

// End returns the first offset past the span.
func (s Span) End() int { return s.Start + s.Length }
