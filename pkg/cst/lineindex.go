package cst

// lineIndex maps 1-based (line, column) pairs, as reported by
// gopkg.in/yaml.v3, to byte offsets within the original source. yaml.v3
// does not expose raw byte offsets on yaml.Node, only Line and Column, so
// every document builds this index once at load time and every Feature
// derives its Span from it.
type lineIndex struct {
	src    []byte
	starts []int // byte offset of the first byte of each line; starts[0] == 0

	fileID int
	path   string
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{src: src, starts: starts}
}

// offset converts a 1-based line and 1-based column (as yaml.v3 reports
// them) into a 0-based byte offset into the source.
func (l *lineIndex) offset(line, col int) int {
	if line < 1 {
		line = 1
	}
	idx := line - 1
	if idx >= len(l.starts) {
		return len(l.src)
	}
	off := l.starts[idx] + col - 1
	if off < 0 {
		off = l.starts[idx]
	}
	if off > len(l.src) {
		off = len(l.src)
	}
	return off
}

// lineCol is the inverse of offset: given a byte offset, returns the
// 1-based line and column.
func (l *lineIndex) lineCol(off int) (line, col int) {
	// Binary search for the last line start <= off.
	lo, hi := 0, len(l.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.starts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, off - l.starts[lo] + 1
}
