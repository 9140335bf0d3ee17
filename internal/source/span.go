package source

import "fmt"

// Span is a half-open byte range inside one file. The zero Span points at
// no file and marks project-level diagnostics.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}
