package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fortio.org/safecast"
)

// NoFileID marks spans that do not point into any file.
const NoFileID FileID = 0

// FileSet owns the loaded declaration files. Slot 0 is reserved so that a
// zero Span carries no location.
type FileSet struct {
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1, 8),
		index: make(map[string]FileID),
	}
}

// Add stores content under path and returns its ID. Adding the same path
// twice yields a fresh ID and repoints the path index at it.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	normalized := filepath.ToSlash(filepath.Clean(path))
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	})
	fs.index[normalized] = id
	return id
}

// Load reads path from disk, strips a BOM and normalises CRLF.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return NoFileID, err
	}
	return fs.AddNormalized(path, content), nil
}

// AddNormalized is Add with BOM and CRLF cleanup applied to content.
func (fs *FileSet) AddNormalized(path string, content []byte) FileID {
	var flags FileFlags
	if bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		content = content[3:]
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags)
}

// AddVirtual adds an in-memory file.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id, or nil.
func (fs *FileSet) Get(id FileID) *File {
	if id == NoFileID || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// GetByPath returns the latest file registered under path.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	id, ok := fs.index[filepath.ToSlash(filepath.Clean(path))]
	if !ok {
		return nil, false
	}
	return &fs.files[id], true
}

// Resolve converts a span into 1-based line/column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Locate returns the span of the first occurrence of needle in file id, or
// a span covering the whole file when needle is absent.
func (fs *FileSet) Locate(id FileID, needle string) Span {
	f := fs.Get(id)
	if f == nil {
		return Span{}
	}
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	if needle == "" {
		return Span{File: id, End: end}
	}
	off := bytes.Index(f.Content, []byte(needle))
	if off < 0 {
		return Span{File: id, End: end}
	}
	start, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	length, err := safecast.Conv[uint32](len(needle))
	if err != nil {
		panic(fmt.Errorf("needle overflow: %w", err))
	}
	return Span{File: id, Start: start, End: start + length}
}

// LineSpan returns the span of the 1-based line in file id.
func (fs *FileSet) LineSpan(id FileID, line int) Span {
	f := fs.Get(id)
	if f == nil || line <= 0 {
		return Span{}
	}
	var start uint32
	if line > 1 {
		if line-2 >= len(f.LineIdx) {
			return Span{File: id}
		}
		start = f.LineIdx[line-2] + 1
	}
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	if line-1 < len(f.LineIdx) {
		end = f.LineIdx[line-1]
	}
	return Span{File: id, Start: start, End: end}
}

// Line returns the text of the 1-based line, without the trailing newline.
func (f *File) Line(line uint32) string {
	if line == 0 {
		return ""
	}
	var start int
	if line > 1 {
		if int(line-2) >= len(f.LineIdx) {
			return ""
		}
		start = int(f.LineIdx[line-2]) + 1
	}
	end := len(f.Content)
	if int(line-1) < len(f.LineIdx) {
		end = int(f.LineIdx[line-1])
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

func buildLineIndex(content []byte) []uint32 {
	var out []uint32
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // bounded by file size checked on Locate
		}
	}
	return out
}

// toLineCol maps a byte offset using the newline offsets in lineIdx.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// number of newlines strictly before off
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1} //nolint:gosec // line <= len(lineIdx)
}
