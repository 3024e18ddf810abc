package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans to positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> latest id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		index: make(map[string]FileID),
	}
}

// Add stores already-normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) (FileID, error) {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		return 0, fmt.Errorf("%s: file too large: %w", path, err)
	}
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		return 0, fmt.Errorf("len files overflow: %w", err)
	}
	id := FileID(n)
	normalizedPath := normalizePath(path)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id, nil
}

// Load reads a file from disk, normalizes BOM/CRLF/NFC, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(content)
	return fileSet.Add(path, content, flags)
}

// Normalize applies the same transformations Load does and reports which ones fired.
func Normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	var changed bool
	if content, changed = removeBOM(content); changed {
		flags |= FileHadBOM
	}
	if content, changed = normalizeCRLF(content); changed {
		flags |= FileNormalizedCRLF
	}
	if content, changed = normalizeNFC(content); changed {
		flags |= FileNormalizedNFC
	}
	return content, flags
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := Normalize(content)
	id, err := fileSet.Add(name, content, flags|FileVirtual)
	if err != nil {
		// only reachable with >4GiB test inputs
		panic(err)
	}
	return id
}

// Get returns the file metadata for the given ID, or nil if unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Len reports how many files were added.
func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine returns the text of the 1-based line lineNum without its newline.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > len(f.LineIdx)+1 {
		return ""
	}
	var start uint32
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2] + 1
	}
	end := uint32(len(f.Content)) // #nosec G115 -- bounded by Add
	if int(lineNum-1) < len(f.LineIdx) {
		end = f.LineIdx[lineNum-1]
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// DisplayPath returns a path relative to base when that is shorter.
func (f *File) DisplayPath(base string) string {
	if base == "" || f.Flags&FileVirtual != 0 {
		return f.Path
	}
	if rel, err := filepath.Rel(base, f.Path); err == nil && len(rel) < len(f.Path) {
		return filepath.ToSlash(rel)
	}
	return f.Path
}
