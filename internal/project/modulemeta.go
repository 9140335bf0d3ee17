package project

import (
	"crypto/sha256"
	"unicode"

	"resolve/internal/source"
)

// ImportKind says why a module depends on another.
type ImportKind uint8

const (
	ImportRegular ImportKind = iota
	ImportFacilityOnly
	ImportExtends
	ImportFacilityModule // named by a facility or enhancement
)

func (k ImportKind) String() string {
	switch k {
	case ImportRegular:
		return "import"
	case ImportFacilityOnly:
		return "facility import"
	case ImportExtends:
		return "extends"
	case ImportFacilityModule:
		return "facility"
	default:
		return "unknown"
	}
}

type ImportMeta struct {
	Path string
	Kind ImportKind
	Span source.Span
}

// ModuleMeta is a loaded module declaration plus what the import graph
// needs to know about it.
type ModuleMeta struct {
	Name        string
	Path        string // declaration file
	File        source.FileID
	Span        source.Span
	Imports     []ImportMeta
	Decl        ModuleDecl
	ContentHash Digest
	ModuleHash  Digest // content combined with dependency hashes
}

func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NewModuleMeta derives graph metadata from a decoded declaration held in
// file. Spans point at the first mention of each name.
func NewModuleMeta(fs *source.FileSet, file source.FileID, decl ModuleDecl) ModuleMeta {
	f := fs.Get(file)
	meta := ModuleMeta{
		Name: decl.Module,
		File: file,
		Span: locateName(fs, file, decl.Module),
		Decl: decl,
	}
	if f != nil {
		meta.Path = f.Path
		meta.ContentHash = sha256.Sum256(f.Content)
	}
	add := func(path string, kind ImportKind) {
		if path == "" {
			return
		}
		for _, existing := range meta.Imports {
			if existing.Path == path {
				return
			}
		}
		meta.Imports = append(meta.Imports, ImportMeta{Path: path, Kind: kind, Span: locateName(fs, file, path)})
	}
	for _, imp := range decl.Imports {
		add(imp, ImportRegular)
	}
	for _, imp := range decl.FacilityImports {
		add(imp, ImportFacilityOnly)
	}
	for _, ext := range decl.Extends {
		add(ext, ImportExtends)
	}
	for _, target := range decl.Aliases {
		add(target, ImportRegular)
	}
	for _, fac := range decl.Facilities {
		add(fac.Module, ImportFacilityModule)
		for _, enh := range fac.Enhancements {
			add(enh.Module, ImportFacilityModule)
		}
	}
	return meta
}

// Locate returns the span of the first quoted or bare occurrence of name.
func (m ModuleMeta) Locate(fs *source.FileSet, name string) source.Span {
	return locateName(fs, m.File, name)
}

func locateName(fs *source.FileSet, file source.FileID, name string) source.Span {
	if name == "" {
		return fs.Locate(file, "")
	}
	quoted := `"` + name + `"`
	span := fs.Locate(file, quoted)
	if f := fs.Get(file); f != nil && string(f.Content[span.Start:span.End]) == quoted {
		span.Start++
		span.End--
		return span
	}
	return fs.Locate(file, name)
}
