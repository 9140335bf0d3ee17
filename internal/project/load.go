package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"resolve/internal/diag"
	"resolve/internal/source"
)

// DeclError is a declaration file that failed to decode.
type DeclError struct {
	Path string
	Line int // 1-based, 0 when unknown
	Err  error
}

func (e *DeclError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DeclError) Unwrap() error { return e.Err }

// IsDeclFile reports whether name looks like a module declaration file.
func IsDeclFile(name string) bool {
	if filepath.Base(name) == ManifestName {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

// DiscoverModules lists declaration files under dir, sorted.
func DiscoverModules(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsDeclFile(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover modules in %s: %w", dir, err)
	}
	slices.Sort(out)
	return out, nil
}

// DecodeDecl decodes content by the extension of path.
func DecodeDecl(path string, content []byte) (ModuleDecl, error) {
	var decl ModuleDecl
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(content)).Decode(&decl)
		if err != nil {
			var perr toml.ParseError
			if errors.As(err, &perr) {
				return decl, &DeclError{Path: path, Line: perr.Position.Line, Err: errors.New(perr.Message)}
			}
			return decl, &DeclError{Path: path, Err: err}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return decl, &DeclError{Path: path, Err: fmt.Errorf("unknown key %q", undecoded[0].String())}
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&decl); err != nil && !errors.Is(err, io.EOF) {
			return decl, &DeclError{Path: path, Err: err}
		}
	default:
		return decl, &DeclError{Path: path, Err: fmt.Errorf("unsupported declaration format %q", filepath.Ext(path))}
	}
	return decl, nil
}

// LoadResult is one declaration file after decoding.
type LoadResult struct {
	Path string
	Meta ModuleMeta
	OK   bool
	Bag  *diag.Bag
}

// LoadModules reads paths into fs and decodes them concurrently. Every file
// gets its own bag; failures are reported there rather than returned.
func LoadModules(ctx context.Context, fs *source.FileSet, paths []string, maxDiagnostics, jobs int) ([]LoadResult, error) {
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make([]error, len(paths))
	for i, path := range paths {
		fileIDs[i], loadErrors[i] = fs.Load(path)
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]LoadResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			bag := diag.NewBag(maxDiagnostics)
			results[i] = LoadResult{Path: path, Bag: bag}
			reporter := diag.BagReporter{Bag: bag}

			if loadErrors[i] != nil {
				diag.ReportError(reporter, diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErrors[i].Error()).Emit()
				return nil
			}
			file := fs.Get(fileIDs[i])
			decl, err := DecodeDecl(path, file.Content)
			if err != nil {
				span := source.Span{File: file.ID}
				var de *DeclError
				if errors.As(err, &de) && de.Line > 0 {
					span = fs.LineSpan(file.ID, de.Line)
				}
				diag.ReportError(reporter, diag.DeclSyntax, span, err.Error()).Emit()
				return nil
			}
			meta := NewModuleMeta(fs, file.ID, decl)
			if !IsValidModuleIdent(decl.Module) {
				msg := fmt.Sprintf("%s: missing or invalid module name %q", path, decl.Module)
				diag.ReportError(reporter, diag.DeclMissingName, source.Span{File: file.ID}, msg).Emit()
				return nil
			}
			results[i].Meta = meta
			results[i].OK = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
