package driver

import (
	"errors"

	"resolve/internal/diag"
	"resolve/internal/mathtypes"
	"resolve/internal/source"
	"resolve/internal/symbols"
)

// report converts a recoverable analysis error into a diagnostic at span.
func (a *analyzer) report(err error, span source.Span) {
	if err == nil {
		return
	}
	reportError(a.reporter, err, span)
}

func reportError(r diag.Reporter, err error, span source.Span) {
	var (
		dup        *symbols.DuplicateSymbolError
		missing    *symbols.NoSuchSymbolError
		noModule   *symbols.NoSuchModuleError
		unexpected *symbols.UnexpectedSymbolError
		dupModule  *symbols.DuplicateModuleError
		mismatch   *mathtypes.TypeMismatchError
		binding    *mathtypes.BindingError
	)
	switch {
	case errors.As(err, &dup) && dup.Ambiguous():
		b := diag.ReportError(r, diag.SemaAmbiguousSymbol, span, err.Error())
		for _, sym := range append([]symbols.Symbol{dup.Existing}, dup.Others...) {
			withSymbolNote(b, sym, "candidate from "+sym.Module.String())
		}
		b.Emit()
	case errors.As(err, &dup):
		b := diag.ReportError(r, diag.SemaDuplicateSymbol, span, err.Error())
		withSymbolNote(b, dup.Existing, "previous declaration")
		b.Emit()
	case errors.As(err, &missing):
		diag.ReportError(r, diag.SemaUnresolvedSymbol, span, err.Error()).Emit()
	case errors.As(err, &noModule):
		diag.ReportError(r, diag.SemaNoSuchModule, span, err.Error()).Emit()
	case errors.As(err, &unexpected):
		b := diag.ReportError(r, diag.SemaUnexpectedSymbol, span, err.Error())
		withSymbolNote(b, unexpected.Actual, "declared here")
		b.Emit()
	case errors.As(err, &dupModule):
		diag.ReportError(r, diag.SemaDuplicateModule, span, err.Error()).Emit()
	case errors.As(err, &mismatch):
		diag.ReportError(r, diag.SemaTypeMismatch, span, err.Error()).Emit()
	case errors.As(err, &binding):
		diag.ReportError(r, diag.SemaBinding, span, err.Error()).Emit()
	default:
		diag.ReportError(r, diag.SemaError, span, err.Error()).Emit()
	}
}

func withSymbolNote(b *diag.ReportBuilder, sym symbols.Symbol, msg string) {
	if sym.Span.File == 0 {
		return
	}
	b.WithNote(sym.Span, msg)
}
