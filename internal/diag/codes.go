package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Declaration file decoding
	DeclInfo         Code = 2000
	DeclSyntax       Code = 2001
	DeclMissingName  Code = 2002
	DeclUnknownShape Code = 2003
	DeclBadStrategy  Code = 2004

	// Semantic analysis
	SemaInfo             Code = 3000
	SemaError            Code = 3001
	SemaDuplicateSymbol  Code = 3002
	SemaUnresolvedSymbol Code = 3005
	SemaNoSuchModule     Code = 3006
	SemaUnexpectedSymbol Code = 3007
	SemaTypeMismatch     Code = 3015
	SemaBinding          Code = 3016
	SemaNoOverload       Code = 3046
	SemaAmbiguousSymbol  Code = 3047
	SemaDuplicateModule  Code = 3048

	// Project layout
	ProjInfo             Code = 5000
	ProjManifest         Code = 5001
	ProjDuplicateModule  Code = 5002
	ProjMissingModule    Code = 5003
	ProjSelfImport       Code = 5004
	ProjImportCycle      Code = 5005
	ProjDependencyFailed Code = 5006

	// IO
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	DeclInfo:             "Declaration information",
	DeclSyntax:           "Malformed declaration file",
	DeclMissingName:      "Declaration without a name",
	DeclUnknownShape:     "Unrecognised classification expression",
	DeclBadStrategy:      "Unknown search strategy",
	SemaInfo:             "Semantic information",
	SemaError:            "Semantic error",
	SemaDuplicateSymbol:  "Duplicate symbol",
	SemaUnresolvedSymbol: "Unresolved symbol",
	SemaNoSuchModule:     "Unknown module",
	SemaUnexpectedSymbol: "Symbol of unexpected kind",
	SemaTypeMismatch:     "Classification mismatch",
	SemaBinding:          "Schematic binding failed",
	SemaNoOverload:       "No matching function",
	SemaAmbiguousSymbol:  "Ambiguous reference",
	SemaDuplicateModule:  "Module declared twice",
	ProjInfo:             "Project information",
	ProjManifest:         "Invalid project manifest",
	ProjDuplicateModule:  "Duplicate module",
	ProjMissingModule:    "Missing module",
	ProjSelfImport:       "Module imports itself",
	ProjImportCycle:      "Import cycle",
	ProjDependencyFailed: "Dependency has errors",
	IOLoadFileError:      "Failed to load file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
