package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
	"github.com/DaviTostes/bruno-language-server/internal/completion"
)

func toProtocolPosition(p brufile.Position) protocol.Position {
	return protocol.Position{Line: uint32(max(p.Line, 0)), Character: uint32(max(p.Character, 0))}
}

func toProtocolRange(r brufile.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(r.Start), End: toProtocolPosition(r.End)}
}

func fromProtocolPosition(p protocol.Position) brufile.Position {
	return brufile.Position{Line: int(p.Line), Character: int(p.Character)}
}

func fromProtocolRange(r protocol.Range) brufile.Range {
	return brufile.Range{Start: fromProtocolPosition(r.Start), End: fromProtocolPosition(r.End)}
}

func toDiagnostics(in []brufile.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(in))
	for _, d := range in {
		pd := protocol.Diagnostic{
			Range:    toProtocolRange(d.Range),
			Severity: protocol.DiagnosticSeverity(d.Severity),
			Code:     string(d.Code),
			Source:   d.Source,
			Message:  d.Message,
		}
		for _, rel := range d.Related {
			pd.RelatedInformation = append(pd.RelatedInformation, protocol.DiagnosticRelatedInformation{
				Location: protocol.Location{
					URI:   protocol.DocumentURI(rel.Location.URI),
					Range: toProtocolRange(rel.Location.Range),
				},
				Message: rel.Message,
			})
		}
		out = append(out, pd)
	}
	return out
}

func toPublishParams(uri string, diags []brufile.Diagnostic) *protocol.PublishDiagnosticsParams {
	return &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(uri),
		Diagnostics: toDiagnostics(diags),
	}
}

func toCompletionItems(in []completion.Item) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, 0, len(in))
	for _, it := range in {
		item := protocol.CompletionItem{
			Label:      it.Label,
			Kind:       protocol.CompletionItemKind(it.Kind),
			Detail:     it.Detail,
			InsertText: it.InsertText,
		}
		if it.Documentation != "" {
			item.Documentation = protocol.MarkupContent{Kind: protocol.Markdown, Value: it.Documentation}
		}
		if it.InsertTextFormat != 0 {
			item.InsertTextFormat = protocol.InsertTextFormat(it.InsertTextFormat)
		}
		out = append(out, item)
	}
	return out
}
