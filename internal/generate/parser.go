package generate

import (
	"strings"

	"github.com/uicraft/uicraft/internal/domain"
)

const (
	markupMarker = "JSX:"
	styleMarker  = "CSS:"
)

// Parse extracts an artifact from raw completion text. The markup section
// runs from after its marker up to the next CSS marker or end of text; the
// style section runs from its marker to end of text. Both sections are
// trimmed. A missing marker yields an empty field: parsing is best-effort
// and never fails, since a partial model response must still produce a
// usable result.
func Parse(text string) domain.Artifact {
	var artifact domain.Artifact

	markupIdx := strings.Index(text, markupMarker)
	styleIdx := strings.Index(text, styleMarker)

	if markupIdx >= 0 {
		start := markupIdx + len(markupMarker)
		end := len(text)
		// The terminator is the next style marker after the markup starts,
		// not necessarily the first one in the text.
		if rel := strings.Index(text[start:], styleMarker); rel >= 0 {
			end = start + rel
		}
		artifact.Markup = strings.TrimSpace(text[start:end])
	}
	if styleIdx >= 0 {
		artifact.Style = strings.TrimSpace(text[styleIdx+len(styleMarker):])
	}
	return artifact
}
