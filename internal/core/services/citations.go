package services

import "github.com/custodia-labs/linuxrag/internal/core/domain"

// snippetLimit is the hard character cut applied to citation snippets.
const snippetLimit = 220

// ExtractCitations maps ranked documents to citation records, preserving
// rank order. topK bounds the output length; when fewer ranked documents
// exist the result is shorter, never padded. Source resolution falls back
// through source, doc_id, id and finally "unknown".
func ExtractCitations(ranked []domain.Document, topK int) []domain.Citation {
	if topK < 0 {
		topK = 0
	}
	if topK > len(ranked) {
		topK = len(ranked)
	}
	citations := make([]domain.Citation, 0, topK)
	for _, d := range ranked[:topK] {
		source := d.MetaString(domain.MetaSource)
		if source == "" {
			source = d.MetaString(domain.MetaDocID)
		}
		if source == "" {
			source = d.MetaString(domain.MetaID)
		}
		if source == "" {
			source = "unknown"
		}

		var url *string
		if u := d.MetaString(domain.MetaURL); u != "" {
			url = &u
		}

		citations = append(citations, domain.Citation{
			Source:  source,
			Snippet: truncateRunes(d.Content, snippetLimit),
			URL:     url,
		})
	}
	return citations
}

// truncateRunes cuts s to at most limit characters. The cut is by rune, not
// byte, so multi-byte scripts are never split mid-code-point. There is no
// word-boundary awareness.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
