package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/linuxrag/internal/core/domain"
	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
)

// DefaultSystemInstruction is the assistant persona: a Persian-speaking
// Linux/free-software assistant that answers briefly, stays consistent with
// the retrieved passages and says so when unsure.
const DefaultSystemInstruction = "تو یک دستیار دانای فارسی‌زبان دربارهٔ لینوکس و نرم‌افزار آزاد هستی. " +
	"تا حد امکان کوتاه و دقیق پاسخ بده و اگر مطمئن نیستی، صادقانه بگو. " +
	"منابع را در نظر داشته باش و با داده‌های بازیابی‌شده سازگار بمان."

// Response-language directives, selected from the question's script.
const (
	DirectivePersian = "به فارسی پاسخ بده."
	DirectiveEnglish = "Answer in English."
)

// BuildContext formats ranked documents into the numbered context block:
// 1-indexed "[i] content" entries joined with blank lines, in ranked order.
func BuildContext(docs []domain.Document) string {
	parts := make([]string, 0, len(docs))
	for i, d := range docs {
		parts = append(parts, fmt.Sprintf("[%d] %s", i+1, d.Content))
	}
	return strings.Join(parts, "\n\n")
}

// DetectLangDirective picks the response language from the question's
// script: any Arabic-script code point (U+0600-U+06FF) selects Persian,
// otherwise English. A heuristic, not full language detection.
func DetectLangDirective(question string) string {
	for _, r := range question {
		if r >= 0x0600 && r <= 0x06FF {
			return DirectivePersian
		}
	}
	return DirectiveEnglish
}

// AssembleBundle builds the prompt bundle for a question over its ranked
// documents. The bundle is created once per request and consumed by either
// the batch or the streaming generation path.
func AssembleBundle(question string, ranked []domain.Document, systemInstruction string) domain.PromptBundle {
	return domain.PromptBundle{
		SystemInstruction: systemInstruction,
		Question:          question,
		ContextText:       BuildContext(ranked),
		LangDirective:     DetectLangDirective(question),
		RankedDocuments:   ranked,
	}
}

// BuildMessages turns a prompt bundle into the chat messages sent to the
// generation model.
func BuildMessages(bundle domain.PromptBundle) []driven.ChatMessage {
	return []driven.ChatMessage{
		{
			Role:    "system",
			Content: bundle.SystemInstruction + "\n\n" + bundle.LangDirective,
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("پرسش:\n%s\n\nمتون کمکی:\n%s", bundle.Question, bundle.ContextText),
		},
	}
}
