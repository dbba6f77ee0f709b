package services

import "github.com/custodia-labs/linuxrag/internal/core/domain"

// mockNotes tells the operator how to leave mock mode.
const mockNotes = "Set MODE=live + COHERE_API_KEY + a populated vector store to enable the real pipeline."

// mockAnswer is the degraded/offline response: a fixed demonstration answer
// with canned citations clipped to topK. It exists so the service boundary
// stays observable before live credentials and storage are configured, and
// it must never call any external service.
func mockAnswer(_ string, topK int) domain.AskResponse {
	demo := []domain.Citation{
		{Source: "mock:justforfun", Snippet: "نمونه‌ای از متن برای تست ساختار پاسخ."},
		{Source: "mock:stallman", Snippet: "نمونهٔ دیگری برای ارجاع و نمایش."},
	}
	if topK < 0 {
		topK = 0
	}
	if topK > len(demo) {
		topK = len(demo)
	}
	notes := mockNotes
	return domain.AskResponse{
		Answer:    "(حالت ساختگی) این یک پاسخ نمونه است تا اطمینان بگیریم سرویس فعال است.",
		Citations: demo[:topK],
		UsedK:     topK,
		Mode:      domain.ModeMock,
		Notes:     &notes,
	}
}
