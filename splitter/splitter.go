// Package splitter chunks long replies for chat interfaces with a
// 2000-character message limit, closing and reopening fenced code blocks
// across chunk boundaries so each chunk renders correctly on its own.
package splitter

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxLen is the chat platform's hard per-message limit.
	MaxLen = 2000

	// safeMax leaves headroom for the closing fence a chunk may need.
	safeMax = MaxLen - 20
)

// Split breaks text into chunks of at most MaxLen characters. Splits
// prefer a newline near the limit, and a chunk that ends inside a fenced
// code block is closed with ``` while the next chunk reopens the fence
// with the same language tag.
func Split(text string) []string {
	if len(text) <= MaxLen {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for remaining != "" {
		if len(remaining) <= MaxLen {
			chunks = append(chunks, remaining)
			break
		}
		at := splitPoint(remaining)
		chunk := remaining[:at]
		remaining = remaining[at:]
		chunk, remaining = fixCodeBlocks(chunk, remaining)
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitPoint finds where to cut: the last newline in the 200 bytes before
// the safe limit, else the safe limit backed up to a rune boundary so a
// multibyte character is never torn across chunks.
func splitPoint(text string) int {
	searchStart := safeMax - 200
	if searchStart < 0 {
		searchStart = 0
	}
	if idx := strings.LastIndex(text[searchStart:safeMax], "\n"); idx >= 0 {
		return searchStart + idx + 1
	}

	at := safeMax
	for at > 0 && !utf8.RuneStart(text[at]) {
		at--
	}
	if at == 0 {
		return safeMax
	}
	return at
}

// fixCodeBlocks closes an odd fence count in chunk and reopens the fence,
// with its language, at the head of remaining.
func fixCodeBlocks(chunk, remaining string) (string, string) {
	if strings.Count(chunk, "```")%2 == 0 {
		return chunk, remaining
	}

	lastFence := strings.LastIndex(chunk, "```")
	lang, _, _ := strings.Cut(chunk[lastFence+3:], "\n")
	lang = strings.TrimSpace(lang)

	chunk += "\n```"
	remaining = "```" + lang + "\n" + remaining
	return chunk, remaining
}
