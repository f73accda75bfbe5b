package tui

import (
	"strings"
	"sync"
)

// Terminal apps can't change the user's font, so the bar and chrome glyphs come in a
// Unicode and an ASCII set.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// parseGlyphs maps the tui.glyphs config value to a set. Unknown values keep Unicode.
func parseGlyphs(v string) glyphSet {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "ascii":
		return glyphSetASCII
	default:
		return glyphSetUnicode
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphBarDone() string {
	if glyphs() == glyphSetASCII {
		return "#"
	}
	return "█"
}

func glyphBarRemain() string {
	if glyphs() == glyphSetASCII {
		return "="
	}
	return "▓"
}

func glyphEmpty() string {
	if glyphs() == glyphSetASCII {
		return "."
	}
	return "·"
}

func glyphHandle() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "┃"
}

func glyphArrow() string {
	if glyphs() == glyphSetASCII {
		return "->"
	}
	return "→"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphSelected() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▸"
}
