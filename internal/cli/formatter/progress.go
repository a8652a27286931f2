package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderLoadBar renders machine load as a compact bar without brackets.
// Idle is dim, normal load green, near-full yellow and overbooked red.
func RenderLoadBar(load float64, width int) string {
	if width < 2 {
		width = 2
	}
	pct := load
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	filled := int(pct*float64(width) + 0.5)
	if load > 0 && filled == 0 {
		filled = 1
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case load <= 0:
		style = StyleDim
	case load > 1.0001:
		style = StyleRed
	case load >= 0.85:
		style = StyleYellow
	}
	return style.Render(bar)
}

// RenderLoad renders a load bar followed by its percentage, e.g. "███░ 75%".
func RenderLoad(load float64, width int) string {
	return fmt.Sprintf("%s %3.0f%%", RenderLoadBar(load, width), load*100)
}
