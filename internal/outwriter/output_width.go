package outwriter

import (
	"os"

	"github.com/cellplot/cellplot/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableTextWidth calculates the maximum width of the free-text columns of a table
// (cell IDs and charge policies) based on terminal width and the number of numeric columns.
func GetMaxTableTextWidth(cfg *contract.Config, numericColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Each numeric column needs room for the value plus padding and borders
	baseWidth := numericColumns*(cfg.Precision+10) + 20

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncateText shortens s to at most width runes, marking the cut with an ellipsis.
func truncateText(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
