package editor

import (
	"github.com/gdamore/tcell/v2"

	"aiedit/internal/highlight"
)

// Style definitions for syntax highlighting.
var (
	styleDefault      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleKeyword      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlack)
	styleString       = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlack)
	styleComment      = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	styleType         = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 255, 255)).Background(tcell.ColorBlack)
	styleNumber       = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 0, 255)).Background(tcell.ColorBlack)
	styleFunction     = tcell.StyleDefault.Foreground(tcell.ColorBlue).Background(tcell.ColorBlack)
	stylePreproc      = tcell.StyleDefault.Foreground(tcell.ColorPurple).Background(tcell.ColorBlack)
	styleChar         = tcell.StyleDefault.Foreground(tcell.ColorOlive).Background(tcell.ColorBlack)
	styleGutter       = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	styleBar          = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
	styleStatus       = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleError        = tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorWhite)
	styleOutput       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(20, 20, 20))
	styleBracketMatch = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlue)

	currentLineBackground = tcell.NewRGBColor(40, 40, 40)
)

// styleFor maps a highlight category to its screen style.
func styleFor(c highlight.Category) tcell.Style {
	switch c {
	case highlight.Keyword:
		return styleKeyword
	case highlight.Type:
		return styleType
	case highlight.Preprocessor:
		return stylePreproc
	case highlight.Number:
		return styleNumber
	case highlight.String:
		return styleString
	case highlight.Char:
		return styleChar
	case highlight.Function:
		return styleFunction
	case highlight.LineComment, highlight.BlockComment:
		return styleComment
	default:
		return styleDefault
	}
}
