package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"aiedit/internal/highlight"
)

var (
	hlForceColor  bool
	hlLineNumbers bool
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <file>",
	Short: "Print a C/C++ file with syntax colouring",
	Long: `Print a C/C++ file using the same highlighting as the editor,
including block comments that span lines. Colour is only emitted when the
output is a terminal unless --color is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		doc := highlight.NewDocument(highlight.MustCpp(), string(data))

		out := cmd.OutOrStdout()
		r := lipgloss.NewRenderer(out)
		if hlForceColor {
			r.SetColorProfile(termenv.ANSI256)
		}
		return writeHighlighted(out, doc, newPalette(r), hlLineNumbers)
	},
}

func init() {
	highlightCmd.Flags().BoolVar(&hlForceColor, "color", false, "emit colour even when not writing to a terminal")
	highlightCmd.Flags().BoolVarP(&hlLineNumbers, "line-numbers", "n", false, "prefix each line with its number")
	rootCmd.AddCommand(highlightCmd)
}

// palette maps categories to the editor's colours.
type palette struct {
	styles map[highlight.Category]lipgloss.Style
	gutter lipgloss.Style
}

func newPalette(r *lipgloss.Renderer) palette {
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c)).TabWidth(lipgloss.NoTabConversion)
	}
	comment := fg("#808080")
	return palette{
		styles: map[highlight.Category]lipgloss.Style{
			highlight.Keyword:      fg("#FFFF00").Bold(true),
			highlight.Type:         fg("#00FFFF"),
			highlight.Preprocessor: fg("#AF5FFF"),
			highlight.Number:       fg("#FF00FF"),
			highlight.String:       fg("#00AF00"),
			highlight.Char:         fg("#AFAF00"),
			highlight.Function:     fg("#5F87FF"),
			highlight.LineComment:  comment.Italic(true),
			highlight.BlockComment: comment.Italic(true),
		},
		gutter: comment,
	}
}

func (p palette) render(c highlight.Category, s string) string {
	if st, ok := p.styles[c]; ok {
		return st.Render(s)
	}
	return s
}

// writeHighlighted prints every line of doc. The empty line after a final
// newline is not printed.
func writeHighlighted(w io.Writer, doc *highlight.Document, p palette, numbers bool) error {
	n := doc.Len()
	if n > 0 && doc.Line(n-1) == "" {
		n--
	}
	width := len(fmt.Sprint(n))
	for i := 0; i < n; i++ {
		var b strings.Builder
		if numbers {
			b.WriteString(p.gutter.Render(fmt.Sprintf("%*d ", width, i+1)))
		}

		runes := []rune(doc.Line(i))
		cats := doc.Categories(i)
		for start := 0; start < len(runes); {
			end := start + 1
			for end < len(runes) && cats[end] == cats[start] {
				end++
			}
			b.WriteString(p.render(cats[start], string(runes[start:end])))
			start = end
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
