package markdown

import (
	"bytes"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// ChromaStylesheetName is the file name the highlight stylesheet is served and exported under.
const ChromaStylesheetName = "chroma.css"

var colorSchemes = []struct {
	media string
	style string
}{
	{media: "light", style: "github"},
	{media: "dark", style: "monokai"},
}

var ChromaStylesheet = sync.OnceValue(func() []byte {
	var out bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	for _, scheme := range colorSchemes {
		style := styles.Get(scheme.style)
		if style == nil {
			style = styles.Fallback
		}

		var css bytes.Buffer
		if err := formatter.WriteCSS(&css, style); err != nil || css.Len() == 0 {
			continue
		}

		out.WriteString("@media (prefers-color-scheme: " + scheme.media + ") {\n")
		out.Write(css.Bytes())
		out.WriteString("}\n")
	}

	return out.Bytes()
})
