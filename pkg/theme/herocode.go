package theme

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/netonframework/docsite/pkg/markdown"
)

const (
	NetonHeroLanguage = "kotlin"
	NetonHeroSample   = `@Controller("/hello")
class HelloController {

    @Get("/{name}")
    fun hello(@PathVariable name: String): String =
        "Hello, $name!"
}

fun main(args: Array<String>) {
    Neton.run(args) {
        http { port = 8080 }
    }
}
`
)

// HeroCode renders a highlighted code sample
func HeroCode(code, lang string) Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="hero-code">`); err != nil {
			return err
		}
		if err := markdown.Highlight(w, code, lang, false); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
