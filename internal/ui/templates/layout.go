// Package templates renders the dashboard pages as templ components.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-RC.5/bundles/datastar.js"

const styles = `
body{font-family:system-ui,sans-serif;margin:0;background:#f5f6f8;color:#1f2933}
header{background:#1f3a5f;color:#fff;padding:12px 24px;display:flex;justify-content:space-between;align-items:center}
main{padding:24px;display:grid;gap:24px}
.cards{display:grid;grid-template-columns:repeat(auto-fit,minmax(180px,1fr));gap:16px}
.card{background:#fff;border-radius:8px;padding:16px;box-shadow:0 1px 2px rgba(0,0,0,.08)}
.card h3{margin:0 0 8px;font-size:.85rem;color:#52606d;text-transform:uppercase}
.card p{margin:0;font-size:1.5rem;font-weight:600}
.panel{background:#fff;border-radius:8px;padding:16px}
.modern-table{width:100%;border-collapse:collapse}
.modern-table th,.modern-table td{padding:6px 8px;border-bottom:1px solid #e4e7eb;text-align:left}
.placeholder{color:#7b8794;font-style:italic}
.synthetic{border-left:4px solid #f0b429}
form.login{max-width:320px;margin:80px auto;background:#fff;padding:24px;border-radius:8px;display:grid;gap:12px}
.error{color:#b42318}
`

// Layout wraps body in the shared page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><script type="module" src="%s"></script><style>%s</style></head><body>`,
			templ.EscapeString(title), datastarScript, styles); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
