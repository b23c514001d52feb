package api

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/truthapi/internal/settings"
	"github.com/dmitrymomot/truthapi/internal/truth"
)

const pageStyle = `body{font-family:system-ui,sans-serif;max-width:40rem;margin:4rem auto;padding:0 1rem;color:#222}` +
	`blockquote{font-size:1.6rem;line-height:1.4;margin:2rem 0}` +
	`.meta{color:#777;font-size:.9rem}a{color:#0a58ca}`

// layout wraps body in a minimal HTML document.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1"><title>%s</title><style>%s</style></head><body>`,
			templ.EscapeString(title), pageStyle); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// truthPage renders a single truth with a link to draw another one.
func truthPage(appName string, t truth.Truth, day time.Weekday, truthPath string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<main><blockquote id="truth" data-id="%s">%s</blockquote><p class="meta">%s · %s · %s</p><p><a href="%s">Another one</a> · <a href="%s/%s/qr">QR code</a></p></main>`,
			templ.EscapeString(t.ID),
			templ.EscapeString(t.Text),
			templ.EscapeString(t.Category),
			templ.EscapeString(t.Weight),
			day,
			templ.EscapeString(truthPath),
			templ.EscapeString(truthPath),
			templ.EscapeString(t.ID),
		)
		return err
	})
	return layout(appName, body)
}

// landingPage lists the public endpoints.
func landingPage(appName, version string, ep settings.Endpoints, count int) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<main><h1>%s</h1><p class="meta">version %s · %d truths loaded</p><ul>`+
				`<li><a href="%s">%s</a> random truth (JSON, text/plain or HTML)</li>`+
				`<li><a href="%s">%s</a> service health</li>`+
				`<li><a href="/categories">/categories</a> known categories</li>`+
				`<li><a href="/stats">/stats</a> collection statistics</li>`+
				`</ul></main>`,
			templ.EscapeString(appName),
			templ.EscapeString(version),
			count,
			templ.EscapeString(ep.Truth), templ.EscapeString(ep.Truth),
			templ.EscapeString(ep.Health), templ.EscapeString(ep.Health),
		)
		return err
	})
	return layout(appName, body)
}
