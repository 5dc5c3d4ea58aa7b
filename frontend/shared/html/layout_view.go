package html

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"godam/frontend/shared/nav"
)

// Layout wraps body in the console chrome.
func Layout(title string, top *nav.TopNavData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><link rel="stylesheet" href="/assets/app.css"></head><body>`,
			templ.EscapeString(title)); err != nil {
			return err
		}
		if top != nil {
			if err := TopNav(*top).Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<main class="page">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>`+CSRFScript+`</body></html>`)
		return err
	})
}

// TopNav renders the navigation bar with a logout form.
func TopNav(data nav.TopNavData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<nav class="topnav"><span class="brand">GoDam</span>`); err != nil {
			return err
		}
		for _, l := range data.Links {
			if _, err := fmt.Fprintf(w, `<a href="%s">%s</a>`, templ.EscapeString(l.Href), templ.EscapeString(l.Label)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<span class="user">%s (%s)</span><form method="post" action="/logout"><button type="submit">Logout</button></form></nav>`,
			templ.EscapeString(data.Username), templ.EscapeString(data.Role))
		return err
	})
}

// Banner renders an advisory message, nothing when msg is empty.
func Banner(kind, msg string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if msg == "" {
			return nil
		}
		_, err := fmt.Fprintf(w, `<div class="banner banner-%s" role="alert">%s</div>`, templ.EscapeString(kind), templ.EscapeString(msg))
		return err
	})
}
