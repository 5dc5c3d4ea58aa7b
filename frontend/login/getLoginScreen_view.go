package login

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"godam/frontend/shared/html"
)

type LoginScreenData struct {
	Error  string
	Notice string
}

func GetLoginScreen(data LoginScreenData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="login"><h1>GoDam</h1>`); err != nil {
			return err
		}
		if err := html.Banner("info", data.Notice).Render(ctx, w); err != nil {
			return err
		}
		if err := html.Banner("error", data.Error).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<form method="post" action="/login" class="stack">
  <label>Username <input type="text" name="username" autocomplete="username" required autofocus></label>
  <label>Password <input type="password" name="password" autocomplete="current-password" required></label>
  <button type="submit">Sign in</button>
</form></section>`)
		return err
	})
	return html.Layout("Sign in", nil, body)
}
