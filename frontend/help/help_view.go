package help

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"godam/frontend/shared/html"
	"godam/frontend/shared/nav"
)

type PageData struct {
	IsAdmin bool
	Nav     nav.TopNavData
}

func HelpPage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Help</h1>
<section id="help-print">
  <h2>Printing a delivery note</h2>
  <ol>
    <li>Open <a href="/tasker/delivery-notes/print">Print DN</a> with a draft from the delivery-note form, or add <code>?id=</code> for a saved note.</li>
    <li>Wait for the preview to show the note. A yellow banner means some data could not be loaded and the note was filled from what was available.</li>
    <li>Pick English or Arabic, then press Print. Use Download PDF for a copy to e-mail.</li>
  </ol>
</section>
<section id="help-progress">
  <h2>Following an order</h2>
  <p>Enter an outbound number on <a href="/tasker/orders">Order progress</a>. Each part moves through Pending, Picked, Checked, Loaded and Closed as warehouse movements arrive. The page updates by itself.</p>
</section>
<section id="help-exports">
  <h2>Exports</h2>
  <p>The print page offers CSV and Excel downloads of the note lines. The order progress page offers an Excel download of the current stages.</p>
</section>`)
		if data.IsAdmin {
			b.WriteString(`
<section id="help-admin">
  <h2>Administration</h2>
  <p><a href="/tasker/admin/users">Users</a> creates console accounts. Passwords need at least 12 characters with upper and lower case letters, a digit and a symbol.</p>
  <p><a href="/tasker/admin/print-runs">Print log</a> lists every print and PDF download with the user who made it.</p>
</section>`)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
	return html.Layout("Help", &data.Nav, body)
}
