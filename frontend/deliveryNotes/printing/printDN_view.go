package printing

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"godam/frontend/shared/html"
	"godam/frontend/shared/nav"
	"godam/models"
)

// HostPageData drives the print page around the surface iframe.
type HostPageData struct {
	SessionID   string
	SourceLabel string
	Warning     string
	Pending     bool
	Nav         nav.TopNavData
}

const pendingSuffix = " (loading more data...)"

func printBase(sessionID string) string {
	return "/tasker/delivery-notes/print/" + sessionID
}

// PrintHostPage renders the controls and the isolated surface frame.
func PrintHostPage(data HostPageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		base := templ.EscapeString(printBase(data.SessionID))
		label := data.SourceLabel
		pending := "0"
		if data.Pending {
			label += pendingSuffix
			pending = "1"
		}
		if _, err := fmt.Fprintf(w, `<div class="print-page" data-base="%s" data-pending="%s">
<div class="print-controls">
  <div class="language-actions">
    <button type="button" data-lang="en">English</button>
    <button type="button" data-lang="ar">العربية</button>
  </div>
  <button type="button" class="print-button" id="print-button">Print Delivery Note</button>
  <a class="button" href="%s/pdf">Download PDF</a>
  <a class="button" href="/tasker/exports/delivery-notes/%s.csv">CSV</a>
  <a class="button" href="/tasker/exports/delivery-notes/%s.xlsx">XLSX</a>
  <span class="data-source-badge" id="source-badge">%s</span>
</div>`, base, pending, base, templ.EscapeString(data.SessionID), templ.EscapeString(data.SessionID), templ.EscapeString(label)); err != nil {
			return err
		}
		if err := html.Banner("warning", data.Warning).Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<div class="print-container">
<iframe id="dn-surface" title="Delivery note preview" src="%s/surface"></iframe>
</div>
</div>
<script>
(function () {
  var base = document.querySelector(".print-page").getAttribute("data-base");
  document.getElementById("print-button").addEventListener("click", function () {
    var frame = document.getElementById("dn-surface");
    if (frame && frame.contentWindow) frame.contentWindow.focus();
    window.postJSON(base + "/print");
  });
  var langs = document.querySelectorAll("[data-lang]");
  for (var i = 0; i < langs.length; i++) {
    langs[i].addEventListener("click", function (ev) {
      window.postJSON(base + "/language", {lang: ev.currentTarget.getAttribute("data-lang")});
    });
  }

  var page = document.querySelector(".print-page");
  function applyStatus(st) {
    document.getElementById("source-badge").textContent = st.sourceLabel + (st.pending ? "%s" : "");
    if (st.warning && !page.querySelector(".banner-warning")) {
      var banner = document.createElement("div");
      banner.className = "banner banner-warning";
      banner.setAttribute("role", "alert");
      banner.textContent = st.warning;
      var frame = page.querySelector(".print-container");
      frame.parentNode.insertBefore(banner, frame);
    }
  }
  if (page.getAttribute("data-pending") === "1") {
    var timer = setInterval(function () {
      fetch(base + "/status", {credentials: "same-origin"})
        .then(function (res) { return res.ok ? res.json() : null; })
        .then(function (st) {
          if (!st) { clearInterval(timer); return; }
          applyStatus(st);
          if (!st.pending) clearInterval(timer);
        })
        .catch(function () { clearInterval(timer); });
    }, 1000);
  }
})();
</script>`, base, pendingSuffix)
		return err
	})
	return html.Layout("Print Delivery Note", &data.Nav, body)
}

// PrintLandingPage asks for a note id, order id or staged draft.
func PrintLandingPage(top nav.TopNavData, errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := html.Banner("error", errMsg).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<h1>Print delivery note</h1>
<form method="get" action="/tasker/delivery-notes/print" class="stack">
  <label>Delivery note id <input type="number" name="id" min="1"></label>
  <label>Order id <input type="number" name="orderId" min="1"></label>
  <label><input type="checkbox" name="draft" value="1"> Use staged draft</label>
  <button type="submit">Open</button>
</form>`)
		return err
	})
	return html.Layout("Print Delivery Note", &top, body)
}

// PrintRunsPage lists the most recent print runs.
func PrintRunsPage(top nav.TopNavData, runs []models.PrintRun) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Print log</h1><table class="grid"><thead><tr><th>When</th><th>DN</th><th>Format</th><th>Language</th><th>Note</th><th>Order</th></tr></thead><tbody>`)
		if len(runs) == 0 {
			b.WriteString(`<tr><td colspan="6">Nothing printed yet.</td></tr>`)
		}
		for _, r := range runs {
			fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				r.CreatedAt.Format("02 Jan 2006 15:04"), templ.EscapeString(r.DNNumber), templ.EscapeString(r.Format),
				templ.EscapeString(r.Language), optID(r.DeliveryNoteID), optID(r.OrderID))
		}
		b.WriteString(`</tbody></table>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return html.Layout("Print log", &top, body)
}

func optID(id *int64) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}
