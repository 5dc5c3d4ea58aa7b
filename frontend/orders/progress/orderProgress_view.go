package progress

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"godam/frontend/shared/html"
	"godam/frontend/shared/nav"
)

// OrdersLandingPage asks for the outbound number to follow.
func OrdersLandingPage(top nav.TopNavData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Order progress</h1>
<form method="get" action="/tasker/orders" class="stack">
  <label>Outbound number <input type="text" name="outbound" required></label>
  <button type="submit">Follow</button>
</form>`)
		return err
	})
	return html.Layout("Order progress", &top, body)
}

func progressBase(outbound string) string {
	return ordersPath + "/" + url.PathEscape(outbound) + "/progress"
}

// OrderProgressPage renders one row per part with a cell per stage.
func OrderProgressPage(data ProgressData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		base := templ.EscapeString(progressBase(data.OutboundNumber))
		if _, err := fmt.Fprintf(w, `<h1>Order %s</h1>
<p><a class="button" href="/tasker/exports/orders/%s/progress.xlsx">Download XLSX</a></p>`,
			templ.EscapeString(data.OutboundNumber), templ.EscapeString(url.PathEscape(data.OutboundNumber))); err != nil {
			return err
		}
		if err := html.Banner("warning", data.Warning).Render(ctx, w); err != nil {
			return err
		}

		var b strings.Builder
		fmt.Fprintf(&b, `<table class="grid stages" data-ws="%s/ws"><thead><tr><th>Part</th><th>Description</th>`, base)
		for st := StagePicked; st <= StageClosed; st++ {
			fmt.Fprintf(&b, `<th>%s</th>`, StageName(st))
		}
		b.WriteString(`</tr></thead><tbody>`)
		if len(data.Rows) == 0 {
			b.WriteString(`<tr class="empty"><td colspan="6">No movements yet.</td></tr>`)
		}
		for _, row := range data.Rows {
			b.WriteString(stageRow(row))
		}
		b.WriteString(`</tbody></table>`)
		b.WriteString(progressScript)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return html.Layout("Order progress", &data.Nav, body)
}

func stageRow(row Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<tr data-part="%s" data-stage="%d"><td>%s</td><td>%s</td>`,
		templ.EscapeString(row.PartNumber), row.Stage, templ.EscapeString(row.PartNumber), templ.EscapeString(row.Description))
	for st := StagePicked; st <= StageClosed; st++ {
		if row.Stage >= st {
			b.WriteString(`<td class="done">&#10003;</td>`)
		} else {
			b.WriteString(`<td></td>`)
		}
	}
	b.WriteString(`</tr>`)
	return b.String()
}

const progressScript = `<script>
(function () {
  var table = document.querySelector("table.stages");
  if (!table || !window.WebSocket) return;
  var body = table.tBodies[0];
  function rowFor(part) {
    var rows = body.querySelectorAll("tr[data-part]");
    for (var i = 0; i < rows.length; i++) {
      if (rows[i].getAttribute("data-part") === part) return rows[i];
    }
    var empty = body.querySelector("tr.empty");
    if (empty) empty.remove();
    var tr = document.createElement("tr");
    tr.setAttribute("data-part", part);
    tr.setAttribute("data-stage", "0");
    var cells = [part, ""];
    for (var s = 1; s <= 4; s++) cells.push("");
    cells.forEach(function (v) {
      var td = document.createElement("td");
      td.textContent = v;
      tr.appendChild(td);
    });
    body.appendChild(tr);
    return tr;
  }
  function apply(ev) {
    var tr = rowFor(ev.partNumber);
    if (Number(tr.getAttribute("data-stage")) > ev.stage) return;
    tr.setAttribute("data-stage", String(ev.stage));
    for (var s = 1; s <= 4; s++) {
      var td = tr.cells[s + 1];
      td.className = ev.stage >= s ? "done" : "";
      td.textContent = ev.stage >= s ? "✓" : "";
    }
  }
  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + table.getAttribute("data-ws"));
    ws.onmessage = function (m) {
      try { apply(JSON.parse(m.data)); } catch (e) {}
    };
    ws.onclose = function () { setTimeout(connect, 3000); };
  }
  connect();
})();
</script>`
