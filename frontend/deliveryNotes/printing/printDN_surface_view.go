package printing

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// SurfacePage is the isolated delivery-note document. It connects back over a
// websocket, announces readiness and renders whatever payload it receives.
func SurfacePage(sessionID string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, surfaceHTML, templ.EscapeString(printBase(sessionID)+"/ws"))
		return err
	})
}

const surfaceHTML = `<!doctype html>
<html lang="en" dir="ltr">
<head>
<meta charset="utf-8">
<title>Delivery Note</title>
<link rel="stylesheet" href="/assets/dn.css">
</head>
<body data-ws="%s">
<div class="dn">
  <header class="dn-head">
    <h1 data-i18n="title">Delivery Note</h1>
    <div class="dn-ids">
      <div><span data-i18n="dnNumber">DN No.</span> <b data-field="dnNumber"></b></div>
      <div><span data-i18n="dnDate">Date</span> <b data-field="dnDate"></b></div>
      <div><span data-i18n="outboundNumber">Outbound No.</span> <b data-field="outboundNumber"></b></div>
      <div><span data-i18n="invoice">Invoice</span> <b data-field="invoice"></b></div>
      <div><span data-i18n="customerPo">Customer PO</span> <b data-field="customerPo"></b></div>
      <div><span data-i18n="gappPo">GAPP PO</span> <b data-field="gappPo"></b></div>
    </div>
  </header>
  <section class="dn-parties">
    <div class="box">
      <h2 data-i18n="consignee">Consignee</h2>
      <p data-field="customerDisplayName"></p>
      <p data-field="address"></p>
      <p><a data-field="googleLocation" data-href="googleLocation"></a></p>
      <p><span data-i18n="receiver1">Receiver 1</span>: <span data-field="receiver1Name"></span> <span data-field="receiver1Phone"></span></p>
      <p><span data-i18n="receiver2">Receiver 2</span>: <span data-field="receiver2Name"></span> <span data-field="receiver2Phone"></span></p>
    </div>
    <div class="box">
      <h2 data-i18n="transport">Transport</h2>
      <p><span data-i18n="carrier">Carrier</span>: <span data-field="carrier"></span></p>
      <p><span data-i18n="driver">Driver</span>: <span data-field="driverName"></span></p>
      <p><span data-i18n="mobile">Mobile</span>: <span data-field="driverMobile"></span></p>
      <p><span data-i18n="truck">Truck</span>: <span data-field="truckType"></span></p>
    </div>
  </section>
  <table class="dn-lines">
    <thead><tr>
      <th>#</th><th data-i18n="partNumber">Part No.</th><th data-i18n="description">Description</th>
      <th data-i18n="qty">Qty</th><th data-i18n="uom">UOM</th><th data-i18n="condition">Condition</th>
    </tr></thead>
    <tbody id="dn-lines"></tbody>
  </table>
  <section class="dn-totals">
    <div><span data-i18n="totalCases">Total cases</span>: <b data-field="totalCases"></b></div>
    <div><span data-i18n="pallets">Pallets</span>: <b data-field="pallets">0</b></div>
    <div><span data-i18n="status">Status</span>: <b data-field="status"></b></div>
  </section>
  <footer class="dn-sign">
    <div><span data-i18n="preparedBy">Prepared by</span><p data-field="preparedBy"></p><p data-field="preparedDate"></p></div>
    <div><span data-i18n="driverSignature">Driver signature</span></div>
    <div><span data-i18n="receivedBy">Received by</span></div>
  </footer>
</div>
<script>
(function () {
  var labels = {
    en: {title: "Delivery Note", dnNumber: "DN No.", dnDate: "Date", outboundNumber: "Outbound No.",
      invoice: "Invoice", customerPo: "Customer PO", gappPo: "GAPP PO", consignee: "Consignee",
      receiver1: "Receiver 1", receiver2: "Receiver 2", transport: "Transport", carrier: "Carrier",
      driver: "Driver", mobile: "Mobile", truck: "Truck", partNumber: "Part No.", description: "Description",
      qty: "Qty", uom: "UOM", condition: "Condition", totalCases: "Total cases", pallets: "Pallets",
      status: "Status", preparedBy: "Prepared by", driverSignature: "Driver signature", receivedBy: "Received by"},
    ar: {title: "مذكرة تسليم", dnNumber: "رقم المذكرة", dnDate: "التاريخ", outboundNumber: "رقم الصادر",
      invoice: "الفاتورة", customerPo: "أمر شراء العميل", gappPo: "أمر شراء GAPP", consignee: "المستلم",
      receiver1: "المستلم 1", receiver2: "المستلم 2", transport: "النقل", carrier: "الناقل",
      driver: "السائق", mobile: "الجوال", truck: "الشاحنة", partNumber: "رقم القطعة", description: "الوصف",
      qty: "الكمية", uom: "الوحدة", condition: "الحالة", totalCases: "إجمالي الصناديق", pallets: "المنصات",
      status: "الحالة", preparedBy: "أعده", driverSignature: "توقيع السائق", receivedBy: "استلمه"}
  };

  function setLanguage(lang) {
    var table = labels[lang] || labels.en;
    document.documentElement.lang = lang === "ar" ? "ar" : "en";
    document.documentElement.dir = lang === "ar" ? "rtl" : "ltr";
    var nodes = document.querySelectorAll("[data-i18n]");
    for (var i = 0; i < nodes.length; i++) {
      var key = nodes[i].getAttribute("data-i18n");
      if (table[key]) nodes[i].textContent = table[key];
    }
  }

  function cell(text) {
    var td = document.createElement("td");
    td.textContent = text === undefined || text === null ? "" : String(text);
    return td;
  }

  function render(payload) {
    payload = payload || {};
    var fields = document.querySelectorAll("[data-field]");
    for (var i = 0; i < fields.length; i++) {
      var key = fields[i].getAttribute("data-field");
      var value = payload[key];
      if (key === "pallets" && (value === undefined || value === null)) value = 0;
      fields[i].textContent = value === undefined || value === null ? "" : String(value);
      if (fields[i].hasAttribute("data-href")) {
        if (value && /^https?:\/\//i.test(String(value))) fields[i].setAttribute("href", String(value));
        else fields[i].removeAttribute("href");
      }
    }
    var body = document.getElementById("dn-lines");
    var rows = document.createDocumentFragment();
    var lines = payload.quantities || [];
    for (var j = 0; j < lines.length; j++) {
      var tr = document.createElement("tr");
      tr.appendChild(cell(j + 1));
      tr.appendChild(cell(lines[j].partNumber));
      tr.appendChild(cell(lines[j].description));
      tr.appendChild(cell(lines[j].qty));
      tr.appendChild(cell(lines[j].uom));
      tr.appendChild(cell(lines[j].condition));
      rows.appendChild(tr);
    }
    body.replaceChildren(rows);
  }

  function connect() {
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(scheme + location.host + document.body.getAttribute("data-ws"));
    ws.onopen = function () { ws.send(JSON.stringify({type: "ready"})); };
    ws.onmessage = function (ev) {
      var msg;
      try { msg = JSON.parse(ev.data); } catch (e) { return; }
      if (msg.type === "refresh-data") render(msg.payload);
      else if (msg.type === "set-language") setLanguage(msg.lang);
      else if (msg.type === "print") { window.focus(); window.print(); }
    };
  }

  render({});
  connect();
})();
</script>
</body>
</html>`
