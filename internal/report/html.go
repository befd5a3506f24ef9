package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/po-payment-schedule/internal/money"
	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

var htmlFuncs = template.FuncMap{
	"amount": FormatAmount,
	"cellAmount": func(c Cell, kind string) string {
		return FormatAmount(c.Amount(kind))
	},
	"listOr": func(items []string, fallback string) string {
		if len(items) == 0 {
			return fallback
		}
		return strings.Join(items, ", ")
	},
	"stringify": types.Stringify,
}

var pageTemplate = template.Must(template.New("page").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Vendor Pay Plan</title>
<style>
  body { font-family: Arial, sans-serif; }
  table { width: 100%; border-collapse: collapse; }
  thead tr { background-color: #007bff; color: #fff; text-align: left; }
  th, td { border: 1px solid #ccc; padding: 8px; white-space: normal; }
  th:first-child, td:first-child { width: 300px; }
  th:not(:first-child), td:not(:first-child) { width: 100px; min-width: 100px; text-align: right; }
  tbody tr:nth-child(even) { background-color: #f8f9fa; }
  tbody tr:hover { background-color: #e9ecef; }
  tfoot td { font-weight: bold; }
  .table-container { width: 100%; overflow-x: auto; }
  .info-container { background-color: #f9f9f9; border: 1px solid #ccc; padding: 20px; margin-top: 30px; border-radius: 8px; }
  .info-container h2 { margin-top: 0; border-left: 4px solid #007bff; padding-left: 8px; }
  .highlight { color: #007bff; font-weight: bold; }
  .error-amount { color: #d9534f; font-weight: bold; }
</style>
</head>
<body>
<div class="table-container">
  <table>
    <thead>
      <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
    </thead>
    <tbody>
{{- range .Summary.Rows}}
      <tr><td>{{.Supplier}}</td>{{range .Cells}}{{$c := .}}{{range $.SubColumns}}<td>{{cellAmount $c .}}</td>{{end}}{{end}}</tr>
{{- end}}
    </tbody>
    <tfoot>
      <tr><td>{{.Summary.Total.Supplier}}</td>{{range .Summary.Total.Cells}}{{$c := .}}{{range $.SubColumns}}<td>{{cellAmount $c .}}</td>{{end}}{{end}}</tr>
    </tfoot>
  </table>
</div>
{{- with .Final}}
<div class="info-container">
  <h2>Additional Information</h2>
  <p>We calculated <strong>{{.TotalLines}}</strong> PO lines into <strong>{{.POCount}}</strong> records.</p>
  {{- if $.AsOf}}
  <p><span class="highlight">Anchors as of:</span> <strong>{{$.AsOf}}</strong></p>
  {{- end}}

  <h3>Empty Payment_Terms Detected</h3>
  <ul>
    <li><strong>Empty Payment_Terms POs:</strong> {{listOr .EmptyTermPOs "None"}}</li>
    <li><strong>Empty Payment_Terms Vendors:</strong> {{listOr .EmptyTermVendors "None"}}</li>
  </ul>
  <p>The effected amount is <strong class="highlight">{{stringify .EmptyTermAmount}}</strong>.</p>

  <p>The following vendors have Payment Term values not present in <em>PTDefine.csv</em>:</p>
  <ul>
    <li>{{listOr .UndefinedTermVendors "All is well, No such vendor found."}}</li>
  </ul>

  <h3>ERD Conflicts</h3>
  <p><strong>{{.ERDConflictPOCount}}</strong> POs have lines with different ERDs, covering <strong class="error-amount">{{.ERDConflictAmount}}</strong>.</p>
</div>
{{- end}}
</body>
</html>
`))

// HTMLOptions adjust the page.
type HTMLOptions struct {
	// AsOf is shown as the anchor reference date. Empty hides it.
	AsOf string
}

// RenderHTML writes the pay plan table and, when final is not nil, the
// additional information block.
func RenderHTML(w io.Writer, summary *Summary, final *types.FinalReport, opts HTMLOptions) error {
	page := struct {
		Headers    []string
		SubColumns []string
		Summary    *Summary
		Final      *types.FinalReport
		AsOf       string
	}{
		Headers:    summary.Headers(),
		SubColumns: SubColumns,
		Summary:    summary,
		Final:      final,
		AsOf:       opts.AsOf,
	}
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

// FormatAmount renders an amount rounded to cents with trailing zeros
// trimmed ("12.5"). Zero renders as an empty cell.
func FormatAmount(d decimal.Decimal) string {
	rounded := money.Round2(d)
	if rounded.IsZero() {
		return ""
	}
	return rounded.String()
}
