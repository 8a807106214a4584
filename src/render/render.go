// Package render formats an aggregated result for people: an HTML table, a
// plain text table and chat-sized messages. Dates are turned into text only
// here.
package render

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cowin-slot-checker/src/slots"
)

// Placeholder fills days without eligible availability.
const Placeholder = "--"

// CenterLabel is the first column of a row, e.g. "A (Pin: 110001, Free)".
func CenterLabel(c slots.Center) string {
	return fmt.Sprintf("%s (Pin: %d, %s)", c.Name, c.Pincode, c.FeeType)
}

func cellText(c *slots.Cell) string {
	if c == nil {
		return Placeholder
	}
	return strconv.Itoa(c.Available)
}

var tableTemplate = template.Must(template.New("table").Funcs(template.FuncMap{
	"center": CenterLabel,
	"cell":   cellText,
}).Parse(`<table id="ResultTable">
<tr><th>Center</th>{{range .Labels}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr><td class="center">{{center .Center}}</td>{{range .Cells}}{{if .}}<td class="available" title="{{.Vaccine}}">{{cell .}}</td>{{else}}<td>{{cell .}}</td>{{end}}{{end}}</tr>
{{- end}}
</table>
`))

// HTML writes result as a table: a header of "Center" plus seven day labels
// and one row per center.
func HTML(w io.Writer, result slots.Result) error {
	return tableTemplate.Execute(w, struct {
		Labels [slots.DaysInWeek]string
		Rows   []slots.AvailabilityRow
	}{result.Window.Labels(), result.Rows})
}

// Text writes the same table aligned for a terminal. Populated cells read
// "count vaccine".
func Text(w io.Writer, result slots.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	labels := result.Window.Labels()
	fmt.Fprintf(tw, "Center\t%s\t\n", strings.Join(labels[:], "\t"))
	for _, row := range result.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = cellText(c)
			if c != nil {
				cells[i] += " " + c.Vaccine
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", CenterLabel(row.Center), strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// Messages splits result into chat messages of at most perMessage centers.
// Only days with availability are listed for a center.
func Messages(result slots.Result, perMessage int) []string {
	if perMessage <= 0 {
		perMessage = 5
	}

	var entries []string
	for _, row := range result.Rows {
		var b strings.Builder
		fmt.Fprintf(&b, "Center: %s\n", CenterLabel(row.Center))
		if row.Center.Block != "" || row.Center.District != "" {
			fmt.Fprintf(&b, "   Location: %s\n", strings.Trim(row.Center.Block+", "+row.Center.District, ", "))
		}
		for i, c := range row.Cells {
			if c == nil {
				continue
			}
			fmt.Fprintf(&b, "   %s: %d (%s)\n", result.Window[i].Label(), c.Available, c.Vaccine)
		}
		entries = append(entries, b.String())
	}

	var messages []string
	for len(entries) > 0 {
		n := perMessage
		if len(entries) < n {
			n = len(entries)
		}
		messages = append(messages, strings.Join(entries[:n], "\n"))
		entries = entries[n:]
	}
	return messages
}
