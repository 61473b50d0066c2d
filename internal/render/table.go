// Package render draws screens as plain text tables.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// NA marks a value the upstream did not provide.
const NA = "N/A"

// Table is one rendered screen.
type Table struct {
	Title   string
	Noun    string
	Headers []string
	Rows    [][]string
	Empty   string
}

// Count is the pluralized row count, for example "1 team" or "3 teams".
func (t Table) Count() string {
	return Plural(len(t.Rows), t.Noun)
}

// Filter keeps the rows whose text fuzzily matches query. An empty query
// keeps every row.
func (t Table) Filter(query string) Table {
	query = strings.TrimSpace(query)
	if query == "" {
		return t
	}
	out := t
	out.Rows = nil
	for _, row := range t.Rows {
		for _, cell := range row {
			if fuzzy.MatchNormalizedFold(query, cell) {
				out.Rows = append(out.Rows, row)
				break
			}
		}
	}
	return out
}

// Write prints the title, the count and the rows aligned in columns.
func (t Table) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", t.Title, t.Count()); err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, t.Empty)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Plural formats n with noun, adding "s" unless n is one.
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
