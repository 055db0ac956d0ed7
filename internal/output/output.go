// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/snapdiff/internal/config"
	"github.com/tfctl/snapdiff/internal/differ"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Formats lists the accepted --output values.
var Formats = []string{FormatJSON, FormatYAML, FormatText}

// Change labels used in the candidates table.
const (
	ChangeAdded   = "added"
	ChangeEdited  = "edited"
	ChangeRemoved = "removed"
)

// Options controls rendering.
type Options struct {
	Format  string
	Color   bool
	Titles  bool
	Padding int
}

// Render writes r to w in the requested format. Text is the default.
func Render(w io.Writer, r *differ.Result, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	switch opts.Format {
	case FormatJSON:
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatText, "":
		TableWriter(w, r, opts)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// CandidateRow is one line of the candidates table.
type CandidateRow struct {
	ID     int64
	Change string
}

// CandidateRows flattens the three sets into rows ordered by id.
func CandidateRows(r *differ.Result) []CandidateRow {
	var rows []CandidateRow
	add := func(set differ.MarkerSet, change string) {
		for _, id := range set.IDs() {
			rows = append(rows, CandidateRow{ID: id, Change: change})
		}
	}
	add(r.Candidates.Added, ChangeAdded)
	add(r.Candidates.Edited, ChangeEdited)
	add(r.Candidates.Removed, ChangeRemoved)

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// TableWriter renders the metadata changes and the candidate changes as two
// tables, each preceded by a section title. Empty sections are skipped.
func TableWriter(w io.Writer, r *differ.Result, opts Options) {
	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	styles := tableStyles{header: headerStyle, even: evenRowStyle, odd: oddRowStyle, pad: opts.Padding}

	if len(r.Meta) > 0 {
		rows := make([][]string, len(r.Meta))
		for i, item := range r.Meta {
			rows[i] = []string{item.Field, item.Before, item.After}
		}
		fmt.Fprintln(w, headerStyle.Render("meta"))
		fmt.Fprintln(w, styles.table(rows, opts.Titles, "FIELD", "BEFORE", "AFTER"))
	}

	if candidates := CandidateRows(r); len(candidates) > 0 {
		rows := make([][]string, len(candidates))
		for i, c := range candidates {
			rows[i] = []string{strconv.FormatInt(c.ID, 10), c.Change}
		}
		fmt.Fprintln(w, headerStyle.Render("candidates"))
		fmt.Fprintln(w, styles.table(rows, opts.Titles, "ID", "CHANGE"))
	}
}

type tableStyles struct {
	header lipgloss.Style
	even   lipgloss.Style
	odd    lipgloss.Style
	pad    int
}

func (s tableStyles) table(rows [][]string, titles bool, headers ...string) *table.Table {
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = s.header
			case row%2 == 0:
				style = s.even
			default:
				style = s.odd
			}

			if col > 0 {
				style = style.PaddingLeft(s.pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	return t
}

// getColors returns configured color values for table rendering. Explicit
// colors from the config file win; otherwise a default suited to the
// terminal's background is picked.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
