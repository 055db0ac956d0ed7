// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/tfctl/snapdiff/internal/source"
)

// SelectSnapshots lets the user toggle two entries and returns them oldest
// first, so the result reads as before, after. A nil slice means the user
// quit without choosing.
func SelectSnapshots(items []source.Entry) ([]source.Entry, error) {
	p := tea.NewProgram(picker{items: items})
	m, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("snapshot picker failed: %w", err)
	}
	return m.(picker).chosen(), nil
}

type picker struct {
	items    []source.Entry
	cursor   int
	selected []int
	done     bool
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.selected = nil
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ", "space":
		m.selected = m.toggle(m.cursor)
	case "enter":
		if len(m.selected) == 2 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m picker) View() string {
	var b strings.Builder
	b.WriteString("Select two snapshots:\n\n")
	for i, e := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if m.isSelected(i) {
			mark = "x"
		}
		fmt.Fprintf(&b, "%s [%s] %-32s %8s  %s\n",
			cursor, mark, e.Name, humanize.Bytes(uint64(e.Size)), humanize.Time(e.ModTime))
	}
	b.WriteString("\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n")
	return b.String()
}

// toggle returns a fresh selection with i flipped. At most two entries can be
// selected.
func (m picker) toggle(i int) []int {
	out := make([]int, 0, 2)
	found := false
	for _, s := range m.selected {
		if s == i {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found && len(out) < 2 {
		out = append(out, i)
	}
	return out
}

func (m picker) isSelected(i int) bool {
	for _, s := range m.selected {
		if s == i {
			return true
		}
	}
	return false
}

func (m picker) chosen() []source.Entry {
	if !m.done || len(m.selected) != 2 {
		return nil
	}
	out := []source.Entry{m.items[m.selected[0]], m.items[m.selected[1]]}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModTime.Before(out[j].ModTime)
	})
	return out
}
