// Package preview draws scheme palettes as colored blocks in a terminal.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsvensson/base16sh/internal/color"
	"github.com/jsvensson/base16sh/internal/scheme"
)

// slotsPerRow matches the base16 grouping of eight UI and eight accent slots.
const slotsPerRow = 8

const block = "   "

// Nav holds the neighbouring scheme names shown under a card.
type Nav struct {
	Prev string
	Next string
}

func swatch(hex string) string {
	c := color.FromHex(hex)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Render(block)
}

// Swatch renders every slot of the scheme's system as a block, eight per
// row. Missing or malformed slots are drawn black.
func Swatch(def scheme.Definition, fallback scheme.System) string {
	system := def.SystemOr(fallback)
	full := def.WithDefaults(system)

	var rows []string
	var row []string
	for _, slot := range system.Slots() {
		row = append(row, swatch(full.Palette[slot]))
		if len(row) == slotsPerRow {
			rows = append(rows, strings.Join(row, ""))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, ""))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Line renders name followed by the first sixteen slots on one line, for
// listings.
func Line(name string, width int, def scheme.Definition) string {
	full := def.WithDefaults(scheme.Base16)
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(width).Render(name))
	for _, slot := range scheme.Base16.Slots() {
		b.WriteString(swatch(full.Palette[slot]))
	}
	return b.String()
}

// Card renders a bordered summary of one scheme: title, author, palette
// swatches with accent hex values, and navigation.
func Card(def scheme.Definition, fallback scheme.System, nav Nav) string {
	full := def.WithDefaults(def.SystemOr(fallback))
	bg := color.FromHex(full.Palette["base00"]).Hex()
	fg := color.FromHex(full.Palette["base05"]).Hex()
	accent := color.FromHex(full.Palette["base0D"]).Hex()

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(accent)).
		Bold(true)
	textStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg))

	lines := []string{
		titleStyle.Render(def.Name),
		textStyle.Render("by " + def.Author),
	}
	if def.Variant != "" {
		lines = append(lines, textStyle.Render(def.Variant+" variant, "+string(def.SystemOr(fallback))))
	}
	lines = append(lines, "", Swatch(def, fallback), "", accents(full))

	if nav.Prev != "" || nav.Next != "" {
		lines = append(lines, "", textStyle.Render(navLine(nav)))
	}

	containerStyle := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(accent)).
		Background(lipgloss.Color(bg))

	return containerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// accents lists the accent slots with their hex values in their own color.
func accents(def scheme.Definition) string {
	var parts []string
	for _, slot := range color.AccentSlots {
		c := color.FromHex(def.Palette[slot])
		parts = append(parts, lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Hex())).
			Render(fmt.Sprintf("%s %s", slot, c.HexBare())))
	}
	left := lipgloss.JoinVertical(lipgloss.Left, parts[:4]...)
	right := lipgloss.JoinVertical(lipgloss.Left, parts[4:]...)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)
}

func navLine(nav Nav) string {
	prev, next := nav.Prev, nav.Next
	if prev == "" {
		prev = "-"
	}
	if next == "" {
		next = "-"
	}
	return fmt.Sprintf("< %s | %s >", prev, next)
}
