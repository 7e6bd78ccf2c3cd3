package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

func joinValues(values []int32) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}

	return strings.Join(parts, " ")
}

// PrintState renders a snapshot as a table.
func PrintState(w io.Writer, s Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Machine State")
	t.AppendHeader(table.Row{"PC", "Port", "Retired", "Halted", "Stack"})
	t.AppendRow(table.Row{s.PC, s.Port, s.Retired, s.Halted, joinValues(s.Stack)})
	t.Render()

	slots := table.NewWriter()
	slots.SetOutputMirror(w)
	slots.SetTitle("Slots")
	slots.AppendHeader(table.Row{"Slot", "Value"})
	for i, v := range s.Slots {
		slots.AppendRow(table.Row{i, v})
	}
	slots.Render()
}
