package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// WriteTrace prints one row per trace entry. With colored set, the cell under
// the head is shown in reverse video; otherwise it is wrapped in brackets.
func WriteTrace(w io.Writer, trace []domain.TraceEntry, colored bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTATE\tPOS\tREAD\tTAPE\tTRANSITION")

	for i, e := range trace {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%q\t%s\t%s\n",
			i, e.State, e.Position, e.Reading.String(), Head(e.Memory, e.Position, colored), transitionLabel(e.Transition))
	}
	return tw.Flush()
}

// Head marks the cell at pos inside memory.
func Head(memory string, pos int, colored bool) string {
	cells := []rune(memory)
	if pos < 0 || pos >= len(cells) {
		return memory
	}

	cell := string(cells[pos])
	var marked string
	if colored {
		marked = termenv.String(cell).Reverse().String()
	} else {
		marked = "[" + cell + "]"
	}
	return string(cells[:pos]) + marked + string(cells[pos+1:])
}

func transitionLabel(tr domain.Transition) string {
	if tr == nil {
		return "-"
	}
	data, err := json.Marshal(tr)
	if err != nil {
		return fmt.Sprint(tr)
	}
	return string(data)
}

// Summary builds the markdown report shown after a run.
func Summary(name string, outcome *domain.Outcome) string {
	var b strings.Builder

	if name == "" {
		name = "machine"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	if outcome.Succeeded {
		fmt.Fprintf(&b, "**Halted** after %d steps.\n\n", outcome.Steps)
	} else {
		fmt.Fprintf(&b, "**Failed** after %d steps: %s\n\n", outcome.Steps, outcome.Failure.Detail)
	}

	fmt.Fprintf(&b, "| tape | trace entries |\n|---|---|\n| `%s` | %d |\n", outcome.Tape, len(outcome.Trace))
	return b.String()
}
