package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Overlay contains run data to visualize on the graph.
type Overlay struct {
	Visited []domain.StateID
	Current domain.StateID
}

// OverlayFromTrace marks every state the trace passed through. The current
// state is where the last recorded transition leads.
func OverlayFromTrace(trace []domain.TraceEntry) *Overlay {
	overlay := &Overlay{}
	if len(trace) == 0 {
		return overlay
	}

	for _, e := range trace {
		overlay.Visited = append(overlay.Visited, e.State)
	}

	last := trace[len(trace)-1]
	overlay.Current = last.State
	if t, ok := last.Transition.(domain.MoveAndTransition); ok && len(trace) > 1 {
		overlay.Current = t.Next
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of the transition table.
// It applies semantic styling:
// - Start: ((Circle))
// - Final: (((Double circle)))
// - Default: [Rectangle]
// Edges between the same pair of states are merged, one "read / write,move" label per line.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(m *domain.Machine, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, state := range allStates(m) {
		safeID := sanitizeMermaidID(state)

		opener, closer := "[", "]"
		switch {
		case m.IsFinal(state):
			opener, closer = "(((", ")))"
		case state == m.StartState:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, state, closer))
	}

	for _, state := range sortedStates(m.Table) {
		symbols := m.Table[state]

		labels := make(map[domain.StateID][]string)
		var targets []domain.StateID
		for _, sym := range sortedSymbols(symbols) {
			to, label := edge(state, sym, symbols[sym])
			if _, seen := labels[to]; !seen {
				targets = append(targets, to)
			}
			labels[to] = append(labels[to], label)
		}

		for _, to := range targets {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
				sanitizeMermaidID(state), strings.Join(labels[to], "<br/>"), sanitizeMermaidID(to)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current)))
		}
	}

	return sb.String()
}

func edge(from domain.StateID, sym domain.Symbol, tr domain.Transition) (domain.StateID, string) {
	read := symbolLabel(sym)
	switch t := tr.(type) {
	case domain.MoveAndTransition:
		if t.Overwrite {
			return t.Next, fmt.Sprintf("%s / %s,%s", read, symbolLabel(t.Write), t.Dir)
		}
		return t.Next, fmt.Sprintf("%s / %s", read, t.Dir)
	default:
		return from, fmt.Sprintf("%s / %s", read, tr.Direction())
	}
}

// symbolLabel keeps blanks and quotes visible inside Mermaid labels.
func symbolLabel(sym domain.Symbol) string {
	switch sym {
	case ' ':
		return "␣"
	case '"':
		return "#quot;"
	}
	return sym.String()
}

func allStates(m *domain.Machine) []domain.StateID {
	set := map[domain.StateID]struct{}{m.StartState: {}}
	for s := range m.FinalStates {
		set[s] = struct{}{}
	}
	for s, symbols := range m.Table {
		set[s] = struct{}{}
		for _, tr := range symbols {
			if t, ok := tr.(domain.MoveAndTransition); ok {
				set[t.Next] = struct{}{}
			}
		}
	}

	out := make([]domain.StateID, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedStates(t domain.Table) []domain.StateID {
	out := make([]domain.StateID, 0, len(t))
	for s := range t {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedSymbols(m map[domain.Symbol]domain.Transition) []domain.Symbol {
	out := make([]domain.Symbol, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sanitizeMermaidID[S ~string](id S) string {
	s := strings.ReplaceAll(string(id), ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
