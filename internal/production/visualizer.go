package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/comalice/bootnav/internal/primitives"
	"github.com/comalice/bootnav/router"
)

// DefaultVisualizer renders traces for humans.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for t: one node per event,
// clustered by source, chained in recorded order.
func (v *DefaultVisualizer) ExportDOT(t Trace) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", "trace_"+t.Name)
	buf.WriteString(`  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("%s (%s)", t.Name, t.Policy))

	var sources []string
	bySource := map[string][]int{}
	for i, e := range t.Events {
		if _, ok := bySource[e.Source]; !ok {
			sources = append(sources, e.Source)
		}
		bySource[e.Source] = append(bySource[e.Source], i)
	}

	for _, src := range sources {
		fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+src)
		fmt.Fprintf(&buf, "    label=%q;\n", src)
		for _, i := range bySource[src] {
			renderNode(&buf, i, t)
		}
		buf.WriteString("  }\n")
	}

	for i := 1; i < len(t.Events); i++ {
		fmt.Fprintf(&buf, "  \"e%d\" -> \"e%d\";\n", i-1, i)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func renderNode(buf *bytes.Buffer, i int, t Trace) {
	e := t.Events[i]
	label := e.Type
	if !t.Started.IsZero() && !e.Time.IsZero() {
		label += fmt.Sprintf("\\n+%s", e.Time.Sub(t.Started).Round(10*time.Microsecond))
	}
	if p, ok := e.Data["path"].(string); ok && p != "" {
		label += "\\n" + p
	}
	fmt.Fprintf(buf, "    \"e%d\" [label=\"%s\"%s];\n", i, escape(label), nodeStyle(e.Type))
}

func nodeStyle(eventType string) string {
	switch eventType {
	case primitives.EventGateFired:
		return ` style=filled fillcolor=orange`
	case primitives.EventPreActivationPaused:
		return ` style=filled fillcolor=lightblue`
	case string(router.NavigationEnd):
		return ` style=filled fillcolor=lightgreen`
	case string(router.NavigationError):
		return ` style=filled fillcolor=salmon`
	case string(router.NavigationCancel):
		return ` style=filled fillcolor=lightgrey`
	}
	return ""
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// ExportJSON serializes the trace to indented JSON.
func (v *DefaultVisualizer) ExportJSON(t Trace) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}
