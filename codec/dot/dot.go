// Package dot implements the DOT graph reader/writer (SPEC_FULL §1,
// grounded on lib/include/irritator/dot-parser.hpp): a minimal topology
// overlay format where nodes carry id/area/pos attributes and both "--"
// and "->" edges are treated identically.
package dot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vle-forge/irritator-sub004/simerr"
)

// Node is one DOT node statement's accumulated attributes. Later
// occurrences of the same node id overwrite earlier attribute values
// (spec.md-style "later-attribute-wins" semantics).
type Node struct {
	ID   string
	Area string
	X, Y float64
}

// Edge is one DOT edge statement, direction-agnostic: "--" and "->" are
// both accepted and recorded identically.
type Edge struct {
	From, To string
}

// Graph is the parsed or to-be-written contents of a DOT document.
type Graph struct {
	Name  string
	Nodes []Node
	Edges []Edge
}

// Read parses a DOT document from r.
func Read(r io.Reader) (*Graph, error) {
	g := &Graph{}
	nodeIndex := make(map[string]int)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		line = strings.TrimSuffix(line, ";")
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "digraph") || strings.HasPrefix(line, "graph"):
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				g.Name = strings.Trim(fields[1], "{\"")
			}
			continue
		case line == "}" || line == "{":
			continue
		case strings.Contains(line, "->") || strings.Contains(line, "--"):
			sep := "->"
			if strings.Contains(line, "--") && !strings.Contains(line, "->") {
				sep = "--"
			}
			parts := strings.SplitN(line, sep, 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("dot: %w: malformed edge %q", simerr.ErrFormat, line)
			}
			from := strings.Trim(strings.TrimSpace(parts[0]), `"`)
			to := strings.TrimSpace(parts[1])
			if idx := strings.IndexByte(to, '['); idx >= 0 {
				to = strings.TrimSpace(to[:idx])
			}
			to = strings.Trim(to, `"`)
			g.Edges = append(g.Edges, Edge{From: from, To: to})
		default:
			name, attrs, err := parseNodeStmt(line)
			if err != nil {
				return nil, err
			}
			idx, ok := nodeIndex[name]
			if !ok {
				idx = len(g.Nodes)
				nodeIndex[name] = idx
				g.Nodes = append(g.Nodes, Node{ID: name})
			}
			applyAttrs(&g.Nodes[idx], attrs)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dot: %w: %v", simerr.ErrRead, err)
	}
	return g, nil
}

func parseNodeStmt(line string) (name string, attrs map[string]string, err error) {
	open := strings.IndexByte(line, '[')
	if open < 0 {
		return strings.Trim(strings.TrimSpace(line), `"`), nil, nil
	}
	closeIdx := strings.LastIndexByte(line, ']')
	if closeIdx < open {
		return "", nil, fmt.Errorf("dot: %w: unterminated attribute list %q", simerr.ErrFormat, line)
	}
	name = strings.Trim(strings.TrimSpace(line[:open]), `"`)
	body := line[open+1 : closeIdx]
	attrs = make(map[string]string)
	for _, kv := range splitAttrs(body) {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		k := strings.TrimSpace(kv[:eq])
		v := strings.Trim(strings.TrimSpace(kv[eq+1:]), `"`)
		attrs[k] = v
	}
	return name, attrs, nil
}

// splitAttrs splits a DOT attribute list on commas that are not inside a
// quoted string (pos="x,y" must not be split on its internal comma).
func splitAttrs(body string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	for _, r := range body {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ',' && !inQuote:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func applyAttrs(n *Node, attrs map[string]string) {
	if v, ok := attrs["area"]; ok {
		n.Area = v
	}
	if v, ok := attrs["pos"]; ok {
		if x, y, err := parsePos(v); err == nil {
			n.X, n.Y = x, y
		}
	}
}

func parsePos(s string) (x, y float64, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("dot: %w: malformed pos %q", simerr.ErrFormat, s)
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// Write serializes g to w in DOT format, nodes first (in Graph.Nodes
// order), then "->" edges.
func Write(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	name := g.Name
	if name == "" {
		name = "G"
	}
	fmt.Fprintf(bw, "digraph %s {\n", name)

	for _, n := range g.Nodes {
		fmt.Fprintf(bw, "  %q [area=%q, pos=\"%s,%s\"];\n",
			n.ID, n.Area, strconv.FormatFloat(n.X, 'g', -1, 64), strconv.FormatFloat(n.Y, 'g', -1, 64))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(bw, "  %q -> %q;\n", e.From, e.To)
	}
	fmt.Fprint(bw, "}\n")
	return bw.Flush()
}
