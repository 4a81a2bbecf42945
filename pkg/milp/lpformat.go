package milp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const lpLineWidth = 200

// LPOptions controls LP text rendering.
type LPOptions struct {
	// Strict renames bracketed variable and row names (name[i,j]) to
	// underscore form (name_i_j) for readers that reject brackets.
	Strict bool
}

// WriteLP renders the model in CPLEX LP format.
func (m *Model) WriteLP(w io.Writer, opts LPOptions) error {
	bw := bufio.NewWriter(w)
	name := func(s string) string {
		if opts.Strict {
			return DialectName(s)
		}
		return s
	}

	if m.Name != "" {
		fmt.Fprintf(bw, "\\Problem name: %s\n", m.Name)
	}
	fmt.Fprintln(bw, m.sense.String())
	objTokens := m.termTokens(m.Objective().Terms, name)
	if len(objTokens) == 0 && len(m.vars) > 0 {
		objTokens = []string{"0", name(m.vars[0].Name)}
	}
	writeRow(bw, " obj:", objTokens, "")

	fmt.Fprintln(bw, "Subject To")
	for i, c := range m.cons {
		label := c.Name
		if label == "" {
			label = fmt.Sprintf("c%d", i)
		}
		tokens := m.termTokens(c.Terms, name)
		if len(tokens) == 0 && len(m.vars) > 0 {
			tokens = []string{"0", name(m.vars[0].Name)}
		}
		writeRow(bw, " "+name(label)+":", tokens, c.Rel.String()+" "+formatNumber(c.RHS))
	}

	fmt.Fprintln(bw, "Bounds")
	for _, d := range m.vars {
		fmt.Fprintf(bw, " %s\n", boundLine(name(d.Name), d))
	}

	var binaries, generals []string
	for _, d := range m.vars {
		switch {
		case d.Binary():
			binaries = append(binaries, name(d.Name))
		case d.Integer:
			generals = append(generals, name(d.Name))
		}
	}
	if len(binaries) > 0 {
		fmt.Fprintln(bw, "Binaries")
		writeRow(bw, "", binaries, "")
	}
	if len(generals) > 0 {
		fmt.Fprintln(bw, "Generals")
		writeRow(bw, "", generals, "")
	}
	fmt.Fprintln(bw, "End")
	return bw.Flush()
}

// LPString renders the model to a string.
func (m *Model) LPString(opts LPOptions) string {
	var sb strings.Builder
	_ = m.WriteLP(&sb, opts)
	return sb.String()
}

func (m *Model) termTokens(terms []Term, name func(string) string) []string {
	tokens := make([]string, 0, 2*len(terms))
	for i, t := range terms {
		coef := t.Coef
		sign := "+"
		if coef < 0 {
			sign = "-"
			coef = -coef
		}
		if i > 0 || sign == "-" {
			tokens = append(tokens, sign)
		}
		tokens = append(tokens, formatNumber(coef), name(m.vars[t.Var].Name))
	}
	return tokens
}

func writeRow(w *bufio.Writer, head string, tokens []string, tail string) {
	line := head
	for _, tok := range tokens {
		if len(line)+1+len(tok) > lpLineWidth {
			fmt.Fprintln(w, line)
			line = "   "
		}
		line += " " + tok
	}
	if tail != "" {
		line += " " + tail
	}
	fmt.Fprintln(w, line)
}

func boundLine(name string, d VarDef) string {
	lowerInf := math.IsInf(d.Lower, -1)
	upperInf := math.IsInf(d.Upper, 1)
	switch {
	case lowerInf && upperInf:
		return name + " free"
	case upperInf:
		return fmt.Sprintf("%s >= %s", name, formatNumber(d.Lower))
	case lowerInf:
		return fmt.Sprintf("-inf <= %s <= %s", name, formatNumber(d.Upper))
	default:
		return fmt.Sprintf("%s <= %s <= %s", formatNumber(d.Lower), name, formatNumber(d.Upper))
	}
}

func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
