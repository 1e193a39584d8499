package diagram

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/goebr2/internal/assembly"
	"github.com/alexiusacademia/goebr2/internal/lattice"
)

// kindSymbols marks assemblies in the ASCII ring map
var kindSymbols = map[assembly.Kind]string{
	assembly.Driver:    "D",
	assembly.HalfWorth: "H",
	assembly.Control:   "C",
	assembly.Safety:    "S",
	assembly.HWCR:      "W",
	assembly.Blanket:   "B",
	assembly.Dummy:     "d",
	assembly.Reflector: "R",
	assembly.Blank:     ".",
}

func symbolOf(k assembly.Kind) string {
	if s, ok := kindSymbols[k]; ok {
		return s
	}
	return "X"
}

// DrawASCIIRings prints one line per ring with a symbol per position,
// grouped by sector
func DrawASCIIRings(lat *lattice.Lattice) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("  CORE LATTICE\n")
	sb.WriteString("  ────────────\n\n")

	for r, ring := range lat.Rings {
		sb.WriteString(fmt.Sprintf("  Ring %02d │ ", r+1))
		for k, a := range ring {
			if r > 0 && k > 0 && k%r == 0 {
				sb.WriteString(" │ ")
			}
			if a == nil {
				sb.WriteString("?")
				continue
			}
			sb.WriteString(symbolOf(a.Kind))
		}
		sb.WriteString("\n")
	}

	// Legend
	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  D = driver   H = half-worth driver   C = control   S = safety   W = HWCR\n")
	sb.WriteString("  B = blanket  d = dummy   R = reflector   X = experimental   . = blank\n")
	sb.WriteString("  Sectors run C D E F A B from the first position of each ring\n")

	return sb.String()
}

// DrawASCIIAxial prints the section stack of an assembly from the top
// down with a bar proportional to each section height
func DrawASCIIAxial(a *assembly.Assembly) string {
	var sb strings.Builder

	barChars := 30
	total := a.Height()
	bounds := a.Bounds()

	nameWidth := len("Section")
	for _, s := range a.Sections {
		nameWidth = max(nameWidth, len(s.Name))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AXIAL PROFILE  %s at %s\n", a.TypeName, a.Location))
	sb.WriteString("  ─────────────\n\n")
	sb.WriteString(fmt.Sprintf("  %-*s  %10s  %10s  %-12s\n", nameWidth, "Section", "z low", "z high", "Material"))

	for i := len(a.Sections) - 1; i >= 0; i-- {
		s := a.Sections[i]
		bar := 0
		if total > 0 {
			bar = int(s.Height / total * float64(barChars))
		}
		if bar == 0 && s.Height > 0 {
			bar = 1
		}
		marker := ""
		if i == a.RefPlane.Index {
			marker = " ◄─ ref"
		}
		sb.WriteString(fmt.Sprintf("  %-*s  %10.4f  %10.4f  %-12s │%s%s\n",
			nameWidth, s.Name, bounds[i][0], bounds[i][1],
			s.CalculateProperties().Dominant(), strings.Repeat("█", bar), marker))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Total height = %.4f cm\n", total))
	sb.WriteString(fmt.Sprintf("  Reference plane: bottom of section %d at z = %.4f cm\n", a.RefPlane.Index+1, a.RefPlane.Z))

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len(title)
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-2, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-2, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// DrawTypeCounts lists how many assemblies of each type the lattice holds
func DrawTypeCounts(lat *lattice.Lattice) string {
	counts := lat.Count()
	lines := make([]string, 0, len(counts)+1)
	total := 0
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%-16s %4d", c.TypeName, c.Count))
		total += c.Count
	}
	lines = append(lines, fmt.Sprintf("%-16s %4d", "total", total))
	return DrawSummaryBox("ASSEMBLIES BY TYPE", lines)
}
