package optimize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var identRe = regexp.MustCompile(`[a-zA-Z_][0-9a-zA-Z_]*`)

// RewriteCP applies every recorded copy-propagation rewrite to the
// source line table (index 1..N, following spec §3's 1-indexed line
// table), ported from coptimization.py's get_cp_optimized_code.
func RewriteCP(lines []string, cpTable map[CPKey]string) []string {
	out := make([]string, len(lines))
	copy(out, lines)

	for key, replacement := range cpTable {
		if key.Line <= 0 || key.Line >= len(out) {
			continue
		}
		out[key.Line] = substituteCPTarget(out[key.Line], key.Target, replacement)
	}
	return out
}

// substituteCPTarget replaces every occurrence of target in the
// right-hand side of line (text after the first '=') with replacement,
// matching whole identifiers or a literal "a[i]" form (spec §4.6).
func substituteCPTarget(line, target, replacement string) string {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return line
	}
	prefix := line[:eq+1]
	rhs := line[eq+1:]

	var spans [][2]int
	if strings.Contains(target, "[") {
		idx := strings.Index(rhs, target)
		for idx >= 0 {
			spans = append(spans, [2]int{idx, idx + len(target)})
			next := strings.Index(rhs[idx+len(target):], target)
			if next < 0 {
				break
			}
			idx = idx + len(target) + next
		}
	} else {
		for _, loc := range identRe.FindAllStringIndex(rhs, -1) {
			if rhs[loc[0]:loc[1]] == target {
				spans = append(spans, [2]int{loc[0], loc[1]})
			}
		}
	}

	var b strings.Builder
	b.WriteString(prefix)
	last := 0
	for _, span := range spans {
		b.WriteString(rhs[last:span[0]])
		b.WriteString(replacement)
		last = span[1]
	}
	b.WriteString(rhs[last:])
	return b.String()
}

func indentationOf(line string) string {
	loc := identRe.FindStringIndex(line)
	if loc == nil {
		return ""
	}
	return line[:loc[0]]
}

// csDeltaLine maps an original line number to its position after CSE's
// two-line insertions, ported from coptimization.py's get_cs_delta_line.
func csDeltaLine(inserted []int, line int) int {
	for _, ln := range inserted {
		if line >= ln {
			line += 2
		}
	}
	return line
}

// RewriteCSE hoists every recorded common subexpression into a temporary
// declared and assigned just above its first occurrence, ported from
// coptimization.py's get_cs_optimized_code. Array-containing expressions
// are never rewritten (spec §4.6's deliberate limitation).
func RewriteCSE(lines []string, csTable map[string][]*CSEntry) []string {
	type classEntry struct {
		exprStr string
		typ     string
		lines   []int
	}
	var classes []classEntry
	for exprStr, entries := range csTable {
		for _, e := range entries {
			ls := make([]int, 0, len(e.Lines))
			for l := range e.Lines {
				ls = append(ls, l)
			}
			sort.Ints(ls)
			if len(ls) < 2 {
				continue
			}
			classes = append(classes, classEntry{exprStr: exprStr, typ: e.Type, lines: ls})
		}
	}
	sort.Slice(classes, func(i, j int) bool {
		return len(classes[i].exprStr) > len(classes[j].exprStr)
	})

	out := make([]string, len(lines))
	copy(out, lines)

	var inserted []int
	varIndex := 0
	for _, c := range classes {
		if strings.Contains(c.exprStr, "[") {
			continue // array-containing expressions are not rewritten
		}

		firstLine := csDeltaLine(inserted, c.lines[0])
		if firstLine <= 0 || firstLine >= len(out) {
			continue
		}
		indent := indentationOf(out[firstLine])
		varName := fmt.Sprintf("__optimized_variable%d", varIndex)

		declareLine := fmt.Sprintf("%s%s %s;\n", indent, c.typ, varName)
		assignLine := fmt.Sprintf("%s%s = %s;\n", indent, varName, c.exprStr)

		out = insertLines(out, firstLine, declareLine, assignLine)
		inserted = append(inserted, firstLine)

		for _, origLine := range c.lines {
			target := csDeltaLine(inserted, origLine)
			if target <= 0 || target >= len(out) {
				continue
			}
			out[target] = substituteCSEExpr(out[target], c.exprStr, varName)
		}

		varIndex++
	}
	return out
}

func insertLines(lines []string, at int, declareLine, assignLine string) []string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, lines[:at]...)
	out = append(out, assignLine, declareLine)
	out = append(out, lines[at:]...)
	// the two inserted lines must read declare-then-assign top-to-bottom
	out[at], out[at+1] = out[at+1], out[at]
	return out
}

// substituteCSEExpr replaces every occurrence of exprStr in line's
// right-hand side (whitespace-insensitive) with varName.
func substituteCSEExpr(line, exprStr, varName string) string {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return line
	}
	prefix := line[:eq+1]
	rhs := strings.ReplaceAll(line[eq+1:], " ", "")
	quoted := regexp.QuoteMeta(exprStr)
	re := regexp.MustCompile(quoted)
	rhs = re.ReplaceAllString(rhs, varName)
	return fmt.Sprintf("%s %s", prefix, rhs)
}
