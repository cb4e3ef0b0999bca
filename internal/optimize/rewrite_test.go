package optimize

import (
	"strings"
	"testing"
)

func exampleLines() []string {
	return []string{
		"",
		"int main(){",
		"int a;",
		"int b;",
		"int c;",
		"a=5;",
		"b=a;",
		"c=b+b;",
		"}",
	}
}

func TestRewriteCPSubstitutesRHSOccurrence(t *testing.T) {
	lines := exampleLines()
	cpTable := map[CPKey]string{
		{Line: 7, Target: "b"}: "a",
	}
	out := RewriteCP(lines, cpTable)
	if out[7] != "c=a+a;" {
		t.Fatalf("expected both b occurrences on the RHS replaced by a, got %q", out[7])
	}
	if out[6] != lines[6] {
		t.Fatalf("expected unrelated lines untouched, got %q", out[6])
	}
}

func TestRewriteCSEInsertsHoistedTemporary(t *testing.T) {
	lines := []string{
		"",
		"int main(){",
		"int a;int b;int s;",
		"s=s+a*b;",
		"s=s+a*b;",
		"}",
	}
	csTable := map[string][]*CSEntry{
		"a*b": {{Type: "int", Lines: map[int]bool{4: true, 5: true}}},
	}
	out := RewriteCSE(lines, csTable)
	if len(out) != len(lines)+2 {
		t.Fatalf("expected two lines inserted, got %d lines", len(out))
	}
	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "__optimized_variable0") {
		t.Fatalf("expected a hoisted temporary, got:\n%s", joined)
	}
}

func TestRewriteCSESkipsArrayContainingExpressions(t *testing.T) {
	lines := []string{"", "x=arr[i]+arr[i];", "y=arr[i]+arr[i];"}
	csTable := map[string][]*CSEntry{
		"arr[i]+arr[i]": {{Type: "int", Lines: map[int]bool{1: true, 2: true}}},
	}
	out := RewriteCSE(lines, csTable)
	if len(out) != len(lines) {
		t.Fatalf("expected no lines inserted for an array-containing expression, got %d", len(out))
	}
}
