package irgen

import (
	"errors"
	"strings"
	"testing"

	"github.com/tbc-lang/tbc/lib/analyzer"
	"github.com/tbc-lang/tbc/lib/parser"
)

func generate(t *testing.T, src string, opts analyzer.Options) (string, []analyzer.Diagnostic) {
	t.Helper()
	ast, err := parser.ParseString("test.bas", src)
	if err != nil {
		t.Fatalf("parsing %q: %s", src, err)
	}
	ir, warnings, err := Generate(ast, opts)
	if err != nil {
		t.Fatalf("compiling %q: %s", src, err)
	}
	return ir, warnings
}

func assertContains(t *testing.T, code, expected string) {
	t.Helper()
	if !strings.Contains(code, expected) {
		t.Errorf("expected IR to contain:\n%s\n\nGot:\n%s", expected, code)
	}
}

func TestMainAndRuntime(t *testing.T) {
	ir, _ := generate(t, "10 LET A = 5\n20 PRINT A", analyzer.DefaultOptions())
	assertContains(t, ir, "define i32 @main()")
	assertContains(t, ir, "declare i32 @printf(")
	assertContains(t, ir, "@stdin = external global i8*")
	assertContains(t, ir, "entry:")
	assertContains(t, ir, "label_10:")
	assertContains(t, ir, "label_20:")
	assertContains(t, ir, "%A = alloca i32")
	assertContains(t, ir, "store i32 5, i32* %A")
	assertContains(t, ir, `c"%d\0A\00"`)
	assertContains(t, ir, "ret i32 0")
}

func TestStdinIsExternal(t *testing.T) {
	ir, _ := generate(t, "10 INPUT A", analyzer.DefaultOptions())
	assertContains(t, ir, "@stdin = external global i8*\n")
	if strings.Contains(ir, "@stdin = global") {
		t.Errorf("stdin must be declared, not defined:\n%s", ir)
	}
}

func TestUnassignedVariableReadsZero(t *testing.T) {
	ir, warnings := generate(t, "10 PRINT Z", analyzer.DefaultOptions())
	assertContains(t, ir, "%Z = alloca i32")
	assertContains(t, ir, "store i32 0, i32* %Z")
	assertContains(t, ir, `c"%d\0A\00"`)
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
}

func TestStringConstantsAreShared(t *testing.T) {
	ir, _ := generate(t, "10 PRINT \"hi\"\n20 PRINT \"hi\"", analyzer.DefaultOptions())
	if n := strings.Count(ir, `c"hi\00"`); n != 1 {
		t.Errorf("got %d copies of the string constant, want 1:\n%s", n, ir)
	}
	assertContains(t, ir, "private constant")
}

func TestInputBuffer(t *testing.T) {
	ir, _ := generate(t, "10 INPUT A\n20 PRINT A\n30 END", analyzer.DefaultOptions())
	assertContains(t, ir, "%A = alloca i8*")
	assertContains(t, ir, "call i8* @calloc(i64 50, i64 1)")
	assertContains(t, ir, "@fgets(")
	assertContains(t, ir, "@strcspn(")
	assertContains(t, ir, `c"%s\0A\00"`)
	if n := strings.Count(ir, "call void @free("); n != 1 {
		t.Errorf("got %d calls to free, want 1:\n%s", n, ir)
	}
}

func TestNumericInputUsesScratchLine(t *testing.T) {
	ir, _ := generate(t, "10 LET A = 1\n20 INPUT A\n30 INPUT A", analyzer.DefaultOptions())
	if n := strings.Count(ir, "%line = alloca [50 x i8]"); n != 1 {
		t.Errorf("got %d scratch lines, want 1:\n%s", n, ir)
	}
	assertContains(t, ir, "@atoi(")
	if strings.Contains(ir, "call i8* @calloc(") {
		t.Errorf("numeric input should not allocate a buffer:\n%s", ir)
	}
}

func TestConditionalJump(t *testing.T) {
	ir, _ := generate(t, "10 LET A = 6\n20 IF A > 5 THEN GOTO 40\n30 PRINT A\n40 END", analyzer.DefaultOptions())
	assertContains(t, ir, "icmp sgt i32")
	assertContains(t, ir, "icmp ne i32")
	assertContains(t, ir, "br i1")
	assertContains(t, ir, "br label %label_40")
}

func TestMissingLabelExits(t *testing.T) {
	opts := analyzer.DefaultOptions()
	opts.Labels = analyzer.Warn
	ir, warnings := generate(t, "10 GOTO 20", opts)
	assertContains(t, ir, "missing_20:")
	assertContains(t, ir, "ret i32 1")
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	ir, _ := generate(t, "10 LET A = 2\n20 LET B = A + A * 3", analyzer.DefaultOptions())
	mul := strings.Index(ir, "mul i32")
	add := strings.Index(ir, "add i32")
	if mul < 0 || add < 0 || mul > add {
		t.Errorf("expected the multiplication before the addition:\n%s", ir)
	}
}

func TestPrecedence(t *testing.T) {
	cases := []struct {
		op   parser.Operator
		want int
	}{
		{"*", 4},
		{"/", 4},
		{"+", 3},
		{"-", 3},
		{"<", 2},
		{">=", 2},
		{parser.Equal, 1},
		{parser.NotEqual, 1},
	}
	for _, c := range cases {
		if got := precedence(c.op); got != c.want {
			t.Errorf("precedence(%q) = %d, want %d", c.op, got, c.want)
		}
	}
}

func TestConversionError(t *testing.T) {
	ast, err := parser.ParseString("test.bas", "10 LET A = \"x\"\n20 LET B = 2\n30 LET A = B + 1")
	if err != nil {
		t.Fatal(err)
	}
	ir, _, err := Generate(ast, analyzer.DefaultOptions())
	var conv *analyzer.ConversionError
	if !errors.As(err, &conv) {
		t.Fatalf("got %v, want a ConversionError", err)
	}
	if ir != "" {
		t.Errorf("a failed translation produced output:\n%s", ir)
	}
}

func TestDeterministic(t *testing.T) {
	src := "10 INPUT A\n20 LET C = 1\n30 IF C < 3 THEN LET C = C + 1\n40 PRINT A, C\n50 IF C < 3 THEN GOTO 30\n60 END"
	first, _ := generate(t, src, analyzer.DefaultOptions())
	for i := 0; i < 5; i++ {
		if again, _ := generate(t, src, analyzer.DefaultOptions()); again != first {
			t.Fatalf("run %d differs", i)
		}
	}
}
