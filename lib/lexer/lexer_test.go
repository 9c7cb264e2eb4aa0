package tblex

import (
	"testing"
)

type tok struct {
	typ   string
	value string
}

func lexAll(t *testing.T, src string) []tok {
	t.Helper()
	tokens, err := Tokens("test.bas", src)
	if err != nil {
		t.Fatalf("lexing %q: %s", src, err)
	}
	out := make([]tok, 0, len(tokens))
	for _, tk := range tokens {
		out = append(out, tok{TypeName(tk.Type), tk.Value})
	}
	return out
}

func checkTokens(t *testing.T, src string, want []tok) {
	t.Helper()
	got := lexAll(t, src)
	if len(got) != len(want) {
		t.Fatalf("lexing %q: got %d tokens %v, want %d %v", src, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("lexing %q: token %d is %v, want %v", src, i, got[i], want[i])
		}
	}
}

func TestKeywordsAndVariables(t *testing.T) {
	checkTokens(t, "10 LET A = 5", []tok{
		{"Int", "10"}, {"Keyword", "LET"}, {"Var", "A"}, {"Relop", "="}, {"Int", "5"},
	})
	checkTokens(t, "IF A<>B THEN GOTO 30", []tok{
		{"Keyword", "IF"}, {"Var", "A"}, {"Relop", "<>"}, {"Var", "B"},
		{"Keyword", "THEN"}, {"Keyword", "GOTO"}, {"Int", "30"},
	})
}

func TestRelationalOperators(t *testing.T) {
	for _, op := range []string{"<>", "><", "<=", ">=", "<", ">", "="} {
		checkTokens(t, "A"+op+"B", []tok{{"Var", "A"}, {"Relop", op}, {"Var", "B"}})
	}
}

func TestStrings(t *testing.T) {
	checkTokens(t, `PRINT "a, b", 'c', Hello world`, []tok{
		{"Keyword", "PRINT"},
		{"String", `"a, b"`}, {"Punct", ","},
		{"Char", `'c'`}, {"Punct", ","},
		{"Text", "Hello world"},
	})
}

func TestRemarkTakesRestOfLine(t *testing.T) {
	checkTokens(t, "10 REM say \"hi\", 5\n20 END", []tok{
		{"Int", "10"}, {"Remark", `REM say "hi", 5`}, {"EOL", "\n"},
		{"Int", "20"}, {"Keyword", "END"},
	})
}

func TestMinusSignsAreSeparate(t *testing.T) {
	checkTokens(t, "--5", []tok{{"Binop", "-"}, {"Binop", "-"}, {"Int", "5"}})
}

func TestCarriageReturnIsElided(t *testing.T) {
	checkTokens(t, "10 END\r\n", []tok{{"Int", "10"}, {"Keyword", "END"}, {"EOL", "\n"}})
}

func TestPositions(t *testing.T) {
	tokens, err := Tokens("test.bas", "10 END\n20 LET A = 1")
	if err != nil {
		t.Fatal(err)
	}
	last := tokens[len(tokens)-1]
	if last.Pos.Line != 2 || last.Pos.Column != 12 {
		t.Errorf("last token at %d:%d, want 2:12", last.Pos.Line, last.Pos.Column)
	}
	if last.Pos.Filename != "test.bas" {
		t.Errorf("filename is %q", last.Pos.Filename)
	}
}
