package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func writeBinary(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSum(t *testing.T) {
	a := Sum("int main(void) {}", "cc", nil)
	if a != Sum("int main(void) {}", "cc", nil) {
		t.Error("sum is not stable")
	}
	if a == Sum("int main(void) {}", "cc", []string{"-O2"}) {
		t.Error("sum ignores toolchain arguments")
	}
	if a == Sum("int main(void) {}", "tcc", nil) {
		t.Error("sum ignores the toolchain")
	}
	if Sum("a", "b", nil) == Sum("ab", "", nil) {
		t.Error("source and toolchain run together")
	}
}

func TestStoreFindRestore(t *testing.T) {
	root := t.TempDir()
	work := t.TempDir()

	var bc BuildCache
	if err := bc.Init(root); err != nil {
		t.Fatal(err)
	}
	if err := bc.CacheScan(); err != nil {
		t.Fatalf("scanning an empty cache: %s", err)
	}

	sum := Sum("src", "cc", nil)
	if _, ok := bc.Find(sum); ok {
		t.Fatal("found an entry in an empty cache")
	}

	built := writeBinary(t, work, "prog", "binary")
	if _, err := bc.Store(sum, "cc", built); err != nil {
		t.Fatal(err)
	}

	var reloaded BuildCache
	if err := reloaded.Init(root); err != nil {
		t.Fatal(err)
	}
	if err := reloaded.CacheScan(); err != nil {
		t.Fatal(err)
	}
	e, ok := reloaded.Find(sum)
	if !ok {
		t.Fatal("stored entry not found after reload")
	}
	if e.Compiler != "cc" {
		t.Errorf("compiler = %q", e.Compiler)
	}

	dst := filepath.Join(work, "restored")
	if err := reloaded.Restore(e, dst); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "binary" {
		t.Errorf("restored %q", b)
	}
}

func TestStoreTwiceKeepsOneEntry(t *testing.T) {
	var bc BuildCache
	if err := bc.Init(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	built := writeBinary(t, t.TempDir(), "prog", "v1")
	sum := Sum("src", "cc", nil)
	for i := 0; i < 2; i++ {
		if _, err := bc.Store(sum, "cc", built); err != nil {
			t.Fatal(err)
		}
	}
	if len(bc.Entries) != 1 {
		t.Errorf("got %d entries, want 1", len(bc.Entries))
	}
}

func TestFindDropsMissingBinaries(t *testing.T) {
	var bc BuildCache
	if err := bc.Init(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	built := writeBinary(t, t.TempDir(), "prog", "v1")
	sum := Sum("src", "cc", nil)
	e, err := bc.Store(sum, "cc", built)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(e.Path); err != nil {
		t.Fatal(err)
	}
	if _, ok := bc.Find(sum); ok {
		t.Error("found an entry whose binary is gone")
	}
	if len(bc.Entries) != 0 {
		t.Errorf("stale entry kept: %v", bc.Entries)
	}
}
