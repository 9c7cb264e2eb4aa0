package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tbc-lang/tbc/lib/analyzer"
)

func TestCreateDefault(t *testing.T) {
	var conf TbConf
	conf.CreateDefault(".")
	if conf.Name != "program" || conf.Main != "main.bas" || conf.Output != "program.c" || conf.Target != "c" {
		t.Errorf("unexpected defaults %+v", conf)
	}

	opts, err := conf.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts != analyzer.DefaultOptions() {
		t.Errorf("default config gives %+v, want %+v", opts, analyzer.DefaultOptions())
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	var conf TbConf
	conf.CreateDefault("hello")
	conf.Compiler.CC = "tcc"
	conf.Compiler.CCArgs = []string{"-O2"}
	conf.Compiler.TypeDrift = "error"

	if err := conf.Save(filepath.Join(dir, FileName), true); err != nil {
		t.Fatal(err)
	}
	loaded, err := GetTbConf(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "hello" || loaded.Output != "hello.c" || loaded.Compiler.CC != "tcc" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.Compiler.CCArgs) != 1 || loaded.Compiler.CCArgs[0] != "-O2" {
		t.Errorf("cc_args = %v", loaded.Compiler.CCArgs)
	}

	opts, err := loaded.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.TypeDrift != analyzer.Fail {
		t.Errorf("type_drift = %s, want error", opts.TypeDrift)
	}
}

func TestMissingConfig(t *testing.T) {
	_, err := GetTbConf(t.TempDir())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want a not-exist error", err)
	}
}

func TestUnknownField(t *testing.T) {
	dir := t.TempDir()
	yml := "name: x\nmain: main.bas\nbogus: 1\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := GetTbConf(dir)
	if err == nil || !strings.Contains(err.Error(), FileName) {
		t.Errorf("got %v, want a decode error naming %s", err, FileName)
	}
}

func TestPartialCompilerSection(t *testing.T) {
	dir := t.TempDir()
	yml := "name: x\nmain: main.bas\ncompiler:\n  buffer_size: 128\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	conf, err := GetTbConf(dir)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := conf.Options()
	if err != nil {
		t.Fatal(err)
	}
	want := analyzer.DefaultOptions()
	want.BufferSize = 128
	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}
}

func TestOptionsErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*TbConfCompiler)
		want   string
	}{
		{"negative buffer", func(c *TbConfCompiler) { c.BufferSize = -1 }, "buffer_size"},
		{"bad labels", func(c *TbConfCompiler) { c.Labels = "ignore" }, "labels"},
		{"bad redeclaration", func(c *TbConfCompiler) { c.Redeclaration = "Warn" }, "redeclaration"},
		{"bad drift", func(c *TbConfCompiler) { c.TypeDrift = "fail" }, "type_drift"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var conf TbConf
			conf.CreateDefault("x")
			tc.mutate(&conf.Compiler)
			_, err := conf.Options()
			if err == nil || !strings.HasPrefix(err.Error(), tc.want) {
				t.Errorf("got %v, want an error starting with %q", err, tc.want)
			}
		})
	}
}
