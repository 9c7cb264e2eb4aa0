package cache

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BuildCache remembers native binaries produced from generated sources so an
// unchanged program is not handed to the toolchain twice.
type BuildCache struct {
	RootDir string
	ObjDir  string
	Entries []Entry
}

type Entry struct {
	Sum      string
	Compiler string
	Path     string
}

// Init prepares the cache directories. An empty root uses the user cache
// directory.
func (c *BuildCache) Init(root string) error {
	if root == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return err
		}
		root = filepath.Join(dir, "tbc")
	}

	objDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(objDir, 0700); err != nil {
		return err
	}

	c.RootDir = root
	c.ObjDir = objDir
	c.Entries = make([]Entry, 0)
	return nil
}

func (c *BuildCache) indexPath() string {
	return filepath.Join(c.RootDir, "cache.bin")
}

// CacheScan loads the index. A missing index is an empty cache.
func (c *BuildCache) CacheScan() error {
	file, err := os.Open(c.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return gob.NewDecoder(file).Decode(&c.Entries)
}

func (c *BuildCache) CacheSave() error {
	file, err := os.Create(c.indexPath())
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(c.Entries)
}

// Sum keys a build by its source text and the exact toolchain invocation.
func Sum(source, compiler string, args []string) string {
	h := md5.New()
	io.WriteString(h, source)
	io.WriteString(h, "\x00"+compiler+"\x00")
	io.WriteString(h, strings.Join(args, "\x00"))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Find returns the entry for sum. Entries whose binary has disappeared are
// dropped.
func (c *BuildCache) Find(sum string) (Entry, bool) {
	for i, e := range c.Entries {
		if e.Sum != sum {
			continue
		}
		if _, err := os.Stat(e.Path); err != nil {
			c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
			return Entry{}, false
		}
		return e, true
	}
	return Entry{}, false
}

// Store copies a freshly built binary into the cache and records it.
func (c *BuildCache) Store(sum, compiler, built string) (Entry, error) {
	e := Entry{Sum: sum, Compiler: compiler, Path: filepath.Join(c.ObjDir, sum)}
	if err := copyFile(built, e.Path); err != nil {
		return Entry{}, err
	}
	if _, ok := c.Find(sum); !ok {
		c.Entries = append(c.Entries, e)
	}
	return e, c.CacheSave()
}

// Restore copies a cached binary to dst.
func (c *BuildCache) Restore(e Entry, dst string) error {
	return copyFile(e.Path, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
