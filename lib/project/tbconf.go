package project

import (
	"fmt"
	"os"
	"path"

	"github.com/tbc-lang/tbc/lib/analyzer"
	"github.com/tbc-lang/tbc/util"
	"gopkg.in/yaml.v3"
)

const FileName = "tbconf.yaml"

type TbConf struct {
	Name     string         `yaml:"name"`
	Main     string         `yaml:"main"`
	Output   string         `yaml:"output"`
	Target   string         `yaml:"target"`
	Compiler TbConfCompiler `yaml:"compiler"`
}

type TbConfCompiler struct {
	BufferSize    int      `yaml:"buffer_size"`
	Labels        string   `yaml:"labels"`
	Redeclaration string   `yaml:"redeclaration"`
	TypeDrift     string   `yaml:"type_drift"`
	CC            string   `yaml:"cc,omitempty"`
	CCArgs        []string `yaml:"cc_args,omitempty"`
}

func (c *TbConf) CreateDefault(name string) {
	if name == "." || name == "" {
		name = "program"
	}
	opts := analyzer.DefaultOptions()
	c.Name = name
	c.Main = "main.bas"
	c.Output = name + ".c"
	c.Target = "c"
	c.Compiler = TbConfCompiler{
		BufferSize:    opts.BufferSize,
		Labels:        opts.Labels.String(),
		Redeclaration: opts.Redeclaration.String(),
		TypeDrift:     opts.TypeDrift.String(),
	}
}

// Save writes the config, asking before replacing an existing file unless
// overwrite is set.
func (c *TbConf) Save(filepath string, overwrite bool) error {
	if _, err := os.Stat(filepath); !os.IsNotExist(err) {
		if !overwrite && !util.PromptYN(filepath+" already exists. Overwrite?", false) {
			return nil
		}
	}

	yml, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, yml, 0644)
}

// Options converts the compiler section into analyzer options. Unset fields
// keep their defaults.
func (c *TbConf) Options() (analyzer.Options, error) {
	opts := analyzer.DefaultOptions()
	if c.Compiler.BufferSize < 0 {
		return opts, fmt.Errorf("buffer_size must be positive, got %d", c.Compiler.BufferSize)
	}
	if c.Compiler.BufferSize > 0 {
		opts.BufferSize = c.Compiler.BufferSize
	}

	policies := []struct {
		name  string
		value string
		dst   *analyzer.Policy
	}{
		{"labels", c.Compiler.Labels, &opts.Labels},
		{"redeclaration", c.Compiler.Redeclaration, &opts.Redeclaration},
		{"type_drift", c.Compiler.TypeDrift, &opts.TypeDrift},
	}
	for _, p := range policies {
		if p.value == "" {
			continue
		}
		policy, err := analyzer.ParsePolicy(p.value)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", p.name, err)
		}
		*p.dst = policy
	}
	return opts, nil
}

func GetTbConf(dir string) (TbConf, error) {
	var conf TbConf

	file, err := os.Open(path.Join(dir, FileName))
	if err != nil {
		return TbConf{}, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&conf); err != nil {
		return TbConf{}, fmt.Errorf("%s: %w", FileName, err)
	}

	return conf, nil
}
