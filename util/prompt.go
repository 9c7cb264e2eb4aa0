package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks questions on w and reads the answers from r. A single reader
// is shared by every question so piped answers are not lost to buffering.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

var std = NewPrompter(os.Stdin, os.Stdout)

// answer reads one line. End of input counts as an empty answer.
func (p *Prompter) answer() string {
	response, err := p.r.ReadString('\n')
	if err != nil && err != io.EOF {
		panic(err)
	}
	return strings.TrimSpace(response)
}

func (p *Prompter) String(prompt string, def string) string {
	fmt.Fprintf(p.w, "%s (%s): ", prompt, def)
	if response := p.answer(); response != "" {
		return response
	}
	return def
}

func (p *Prompter) YN(prompt string, def bool) bool {
	if def {
		fmt.Fprintf(p.w, "%s (Y/n): ", prompt)
	} else {
		fmt.Fprintf(p.w, "%s (y/N): ", prompt)
	}

	response := p.answer()
	if response == "" {
		return def
	}
	return strings.ToLower(response) == "y"
}

// Choice repeats the question until the answer is one of choices or empty.
func (p *Prompter) Choice(prompt string, def string, choices ...string) string {
	for {
		fmt.Fprintf(p.w, "%s [%s] (%s): ", prompt, strings.Join(choices, "/"), def)
		response := p.answer()
		if response == "" {
			return def
		}
		for _, c := range choices {
			if strings.EqualFold(response, c) {
				return c
			}
		}
		fmt.Fprintf(p.w, "%q is not one of %s\n", response, strings.Join(choices, ", "))
	}
}

func PromptString(prompt string, def string) string { return std.String(prompt, def) }
func PromptYN(prompt string, def bool) bool         { return std.YN(prompt, def) }

func PromptChoice(prompt string, def string, choices ...string) string {
	return std.Choice(prompt, def, choices...)
}
