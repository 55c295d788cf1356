package application_test

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/diaglens/diaglens/internal/domain"
)

type fakeAnalyzer struct {
	out   []byte
	err   error
	calls int
}

func (f *fakeAnalyzer) Run(context.Context, string) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

func (f *fakeAnalyzer) Describe() string { return "pyright --outputjson" }

type fakeInstaller struct {
	available  bool
	installErr error
	installs   int
	fixes      bool
}

func (f *fakeInstaller) Available() bool { return f.available }

func (f *fakeInstaller) Install(context.Context) error {
	f.installs++
	if f.installErr != nil {
		return f.installErr
	}
	if f.fixes {
		f.available = true
	}
	return nil
}

type fakeGit struct {
	hash string
	err  error
}

func (f fakeGit) CommitHash(string) (string, error) { return f.hash, f.err }

type fakeClipboard struct {
	available bool
	err       error
	copied    string
}

func (f *fakeClipboard) Available() bool { return f.available }

func (f *fakeClipboard) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.copied = text
	return nil
}

type mapSource map[string][]string

func (m mapSource) Lines(path string) ([]string, error) {
	lines, ok := m[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return lines, nil
}

type recordingConsole struct {
	lines   []string
	prompts []string
}

func (c *recordingConsole) Println(_ domain.Tone, text string) { c.lines = append(c.lines, text) }

func (c *recordingConsole) Prompt(text string) { c.prompts = append(c.prompts, text) }

func (c *recordingConsole) output() string { return strings.Join(c.lines, "\n") }

// indexOf returns the index of the first recorded line containing s.
func (c *recordingConsole) indexOf(s string) int {
	for i, l := range c.lines {
		if strings.Contains(l, s) {
			return i
		}
	}
	return -1
}

var errCopy = errors.New("xclip exited with status 1")
