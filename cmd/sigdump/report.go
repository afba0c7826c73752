package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/sigregistry/engine"
	"github.com/wippyai/sigregistry/sigreg"
)

type report struct {
	Signatures []sigEntry    `yaml:"signatures"`
	Modules    []moduleEntry `yaml:"modules"`
}

type sigEntry struct {
	Type  string   `yaml:"type"`
	Users []string `yaml:"users"`
	Index uint32   `yaml:"index"`
}

type moduleEntry struct {
	File      string      `yaml:"file"`
	Functions []funcEntry `yaml:"functions"`
}

type funcEntry struct {
	Name   string `yaml:"name"`
	Sig    uint32 `yaml:"sig"`
	Import bool   `yaml:"import,omitempty"`
}

// buildReport compiles every file into one registry. Handles in the report
// are therefore comparable across files.
func buildReport(ctx context.Context, log *zap.Logger, files []string) (*report, error) {
	reg := sigreg.New()
	eng, err := engine.New(ctx, &engine.Config{Registry: reg, Logger: log})
	if err != nil {
		return nil, err
	}
	defer eng.Close(ctx)

	rep := &report{}
	users := make(map[sigreg.SigIndex][]string)

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		mod, err := eng.Compile(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		entry := moduleEntry{File: file}
		for _, fs := range mod.Functions() {
			name := fs.Name
			if fs.Import {
				name = fs.Module + "." + fs.Name
			}
			entry.Functions = append(entry.Functions, funcEntry{Name: name, Sig: uint32(fs.Type), Import: fs.Import})
			users[fs.Type] = append(users[fs.Type], file+":"+name)
		}
		rep.Modules = append(rep.Modules, entry)
		_ = mod.Close(ctx)
	}

	for i := 0; i < reg.Len(); i++ {
		idx := sigreg.SigIndex(i)
		rep.Signatures = append(rep.Signatures, sigEntry{
			Index: uint32(idx),
			Type:  reg.Describe(idx),
			Users: users[idx],
		})
	}
	return rep, nil
}

func writeYAML(w io.Writer, rep *report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

var (
	indexStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	sigStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
)

func writeText(w io.Writer, rep *report, color bool) error {
	render := func(s lipgloss.Style, text string) string {
		if color {
			return s.Render(text)
		}
		return text
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d signatures across %d modules\n\n", len(rep.Signatures), len(rep.Modules))
	for _, s := range rep.Signatures {
		b.WriteString(render(indexStyle, fmt.Sprintf("%4d", s.Index)))
		b.WriteString("  ")
		b.WriteString(render(sigStyle, s.Type))
		b.WriteByte('\n')
		for _, u := range s.Users {
			b.WriteString("        ")
			b.WriteString(render(userStyle, u))
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
