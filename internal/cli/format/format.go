// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package format renders command output for the terminal: JSON is
// highlighted and Markdown rendered when stdout is a TTY, and passed
// through unchanged otherwise.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
)

// Kind selects how content is rendered.
type Kind int

const (
	// Text is printed with escape sequences removed.
	Text Kind = iota
	// JSON is indented and, on a TTY, highlighted.
	JSON
	// Markdown is rendered with glamour on a TTY.
	Markdown
)

func (k Kind) String() string {
	switch k {
	case JSON:
		return "json"
	case Markdown:
		return "markdown"
	default:
		return "text"
	}
}

// ParseKind maps a format name to its Kind. The empty name is Text.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "", "text", "string":
		return Text, nil
	case "json":
		return JSON, nil
	case "markdown", "md":
		return Markdown, nil
	}
	return Text, fmt.Errorf("unknown format: %s", name)
}

// limit is the largest input accepted per kind.
func (k Kind) limit() int {
	switch k {
	case JSON:
		return 10 << 20
	case Markdown:
		return 5 << 20
	default:
		return 100 << 20
	}
}

const (
	wordWrap  = 100
	jsonStyle = "monokai"
)

// escapes matches CSI sequences and OSC sequences terminated by BEL or ST.
var escapes = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)

// stripEscapes removes terminal escape sequences. Descriptions come from
// protocol documents and are stripped before anything styles them.
func stripEscapes(s string) string {
	return escapes.ReplaceAllString(s, "")
}

// Render formats content as kind. tty enables highlighting and Markdown
// rendering; without it content only gets normalized.
func Render(kind Kind, content string, tty bool) (string, error) {
	if limit := kind.limit(); len(content) > limit {
		return "", fmt.Errorf("%s output of %d bytes exceeds the %d byte limit", kind, len(content), limit)
	}

	switch kind {
	case JSON:
		return renderJSON(content, tty)
	case Markdown:
		return renderMarkdown(stripEscapes(content), tty), nil
	default:
		return stripEscapes(content), nil
	}
}

// renderJSON needs no stripping: valid JSON cannot hold raw control
// characters.
func renderJSON(content string, tty bool) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(content)), "", "  "); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	indented := buf.String()
	if !tty {
		return indented, nil
	}

	var out bytes.Buffer
	if err := quick.Highlight(&out, indented, "json", "terminal256", jsonStyle); err != nil {
		return indented, nil
	}
	return out.String(), nil
}

// renderMarkdown falls back to the source when glamour cannot render.
func renderMarkdown(content string, tty bool) string {
	if !tty {
		return content
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wordWrap))
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}

// Printer writes rendered output to W, one value per line.
type Printer struct {
	W   io.Writer
	TTY bool
}

// NewPrinter returns a Printer for w that renders for a terminal when
// stdout is one.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{W: w, TTY: IsTTY()}
}

// Print renders content as kind and writes it followed by a newline.
// Markdown documents that already end in one are written as they are.
func (p *Printer) Print(kind Kind, content string) error {
	out, err := Render(kind, content, p.TTY)
	if err != nil {
		return err
	}
	if kind != Markdown || !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(p.W, out)
	return err
}

// PrintValue encodes v as JSON and prints it. HTML characters are kept
// as is.
func (p *Printer) PrintValue(v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return p.Print(JSON, buf.String())
}
