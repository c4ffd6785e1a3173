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

package shared

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles. lipgloss drops the colors itself when stdout is not a
// terminal or NO_COLOR is set.
var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// Muted is for secondary text such as labels and descriptions.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	// Header is for section headings.
	Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

// RenderOK prefixes msg with a green check mark.
func RenderOK(msg string) string {
	return okStyle.Render("✓") + " " + msg
}

// RenderError prefixes msg with a red cross.
func RenderError(msg string) string {
	return errorStyle.Render("✗") + " " + msg
}

// RenderLabel renders the label of a "label value" line.
func RenderLabel(label string) string {
	return Muted.Render(label)
}

// WriteField writes an indented "label value" line of a summary.
func WriteField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", RenderLabel(label), value)
}

// Count is one entry of RenderCounts.
type Count struct {
	N    int
	Noun string
}

// RenderCounts renders "3 domains, 1 type" style summaries, skipping
// zero counts. Nouns are given in singular and pluralized with "s".
func RenderCounts(counts ...Count) string {
	var parts []string
	for _, c := range counts {
		if c.N == 0 {
			continue
		}
		noun := c.Noun
		if c.N != 1 {
			noun += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", c.N, noun))
	}
	return strings.Join(parts, ", ")
}
