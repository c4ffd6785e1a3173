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

package inspect

import (
	"fmt"
	"strings"
)

// Markdown renders v as an API reference of the generated package.
func Markdown(v *View) string {
	var b strings.Builder

	title := "Protocol reference"
	if v.Version != "" {
		title += " (" + v.Version + ")"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, d := range v.Domains {
		fmt.Fprintf(&b, "- [%s](#%s)%s\n", d.Name, strings.ToLower(d.Name), markers(d.Experimental, d.Deprecated))
	}

	for _, d := range v.Domains {
		fmt.Fprintf(&b, "\n## %s\n\n", d.Name)
		if d.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", d.Description)
		}
		if m := markers(d.Experimental, d.Deprecated); m != "" {
			fmt.Fprintf(&b, "*Status:*%s\n\n", m)
		}
		if len(d.Dependencies) > 0 {
			fmt.Fprintf(&b, "*Depends on:* %s\n\n", strings.Join(d.Dependencies, ", "))
		}
		fmt.Fprintf(&b, "*File:* `%s`\n", d.File)

		if len(d.Methods) > 0 {
			b.WriteString("\n### Methods\n\n")
			for _, m := range d.Methods {
				fmt.Fprintf(&b, "- `%s`%s\n", signature(m), markers(m.Experimental, m.Deprecated))
				if m.Redirect != "" {
					fmt.Fprintf(&b, "  redirects to %s\n", m.Redirect)
				}
			}
		}

		if len(d.Subscriptions) > 0 {
			b.WriteString("\n### Events\n\n")
			for _, s := range d.Subscriptions {
				payload := ""
				if s.Payload != "" {
					payload = " delivers `" + s.Payload + "`"
				}
				fmt.Fprintf(&b, "- `%s`%s%s\n", s.Name, payload, markers(s.Experimental, s.Deprecated))
			}
		}

		if len(d.Types) > 0 {
			b.WriteString("\n### Types\n\n")
			for _, t := range d.Types {
				writeType(&b, t)
			}
		}
	}
	return b.String()
}

// signature renders "Name(a T, b? U) Result".
func signature(m *MethodView) string {
	args := make([]string, len(m.Args))
	for i, a := range m.Args {
		name := a.Name
		if a.Nullable {
			name += "?"
		}
		args[i] = name + " " + a.Type
	}
	sig := m.Name + "(" + strings.Join(args, ", ") + ")"
	if m.Result != "" {
		sig += " " + m.Result
	}
	return sig
}

func writeType(b *strings.Builder, t *TypeView) {
	fmt.Fprintf(b, "#### %s\n\n", t.Name)
	summary := t.Kind
	if t.Underlying != "" {
		summary += " of `" + t.Underlying + "`"
	}
	fmt.Fprintf(b, "%s%s\n\n", summary, markers(t.Experimental, t.Deprecated))
	if t.Description != "" {
		fmt.Fprintf(b, "%s\n\n", t.Description)
	}
	if len(t.Values) > 0 {
		quoted := make([]string, len(t.Values))
		for i, v := range t.Values {
			quoted[i] = "`" + v + "`"
		}
		fmt.Fprintf(b, "Values: %s\n\n", strings.Join(quoted, ", "))
	}
	if len(t.Fields) > 0 {
		b.WriteString("| Field | Type | Optional |\n|---|---|---|\n")
		for _, f := range t.Fields {
			optional := ""
			if f.Optional {
				optional = "yes"
			}
			fmt.Fprintf(b, "| %s | `%s` | %s |\n", f.Name, f.Type, optional)
		}
		b.WriteString("\n")
	}
}

func markers(experimental, deprecated bool) string {
	var m string
	if experimental {
		m += " *experimental*"
	}
	if deprecated {
		m += " *deprecated*"
	}
	return m
}
