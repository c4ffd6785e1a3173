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

package typemap

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

// maxSuffix bounds the numeric suffixes tried before a synthesized name is
// reported as a collision.
const maxSuffix = 99

// Namespace hands out unique type names within one domain.
//
// Declared ids are reserved up front so that synthesized names never shadow
// them; synthesized names are then assigned in the order they are requested,
// which the mapper keeps equal to document order. Names are compared by
// their GoName, so "FrameId" is taken once "FrameID" is.
type Namespace struct {
	domain string
	limit  int
	taken  map[string]bool
}

// NewNamespace returns an empty namespace for domain.
func NewNamespace(domain string) *Namespace {
	return &Namespace{domain: domain, limit: maxSuffix, taken: make(map[string]bool)}
}

// Reserve claims name. It reports false if the name was already taken.
func (n *Namespace) Reserve(name string) bool {
	key := GoName(name)
	if n.taken[key] {
		return false
	}
	n.taken[key] = true
	return true
}

// Taken reports whether name is in use.
func (n *Namespace) Taken(name string) bool { return n.taken[GoName(name)] }

// Synthesize claims base, or base followed by the smallest free suffix
// starting at 2.
func (n *Namespace) Synthesize(base string) (string, error) {
	if n.Reserve(base) {
		return base, nil
	}
	for i := 2; i <= n.limit; i++ {
		candidate := base + strconv.Itoa(i)
		if n.Reserve(candidate) {
			return candidate, nil
		}
	}
	return "", &cdpgenerrors.NameCollisionError{
		Domain: n.domain,
		Name:   base,
		Reason: fmt.Sprintf("no free name after %d suffixes", n.limit-1),
	}
}

// UpperCamel converts a schema name into an exported identifier:
// "setVirtualTimePolicy" becomes "SetVirtualTimePolicy", "text-input"
// becomes "TextInput". Characters that cannot appear in an identifier act
// as word breaks. A leading digit is prefixed with "V".
func UpperCamel(s string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	out := b.String()
	if out == "" {
		return "V"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "V" + out
	}
	return out
}

// initialisms are camel-case words rendered in upper case, following the
// usual Go naming conventions.
var initialisms = map[string]string{
	"Api":  "API",
	"Css":  "CSS",
	"Dom":  "DOM",
	"Html": "HTML",
	"Http": "HTTP",
	"Id":   "ID",
	"Ids":  "IDs",
	"Ip":   "IP",
	"Json": "JSON",
	"Uri":  "URI",
	"Url":  "URL",
	"Urls": "URLs",
	"Uuid": "UUID",
	"Xml":  "XML",
}

// words splits an upper-camel identifier into its words. A word is a run
// of upper case letters or digits, or an upper case letter followed by
// lower case letters.
func words(s string) []string {
	var out []string
	runes := []rune(s)
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(cur):
			// nodeId: break before I
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) && unicode.IsLower(next):
			// DOMStorage: break before S
		default:
			continue
		}
		out = append(out, string(runes[start:i]))
		start = i
	}
	return append(out, string(runes[start:]))
}

// GoName returns the exported Go identifier for a schema name: UpperCamel
// with initialisms upper-cased, so "frameId" becomes "FrameID".
func GoName(name string) string {
	var b strings.Builder
	for _, w := range words(UpperCamel(name)) {
		if fixed, ok := initialisms[w]; ok {
			w = fixed
		}
		b.WriteString(w)
	}
	return b.String()
}

// LowerCamel is UpperCamel with a lower-case first letter.
func LowerCamel(s string) string {
	out := []rune(UpperCamel(s))
	out[0] = unicode.ToLower(out[0])
	return string(out)
}
