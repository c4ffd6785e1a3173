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

package emit

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/tombee/cdpgen/pkg/protocol/typemap"
)

// exported returns the exported Go identifier for a schema name.
func exported(name string) string { return typemap.GoName(name) }

// reservedLocals are identifiers generated method bodies use.
var reservedLocals = map[string]bool{
	"ctx":     true,
	"d":       true,
	"err":     true,
	"params":  true,
	"result":  true,
	"context": true,
}

// local returns the Go identifier for a method argument.
func local(name string) string {
	id := []rune(exported(name))
	// Lower the leading run of upper case letters, keeping the last one of
	// a multi-letter run when it starts the next word: URLFilter -> urlFilter.
	n := 0
	for n < len(id) && unicode.IsUpper(id[n]) {
		n++
	}
	if n > 1 && n < len(id) && unicode.IsLower(id[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		id[i] = unicode.ToLower(id[i])
	}
	out := string(id)
	if token.IsKeyword(out) || reservedLocals[out] {
		out += "Arg"
	}
	return out
}

// typeName returns the package-level Go name of a domain type.
func typeName(domain, name string) string {
	return exported(domain) + exported(name)
}

// interfaceName returns the name of a domain's interface.
func interfaceName(domain string) string { return exported(domain) + "Domain" }

// implName returns the name of a domain's unexported implementation.
func implName(domain string) string { return "domain" + exported(domain) }

// constructorName returns the name of a domain's constructor.
func constructorName(domain string) string { return "New" + exported(domain) }

// methodName returns the name of a command method. The Extended variant is
// named after the optional argument it adds.
func methodName(command string, extended string) string {
	if extended == "" {
		return exported(command)
	}
	return exported(command) + "With" + exported(extended)
}

// subscriptionName returns the name of an event subscription method.
func subscriptionName(event string) string { return "On" + exported(event) }

// fileName returns the file name of a domain's source file.
func fileName(domain string) string {
	name := strings.ToLower(exported(domain))
	if name == "client" {
		name = "client_domain"
	}
	return name + ".go"
}
