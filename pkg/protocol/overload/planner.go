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

// Package overload decides the call surface of every command and event.
//
// The policy depends only on how many optional parameters a command has:
//
//	0 optional   one method with every parameter (Required)
//	1 optional   two methods: required parameters only (Required), then
//	             required parameters plus the optional one (Extended)
//	2+ optional  one method with every parameter, optional ones
//	             individually nullable (Full)
//
// Optional parameters must trail the required ones. Events always get a
// single subscription.
package overload

import (
	"github.com/tombee/cdpgen/pkg/protocol/typemap"

	cdpgenerrors "github.com/tombee/cdpgen/pkg/errors"
)

// Variant identifies which overload a Method is.
type Variant int

const (
	// Required covers only the required parameters.
	Required Variant = iota

	// Extended covers the required parameters and the single optional one,
	// passed as a plain argument.
	Extended

	// Full covers every parameter; optional ones are nullable.
	Full
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case Required:
		return "required"
	case Extended:
		return "extended"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// Arg is a method argument.
type Arg struct {
	Name        string
	Description string
	Type        *typemap.Descriptor
	Annotations typemap.Annotations

	// Optional is the schema's optionality of the parameter.
	Optional bool

	// Nullable is set when the caller may omit the argument at the call
	// boundary. Only optional arguments of a Full method are nullable.
	Nullable bool
}

// Method is one generated signature of a command.
type Method struct {
	Domain      string
	Command     string
	Description string
	Annotations typemap.Annotations
	Variant     Variant
	Args        []*Arg

	// Params is the wire aggregate the arguments are packed into. It is nil
	// for commands without parameters.
	Params *typemap.NamedType

	// Result is the result aggregate, nil for commands without returns.
	// It is never unwrapped, even for a single field.
	Result *typemap.NamedType
}

// Required returns the names of the arguments the schema marks required.
func (m *Method) Required() []string {
	var names []string
	for _, a := range m.Args {
		if !a.Optional {
			names = append(names, a.Name)
		}
	}
	return names
}

// Optional returns the names of the arguments the schema marks optional.
func (m *Method) Optional() []string {
	var names []string
	for _, a := range m.Args {
		if a.Optional {
			names = append(names, a.Name)
		}
	}
	return names
}

// Subscription is the generated subscription method of an event.
type Subscription struct {
	Domain      string
	Event       string
	Description string
	Annotations typemap.Annotations
	Payload     *typemap.NamedType
}

// DomainPlan holds the planned call surface of one domain.
type DomainPlan struct {
	Domain        *typemap.Domain
	Methods       []*Method
	Subscriptions []*Subscription
}

// Name returns the domain name.
func (d *DomainPlan) Name() string { return d.Domain.Name }

// Plan is the planned call surface of every domain, in document order.
type Plan struct {
	Mapping *typemap.Mapping
	Domains []*DomainPlan
}

// Domain returns the plan of the named domain, or nil.
func (p *Plan) Domain(name string) *DomainPlan {
	for _, d := range p.Domains {
		if d.Domain.Name == name {
			return d
		}
	}
	return nil
}

// Build plans every command and event of mapping.
func Build(mapping *typemap.Mapping) (*Plan, error) {
	plan := &Plan{Mapping: mapping}
	for _, dom := range mapping.Domains {
		dp := &DomainPlan{Domain: dom}
		for _, cmd := range dom.Commands {
			methods, err := PlanCommand(dom.Name, cmd)
			if err != nil {
				return nil, err
			}
			dp.Methods = append(dp.Methods, methods...)
		}
		for _, ev := range dom.Events {
			sub, err := PlanEvent(dom.Name, ev)
			if err != nil {
				return nil, err
			}
			dp.Subscriptions = append(dp.Subscriptions, sub)
		}
		plan.Domains = append(plan.Domains, dp)
	}
	return plan, nil
}

// PlanCommand returns the methods generated for cmd, in emission order.
func PlanCommand(domain string, cmd *typemap.Command) ([]*Method, error) {
	optional, err := trailingOptional(domain, cmd.Name, cmd.Params)
	if err != nil {
		return nil, err
	}

	method := func(v Variant, params []*typemap.Field, nullable bool) *Method {
		m := &Method{
			Domain:      domain,
			Command:     cmd.Name,
			Description: cmd.Description,
			Annotations: cmd.Annotations,
			Variant:     v,
			Params:      cmd.ParamsType,
			Result:      cmd.ResultType,
		}
		for _, p := range params {
			m.Args = append(m.Args, &Arg{
				Name:        p.Name,
				Description: p.Description,
				Type:        p.Type,
				Annotations: p.Annotations,
				Optional:    p.Optional,
				Nullable:    nullable && p.Optional,
			})
		}
		return m
	}

	required := cmd.Params[:len(cmd.Params)-optional]
	switch optional {
	case 0:
		return []*Method{method(Required, cmd.Params, false)}, nil
	case 1:
		return []*Method{
			method(Required, required, false),
			method(Extended, cmd.Params, false),
		}, nil
	default:
		return []*Method{method(Full, cmd.Params, true)}, nil
	}
}

// PlanEvent returns the subscription generated for ev.
func PlanEvent(domain string, ev *typemap.Event) (*Subscription, error) {
	if _, err := trailingOptional(domain, ev.Name, ev.Params); err != nil {
		return nil, err
	}
	return &Subscription{
		Domain:      domain,
		Event:       ev.Name,
		Description: ev.Description,
		Annotations: ev.Annotations,
		Payload:     ev.Payload,
	}, nil
}

// trailingOptional counts the optional parameters and checks that none of
// them precedes a required one.
func trailingOptional(domain, member string, params []*typemap.Field) (int, error) {
	optional := 0
	for _, p := range params {
		if p.Optional {
			optional++
			continue
		}
		if optional > 0 {
			return 0, &cdpgenerrors.NonTrailingOptionalParameterError{
				Domain:    domain,
				Member:    member,
				Parameter: p.Name,
			}
		}
	}
	return optional, nil
}
