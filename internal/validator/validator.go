// Package validator checks request forms before they are sent.
package validator

import (
	"net/mail"
	"slices"
	"strings"
)

type Validator interface {
	// Validate returns a message per invalid field, or nil.
	Validate() map[string]string
}

// Error lists field messages from a failed form.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.names() {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// First returns the alphabetically first invalid field.
func (e *Error) First() (field, message string) {
	names := e.names()
	if len(names) == 0 {
		return "", ""
	}
	return names[0], e.Fields[names[0]]
}

func (e *Error) names() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func Validate(v Validator) error {
	if fields := v.Validate(); len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// Fields accumulates messages; the zero value is ready to use.
type Fields map[string]string

func (f *Fields) add(name, msg string) {
	if *f == nil {
		*f = make(Fields)
	}
	if _, ok := (*f)[name]; !ok {
		(*f)[name] = msg
	}
}

func (f *Fields) Required(name, value, msg string) {
	if strings.TrimSpace(value) == "" {
		f.add(name, msg)
	}
}

func (f *Fields) Email(name, value string) {
	if strings.TrimSpace(value) == "" {
		f.add(name, "enter an email")
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		f.add(name, "enter a valid email")
	}
}

// Map returns nil when nothing was added.
func (f Fields) Map() map[string]string {
	if len(f) == 0 {
		return nil
	}
	return f
}
