package jsonbody

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for the four rejection kinds. Use errors.Is.
var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrNoContent              = errors.New("request entity expected but not supplied")
	ErrMalformedBody          = errors.New("malformed body")
	ErrValidationFailed       = errors.New("validation failed")
)

// MalformedBodyMessage is the fixed message of a MalformedBodyError.
const MalformedBodyMessage = "Invalid JSON body"

// Message keys reported by the Reflect decoder.
const (
	KeyExpectedString  = "error.expected.jsstring"
	KeyExpectedNumber  = "error.expected.jsnumber"
	KeyExpectedBoolean = "error.expected.jsboolean"
	KeyExpectedArray   = "error.expected.jsarray"
	KeyExpectedObject  = "error.expected.jsobject"
	KeyExpectedInt     = "error.expected.int"
	KeyPathMissing     = "error.path.missing"
)

// Kind identifies which of the four rejections an error is.
type Kind int

const (
	KindUnsupportedContentType Kind = iota + 1
	KindNoContent
	KindMalformedBody
	KindValidationFailed
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedContentType:
		return "unsupported_content_type"
	case KindNoContent:
		return "no_content"
	case KindMalformedBody:
		return "malformed_body"
	case KindValidationFailed:
		return "validation_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindOf classifies err by the outermost adapter error in its chain. ok is
// false for errors the adapter did not produce.
func KindOf(err error) (k Kind, ok bool) {
	switch err {
	case nil:
		return 0, false
	case ErrUnsupportedContentType:
		return KindUnsupportedContentType, true
	case ErrNoContent:
		return KindNoContent, true
	case ErrMalformedBody:
		return KindMalformedBody, true
	case ErrValidationFailed:
		return KindValidationFailed, true
	}

	switch x := err.(type) {
	case *UnsupportedContentTypeError:
		return KindUnsupportedContentType, true
	case *MalformedBodyError:
		return KindMalformedBody, true
	case *ValidationError:
		return KindValidationFailed, true
	case interface{ Unwrap() error }:
		return KindOf(x.Unwrap())
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if k, ok := KindOf(e); ok {
				return k, true
			}
		}
	}
	return 0, false
}

// UnsupportedContentTypeError rejects an entity before any parsing.
type UnsupportedContentTypeError struct {
	Got      string   // declared content type, possibly empty
	Expected []string // accepted media types
}

func (e *UnsupportedContentTypeError) Error() string {
	got := e.Got
	if got == "" {
		got = "<none>"
	}
	return fmt.Sprintf("unsupported content type %s; expected %s", got, strings.Join(e.Expected, ", "))
}

func (e *UnsupportedContentTypeError) Unwrap() error { return ErrUnsupportedContentType }

// MalformedBodyError reports bytes that are not valid JSON text.
type MalformedBodyError struct {
	Cause error // parser error
}

func (e *MalformedBodyError) Error() string { return MalformedBodyMessage }

func (e *MalformedBodyError) Unwrap() []error {
	errs := make([]error, 0, 2)
	errs = append(errs, ErrMalformedBody)
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Message is one validation error identifier with optional arguments.
type Message struct {
	Key  string `json:"key"`
	Args []any  `json:"args,omitempty"`
}

func (m Message) String() string {
	if len(m.Args) == 0 {
		return m.Key
	}
	args := make([]string, len(m.Args))
	for i, a := range m.Args {
		args[i] = fmt.Sprint(a)
	}
	return m.Key + "(" + strings.Join(args, ",") + ")"
}

// PathError groups the messages reported for one JSON Pointer path.
// The document root is "".
type PathError struct {
	Path     string    `json:"path"`
	Messages []Message `json:"messages"`
}

// ValidationError reports syntactically valid JSON that could not become a T.
type ValidationError struct {
	Errors []PathError // ordered, one entry per path
	Cause  error       // set for construction failures; its message wins
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return renderPathErrors(e.Errors)
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, 2)
	errs = append(errs, ErrValidationFailed)
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// renderPathErrors formats "/a: [k1, k2]; /b: [k3]".
func renderPathErrors(pes []PathError) string {
	if len(pes) == 0 {
		return ErrValidationFailed.Error()
	}
	var b strings.Builder
	for i, pe := range pes {
		if i > 0 {
			b.WriteString("; ")
		}
		path := pe.Path
		if path == "" {
			path = "/"
		}
		b.WriteString(path)
		b.WriteString(": [")
		for j, m := range pe.Messages {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.String())
		}
		b.WriteString("]")
	}
	return b.String()
}

// RequirementError is a failed precondition raised while constructing a value.
type RequirementError struct {
	Msg string
}

func (e *RequirementError) Error() string { return "requirement failed: " + e.Msg }

// Require returns nil when cond holds, otherwise a *RequirementError with msg.
func Require(cond bool, msg string) error {
	if cond {
		return nil
	}
	return &RequirementError{Msg: msg}
}
