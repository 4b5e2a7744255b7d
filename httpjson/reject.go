package httpjson

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/unkn0wn-root/jsonbody"
)

// StatusCoder lets handler errors choose their own HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// NotAcceptableError reports that no offered representation satisfies the
// request's Accept header.
type NotAcceptableError struct {
	Offered []string
}

func (e *NotAcceptableError) Error() string {
	return fmt.Sprintf("no acceptable representation; available: %s", strings.Join(e.Offered, ", "))
}

func (e *NotAcceptableError) StatusCode() int { return http.StatusNotAcceptable }

// ErrorBody is the JSON document written for every rejection.
type ErrorBody struct {
	Error    string               `json:"error"`
	Kind     string               `json:"kind,omitempty"`
	Cause    string               `json:"cause,omitempty"`
	Expected []string             `json:"expected,omitempty"`
	Details  []jsonbody.PathError `json:"details,omitempty"`
}

var errorBodies, _ = jsonbody.Must(jsonbody.Options[ErrorBody]{})

// StatusOf maps err to the HTTP status WriteError would use.
func StatusOf(err error) int {
	if k, ok := jsonbody.KindOf(err); ok {
		if k == jsonbody.KindUnsupportedContentType {
			return http.StatusUnsupportedMediaType
		}
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// BodyOf builds the error document for err. Messages of unclassified
// errors are not exposed.
func BodyOf(err error) ErrorBody {
	status := StatusOf(err)
	if k, ok := jsonbody.KindOf(err); ok {
		b := ErrorBody{Error: err.Error(), Kind: k.String()}
		var uct *jsonbody.UnsupportedContentTypeError
		var mbe *jsonbody.MalformedBodyError
		var ve *jsonbody.ValidationError
		switch {
		case errors.As(err, &uct):
			b.Expected = uct.Expected
		case errors.As(err, &mbe):
			b.Error = jsonbody.MalformedBodyMessage
			if mbe.Cause != nil {
				b.Cause = mbe.Cause.Error()
			}
		case errors.As(err, &ve):
			b.Details = ve.Errors
		}
		return b
	}
	var na *NotAcceptableError
	if errors.As(err, &na) {
		return ErrorBody{Error: err.Error(), Expected: na.Offered}
	}
	if status == http.StatusInternalServerError {
		return ErrorBody{Error: http.StatusText(status)}
	}
	return ErrorBody{Error: err.Error()}
}

// WriteError writes err as a JSON ErrorBody and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := StatusOf(err)
	e, merr := errorBodies.Marshal(BodyOf(err))
	if merr != nil {
		http.Error(w, http.StatusText(status), status)
		return status
	}
	writeEntity(w, status, e)
	return status
}
