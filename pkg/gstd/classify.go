package gstd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Messages used for transport-level failures.
const (
	MessageUnreachable     = "daemon did not respond: is it up?"
	MessageUnexpected      = "unexpected error"
	MessageRequestTimeout  = "request timed out"
	MessageRequestCanceled = "request canceled"
)

// envelopeProbe holds the error-relevant fields found in a response body.
type envelopeProbe struct {
	hasCode        bool
	hasDescription bool
	code           int
	description    string
}

func probeEnvelope(body []byte) (envelopeProbe, bool) {
	var probe envelopeProbe

	var fields map[string]json.RawMessage

	err := json.Unmarshal(body, &fields)
	if err != nil || fields == nil {
		return probe, false
	}

	if rawCode, ok := fields["code"]; ok {
		probe.hasCode = true
		probe.code = decodeCode(rawCode)
	}

	if rawDescription, ok := fields["description"]; ok {
		probe.hasDescription = true

		err = json.Unmarshal(rawDescription, &probe.description)
		if err != nil {
			probe.description = strings.TrimSpace(string(rawDescription))
		}
	}

	return probe, true
}

// decodeCode reads the envelope code. Only a number equal to zero is zero.
// A non-integral number, a null or any other JSON value is DaemonCodeUnknown.
func decodeCode(raw json.RawMessage) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '"' {
		return DaemonCodeUnknown
	}

	var number json.Number

	err := json.Unmarshal(trimmed, &number)
	if err != nil || number == "" {
		return DaemonCodeUnknown
	}

	if value, err := number.Int64(); err == nil && value >= math.MinInt32 && value <= math.MaxInt32 {
		return int(value)
	}

	value, err := number.Float64()
	if err != nil {
		return DaemonCodeUnknown
	}

	if value == 0 {
		return 0
	}

	if value == math.Trunc(value) && value >= math.MinInt32 && value <= math.MaxInt32 {
		return int(value)
	}

	return DaemonCodeUnknown
}

// IsSuccessStatus reports whether status is in the 2xx range.
func IsSuccessStatus(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// ClassifyResponse turns a completed HTTP exchange into nil (success) or one
// classified error. The rules are applied in order:
//
//  1. a JSON body with both code and description and a non-zero code is a
//     DaemonError, whatever the HTTP status (a null, string or fractional
//     code counts as non-zero and maps to DaemonCodeUnknown);
//  2. a non-2xx status whose body carries a description is a DaemonError
//     (code DaemonCodeUnknown when the body has no non-zero code);
//  3. any other non-2xx status is a ClientError with CodeRecvError;
//  4. everything else is a success and the body is left untouched.
func ClassifyResponse(status int, reason string, body []byte) error {
	probe, isObject := probeEnvelope(body)

	if isObject && probe.hasCode && probe.hasDescription && probe.code != 0 {
		return NewDaemonError(probe.description, probe.code)
	}

	if IsSuccessStatus(status) {
		return nil
	}

	if isObject && probe.hasDescription {
		code := probe.code
		if code == 0 {
			code = DaemonCodeUnknown
		}

		return NewDaemonError(probe.description, code)
	}

	if reason == "" {
		reason = http.StatusText(status)
	}

	return NewClientError(fmt.Sprintf("HTTP %d: %s", status, reason), CodeRecvError)
}

// ClassifyTransportError maps a failure that produced no response onto the
// taxonomy. Errors that are already classified are returned unchanged.
func ClassifyTransportError(err error) error {
	if err == nil {
		return nil
	}

	if IsClassified(err) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return WrapClientError(MessageRequestTimeout, CodeTimeout, err)
	}

	if errors.Is(err, context.Canceled) {
		return WrapClientError(MessageRequestCanceled, CodeRecvError, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return WrapClientError(MessageUnreachable, CodeUnreachable, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return WrapClientError(MessageUnreachable, CodeUnreachable, err)
	}

	return WrapClientError(MessageUnexpected, CodeRecvError, err)
}

// ReasonPhrase extracts the reason phrase from an http.Response Status line
// such as "404 Not Found".
func ReasonPhrase(status int, statusLine string) string {
	prefix := fmt.Sprintf("%d ", status)
	if strings.HasPrefix(statusLine, prefix) {
		return strings.TrimPrefix(statusLine, prefix)
	}

	return http.StatusText(status)
}
