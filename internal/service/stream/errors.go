package stream

import "github.com/pkg/errors"

var (
	// ErrTransport covers dial failures, non-200 answers, wrong content types and broken reads.
	ErrTransport = errors.New("transport failure")
	// ErrApplication is an explicit error event sent by the answer service.
	ErrApplication = errors.New("answer service error")
	// ErrMalformedEvent is a token payload that does not decode as {"content": string}.
	ErrMalformedEvent = errors.New("malformed stream event")
	// ErrPrematureClose is a stream that ended without a done event.
	ErrPrematureClose = errors.New("stream closed before done")
)
