package aggregate

import (
	"context"
	"time"

	"github.com/nathannncurtis/Study-Aggregator/internal/services"
)

// Response carries the outcome of one credential request. An empty Password
// with Cancelled false means "try without a password".
type Response struct {
	Password  string
	Cancelled bool
}

// Request is one outstanding credential prompt. Exactly one call to Respond
// or Cancel answers it.
type Request struct {
	Prompt   string
	response chan Response
}

// Respond supplies a password for the request.
func (r *Request) Respond(password string) {
	r.response <- Response{Password: password}
}

// Cancel declines the request; the affected archives are skipped.
func (r *Request) Cancel() {
	r.response <- Response{Cancelled: true}
}

// CredentialBroker hands credential requests from a running scan to whatever
// is driving it. Each request blocks the scan until answered or until the
// bounded wait expires.
type CredentialBroker struct {
	requests chan *Request
	wait     time.Duration
}

// NewCredentialBroker builds a broker with the given maximum wait per
// request.
func NewCredentialBroker(wait time.Duration) *CredentialBroker {
	if wait <= 0 {
		wait = 10 * time.Minute
	}
	return &CredentialBroker{
		requests: make(chan *Request, 1),
		wait:     wait,
	}
}

// Requests exposes the prompt channel for the scan's driver to service.
func (b *CredentialBroker) Requests() <-chan *Request {
	return b.requests
}

// request blocks until the driver answers, the wait expires, or ctx ends.
// The boolean is false when the driver cancelled.
func (b *CredentialBroker) request(ctx context.Context, prompt string) (string, bool, error) {
	req := &Request{
		Prompt:   prompt,
		response: make(chan Response, 1),
	}

	timer := time.NewTimer(b.wait)
	defer timer.Stop()

	select {
	case b.requests <- req:
	case <-timer.C:
		return "", false, services.Wrap(services.ErrTimeout, "credentials", "request", prompt, nil)
	case <-ctx.Done():
		return "", false, ctx.Err()
	}

	select {
	case resp := <-req.response:
		return resp.Password, !resp.Cancelled, nil
	case <-timer.C:
		return "", false, services.Wrap(services.ErrTimeout, "credentials", "await", prompt, nil)
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}
