package authapi

import (
	"context"
	"fmt"
	"net/http"
)

// Confirmer submits a confirmation token to the authentication service.
// Implementations resolve every call to a Result and never panic or
// return an error to the caller.
type Confirmer interface {
	Confirm(ctx context.Context, token string) Result
}

type Outcome uint8

const (
	// Confirmed: the service activated the account (201 Created).
	Confirmed Outcome = iota + 1
	// Rejected: the service answered with any other status.
	Rejected
	// TransportFailure: no response was received at all.
	TransportFailure
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Rejected:
		return "rejected"
	case TransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Result is the tagged outcome of one confirmation attempt. Status is set
// for Confirmed and Rejected, Err only for TransportFailure.
type Result struct {
	Outcome Outcome
	Status  int
	Err     error
}

// ResultFromStatus classifies a status code received from the service.
func ResultFromStatus(status int) Result {
	if status == http.StatusCreated {
		return Result{Outcome: Confirmed, Status: status}
	}
	return Result{Outcome: Rejected, Status: status}
}

func Failure(err error) Result {
	return Result{Outcome: TransportFailure, Err: err}
}

func (r Result) String() string {
	switch r.Outcome {
	case TransportFailure:
		return fmt.Sprintf("%s: %v", r.Outcome, r.Err)
	default:
		return fmt.Sprintf("%s (%d)", r.Outcome, r.Status)
	}
}
