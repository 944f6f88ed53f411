package api

import "errors"

var (
	// ErrNetwork is returned when the request never produced a server
	// response (connectivity, timeout, bad endpoint).
	ErrNetwork = errors.New("api client: network error")

	// ErrAuth is returned on 401: the credential is missing, expired or
	// rejected. Callers clear the session and send the user back to login.
	ErrAuth = errors.New("api client: authentication required")

	// ErrServer is returned for any other non-2xx response, wrapped with the
	// server's message when the body carries one.
	ErrServer = errors.New("api client: server error")

	// ErrOrderRejected is returned when /create-order answers without
	// success:true and a populated order. Terminal for the attempt.
	ErrOrderRejected = errors.New("api client: payment order rejected")

	// ErrVerificationRejected is returned when /verify-payment answers
	// without success:true.
	ErrVerificationRejected = errors.New("api client: payment verification rejected")
)
