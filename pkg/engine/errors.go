package engine

import "errors"

var (
	// ErrInvalidParameter reports a provider, prompt, temperature, token limit
	// or endpoint outside the accepted range. Raised before resolution.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMissingCredential reports that no API key was found in the
	// parameters, the config file or the environment.
	ErrMissingCredential = errors.New("missing credential")

	// ErrMissingEndpoint reports a provider without a default endpoint for
	// which none was supplied.
	ErrMissingEndpoint = errors.New("missing endpoint")

	// ErrNetworkFailure covers connection errors, timeouts and non-2xx statuses.
	ErrNetworkFailure = errors.New("network failure")

	// ErrUnexpectedResponseShape reports a response that did not carry the
	// generated text where the provider documents it.
	ErrUnexpectedResponseShape = errors.New("unexpected response shape")

	// ErrConfigNotFound is returned by LoadConfig when the file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigMalformed is returned by LoadConfig when the file cannot be parsed.
	ErrConfigMalformed = errors.New("config file malformed")
)

// IsPreflight reports whether err was raised before any request was attempted.
func IsPreflight(err error) bool {
	return errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrMissingEndpoint)
}
