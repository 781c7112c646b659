package steam

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// ValidationError is returned when the caller supplied neither a usable
// vanity name nor a steam id.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UpstreamLogicError means Steam answered the call but reported failure.
type UpstreamLogicError struct {
	Operation string
	Message   string
}

func (e *UpstreamLogicError) Error() string {
	return "Steam user lookup failed: " + e.Message
}

// InvalidUserError is returned when the owned games lookup fails in a way
// that signals a bad steam id.
type InvalidUserError struct {
	SteamID    SteamID
	StatusCode int
}

func (e *InvalidUserError) Error() string {
	return fmt.Sprintf("Steam user games lookup failed with status %d. User id may be invalid.", e.StatusCode)
}

// UpstreamTransportError describes a failed HTTP exchange with Steam. Params
// never carries the api key; see redactTransportError.
type UpstreamTransportError struct {
	Operation  string     `json:"operation"`
	StatusCode int        `json:"status,omitempty"`
	URL        string     `json:"url"`
	Params     url.Values `json:"params,omitempty"`
	Message    string     `json:"message"`

	// Unredacted is set when the key could not be blanked; Error then omits
	// the request entirely.
	Unredacted bool `json:"-"`
}

func (e *UpstreamTransportError) Error() string {
	if e.Unredacted {
		return e.Message + " (failed to redact api key)"
	}
	b, err := json.Marshal(e)
	if err != nil {
		return e.Message
	}
	return string(b)
}

// redactTransportError builds the error surfaced for a failed request. The
// request parameters must carry exactly the configured key, which is then
// blanked. Anything else is reported without parameters.
func redactTransportError(apiKey, operation, endpoint string, params url.Values, status int, message string) *UpstreamTransportError {
	terr := &UpstreamTransportError{
		Operation:  operation,
		StatusCode: status,
		URL:        endpoint,
		Message:    scrub(message, apiKey),
	}
	if params.Get(keyParam) != apiKey {
		terr.Unredacted = true
		return terr
	}
	redacted := make(url.Values, len(params))
	for k, v := range params {
		redacted[k] = append([]string(nil), v...)
	}
	redacted.Set(keyParam, "")
	terr.Params = redacted
	return terr
}
