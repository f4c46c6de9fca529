package types

// SuccessEnvelope wraps every successful API payload. Handlers never write a
// bare object; the counter app relies on the data key being present.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Message is the sanitized public text;
// Details is only populated for codes whose metadata allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
