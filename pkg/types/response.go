package types

type SuccessEnvelope struct {
	Data     any       `json:"data"`
	Warnings []Warning `json:"warnings,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Warning surfaces a non-fatal condition alongside a successful response,
// such as a quantity that was clamped to its bounds.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning codes emitted by quantity clamping.
const (
	WarningBelowMinimum = "below_minimum"
	WarningAboveMaximum = "above_maximum"
)
