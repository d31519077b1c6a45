package llm

import (
	"encoding/json"
	"net/http"
)

// Normalized stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"

	// stopBlocked never reaches callers; adapters turn it into an
	// *ErrInvalidResponse.
	stopBlocked = "blocked"
)

// tokenBudget is the output cap sent to vendors that require one.
func tokenBudget(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return defaultCompletionTokens
}

// vendorRole picks the vendor's name for a chat role.
func vendorRole[T any](r Role, user, assistant T) T {
	if r == RoleAssistant {
		return assistant
	}
	return user
}

// vendorFailure is what an adapter could read off a failed API call.
type vendorFailure struct {
	status int
	quota  bool
}

// classify maps a failed vendor call to the package's error taxonomy.
// Anything unrecognised counts as the provider being unavailable, which
// the retry layer treats as transient.
func (f vendorFailure) classify(err error) error {
	switch {
	case f.quota, f.status == http.StatusPaymentRequired:
		return &ErrQuotaExceeded{Err: err}
	case f.status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// stopFrom looks reason up in a vendor's table; unknown reasons end normally.
func stopFrom[K comparable](reason K, table map[K]string) string {
	if s, ok := table[reason]; ok {
		return s
	}
	return StopEnd
}

// reply assembles the Response for raw model output, applying the schema
// checks of req.
func reply(req Request, raw json.RawMessage, stop, model string, usage Usage) (*Response, error) {
	content, err := structuredContent(req, raw, stop)
	if err != nil {
		return nil, err
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through so direct IDs keep working.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
