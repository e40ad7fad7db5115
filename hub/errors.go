package hub

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/providers"
)

func hubError(status int, message, apiURL string) error {
	err := core.ErrHubAPI
	if status >= 400 {
		err = fmt.Errorf("%w: %w", core.ErrHubAPI, providers.SentinelForStatus(status))
	}
	return &core.ProviderError{
		Provider: "hub",
		Status:   status,
		Method:   http.MethodGet,
		URL:      apiURL,
		Message:  message,
		Err:      err,
	}
}

func hubMessage(status int, body []byte) string {
	if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String && msg.Str != "" {
		return msg.Str
	}
	return fmt.Sprintf("Hub API returned %d %s", status, http.StatusText(status))
}
