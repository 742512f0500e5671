package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/cardbinder/cardbinder/pkg/errors"
	"github.com/cardbinder/cardbinder/pkg/logging"
)

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx statuses become APIErrors carrying the status code, so callers can
// distinguish a 404 (errors.IsNotFound) from provider unavailability.
func DecodeResponse(provider string, resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapAPI(provider, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &errors.APIError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", provider+" response", err)
	}

	return nil
}
