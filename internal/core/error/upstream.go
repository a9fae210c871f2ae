package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// UpstreamStatusError captures non-2xx marketplace responses.
type UpstreamStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// WrapUpstream maps transport failures of the marketplace API to AppError.
// Deadline overruns become 504, non-2xx responses keep their own status and
// everything else is reported as 502.
func WrapUpstream(err error) error {
	if err == nil {
		return nil
	}

	var statusErr *UpstreamStatusError
	switch {
	case errors.As(err, &statusErr):
		return New(err, statusErr.StatusCode, UpstreamErrorMessage)
	case errors.Is(err, context.DeadlineExceeded):
		return New(err, http.StatusGatewayTimeout, UpstreamErrorMessage)
	default:
		return New(err, http.StatusBadGateway, UpstreamErrorMessage)
	}
}

// WrapDecode marks err as a malformed upstream payload.
func WrapDecode(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, UpstreamDecodeMessage)
}
