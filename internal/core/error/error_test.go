package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestWrapRedis(t *testing.T) {
	require.NoError(t, WrapRedis(nil))

	err := WrapRedis(redis.Nil)
	require.Equal(t, http.StatusNotFound, StatusOf(err))
	require.ErrorIs(t, err, redis.Nil)

	err = WrapRedis(errors.New("connection refused"))
	require.Equal(t, http.StatusBadGateway, StatusOf(err))
	require.Contains(t, err.Error(), RedisErrorMessage)
}

func TestWrapUpstream(t *testing.T) {
	require.NoError(t, WrapUpstream(nil))

	statusErr := &UpstreamStatusError{StatusCode: http.StatusTooManyRequests, URL: "http://x", Body: "slow down"}
	err := WrapUpstream(fmt.Errorf("search: %w", statusErr))
	require.Equal(t, http.StatusTooManyRequests, StatusOf(err))

	var got *UpstreamStatusError
	require.ErrorAs(t, err, &got)
	require.Equal(t, "slow down", got.Body)

	err = WrapUpstream(fmt.Errorf("do: %w", context.DeadlineExceeded))
	require.Equal(t, http.StatusGatewayTimeout, StatusOf(err))

	err = WrapUpstream(errors.New("dial tcp: refused"))
	require.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestStatusOf_NoAppError(t *testing.T) {
	require.Zero(t, StatusOf(errors.New("plain")))
	require.Zero(t, StatusOf(nil))
}
