// internal/common/camunda/client_test.go
package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"data-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxRetries: 4, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(), "op", logger.NewTestLogger(t), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_PermanentErrorStopsEarly(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(), "op", logger.NewTestLogger(t), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("permission denied")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(), "op", logger.NewNoOpLogger(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("context deadline exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := RetryConfig{MaxRetries: 5, BaseDelay: time.Second}
	err := Retry(ctx, cfg, "op", logger.NewNoOpLogger(), func(ctx context.Context) error {
		return fmt.Errorf("unavailable")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeVariables(t *testing.T) {
	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Variables: `{"datasetId":"ds-1"}`}}

	var in struct {
		DatasetID string `json:"datasetId"`
	}
	require.NoError(t, DecodeVariables(job, &in))
	assert.Equal(t, "ds-1", in.DatasetID)

	bad := entities.Job{ActivatedJob: &pb.ActivatedJob{Variables: `{`}}
	assert.Error(t, DecodeVariables(bad, &in))
}
