package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/products-api/internal/usecase"
	"github.com/DRSN-tech/products-api/internal/usecase/mocks"
	"github.com/DRSN-tech/products-api/pkg/logger"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestWorker(repo usecase.OutboxRepository, producer usecase.MessageProducer) *OutboxWorker {
	return NewOutboxWorker(repo, logger.NewSlogLogger(), producer, "")
}

func TestProcessBatch_EmptyOutbox(t *testing.T) {
	ctx := context.TODO()

	repo := new(mocks.MockOutboxRepository)
	repo.On("GetAndMarkAsProcessing", ctx, 10).Return([]*usecase.OutboxEvent{}, nil).Once()

	producer := new(mocks.MockMessageProducer)

	w := newTestWorker(repo, producer)

	hasMore, err := w.processBatch(ctx)
	require.NoError(t, err)
	require.False(t, hasMore)

	producer.AssertNotCalled(t, "WriteRawMessage", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestProcessBatch_DeliversAndMarksProcessed(t *testing.T) {
	ctx := context.TODO()

	events := []*usecase.OutboxEvent{
		{ID: 1, EventID: "e-1", EventType: usecase.ProductCreated, ProductID: 4, Payload: []byte(`{"id":4}`)},
		{ID: 2, EventID: "e-2", EventType: usecase.ProductDeleted, ProductID: 4, Payload: []byte(`{"id":4}`)},
	}

	repo := new(mocks.MockOutboxRepository)
	repo.On("GetAndMarkAsProcessing", ctx, 10).Return(events, nil).Once()
	repo.On("MarkAsProcessed", ctx, int64(1)).Return(nil).Once()
	repo.On("MarkAsProcessed", ctx, int64(2)).Return(nil).Once()

	producer := new(mocks.MockMessageProducer)
	producer.On("WriteRawMessage", ctx, usecase.NewWriteRawMessageReq(4, []byte(`{"id":4}`))).
		Return(nil).Twice()

	w := newTestWorker(repo, producer)

	hasMore, err := w.processBatch(ctx)
	require.NoError(t, err)
	require.True(t, hasMore)

	repo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestProcessBatch_FailedEventStaysUnprocessed(t *testing.T) {
	ctx := context.TODO()

	events := []*usecase.OutboxEvent{
		{ID: 1, EventID: "e-1", EventType: usecase.ProductUpdated, ProductID: 7, Payload: []byte(`{"id":7}`)},
	}

	repo := new(mocks.MockOutboxRepository)
	repo.On("GetAndMarkAsProcessing", ctx, 10).Return(events, nil).Once()

	producer := new(mocks.MockMessageProducer)
	producer.On("WriteRawMessage", ctx, mock.Anything).
		Return(errors.New("broker not available")).Once()

	w := newTestWorker(repo, producer)

	hasMore, err := w.processBatch(ctx)
	require.NoError(t, err)
	require.True(t, hasMore)

	// Недоставленное событие не помечается обработанным и будет забрано повторно.
	repo.AssertNotCalled(t, "MarkAsProcessed", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestProcessBatch_RepoError(t *testing.T) {
	ctx := context.TODO()

	repo := new(mocks.MockOutboxRepository)
	repo.On("GetAndMarkAsProcessing", ctx, 10).Return(nil, errors.New("connection refused")).Once()

	w := newTestWorker(repo, new(mocks.MockMessageProducer))

	hasMore, err := w.processBatch(ctx)
	require.Error(t, err)
	require.False(t, hasMore)
}

func TestConnectWithRetry_RetriesUntilSuccess(t *testing.T) {
	w := newTestWorker(new(mocks.MockOutboxRepository), new(mocks.MockMessageProducer))

	attempts := 0
	err := w.connectWithRetry(context.Background(), time.Millisecond, 5*time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestConnectWithRetry_AbortsOnContextCancel(t *testing.T) {
	w := newTestWorker(new(mocks.MockOutboxRepository), new(mocks.MockMessageProducer))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.connectWithRetry(ctx, time.Millisecond, 5*time.Millisecond, func() error {
		return errors.New("connection refused")
	})

	require.Error(t, err)
}

func TestConnectWithRetry_AbortsOnWorkerStop(t *testing.T) {
	w := newTestWorker(new(mocks.MockOutboxRepository), new(mocks.MockMessageProducer))
	close(w.stop)

	err := w.connectWithRetry(context.Background(), time.Millisecond, 5*time.Millisecond, func() error {
		return errors.New("connection refused")
	})

	require.Error(t, err)
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		err       error
		retryable bool
	}{
		{nil, false},
		{errors.New("dial tcp 127.0.0.1:9092: connection refused"), true},
		{errors.New("read tcp: i/o timeout"), true},
		{errors.New("Broker Not Available"), true},
		{errors.New("write: broken pipe"), true},
		{errors.New("invalid message format"), false},
		{errors.New("message too large"), false},
	}

	for _, tc := range cases {
		got := isRetryableError(tc.err)
		require.Equal(t, tc.retryable, got, "err %v", tc.err)
	}
}
