package pgdb

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/products-api/internal/usecase"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// fakeOutboxRows эмулирует выборку из outbox_events с заданным числом строк
// и ошибками чтения.
type fakeOutboxRows struct {
	rowCount int
	scanErr  error
	iterErr  error
	idx      int
	closed   bool
}

func (f *fakeOutboxRows) Close()                                       { f.closed = true }
func (f *fakeOutboxRows) Err() error                                   { return f.iterErr }
func (f *fakeOutboxRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeOutboxRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (f *fakeOutboxRows) Values() ([]any, error)                       { return nil, nil }
func (f *fakeOutboxRows) RawValues() [][]byte                          { return nil }
func (f *fakeOutboxRows) Conn() *pgx.Conn                              { return nil }

func (f *fakeOutboxRows) Next() bool {
	f.idx++
	return f.idx <= f.rowCount
}

func (f *fakeOutboxRows) Scan(dest ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}

	*dest[0].(*int64) = int64(f.idx)
	*dest[1].(*string) = "e-1"
	*dest[2].(*usecase.OutboxEventType) = usecase.ProductCreated
	*dest[3].(*int64) = 4
	*dest[4].(*[]byte) = []byte(`{"id":4}`)
	*dest[5].(*usecase.OutboxStatus) = usecase.Processing
	*dest[6].(*time.Time) = time.Now()
	return nil
}

func TestScanOutboxEvents_ReadsAllRows(t *testing.T) {
	rows := &fakeOutboxRows{rowCount: 2}

	models, err := scanOutboxEvents(rows)
	require.NoError(t, err)
	require.Len(t, models, 2)
	require.Equal(t, int64(1), models[0].ID)
	require.Equal(t, int64(2), models[1].ID)
	require.Equal(t, usecase.Processing, models[0].Status)
}

func TestScanOutboxEvents_ScanErrorPropagates(t *testing.T) {
	rows := &fakeOutboxRows{rowCount: 1, scanErr: errors.New("cannot scan NULL into int64")}

	models, err := scanOutboxEvents(rows)
	require.Error(t, err)
	require.Nil(t, models)
}

func TestScanOutboxEvents_IteratorErrorPropagates(t *testing.T) {
	rows := &fakeOutboxRows{rowCount: 0, iterErr: errors.New("connection reset")}

	models, err := scanOutboxEvents(rows)
	require.Error(t, err)
	require.Nil(t, models)
}
