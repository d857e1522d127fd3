package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrail/casetrail/internal/listview"
	"github.com/casetrail/casetrail/jobs"
)

type stubQueue struct {
	transfers []jobs.TransferNoticePayload
	reports   []jobs.ReportNoticePayload
	closed    bool
}

func (s *stubQueue) EnqueueTransferNotice(_ context.Context, p jobs.TransferNoticePayload) (*asynq.TaskInfo, error) {
	s.transfers = append(s.transfers, p)
	return &asynq.TaskInfo{ID: "notice-1", Queue: jobs.QueueDefault, Type: jobs.TaskNotifyTransfer}, nil
}

func (s *stubQueue) EnqueueReportNotice(_ context.Context, p jobs.ReportNoticePayload) (*asynq.TaskInfo, error) {
	s.reports = append(s.reports, p)
	return &asynq.TaskInfo{ID: "notice-2", Queue: jobs.QueueDefault, Type: jobs.TaskNotifyReport}, nil
}

type stubInspector struct{}

func (stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return &asynq.QueueInfo{Queue: queue, Pending: 2, Retry: 1}, nil
}

func run(t *testing.T, queue *stubQueue, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(Options{
		Out: &out,
		Now: func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) },
		Connect: func(string) (Queue, error) {
			if queue == nil {
				return Queue{}, errors.New("no queue")
			}
			return Queue{Client: queue, Inspector: stubInspector{}, Close: func() error { queue.closed = true; return nil }}, nil
		},
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListFiltersTransfers(t *testing.T) {
	out, err := run(t, nil, "list", "transfers", "--filter", "status=Completed", "--json")
	require.NoError(t, err)

	var table Table
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Equal(t, "transfers", table.Page)
	assert.Equal(t, map[string]string{"status": "Completed"}, table.Filters)
	assert.Equal(t, 3, table.Pagination.Total)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "TRF-2024-004", table.Rows[0][0])
}

func TestListRendersTable(t *testing.T) {
	out, err := run(t, nil, "list", "transfers", "--search", "laptop")
	require.NoError(t, err)
	assert.Contains(t, out, "TRF-2024-006")
	assert.NotContains(t, out, "TRF-2024-005")
	assert.Contains(t, out, "1-1 of 1")
}

func TestListEmptyResult(t *testing.T) {
	out, err := run(t, nil, "list", "reports", "--search", "no-such-report")
	require.NoError(t, err)
	assert.Contains(t, out, "no reports match")
}

func TestListRejectsBadInput(t *testing.T) {
	_, err := run(t, nil, "list", "vehicles")
	assert.ErrorContains(t, err, "unknown page")

	_, err = run(t, nil, "list", "cases", "--page-size", "7")
	assert.Error(t, err)

	_, err = run(t, nil, "list", "cases", "--filter", "colour=red")
	assert.Error(t, err)

	_, err = run(t, nil, "list", "cases", "--filter", "status")
	assert.ErrorContains(t, err, "name=value")
}

func TestListClampsPage(t *testing.T) {
	out, err := run(t, nil, "list", "transfers", "--page-size", "5", "--page", "9", "--json")
	require.NoError(t, err)
	var table Table
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Equal(t, 2, table.Pagination.Page)
	assert.Len(t, table.Rows, 1)
}

func TestWindow(t *testing.T) {
	out, err := run(t, nil, "window", "--current", "5", "--total", "10", "--json")
	require.NoError(t, err)
	var items []listview.PageItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, listview.PageWindow(5, 10), items)
}

func TestJobsTrigger(t *testing.T) {
	queue := &stubQueue{}
	out, err := run(t, queue, "jobs", "trigger", jobs.TaskNotifyTransfer, "TRF-2024-005")
	require.NoError(t, err)
	assert.Contains(t, out, "enqueued notify:transfer notice-1")
	require.Len(t, queue.transfers, 1)
	assert.Equal(t, "CASE-2024-011", queue.transfers[0].CaseID)
	assert.Equal(t, "casectl", queue.transfers[0].Actor)
	assert.True(t, queue.closed)

	_, err = run(t, queue, "jobs", "trigger", jobs.TaskNotifyReport, "RPT-2024-008")
	require.NoError(t, err)
	require.Len(t, queue.reports, 1)
	assert.Equal(t, "Dr. Anil Menon", queue.reports[0].Analyst)

	_, err = run(t, queue, "jobs", "trigger", "notify:fax", "TRF-2024-005")
	assert.ErrorContains(t, err, "unsupported job")

	_, err = run(t, queue, "jobs", "trigger", jobs.TaskNotifyTransfer, "TRF-1999-001")
	assert.Error(t, err)
}

func TestJobsInspect(t *testing.T) {
	out, err := run(t, &stubQueue{}, "jobs", "inspect", "--json")
	require.NoError(t, err)
	var stats jobs.QueueStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, jobs.QueueStats{Queue: jobs.QueueDefault, Pending: 2, Retry: 1}, stats)
}

func TestJobsNeedQueue(t *testing.T) {
	_, err := run(t, nil, "jobs", "inspect")
	assert.ErrorContains(t, err, "no queue")
}
