package evidence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/records"
	"github.com/casetrail/casetrail/internal/shared"
)

var fixedNow = time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC)

type knownCases map[string]bool

func (k knownCases) Exists(_ context.Context, caseID string) bool { return k[caseID] }

type auditSpy struct{ logs []shared.AuditLog }

func (a *auditSpy) Record(_ context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func newService(t *testing.T) (*Service, *auditSpy) {
	t.Helper()
	spy := &auditSpy{}
	repo := records.MustCollection(SeedItems(fixedNow))
	svc := NewService(repo, knownCases{"CASE-2024-001": true}, spy).WithClock(func() time.Time { return fixedNow })
	return svc, spy
}

func TestCreateContinuesSequence(t *testing.T) {
	svc, spy := newService(t)
	ctx := shared.ContextWithIdentity(context.Background(), shared.Identity{UserID: "USR-002", Name: "SI Meera Nair"})

	item, err := svc.Create(ctx, CreateInput{CaseID: "CASE-2024-001", Name: " Receipt ", Type: TypeDocumentary, Location: "Evidence Room A"})
	require.NoError(t, err)
	assert.Equal(t, "EV-2024-011", item.ID)
	assert.Equal(t, "Receipt", item.Name)
	assert.Equal(t, StatusCollected, item.Status)
	assert.Equal(t, "SI Meera Nair", item.CollectedBy)
	assert.Len(t, item.Hash, 64)

	assert.Equal(t, item, svc.Records(ctx)[0])
	assert.Len(t, svc.ForCase(ctx, "CASE-2024-001"), 2)
	require.Len(t, spy.logs, 1)
	assert.Equal(t, shared.EntityEvidence, spy.logs[0].Entity)
}

func TestCreateValidation(t *testing.T) {
	svc, spy := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{CaseID: "CASE-2024-001", Type: TypeWeapon})
	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, httpx.RequiredFieldsMessage, verr.Message)
	assert.Equal(t, []string{"location", "name"}, verr.Fields)

	_, err = svc.Create(ctx, CreateInput{CaseID: "CASE-2024-999", Name: "x", Type: TypeWeapon, Location: "y"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{CaseID: "CASE-2024-001", Name: "x", Type: "Vehicle", Location: "y"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Empty(t, spy.logs)
}

func TestUpdateRecordsStatusChange(t *testing.T) {
	svc, spy := newService(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "EV-2024-007", UpdateInput{Name: "Mobile phone", Type: TypeDigital, Status: StatusInLab, Location: "Cyber Lab"})
	require.NoError(t, err)
	assert.Equal(t, StatusInLab, updated.Status)
	require.Len(t, spy.logs, 1)
	assert.Equal(t, "In Transit -> In Lab", spy.logs[0].Details)

	_, err = svc.Update(ctx, "EV-2024-404", UpdateInput{Name: "a", Type: TypeDigital, Status: StatusInLab, Location: "b"})
	assert.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.Update(ctx, "EV-2024-007", UpdateInput{Name: "a", Type: TypeDigital, Status: "Lost", Location: "b"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
