package proceedings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chancery-dms/chancery/internal/shared"
)

type memoryRepo struct {
	proceedings map[int64]Proceeding
	next        int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{proceedings: map[int64]Proceeding{}, next: 1}
}

func (m *memoryRepo) ListProceedings(_ context.Context, _ *int64, _ string) ([]Proceeding, error) {
	var out []Proceeding
	for _, p := range m.proceedings {
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryRepo) GetProceeding(_ context.Context, id int64) (Proceeding, error) {
	p, ok := m.proceedings[id]
	if !ok {
		return Proceeding{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memoryRepo) CreateProceeding(_ context.Context, p Proceeding) (Proceeding, error) {
	p.ID = m.next
	p.Status = StatusOpen
	m.next++
	m.proceedings[p.ID] = p
	return p, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id int64, status string) (Proceeding, error) {
	p, ok := m.proceedings[id]
	if !ok {
		return Proceeding{}, shared.ErrNotFound
	}
	p.Status = status
	m.proceedings[id] = p
	return p, nil
}

func (m *memoryRepo) AttachBox(_ context.Context, id, boxID int64) (Proceeding, error) {
	p, ok := m.proceedings[id]
	if !ok {
		return Proceeding{}, shared.ErrNotFound
	}
	p.BoxID = &boxID
	m.proceedings[id] = p
	return p, nil
}

func TestAttachBoxRequiresClosedProceeding(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.OpenProceeding(ctx, 7, "Land registry dispute")
	require.NoError(t, err)

	_, err = svc.AttachBox(ctx, p.ID, 42)
	require.ErrorIs(t, err, ErrClosed)
	require.Nil(t, repo.proceedings[p.ID].BoxID)

	_, err = svc.Transition(ctx, p.ID, StatusClosed)
	require.NoError(t, err)

	boxed, err := svc.AttachBox(ctx, p.ID, 42)
	require.NoError(t, err)
	require.Equal(t, StatusArchived, boxed.Status)
	require.Equal(t, int64(42), *repo.proceedings[p.ID].BoxID)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	p, err := svc.OpenProceeding(context.Background(), 7, "Audit file")
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), p.ID, "shredded")
	require.ErrorIs(t, err, ErrBadStatus)
}
