package requests_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/portal-imagenes/internal/application/requests"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu     sync.Mutex
	events []requests.Event
}

func (n *recordingNotifier) Publish(_ context.Context, ev requests.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) Events() []requests.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]requests.Event(nil), n.events...)
}

type fakeBlobs struct {
	fail  bool
	calls int
}

func (b *fakeBlobs) Upload(_ context.Context, folder, fileName, _ string, _ []byte) (string, error) {
	b.calls++
	if b.fail {
		return "", errors.New("host caído")
	}
	return "https://cdn.example.com/" + folder + "/" + fileName, nil
}

// fixedClock avanza un segundo en cada lectura.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := cur
		cur = cur.Add(time.Second)
		return t
	}
}

// lossyRepo pierde CompletedAt al completar, como un almacén mal migrado.
type lossyRepo struct {
	*memory.ImageRequestRepo
}

func (r lossyRepo) UpdateByID(ctx context.Context, id string, patch entity.ImageRequestPatch) (*entity.ImageRequest, error) {
	out, err := r.ImageRequestRepo.UpdateByID(ctx, id, patch)
	if out != nil {
		out.CompletedAt = nil
	}
	return out, err
}
