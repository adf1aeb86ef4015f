package ticket

import (
	"context"
	"sync"

	"wisefido-triage/internal/models"
)

// fakeStore is an in-memory Store for unit tests. Tickets are kept in creation order.
type fakeStore struct {
	mu          sync.Mutex
	tickets     []models.Ticket
	recentCalls int
	err         error
}

func newFakeStore(tokens ...models.Ticket) *fakeStore {
	return &fakeStore{tickets: tokens}
}

func (f *fakeStore) add(t models.Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets = append(f.tickets, t)
}

func (f *fakeStore) FindMostRecentTicket(ctx context.Context) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recentCalls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.tickets) == 0 {
		return nil, nil
	}
	t := f.tickets[len(f.tickets)-1]
	return &t, nil
}

func (f *fakeStore) FindTicketByToken(ctx context.Context, token string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tickets {
		if t.Token == token {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}
