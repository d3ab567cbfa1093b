package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gymdesk/internal/domain/finance"
	"gymdesk/internal/domain/machine"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/trainer"
)

// Store is the local copy of the gym's collections. Mutations update it
// before the server answers and roll back the collection when the server refuses.
// Concurrent mutations are not serialized per row; the last response wins.
type Store struct {
	mu       sync.Mutex
	state    State
	nextTemp int64

	backend  Backend
	notifier Notifier
	now      func() time.Time
}

// NewStore creates an empty store. A nil notifier logs failures instead.
func NewStore(backend Backend, notifier Notifier) *Store {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Store{backend: backend, notifier: notifier, now: time.Now}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	s.mu.Unlock()
}

// tempID returns a fresh negative id for a row the server has not confirmed.
func (s *Store) tempID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTemp--
	return s.nextTemp
}

// fail restores the given collections from snap and reports err.
func (s *Store) fail(op string, snap State, err error, kinds ...Kind) error {
	for _, k := range kinds {
		s.dispatch(Restored{Kind: k, Snapshot: snap})
	}
	s.notifier.Notify(Notice{Kind: kinds[0], Op: op, Message: err.Error(), At: s.now()})
	return fmt.Errorf("%s %s: %w", op, kinds[0], err)
}

// Load fetches all four collections concurrently and replaces the state.
// PRE: none
// POST: On success the state mirrors the server; on failure it is unchanged
func (s *Store) Load(ctx context.Context) error {
	var next State
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		next.Members, err = s.backend.ListMembers(ctx)
		return err
	})
	g.Go(func() (err error) {
		next.Trainers, err = s.backend.ListTrainers(ctx)
		return err
	})
	g.Go(func() (err error) {
		next.Machines, err = s.backend.ListMachines(ctx)
		return err
	})
	g.Go(func() (err error) {
		next.Finances, err = s.backend.ListFinances(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	s.dispatch(Loaded{State: next})
	slog.Debug("client_loaded", "members", len(next.Members), "finances", len(next.Finances))
	return nil
}

// --- Members ---

// AddMember registers m. A positive Amount also records the membership fee as
// an Income row linked to the member, created once the member has a server id.
// PRE: m.ID is zero
// POST: On success the member (and fee) carry server ids; on failure the members
// and finances collections are as before the call
func (s *Store) AddMember(ctx context.Context, m member.Member) (member.Member, error) {
	today := s.now()
	if m.StartDate == "" {
		m.StartDate = today.Format(member.DateLayout)
	}
	if err := m.FillExpiry(); err != nil {
		return member.Member{}, err
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}

	snap := s.State()
	temp := s.tempID()
	m.ID = temp
	m.Status = m.StatusOn(today)
	s.dispatch(Added{Item: m})

	var fee *finance.Finance
	if m.Amount.IsPositive() {
		link := temp
		fee = &finance.Finance{
			ID:          s.tempID(),
			Type:        finance.TypeIncome,
			Amount:      m.Amount,
			Date:        m.StartDate,
			Category:    finance.CategoryMembership,
			Description: "Membership fee: " + m.Name,
			MemberID:    &link,
		}
		s.dispatch(Added{Item: *fee})
	}

	id, err := s.backend.CreateMember(ctx, m)
	if err != nil {
		return member.Member{}, s.fail("add", snap, err, KindMembers, KindFinances)
	}
	s.dispatch(Reconciled{Kind: KindMembers, TempID: temp, ID: id})
	m.ID = id

	if fee != nil {
		feeTemp := fee.ID
		fee.MemberID = &id
		fid, err := s.backend.CreateFinance(ctx, *fee)
		if err != nil {
			// The member exists on the server; only the fee row is dropped.
			return m, s.fail("add", snap, err, KindFinances)
		}
		s.dispatch(Reconciled{Kind: KindFinances, TempID: feeTemp, ID: fid})
	}
	return m, nil
}

// UpdateMember replaces the member with m.ID.
func (s *Store) UpdateMember(ctx context.Context, m member.Member) error {
	if err := m.FillExpiry(); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	snap := s.State()
	m.Status = m.StatusOn(s.now())
	s.dispatch(Replaced{Item: m})
	if err := s.backend.UpdateMember(ctx, m); err != nil {
		return s.fail("update", snap, err, KindMembers)
	}
	return nil
}

// DeleteMember removes the member with id.
func (s *Store) DeleteMember(ctx context.Context, id int64) error {
	snap := s.State()
	s.dispatch(Removed{Kind: KindMembers, ID: id})
	if err := s.backend.DeleteMember(ctx, id); err != nil {
		return s.fail("delete", snap, err, KindMembers)
	}
	return nil
}

// --- Trainers ---

// AddTrainer registers t and returns it with its server id.
func (s *Store) AddTrainer(ctx context.Context, t trainer.Trainer) (trainer.Trainer, error) {
	if err := t.Validate(); err != nil {
		return trainer.Trainer{}, err
	}
	snap := s.State()
	temp := s.tempID()
	t.ID = temp
	s.dispatch(Added{Item: t})
	id, err := s.backend.CreateTrainer(ctx, t)
	if err != nil {
		return trainer.Trainer{}, s.fail("add", snap, err, KindTrainers)
	}
	s.dispatch(Reconciled{Kind: KindTrainers, TempID: temp, ID: id})
	t.ID = id
	return t, nil
}

func (s *Store) UpdateTrainer(ctx context.Context, t trainer.Trainer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	snap := s.State()
	s.dispatch(Replaced{Item: t})
	if err := s.backend.UpdateTrainer(ctx, t); err != nil {
		return s.fail("update", snap, err, KindTrainers)
	}
	return nil
}

// DeleteTrainer removes the trainer with id. The server refuses while members are assigned.
func (s *Store) DeleteTrainer(ctx context.Context, id int64) error {
	snap := s.State()
	s.dispatch(Removed{Kind: KindTrainers, ID: id})
	if err := s.backend.DeleteTrainer(ctx, id); err != nil {
		return s.fail("delete", snap, err, KindTrainers)
	}
	return nil
}

// --- Machines ---

func (s *Store) AddMachine(ctx context.Context, m machine.Machine) (machine.Machine, error) {
	if err := m.Validate(); err != nil {
		return machine.Machine{}, err
	}
	snap := s.State()
	temp := s.tempID()
	m.ID = temp
	s.dispatch(Added{Item: m})
	id, err := s.backend.CreateMachine(ctx, m)
	if err != nil {
		return machine.Machine{}, s.fail("add", snap, err, KindMachines)
	}
	s.dispatch(Reconciled{Kind: KindMachines, TempID: temp, ID: id})
	m.ID = id
	return m, nil
}

func (s *Store) UpdateMachine(ctx context.Context, m machine.Machine) error {
	if err := m.Validate(); err != nil {
		return err
	}
	snap := s.State()
	s.dispatch(Replaced{Item: m})
	if err := s.backend.UpdateMachine(ctx, m); err != nil {
		return s.fail("update", snap, err, KindMachines)
	}
	return nil
}

func (s *Store) DeleteMachine(ctx context.Context, id int64) error {
	snap := s.State()
	s.dispatch(Removed{Kind: KindMachines, ID: id})
	if err := s.backend.DeleteMachine(ctx, id); err != nil {
		return s.fail("delete", snap, err, KindMachines)
	}
	return nil
}

// --- Finances ---

// AddFinance records an income or expense row. An empty Date means today.
func (s *Store) AddFinance(ctx context.Context, f finance.Finance) (finance.Finance, error) {
	if f.Date == "" {
		f.Date = s.now().Format(member.DateLayout)
	}
	if err := f.Validate(); err != nil {
		return finance.Finance{}, err
	}
	snap := s.State()
	temp := s.tempID()
	f.ID = temp
	s.dispatch(Added{Item: f})
	id, err := s.backend.CreateFinance(ctx, f)
	if err != nil {
		return finance.Finance{}, s.fail("add", snap, err, KindFinances)
	}
	s.dispatch(Reconciled{Kind: KindFinances, TempID: temp, ID: id})
	f.ID = id
	return f, nil
}

func (s *Store) DeleteFinance(ctx context.Context, id int64) error {
	snap := s.State()
	s.dispatch(Removed{Kind: KindFinances, ID: id})
	if err := s.backend.DeleteFinance(ctx, id); err != nil {
		return s.fail("delete", snap, err, KindFinances)
	}
	return nil
}

// Reset wipes the server and clears the local state. Nothing is applied before the server confirms.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.backend.Reset(ctx); err != nil {
		s.notifier.Notify(Notice{Op: "reset", Message: err.Error(), At: s.now()})
		return fmt.Errorf("reset: %w", err)
	}
	s.dispatch(Loaded{})
	return nil
}
