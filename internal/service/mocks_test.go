package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/serraviva/backend/internal/domain"
	"github.com/serraviva/backend/internal/repo"
	"github.com/serraviva/backend/internal/service"
)

// ---- mock store ------------------------------------------------------------

// mockStore satisfies service.Store with a fixed repository set. InTx simply
// invokes fn — transactional semantics are covered by the repo integration
// tests, not here.
type mockStore struct {
	repos repo.Repos
}

func (m *mockStore) Repos() repo.Repos { return m.repos }

func (m *mockStore) InTx(_ context.Context, fn func(r repo.Repos) error) error {
	return fn(m.repos)
}

var _ service.Store = (*mockStore)(nil)

// ---- mock repos ------------------------------------------------------------
//
// Hand-written test doubles, one per repo interface. Unset funcs return zero
// values so each test only wires the calls it exercises.

type mockEventRepo struct {
	append  func(ctx context.Context, event domain.Event) (domain.Event, error)
	history func(ctx context.Context, subject domain.SubjectRef) ([]domain.Event, error)
}

func (m *mockEventRepo) Append(ctx context.Context, event domain.Event) (domain.Event, error) {
	if m.append == nil {
		event.ID = uuid.New()
		return event, nil
	}
	return m.append(ctx, event)
}

func (m *mockEventRepo) History(ctx context.Context, subject domain.SubjectRef) ([]domain.Event, error) {
	if m.history == nil {
		return nil, nil
	}
	return m.history(ctx, subject)
}

var _ repo.EventRepo = (*mockEventRepo)(nil)

type mockGroupRepo struct {
	create      func(ctx context.Context, group domain.ReservationGroup) (domain.ReservationGroup, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.ReservationGroup, error)
	setActive   func(ctx context.Context, id uuid.UUID, active bool) error
	linkReceipt func(ctx context.Context, id, receiptID uuid.UUID) error
}

func (m *mockGroupRepo) Create(ctx context.Context, group domain.ReservationGroup) (domain.ReservationGroup, error) {
	if m.create == nil {
		group.ID = uuid.New()
		group.Active = true
		return group, nil
	}
	return m.create(ctx, group)
}

func (m *mockGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ReservationGroup, error) {
	if m.getByID == nil {
		return domain.ReservationGroup{ID: id, Active: true}, nil
	}
	return m.getByID(ctx, id)
}

func (m *mockGroupRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if m.setActive == nil {
		return nil
	}
	return m.setActive(ctx, id, active)
}

func (m *mockGroupRepo) LinkReceipt(ctx context.Context, id, receiptID uuid.UUID) error {
	if m.linkReceipt == nil {
		return nil
	}
	return m.linkReceipt(ctx, id, receiptID)
}

var _ repo.GroupRepo = (*mockGroupRepo)(nil)

type mockReservationRepo struct {
	create              func(ctx context.Context, res domain.Reservation) (domain.Reservation, error)
	getByID             func(ctx context.Context, groupID, id uuid.UUID) (domain.Reservation, error)
	listByGroupID       func(ctx context.Context, groupID uuid.UUID) ([]domain.Reservation, error)
	deactivate          func(ctx context.Context, groupID, id uuid.UUID) error
	sumActivePriceCents func(ctx context.Context, groupID uuid.UUID) (int64, error)
}

func (m *mockReservationRepo) Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	if m.create == nil {
		res.ID = uuid.New()
		res.Active = true
		return res, nil
	}
	return m.create(ctx, res)
}

func (m *mockReservationRepo) GetByID(ctx context.Context, groupID, id uuid.UUID) (domain.Reservation, error) {
	if m.getByID == nil {
		return domain.Reservation{ID: id, GroupID: groupID, Active: true}, nil
	}
	return m.getByID(ctx, groupID, id)
}

func (m *mockReservationRepo) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.Reservation, error) {
	if m.listByGroupID == nil {
		return nil, nil
	}
	return m.listByGroupID(ctx, groupID)
}

func (m *mockReservationRepo) Deactivate(ctx context.Context, groupID, id uuid.UUID) error {
	if m.deactivate == nil {
		return nil
	}
	return m.deactivate(ctx, groupID, id)
}

func (m *mockReservationRepo) SumActivePriceCents(ctx context.Context, groupID uuid.UUID) (int64, error) {
	if m.sumActivePriceCents == nil {
		return 0, nil
	}
	return m.sumActivePriceCents(ctx, groupID)
}

var _ repo.ReservationRepo = (*mockReservationRepo)(nil)

type mockMemberRepo struct {
	create                  func(ctx context.Context, member domain.Member) (domain.Member, error)
	listByGroupID           func(ctx context.Context, groupID uuid.UUID) ([]domain.Member, error)
	deactivateByReservation func(ctx context.Context, reservationID uuid.UUID) error
}

func (m *mockMemberRepo) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	if m.create == nil {
		member.ID = uuid.New()
		member.Active = true
		return member, nil
	}
	return m.create(ctx, member)
}

func (m *mockMemberRepo) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.Member, error) {
	if m.listByGroupID == nil {
		return nil, nil
	}
	return m.listByGroupID(ctx, groupID)
}

func (m *mockMemberRepo) DeactivateByReservation(ctx context.Context, reservationID uuid.UUID) error {
	if m.deactivateByReservation == nil {
		return nil
	}
	return m.deactivateByReservation(ctx, reservationID)
}

var _ repo.MemberRepo = (*mockMemberRepo)(nil)

type mockReceiptRepo struct {
	create       func(ctx context.Context, receipt domain.Receipt) (domain.Receipt, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Receipt, error)
	listByUserID func(ctx context.Context, userID uuid.UUID) ([]domain.Receipt, error)
}

func (m *mockReceiptRepo) Create(ctx context.Context, receipt domain.Receipt) (domain.Receipt, error) {
	if m.create == nil {
		receipt.ID = uuid.New()
		return receipt, nil
	}
	return m.create(ctx, receipt)
}

func (m *mockReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Receipt, error) {
	if m.getByID == nil {
		return domain.Receipt{ID: id}, nil
	}
	return m.getByID(ctx, id)
}

func (m *mockReceiptRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Receipt, error) {
	if m.listByUserID == nil {
		return nil, nil
	}
	return m.listByUserID(ctx, userID)
}

var _ repo.ReceiptRepo = (*mockReceiptRepo)(nil)

type mockUserRepo struct {
	create      func(ctx context.Context, user domain.User) (domain.User, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.User, error)
	setVerified func(ctx context.Context, id uuid.UUID, verified bool) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if m.create == nil {
		user.ID = uuid.New()
		return user, nil
	}
	return m.create(ctx, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	if m.getByID == nil {
		return domain.User{ID: id}, nil
	}
	return m.getByID(ctx, id)
}

func (m *mockUserRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	if m.setVerified == nil {
		return nil
	}
	return m.setVerified(ctx, id, verified)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockExperienceRepo struct {
	create          func(ctx context.Context, exp domain.Experience) (domain.Experience, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Experience, error)
	findActiveByIDs func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Experience, error)
	list            func(ctx context.Context) ([]domain.Experience, error)
}

func (m *mockExperienceRepo) Create(ctx context.Context, exp domain.Experience) (domain.Experience, error) {
	if m.create == nil {
		exp.ID = uuid.New()
		return exp, nil
	}
	return m.create(ctx, exp)
}

func (m *mockExperienceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Experience, error) {
	if m.getByID == nil {
		return domain.Experience{ID: id, Active: true}, nil
	}
	return m.getByID(ctx, id)
}

func (m *mockExperienceRepo) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Experience, error) {
	if m.findActiveByIDs == nil {
		return map[uuid.UUID]domain.Experience{}, nil
	}
	return m.findActiveByIDs(ctx, ids)
}

func (m *mockExperienceRepo) List(ctx context.Context) ([]domain.Experience, error) {
	if m.list == nil {
		return nil, nil
	}
	return m.list(ctx)
}

var _ repo.ExperienceRepo = (*mockExperienceRepo)(nil)

// ---- mock mailer -----------------------------------------------------------

// sentMail records one Send call.
type sentMail struct {
	to       string
	subject  string
	template string
	data     map[string]string
}

type mockMailer struct {
	sent []sentMail
	err  error // returned from every Send when non-nil
}

func (m *mockMailer) Send(_ context.Context, to, subject, template string, data map[string]string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, template: template, data: data})
	return m.err
}

// ---- helpers ---------------------------------------------------------------

// newRepos returns a repository set where every mock uses its permissive
// defaults. Tests overwrite individual fields before building the store.
func newRepos() repo.Repos {
	return repo.Repos{
		Events:       &mockEventRepo{},
		Groups:       &mockGroupRepo{},
		Reservations: &mockReservationRepo{},
		Members:      &mockMemberRepo{},
		Receipts:     &mockReceiptRepo{},
		Users:        &mockUserRepo{},
		Experiences:  &mockExperienceRepo{},
	}
}
