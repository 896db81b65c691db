package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"time"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	copy := cloneUser(u)
	if copy.ID == 0 {
		copy.ID = r.nextID
		r.nextID++
	} else if copy.ID >= r.nextID {
		r.nextID = copy.ID + 1
	}
	r.users[copy.ID] = copy
	return cloneUser(copy)
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	return r.add(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByNationalID(_ context.Context, nationalID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.NationalID != "" && u.NationalID == nationalID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByTaxNumber(_ context.Context, taxNumber string) (*domain.User, error) {
	for _, u := range r.users {
		if u.TaxNumber != "" && u.TaxNumber == taxNumber {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) ListClients(_ context.Context, filter ports.ClientFilter) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if !u.Role.IsClient() {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) CountClients(_ context.Context) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role.IsClient() {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) ListStaff(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.Role.IsStaff() {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubCaseRepo struct {
	cases  map[int64]*domain.Case
	events []domain.TimelineEvent
	nextID int64
}

func newStubCaseRepo() *stubCaseRepo {
	return &stubCaseRepo{cases: make(map[int64]*domain.Case), nextID: 1}
}

func cloneCase(c *domain.Case) *domain.Case {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Stages = append([]domain.Stage(nil), c.Stages...)
	return &clone
}

func (r *stubCaseRepo) Create(_ context.Context, c *domain.Case) (*domain.Case, error) {
	copy := cloneCase(c)
	copy.ID = r.nextID
	r.nextID++
	r.cases[copy.ID] = copy
	return cloneCase(copy), nil
}

func (r *stubCaseRepo) FindByID(_ context.Context, id int64) (*domain.Case, error) {
	if c, ok := r.cases[id]; ok {
		return cloneCase(c), nil
	}
	return nil, domain.ErrCaseNotFound
}

func (r *stubCaseRepo) FindByCaseNumber(_ context.Context, caseNumber string) (*domain.Case, error) {
	for _, c := range r.cases {
		if c.CaseNumber == caseNumber {
			return cloneCase(c), nil
		}
	}
	return nil, domain.ErrCaseNotFound
}

func (r *stubCaseRepo) Update(_ context.Context, c *domain.Case) error {
	if _, ok := r.cases[c.ID]; !ok {
		return domain.ErrCaseNotFound
	}
	r.cases[c.ID] = cloneCase(c)
	return nil
}

func (r *stubCaseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.cases[id]; !ok {
		return domain.ErrCaseNotFound
	}
	delete(r.cases, id)
	return nil
}

func (r *stubCaseRepo) List(_ context.Context, filter ports.CaseFilter) ([]domain.Case, int64, error) {
	var out []domain.Case
	for _, c := range r.cases {
		if filter.ClientID != 0 && c.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		out = append(out, *cloneCase(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubCaseRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.cases)), nil
}

func (r *stubCaseRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, c := range r.cases {
		if c.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (r *stubCaseRepo) ListTimeline(_ context.Context, caseID int64) ([]domain.TimelineEvent, error) {
	var out []domain.TimelineEvent
	for _, ev := range r.events {
		if ev.CaseID == caseID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *stubCaseRepo) AddTimelineEvent(_ context.Context, ev *domain.TimelineEvent) (*domain.TimelineEvent, error) {
	copy := *ev
	copy.ID = int64(len(r.events) + 1)
	r.events = append(r.events, copy)
	return &copy, nil
}

type stubDocumentRepo struct {
	docs   map[int64]*domain.Document
	nextID int64
}

func newStubDocumentRepo() *stubDocumentRepo {
	return &stubDocumentRepo{docs: make(map[int64]*domain.Document), nextID: 1}
}

func (r *stubDocumentRepo) Create(_ context.Context, d *domain.Document) (*domain.Document, error) {
	copy := *d
	copy.ID = r.nextID
	r.nextID++
	r.docs[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubDocumentRepo) FindByID(_ context.Context, id int64) (*domain.Document, error) {
	if d, ok := r.docs[id]; ok {
		copy := *d
		return &copy, nil
	}
	return nil, domain.ErrDocumentNotFound
}

func (r *stubDocumentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.docs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *stubDocumentRepo) List(_ context.Context, filter ports.DocumentFilter, ownerID int64) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range r.docs {
		if filter.CaseID != 0 && d.CaseID != filter.CaseID {
			continue
		}
		if filter.Type != "" && d.Type != filter.Type {
			continue
		}
		// Mirrors the repository rule: clients see a document, own uploads
		// included, only when it is marked client-visible.
		if ownerID != 0 && (d.UploaderID != ownerID || !d.VisibleToClient) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubDocumentRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.docs)), nil
}

type stubPaymentRepo struct {
	payments map[int64]*domain.Payment
	nextID   int64
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[int64]*domain.Payment), nextID: 1}
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	copy := *p
	copy.ID = r.nextID
	r.nextID++
	r.payments[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id int64) (*domain.Payment, error) {
	if p, ok := r.payments[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *stubPaymentRepo) Update(_ context.Context, p *domain.Payment) error {
	if _, ok := r.payments[p.ID]; !ok {
		return domain.ErrPaymentNotFound
	}
	copy := *p
	r.payments[p.ID] = &copy
	return nil
}

func (r *stubPaymentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.payments[id]; !ok {
		return domain.ErrPaymentNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *stubPaymentRepo) List(_ context.Context, filter ports.PaymentFilter) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range r.payments {
		if filter.ClientID != 0 && p.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubPaymentRepo) CountPending(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.payments {
		if p.Status == domain.PaymentPending {
			n++
		}
	}
	return n, nil
}

type stubNotificationRepo struct {
	notifications map[int64]*domain.Notification
	nextID        int64
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{notifications: make(map[int64]*domain.Notification), nextID: 1}
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	copy := *n
	copy.ID = r.nextID
	r.nextID++
	r.notifications[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubNotificationRepo) FindOwned(_ context.Context, id, userID int64) (*domain.Notification, error) {
	if n, ok := r.notifications[id]; ok && n.UserID == userID {
		copy := *n
		return &copy, nil
	}
	return nil, domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID int64, unreadOnly bool, skip, limit int64) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if skip > 0 {
		if skip >= int64(len(out)) {
			return nil, nil
		}
		out = out[skip:]
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, notif := range r.notifications {
		if notif.UserID == userID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id, userID int64) error {
	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotificationNotFound
	}
	now := time.Now().UTC()
	n.IsRead = true
	n.ReadAt = &now
	return nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID int64) error {
	now := time.Now().UTC()
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

// stubNotifier records queued deliveries synchronously.
type stubNotifier struct {
	direct []ports.NotificationInput
	staff  []ports.NotificationInput
}

func (n *stubNotifier) Notify(input ports.NotificationInput) {
	n.direct = append(n.direct, input)
}

func (n *stubNotifier) NotifyStaff(_ context.Context, input ports.NotificationInput) {
	n.staff = append(n.staff, input)
}

type stubDenylist struct {
	revoked map[string]bool
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]bool)}
}

func (d *stubDenylist) Revoke(_ context.Context, token string, _ time.Duration) error {
	d.revoked[token] = true
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	return d.revoked[token], nil
}

type stubFileStore struct {
	files map[string][]byte
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{files: make(map[string][]byte)}
}

func (s *stubFileStore) Save(_ context.Context, storedName string, content []byte) error {
	s.files[storedName] = append([]byte(nil), content...)
	return nil
}

func (s *stubFileStore) Open(_ context.Context, storedName string) (io.ReadCloser, error) {
	content, ok := s.files[storedName]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *stubFileStore) Remove(_ context.Context, storedName string) error {
	delete(s.files, storedName)
	return nil
}

type stubAuditRecorder struct {
	entries []ports.AuditInput
}

func (a *stubAuditRecorder) Record(_ context.Context, _ ports.Actor, input ports.AuditInput) {
	a.entries = append(a.entries, input)
}
