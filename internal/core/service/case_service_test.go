package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

var (
	staffActor  = ports.Actor{UserID: 1, Role: domain.RoleLawyer, FullName: "Av. Mehmet Koptay"}
	adminActor  = ports.Actor{UserID: 2, Role: domain.RoleAdmin, FullName: "Admin"}
	clientActor = ports.Actor{UserID: 10, Role: domain.RoleIndividual, FullName: "Ayşe Yılmaz"}
	otherClient = ports.Actor{UserID: 11, Role: domain.RoleCorporate, FullName: "Başka Ltd."}
)

func newCaseFixture() (*CaseService, *stubCaseRepo, *stubUserRepo, *stubNotifier) {
	cases := newStubCaseRepo()
	users := newStubUserRepo()
	notifier := &stubNotifier{}
	users.add(&domain.User{ID: 1, Email: "lawyer@koptay.av.tr", Role: domain.RoleLawyer, IsActive: true})
	users.add(&domain.User{ID: 10, Email: "ayse@example.com", Role: domain.RoleIndividual, IsActive: true})
	svc := NewCaseService(cases, users, notifier, &stubAuditRecorder{}, zerolog.Nop())
	return svc, cases, users, notifier
}

func TestCaseService_Create_ByStaff(t *testing.T) {
	svc, _, _, notifier := newCaseFixture()

	created, err := svc.Create(context.Background(), staffActor, ports.CreateCaseInput{
		CaseNumber: "2026/101",
		Title:      "Alacak Davası",
		Type:       domain.CaseCivil,
		ClientID:   10,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ClientID != 10 {
		t.Fatalf("expected client 10, got %d", created.ClientID)
	}
	if created.Status != domain.CasePending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if len(created.Stages) != 5 {
		t.Fatalf("expected 5 default stages, got %d", len(created.Stages))
	}
	if created.Stages[0].Title != "Dava Açılışı" {
		t.Fatalf("expected civil pipeline, got first stage %q", created.Stages[0].Title)
	}
	if len(notifier.direct) != 1 || notifier.direct[0].UserID != 10 {
		t.Fatalf("expected one client notification, got %+v", notifier.direct)
	}
	if len(notifier.staff) != 0 {
		t.Fatalf("staff-created case should not notify staff, got %+v", notifier.staff)
	}
}

func TestCaseService_Create_CriminalPipeline(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	created, err := svc.Create(context.Background(), staffActor, ports.CreateCaseInput{
		CaseNumber: "2026/102",
		Title:      "Ceza Dosyası",
		Type:       domain.CaseCriminal,
		ClientID:   10,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Stages[0].Title != "Soruşturma" {
		t.Fatalf("expected criminal pipeline, got first stage %q", created.Stages[0].Title)
	}
	if created.Stages[1].Status != domain.StageCurrent {
		t.Fatalf("expected second stage current, got %s", created.Stages[1].Status)
	}
}

func TestCaseService_Create_ByClient(t *testing.T) {
	svc, _, _, notifier := newCaseFixture()

	created, err := svc.Create(context.Background(), clientActor, ports.CreateCaseInput{
		CaseNumber: "2026/103",
		Title:      "İş Davası",
		Type:       domain.CaseLabor,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ClientID != clientActor.UserID {
		t.Fatalf("client-created case must belong to the client, got %d", created.ClientID)
	}
	if len(notifier.staff) != 1 {
		t.Fatalf("expected staff to be notified of client filing, got %+v", notifier.staff)
	}
}

func TestCaseService_Create_DuplicateNumber(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	input := ports.CreateCaseInput{CaseNumber: "2026/104", Title: "Dosya", Type: domain.CaseCivil, ClientID: 10}
	if _, err := svc.Create(context.Background(), staffActor, input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), staffActor, input); !errors.Is(err, domain.ErrDuplicateCaseNumber) {
		t.Fatalf("expected ErrDuplicateCaseNumber, got %v", err)
	}
}

func TestCaseService_Get_Ownership(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	created, err := svc.Create(context.Background(), staffActor, ports.CreateCaseInput{
		CaseNumber: "2026/105", Title: "Dosya", Type: domain.CaseCivil, ClientID: 10,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Get(context.Background(), clientActor, created.ID); err != nil {
		t.Fatalf("owner should read own case: %v", err)
	}
	if _, err := svc.Get(context.Background(), otherClient, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other client, got %v", err)
	}
	if _, err := svc.Get(context.Background(), staffActor, created.ID); err != nil {
		t.Fatalf("staff should read any case: %v", err)
	}
}

func TestCaseService_List_ClientScoped(t *testing.T) {
	svc, _, users, _ := newCaseFixture()
	users.add(&domain.User{ID: 11, Email: "firma@example.com", Role: domain.RoleCorporate, IsActive: true})

	for _, in := range []ports.CreateCaseInput{
		{CaseNumber: "2026/110", Title: "A", Type: domain.CaseCivil, ClientID: 10},
		{CaseNumber: "2026/111", Title: "B", Type: domain.CaseCivil, ClientID: 11},
	} {
		if _, err := svc.Create(context.Background(), staffActor, in); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	own, total, err := svc.List(context.Background(), clientActor, ports.CaseFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 || len(own) != 1 || own[0].ClientID != clientActor.UserID {
		t.Fatalf("client must see only own cases, got %d (total %d)", len(own), total)
	}

	all, total, err := svc.List(context.Background(), staffActor, ports.CaseFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("staff must see all cases, got %d (total %d)", len(all), total)
	}
}

func TestCaseService_Update(t *testing.T) {
	svc, _, _, notifier := newCaseFixture()

	created, err := svc.Create(context.Background(), staffActor, ports.CreateCaseInput{
		CaseNumber: "2026/120", Title: "Dosya", Type: domain.CaseCivil, ClientID: 10,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	notifier.direct = nil

	if _, err := svc.Update(context.Background(), clientActor, created.ID, ports.UpdateCaseInput{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("client update: expected ErrForbidden, got %v", err)
	}

	status := domain.CaseCompleted
	title := "Sonuçlanan Dosya"
	updated, err := svc.Update(context.Background(), staffActor, created.ID, ports.UpdateCaseInput{
		Title:  &title,
		Status: &status,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title not applied: %q", updated.Title)
	}
	if updated.Status != domain.CaseCompleted {
		t.Fatalf("status not applied: %s", updated.Status)
	}
	if updated.CompletionDate == nil {
		t.Fatalf("expected completion date to be stamped")
	}
	if updated.Description != created.Description {
		t.Fatalf("nil fields must be left as-is")
	}
	if len(notifier.direct) != 1 || notifier.direct[0].UserID != 10 {
		t.Fatalf("expected client update notification, got %+v", notifier.direct)
	}
}

func TestCaseService_Delete_AdminOnly(t *testing.T) {
	svc, cases, _, _ := newCaseFixture()

	created, err := svc.Create(context.Background(), staffActor, ports.CreateCaseInput{
		CaseNumber: "2026/130", Title: "Dosya", Type: domain.CaseCivil, ClientID: 10,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), staffActor, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("lawyer delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), adminActor, created.ID); err != nil {
		t.Fatalf("admin delete returned error: %v", err)
	}
	if _, err := cases.FindByID(context.Background(), created.ID); !errors.Is(err, domain.ErrCaseNotFound) {
		t.Fatalf("expected case to be gone, got %v", err)
	}
}

func TestCaseService_Timeline(t *testing.T) {
	svc, _, _, _ := newCaseFixture()

	created, err := svc.Create(context.Background(), staffActor, ports.CreateCaseInput{
		CaseNumber: "2026/140", Title: "Dosya", Type: domain.CaseCivil, ClientID: 10,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.AddTimelineEvent(context.Background(), clientActor, created.ID, ports.CreateTimelineEventInput{
		Title: "Duruşma", EventDate: time.Now(),
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("client add event: expected ErrForbidden, got %v", err)
	}

	if _, err := svc.AddTimelineEvent(context.Background(), staffActor, created.ID, ports.CreateTimelineEventInput{
		Title: "", EventDate: time.Now(),
	}); err == nil {
		t.Fatalf("expected error for empty title")
	}

	ev, err := svc.AddTimelineEvent(context.Background(), staffActor, created.ID, ports.CreateTimelineEventInput{
		Title:     "Duruşma yapıldı",
		EventDate: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddTimelineEvent returned error: %v", err)
	}
	if ev.CaseID != created.ID {
		t.Fatalf("event bound to wrong case: %d", ev.CaseID)
	}

	events, err := svc.Timeline(context.Background(), clientActor, created.ID)
	if err != nil {
		t.Fatalf("Timeline returned error: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Duruşma yapıldı" {
		t.Fatalf("unexpected timeline: %+v", events)
	}

	if _, err := svc.Timeline(context.Background(), otherClient, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("other client timeline: expected ErrForbidden, got %v", err)
	}
}

func TestCaseService_MutationsAreAudited(t *testing.T) {
	cases := newStubCaseRepo()
	users := newStubUserRepo()
	audit := &stubAuditRecorder{}
	users.add(&domain.User{ID: 1, Email: "lawyer@koptay.av.tr", Role: domain.RoleLawyer, IsActive: true})
	users.add(&domain.User{ID: 2, Email: "admin@koptay.av.tr", Role: domain.RoleAdmin, IsActive: true})
	users.add(&domain.User{ID: 10, Email: "ayse@example.com", Role: domain.RoleIndividual, IsActive: true})
	svc := NewCaseService(cases, users, &stubNotifier{}, audit, zerolog.Nop())

	created, err := svc.Create(context.Background(), staffActor, ports.CreateCaseInput{
		CaseNumber: "2026/900",
		Title:      "Denetim Dosyası",
		Type:       domain.CaseCivil,
		ClientID:   10,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	newTitle := "Denetim Dosyası (revize)"
	newStatus := domain.CaseInProgress
	if _, err := svc.Update(context.Background(), staffActor, created.ID, ports.UpdateCaseInput{
		Title:  &newTitle,
		Status: &newStatus,
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), adminActor, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	wantActions := []string{domain.AuditCreate, domain.AuditUpdate, domain.AuditDelete}
	if len(audit.entries) != len(wantActions) {
		t.Fatalf("expected %d audit entries, got %d", len(wantActions), len(audit.entries))
	}
	for i, entry := range audit.entries {
		if entry.Action != wantActions[i] || entry.ResourceType != "case" || entry.ResourceID != created.ID {
			t.Fatalf("entry %d unexpected: %+v", i, entry)
		}
	}
	changes := audit.entries[1].Changes
	if changes["title"] != newTitle || changes["status"] != string(newStatus) {
		t.Fatalf("update entry should record the changed fields, got %+v", changes)
	}
}
