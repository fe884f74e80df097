package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"jobmarket_backend/internals/databases/dbtest"
	notifService "jobmarket_backend/internals/features/home/notifications/service"
	helper "jobmarket_backend/internals/helpers"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notifService.Notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, n notifService.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) byType(typ string) []notifService.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notifService.Notification
	for _, n := range f.sent {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

type fixture struct {
	svc       *ApplicationService
	notifier  *fakeNotifier
	publisher int64
	student   int64
	job       int64
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := dbtest.NewStore(t)
	notifier := &fakeNotifier{}
	pub := dbtest.User(t, store, "publisher")
	cat := dbtest.Category(t, store, "Engineering")
	return fixture{
		svc:       NewApplicationService(store, notifier),
		notifier:  notifier,
		publisher: pub,
		student:   dbtest.User(t, store, "student"),
		job:       dbtest.Job(t, store, pub, cat, "active"),
	}
}

func TestCreateGuardsRunInOrder(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewApplicationService(store, &fakeNotifier{})
	ctx := context.Background()

	pub := dbtest.User(t, store, "publisher")
	student := dbtest.User(t, store, "student")
	cat := dbtest.Category(t, store, "Engineering")
	active := dbtest.Job(t, store, pub, cat, "active")
	inactive := dbtest.Job(t, store, pub, cat, "inactive")

	// A row that already exists wins over the inactive job check.
	dbtest.Application(t, store, student, inactive, "pending")
	if _, err := svc.Create(ctx, student, inactive, nil); helper.ErrorMessage(err) != MsgAlreadyApplied {
		t.Fatalf("expected duplicate error first, got %v", err)
	}

	other := dbtest.User(t, store, "student")
	if _, err := svc.Create(ctx, other, inactive, nil); helper.ErrorMessage(err) != MsgJobNotAvailable {
		t.Fatalf("expected inactive job error, got %v", err)
	}
	if _, err := svc.Create(ctx, other, active+1000, nil); helper.ErrorMessage(err) != MsgJobNotAvailable {
		t.Fatalf("expected missing job error, got %v", err)
	}
	if _, err := svc.Create(ctx, pub, active, nil); helper.ErrorMessage(err) != MsgStudentNotFound {
		t.Fatalf("expected student not found, got %v", err)
	}
}

func TestApplyTwiceKeepsOneRow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	proposal := "I know Go"
	app, err := f.svc.Create(ctx, f.student, f.job, &proposal)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != "pending" {
		t.Fatalf("expected pending, got %s", app.Status)
	}
	_, err = f.svc.Create(ctx, f.student, f.job, &proposal)
	if helper.ErrorCode(err) != 409 {
		t.Fatalf("expected 409, got %v", err)
	}

	items, total, err := f.svc.ListByStudent(ctx, f.student, "", helper.NewPaging(1, 10, 10, 0))
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("expected one application, total=%d err=%v", total, err)
	}
	if got := f.notifier.byType("new_application"); len(got) != 1 || got[0].UserID != f.publisher {
		t.Fatalf("expected one publisher notification, got %+v", got)
	}
}

func TestAcceptScenario(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	app, err := f.svc.Create(ctx, f.student, f.job, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	view, err := f.svc.Accept(ctx, f.publisher, app.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if view.Status != "accepted" {
		t.Fatalf("expected accepted, got %s", view.Status)
	}
	updates := f.notifier.byType("application_status_updated")
	if len(updates) != 1 || updates[0].UserID != f.student {
		t.Fatalf("expected one notification to the student, got %+v", updates)
	}

	// re-accepting is a no-op and must not notify again
	if _, err := f.svc.Accept(ctx, f.publisher, app.ID); err != nil {
		t.Fatalf("re-accept: %v", err)
	}
	if n := len(f.notifier.byType("application_status_updated")); n != 1 {
		t.Fatalf("duplicate notification emitted, got %d", n)
	}

	// terminal state
	if _, err := f.svc.Reject(ctx, f.publisher, app.ID); helper.ErrorCode(err) != 400 {
		t.Fatalf("expected 400 leaving accepted, got %v", err)
	}
	if _, err := f.svc.MarkAsViewed(ctx, f.publisher, app.ID); helper.ErrorCode(err) != 400 {
		t.Fatalf("expected 400 for accepted -> viewed, got %v", err)
	}

	// vacancies are not enforced at application time
	s2 := f.svc.store
	second := dbtest.User(t, s2, "student")
	if _, err := f.svc.Create(ctx, second, f.job, nil); err != nil {
		t.Fatalf("second student should still apply: %v", err)
	}
}

func TestViewedIsOneWay(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	app, err := f.svc.Create(ctx, f.student, f.job, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := f.svc.MarkAsViewed(ctx, f.publisher, app.ID); err != nil {
		t.Fatalf("view: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.publisher, app.ID, "pending"); helper.ErrorCode(err) != 400 {
		t.Fatalf("expected viewed -> pending to fail, got %v", err)
	}
	if _, err := f.svc.Reject(ctx, f.publisher, app.ID); err != nil {
		t.Fatalf("reject from viewed: %v", err)
	}
	counts, err := f.svc.StatusCounts(ctx, 0, f.publisher)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["rejected"] != 1 || counts["pending"] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestOtherPublisherCannotChangeStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	app, err := f.svc.Create(ctx, f.student, f.job, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	other := dbtest.User(t, f.svc.store, "publisher")
	_, err = f.svc.Accept(ctx, other, app.ID)
	if helper.ErrorMessage(err) != "application not found or access denied" {
		t.Fatalf("expected access denied, got %v", err)
	}
	if _, err := f.svc.GetByID(ctx, other, app.ID); helper.ErrorCode(err) != 404 {
		t.Fatalf("expected 404 for stranger, got %v", err)
	}
	if _, err := f.svc.GetByID(ctx, f.student, app.ID); err != nil {
		t.Fatalf("applicant should see the application: %v", err)
	}
}

func TestNotificationFailureDoesNotFailTransition(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.notifier.err = errors.New("notifications table unavailable")

	app, err := f.svc.Create(ctx, f.student, f.job, nil)
	if err != nil {
		t.Fatalf("apply should succeed without notifications: %v", err)
	}
	view, err := f.svc.Accept(ctx, f.publisher, app.ID)
	if err != nil {
		t.Fatalf("accept should succeed without notifications: %v", err)
	}
	if view.Status != "accepted" {
		t.Fatalf("expected accepted, got %s", view.Status)
	}
}

func TestWithdraw(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	app, err := f.svc.Create(ctx, f.student, f.job, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := f.svc.Withdraw(ctx, f.publisher, app.ID); helper.ErrorCode(err) != 404 {
		t.Fatalf("only the applicant can withdraw, got %v", err)
	}
	if err := f.svc.Withdraw(ctx, f.student, app.ID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	again, err := f.svc.Create(ctx, f.student, f.job, nil)
	if err != nil {
		t.Fatalf("re-apply after withdraw: %v", err)
	}
	if _, err := f.svc.MarkAsViewed(ctx, f.publisher, again.ID); err != nil {
		t.Fatalf("view: %v", err)
	}
	if err := f.svc.Withdraw(ctx, f.student, again.ID); helper.ErrorCode(err) != 400 {
		t.Fatalf("viewed applications cannot be withdrawn, got %v", err)
	}
}

func TestStatusCountsForWholePlatform(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.svc.Create(ctx, f.student, f.job, nil); err != nil {
		t.Fatal(err)
	}

	counts, err := f.svc.StatusCounts(ctx, 0, 0)
	if err != nil {
		t.Fatalf("platform counts: %v", err)
	}
	if counts["pending"] != 1 || counts["accepted"] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
