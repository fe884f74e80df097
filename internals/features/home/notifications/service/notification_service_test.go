package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobmarket_backend/internals/databases/dbtest"
	"jobmarket_backend/internals/features/home/notifications/model"
	helper "jobmarket_backend/internals/helpers"
)

func TestNotifyRejectsIncompleteNotifications(t *testing.T) {
	svc := NewNotificationService(dbtest.NewStore(t))
	ctx := context.Background()

	for _, n := range []Notification{
		{Type: model.TypeNewReview, Message: "hi"},
		{UserID: 1, Message: "hi"},
		{UserID: 1, Type: model.TypeNewReview, Message: "   "},
	} {
		if err := svc.Notify(ctx, n); helper.ErrorCode(err) != 400 {
			t.Fatalf("Notify(%+v) err = %v, want 400", n, err)
		}
	}
}

func TestListMarkAndCount(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore(t)
	svc := NewNotificationService(store)
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	link := "/jobs/1"
	for _, msg := range []string{"first", "second", "third"} {
		if err := svc.Notify(ctx, Notification{UserID: 1, Type: model.TypeNewApplication, Message: msg, Link: &link}); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.Notify(ctx, Notification{UserID: 2, Type: model.TypeNewReview, Message: "other"}); err != nil {
		t.Fatal(err)
	}

	items, total, err := svc.ListForUser(ctx, 1, false, helper.NewPaging(1, 2, 20, 100))
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("total = %d, page = %d; want 3, 2", total, len(items))
	}
	if items[0].Message != "third" || items[0].Link == nil || *items[0].Link != link {
		t.Fatalf("newest first expected, got %+v", items[0])
	}

	if err := svc.MarkRead(ctx, 2, items[0].ID); helper.ErrorCode(err) != 404 {
		t.Fatalf("marking someone else's notification err = %v, want 404", err)
	}
	if err := svc.MarkRead(ctx, 1, items[0].ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := svc.UnreadCount(ctx, 1); n != 2 {
		t.Fatalf("unread = %d, want 2", n)
	}

	unread, total, err := svc.ListForUser(ctx, 1, true, helper.NewPaging(1, 20, 20, 100))
	if err != nil || total != 2 || len(unread) != 2 {
		t.Fatalf("unread list = %d/%d, err %v", len(unread), total, err)
	}

	n, err := svc.MarkAllRead(ctx, 1)
	if err != nil || n != 2 {
		t.Fatalf("MarkAllRead = %d, %v; want 2", n, err)
	}
	if n, _ := svc.UnreadCount(ctx, 2); n != 1 {
		t.Fatalf("other user's unread = %d, want 1", n)
	}
}

type failingNotifier struct{ calls int }

func (f *failingNotifier) Notify(context.Context, Notification) error {
	f.calls++
	return errors.New("down")
}

func TestSendSwallowsFailures(t *testing.T) {
	f := &failingNotifier{}
	Send(context.Background(), f, Notification{UserID: 1, Type: model.TypeNewReview, Message: "x"})
	if f.calls != 1 {
		t.Fatalf("calls = %d, want 1", f.calls)
	}
	Send(context.Background(), nil, Notification{UserID: 1})
}
