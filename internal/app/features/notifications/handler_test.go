package notifications_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doracare/murshid/internal/app/assignment"
	uierrors "github.com/doracare/murshid/internal/app/features/errors"
	"github.com/doracare/murshid/internal/app/features/notifications"
	bandapi "github.com/doracare/murshid/internal/app/remote/bands"
	groupapi "github.com/doracare/murshid/internal/app/remote/groups"
	notifyapi "github.com/doracare/murshid/internal/app/remote/notifications"
	pilgrimapi "github.com/doracare/murshid/internal/app/remote/pilgrims"
	"github.com/doracare/murshid/internal/app/roster"
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/doracare/murshid/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, svc *testutil.FakeService) *notifications.Handler {
	t.Helper()
	logger := zap.NewNop()

	mgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	client := svc.Client(t)
	groupStore := groupapi.New(client)
	notifyStore := notifyapi.New(client)
	rec := roster.New(groupStore, logger)
	t.Cleanup(rec.CloseAll)

	flow := assignment.New(groupStore, bandapi.New(client), pilgrimapi.New(client), notifyStore, rec, logger)
	return notifications.NewHandler(notifyStore, flow, uierrors.NewMapper(mgr, logger))
}

func TestServeNotifications_Unauthenticated_RedirectsToAuth(t *testing.T) {
	svc := testutil.NewFakeService(t)
	handler := newTestHandler(t, svc)

	rec := httptest.NewRecorder()
	handler.ServeNotifications(rec, httptest.NewRequest("GET", "/notifications", nil))

	if loc := rec.Header().Get("Location"); loc != "/auth" {
		t.Errorf("Location: got %q, want /auth", loc)
	}
}

func TestServeUnreadBadge_ShowsCount(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/notifications", map[string]any{
		"data":         []map[string]any{},
		"unread_count": 3,
	})
	handler := newTestHandler(t, svc)

	req := testutil.WithUser(httptest.NewRequest("GET", "/notifications/unread", nil), testutil.ModeratorUser())
	rec := httptest.NewRecorder()

	handler.ServeUnreadBadge(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "3") {
		t.Errorf("badge body missing count: %q", rec.Body.String())
	}
}

func TestServeUnreadBadge_ZeroUnread_EmptyBody(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/notifications", map[string]any{
		"data":         []map[string]any{},
		"unread_count": 0,
	})
	handler := newTestHandler(t, svc)

	req := testutil.WithUser(httptest.NewRequest("GET", "/notifications/unread", nil), testutil.ModeratorUser())
	rec := httptest.NewRecorder()

	handler.ServeUnreadBadge(rec, req)

	if body := strings.TrimSpace(rec.Body.String()); body != "" {
		t.Errorf("expected empty badge for zero unread, got %q", body)
	}
}

func TestHandleMarkAllRead_Redirects(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("PUT", "/notifications/read-all", map[string]string{"message": "ok"})
	handler := newTestHandler(t, svc)

	req := testutil.WithUser(httptest.NewRequest("POST", "/notifications/read-all", nil), testutil.ModeratorUser())
	rec := httptest.NewRecorder()

	handler.HandleMarkAllRead(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/notifications" {
		t.Errorf("Location: got %q, want /notifications", loc)
	}
	if last := svc.LastRequest(); last.Path != "/notifications/read-all" {
		t.Errorf("path: got %q, want /notifications/read-all", last.Path)
	}
}

func TestHandleAcceptInvitation_CallsService(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("POST", "/invitations/inv-1/accept", map[string]string{"message": "ok"})
	handler := newTestHandler(t, svc)

	user := testutil.ModeratorUser()
	req := testutil.WithUser(httptest.NewRequest("POST", "/notifications/invitations/inv-1/accept", nil), user)
	req = testutil.WithChiURLParam(req, "invitationID", "inv-1")
	rec := httptest.NewRecorder()

	handler.HandleAcceptInvitation(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	last := svc.LastRequest()
	if last.Path != "/invitations/inv-1/accept" {
		t.Errorf("path: got %q, want /invitations/inv-1/accept", last.Path)
	}
	if last.Token != user.Token {
		t.Errorf("token: got %q, want %q", last.Token, user.Token)
	}
}

func TestHandleDeclineInvitation_ServiceConflict_RendersError(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.StubStatus("POST", "/invitations/inv-1/decline", http.StatusConflict, map[string]string{
		"error": "invitation already handled",
	})
	handler := newTestHandler(t, svc)

	req := testutil.WithUser(httptest.NewRequest("POST", "/notifications/invitations/inv-1/decline", nil), testutil.ModeratorUser())
	req = testutil.WithChiURLParam(req, "invitationID", "inv-1")
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleDeclineInvitation(rec, req)
	}()

	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("conflict must not redirect, got Location %q", loc)
	}
}
