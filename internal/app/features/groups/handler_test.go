package groups_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doracare/murshid/internal/app/assignment"
	uierrors "github.com/doracare/murshid/internal/app/features/errors"
	"github.com/doracare/murshid/internal/app/features/groups"
	bandapi "github.com/doracare/murshid/internal/app/remote/bands"
	groupapi "github.com/doracare/murshid/internal/app/remote/groups"
	notifyapi "github.com/doracare/murshid/internal/app/remote/notifications"
	pilgrimapi "github.com/doracare/murshid/internal/app/remote/pilgrims"
	"github.com/doracare/murshid/internal/app/roster"
	"github.com/doracare/murshid/internal/app/system/auth"
	"github.com/doracare/murshid/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, svc *testutil.FakeService) *groups.Handler {
	t.Helper()
	logger := zap.NewNop()

	mgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	client := svc.Client(t)
	groupStore := groupapi.New(client)
	bandStore := bandapi.New(client)
	rec := roster.New(groupStore, logger)
	t.Cleanup(rec.CloseAll)

	flow := assignment.New(groupStore, bandStore, pilgrimapi.New(client), notifyapi.New(client), rec, logger)

	return groups.NewHandler(groupStore, bandStore, rec, flow, uierrors.NewMapper(mgr, logger), logger)
}

func groupDoc(createdBy string) map[string]any {
	return map[string]any{
		"_id":        "g1",
		"group_name": "Bus 4",
		"created_by": createdBy,
		"moderator_ids": []map[string]any{
			{"_id": "mod-2", "full_name": "Other Mod", "role": "moderator"},
		},
		"pilgrims": []map[string]any{
			{"_id": "p1", "full_name": "Pilgrim One", "national_id": "A100"},
		},
	}
}

func TestServeGroupView_Unauthenticated_RedirectsToAuth(t *testing.T) {
	svc := testutil.NewFakeService(t)
	handler := newTestHandler(t, svc)

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/groups/g1", nil), "id", "g1")
	rec := httptest.NewRecorder()

	handler.ServeGroupView(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/auth" {
		t.Errorf("Location: got %q, want /auth", loc)
	}
}

func TestServeGroupView_OpensRosterWithToken(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/groups/g1", groupDoc("mod-1"))
	handler := newTestHandler(t, svc)

	user := testutil.ModeratorUser()
	req := testutil.WithChiURLParam(
		testutil.WithUser(httptest.NewRequest("GET", "/groups/g1", nil), user),
		"id", "g1")

	func() {
		defer func() { _ = recover() }()
		handler.ServeGroupView(httptest.NewRecorder(), req)
	}()

	last := svc.LastRequest()
	if last.Path != "/groups/g1" {
		t.Fatalf("path: got %q, want /groups/g1", last.Path)
	}
	if last.Token != user.Token {
		t.Errorf("token: got %q, want %q", last.Token, user.Token)
	}
}

func TestServeGroupView_NotFound_RedirectsToDashboard(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.StubStatus("GET", "/groups/missing", http.StatusNotFound, map[string]string{"error": "not found"})
	handler := newTestHandler(t, svc)

	req := testutil.WithChiURLParam(
		testutil.WithUser(httptest.NewRequest("GET", "/groups/missing", nil), testutil.ModeratorUser()),
		"id", "missing")
	rec := httptest.NewRecorder()

	handler.ServeGroupView(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want /dashboard", loc)
	}
}

func TestHandleDeleteGroup_RedirectsToDashboard(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("DELETE", "/groups/g1", map[string]string{"message": "deleted"})
	handler := newTestHandler(t, svc)

	req := testutil.WithChiURLParam(
		testutil.WithUser(httptest.NewRequest("POST", "/groups/g1/delete", nil), testutil.ModeratorUser()),
		"id", "g1")
	rec := httptest.NewRecorder()

	handler.HandleDeleteGroup(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want /dashboard", loc)
	}
}

func TestHandleAssignBand_PostsSerial(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("POST", "/groups/assign-band", map[string]string{"message": "ok"})
	handler := newTestHandler(t, svc)

	req := testutil.WithUser(
		testutil.NewFormRequest("/groups/g1/pilgrims/p1/band", map[string]string{"serial_number": " SN-42 "}),
		testutil.ModeratorUser())
	req = testutil.WithChiURLParam(req, "id", "g1")
	req = testutil.WithChiURLParam(req, "pilgrimID", "p1")
	rec := httptest.NewRecorder()

	handler.HandleAssignBand(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	var assignReq *testutil.RecordedRequest
	for i, rr := range svc.Requests() {
		if rr.Method == "POST" && rr.Path == "/groups/assign-band" {
			reqs := svc.Requests()
			assignReq = &reqs[i]
		}
	}
	if assignReq == nil {
		t.Fatal("assign-band was never called")
	}
	body := string(assignReq.Body)
	if !strings.Contains(body, `"SN-42"`) {
		t.Errorf("serial not trimmed/forwarded, body: %s", body)
	}
	if !strings.Contains(body, `"p1"`) || !strings.Contains(body, `"g1"`) {
		t.Errorf("group/pilgrim ids missing from body: %s", body)
	}
}

func TestHandleAssignBand_MissingSerial_DoesNotCallService(t *testing.T) {
	svc := testutil.NewFakeService(t)
	handler := newTestHandler(t, svc)

	req := testutil.WithUser(
		testutil.NewFormRequest("/groups/g1/pilgrims/p1/band", map[string]string{}),
		testutil.ModeratorUser())
	req = testutil.WithChiURLParam(req, "id", "g1")
	req = testutil.WithChiURLParam(req, "pilgrimID", "p1")

	handler.HandleAssignBand(httptest.NewRecorder(), req)

	if n := len(svc.Requests()); n != 0 {
		t.Errorf("service called %d times without a serial, want 0", n)
	}
}

func TestHandleRemoveModerator_NonCreator_Refused(t *testing.T) {
	svc := testutil.NewFakeService(t)
	// Acting user did not create the group.
	svc.Stub("GET", "/groups/g1", groupDoc("someone-else"))
	handler := newTestHandler(t, svc)

	user := testutil.ModeratorUser()
	req := testutil.WithUser(httptest.NewRequest("POST", "/groups/g1/moderators/mod-2/remove", nil), user)
	req = testutil.WithChiURLParam(req, "id", "g1")
	req = testutil.WithChiURLParam(req, "userID", "mod-2")
	rec := httptest.NewRecorder()

	handler.HandleRemoveModerator(rec, req)

	for _, rr := range svc.Requests() {
		if rr.Method == "DELETE" {
			t.Error("remove reached the service for a non-creator")
		}
	}
	if loc := rec.Header().Get("Location"); loc != "/groups/g1" {
		t.Errorf("Location: got %q, want /groups/g1", loc)
	}
}

func TestHandleLeaveGroup_Creator_Refused(t *testing.T) {
	svc := testutil.NewFakeService(t)
	user := testutil.ModeratorUser()
	svc.Stub("GET", "/groups/g1", groupDoc(user.ID))
	handler := newTestHandler(t, svc)

	req := testutil.WithUser(httptest.NewRequest("POST", "/groups/g1/leave", nil), user)
	req = testutil.WithChiURLParam(req, "id", "g1")
	rec := httptest.NewRecorder()

	handler.HandleLeaveGroup(rec, req)

	for _, rr := range svc.Requests() {
		if strings.HasSuffix(rr.Path, "/leave") {
			t.Error("creator must not be able to leave the group")
		}
	}
	if loc := rec.Header().Get("Location"); loc != "/groups/g1" {
		t.Errorf("Location: got %q, want /groups/g1", loc)
	}
}

func TestHandleGroupAlert_StripsMarkup(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("POST", "/groups/send-alert", map[string]string{"message": "sent"})
	handler := newTestHandler(t, svc)

	req := testutil.WithUser(
		testutil.NewFormRequest("/groups/g1/alert", map[string]string{
			"message": "<script>alert(1)</script>Gather at gate 3",
		}),
		testutil.ModeratorUser())
	req = testutil.WithChiURLParam(req, "id", "g1")

	handler.HandleGroupAlert(httptest.NewRecorder(), req)

	last := svc.LastRequest()
	if last.Path != "/groups/send-alert" {
		t.Fatalf("path: got %q, want /groups/send-alert", last.Path)
	}
	body := string(last.Body)
	if strings.Contains(body, "<script>") {
		t.Errorf("script tag survived sanitization: %s", body)
	}
	if !strings.Contains(body, "Gather at gate 3") {
		t.Errorf("message text lost in sanitization: %s", body)
	}
}

func TestHandleGroupAlert_EmptyAfterSanitize_DoesNotSend(t *testing.T) {
	svc := testutil.NewFakeService(t)
	handler := newTestHandler(t, svc)

	req := testutil.WithUser(
		testutil.NewFormRequest("/groups/g1/alert", map[string]string{"message": "   "}),
		testutil.ModeratorUser())
	req = testutil.WithChiURLParam(req, "id", "g1")

	func() {
		defer func() { _ = recover() }()
		handler.HandleGroupAlert(httptest.NewRecorder(), req)
	}()

	if n := len(svc.Requests()); n != 0 {
		t.Errorf("service called %d times for an empty alert, want 0", n)
	}
}

func TestHandleRegisterPilgrim_SanitizesMedicalHistory(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("POST", "/auth/register-pilgrim", map[string]string{"pilgrim_id": "p-new"})
	svc.Stub("POST", "/groups/g1/add-pilgrim", map[string]string{"message": "ok"})
	handler := newTestHandler(t, svc)

	req := testutil.WithUser(
		testutil.NewFormRequest("/groups/g1/pilgrims/register", map[string]string{
			"full_name":       "New Pilgrim",
			"national_id":     "B200",
			"medical_history": "needs insulin<script>alert(1)</script>",
		}),
		testutil.ModeratorUser())
	req = testutil.WithChiURLParam(req, "id", "g1")

	handler.HandleRegisterPilgrim(httptest.NewRecorder(), req)

	var registered string
	for _, rr := range svc.Requests() {
		if rr.Path == "/auth/register-pilgrim" {
			registered = string(rr.Body)
		}
	}
	if registered == "" {
		t.Fatal("register call never reached the service")
	}
	if strings.Contains(registered, "<script>") {
		t.Errorf("script tag survived in medical history: %s", registered)
	}
	if !strings.Contains(registered, "needs insulin") {
		t.Errorf("medical history text lost in sanitization: %s", registered)
	}
}
