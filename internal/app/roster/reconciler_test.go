package roster_test

import (
	"context"
	"testing"
	"time"

	groupapi "github.com/doracare/murshid/internal/app/remote/groups"
	"github.com/doracare/murshid/internal/app/roster"
	"github.com/doracare/murshid/internal/testutil"
	"go.uber.org/zap"
)

func groupDoc(name string) map[string]any {
	return map[string]any{
		"_id":        "g1",
		"group_name": name,
		"created_by": "mod-1",
		"pilgrims": []map[string]any{
			{"_id": "p1", "full_name": "Pilgrim One", "national_id": "A100"},
		},
	}
}

func newReconciler(t *testing.T, svc *testutil.FakeService, opts ...roster.Option) *roster.Reconciler {
	t.Helper()
	rec := roster.New(groupapi.New(svc.Client(t)), zap.NewNop(), opts...)
	t.Cleanup(rec.CloseAll)
	return rec
}

func TestOpen_LoadsGroupAndReturnsReady(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/groups/g1", groupDoc("Bus 4"))
	rec := newReconciler(t, svc)

	snap, err := rec.Open(context.Background(), "tok", "g1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if snap.State != roster.StateReady {
		t.Errorf("state: got %v, want ready", snap.State)
	}
	if snap.Group.GroupName != "Bus 4" {
		t.Errorf("group name: got %q", snap.Group.GroupName)
	}
	if len(snap.Group.Pilgrims) != 1 {
		t.Errorf("pilgrims: got %d, want 1", len(snap.Group.Pilgrims))
	}
	if snap.LastSync.IsZero() {
		t.Error("LastSync not set")
	}
}

func TestOpen_LoadFailure_ProducesNoView(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.StubStatus("GET", "/groups/missing", 404, map[string]string{"error": "not found"})
	rec := newReconciler(t, svc)

	if _, err := rec.Open(context.Background(), "tok", "missing"); err == nil {
		t.Fatal("Open succeeded for a missing group")
	}
	if _, ok := rec.Snapshot("missing"); ok {
		t.Error("failed open left a view behind")
	}
}

func TestOpen_Twice_ReusesView(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/groups/g1", groupDoc("Bus 4"))
	rec := newReconciler(t, svc)

	if _, err := rec.Open(context.Background(), "tok", "g1"); err != nil {
		t.Fatalf("first Open: %v", err)
	}
	fetched := len(svc.Requests())

	if _, err := rec.Open(context.Background(), "tok-2", "g1"); err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if n := len(svc.Requests()); n != fetched {
		t.Errorf("second Open refetched (requests %d -> %d); want live snapshot", fetched, n)
	}
}

func TestOpen_Concurrent_SharesInFlightLoad(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.StubDelay("GET", "/groups/g1", 200*time.Millisecond, 200, groupDoc("Bus 4"))
	rec := newReconciler(t, svc)

	type result struct {
		snap roster.Snapshot
		err  error
	}
	first := make(chan result, 1)
	go func() {
		snap, err := rec.Open(context.Background(), "tok", "g1")
		first <- result{snap, err}
	}()
	time.Sleep(50 * time.Millisecond)

	// The initial load is still in flight; this Open must wait for it
	// rather than hand back an empty Loading snapshot.
	snap, err := rec.Open(context.Background(), "tok-2", "g1")
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if snap.State != roster.StateReady {
		t.Errorf("state: got %v, want ready", snap.State)
	}
	if snap.Group.GroupName != "Bus 4" {
		t.Errorf("group name: got %q, want Bus 4", snap.Group.GroupName)
	}

	res := <-first
	if res.err != nil {
		t.Fatalf("first Open: %v", res.err)
	}
	if n := len(svc.Requests()); n != 1 {
		t.Errorf("initial load fetched %d times, want 1 shared fetch", n)
	}
}

func TestOpen_Concurrent_SharesLoadFailure(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.StubDelay("GET", "/groups/missing", 200*time.Millisecond, 404, map[string]string{"error": "not found"})
	rec := newReconciler(t, svc)

	errs := make(chan error, 1)
	go func() {
		_, err := rec.Open(context.Background(), "tok", "missing")
		errs <- err
	}()
	time.Sleep(50 * time.Millisecond)

	if _, err := rec.Open(context.Background(), "tok-2", "missing"); err == nil {
		t.Error("second Open succeeded for a group whose load failed")
	}
	if err := <-errs; err == nil {
		t.Error("first Open succeeded for a missing group")
	}
	if _, ok := rec.Snapshot("missing"); ok {
		t.Error("failed open left a view behind")
	}
}

func TestRefresh_ReplacesSnapshotWholesale(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/groups/g1", groupDoc("Bus 4"))
	rec := newReconciler(t, svc)

	if _, err := rec.Open(context.Background(), "tok", "g1"); err != nil {
		t.Fatalf("Open: %v", err)
	}

	svc.Stub("GET", "/groups/g1", groupDoc("Bus 4 renamed"))
	snap, err := rec.Refresh(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if snap.Group.GroupName != "Bus 4 renamed" {
		t.Errorf("group name after refresh: got %q", snap.Group.GroupName)
	}
	if snap.State != roster.StateReady {
		t.Errorf("state after refresh: got %v", snap.State)
	}
}

func TestRefresh_NotOpen(t *testing.T) {
	svc := testutil.NewFakeService(t)
	rec := newReconciler(t, svc)

	if _, err := rec.Refresh(context.Background(), "g1"); err != roster.ErrNotOpen {
		t.Errorf("got %v, want ErrNotOpen", err)
	}
}

func TestEdit_SuspendsNameReplacement(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/groups/g1", groupDoc("Bus 4"))
	rec := newReconciler(t, svc)

	if _, err := rec.Open(context.Background(), "tok", "g1"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !rec.BeginEdit("g1") {
		t.Fatal("BeginEdit refused an open view")
	}

	// A refresh lands while the rename field is open; the name holds.
	svc.Stub("GET", "/groups/g1", groupDoc("Renamed elsewhere"))
	snap, err := rec.Refresh(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if snap.Group.GroupName != "Bus 4" {
		t.Errorf("name replaced during edit: got %q, want Bus 4", snap.Group.GroupName)
	}
	if len(snap.Group.Pilgrims) != 1 {
		t.Error("rest of snapshot should still replace during edit")
	}

	// Cancel releases the suspension; the next refresh installs the name.
	rec.CancelEdit("g1")
	snap, err = rec.Refresh(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Refresh after cancel: %v", err)
	}
	if snap.Group.GroupName != "Renamed elsewhere" {
		t.Errorf("name after cancel: got %q", snap.Group.GroupName)
	}
}

func TestCommitEdit_RenamesAndRefreshes(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/groups/g1", groupDoc("Bus 4"))
	svc.Stub("PUT", "/groups/g1", map[string]string{"message": "ok"})
	rec := newReconciler(t, svc)

	if _, err := rec.Open(context.Background(), "tok", "g1"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec.BeginEdit("g1")

	svc.Stub("GET", "/groups/g1", groupDoc("Bus 5"))
	snap, err := rec.CommitEdit(context.Background(), "g1", "Bus 5")
	if err != nil {
		t.Fatalf("CommitEdit: %v", err)
	}
	if snap.Group.GroupName != "Bus 5" {
		t.Errorf("name after commit: got %q", snap.Group.GroupName)
	}
	if rec.Editing("g1") {
		t.Error("edit still open after commit")
	}

	var renamed bool
	for _, rr := range svc.Requests() {
		if rr.Method == "PUT" && rr.Path == "/groups/g1" {
			renamed = true
		}
	}
	if !renamed {
		t.Error("rename never reached the service")
	}
}

func TestCommitEdit_RenameFailure_KeepsEditOpen(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/groups/g1", groupDoc("Bus 4"))
	svc.StubStatus("PUT", "/groups/g1", 409, map[string]string{"error": "name taken"})
	rec := newReconciler(t, svc)

	if _, err := rec.Open(context.Background(), "tok", "g1"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec.BeginEdit("g1")

	if _, err := rec.CommitEdit(context.Background(), "g1", "Taken"); err == nil {
		t.Fatal("CommitEdit succeeded against a 409")
	}
	if !rec.Editing("g1") {
		t.Error("edit closed after a failed rename; the user's typing is lost")
	}
}

func TestClose_DropsView(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/groups/g1", groupDoc("Bus 4"))
	rec := newReconciler(t, svc)

	if _, err := rec.Open(context.Background(), "tok", "g1"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec.Close("g1")
	if _, ok := rec.Snapshot("g1"); ok {
		t.Error("snapshot still available after Close")
	}

	// Closing again, or closing something never opened, is fine.
	rec.Close("g1")
	rec.Close("never-opened")
}

func TestPoll_ConvergesOpenView(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/groups/g1", groupDoc("Bus 4"))
	rec := newReconciler(t, svc,
		roster.WithInterval(10*time.Millisecond),
		roster.WithIdleAfter(time.Minute))

	if _, err := rec.Open(context.Background(), "tok", "g1"); err != nil {
		t.Fatalf("Open: %v", err)
	}

	svc.Stub("GET", "/groups/g1", groupDoc("Synced name"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap, ok := rec.Snapshot("g1"); ok && snap.Group.GroupName == "Synced name" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("background poll never installed the new snapshot")
}

func TestPoll_IdleViewTornDown(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.Stub("GET", "/groups/g1", groupDoc("Bus 4"))
	rec := newReconciler(t, svc,
		roster.WithInterval(10*time.Millisecond),
		roster.WithIdleAfter(20*time.Millisecond))

	if _, err := rec.Open(context.Background(), "tok", "g1"); err != nil {
		t.Fatalf("Open: %v", err)
	}

	// BeginEdit reports view liveness without resetting the idle clock;
	// Snapshot would count as a touch and keep the view alive forever.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !rec.BeginEdit("g1") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("idle view was never torn down")
}
