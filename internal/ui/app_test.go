package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"carmanager/internal/car"
	"carmanager/internal/carapi"
	"carmanager/internal/fakeapi"
	"carmanager/internal/workflow"
)

func testCars() []car.Record {
	return []car.Record{
		{ID: "1", License: "ABC-123", Brand: "Toyota", Series: "Corolla"},
		{ID: "2", License: "XYZ-9", Brand: "Honda", Series: "Civic", Remark: car.StringPtr("blue")},
	}
}

// newTestApp wires the app to an in-memory backend over real HTTP.
func newTestApp(t *testing.T, seed ...car.Record) (*appModelAdapter, *fakeapi.Server) {
	t.Helper()
	srv := fakeapi.New(seed...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	client := carapi.NewClient(carapi.Options{BaseURL: ts.URL})
	a := NewAppModel(context.Background(), workflow.New(client, nil), nil)
	adapter := a.AsTeaModel().(*appModelAdapter)
	adapter.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	drain(t, adapter, adapter.Init())
	srv.ResetCalls()
	return adapter, srv
}

// drain runs cmd and feeds the app-level messages it produces back into Update
// until nothing is left. Spinner ticks are dropped, and cursor blink commands,
// which sleep, are abandoned after a short wait.
func drain(t *testing.T, a *appModelAdapter, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("drain: too many steps")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := runCmd(c).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case ShowCreateCarMsg, ShowEditCarMsg, ShowDeleteCarMsg, RefreshCarsMsg,
			SubmitCarFormMsg, ConfirmDeleteCarMsg, DismissModalMsg, TaskResultMsg:
			_, next := a.Update(msg)
			queue = append(queue, next)
		}
	}
}

func runCmd(c tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- c() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(300 * time.Millisecond):
		return nil
	}
}

// press sends each key through Update and drains the resulting commands.
func press(t *testing.T, a *appModelAdapter, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := a.Update(keyMsg(k))
		drain(t, a, cmd)
	}
}

func topForm(t *testing.T, a *appModelAdapter) *CarFormModal {
	t.Helper()
	form, ok := topView[*CarFormModal](&a.Overlays)
	if !ok {
		t.Fatalf("expected CarFormModal on top, overlays=%d", a.Overlays.Len())
	}
	return form
}

func TestApp_InitFetchesList(t *testing.T) {
	a, _ := newTestApp(t, testCars()...)

	if got := len(a.List.Cars); got != 2 {
		t.Fatalf("expected 2 cars after init, got %d", got)
	}
	view := a.View()
	for _, want := range []string{"Cars (2)", "Toyota", "License: ABC-123", "Remark: -", "Remark: blue"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestApp_EmptyList(t *testing.T) {
	a, _ := newTestApp(t)
	if !strings.Contains(a.View(), "No cars yet") {
		t.Errorf("expected empty state, got:\n%s", a.View())
	}
}

func TestApp_CreateFlow(t *testing.T) {
	a, srv := newTestApp(t, testCars()...)

	press(t, a, "a")
	form := topForm(t, a)
	if form.Mode() != car.ModeCreate || form.Values() != car.EmptyForm() {
		t.Fatalf("expected empty create form, got %v %+v", form.Mode(), form.Values())
	}

	press(t, a, "N-1", "tab", "Fiat", "tab", "500", "tab", "red", "enter")

	if a.Overlays.Len() != 0 {
		t.Errorf("expected dialog closed after save, overlays=%d", a.Overlays.Len())
	}
	calls := srv.CallStrings()
	if len(calls) != 2 || calls[0] != "POST /car" || calls[1] != "GET /car" {
		t.Errorf("expected POST then GET, got %v", calls)
	}
	if len(a.List.Cars) != 3 || a.List.Cars[2].Brand != "Fiat" {
		t.Errorf("expected new car appended by refetch, got %+v", a.List.Cars)
	}
	if a.Status != "" {
		t.Errorf("unexpected status %q", a.Status)
	}
}

func TestApp_CreateWithMissingFieldsMakesNoRequest(t *testing.T) {
	a, srv := newTestApp(t)

	press(t, a, "a", "N-1", "enter")

	form := topForm(t, a)
	if len(srv.Calls()) != 0 {
		t.Errorf("expected no requests, got %v", srv.CallStrings())
	}
	view := form.View()
	if strings.Count(view, car.RequiredMessage) != 2 {
		t.Errorf("expected brand and series errors, got:\n%s", view)
	}
	if !a.Workflow.State().EditOpen {
		t.Error("dialog should stay open")
	}
}

func TestApp_EditFlow(t *testing.T) {
	a, srv := newTestApp(t, testCars()...)

	press(t, a, "j", "e")
	form := topForm(t, a)
	if form.Mode() != car.ModeEdit {
		t.Fatalf("expected edit mode, got %v", form.Mode())
	}
	if got := form.Values(); got.ID != "2" || got.License != "XYZ-9" || got.Remark != "blue" {
		t.Fatalf("expected form populated from car 2, got %+v", got)
	}

	press(t, a, "-X", "enter")

	calls := srv.CallStrings()
	if len(calls) != 2 || calls[0] != "PATCH /car/2" || calls[1] != "GET /car" {
		t.Errorf("expected PATCH /car/2 then GET, got %v", calls)
	}
	if got := a.List.Cars[1].License; got != "XYZ-9-X" {
		t.Errorf("expected updated license, got %q", got)
	}
	if a.Overlays.Len() != 0 {
		t.Error("expected dialog closed")
	}
}

func TestApp_UntouchedEditSendsValuesUnchanged(t *testing.T) {
	long := car.Record{
		ID:      "1",
		License: strings.Repeat("L", 150),
		Brand:   "Toyota",
		Series:  strings.Repeat("s", 300),
		Remark:  car.StringPtr(strings.Repeat("r", 200) + "\nsecond line\tend"),
	}
	a, srv := newTestApp(t, long)

	press(t, a, "e")
	if got := topForm(t, a).Values(); got != car.FormFromRecord(long) {
		t.Fatalf("edit dialog does not hold the record's values: %+v", got)
	}
	press(t, a, "enter")

	calls := srv.Calls()
	if len(calls) != 2 || calls[0].String() != "PATCH /car/1" {
		t.Fatalf("expected PATCH then GET, got %v", srv.CallStrings())
	}
	var sent car.Record
	if err := json.Unmarshal(calls[0].Body, &sent); err != nil {
		t.Fatalf("decode PATCH body: %v", err)
	}
	if sent.License != long.License || sent.Series != long.Series {
		t.Errorf("long fields changed: license len %d, series len %d", len(sent.License), len(sent.Series))
	}
	if got := sent.RemarkOrPlaceholder(); got != *long.Remark {
		t.Errorf("remark changed by an untouched edit: %q", got)
	}
}

func TestApp_EditingLongValueKeepsWholeValue(t *testing.T) {
	long := car.Record{ID: "1", License: strings.Repeat("L", 150), Brand: "Toyota", Series: "Corolla"}
	a, srv := newTestApp(t, long)

	press(t, a, "e", "X", "enter")

	if got := srv.Cars()[0].License; got != long.License+"X" {
		t.Errorf("expected appended license of len %d, got len %d", len(long.License)+1, len(got))
	}
}

func TestApp_EnterOpensEditWithEmptyRemark(t *testing.T) {
	a, _ := newTestApp(t, testCars()...)

	press(t, a, "enter")
	if got := topForm(t, a).Values().Remark; got != "" {
		t.Errorf("expected empty remark for absent value, got %q", got)
	}
}

func TestApp_EscCancelsWithoutRequests(t *testing.T) {
	a, srv := newTestApp(t, testCars()...)

	press(t, a, "e", "changed", "esc")
	if a.Overlays.Len() != 0 {
		t.Error("esc should close the dialog")
	}
	if st := a.Workflow.State(); st.EditOpen || len(st.Cars) != 2 {
		t.Errorf("unexpected state after cancel: %+v", st)
	}
	if len(srv.Calls()) != 0 {
		t.Errorf("expected no requests, got %v", srv.CallStrings())
	}
}

func TestApp_DeleteFlow(t *testing.T) {
	a, srv := newTestApp(t, testCars()...)

	press(t, a, "j", "d")
	confirm, ok := topView[*ConfirmModal](&a.Overlays)
	if !ok {
		t.Fatal("expected ConfirmModal")
	}
	if !strings.Contains(confirm.View(), "Honda Civic (XYZ-9)") {
		t.Errorf("confirm should name the car:\n%s", confirm.View())
	}

	press(t, a, "y")
	calls := srv.CallStrings()
	if len(calls) != 2 || calls[0] != "DELETE /car/2" || calls[1] != "GET /car" {
		t.Errorf("expected DELETE /car/2 then GET, got %v", calls)
	}
	if len(a.List.Cars) != 1 || a.List.Cars[0].ID != "1" {
		t.Errorf("expected only car 1 left, got %+v", a.List.Cars)
	}
	if a.Overlays.Len() != 0 {
		t.Error("expected confirm closed")
	}
}

func TestApp_DeleteCancel(t *testing.T) {
	a, srv := newTestApp(t, testCars()...)

	press(t, a, "d", "esc")
	if a.Overlays.Len() != 0 || a.Workflow.State().DeleteOpen {
		t.Error("esc should close the confirmation")
	}
	if len(srv.Calls()) != 0 || len(a.List.Cars) != 2 {
		t.Errorf("cancel must not touch the list: calls=%v cars=%d", srv.CallStrings(), len(a.List.Cars))
	}
}

func TestApp_SaveFailureKeepsDialogOpen(t *testing.T) {
	a, srv := newTestApp(t, testCars()...)
	srv.FailNext(http.MethodPatch, http.StatusInternalServerError)

	press(t, a, "e", "!", "enter")

	form := topForm(t, a)
	if !strings.Contains(form.View(), "Save failed") {
		t.Errorf("expected backend error in dialog:\n%s", form.View())
	}
	if !strings.HasPrefix(a.Status, "Save failed") {
		t.Errorf("expected status line error, got %q", a.Status)
	}
	if a.List.Cars[0].License != "ABC-123" {
		t.Error("list must not change on failure")
	}

	press(t, a, "enter")
	if a.Overlays.Len() != 0 {
		t.Error("retry should succeed and close the dialog")
	}
	if a.Status != "" {
		t.Errorf("expected status cleared, got %q", a.Status)
	}
}

func TestApp_RefreshFailureKeepsList(t *testing.T) {
	a, srv := newTestApp(t, testCars()...)
	srv.FailNext(http.MethodGet, http.StatusBadGateway)

	press(t, a, "r")
	if len(a.List.Cars) != 2 {
		t.Errorf("expected previous list kept, got %d cars", len(a.List.Cars))
	}
	if !strings.HasPrefix(a.Status, "Could not load cars") {
		t.Errorf("expected fetch error in status, got %q", a.Status)
	}

	press(t, a, "r")
	if a.Status != "" {
		t.Errorf("expected status cleared after successful refresh, got %q", a.Status)
	}
}

func TestApp_LeaderSequences(t *testing.T) {
	a, srv := newTestApp(t, testCars()...)

	press(t, a, " ")
	if !strings.Contains(a.View(), "Refresh") {
		t.Errorf("expected leader help bar, got:\n%s", a.View())
	}
	press(t, a, "c", "a")
	if topForm(t, a).Mode() != car.ModeCreate {
		t.Error("SPC c a should open the create dialog")
	}
	press(t, a, "esc", " ", "r")
	if got := srv.CallStrings(); len(got) != 1 || got[0] != "GET /car" {
		t.Errorf("SPC r should refetch, got %v", got)
	}
}

func TestApp_KeysGoToOpenDialog(t *testing.T) {
	a, _ := newTestApp(t, testCars()...)

	press(t, a, "a", "q", "d")
	form := topForm(t, a)
	if got := form.Values().License; got != "qd" {
		t.Errorf("expected list keys typed into the dialog, got %q", got)
	}
	if a.Workflow.State().Form.License != "qd" {
		t.Error("expected orchestrator form kept in sync with the inputs")
	}
}

func TestApp_NoSelectionOnEmptyList(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, "e")
	if a.Overlays.Len() != 0 {
		t.Error("edit with no cars should not open a dialog")
	}
	if a.Status != "No car selected" {
		t.Errorf("unexpected status %q", a.Status)
	}
}

func TestApp_QuitKeys(t *testing.T) {
	a, _ := newTestApp(t)

	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := a.Update(keyMsg(k))
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected QuitMsg", k)
		}
	}
}
