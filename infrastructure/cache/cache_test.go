package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"godam/models"
)

func TestDraftCachePutCopiesInput(t *testing.T) {
	c := NewDraftCache()
	raw := json.RawMessage(`{"customer":{"name":"Acme"}}`)
	c.Put("tok", raw)
	raw[2] = 'X'

	got, ok := c.Get("tok")
	if !ok {
		t.Fatalf("expected staged draft")
	}
	if string(got) != `{"customer":{"name":"Acme"}}` {
		t.Fatalf("draft mutated through caller slice: %s", got)
	}

	c.Delete("tok")
	if _, ok := c.Get("tok"); ok {
		t.Fatalf("expected draft removed")
	}
}

func TestDraftCachePurgeOlderThan(t *testing.T) {
	c := NewDraftCache()
	c.Put("old", json.RawMessage(`{}`))
	if n := c.PurgeOlderThan(time.Now().Add(time.Second)); n != 1 {
		t.Fatalf("expected 1 purged draft, got %d", n)
	}
}

func TestSessionCachePurgeExpired(t *testing.T) {
	c := NewUserSessionCache()
	now := time.Now()
	c.AddSession(models.Session{ID: "live", ExpiresAt: now.Add(time.Hour)})
	c.AddSession(models.Session{ID: "dead", ExpiresAt: now.Add(-time.Minute)})

	gone := c.PurgeExpired(now)
	if diff := cmp.Diff([]string{"dead"}, gone); diff != "" {
		t.Fatalf("purged tokens mismatch (-want +got):\n%s", diff)
	}
	if _, ok := c.FindSessionBySessionToken("live"); !ok {
		t.Fatalf("expected live session retained")
	}
}

func TestRbacScreenPermissions(t *testing.T) {
	c := NewRbacRolesCache()
	c.Add("dispatcher", Resource{UserResourceCode: "deliveryNotesPrint", Method: "GET", Path: "/tasker/delivery-notes/print"})
	c.Add("admin", Resource{UserResourceCode: "printRuns", Method: "GET", Path: "/tasker/admin/print-runs"})

	got := c.ScreenPermissions([]string{"dispatcher"})
	if diff := cmp.Diff(map[string]int{"deliveryNotesPrint": 1}, got); diff != "" {
		t.Fatalf("screen permissions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"deliveryNotesPrint", "printRuns"}, c.RouteNamesSorted()); diff != "" {
		t.Fatalf("route names mismatch (-want +got):\n%s", diff)
	}
}

func TestRbacAddIgnoresDuplicateGrant(t *testing.T) {
	c := NewRbacRolesCache()
	r := Resource{UserResourceCode: "ORDER_PROGRESS_VIEW", Method: "GET", Path: "/tasker/orders", Role: "dispatcher"}
	c.Add("dispatcher", r)
	c.Add("dispatcher", r)
	if got := len(c.Resources([]string{"dispatcher"})); got != 1 {
		t.Fatalf("expected one grant, got %d", got)
	}
}

func TestUserCacheIsCaseInsensitive(t *testing.T) {
	c := NewUserCache()
	c.Add("Dispatch", models.User{ID: 3, Username: "Dispatch"})
	if u, ok := c.Get(" dispatch "); !ok || u.ID != 3 {
		t.Fatalf("expected case-insensitive lookup, got %+v ok=%v", u, ok)
	}
}
