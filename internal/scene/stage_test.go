package scene

import (
	"testing"

	"github.com/Iron-Ham/pcbuild/internal/errors"
)

func loadBench(t *testing.T) *Handle {
	t.Helper()
	lib := memLibrary(t, map[string]string{"bench.yaml": testScene})
	h, err := lib.LoadScene("bench")
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestGenerateCollisionShapes(t *testing.T) {
	tests := []struct {
		name      string
		recursive bool
		want      int
	}{
		{"top level only", false, 2},
		{"whole tree", true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := loadBench(t)
			if got := h.GenerateCollisionShapes(tt.recursive); got != tt.want {
				t.Errorf("GenerateCollisionShapes(%v) = %d, want %d", tt.recursive, got, tt.want)
			}
			if got := h.Collidable(); got != tt.want {
				t.Errorf("Collidable() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNotification(t *testing.T) {
	h := loadBench(t)

	trig, err := h.Notification("glow")
	if err != nil {
		t.Fatalf("Notification(glow) error = %v", err)
	}
	if trig.Name() != "glow" || trig.Message() != "The light turns on." {
		t.Errorf("trigger = %q/%q", trig.Name(), trig.Message())
	}

	_, err = h.Notification("stepRAM2")
	if !errors.Is(err, errors.ErrTriggerNotFound) {
		t.Errorf("error = %v, want ErrTriggerNotFound", err)
	}
}

func TestStage(t *testing.T) {
	stage := NewStage()
	var appended []string
	var posted []Notification
	stage.OnAppend(func(h *Handle) { appended = append(appended, h.Name()) })
	stage.OnNotification(func(n Notification) { posted = append(posted, n) })

	h := loadBench(t)
	stage.Append(h)
	if len(stage.Anchors()) != 1 || appended[0] != "bench" {
		t.Fatalf("anchors = %d appended = %v", len(stage.Anchors()), appended)
	}

	trig, _ := h.Notification("glow")
	trig.Post()
	trig.Post()
	if trig.Posts() != 2 {
		t.Errorf("Posts() = %d, want 2", trig.Posts())
	}
	if len(posted) != 2 || posted[1].Count != 2 || posted[1].Scene != "bench" || posted[1].Trigger != "glow" {
		t.Errorf("posted = %+v", posted)
	}
	if len(stage.Posted()) != 2 {
		t.Errorf("Posted() = %d, want 2", len(stage.Posted()))
	}

	stage.RemoveAll()
	if len(stage.Anchors()) != 0 || len(stage.Posted()) != 0 {
		t.Error("RemoveAll should clear anchors and posted notifications")
	}

	// A detached scene still counts posts but no longer reaches the stage.
	trig.Post()
	if trig.Posts() != 3 || len(posted) != 2 {
		t.Errorf("detached post: Posts()=%d hook calls=%d", trig.Posts(), len(posted))
	}
}
