// Package internal contains integration tests that drive a built-in guide
// end to end: walkthrough, event bus, console host and progress store.
package internal

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/pcbuild/internal/console"
	"github.com/Iron-Ham/pcbuild/internal/event"
	"github.com/Iron-Ham/pcbuild/internal/guide"
	"github.com/Iron-Ham/pcbuild/internal/logging"
	"github.com/Iron-Ham/pcbuild/internal/progress"
	"github.com/Iron-Ham/pcbuild/internal/walkthrough"
)

func TestConsoleSessionIsRecorded(t *testing.T) {
	g, err := guide.Builtin("ram-only")
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	logger, err := logging.NewLogger(dir, logging.LevelDebug)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	bus := event.NewBus()
	bus.SetLogger(logger)
	bus.LogTo(logger)

	w, err := walkthrough.New(g, walkthrough.Options{Bus: bus, Logger: logger})
	if err != nil {
		t.Fatal(err)
	}

	store, err := progress.Open(filepath.Join(dir, progress.DBFileName))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	sess, err := store.Start(g.Name, w.Fingerprint())
	if err != nil {
		t.Fatal(err)
	}
	tracker := progress.NewTracker(store, bus, sess, w.LastStep(), logger)
	defer tracker.Close()

	var out bytes.Buffer
	c := console.New(w, strings.NewReader("start\nnext\nnext\n"), &out, console.Options{NoPrompt: true, Logger: logger})
	if _, err := w.Start(0); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "progress saved: guide complete") {
		t.Errorf("console output missing completion notice:\n%s", out.String())
	}
	if w.Mode() != walkthrough.ModeMenu {
		t.Errorf("mode = %s, want menu after the guide resets", w.Mode())
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed {
		t.Error("session should be complete")
	}
	visits, err := store.Visits(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, v := range visits {
		ids = append(ids, v.StepID)
	}
	if !strings.Contains(strings.Join(ids, ","), "ram-levers,ram-insert,complete") {
		t.Errorf("visited steps = %v", ids)
	}
	if last := visits[len(visits)-1]; last.Op != "reset" || last.StepIndex != 0 {
		t.Errorf("last visit = %+v, want reset to 0", last)
	}
}

func TestEventLogFeedsLogReader(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(dir, logging.LevelDebug)
	if err != nil {
		t.Fatal(err)
	}

	g, err := guide.Builtin("pc-assembly")
	if err != nil {
		t.Fatal(err)
	}
	bus := event.NewBus()
	bus.LogTo(logger.WithGuide(g.Name))
	w, err := walkthrough.New(g, walkthrough.Options{Bus: bus, Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Start(0); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Do(walkthrough.CmdJump, 3); err != nil {
		t.Fatal(err)
	}
	_ = logger.Close()

	entries, err := logging.ReadEntries(dir)
	if err != nil {
		t.Fatal(err)
	}
	matched := logging.FilterEntries(entries, logging.Filter{Guide: g.Name})
	if len(matched) == 0 {
		t.Fatalf("no entries tagged with guide %s among %d", g.Name, len(entries))
	}
}
