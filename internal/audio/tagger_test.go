package audio

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/handiism/cleantags/internal/model"
	"github.com/handiism/cleantags/internal/queue"
	"github.com/handiism/cleantags/internal/tags"
	"github.com/handiism/cleantags/internal/testsupport"
)

// runTagger queues paths, shuts the queue down and processes everything.
func runTagger(t *testing.T, codec tags.Codec, cfg *TagConfig, logger *zap.Logger, paths ...string) *model.Report {
	t.Helper()

	q := queue.New[string]()
	for _, p := range paths {
		if err := q.Put(p); err != nil {
			t.Fatalf("Put(%q): %v", p, err)
		}
	}
	q.Shutdown()

	report := model.NewReport("test", "/music", cfg.DryRun)
	if err := NewTagger(q, codec, cfg, logger).ProcessFiles(context.Background(), report); err != nil {
		t.Fatalf("ProcessFiles() error: %v", err)
	}
	return report
}

func liveConfig() *TagConfig {
	cfg := DefaultTagConfig()
	cfg.DryRun = false
	return cfg
}

func TestTagger_DryRunIsIdempotent(t *testing.T) {
	codec := testsupport.NewFakeCodec()
	codec.Add("/music/a.mp3", tags.SchemeFrame, map[string]string{"TPE1": "Queen / Queen", "TALB": "Jazz / Jazz"})
	codec.Add("/music/b.ogg", tags.SchemeMapping, map[string]string{"title": "Mustapha"})

	before := codec.Checksum("/music/a.mp3")

	first := runTagger(t, codec, DefaultTagConfig(), nil, "/music/a.mp3", "/music/b.ogg")
	second := runTagger(t, codec, DefaultTagConfig(), nil, "/music/a.mp3", "/music/b.ogg")

	if first.FieldsFixed() != 2 || second.FieldsFixed() != 2 {
		t.Errorf("fix counts = %d/%d, want 2/2", first.FieldsFixed(), second.FieldsFixed())
	}
	if first.Count(model.StatusWouldFix) != 1 || first.Count(model.StatusClean) != 1 {
		t.Errorf("statuses: would_fix=%d clean=%d", first.Count(model.StatusWouldFix), first.Count(model.StatusClean))
	}
	if codec.Persists("/music/a.mp3") != 0 {
		t.Errorf("dry run persisted %d times", codec.Persists("/music/a.mp3"))
	}
	if after := codec.Checksum("/music/a.mp3"); after != before {
		t.Error("dry run changed the stored tags")
	}
}

func TestTagger_LiveRunConverges(t *testing.T) {
	codec := testsupport.NewFakeCodec()
	codec.Add("/music/a.mp3", tags.SchemeFrame, map[string]string{"TPE1": "Queen / Queen", "TIT2": "Mustapha"})

	core, logs := observer.New(zap.InfoLevel)
	first := runTagger(t, codec, liveConfig(), zap.New(core), "/music/a.mp3")

	if got := codec.Fields("/music/a.mp3")["TPE1"]; got != "Queen" {
		t.Errorf("TPE1 after fix = %q, want Queen", got)
	}
	if got := codec.Fields("/music/a.mp3")["TIT2"]; got != "Mustapha" {
		t.Errorf("TIT2 = %q, want untouched", got)
	}
	if first.Count(model.StatusFixed) != 1 || first.FieldsFixed() != 1 {
		t.Errorf("first run: fixed=%d fields=%d, want 1/1", first.Count(model.StatusFixed), first.FieldsFixed())
	}
	if codec.Persists("/music/a.mp3") != 1 {
		t.Errorf("persisted %d times, want 1", codec.Persists("/music/a.mp3"))
	}

	entries := logs.FilterMessage("fixed duplicated values").All()
	if len(entries) != 1 || entries[0].ContextMap()["fields"] != int64(1) {
		t.Errorf("expected one 'fixed' log with fields=1, got %+v", entries)
	}

	second := runTagger(t, codec, liveConfig(), nil, "/music/a.mp3")
	if second.FieldsFixed() != 0 || second.Count(model.StatusClean) != 1 {
		t.Errorf("second run: fields=%d clean=%d, want 0/1", second.FieldsFixed(), second.Count(model.StatusClean))
	}
	if codec.Persists("/music/a.mp3") != 1 {
		t.Error("second run should not persist a clean file")
	}
}

func TestTagger_AliasEquivalenceOnDisk(t *testing.T) {
	codec := testsupport.NewFakeCodec()
	codec.Add("/music/frame.mp3", tags.SchemeFrame, map[string]string{"TPE1": "X / X"})
	codec.Add("/music/map.ogg", tags.SchemeMapping, map[string]string{"artist": "X / X"})

	runTagger(t, codec, liveConfig(), nil, "/music/frame.mp3", "/music/map.ogg")

	if got := codec.Fields("/music/frame.mp3")["TPE1"]; got != "X" {
		t.Errorf("TPE1 = %q, want X", got)
	}
	if got := codec.Fields("/music/map.ogg")["artist"]; got != "X" {
		t.Errorf("artist = %q, want X", got)
	}
}

func TestTagger_DecodeFailureIsIsolated(t *testing.T) {
	codec := testsupport.NewFakeCodec()
	codec.Add("/music/a.mp3", tags.SchemeFrame, map[string]string{"TPE1": "A / A"})
	codec.FailDecode("/music/corrupt.mp3")
	codec.Add("/music/c.ogg", tags.SchemeMapping, map[string]string{"album": "C / C"})

	core, logs := observer.New(zap.WarnLevel)
	report := runTagger(t, codec, liveConfig(), zap.New(core), "/music/a.mp3", "/music/corrupt.mp3", "/music/c.ogg")

	if report.Count(model.StatusFixed) != 2 {
		t.Errorf("fixed = %d, want 2", report.Count(model.StatusFixed))
	}
	if report.Count(model.StatusDecodeFailed) != 1 {
		t.Errorf("decode failures = %d, want 1", report.Count(model.StatusDecodeFailed))
	}

	results := report.Results()
	if len(results) != 3 || results[1].Path != "/music/corrupt.mp3" {
		t.Fatalf("results out of order: %+v", results)
	}
	if !errors.Is(results[1].Err, tags.ErrDecode) {
		t.Errorf("decode failure error = %v, want ErrDecode", results[1].Err)
	}
	if logs.FilterMessage("cannot read tags").Len() != 1 {
		t.Error("expected a warning for the corrupt file")
	}
}

func TestTagger_PersistFailureDiscardsFix(t *testing.T) {
	codec := testsupport.NewFakeCodec()
	codec.Add("/music/a.mp3", tags.SchemeFrame, map[string]string{"TPE1": "A / A", "TALB": "B / B"})
	codec.FailPersist("/music/a.mp3")
	codec.Add("/music/b.mp3", tags.SchemeFrame, map[string]string{"TPE1": "B / B"})

	core, logs := observer.New(zap.ErrorLevel)
	report := runTagger(t, codec, liveConfig(), zap.New(core), "/music/a.mp3", "/music/b.mp3")

	if got := codec.Fields("/music/a.mp3"); got["TPE1"] != "A / A" || got["TALB"] != "B / B" {
		t.Errorf("failed file changed: %v", got)
	}
	if !codec.Closed("/music/a.mp3") {
		t.Error("container should be closed after a persist failure")
	}
	if report.Count(model.StatusPersistFailed) != 1 || report.Count(model.StatusFixed) != 1 {
		t.Errorf("persist_failed=%d fixed=%d, want 1/1",
			report.Count(model.StatusPersistFailed), report.Count(model.StatusFixed))
	}
	if !errors.Is(report.Results()[0].Err, tags.ErrPersist) {
		t.Errorf("error = %v, want ErrPersist", report.Results()[0].Err)
	}
	if logs.FilterMessage("cannot save fixed tags").Len() != 1 {
		t.Error("expected an error log for the persist failure")
	}
}

func TestTagger_ProgressEvents(t *testing.T) {
	codec := testsupport.NewFakeCodec()
	codec.Add("/music/a.mp3", tags.SchemeFrame, map[string]string{"TPE1": "A / A"})

	q := queue.New[string]()
	_ = q.Put("/music/a.mp3")
	q.Shutdown()

	var events []model.ProgressEvent
	tagger := NewTagger(q, codec, liveConfig(), nil)
	tagger.OnProgress(func(e model.ProgressEvent) { events = append(events, e) })

	if err := tagger.ProcessFiles(context.Background(), nil); err != nil {
		t.Fatalf("ProcessFiles() error: %v", err)
	}
	if len(events) != 1 || events[0].Level != model.LevelSuccess {
		t.Errorf("events = %+v, want one success event", events)
	}
}

func TestTagger_Summaries(t *testing.T) {
	codec := testsupport.NewFakeCodec()
	codec.Add("/music/a.mp3", tags.SchemeFrame, map[string]string{"TPE1": "Queen"})

	cfg := DefaultTagConfig()
	cfg.Summaries = true

	q := queue.New[string]()
	_ = q.Put("/music/a.mp3")
	q.Shutdown()

	tagger := NewTagger(q, codec, cfg, nil)
	tagger.SetSummaryFunc(func(path string) (model.Summary, error) {
		return model.Summary{Artist: "Queen", Track: "3"}, nil
	})

	report := model.NewReport("test", "/music", true)
	if err := tagger.ProcessFiles(context.Background(), report); err != nil {
		t.Fatal(err)
	}
	res := report.Results()[0]
	if res.Summary == nil || res.Summary.Track != "3" {
		t.Errorf("Summary = %+v, want track 3", res.Summary)
	}
}

func TestTagger_WaitsForItemsUntilShutdown(t *testing.T) {
	codec := testsupport.NewFakeCodec()
	codec.Add("/music/late.mp3", tags.SchemeFrame, map[string]string{"TPE1": "L / L"})

	q := queue.New[string]()
	report := model.NewReport("test", "/music", false)

	done := make(chan error, 1)
	go func() {
		done <- NewTagger(q, codec, liveConfig(), nil).ProcessFiles(context.Background(), report)
	}()

	time.Sleep(20 * time.Millisecond)
	_ = q.Put("/music/late.mp3")
	q.Shutdown()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ProcessFiles() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ProcessFiles() did not return after shutdown")
	}
	if report.Count(model.StatusFixed) != 1 {
		t.Errorf("fixed = %d, want 1", report.Count(model.StatusFixed))
	}
}

func TestTagger_Cancelled(t *testing.T) {
	q := queue.New[string]()
	_ = q.Put("/music/a.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewTagger(q, testsupport.NewFakeCodec(), nil, nil).ProcessFiles(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ProcessFiles() error = %v, want context.Canceled", err)
	}
	if q.Len() != 1 {
		t.Error("cancelled tagger should not take items off the queue")
	}
}
