package experiments

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ziadkadry99/docshell/internal/events"
	"github.com/ziadkadry99/docshell/internal/lifecycle"
	"github.com/ziadkadry99/docshell/internal/page"
)

const recordTimeout = 5 * time.Second

// Recorder persists experiment and feature events.
type Recorder interface {
	Record(ctx context.Context, e events.Event) (*events.Event, error)
}

// Engine holds the experiment state of one client session. It implements
// lifecycle.Experiments.
type Engine struct {
	sessionID   string
	experiments []Experiment
	recorder    Recorder

	mu          sync.Mutex
	initialized bool
	locale      string
	version     string
	assignments map[string]string
	overrides   map[string]string
	features    []string
}

var _ lifecycle.Experiments = (*Engine)(nil)

// NewEngine creates an Engine for sessionID. recorder may be nil.
func NewEngine(sessionID string, experiments []Experiment, recorder Recorder) *Engine {
	return &Engine{
		sessionID:   sessionID,
		experiments: experiments,
		recorder:    recorder,
		assignments: make(map[string]string),
		overrides:   make(map[string]string),
	}
}

// InitializeExperiments assigns the session to every eligible experiment.
func (e *Engine) InitializeExperiments(locale, currentVersion string, allVersions map[string]page.Version) error {
	if _, ok := allVersions[currentVersion]; !ok {
		return fmt.Errorf("current version %q is not a known version", currentVersion)
	}

	e.mu.Lock()
	e.initialized = true
	e.locale = locale
	e.version = currentVersion
	assigned := e.assignLocked()
	e.mu.Unlock()

	var errs []error
	for _, key := range sortedKeys(assigned) {
		err := e.record(events.Event{
			Type:      events.TypeExperiment,
			SessionID: e.sessionID,
			Locale:    locale,
			Version:   currentVersion,
			Payload:   map[string]string{"experiment": key, "variation": assigned[key]},
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("recording experiment %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// ForwardFeatureURLParam applies the feature query parameter of nav. A
// feature named after an experiment forces its treatment; "key:variation"
// forces a specific variation. Other names are kept as feature flags.
func (e *Engine) ForwardFeatureURLParam(nav lifecycle.Navigation, currentVersion string) error {
	features := parseFeatures(nav.Query[FeatureParam])
	if len(features) == 0 {
		return nil
	}

	e.mu.Lock()
	var unknown []string
	for _, f := range features {
		key, variation, hasVariation := strings.Cut(f, ":")
		x, ok := e.find(key)
		if !ok {
			if !slices.Contains(e.features, f) {
				e.features = append(e.features, f)
			}
			continue
		}
		switch {
		case !hasVariation:
			e.overrides[key] = x.Treatment()
		case x.HasVariation(variation):
			e.overrides[key] = variation
		default:
			unknown = append(unknown, f)
		}
	}
	if e.initialized {
		e.assignLocked()
	}
	e.mu.Unlock()

	err := e.record(events.Event{
		Type:      events.TypeFeature,
		SessionID: e.sessionID,
		Path:      nav.Path,
		Locale:    nav.Locale,
		Version:   currentVersion,
		Payload:   map[string]string{"features": strings.Join(features, ",")},
	})
	if len(unknown) > 0 {
		err = errors.Join(err, fmt.Errorf("unknown variations: %s", strings.Join(unknown, ", ")))
	}
	return err
}

// Variation returns the session's variation for key, or "" when the
// session is not enrolled.
func (e *Engine) Variation(key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.assignments[key]
}

// Assignments returns a copy of the current assignments.
func (e *Engine) Assignments() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.assignments))
	for k, v := range e.assignments {
		out[k] = v
	}
	return out
}

// Features returns the forwarded feature flags that are not experiments.
func (e *Engine) Features() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.features...)
}

// assignLocked recomputes assignments for eligible experiments, honoring
// overrides. Callers must hold e.mu.
func (e *Engine) assignLocked() map[string]string {
	assigned := make(map[string]string)
	for _, x := range e.experiments {
		if !x.Eligible(e.locale, e.version) {
			continue
		}
		v, ok := e.overrides[x.Key]
		if !ok {
			v = x.Assign(e.sessionID)
		}
		e.assignments[x.Key] = v
		assigned[x.Key] = v
	}
	return assigned
}

func (e *Engine) find(key string) (Experiment, bool) {
	for _, x := range e.experiments {
		if x.Key == key {
			return x, true
		}
	}
	return Experiment{}, false
}

func (e *Engine) record(ev events.Event) error {
	if e.recorder == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	_, err := e.recorder.Record(ctx, ev)
	return err
}

// parseFeatures splits repeated and comma-separated feature values.
func parseFeatures(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" && !slices.Contains(out, part) {
				out = append(out, part)
			}
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
