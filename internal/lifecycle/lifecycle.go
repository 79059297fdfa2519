// Package lifecycle runs the analytics and experiment entry points for a
// mounted client session.
package lifecycle

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/ziadkadry99/docshell/internal/page"
)

// FallbackLocale is used when a session mounts without a locale.
const FallbackLocale = "en"

// Analytics is the analytics entry point.
type Analytics interface {
	InitializeEvents() error
}

// Experiments is the experiment and feature-flag entry point.
type Experiments interface {
	InitializeExperiments(locale, currentVersion string, allVersions map[string]page.Version) error
	ForwardFeatureURLParam(nav Navigation, currentVersion string) error
}

// Navigation is the current route of a client session.
type Navigation struct {
	Path   string
	Query  url.Values
	Locale string
}

// Initializer runs mount-only initialization once and forwards feature
// flags whenever the navigation dependencies change. Failures from either
// entry point are logged and never returned.
type Initializer struct {
	analytics   Analytics
	experiments Experiments
	logger      *slog.Logger

	mount sync.Once

	mu      sync.Mutex
	navSeen bool
	lastNav string
}

// New creates an Initializer. Any of the arguments may be nil.
func New(analytics Analytics, experiments Experiments, logger *slog.Logger) *Initializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Initializer{
		analytics:   analytics,
		experiments: experiments,
		logger:      logger,
	}
}

// Mount runs the mount-only effect. Only the first call has any effect.
func (i *Initializer) Mount(locale string, props page.Props) {
	i.mount.Do(func() {
		if i.analytics != nil {
			i.report("Error initializing events", i.analytics.InitializeEvents)
		}

		mc := props.MainContext
		if mc == nil || i.experiments == nil {
			return
		}
		if locale == "" {
			locale = FallbackLocale
		}
		i.report("Error initializing experiments", func() error {
			return i.experiments.InitializeExperiments(locale, mc.CurrentVersion, mc.AllVersions)
		})
	})
}

// Navigate runs the navigation effect. Feature-flag forwarding is invoked
// only when the route, its query, or the main context differ from the
// previous call, and only when a main context is present. It reports
// whether forwarding was invoked.
func (i *Initializer) Navigate(nav Navigation, props page.Props) bool {
	key := navigationKey(nav, props.MainContext)

	i.mu.Lock()
	if i.navSeen && key == i.lastNav {
		i.mu.Unlock()
		return false
	}
	i.navSeen = true
	i.lastNav = key
	i.mu.Unlock()

	mc := props.MainContext
	if mc == nil || i.experiments == nil {
		return false
	}
	i.report("Error initializing feature param forwarding", func() error {
		return i.experiments.ForwardFeatureURLParam(nav, mc.CurrentVersion)
	})
	return true
}

// report runs fn and logs any error or panic under msg.
func (i *Initializer) report(msg string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error(msg, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		i.logger.Error(msg, "error", err)
	}
}

func navigationKey(nav Navigation, mc *page.MainContext) string {
	var b strings.Builder
	b.WriteString(nav.Path)
	b.WriteByte('?')
	b.WriteString(nav.Query.Encode())
	b.WriteByte('|')
	if mc == nil {
		b.WriteString("-")
		return b.String()
	}
	b.WriteString(mc.CurrentVersion)
	b.WriteByte('|')
	b.WriteString(strings.Join(mc.VersionIDs(), ","))
	return b.String()
}
