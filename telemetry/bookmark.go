package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkLevelSpike        BookmarkType = "level_spike"
	BookmarkCapSaturation     BookmarkType = "cap_saturation"
	BookmarkDistributionDrift BookmarkType = "distribution_drift"
	BookmarkEnergyStarvation  BookmarkType = "energy_starvation"
	BookmarkStableSwarm       BookmarkType = "stable_swarm"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Session     string       `csv:"session"`
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// driftWindows is how many consecutive inaccurate windows count as drift.
const driftWindows = 3

// BookmarkDetector detects interesting moments in a swarm run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	lastLevel          int
	saturated          bool // live+pending reached the active cap last window
	driftCount         int  // consecutive windows off the target ratio
	stableWindowsCount int  // consecutive windows with a stable population
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable swarm detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkLevelSpike,
		bd.checkCapSaturation,
		bd.checkDistributionDrift,
		bd.checkEnergyStarvation,
		bd.checkStableSwarm,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	bd.lastLevel = stats.Level

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

// checkLevelSpike fires when degradation jumps two or more levels, or
// reaches critical, within one window.
func (bd *BookmarkDetector) checkLevelSpike(stats WindowStats) *Bookmark {
	if stats.Level <= bd.lastLevel {
		return nil
	}
	if stats.Level-bd.lastLevel < 2 && stats.Level < 3 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkLevelSpike,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Degradation rose from level %d to %d", bd.lastLevel, stats.Level),
	}
}

// checkCapSaturation fires on the first window in which the swarm fills the active cap.
func (bd *BookmarkDetector) checkCapSaturation(stats WindowStats) *Bookmark {
	full := stats.ActiveCap > 0 && stats.Live()+stats.Pending >= stats.ActiveCap
	was := bd.saturated
	bd.saturated = full
	if !full || was {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkCapSaturation,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Swarm filled active cap %d (%d live, %d pending)", stats.ActiveCap, stats.Live(), stats.Pending),
	}
}

// checkDistributionDrift fires once the kind ratio has been outside tolerance
// for driftWindows consecutive windows with a meaningful sample.
func (bd *BookmarkDetector) checkDistributionDrift(stats WindowStats) *Bookmark {
	if stats.RatioAccurate || stats.Live() < 10 {
		bd.driftCount = 0
		return nil
	}
	bd.driftCount++
	if bd.driftCount != driftWindows {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkDistributionDrift,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Kind ratio off target for %d windows (energy %.2f, combat %.2f)", driftWindows, stats.EnergyRatio, stats.CombatRatio),
	}
}

// checkEnergyStarvation fires when the denial rate is more than twice its rolling average.
func (bd *BookmarkDetector) checkEnergyStarvation(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.DenialRate
	}
	avg := total / float64(len(history))

	if stats.Denials < 5 || stats.DenialRate <= avg*2.0 || stats.DenialRate < 0.2 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkEnergyStarvation,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Denial rate %.2f against average %.2f with budget %.1f", stats.DenialRate, avg, stats.Budget),
	}
}

func (bd *BookmarkDetector) checkStableSwarm(stats WindowStats) *Bookmark {
	if stats.Live() < 10 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Live())
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Live()) - mean
		variance += d * d
	}
	variance /= 4

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 && stats.Level == 0 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 {
		return &Bookmark{
			Type:        BookmarkStableSwarm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable swarm of %d parasites at level 0 over 5+ windows", stats.Live()),
		}
	}

	return nil
}
