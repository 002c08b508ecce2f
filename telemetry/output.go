package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/zstd"

	"github.com/pthm-cable/hive/config"
)

// GovernorRow is one degradation governor sample for governor.csv.
type GovernorRow struct {
	Session        string  `csv:"session"`
	Tick           int32   `csv:"tick"`
	FPS            float64 `csv:"fps"`
	FrameTimeMS    float64 `csv:"frame_time_ms"`
	MemoryDeltaMB  float64 `csv:"memory_delta_mb"`
	CPUOverheadPct float64 `csv:"cpu_overhead_pct"`
	Grade          string  `csv:"grade"`
	Level          int     `csv:"level"`
}

// csvSink is one CSV output file that writes its header once.
type csvSink struct {
	name          string
	file          *os.File
	w             io.Writer
	enc           *zstd.Encoder
	headerWritten bool
}

func openSink(dir, name string, compress bool) (*csvSink, error) {
	if compress {
		name += ".zst"
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	s := &csvSink{name: name, file: f, w: f}
	if compress {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating %s encoder: %w", name, err)
		}
		s.enc = enc
		s.w = enc
	}
	return s, nil
}

// write marshals records, including headers only on the first call.
func (s *csvSink) write(records any) error {
	if !s.headerWritten {
		if err := gocsv.Marshal(records, s.w); err != nil {
			return fmt.Errorf("writing %s: %w", s.name, err)
		}
		s.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, s.w); err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	return nil
}

func (s *csvSink) close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.enc != nil {
		firstErr = s.enc.Close()
	}
	if err := s.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	session   string
	telemetry *csvSink
	perf      *csvSink
	governor  *csvSink
	bookmarks *csvSink
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled). Each row is tagged with session.
func NewOutputManager(dir, session string, compress bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, session: session}
	sinks := []struct {
		dst  **csvSink
		name string
	}{
		{&om.telemetry, "telemetry.csv"},
		{&om.perf, "perf.csv"},
		{&om.governor, "governor.csv"},
		{&om.bookmarks, "bookmarks.csv"},
	}
	for _, s := range sinks {
		sink, err := openSink(dir, s.name, compress)
		if err != nil {
			om.Close()
			return nil, err
		}
		*s.dst = sink
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	stats.Session = om.session
	return om.telemetry.write([]WindowStats{stats})
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	row := stats.ToCSV(windowEnd)
	row.Session = om.session
	return om.perf.write([]PerfStatsCSV{row})
}

// WriteGovernor writes a governor sample to governor.csv.
func (om *OutputManager) WriteGovernor(row GovernorRow) error {
	if om == nil {
		return nil
	}
	row.Session = om.session
	return om.governor.write([]GovernorRow{row})
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	b.Session = om.session
	return om.bookmarks.write([]Bookmark{b})
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, s := range []*csvSink{om.telemetry, om.perf, om.governor, om.bookmarks} {
		if err := s.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
