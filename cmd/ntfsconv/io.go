package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/codec/netexref"
	"github.com/transitmodel/core/internal/codec/tabular"
	"github.com/transitmodel/core/internal/model"
	"github.com/transitmodel/core/internal/pipelineconfig"
	"github.com/transitmodel/core/internal/report"
	"github.com/transitmodel/core/internal/reportview"
)

// readTable opens path and invokes read against its contents, tolerating
// a missing file (most of these tables are optional in a partial feed).
func readTable(path string, read func(f *os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return read(f)
}

// loadModel reads the tabular reference feed under dir and assembles a
// Model from it.
func loadModel(dir string, cfg pipelineconfig.ReaderConfig) (*model.Model, error) {
	b := bag.New()

	if err := readTable(filepath.Join(dir, "networks.txt"), func(f *os.File) error {
		return tabular.ReadNetworks(f, b)
	}); err != nil {
		return nil, err
	}
	if err := readTable(filepath.Join(dir, "stop_areas.txt"), func(f *os.File) error {
		return tabular.ReadStopAreas(f, b)
	}); err != nil {
		return nil, err
	}
	if err := readTable(filepath.Join(dir, "stops.txt"), func(f *os.File) error {
		return tabular.ReadStopPoints(f, b, cfg)
	}); err != nil {
		return nil, err
	}
	if err := readTable(filepath.Join(dir, "lines.txt"), func(f *os.File) error {
		return tabular.ReadLines(f, b)
	}); err != nil {
		return nil, err
	}

	return model.Assemble(b)
}

// archiveRetryMaxElapsed bounds the retry window for writing an output
// archive to a collaborator-managed destination (e.g. a network mount)
// that may reject writes transiently.
const archiveRetryMaxElapsed = 15 * time.Second

func newArchiveRetryBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = archiveRetryMaxElapsed
	return bo
}

// writeModel writes m's Networks and Lines out to dir as networks.txt and
// lines.txt (plus a NeTEx file when netexOut is set), retrying transient
// write failures with exponential backoff. Stop areas and stop points are
// not written.
func writeModel(dir string, m *model.Model, netexOut string, cfg pipelineconfig.NetexWriterConfig) error {
	b := m.Decompose()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ntfsconv: creating output directory: %w", err)
	}

	write := func(name string, body func(f *os.File) error) error {
		return backoff.Retry(func() error {
			f, err := os.Create(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			defer f.Close()
			return body(f)
		}, newArchiveRetryBackoff())
	}

	if err := write("networks.txt", func(f *os.File) error { return tabular.WriteNetworks(f, b) }); err != nil {
		return err
	}
	if err := write("lines.txt", func(f *os.File) error { return tabular.WriteLines(f, b) }); err != nil {
		return err
	}

	if netexOut != "" {
		if err := write(filepath.Base(netexOut), func(f *os.File) error { return netexref.Write(f, b, cfg) }); err != nil {
			return err
		}
	}

	return nil
}

func emitReport(rep *report.Report) {
	if jsonReport {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(rep)
		return
	}
	reportview.Render(os.Stdout, rep)
}
