package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sutherm/glos-geo/internal/aggregate"
	"github.com/sutherm/glos-geo/internal/coverage"
	"github.com/sutherm/glos-geo/internal/dedup"
	"github.com/sutherm/glos-geo/internal/hexgrid"
	"github.com/sutherm/glos-geo/internal/model"
	"github.com/sutherm/glos-geo/internal/writer"
)

// Run executes one gridding run over the inputs and returns its report.
// Individual source failures are recorded in the report without aborting;
// Run fails on cancellation, bad configuration, and output errors.
func (p *Pipeline) Run(ctx context.Context, inputs []Input) (*RunSummary, error) {
	if !p.cfg.Mode.Valid() {
		return nil, fmt.Errorf("unknown aggregation mode %q", p.cfg.Mode)
	}
	if len(p.cfg.Resolutions) == 0 {
		return nil, errors.New("no grid resolutions configured")
	}

	start := time.Now()
	summary := &RunSummary{
		RunID:     uuid.NewString(),
		Name:      p.cfg.Name,
		Mode:      string(p.cfg.Mode),
		StartedAt: start.UTC(),
	}

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.logger.Info("run started",
		"run_id", summary.RunID,
		"mode", summary.Mode,
		"sources", len(inputs),
		"resolutions", p.cfg.Resolutions,
	)

	state := newRunState(p.cfg.Resolutions)
	if err := p.indexSources(ctx, state, inputs); err != nil {
		return nil, err
	}

	failed := state.failedSources()
	p.logger.Info("indexing complete", "sources", len(inputs), "failed", len(failed))

	// Workers are done; walk each resolution through merge, duplicate
	// removal, aggregation, and output, coarsest first.
	var all, finest []model.IndexedRecord
	for _, res := range slices.Sorted(slices.Values(p.cfg.Resolutions)) {
		if err := state.advance(res, StateIndexed); err != nil {
			return nil, err
		}

		merged := mergeRecords(state, res)
		if err := state.advance(res, StateMerged); err != nil {
			return nil, err
		}

		records := dedup.Records(merged, model.IndexedRecord.Key)
		dropped := len(merged) - len(records)
		p.metrics.DuplicatesDropped.Add(float64(dropped))
		if err := state.advance(res, StateDeduplicated); err != nil {
			return nil, err
		}

		p.logger.Info("resolution merged",
			"resolution", res,
			"records", len(records),
			"duplicates", dropped,
		)

		result := ResolutionResult{Resolution: res, Records: len(records), Duplicates: dropped}
		if len(records) > 0 {
			paths, cells, err := p.persist(res, records)
			if err != nil {
				return nil, err
			}
			result.Cells = cells
			summary.Outputs = append(summary.Outputs, paths...)
			p.metrics.CellsAggregated.WithLabelValues(strconv.Itoa(res)).Add(float64(cells))
		} else {
			p.logger.Warn("no records at resolution", "resolution", res)
		}
		if err := state.advance(res, StatePersisted); err != nil {
			return nil, err
		}

		summary.Resolutions = append(summary.Resolutions, result)
		all = append(all, records...)
		finest = records
	}

	// Period statistics are identical at every resolution, so report them
	// once from the finest level.
	if p.cfg.Mode == aggregate.ModeTemporal && len(finest) > 0 {
		periods, err := aggregate.Summarize(finest, aggregate.ModeTemporal)
		if err != nil {
			return nil, err
		}
		for _, c := range periods {
			summary.Periods = append(summary.Periods, PeriodResult{
				Period:      c.Key,
				Count:       c.Count,
				MedianDepth: c.MedianDepth,
				MinDepth:    c.MinDepth,
				MaxDepth:    c.MaxDepth,
				StdDev:      c.StdDev,
			})
		}
	}

	if len(all) > 0 {
		idx, err := coverage.Build(all)
		if err != nil {
			return nil, err
		}
		p.logger.Info("coverage indexed", "cells", idx.Count())

		path, err := p.writer.WriteExtentsGeoJSON(writer.ExtentsName, idx.SurveyExtents())
		if err != nil {
			return nil, err
		}
		summary.Outputs = append(summary.Outputs, path)
	}

	counts := state.sourceCounts()
	for _, in := range inputs {
		sr := SourceResult{Name: in.Name, Soundings: counts[in.Name]}
		if err, ok := failed[in.Name]; ok {
			sr.Error = err.Error()
		}
		summary.Sources = append(summary.Sources, sr)
	}
	summary.Complete = len(failed) == 0
	summary.FinishedAt = time.Now().UTC()

	if _, err := p.writer.WriteRunSummary(writer.RunSummaryName, summary); err != nil {
		return nil, err
	}

	p.logger.Info("run complete",
		"run_id", summary.RunID,
		"complete", summary.Complete,
		"outputs", len(summary.Outputs),
		"duration", time.Since(start),
	)

	return summary, nil
}

// indexSources fans the inputs out over the configured worker count. A
// source that fails is recorded on the state; only cancellation stops the
// group.
func (p *Pipeline) indexSources(ctx context.Context, state *runState, inputs []Input) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for _, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.indexSource(state, in); err != nil {
				state.markFailed(in.Name, err)
				p.metrics.SourcesFailed.Inc()
				p.logger.Error("source failed", "source", in.Name, "err", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// indexSource reads one file and appends its records to every configured
// resolution. Soundings outside the clip region or the coordinate domain
// are dropped, not errors.
func (p *Pipeline) indexSource(state *runState, in Input) error {
	start := time.Now()

	soundings, err := in.Source.ReadSoundings(in.Path)
	if err != nil {
		return err
	}
	state.markRead(in.Name, len(soundings))
	p.metrics.SoundingsRead.Add(float64(len(soundings)))

	perRes := make(map[int][]model.IndexedRecord, len(p.cfg.Resolutions))
	var clipped, invalid int
	for _, snd := range soundings {
		if p.cfg.BBox != nil && !p.cfg.BBox.Contains(snd.Lat, snd.Lon) {
			clipped++
			p.metrics.SoundingsRejected.WithLabelValues("bbox").Inc()
			continue
		}

		rejected := false
		for _, res := range p.cfg.Resolutions {
			id, err := hexgrid.Cell(snd.Lat, snd.Lon, res)
			if err != nil {
				var coordErr *hexgrid.InvalidCoordinateError
				if errors.As(err, &coordErr) {
					rejected = true
					break
				}
				return fmt.Errorf("index %s at resolution %d: %w", in.Name, res, err)
			}
			perRes[res] = append(perRes[res], model.IndexedRecord{
				CellID:     id,
				Resolution: res,
				Lat:        snd.Lat,
				Lon:        snd.Lon,
				Depth:      snd.Depth,
				Time:       snd.Time,
				Period:     snd.PeriodKey(),
				Survey:     snd.Survey,
			})
		}
		if rejected {
			invalid++
			p.metrics.SoundingsRejected.WithLabelValues("range").Inc()
		}
	}

	for res, recs := range perRes {
		state.appendRecords(res, recs)
		p.metrics.RecordsIndexed.WithLabelValues(strconv.Itoa(res)).Add(float64(len(recs)))
	}

	p.metrics.SourceDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("source indexed",
		"source", in.Name,
		"soundings", len(soundings),
		"clipped", clipped,
		"invalid", invalid,
		"duration", time.Since(start),
	)
	return nil
}

// mergeRecords coalesces every source's records for one resolution into a
// deterministic order, independent of worker completion order.
func mergeRecords(state *runState, res int) []model.IndexedRecord {
	recs := state.takeRecords(res)
	slices.SortFunc(recs, func(a, b model.IndexedRecord) int {
		return strings.Compare(a.Key(), b.Key())
	})
	return recs
}

// persist renders one resolution's records. Spatial mode writes the cell
// layer and its aggregated summary layer; temporal mode writes one cell
// layer per survey period. Returns the paths written and the distinct cell
// count.
func (p *Pipeline) persist(res int, records []model.IndexedRecord) ([]string, int, error) {
	if p.cfg.Mode == aggregate.ModeTemporal {
		groups, err := aggregate.Partition(records, aggregate.ModeTemporal)
		if err != nil {
			return nil, 0, err
		}

		var paths []string
		for _, period := range slices.Sorted(maps.Keys(groups)) {
			ps, err := p.writeRecords(writer.PeriodCellsName(res, period), groups[period])
			if err != nil {
				return nil, 0, err
			}
			paths = append(paths, ps...)
		}
		return paths, distinctCells(records), nil
	}

	paths, err := p.writeRecords(writer.CellsName(res), records)
	if err != nil {
		return nil, 0, err
	}

	cells, err := aggregate.Summarize(records, aggregate.ModeSpatial)
	if err != nil {
		return nil, 0, err
	}
	ps, err := p.writeSummary(writer.SummaryName(res), cells)
	if err != nil {
		return nil, 0, err
	}
	return append(paths, ps...), len(cells), nil
}

func (p *Pipeline) writeRecords(name string, records []model.IndexedRecord) ([]string, error) {
	var paths []string
	for _, format := range p.cfg.Formats {
		start := time.Now()
		var (
			path string
			err  error
		)
		switch format {
		case "geojson":
			path, err = p.writer.WriteRecordsGeoJSON(name, records)
		case "shapefile":
			path, err = p.writer.WriteRecordsShapefile(name, records)
		default:
			return nil, fmt.Errorf("unknown output format %q", format)
		}
		if err != nil {
			return nil, err
		}
		p.metrics.WriteDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
		paths = append(paths, path)
	}
	return paths, nil
}

func (p *Pipeline) writeSummary(name string, cells []model.AggregatedCell) ([]string, error) {
	var paths []string
	for _, format := range p.cfg.Formats {
		start := time.Now()
		var (
			path string
			err  error
		)
		switch format {
		case "geojson":
			path, err = p.writer.WriteSummaryGeoJSON(name, cells)
		case "shapefile":
			path, err = p.writer.WriteSummaryShapefile(name, cells)
		default:
			return nil, fmt.Errorf("unknown output format %q", format)
		}
		if err != nil {
			return nil, err
		}
		p.metrics.WriteDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
		paths = append(paths, path)
	}
	return paths, nil
}

func distinctCells(records []model.IndexedRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.CellID] = struct{}{}
	}
	return len(seen)
}
