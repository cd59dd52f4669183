// Package importer pushes relational rows into the CMS in batches. It
// is the inbound half of the bridge, triggered from the admin API.
package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/tracing"
	"github.com/seatonfc/contentbridge/pkg/transform"
)

// CMSClient is the slice of the CMS API the importer needs.
type CMSClient interface {
	CanWrite() bool
	FindIDByCrossRef(ctx context.Context, docType, supabaseID string) (string, error)
	Create(ctx context.Context, doc map[string]any) (string, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

// PersonSource lists the people rows to import.
type PersonSource interface {
	ListPlayers(ctx context.Context) ([]models.Person, error)
}

// SponsorSource lists the sponsor rows to import.
type SponsorSource interface {
	List(ctx context.Context) ([]models.Sponsor, error)
}

// Options tune one import run.
type Options struct {
	// BatchSize caps how many records are pushed concurrently. The CMS
	// rate limits mutation traffic; the default stays well under it.
	BatchSize int
	// BatchPause is the wait between batches.
	BatchPause time.Duration
	// DryRun resolves cross-references and validates records without
	// writing to the CMS.
	DryRun bool
	// OnProgress, when set, receives a result snapshot after each record
	// finishes. Called from worker goroutines; keep it fast.
	OnProgress func(snapshot models.ImportResult)
}

func (o Options) withDefaults() Options {
	if o.BatchSize < 1 {
		o.BatchSize = 5
	}
	if o.BatchPause < 0 {
		o.BatchPause = 0
	}
	return o
}

// Importer runs batch imports from the relational store into the CMS.
type Importer struct {
	cms      CMSClient
	people   PersonSource
	sponsors SponsorSource
	logger   ectologger.Logger
	defaults Options
}

func NewImporter(cms CMSClient, people PersonSource, sponsors SponsorSource, logger ectologger.Logger, defaults Options) *Importer {
	return &Importer{
		cms:      cms,
		people:   people,
		sponsors: sponsors,
		logger:   logger,
		defaults: defaults.withDefaults(),
	}
}

// ImportPlayers pushes the current squad into the CMS as playerProfile
// documents. Without a write token the run fails up front and never
// touches the network.
func (i *Importer) ImportPlayers(ctx context.Context, opts *Options) models.ImportResult {
	ctx, span := tracing.StartSpan(ctx, "importer.Importer.ImportPlayers")
	defer span.End()

	result := models.NewImportAccumulator()
	options := i.options(opts)

	if !i.cms.CanWrite() {
		i.logger.WithContext(ctx).Error("Player import aborted: no CMS write token configured")
		result.Fail("auth", "CMS API token is not configured")
		return result.Snapshot()
	}

	players, err := i.people.ListPlayers(ctx)
	if err != nil {
		i.logger.WithContext(ctx).WithError(err).Error("Player import aborted: failed to list players")
		result.Fail("fetch", fmt.Sprintf("failed to list players: %v", err))
		return result.Snapshot()
	}

	result.SetTotal(len(players))
	i.runBatches(ctx, len(players), options, func(idx int) {
		i.importPlayer(ctx, &players[idx], options, result)
		if options.OnProgress != nil {
			options.OnProgress(result.Snapshot())
		}
	})

	snapshot := result.Snapshot()
	i.logger.WithContext(ctx).WithFields(map[string]any{
		"total":   snapshot.Stats.Total,
		"created": snapshot.Created,
		"updated": snapshot.Updated,
		"failed":  snapshot.Failed,
	}).Info("Player import finished")
	return snapshot
}

// ImportSponsors pushes sponsors into the CMS as sponsor documents.
func (i *Importer) ImportSponsors(ctx context.Context, opts *Options) models.ImportResult {
	ctx, span := tracing.StartSpan(ctx, "importer.Importer.ImportSponsors")
	defer span.End()

	result := models.NewImportAccumulator()
	options := i.options(opts)

	if !i.cms.CanWrite() {
		i.logger.WithContext(ctx).Error("Sponsor import aborted: no CMS write token configured")
		result.Fail("auth", "CMS API token is not configured")
		return result.Snapshot()
	}

	sponsors, err := i.sponsors.List(ctx)
	if err != nil {
		i.logger.WithContext(ctx).WithError(err).Error("Sponsor import aborted: failed to list sponsors")
		result.Fail("fetch", fmt.Sprintf("failed to list sponsors: %v", err))
		return result.Snapshot()
	}

	result.SetTotal(len(sponsors))
	i.runBatches(ctx, len(sponsors), options, func(idx int) {
		i.importSponsor(ctx, &sponsors[idx], options, result)
		if options.OnProgress != nil {
			options.OnProgress(result.Snapshot())
		}
	})

	snapshot := result.Snapshot()
	i.logger.WithContext(ctx).WithFields(map[string]any{
		"total":   snapshot.Stats.Total,
		"created": snapshot.Created,
		"updated": snapshot.Updated,
		"failed":  snapshot.Failed,
	}).Info("Sponsor import finished")
	return snapshot
}

func (i *Importer) options(opts *Options) Options {
	if opts == nil {
		return i.defaults
	}
	merged := *opts
	if merged.BatchSize < 1 {
		merged.BatchSize = i.defaults.BatchSize
	}
	if merged.BatchPause == 0 {
		merged.BatchPause = i.defaults.BatchPause
	}
	return merged.withDefaults()
}

// runBatches processes records in concurrent batches with a pause
// between batches.
func (i *Importer) runBatches(ctx context.Context, total int, options Options, work func(idx int)) {
	for start := 0; start < total; start += options.BatchSize {
		end := start + options.BatchSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for idx := start; idx < end; idx++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				work(idx)
			}(idx)
		}
		wg.Wait()

		if end < total && options.BatchPause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(options.BatchPause):
			}
		}
	}
}

func (i *Importer) importPlayer(ctx context.Context, p *models.Person, options Options, result *models.ImportAccumulator) {
	key := p.ID
	if p.FirstName == "" || p.LastName == "" {
		result.RecordFailure(key, "player is missing a first or last name")
		return
	}

	existingID, err := i.cms.FindIDByCrossRef(ctx, models.DocTypePlayerProfile, p.ID)
	if err != nil {
		result.RecordFailure(key, fmt.Sprintf("cross-reference lookup failed: %v", err))
		return
	}

	if options.DryRun {
		if existingID != "" {
			result.RecordUpdated()
		} else {
			result.RecordCreated()
		}
		return
	}

	doc := transform.PersonToDocument(p)
	if existingID != "" {
		if err := i.cms.Update(ctx, existingID, doc); err != nil {
			result.RecordFailure(key, fmt.Sprintf("cms update failed: %v", err))
			return
		}
		result.RecordUpdated()
		return
	}

	if _, err := i.cms.Create(ctx, doc); err != nil {
		result.RecordFailure(key, fmt.Sprintf("cms create failed: %v", err))
		return
	}
	result.RecordCreated()
}

func (i *Importer) importSponsor(ctx context.Context, s *models.Sponsor, options Options, result *models.ImportAccumulator) {
	key := s.ID
	if s.Name == "" {
		result.RecordFailure(key, "sponsor is missing a name")
		return
	}

	existingID, err := i.cms.FindIDByCrossRef(ctx, models.DocTypeSponsor, s.ID)
	if err != nil {
		result.RecordFailure(key, fmt.Sprintf("cross-reference lookup failed: %v", err))
		return
	}

	if options.DryRun {
		if existingID != "" {
			result.RecordUpdated()
		} else {
			result.RecordCreated()
		}
		return
	}

	doc := transform.SponsorToDocument(s)
	if existingID != "" {
		if err := i.cms.Update(ctx, existingID, doc); err != nil {
			result.RecordFailure(key, fmt.Sprintf("cms update failed: %v", err))
			return
		}
		result.RecordUpdated()
		return
	}

	if _, err := i.cms.Create(ctx, doc); err != nil {
		result.RecordFailure(key, fmt.Sprintf("cms create failed: %v", err))
		return
	}
	result.RecordCreated()
}
