// Package resolve answers cross-store identity questions: which CMS
// document mirrors this row, which row mirrors this document. Answers
// are cached briefly.
package resolve

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/refcache"
	"github.com/seatonfc/contentbridge/pkg/tracing"
)

// CMSLookup finds the CMS document carrying a row's cross-reference.
type CMSLookup interface {
	FindIDByCrossRef(ctx context.Context, docType, supabaseID string) (string, error)
}

// PersonLookup reads the people mirror by CMS document ID.
type PersonLookup interface {
	GetBySanityID(ctx context.Context, sanityID string) (*models.Person, error)
}

// SponsorLookup reads the sponsors mirror by CMS document ID.
type SponsorLookup interface {
	GetBySanityID(ctx context.Context, sanityID string) (*models.Sponsor, error)
}

// Resolver maps identities across the two stores.
type Resolver struct {
	cms      CMSLookup
	people   PersonLookup
	sponsors SponsorLookup
	cache    *refcache.Cache
	logger   ectologger.Logger
}

func NewResolver(cms CMSLookup, people PersonLookup, sponsors SponsorLookup, ttl time.Duration, logger ectologger.Logger) *Resolver {
	return &Resolver{
		cms:      cms,
		people:   people,
		sponsors: sponsors,
		cache:    refcache.New(ttl),
		logger:   logger,
	}
}

// DocumentIDForRecord returns the CMS document ID mirroring the given
// row, or an empty string when none exists.
func (r *Resolver) DocumentIDForRecord(ctx context.Context, docType, recordID string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "resolve.Resolver.DocumentIDForRecord")
	defer span.End()

	v, err := r.cache.GetOrSet(ctx, "doc:"+docType+":"+recordID, func(ctx context.Context) (any, error) {
		return r.cms.FindIDByCrossRef(ctx, docType, recordID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// PersonForDocument returns the people row mirroring the given CMS
// document, draft or published. Returns nil when the mirror has no
// live row.
func (r *Resolver) PersonForDocument(ctx context.Context, documentID string) (*models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "resolve.Resolver.PersonForDocument")
	defer span.End()

	bareID := models.BareID(documentID)
	v, err := r.cache.GetOrSet(ctx, "person:"+bareID, func(ctx context.Context) (any, error) {
		return r.people.GetBySanityID(ctx, bareID)
	})
	if err != nil {
		return nil, err
	}
	person, _ := v.(*models.Person)
	return person, nil
}

// SponsorForDocument returns the sponsors row mirroring the given CMS
// document.
func (r *Resolver) SponsorForDocument(ctx context.Context, documentID string) (*models.Sponsor, error) {
	ctx, span := tracing.StartSpan(ctx, "resolve.Resolver.SponsorForDocument")
	defer span.End()

	bareID := models.BareID(documentID)
	v, err := r.cache.GetOrSet(ctx, "sponsor:"+bareID, func(ctx context.Context) (any, error) {
		return r.sponsors.GetBySanityID(ctx, bareID)
	})
	if err != nil {
		return nil, err
	}
	sponsor, _ := v.(*models.Sponsor)
	return sponsor, nil
}

// InvalidateDocument drops cached answers for one document after a
// write changes them.
func (r *Resolver) InvalidateDocument(documentID string) {
	bareID := models.BareID(documentID)
	r.cache.Invalidate("person:" + bareID)
	r.cache.Invalidate("sponsor:" + bareID)
}
