package webhook

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"

	"github.com/seatonfc/contentbridge/internal/repositories/matchgallery"
	"github.com/seatonfc/contentbridge/internal/repositories/newsarticle"
	"github.com/seatonfc/contentbridge/internal/repositories/person"
	"github.com/seatonfc/contentbridge/internal/repositories/sponsor"
	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/transform"
)

// PersonStore is the slice of the people repository the webhook path
// needs.
type PersonStore interface {
	Upsert(ctx context.Context, req models.UpsertPersonRequest) (*person.UpsertResult, error)
	Tombstone(ctx context.Context, sanityID string) error
}

type SponsorStore interface {
	Upsert(ctx context.Context, req models.UpsertSponsorRequest) (*sponsor.UpsertResult, error)
	Tombstone(ctx context.Context, sanityID string) error
}

type GalleryStore interface {
	Upsert(ctx context.Context, req models.UpsertMatchGalleryRequest) (*matchgallery.UpsertResult, error)
	Tombstone(ctx context.Context, sanityID string) error
}

type NewsStore interface {
	Upsert(ctx context.Context, req models.UpsertNewsArticleRequest) (*newsarticle.UpsertResult, error)
	Tombstone(ctx context.Context, sanityID string) error
}

// PersonHandler mirrors playerProfile documents.
type PersonHandler struct {
	store    PersonStore
	validate *validator.Validate
}

func NewPersonHandler(store PersonStore, validate *validator.Validate) *PersonHandler {
	return &PersonHandler{store: store, validate: validate}
}

func (h *PersonHandler) DocumentType() string {
	return models.DocTypePlayerProfile
}

func (h *PersonHandler) Upsert(ctx context.Context, doc map[string]any) (*Outcome, error) {
	req := transform.PersonFromDocument(doc)
	if err := h.validate.Struct(req); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid player profile: %v", err)
	}

	result, err := h.store.Upsert(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		DocumentType: models.DocTypePlayerProfile,
		SanityID:     req.SanityID,
		RecordID:     result.Person.ID,
		IsNew:        result.IsNew,
		IsChanged:    result.IsChanged,
		Record:       result.Person,
	}, nil
}

func (h *PersonHandler) Delete(ctx context.Context, bareID string) error {
	return h.store.Tombstone(ctx, bareID)
}

// SponsorHandler mirrors sponsor documents.
type SponsorHandler struct {
	store    SponsorStore
	validate *validator.Validate
}

func NewSponsorHandler(store SponsorStore, validate *validator.Validate) *SponsorHandler {
	return &SponsorHandler{store: store, validate: validate}
}

func (h *SponsorHandler) DocumentType() string {
	return models.DocTypeSponsor
}

func (h *SponsorHandler) Upsert(ctx context.Context, doc map[string]any) (*Outcome, error) {
	req := transform.SponsorFromDocument(doc)
	if err := h.validate.Struct(req); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid sponsor: %v", err)
	}

	result, err := h.store.Upsert(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		DocumentType: models.DocTypeSponsor,
		SanityID:     req.SanityID,
		RecordID:     result.Sponsor.ID,
		IsNew:        result.IsNew,
		IsChanged:    result.IsChanged,
		Record:       result.Sponsor,
	}, nil
}

func (h *SponsorHandler) Delete(ctx context.Context, bareID string) error {
	return h.store.Tombstone(ctx, bareID)
}

// GalleryHandler mirrors matchGallery documents.
type GalleryHandler struct {
	store    GalleryStore
	validate *validator.Validate
}

func NewGalleryHandler(store GalleryStore, validate *validator.Validate) *GalleryHandler {
	return &GalleryHandler{store: store, validate: validate}
}

func (h *GalleryHandler) DocumentType() string {
	return models.DocTypeMatchGallery
}

func (h *GalleryHandler) Upsert(ctx context.Context, doc map[string]any) (*Outcome, error) {
	req := transform.GalleryFromDocument(doc)
	if err := h.validate.Struct(req); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid match gallery: %v", err)
	}

	result, err := h.store.Upsert(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		DocumentType: models.DocTypeMatchGallery,
		SanityID:     req.SanityID,
		RecordID:     result.Gallery.ID,
		IsNew:        result.IsNew,
		IsChanged:    result.IsChanged,
		Record:       result.Gallery,
	}, nil
}

func (h *GalleryHandler) Delete(ctx context.Context, bareID string) error {
	return h.store.Tombstone(ctx, bareID)
}

// NewsHandler mirrors newsArticle documents.
type NewsHandler struct {
	store    NewsStore
	validate *validator.Validate
}

func NewNewsHandler(store NewsStore, validate *validator.Validate) *NewsHandler {
	return &NewsHandler{store: store, validate: validate}
}

func (h *NewsHandler) DocumentType() string {
	return models.DocTypeNewsArticle
}

func (h *NewsHandler) Upsert(ctx context.Context, doc map[string]any) (*Outcome, error) {
	req := transform.NewsFromDocument(doc)
	if err := h.validate.Struct(req); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid news article: %v", err)
	}

	result, err := h.store.Upsert(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		DocumentType: models.DocTypeNewsArticle,
		SanityID:     req.SanityID,
		RecordID:     result.Article.ID,
		IsNew:        result.IsNew,
		IsChanged:    result.IsChanged,
		Record:       result.Article,
	}, nil
}

func (h *NewsHandler) Delete(ctx context.Context, bareID string) error {
	return h.store.Tombstone(ctx, bareID)
}
