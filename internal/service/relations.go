package service

import (
	"context"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/storage"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"go.uber.org/zap"
)

type StoreView struct {
	models.Store
	CreatedBy *models.UserSummary `json:"createdBy"`
	UpdatedBy *models.UserSummary `json:"updatedBy"`
}

type PlanogramView struct {
	models.Planogram
	Store     *models.StoreSummary `json:"store"`
	CreatedBy *models.UserSummary  `json:"createdBy"`
	UpdatedBy *models.UserSummary  `json:"updatedBy"`
}

type UploadView struct {
	models.Upload
	URL string `json:"url"`
}

type SubmissionView struct {
	models.Submission
	UploadedBy *models.UserSummary      `json:"uploadedBy"`
	Store      *models.StoreSummary     `json:"store"`
	Planogram  *models.PlanogramSummary `json:"planogram"`
	Uploads    []UploadView             `json:"uploads"`
}

// Relations attaches referenced rows to a batch of records. Each related
// table is read once per batch. A failed read leaves that relation nil for
// the whole batch instead of failing it.
type Relations struct {
	users      *repository.UserRepository
	stores     *repository.StoreRepository
	planograms *repository.PlanogramRepository
	uploads    *repository.UploadRepository
	storage    storage.Storage
	urlTTL     time.Duration
	log        *zap.Logger
}

func NewRelations(
	users *repository.UserRepository,
	stores *repository.StoreRepository,
	planograms *repository.PlanogramRepository,
	uploads *repository.UploadRepository,
	store storage.Storage,
	urlTTL time.Duration,
) *Relations {
	return &Relations{
		users:      users,
		stores:     stores,
		planograms: planograms,
		uploads:    uploads,
		storage:    store,
		urlTTL:     urlTTL,
		log:        logger.Named("relations"),
	}
}

// batch loads the rows behind ids keyed by id. On error the map is empty.
func batch[T any](
	ctx context.Context,
	log *zap.Logger,
	relation string,
	ids []string,
	find func(context.Context, []string) ([]T, error),
	key func(*T) string,
) map[string]*T {
	out := make(map[string]*T)
	ids = distinct(ids)
	if len(ids) == 0 {
		return out
	}

	rows, err := find(ctx, ids)
	if err != nil {
		log.Warn("Relation lookup failed, leaving it empty",
			zap.String("relation", relation),
			zap.Int("ids", len(ids)),
			zap.Error(err),
		)
		return out
	}
	for i := range rows {
		out[key(&rows[i])] = &rows[i]
	}
	return out
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *Relations) userSummaries(ctx context.Context, ids []string) map[string]*models.UserSummary {
	users := batch(ctx, r.log, "user", ids, r.users.FindByIDs, func(u *models.User) string { return u.ID })
	out := make(map[string]*models.UserSummary, len(users))
	for id, u := range users {
		out[id] = u.Summary()
	}
	return out
}

func (r *Relations) Stores(ctx context.Context, rows []models.Store) []StoreView {
	var userIDs []string
	for _, s := range rows {
		userIDs = append(userIDs, deref(s.CreatedByID), deref(s.UpdatedByID))
	}
	users := r.userSummaries(ctx, userIDs)

	views := make([]StoreView, len(rows))
	for i, s := range rows {
		views[i] = StoreView{
			Store:     s,
			CreatedBy: users[deref(s.CreatedByID)],
			UpdatedBy: users[deref(s.UpdatedByID)],
		}
	}
	return views
}

func (r *Relations) Planograms(ctx context.Context, rows []models.Planogram) []PlanogramView {
	var userIDs, storeIDs []string
	for _, p := range rows {
		userIDs = append(userIDs, deref(p.CreatedByID), deref(p.UpdatedByID))
		storeIDs = append(storeIDs, p.StoreID)
	}
	users := r.userSummaries(ctx, userIDs)
	stores := batch(ctx, r.log, "store", storeIDs, r.stores.FindByIDs, func(s *models.Store) string { return s.ID })

	views := make([]PlanogramView, len(rows))
	for i, p := range rows {
		views[i] = PlanogramView{
			Planogram: p,
			CreatedBy: users[deref(p.CreatedByID)],
			UpdatedBy: users[deref(p.UpdatedByID)],
		}
		if s, ok := stores[p.StoreID]; ok {
			views[i].Store = s.Summary()
		}
	}
	return views
}

func (r *Relations) Uploads(ctx context.Context, rows []models.Upload) []UploadView {
	views := make([]UploadView, len(rows))
	for i, u := range rows {
		views[i] = UploadView{Upload: u}
		if r.storage == nil {
			continue
		}
		url, err := r.storage.SignedURL(ctx, u.Filename, r.urlTTL)
		if err != nil {
			r.log.Warn("Failed to sign upload URL", zap.String("upload_id", u.ID), zap.Error(err))
			continue
		}
		views[i].URL = url
	}
	return views
}

// Submissions populates uploadedBy, store, planogram and the uploads listed
// in uploadIds, in list order. Ids with no row are skipped.
func (r *Relations) Submissions(ctx context.Context, rows []models.Submission) []SubmissionView {
	var userIDs, storeIDs, planogramIDs, uploadIDs []string
	lists := make([][]string, len(rows))
	for i, s := range rows {
		userIDs = append(userIDs, s.UploadedByID)
		storeIDs = append(storeIDs, s.StoreID)
		planogramIDs = append(planogramIDs, s.PlanogramID)
		lists[i] = s.UploadIDList()
		uploadIDs = append(uploadIDs, lists[i]...)
	}

	users := r.userSummaries(ctx, userIDs)
	stores := batch(ctx, r.log, "store", storeIDs, r.stores.FindByIDs, func(s *models.Store) string { return s.ID })
	planograms := batch(ctx, r.log, "planogram", planogramIDs, r.planograms.FindByIDs, func(p *models.Planogram) string { return p.ID })
	uploads := batch(ctx, r.log, "upload", uploadIDs, r.uploads.FindByIDs, func(u *models.Upload) string { return u.ID })

	views := make([]SubmissionView, len(rows))
	for i, s := range rows {
		views[i] = SubmissionView{
			Submission: s,
			UploadedBy: users[s.UploadedByID],
			Uploads:    []UploadView{},
		}
		if st, ok := stores[s.StoreID]; ok {
			views[i].Store = st.Summary()
		}
		if p, ok := planograms[s.PlanogramID]; ok {
			views[i].Planogram = p.Summary()
		}

		ordered := make([]models.Upload, 0, len(lists[i]))
		for _, id := range lists[i] {
			if u, ok := uploads[id]; ok {
				ordered = append(ordered, *u)
			}
		}
		views[i].Uploads = r.Uploads(ctx, ordered)
	}
	return views
}
