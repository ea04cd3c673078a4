package content

import (
	"context"
	"strings"
)

var protectedRecordKeys = []string{"id", "createdBy", "createdAt", "updatedAt"}

// ListEpisodes returns every episode in storage order. On storage failure it
// returns an empty slice together with an ErrStorageUnavailable error.
func (r *Repository) ListEpisodes(ctx context.Context) ([]Episode, error) {
	return scan[Episode](ctx, r, EpisodePrefix)
}

// GetEpisode returns a single episode.
func (r *Repository) GetEpisode(ctx context.Context, id string) (Episode, error) {
	if !strings.HasPrefix(id, EpisodePrefix) {
		return Episode{}, ErrNotFound
	}
	var ep Episode
	if err := r.load(ctx, id, &ep); err != nil {
		return Episode{}, err
	}
	return ep, nil
}

// CreateEpisode stores a new episode on behalf of actor. The id, publish date
// and creation stamps are assigned here; any values in input are replaced.
func (r *Repository) CreateEpisode(ctx context.Context, input Episode, actor string) (Episode, error) {
	if err := requireActor(actor); err != nil {
		return Episode{}, err
	}
	if err := input.Validate(); err != nil {
		return Episode{}, asValidationError(err)
	}
	now := r.now().UTC()
	ep := input
	ep.ID = r.newID(EpisodePrefix, now)
	ep.Title = strings.TrimSpace(ep.Title)
	ep.PublishDate = now.Format(dateLayout)
	ep.Tags = normalizeTags(ep.Tags)
	ep.CreatedBy = actor
	ep.CreatedAt = now
	ep.UpdatedAt = nil
	if err := r.save(ctx, ep.ID, ep); err != nil {
		return Episode{}, err
	}
	return ep, nil
}

// UpdateEpisode shallow-merges patch over the stored episode. Any
// authenticated actor may edit any episode.
func (r *Repository) UpdateEpisode(ctx context.Context, id string, patch Patch, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !strings.HasPrefix(id, EpisodePrefix) {
		return ErrNotFound
	}
	var ep Episode
	if err := r.merge(ctx, id, patch, &ep, protectedRecordKeys...); err != nil {
		return err
	}
	if err := ep.Validate(); err != nil {
		return asValidationError(err)
	}
	now := r.now().UTC()
	ep.ID = id
	ep.Tags = normalizeTags(ep.Tags)
	ep.UpdatedAt = &now
	return r.save(ctx, id, ep)
}

// DeleteEpisode removes an episode. Deleting a missing id succeeds.
func (r *Repository) DeleteEpisode(ctx context.Context, id string, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !strings.HasPrefix(id, EpisodePrefix) {
		return nil
	}
	return r.remove(ctx, id)
}
