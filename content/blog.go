package content

import (
	"context"
	"strings"
)

// ListPublishedBlogPosts returns the posts visible to anonymous visitors.
func (r *Repository) ListPublishedBlogPosts(ctx context.Context) ([]BlogPost, error) {
	posts, err := scan[BlogPost](ctx, r, BlogPrefix)
	if err != nil {
		return posts, err
	}
	published := make([]BlogPost, 0, len(posts))
	for _, p := range posts {
		if p.Published {
			published = append(published, p)
		}
	}
	return published, nil
}

// ListAllBlogPosts returns drafts and published posts for the admin listing.
func (r *Repository) ListAllBlogPosts(ctx context.Context, actor string) ([]BlogPost, error) {
	if err := requireActor(actor); err != nil {
		return []BlogPost{}, err
	}
	return scan[BlogPost](ctx, r, BlogPrefix)
}

// GetBlogPost returns a post regardless of its published flag.
func (r *Repository) GetBlogPost(ctx context.Context, id string) (BlogPost, error) {
	if !strings.HasPrefix(id, BlogPrefix) {
		return BlogPost{}, ErrNotFound
	}
	var p BlogPost
	if err := r.load(ctx, id, &p); err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

// GetPublishedBlogPost returns a post only if it is published.
func (r *Repository) GetPublishedBlogPost(ctx context.Context, id string) (BlogPost, error) {
	p, err := r.GetBlogPost(ctx, id)
	if err != nil {
		return BlogPost{}, err
	}
	if !p.Published {
		return BlogPost{}, ErrNotFound
	}
	return p, nil
}

// CreateBlogPost stores a new post on behalf of actor. A blank ReadTime is
// derived from the content.
func (r *Repository) CreateBlogPost(ctx context.Context, input BlogPost, actor string) (BlogPost, error) {
	if err := requireActor(actor); err != nil {
		return BlogPost{}, err
	}
	if err := input.Validate(); err != nil {
		return BlogPost{}, asValidationError(err)
	}
	now := r.now().UTC()
	p := input
	p.ID = r.newID(BlogPrefix, now)
	p.Title = strings.TrimSpace(p.Title)
	p.PublishDate = now.Format(dateLayout)
	if strings.TrimSpace(p.ReadTime) == "" {
		p.ReadTime = ReadTime(p.Content)
	}
	p.Tags = normalizeTags(p.Tags)
	p.CreatedBy = actor
	p.CreatedAt = now
	p.UpdatedAt = nil
	if err := r.save(ctx, p.ID, p); err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

// UpdateBlogPost shallow-merges patch over the stored post.
func (r *Repository) UpdateBlogPost(ctx context.Context, id string, patch Patch, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !strings.HasPrefix(id, BlogPrefix) {
		return ErrNotFound
	}
	var p BlogPost
	if err := r.merge(ctx, id, patch, &p, protectedRecordKeys...); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return asValidationError(err)
	}
	if strings.TrimSpace(p.ReadTime) == "" {
		p.ReadTime = ReadTime(p.Content)
	}
	now := r.now().UTC()
	p.ID = id
	p.Tags = normalizeTags(p.Tags)
	p.UpdatedAt = &now
	return r.save(ctx, id, p)
}

// DeleteBlogPost removes a post. Deleting a missing id succeeds.
func (r *Repository) DeleteBlogPost(ctx context.Context, id string, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !strings.HasPrefix(id, BlogPrefix) {
		return nil
	}
	return r.remove(ctx, id)
}
