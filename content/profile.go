package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// DefaultProfile is served until an admin saves a profile.
func DefaultProfile() ProfileData {
	return ProfileData{
		Name:   "Your Name",
		Title:  "Podcast Host",
		Bio:    "Welcome to the show. Sign in to the admin panel to tell visitors about yourself.",
		Photo:  "/static/images/profile-placeholder.png",
		Skills: []string{},
	}
}

// fillIdentity copies the identity fields of def into the blank fields of p.
func fillIdentity(p, def ProfileData) ProfileData {
	if strings.TrimSpace(p.Name) == "" {
		p.Name = def.Name
	}
	if strings.TrimSpace(p.Title) == "" {
		p.Title = def.Title
	}
	if strings.TrimSpace(p.Bio) == "" {
		p.Bio = def.Bio
	}
	if strings.TrimSpace(p.Photo) == "" {
		p.Photo = def.Photo
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p
}

// GetProfile returns the stored profile, or the default when none has been
// saved. On storage failure the default is returned with the error.
func (r *Repository) GetProfile(ctx context.Context) (ProfileData, error) {
	var p ProfileData
	err := r.load(ctx, ProfileKey, &p)
	if errors.Is(err, ErrNotFound) {
		return r.defaultProfile, nil
	}
	if err != nil {
		return r.defaultProfile, err
	}
	return fillIdentity(p, r.defaultProfile), nil
}

// UpdateProfile shallow-merges patch over the stored profile. Last writer wins.
func (r *Repository) UpdateProfile(ctx context.Context, patch Patch, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	var p ProfileData
	err := r.merge(ctx, ProfileKey, patch, &p, "updatedBy", "updatedAt")
	if errors.Is(err, ErrNotFound) {
		merged, mergeErr := mergeJSON(nil, patch, []string{"updatedBy", "updatedAt"})
		if mergeErr != nil {
			return mergeErr
		}
		err = asValidationError(json.Unmarshal(merged, &p))
	}
	if err != nil {
		return err
	}
	p.WorkStartDate = strings.TrimSpace(p.WorkStartDate)
	if err := p.Validate(); err != nil {
		return asValidationError(err)
	}
	now := r.now().UTC()
	p.Skills = normalizeTags(p.Skills)
	p.UpdatedBy = actor
	p.UpdatedAt = &now
	return r.save(ctx, ProfileKey, p)
}
