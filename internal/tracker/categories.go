package tracker

import (
	"context"
	"strings"
	"unicode/utf8"

	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// AddCategory registers a new category for the user.
func (t *Tracker) AddCategory(ctx context.Context, rc models.RequestContext, name string) (_ *models.Category, err error) {
	ctx, span, log := t.start(ctx, rc, "AddCategory")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	name = models.NormalizeText(strings.TrimSpace(name))
	if name == "" {
		return nil, models.NewValidationError("name", models.ErrMissingCategory)
	}
	if utf8.RuneCountInString(name) > models.MaxCategoryNameLength {
		return nil, models.NewValidationError("name", models.ErrCategoryTooLong)
	}

	cat, err := t.categories.Create(ctx, rc.Username, name)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to add category")
		return nil, err
	}

	log.Info().Int("category_id", cat.ID).Msg("Category added")
	return cat, nil
}

// ListCategories returns the user's categories in the order they were added.
func (t *Tracker) ListCategories(ctx context.Context, rc models.RequestContext) (_ []models.Category, err error) {
	ctx, span, _ := t.start(ctx, rc, "ListCategories")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return t.categories.ListByUser(ctx, rc.Username)
}

// LookupCategory returns the user's registered category with exactly this
// name, or nil when the label is not in the registry.
func (t *Tracker) LookupCategory(ctx context.Context, rc models.RequestContext, name string) (_ *models.Category, err error) {
	ctx, span, _ := t.start(ctx, rc, "LookupCategory")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return t.categories.GetByName(ctx, rc.Username, models.NormalizeText(strings.TrimSpace(name)))
}

// SeedDefaultCategories inserts the default categories for a user. Repeating
// the call leaves the registry unchanged.
func (t *Tracker) SeedDefaultCategories(ctx context.Context, rc models.RequestContext) (err error) {
	ctx, span, log := t.start(ctx, rc, "SeedDefaultCategories")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return err
	}
	if err := t.categories.SeedDefaults(ctx, rc.Username); err != nil {
		return err
	}

	log.Debug().Int("count", len(models.DefaultCategories)).Msg("Default categories seeded")
	return nil
}
