package tracker

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gitlab.com/yelinaung/expense-ledger/internal/logger"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
	"gitlab.com/yelinaung/expense-ledger/internal/repository"
)

const (
	// maxSuggestions caps the near-miss items offered when nothing matches.
	maxSuggestions = 3
	// maxSuggestionDistance is the largest edit distance still offered as a suggestion.
	maxSuggestionDistance = 3
)

// MatchResult reports how an expense description relates to the user's
// unpurchased wishlist items.
type MatchResult struct {
	Matched bool
	// Item is the unpurchased item that would be marked purchased.
	Item *models.WishlistItem
	// Suggestions lists similar item texts when nothing matched exactly.
	// They are informational and never cause linkage.
	Suggestions []string
}

// AddWishlistItem adds an unpurchased item to the user's wishlist.
func (t *Tracker) AddWishlistItem(ctx context.Context, rc models.RequestContext, text string) (_ *models.WishlistItem, err error) {
	ctx, span, log := t.start(ctx, rc, "AddWishlistItem")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("item", models.ErrMissingItem)
	}

	item, err := t.wishlist.Create(ctx, rc.Username, models.NormalizeText(text))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to add wishlist item")
		return nil, err
	}

	log.Info().
		Int64("item_id", item.ID).
		Str("item", logger.SanitizeText(item.Item)).
		Msg("Wishlist item added")
	return item, nil
}

// ListWishlist returns every wishlist item with its purchased status, in insertion order.
func (t *Tracker) ListWishlist(ctx context.Context, rc models.RequestContext) (_ []models.WishlistItem, err error) {
	ctx, span, _ := t.start(ctx, rc, "ListWishlist")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return t.wishlist.ListByUser(ctx, rc.Username)
}

// CheckWishlistMatch reports whether description exactly matches one of the
// user's unpurchased wishlist items. It writes nothing.
func (t *Tracker) CheckWishlistMatch(ctx context.Context, rc models.RequestContext, description string) (_ MatchResult, err error) {
	ctx, span, _ := t.start(ctx, rc, "CheckWishlistMatch")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return MatchResult{}, err
	}
	if strings.TrimSpace(description) == "" {
		return MatchResult{}, models.NewValidationError("description", models.ErrMissingDescription)
	}
	return matchWishlist(ctx, t.wishlist, rc.Username, models.NormalizeText(description))
}

func matchWishlist(
	ctx context.Context,
	wishlist *repository.WishlistRepository,
	username, description string,
) (MatchResult, error) {
	items, err := wishlist.ListUnpurchased(ctx, username)
	if err != nil {
		return MatchResult{}, err
	}

	for i := range items {
		if items[i].Item == description {
			return MatchResult{Matched: true, Item: &items[i]}, nil
		}
	}

	return MatchResult{Suggestions: suggest(description, items)}, nil
}

// suggest ranks unpurchased item texts by case-insensitive edit distance to
// description. Equal distances keep wishlist order.
func suggest(description string, items []models.WishlistItem) []string {
	type candidate struct {
		text     string
		distance int
	}

	target := strings.ToLower(description)
	seen := make(map[string]bool)
	var candidates []candidate
	for _, item := range items {
		if seen[item.Item] {
			continue
		}
		seen[item.Item] = true

		d := levenshtein.ComputeDistance(target, strings.ToLower(item.Item))
		if d <= maxSuggestionDistance {
			candidates = append(candidates, candidate{text: item.Item, distance: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	var out []string
	for i := 0; i < len(candidates) && i < maxSuggestions; i++ {
		out = append(out, candidates[i].text)
	}
	return out
}
