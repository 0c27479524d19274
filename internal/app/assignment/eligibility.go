// internal/app/assignment/eligibility.go
package assignment

import (
	"context"

	bandapi "github.com/doracare/murshid/internal/app/remote/bands"
	"github.com/doracare/murshid/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// Scope names which band pool an assignment draws from.
type Scope int

const (
	// ScopeGroup limits candidates to the group's admin-allocated pool.
	ScopeGroup Scope = iota
	// ScopeGlobal draws from the whole unassigned fleet (admin surface).
	ScopeGlobal
)

// Eligible reports whether a band may be offered for assignment. The
// same rule applies in both scopes: the band must be active and not
// currently worn by anyone. Pool membership is decided by which list
// the band came from, so callers filter the scope's list with this.
func Eligible(b models.Band) bool {
	return b.Status == models.BandActive && b.CurrentUserID == ""
}

// EligibleBands filters a pool down to the bands that may be offered.
func EligibleBands(pool []models.Band) []models.Band {
	out := make([]models.Band, 0, len(pool))
	for _, b := range pool {
		if Eligible(b) {
			out = append(out, b)
		}
	}
	return out
}

// BandBoard is the data behind the assignment picker: the roster to
// assign onto plus the eligible bands of the requested scope.
type BandBoard struct {
	Group models.Group
	Bands []models.Band
}

// BandBoard fetches the group detail and the scope's band pool
// concurrently. ScopeGroup uses the group's available-bands endpoint;
// ScopeGlobal pages the fleet excluding bands already pooled into any
// group.
func (w *Workflow) BandBoard(ctx context.Context, token, groupID string, scope Scope) (BandBoard, error) {
	var board BandBoard

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		g, err := w.Groups.GetByID(egCtx, token, groupID)
		if err != nil {
			return err
		}
		board.Group = g
		return nil
	})
	eg.Go(func() error {
		pool, err := w.poolForScope(egCtx, token, groupID, scope)
		if err != nil {
			return err
		}
		board.Bands = EligibleBands(pool)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return BandBoard{}, err
	}
	return board, nil
}

func (w *Workflow) poolForScope(ctx context.Context, token, groupID string, scope Scope) ([]models.Band, error) {
	if scope == ScopeGroup {
		return w.Groups.AvailableBands(ctx, token, groupID)
	}
	bands, _, err := w.Bands.List(ctx, token, bandapi.ListFilter{
		Status:                  models.BandActive,
		ExcludeAssignedToGroups: true,
		Limit:                   globalPoolLimit,
	})
	return bands, err
}

// globalPoolLimit caps a single fleet page on the admin picker.
const globalPoolLimit = 200
