// internal/app/assignment/search.go
package assignment

import (
	"context"
	"strings"

	"github.com/doracare/murshid/internal/domain/models"
)

const searchLimit = 25

// SearchCandidates finds pilgrims matching the query who are not
// already on the group's roster. The exclusion happens here because the
// search endpoint is group-agnostic; without it the picker would offer
// duplicates that the add call then rejects.
func (w *Workflow) SearchCandidates(ctx context.Context, token, query string, group models.Group) ([]models.Pilgrim, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	found, err := w.Pilgrims.Search(ctx, token, query, searchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]models.Pilgrim, 0, len(found))
	for _, p := range found {
		if !group.HasPilgrim(p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}
