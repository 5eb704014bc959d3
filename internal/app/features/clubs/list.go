// internal/app/features/clubs/list.go
package clubs

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
)

type listData struct {
	viewdata.BaseVM
	Clubs  []models.Club
	Search string
}

// ServeList handles GET /clubs: the public club directory with an optional
// case-insensitive name search.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	clubs, err := h.Clubs.List(ctx, true)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list clubs failed", err, "A database error occurred.", "/")
		return
	}

	search := strings.TrimSpace(query.Get(r, "q"))
	if search != "" {
		folded := text.Fold(search)
		filtered := clubs[:0]
		for _, c := range clubs {
			if strings.Contains(c.NameCI, folded) {
				filtered = append(filtered, c)
			}
		}
		clubs = filtered
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Clubs", "/"),
		Clubs:  clubs,
		Search: search,
	}
	templates.Render(w, r, "clubs_list", data)
}
