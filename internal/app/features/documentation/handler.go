// internal/app/features/documentation/handler.go
package docs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	docstore "github.com/dalemusser/ukmhub/internal/app/store/documentation"
	"github.com/dalemusser/ukmhub/internal/app/system/authz"
	"github.com/dalemusser/ukmhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/app/system/viewdata"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxUploadSize caps a single documentation upload.
const maxUploadSize = 16 << 20 // 16 MiB

// Handler serves club activity documentation: officers upload photos and
// files for their club, list them, and remove them.
type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	Docs      *docstore.Store
	Clubs     *clubstore.Store
	UploadDir string
	Loc       *time.Location
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, uploadDir string, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		Docs:      docstore.New(db),
		Clubs:     clubstore.New(db),
		UploadDir: uploadDir,
		Loc:       loc,
	}
}

func (h *Handler) officerClub(w http.ResponseWriter, r *http.Request) (*models.Club, bool) {
	clubID := authz.UserClubID(r)
	if clubID.IsZero() {
		uierrors.RenderForbidden(w, r, "You are not assigned to a club.", "/dashboard")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, clubID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load officer club failed", err, "A database error occurred.", "/dashboard")
		return nil, false
	}
	return club, true
}

type listData struct {
	viewdata.BaseVM
	Club  *models.Club
	Docs  []models.Documentation
	Flash string
	Error string
}

// ServeList handles GET /documentation.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	club, ok := h.officerClub(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	docs, err := h.Docs.ListByClub(ctx, club.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "documentation list failed", err, "A database error occurred.", "/dashboard")
		return
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Documentation", "/dashboard"),
		Club:   club,
		Docs:   docs,
	}
	switch {
	case query.Get(r, "uploaded") == "1":
		data.Flash = "Documentation uploaded."
	case query.Get(r, "deleted") == "1":
		data.Flash = "Documentation deleted."
	case query.Get(r, "error") == "file_required":
		data.Error = "Choose a file to upload."
	case query.Get(r, "error") == "too_large":
		data.Error = "That file is too large (16 MB limit)."
	}
	templates.Render(w, r, "documentation_list", data)
}

// HandleUpload handles POST /documentation.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	club, ok := h.officerClub(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Redirect(w, r, "/documentation?error=too_large", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Redirect(w, r, "/documentation?error=file_required", http.StatusSeeOther)
		return
	}
	defer file.Close()

	title := htmlsanitize.Text(r.FormValue("title"))
	if title == "" {
		title = header.Filename
	}
	location := htmlsanitize.Text(r.FormValue("location"))

	date := time.Now().In(h.Loc)
	if v := r.FormValue("date"); v != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", v, h.Loc); err == nil {
			date = parsed
		}
	}

	storedName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(header.Filename))
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.ErrLog.LogServerError(w, r, "create upload dir failed", err, "Unable to store the file.", "/documentation")
		return
	}

	dst, err := os.Create(filepath.Join(h.UploadDir, storedName))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create upload file failed", err, "Unable to store the file.", "/documentation")
		return
	}
	size, err := io.Copy(dst, file)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filepath.Join(h.UploadDir, storedName))
		h.ErrLog.LogServerError(w, r, "write upload failed", err, "Unable to store the file.", "/documentation")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err = h.Docs.Insert(ctx, models.Documentation{
		ClubID:      club.ID,
		ClubName:    club.Name,
		Title:       title,
		Location:    location,
		Date:        date,
		FileName:    header.Filename,
		StoredName:  storedName,
		ContentType: header.Header.Get("Content-Type"),
		Size:        size,
		CreatedBy:   userID,
	})
	if err != nil {
		os.Remove(filepath.Join(h.UploadDir, storedName))
		h.ErrLog.LogServerError(w, r, "documentation insert failed", err, "A database error occurred.", "/documentation")
		return
	}

	http.Redirect(w, r, "/documentation?uploaded=1", http.StatusSeeOther)
}

// ServeDownload handles GET /documentation/{id}/file.
func (h *Handler) ServeDownload(w http.ResponseWriter, r *http.Request) {
	club, ok := h.officerClub(w, r)
	if !ok {
		return
	}
	doc, ok := h.loadDoc(w, r, club.ID)
	if !ok {
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+sanitizeFilename(doc.FileName)+`"`)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	http.ServeFile(w, r, filepath.Join(h.UploadDir, doc.StoredName))
}

// HandleDelete handles POST /documentation/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	club, ok := h.officerClub(w, r)
	if !ok {
		return
	}
	doc, ok := h.loadDoc(w, r, club.ID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Docs.Delete(ctx, club.ID, doc.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "documentation delete failed", err, "A database error occurred.", "/documentation")
		return
	}
	if err := os.Remove(filepath.Join(h.UploadDir, doc.StoredName)); err != nil && !os.IsNotExist(err) {
		h.Log.Warn("failed to remove stored file",
			zap.String("stored_name", doc.StoredName),
			zap.Error(err))
	}

	http.Redirect(w, r, "/documentation?deleted=1", http.StatusSeeOther)
}

func (h *Handler) loadDoc(w http.ResponseWriter, r *http.Request, clubID primitive.ObjectID) (*models.Documentation, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderForbidden(w, r, "Invalid documentation ID.", "/documentation")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderForbidden(w, r, "Documentation not found.", "/documentation")
			return nil, false
		}
		h.ErrLog.LogServerError(w, r, "load documentation failed", err, "A database error occurred.", "/documentation")
		return nil, false
	}
	if doc.ClubID != clubID {
		uierrors.RenderForbidden(w, r, "Documentation not found.", "/documentation")
		return nil, false
	}
	return doc, true
}

// sanitizeFilename strips path components and replaces characters that do
// not belong in a stored file name.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '.' || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}
