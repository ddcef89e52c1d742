package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
	"github.com/Alexandrudiun/spaces/pkg/httputil"
	"github.com/Alexandrudiun/spaces/pkg/logger"
)

// ImagesHandler serves the catalog of avatar images users can pick from.
// The files themselves ship with the deployment; this only lists them.
type ImagesHandler struct {
	dir string
	log *logger.Logger
}

func NewImagesHandler(dir string, log *logger.Logger) *ImagesHandler {
	return &ImagesHandler{dir: dir, log: log}
}

func (h *ImagesHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		h.log.Error("Failed to read images directory", "dir", h.dir, "error", err)
		httputil.WriteError(w, apperrors.Internal("Failed to list images", err))
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp":
			names = append(names, entry.Name())
		}
	}
	httputil.WriteSuccess(w, names)
}

func (h *ImagesHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/images", h.List)
	router.ServeFiles("/api/images/files/*filepath", http.Dir(h.dir))
}
