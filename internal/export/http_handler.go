package export

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/israelwong/zenly-studio-sub011/internal/auth"
	"github.com/israelwong/zenly-studio-sub011/internal/domain"
)

// Handler serves GET /api/exports/{contract-id} as an XLSX download.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) http.Handler {
	return &Handler{service: service, logger: logger.With(zap.String("handler", "export"))}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := auth.StudioIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing or invalid "+auth.HeaderStudioID+" header", http.StatusBadRequest)
		return
	}

	rawID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/exports"), "/")
	contractID, err := uuid.Parse(rawID)
	if err != nil {
		http.Error(w, "invalid contract id", http.StatusBadRequest)
		return
	}

	workbook, err := h.service.BuildWorkbook(r.Context(), ownerID, contractID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "contract not found", http.StatusNotFound)
			return
		}
		h.logger.Warn("export failed", zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="contrato-%s.xlsx"`, contractID))
	if err := workbook.Write(w); err != nil {
		h.logger.Warn("failed to stream workbook", zap.Error(err))
	}
}
