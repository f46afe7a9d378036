package employees

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sisdisciplinar/sisdisciplinar/internal/audit"
	"github.com/sisdisciplinar/sisdisciplinar/internal/auth"
	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

// Handler exposes the employee import endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	audit   *audit.Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, auditor *audit.Service) *Handler {
	return &Handler{logger: logger, service: service, audit: auditor}
}

// MountRoutes registers employee routes. The caller mounts this group behind
// the administrator gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/import-employees", h.importEmployees)
}

type importRequest struct {
	CSV string `json:"csv"`
}

func (h *Handler) importEmployees(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	report, err := h.service.ImportCSV(r.Context(), req.CSV)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("import employees", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	actor := uuid.Nil
	if ident := auth.IdentityFromContext(r.Context()); ident != nil {
		actor = ident.ID
	}
	h.audit.Record(r.Context(), actor, "funcionarios.importar", "funcionario", "lote",
		fmt.Sprintf("Importação de funcionários: %d inseridos, %d atualizados, %d erros",
			report.Inserted, report.Updated, report.Errors))

	httpx.JSON(w, http.StatusOK, report)
}
