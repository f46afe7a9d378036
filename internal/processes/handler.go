package processes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sisdisciplinar/sisdisciplinar/internal/audit"
	"github.com/sisdisciplinar/sisdisciplinar/internal/auth"
	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
	"github.com/sisdisciplinar/sisdisciplinar/internal/rbac"
)

// Handler exposes the disciplinary case endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	audit      *audit.Service
	gate       rbac.Middleware
	serviceKey bool // the public listing runs under the service credential
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, auditor *audit.Service, gate rbac.Middleware, serviceKey bool) *Handler {
	return &Handler{logger: logger, service: service, audit: auditor, gate: gate, serviceKey: serviceKey}
}

// MountRoutes registers the authenticated case routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listPublic)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequirePermission("processo:criar"))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequirePermission("processo:editar"))
		r.Put("/{id}/review", h.review)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequirePermission("processo:finalizar"))
		r.Put("/{id}/finalize", h.finalize)
	})
}

// MountAdminRoutes registers the full listing. The caller mounts this behind
// the administrator gate.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/processes", h.listFull)
}

type processSummary struct {
	ID          string    `json:"id"`
	Funcionario string    `json:"funcionario"`
	Matricula   string    `json:"matricula"`
	TipoConduta string    `json:"tipoConduta"`
	Gravidade   string    `json:"gravidade"`
	Status      string    `json:"status"`
	CriadoEm    time.Time `json:"criadoEm"`
}

type processView struct {
	processSummary
	Descricao        string `json:"descricao"`
	Resolucao        string `json:"resolucao,omitempty"`
	NumeroOcorrencia string `json:"numeroOcorrencia,omitempty"`
	CriadoPorNome    string `json:"criadoPor,omitempty"`
	JuridicoNome     string `json:"juridico,omitempty"`
}

// listPublic serves the normalized listing the SPA shows before login. It is
// backed by the service credential, not the caller's own token, so the only
// gate is whether that credential is configured at all.
func (h *Handler) listPublic(w http.ResponseWriter, r *http.Request) {
	if !h.serviceKey {
		httpx.RespondError(w, httpx.ErrUnavailable)
		return
	}
	views, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list processes", err)
		return
	}
	summaries := make([]processSummary, 0, len(views))
	for _, v := range views {
		summaries = append(summaries, toSummary(v))
	}
	httpx.JSON(w, http.StatusOK, summaries)
}

func (h *Handler) listFull(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list processes", err)
		return
	}
	full := make([]processView, 0, len(views))
	for _, v := range views {
		full = append(full, toView(v))
	}
	httpx.JSON(w, http.StatusOK, full)
}

type createRequest struct {
	FuncionarioID string `json:"funcionarioId"`
	TipoConduta   string `json:"tipoConduta"`
	Gravidade     string `json:"gravidade"`
	Descricao     string `json:"descricao"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	funcionarioID, err := uuid.Parse(req.FuncionarioID)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "funcionário não informado")
		return
	}
	created, err := h.service.Create(r.Context(), CreateInput{
		FuncionarioID: funcionarioID,
		CriadoPor:     ident.ID,
		TipoConduta:   req.TipoConduta,
		Gravidade:     req.Gravidade,
		Descricao:     req.Descricao,
	})
	if err != nil {
		h.fail(w, "create process", err)
		return
	}
	h.audit.Record(r.Context(), ident.ID, "processo.criar", "processo", created.ID.String(),
		fmt.Sprintf("Processo %s aberto (%s)", created.ID, created.Gravidade))
	httpx.JSON(w, http.StatusCreated, toProcessPayload(created))
}

type reviewRequest struct {
	Status    string `json:"status"`
	Resolucao string `json:"resolucao"`
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	updated, err := h.service.Review(r.Context(), id, ReviewInput{
		Status:     req.Status,
		Resolucao:  req.Resolucao,
		JuridicoID: ident.ID,
	})
	if err != nil {
		h.fail(w, "review process", err)
		return
	}
	h.audit.Record(r.Context(), ident.ID, "processo.revisar", "processo", updated.ID.String(),
		fmt.Sprintf("Processo %s movido para %s", updated.ID, updated.Status))
	httpx.JSON(w, http.StatusOK, toProcessPayload(updated))
}

type finalizeRequest struct {
	NumeroOcorrencia string `json:"numeroOcorrencia"`
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var req finalizeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	updated, err := h.service.Finalize(r.Context(), id, req.NumeroOcorrencia)
	if err != nil {
		h.fail(w, "finalize process", err)
		return
	}
	h.audit.Record(r.Context(), ident.ID, "processo.finalizar", "processo", updated.ID.String(),
		fmt.Sprintf("Processo %s finalizado (ocorrência %s)", updated.ID, updated.NumeroOcorrencia))
	httpx.JSON(w, http.StatusOK, toProcessPayload(updated))
}

func toSummary(v ProcessView) processSummary {
	return processSummary{
		ID:          v.ID.String(),
		Funcionario: v.FuncionarioNome,
		Matricula:   v.FuncionarioMatricula,
		TipoConduta: v.TipoConduta,
		Gravidade:   v.Gravidade,
		Status:      v.Status,
		CriadoEm:    v.CriadoEm,
	}
}

func toView(v ProcessView) processView {
	return processView{
		processSummary:   toSummary(v),
		Descricao:        v.Descricao,
		Resolucao:        v.Resolucao,
		NumeroOcorrencia: v.NumeroOcorrencia,
		CriadoPorNome:    v.CriadoPorNome,
		JuridicoNome:     v.JuridicoNome,
	}
}

// toProcessPayload renders a bare process (no joined names) for mutations.
func toProcessPayload(p Process) map[string]any {
	payload := map[string]any{
		"id":            p.ID.String(),
		"funcionarioId": p.FuncionarioID.String(),
		"tipoConduta":   p.TipoConduta,
		"gravidade":     p.Gravidade,
		"descricao":     p.Descricao,
		"status":        p.Status,
		"criadoEm":      p.CriadoEm,
	}
	if p.Resolucao != "" {
		payload["resolucao"] = p.Resolucao
	}
	if p.NumeroOcorrencia != "" {
		payload["numeroOcorrencia"] = p.NumeroOcorrencia
	}
	return payload
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "identificador inválido")
		return uuid.Nil, false
	}
	return id, true
}
