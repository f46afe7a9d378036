package rbac

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sisdisciplinar/sisdisciplinar/internal/audit"
	"github.com/sisdisciplinar/sisdisciplinar/internal/auth"
	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

// Handler exposes the admin permission-management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	audit   *audit.Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, auditor *audit.Service) *Handler {
	return &Handler{logger: logger, service: service, audit: auditor}
}

// MountRoutes registers permission routes. The caller mounts this group
// behind the administrator gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/permissions", h.listCatalog)
	r.Get("/profile-permissions", h.listRolePermissions)
	r.Post("/profile-permissions", h.setRolePermission)
	r.Delete("/profile-permissions", h.removeRolePermission)
	r.Get("/user-permissions/{id}", h.userPermissions)
	r.Post("/user-permissions", h.grantUserPermission)
	r.Delete("/user-permissions", h.revokeUserPermission)
	r.Get("/user-overrides/{id}", h.userOverrides)
	r.Post("/user-overrides", h.applyUserOverrides)
}

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ListCatalog(r.Context())
	if err != nil {
		h.fail(w, "list permission catalog", err)
		return
	}
	httpx.JSON(w, http.StatusOK, names)
}

func (h *Handler) listRolePermissions(w http.ResponseWriter, r *http.Request) {
	mapping, err := h.service.ResolveRolePermissions(r.Context())
	if err != nil {
		h.fail(w, "resolve role permissions", err)
		return
	}
	if mapping == nil {
		mapping = map[string][]string{}
	}
	httpx.JSON(w, http.StatusOK, mapping)
}

type rolePermissionRequest struct {
	Perfil     string `json:"perfil"`
	Permission string `json:"permission"`

	// Bulk shape kept for the permission editor screen.
	ProfileName string   `json:"profile_name"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) setRolePermission(w http.ResponseWriter, r *http.Request) {
	var req rolePermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	switch {
	case req.ProfileName != "" && req.Permissions != nil:
		if err := h.service.ReplaceRolePermissions(r.Context(), req.ProfileName, req.Permissions); err != nil {
			h.fail(w, "replace role permissions", err)
			return
		}
		h.record(r, "permissao.perfil.substituir", "perfil", req.ProfileName,
			fmt.Sprintf("Permissões do perfil %s redefinidas (%d)", req.ProfileName, len(req.Permissions)))
	case req.Perfil != "" && strings.TrimSpace(req.Permission) != "":
		if err := h.service.GrantRolePermission(r.Context(), req.Perfil, req.Permission); err != nil {
			h.fail(w, "grant role permission", err)
			return
		}
		h.record(r, "permissao.perfil.conceder", "perfil", req.Perfil,
			fmt.Sprintf("Permissão %s concedida ao perfil %s", Normalize(req.Permission), req.Perfil))
	default:
		httpx.Error(w, http.StatusBadRequest, "informe perfil e permission, ou profile_name e permissions")
		return
	}
	httpx.OK(w)
}

func (h *Handler) removeRolePermission(w http.ResponseWriter, r *http.Request) {
	var req rolePermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if req.Perfil == "" || strings.TrimSpace(req.Permission) == "" {
		httpx.Error(w, http.StatusBadRequest, "informe perfil e permission")
		return
	}
	if err := h.service.RevokeRolePermission(r.Context(), req.Perfil, req.Permission); err != nil {
		h.fail(w, "revoke role permission", err)
		return
	}
	h.record(r, "permissao.perfil.revogar", "perfil", req.Perfil,
		fmt.Sprintf("Permissão %s revogada do perfil %s", Normalize(req.Permission), req.Perfil))
	httpx.OK(w)
}

func (h *Handler) userPermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r)
	if !ok {
		return
	}
	names, err := h.service.EffectivePermissions(r.Context(), userID)
	if err != nil {
		h.fail(w, "effective permissions", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	httpx.JSON(w, http.StatusOK, names)
}

type userPermissionRequest struct {
	UserID     string `json:"userId"`
	Permission string `json:"permission"`
}

func (h *Handler) grantUserPermission(w http.ResponseWriter, r *http.Request) {
	req, userID, ok := h.decodeUserPermission(w, r)
	if !ok {
		return
	}
	if err := h.service.GrantUserPermission(r.Context(), userID, req.Permission); err != nil {
		h.fail(w, "grant user permission", err)
		return
	}
	h.record(r, "permissao.usuario.conceder", "usuario", req.UserID,
		fmt.Sprintf("Permissão %s concedida ao usuário %s", Normalize(req.Permission), req.UserID))
	httpx.OK(w)
}

func (h *Handler) revokeUserPermission(w http.ResponseWriter, r *http.Request) {
	req, userID, ok := h.decodeUserPermission(w, r)
	if !ok {
		return
	}
	if err := h.service.RevokeUserPermission(r.Context(), userID, req.Permission); err != nil {
		h.fail(w, "revoke user permission", err)
		return
	}
	h.record(r, "permissao.usuario.revogar", "usuario", req.UserID,
		fmt.Sprintf("Permissão %s revogada do usuário %s", Normalize(req.Permission), req.UserID))
	httpx.OK(w)
}

func (h *Handler) userOverrides(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r)
	if !ok {
		return
	}
	overrides, err := h.service.UserOverrides(r.Context(), userID)
	if err != nil {
		h.fail(w, "list user overrides", err)
		return
	}
	type overrideView struct {
		PermissionName string `json:"permission_name"`
		Action         string `json:"action"`
	}
	views := make([]overrideView, 0, len(overrides))
	for _, o := range overrides {
		views = append(views, overrideView{PermissionName: o.PermissionName, Action: o.Action})
	}
	httpx.JSON(w, http.StatusOK, views)
}

type overridesRequest struct {
	UserID    string `json:"userId"`
	Overrides []struct {
		PermissionName string `json:"permission_name"`
		Action         string `json:"action"`
	} `json:"overrides"`
}

func (h *Handler) applyUserOverrides(w http.ResponseWriter, r *http.Request) {
	var req overridesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "usuário não informado")
		return
	}
	inputs := make([]OverrideInput, 0, len(req.Overrides))
	for _, o := range req.Overrides {
		inputs = append(inputs, OverrideInput{PermissionName: o.PermissionName, Action: o.Action})
	}
	if err := h.service.ApplyOverrides(r.Context(), userID, inputs); err != nil {
		h.fail(w, "apply user overrides", err)
		return
	}
	h.record(r, "permissao.usuario.overrides", "usuario", req.UserID,
		fmt.Sprintf("Overrides do usuário %s redefinidos (%d)", req.UserID, len(inputs)))
	httpx.OK(w)
}

func (h *Handler) decodeUserPermission(w http.ResponseWriter, r *http.Request) (userPermissionRequest, uuid.UUID, bool) {
	var req userPermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return req, uuid.Nil, false
	}
	if strings.TrimSpace(req.Permission) == "" {
		httpx.Error(w, http.StatusBadRequest, "permissão não informada")
		return req, uuid.Nil, false
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "usuário não informado")
		return req, uuid.Nil, false
	}
	return req, userID, true
}

func (h *Handler) record(r *http.Request, action, entity, entityID, descricao string) {
	actor := uuid.Nil
	if ident := auth.IdentityFromContext(r.Context()); ident != nil {
		actor = ident.ID
	}
	h.audit.Record(r.Context(), actor, action, entity, entityID, descricao)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "identificador inválido")
		return uuid.Nil, false
	}
	return id, true
}
