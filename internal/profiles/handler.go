package profiles

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
)

// HandlerConfig groups the handler dependencies.
type HandlerConfig struct {
	Logger     *slog.Logger
	Service    *Service
	Audit      *audit.Service
	ServiceKey bool // identity management requires the service credential
	LoginLimit int
}

// Handler exposes the admin users surface.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	audit      *audit.Service
	serviceKey bool
	loginLimit int
}

// NewHandler builds a Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		logger:     cfg.Logger,
		service:    cfg.Service,
		audit:      cfg.Audit,
		serviceKey: cfg.ServiceKey,
		loginLimit: cfg.LoginLimit,
	}
}

// MountRoutes registers the user-management routes. The caller mounts this
// group behind the administrator gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/users", h.listUsers)
	r.Post("/users", h.createUser)
	r.Get("/logins", h.recentLogins)
}

type employeeView struct {
	Matricula    string `json:"matricula"`
	Cargo        string `json:"cargo,omitempty"`
	Departamento string `json:"departamento,omitempty"`
	GestorID     string `json:"gestorId,omitempty"`
	GestorNome   string `json:"gestorNome,omitempty"`
}

type userView struct {
	ID           string        `json:"id"`
	Nome         string        `json:"nome"`
	Email        string        `json:"email"`
	Perfil       string        `json:"perfil"`
	Ativo        bool          `json:"ativo"`
	CriadoEm     time.Time     `json:"criadoEm"`
	UltimoAcesso *time.Time    `json:"ultimoAcesso,omitempty"`
	Funcionario  *employeeView `json:"funcionario,omitempty"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.fail(w, "list users", err)
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	httpx.JSON(w, http.StatusOK, views)
}

type createUserRequest struct {
	Nome        string       `json:"nome"`
	Email       string       `json:"email"`
	Password    string       `json:"password"`
	Perfil      string       `json:"perfil"`
	Ativo       *bool        `json:"ativo"`
	Funcionario *NewEmployee `json:"funcionario"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if !h.serviceKey {
		httpx.RespondError(w, httpx.ErrUnavailable)
		return
	}
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	ativo := true
	if req.Ativo != nil {
		ativo = *req.Ativo
	}
	created, err := h.service.CreateUser(r.Context(), CreateUserInput{
		Nome:        req.Nome,
		Email:       req.Email,
		Password:    req.Password,
		Perfil:      req.Perfil,
		Ativo:       ativo,
		Funcionario: req.Funcionario,
	})
	if err != nil {
		h.fail(w, "create user", err)
		return
	}
	h.record(r, "usuario.criar", created.ID.String(),
		fmt.Sprintf("Usuário %s (%s) criado", created.Nome, created.Perfil))
	httpx.JSON(w, http.StatusCreated, toUserView(UserView{Profile: created}))
}

func (h *Handler) recentLogins(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.RecentLogins(r.Context(), h.loginLimit)
	if err != nil {
		h.fail(w, "recent logins", err)
		return
	}
	if events == nil {
		events = []LoginEvent{}
	}
	httpx.JSON(w, http.StatusOK, events)
}

func toUserView(u UserView) userView {
	view := userView{
		ID:           u.ID.String(),
		Nome:         u.Nome,
		Email:        u.Email,
		Perfil:       u.Perfil,
		Ativo:        u.Ativo,
		CriadoEm:     u.CriadoEm,
		UltimoAcesso: u.UltimoAcesso,
	}
	if u.Funcionario != nil {
		emp := employeeView{
			Matricula:    u.Funcionario.Matricula,
			Cargo:        u.Funcionario.Cargo,
			Departamento: u.Funcionario.Departamento,
			GestorNome:   u.Funcionario.GestorNome,
		}
		if u.Funcionario.GestorID != nil {
			emp.GestorID = u.Funcionario.GestorID.String()
		}
		view.Funcionario = &emp
	}
	return view
}

func (h *Handler) record(r *http.Request, action, entityID, descricao string) {
	actor := uuid.Nil
	if ident := auth.IdentityFromContext(r.Context()); ident != nil {
		actor = ident.ID
	}
	h.audit.Record(r.Context(), actor, action, "usuario", entityID, descricao)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
