package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/httpapi/internal"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/httpserver"
)

const (
	createUserErrMessage     = "failed to create user"
	userNotFoundErrMessage   = "user not found"
	userDuplicatedErrMessage = "user already exists"
	listUsersErrMessage      = "failed to list users"
)

func NewUserController(repository usecases.UserRepository) *UserController {
	return &UserController{
		repository: repository,
	}
}

var _ httpserver.Controller = &UserController{}

type UserController struct {
	repository usecases.UserRepository
}

func (c *UserController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/users", c.listUsers())
	router.Handle("POST /v1/users", c.createUser())
	router.Handle("GET /v1/users/{id}", c.getUser())
}

func (c *UserController) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := c.repository.FindAll(r.Context())
		if err != nil {
			slog.Error("listing users", slog.String("error", err.Error()))
			http.Error(w, listUsersErrMessage, http.StatusInternalServerError)
			return
		}

		responses := make([]internal.UserResponse, len(users))
		for i, user := range users {
			responses[i] = internal.ToUserResponse(user)
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, responses)
	}
}

func (c *UserController) createUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.UserCreateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			slog.Error("decoding create user request", slog.String("error", err.Error()))
			http.Error(w, createUserErrMessage, http.StatusBadRequest)
			return
		}

		builder := domain.NewUserBuilder().
			WithName(body.Name).
			WithEmail(body.Email)
		if body.Role != "" {
			builder = builder.WithRole(domain.Role(body.Role))
		}
		user, err := builder.Build()
		if err != nil {
			slog.Error("building user", slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		err = c.repository.Create(r.Context(), user)
		if errors.Is(err, usecases.ErrUserDuplicated) {
			http.Error(w, userDuplicatedErrMessage, http.StatusConflict)
			return
		}
		if err != nil {
			slog.Error("creating user", slog.String("error", err.Error()))
			http.Error(w, createUserErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToUserResponse(user)
		httpserver.ReplyJSONResponse(w, http.StatusCreated, response)
	}
}

func (c *UserController) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "user id is required", http.StatusBadRequest)
			return
		}

		user, err := c.repository.Get(r.Context(), domain.ID(id))
		if errors.Is(err, usecases.ErrUserNotFound) {
			http.Error(w, userNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("getting user", slog.String("error", err.Error()))
			http.Error(w, "failed to get user", http.StatusInternalServerError)
			return
		}

		response := internal.ToUserResponse(user)
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}
