package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gramture-service/internal/app"
	"gramture-service/internal/domain"
	"github.com/gorilla/mux"
)

// API bundles the REST handlers for content, toppers, forum, comments and
// the storefront.
type API struct {
	content *app.ContentService
	toppers *app.ToppersService
	forum   *app.ForumService
	store   *app.StoreService
}

func NewAPI(content *app.ContentService, toppers *app.ToppersService, forum *app.ForumService, store *app.StoreService) *API {
	return &API{content: content, toppers: toppers, forum: forum, store: store}
}

// Router builds the gorilla/mux router. The quiz websocket handler and
// healthcheck are mounted by the caller.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/classes", a.handleClasses).Methods(http.MethodGet)
	api.HandleFunc("/subcategories", a.handleSubCategories).Methods(http.MethodGet)
	api.HandleFunc("/topics", a.handleListTopics).Methods(http.MethodGet)
	api.HandleFunc("/topics/{subCategory}/{slug}", a.handleGetTopic).Methods(http.MethodGet)

	api.HandleFunc("/toppers", a.handleToppersWall).Methods(http.MethodGet)
	api.HandleFunc("/toppers/{userId}/like", a.handleLikeTopper).Methods(http.MethodPost)
	api.HandleFunc("/toppers/{userId}/comments", a.handleTopperComments).Methods(http.MethodGet)
	api.HandleFunc("/toppers/{userId}/comments", a.handleAddTopperComment).Methods(http.MethodPost)

	api.HandleFunc("/forum", a.handleListThreads).Methods(http.MethodGet)
	api.HandleFunc("/forum", a.handleAskThread).Methods(http.MethodPost)
	api.HandleFunc("/forum/{id}/replies", a.handleReply).Methods(http.MethodPost)

	api.HandleFunc("/comments/{subCategory}/{topicId}", a.handleListComments).Methods(http.MethodGet)
	api.HandleFunc("/comments/{subCategory}/{topicId}", a.handleAddComment).Methods(http.MethodPost)

	api.HandleFunc("/store/products", a.handleListProducts).Methods(http.MethodGet)
	api.HandleFunc("/store/orders", a.handlePlaceOrder).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/topics", a.handleAddTopic).Methods(http.MethodPost)
	admin.HandleFunc("/topics/{id}", a.handleUpdateTopic).Methods(http.MethodPut)
	admin.HandleFunc("/topics/{id}", a.handleDeleteTopic).Methods(http.MethodDelete)
	admin.HandleFunc("/classes", a.handleAddClass).Methods(http.MethodPost)
	admin.HandleFunc("/subcategories", a.handleAddSubCategory).Methods(http.MethodPost)

	return r
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: status < 400, Data: data})
}

func respondErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrLoginRequired):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrTopicNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrThreadNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrNoQuestions):
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrValidation
	}
	return nil
}

func (a *API) handleClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := a.content.Classes(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, classes)
}

func (a *API) handleSubCategories(w http.ResponseWriter, r *http.Request) {
	subs, err := a.content.SubCategoriesFor(r.Context(), r.URL.Query().Get("class"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, subs)
}

func (a *API) handleListTopics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	topics, err := a.content.Topics(r.Context(), q.Get("class"), q.Get("subCategory"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, topics)
}

func (a *API) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	topic, err := a.content.Topic(r.Context(), vars["subCategory"], vars["slug"])
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, topic)
}

func (a *API) handleToppersWall(w http.ResponseWriter, r *http.Request) {
	wall, err := a.toppers.Wall(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, wall)
}

func (a *API) handleLikeTopper(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondErr(w, err)
		return
	}
	entry, err := a.toppers.Like(r.Context(), mux.Vars(r)["userId"], body.UserID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, entry)
}

func (a *API) handleTopperComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.toppers.Comments(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, comments)
}

func (a *API) handleAddTopperComment(w http.ResponseWriter, r *http.Request) {
	var comment domain.Comment
	if err := decodeBody(r, &comment); err != nil {
		respondErr(w, err)
		return
	}
	entry, err := a.toppers.Comment(r.Context(), mux.Vars(r)["userId"], comment)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, entry)
}

func (a *API) handleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := a.forum.Threads(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, threads)
}

func (a *API) handleAskThread(w http.ResponseWriter, r *http.Request) {
	var thread domain.ForumThread
	if err := decodeBody(r, &thread); err != nil {
		respondErr(w, err)
		return
	}
	created, err := a.forum.Ask(r.Context(), thread)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

func (a *API) handleReply(w http.ResponseWriter, r *http.Request) {
	var reply domain.Comment
	if err := decodeBody(r, &reply); err != nil {
		respondErr(w, err)
		return
	}
	thread, err := a.forum.Reply(r.Context(), mux.Vars(r)["id"], reply)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, thread)
}

func (a *API) handleListComments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	comments, err := a.forum.TopicComments(r.Context(), vars["subCategory"], vars["topicId"])
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, comments)
}

func (a *API) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var comment domain.Comment
	if err := decodeBody(r, &comment); err != nil {
		respondErr(w, err)
		return
	}
	vars := mux.Vars(r)
	created, err := a.forum.CommentOnTopic(r.Context(), vars["subCategory"], vars["topicId"], comment)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.store.Products(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (a *API) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if err := decodeBody(r, &order); err != nil {
		respondErr(w, err)
		return
	}
	placed, err := a.store.PlaceOrder(r.Context(), order)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, placed)
}

func (a *API) handleAddTopic(w http.ResponseWriter, r *http.Request) {
	var topic domain.Topic
	if err := decodeBody(r, &topic); err != nil {
		respondErr(w, err)
		return
	}
	created, err := a.content.AddTopic(r.Context(), topic)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

func (a *API) handleUpdateTopic(w http.ResponseWriter, r *http.Request) {
	var topic domain.Topic
	if err := decodeBody(r, &topic); err != nil {
		respondErr(w, err)
		return
	}
	topic.ID = mux.Vars(r)["id"]
	if err := a.content.UpdateTopic(r.Context(), topic); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, topic)
}

func (a *API) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := a.content.DeleteTopic(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, nil)
}

func (a *API) handleAddClass(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondErr(w, err)
		return
	}
	if err := a.content.AddClass(r.Context(), body.Name); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, body.Name)
}

func (a *API) handleAddSubCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondErr(w, err)
		return
	}
	if err := a.content.AddSubCategory(r.Context(), body.Name); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, body.Name)
}
