// Package feed serves the NewsApp fragment: the server-rendered card grid of the
// caller's mounted NewsFeed, its search endpoint, a JSON view, and the remote manifest.
package feed

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"newsfeed/internal/config"
	"newsfeed/internal/handler/http/respond"
	"newsfeed/internal/observability/logging"
	feedUC "newsfeed/internal/usecase/feed"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// maxStateWait bounds the wait query parameter of the state endpoint.
const maxStateWait = 30 * time.Second

// Handler serves the NewsApp routes.
type Handler struct {
	registry *feedUC.Registry
	sessions sessionBinder
	manifest *config.RemoteManifest
	logger   *slog.Logger
}

// NewHandler creates the fragment handler.
func NewHandler(registry *feedUC.Registry, store sessions.Store, manifest *config.RemoteManifest, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry: registry,
		sessions: sessionBinder{store: store},
		manifest: manifest,
		logger:   logger,
	}
}

// Register mounts the routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/", h.Shell).Methods(http.MethodGet)
	r.HandleFunc("/NewsApp", h.Fragment).Methods(http.MethodGet)
	r.HandleFunc("/NewsApp/search", h.Search).Methods(http.MethodPost)
	r.HandleFunc("/NewsApp/state", h.State).Methods(http.MethodGet)
	r.HandleFunc("/NewsApp/unmount", h.Unmount).Methods(http.MethodPost)
	r.HandleFunc("/NewsApp/manifest.json", h.Manifest).Methods(http.MethodGet)
}

// fragmentData is the template input.
type fragmentData struct {
	Entry      string
	State      string
	Loading    bool
	Error      string
	SearchTerm string
	Cards      []feedUC.Card
}

func (h *Handler) data(v feedUC.View) fragmentData {
	return fragmentData{
		Entry:      h.manifest.EntryURL(config.ExposedModule),
		State:      v.State.String(),
		Loading:    v.State == feedUC.StateLoading,
		Error:      v.Error,
		SearchTerm: v.SearchTerm,
		Cards:      v.Cards,
	}
}

// resolve returns the caller's NewsFeed, mounting one and binding it to the session
// on first use.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*feedUC.NewsFeed, error) {
	id, nf, mounted := h.registry.GetOrMount(r.Context(), h.sessions.mountID(r))
	if !mounted {
		return nf, nil
	}
	if err := h.sessions.bind(w, r, id); err != nil {
		h.registry.Unmount(id)
		return nil, respond.NewAppError(http.StatusServiceUnavailable, "session unavailable", err)
	}
	logging.WithRequestID(r.Context(), h.logger).Info("news feed mounted", slog.String("mount_id", id))
	return nf, nil
}

func (h *Handler) render(w http.ResponseWriter, name string, data fragmentData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("template", name),
			slog.Any("error", err))
	}
}

// Shell 開発用ホストページ
// @Summary      開発用ホストページ
// @Description  htmx を読み込み NewsApp フラグメントを埋め込んだスタンドアロンページを返します。
// @Tags         newsapp
// @Produce      html
// @Success      200 {string} string "HTML page"
// @Router       / [get]
func (h *Handler) Shell(w http.ResponseWriter, r *http.Request) {
	nf, err := h.resolve(w, r)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	h.render(w, "shell", h.data(nf.View()))
}

// Fragment NewsApp フラグメント取得
// @Summary      NewsApp フラグメント取得
// @Description  呼び出し元セッションの NewsFeed を HTML フラグメントとして返します。初回はマウントして見出しを取得します。
// @Tags         newsapp
// @Produce      html
// @Param        search  query  string  false  "検索語 (指定時は表示前に更新)"
// @Success      200 {string} string "HTML fragment"
// @Failure      503 {object} map[string]string "session unavailable"
// @Router       /NewsApp [get]
func (h *Handler) Fragment(w http.ResponseWriter, r *http.Request) {
	nf, err := h.resolve(w, r)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if q := r.URL.Query(); q.Has("search") {
		nf.SetSearchTerm(q.Get("search"))
	}
	h.render(w, "fragment", h.data(nf.View()))
}

// Search 検索語更新
// @Summary      検索語更新
// @Description  検索語を置き換えます。htmx リクエストには結果グリッドのみ、それ以外にはフラグメント全体を返します。
// @Tags         newsapp
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        search  formData  string  false  "検索語"
// @Success      200 {string} string "HTML fragment"
// @Failure      400 {object} map[string]string "invalid form body"
// @Router       /NewsApp/search [post]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid form body"))
		return
	}

	nf, err := h.resolve(w, r)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	nf.SetSearchTerm(r.PostFormValue("search"))

	name := "fragment"
	if r.Header.Get("HX-Request") == "true" {
		name = "results"
	}
	h.render(w, name, h.data(nf.View()))
}

// StateResponse is the JSON view of a NewsFeed.
type StateResponse struct {
	State      string        `json:"state" example:"ready"`
	Error      string        `json:"error,omitempty"`
	SearchTerm string        `json:"searchTerm"`
	Total      int           `json:"total"`
	Cards      []feedUC.Card `json:"cards"`
}

// State NewsFeed 状態取得
// @Summary      NewsFeed 状態取得
// @Description  呼び出し元セッションの NewsFeed を JSON で返します。wait を指定すると取得完了まで最大その時間待機します。
// @Tags         newsapp
// @Produce      json
// @Param        wait  query  string  false  "最大待機時間 (例: 5s, 上限 30s)"
// @Success      200 {object} StateResponse
// @Failure      400 {object} map[string]string "invalid wait duration"
// @Router       /NewsApp/state [get]
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	var wait time.Duration
	if raw := r.URL.Query().Get("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid wait duration"))
			return
		}
		wait = min(d, maxStateWait)
	}

	nf, err := h.resolve(w, r)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	if wait > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), wait)
		// タイムアウトしても現在の状態を返す
		_ = nf.Wait(ctx)
		cancel()
	}

	v := nf.View()
	respond.JSON(w, http.StatusOK, StateResponse{
		State:      v.State.String(),
		Error:      v.Error,
		SearchTerm: v.SearchTerm,
		Total:      v.Total,
		Cards:      v.Cards,
	})
}

// Unmount フラグメント破棄
// @Summary      フラグメント破棄
// @Description  ホストがフラグメントを外した際に呼び出します。取得中のリクエストを取り消し、セッションの紐付けを解除します。
// @Tags         newsapp
// @Success      204
// @Router       /NewsApp/unmount [post]
func (h *Handler) Unmount(w http.ResponseWriter, r *http.Request) {
	if id := h.sessions.mountID(r); id != "" {
		h.registry.Unmount(id)
		logging.WithRequestID(r.Context(), h.logger).Info("news feed unmounted by host", slog.String("mount_id", id))
	}
	if err := h.sessions.unbind(w, r); err != nil {
		h.logger.Warn("failed to expire session", slog.Any("error", err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Manifest リモートマニフェスト取得
// @Summary      リモートマニフェスト取得
// @Description  ホストシェルが NewsApp を読み込むためのモジュール名・公開エントリ・共有ライブラリを返します。
// @Tags         newsapp
// @Produce      json
// @Success      200 {object} config.RemoteManifest
// @Router       /NewsApp/manifest.json [get]
func (h *Handler) Manifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	respond.JSON(w, http.StatusOK, h.manifest)
}
