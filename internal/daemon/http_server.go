package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	ferrors "git.home.luguber.info/inful/catalogmirror/internal/foundation/errors"
	"git.home.luguber.info/inful/catalogmirror/internal/jobs"
	"git.home.luguber.info/inful/catalogmirror/internal/logfields"
	"git.home.luguber.info/inful/catalogmirror/internal/metrics"
	"git.home.luguber.info/inful/catalogmirror/internal/server/middleware"
	"git.home.luguber.info/inful/catalogmirror/internal/server/responses"
	"git.home.luguber.info/inful/catalogmirror/internal/version"
)

const defaultEventLimit = 50

// AdminServer serves status, metrics and user actions over HTTP. Every
// mutating request runs on the daemon's owner goroutine.
type AdminServer struct {
	addr    string
	daemon  *Daemon
	errors  *ferrors.HTTPErrorAdapter
	server  *http.Server
	address net.Addr
}

// NewAdminServer creates an admin server listening on addr.
func NewAdminServer(addr string, d *Daemon) *AdminServer {
	return &AdminServer{addr: addr, daemon: d, errors: ferrors.NewHTTPErrorAdapter(slog.Default())}
}

// Handler returns the routed handler with logging and panic recovery.
func (s *AdminServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /lists/{name}", s.handleList)
	mux.HandleFunc("POST /poll", s.handlePoll)
	mux.HandleFunc("POST /reload", s.handleReload)
	mux.HandleFunc("POST /relocate", s.handleRelocate)
	mux.HandleFunc("POST /notify/{id}", s.handleNotify)
	mux.HandleFunc("GET /jobs", s.handleJobs)
	mux.HandleFunc("POST /jobs", s.handleTrackJob)
	mux.HandleFunc("POST /jobs/{handle}", s.handleUpdateJob)
	mux.HandleFunc("DELETE /jobs/{handle}", s.handleFinishJob)
	mux.HandleFunc("GET /news", s.handleNews)
	mux.HandleFunc("POST /news/read", s.handleNewsReadAll)
	mux.HandleFunc("POST /news/{index}/read", s.handleNewsRead)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.Handle("GET /metrics", metrics.HTTPHandler(s.daemon.rt.Metrics))
	return middleware.Chain(slog.Default(), s.errors)(mux)
}

// Start binds the listener and serves in the background.
func (s *AdminServer) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return ferrors.DaemonError("failed to bind admin listener").
			WithCause(err).
			WithContext("addr", s.addr).
			Build()
	}
	s.address = ln.Addr()
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Admin server failed", logfields.Error(err))
		}
	}()
	slog.Info("Admin server listening", slog.String("addr", s.address.String()))
	return nil
}

// Addr returns the bound address once started.
func (s *AdminServer) Addr() net.Addr { return s.address }

// Stop shuts the server down.
func (s *AdminServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *AdminServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, responses.HealthResponse{Status: "ok", Timestamp: time.Now(), Version: version.Version})
}

func (s *AdminServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	rt := s.daemon.rt
	writeJSON(w, http.StatusOK, responses.StatusResponse{
		Coordinator: rt.Coordinator.Status(),
		Version:     version.Version,
		NewsUnread:  rt.Feed.Unread(),
		NewsTotal:   rt.Feed.Len(),
		Timestamp:   time.Now(),
	})
}

func (s *AdminServer) handleList(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	records, ok := s.daemon.rt.Coordinator.List(name)
	if !ok {
		s.errors.WriteErrorResponse(w, r, ferrors.NotFoundError("unknown list").WithContext("list", name).Build())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *AdminServer) handlePoll(w http.ResponseWriter, _ *http.Request) {
	s.daemon.RequestPoll("admin")
	writeJSON(w, http.StatusAccepted, responses.AcceptedResponse{Status: "queued", Reason: "admin"})
}

func (s *AdminServer) handleReload(w http.ResponseWriter, r *http.Request) {
	rt := s.daemon.rt
	if err := s.daemon.Do(r.Context(), func(context.Context) { rt.Coordinator.LoadData() }); err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	resp := responses.ReloadResponse{Records: rt.Repo.Snapshot().Len()}
	if snap := rt.Repo.Snapshot(); snap != nil {
		resp.Generation = snap.Generation()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *AdminServer) handleRelocate(w http.ResponseWriter, r *http.Request) {
	var req responses.RelocateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	if req.Path == "" {
		s.errors.WriteErrorResponse(w, r, ferrors.ValidationError("path is required").Build())
		return
	}
	var result string
	err := s.daemon.Do(r.Context(), func(ctx context.Context) {
		result = s.daemon.rt.Relocator.Move(ctx, req.Path).String()
	})
	if err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, responses.RelocateResponse{Result: result, Path: req.Path})
}

func (s *AdminServer) handleNotify(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.errors.WriteErrorResponse(w, r, ferrors.ValidationError("action id must be an integer").Build())
		return
	}
	if err := s.daemon.Do(r.Context(), func(context.Context) { s.daemon.rt.Coordinator.NotifyButton(id) }); err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, responses.AcceptedResponse{Status: "handled"})
}

func (s *AdminServer) handleJobs(w http.ResponseWriter, _ *http.Request) {
	reg := s.daemon.rt.Jobs
	writeJSON(w, http.StatusOK, responses.JobsResponse{Jobs: reg.Jobs(), Orphaned: reg.Orphaned()})
}

func (s *AdminServer) handleTrackJob(w http.ResponseWriter, r *http.Request) {
	var req responses.TrackJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	rt := s.daemon.rt
	var (
		view   jobs.View
		jobErr error
	)
	err := s.daemon.Do(r.Context(), func(context.Context) {
		view, jobErr = rt.Jobs.Track(req.RecordID, req.Kind, rt.Repo.Snapshot())
	})
	if err = errors.Join(err, jobErr); err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *AdminServer) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var req responses.UpdateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	handle := r.PathValue("handle")
	s.jobAction(w, r, handle, func() error { return s.daemon.rt.Jobs.Update(handle, req.Status, req.Progress) })
}

func (s *AdminServer) handleFinishJob(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	s.jobAction(w, r, handle, func() error { return s.daemon.rt.Jobs.Finish(handle) })
}

func (s *AdminServer) jobAction(w http.ResponseWriter, r *http.Request, handle string, fn func() error) {
	var jobErr error
	err := s.daemon.Do(r.Context(), func(context.Context) { jobErr = fn() })
	if err = errors.Join(err, jobErr); err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	view, ok := s.daemon.rt.Jobs.Get(handle)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *AdminServer) handleNews(w http.ResponseWriter, _ *http.Request) {
	feed := s.daemon.rt.Feed
	items := feed.Items()
	resp := responses.NewsResponse{Unread: feed.Unread(), Items: make([]responses.NewsItem, 0, len(items))}
	for i, it := range items {
		resp.Items = append(resp.Items, responses.NewsItem{Index: i, Item: it})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *AdminServer) handleNewsRead(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.errors.WriteErrorResponse(w, r, ferrors.ValidationError("news index must be an integer").Build())
		return
	}
	s.newsAction(w, r, func() error { return s.daemon.rt.Feed.MarkAsRead(i) })
}

func (s *AdminServer) handleNewsReadAll(w http.ResponseWriter, r *http.Request) {
	s.newsAction(w, r, s.daemon.rt.Feed.MarkAllAsRead)
}

func (s *AdminServer) newsAction(w http.ResponseWriter, r *http.Request, fn func() error) {
	var newsErr error
	err := s.daemon.Do(r.Context(), func(context.Context) {
		if newsErr = fn(); newsErr == nil {
			s.daemon.rt.Display.RefreshNews()
		}
	})
	if err = errors.Join(err, newsErr); err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	s.handleNews(w, r)
}

func (s *AdminServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	store := s.daemon.rt.Store
	if store == nil {
		writeJSON(w, http.StatusOK, []responses.EventResponse{})
		return
	}
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.errors.WriteErrorResponse(w, r, ferrors.ValidationError("limit must be a positive integer").Build())
			return
		}
		limit = n
	}
	evts, err := store.Recent(r.Context(), limit)
	if err != nil {
		s.errors.WriteErrorResponse(w, r, err)
		return
	}
	out := make([]responses.EventResponse, 0, len(evts))
	for _, e := range evts {
		out = append(out, responses.EventResponse{
			ID:        e.ID(),
			Stream:    e.Stream(),
			Type:      e.Type(),
			Timestamp: e.Timestamp(),
			Payload:   json.RawMessage(e.Payload()),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ferrors.ValidationError("invalid request body").WithCause(err).Build()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode admin response", logfields.Error(err))
	}
}
