package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/episodes/internal/app"
	"github.com/JonMunkholm/episodes/internal/episode"
	"github.com/JonMunkholm/episodes/internal/export"
	"github.com/JonMunkholm/episodes/internal/logging"
	"github.com/JonMunkholm/episodes/internal/source"
	"github.com/JonMunkholm/episodes/internal/view"
	"github.com/JonMunkholm/episodes/internal/web/templates"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handlePage renders the full explorer page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()

	sources := make([]string, 0, len(s.session.Sources()))
	for _, src := range s.session.Sources() {
		sources = append(sources, src.Label())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Page(templates.PageData{
		Title:   PageTitle,
		Sources: sources,
		Table:   tableData(snap),
	}).Render(r.Context(), w)
}

// handleTable renders the explorer region. A q parameter replaces the
// filter text first.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if q, ok := r.URL.Query()["q"]; ok {
		text := ""
		if len(q) > 0 {
			text = q[0]
		}
		s.session.SetFilter(text)
	}
	s.renderTable(w, r)
}

// handleSort activates a column header.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "field")
	field, ok := view.ParseField(raw)
	if !ok {
		s.respondError(w, r, fmt.Errorf("invalid request: unknown sort field %q", raw), http.StatusBadRequest)
		return
	}

	st := s.session.ActivateHeader(field)
	logging.FromContext(r.Context()).Debug("sort", "field", st.Sort().Field, "dir", st.Sort().Dir())
	s.renderAfterPost(w, r)
}

// handleFocus moves the focused row up or down.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("dir")
	dir, ok := view.ParseDirection(raw)
	if !ok {
		s.respondError(w, r, fmt.Errorf("invalid request: dir must be up or down, got %q", raw), http.StatusBadRequest)
		return
	}

	s.session.Navigate(dir)
	s.renderAfterPost(w, r)
}

// reloadResponse is the JSON answer to POST /reload.
type reloadResponse struct {
	LoadID   uuid.UUID `json:"load_id"`
	Episodes int       `json:"episodes"`
	Warnings int       `json:"warnings"`
}

// handleReload fetches every source again. A failed load is shown in the
// explorer region like any other state. The load outlives the request: the
// dataset is shared, so a client hanging up must not wipe it.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	err := s.session.Load(context.WithoutCancel(r.Context()))

	if wantsJSON(r) {
		if err != nil {
			s.respondError(w, r, err, http.StatusBadGateway)
			return
		}
		snap := s.session.Snapshot()
		writeJSON(w, http.StatusOK, reloadResponse{
			LoadID:   snap.LoadID,
			Episodes: len(snap.State.Dataset()),
			Warnings: len(snap.Warnings),
		})
		return
	}

	s.renderAfterPost(w, r)
}

// handleExport downloads the visible rows as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if !s.requireLoaded(w, r, snap) {
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	if err := export.WriteCSV(w, snap.State.Visible()); err != nil {
		logging.FromContext(r.Context()).Error("csv export failed", "error", err)
	}
}

// episodesResponse is the JSON answer to GET /api/episodes.
type episodesResponse struct {
	Total    int               `json:"total"`
	Count    int               `json:"count"`
	Filter   string            `json:"filter"`
	Sort     view.Field        `json:"sort"`
	Dir      string            `json:"dir"`
	Episodes []episode.Episode `json:"episodes"`
}

// handleAPIEpisodes returns the dataset filtered and sorted by query
// parameters. It never touches the shared view state.
//
// Query parameters:
//   - q: filter text
//   - sort: column name (default: rank)
//   - dir: asc or desc (default: asc)
func (s *Server) handleAPIEpisodes(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if !s.requireLoaded(w, r, snap) {
		return
	}

	query := r.URL.Query()
	order := view.DefaultSort
	if raw := query.Get("sort"); raw != "" {
		field, ok := view.ParseField(raw)
		if !ok {
			s.respondError(w, r, fmt.Errorf("invalid request: unknown sort field %q", raw), http.StatusBadRequest)
			return
		}
		order.Field = field
	}
	switch dir := query.Get("dir"); dir {
	case "", "asc":
	case "desc":
		order.Ascending = false
	default:
		s.respondError(w, r, fmt.Errorf("invalid request: dir must be asc or desc, got %q", dir), http.StatusBadRequest)
		return
	}

	dataset := snap.State.Dataset()
	visible := view.Compute(dataset, query.Get("q"), order)
	writeJSON(w, http.StatusOK, episodesResponse{
		Total:    len(dataset),
		Count:    len(visible),
		Filter:   query.Get("q"),
		Sort:     order.Field,
		Dir:      order.Dir(),
		Episodes: visible,
	})
}

// warningsResponse is the JSON answer to GET /api/warnings.
type warningsResponse struct {
	LoadID   uuid.UUID        `json:"load_id"`
	LoadedAt time.Time        `json:"loaded_at"`
	Sources  []source.Summary `json:"sources"`
	Count    int              `json:"count"`
	Warnings []warningEntry   `json:"warnings"`
}

type warningEntry struct {
	episode.Warning
	Text string `json:"text"`
}

// handleAPIWarnings returns the data-quality warnings of the last load.
func (s *Server) handleAPIWarnings(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if !s.requireLoaded(w, r, snap) {
		return
	}

	entries := make([]warningEntry, len(snap.Warnings))
	for i, wn := range snap.Warnings {
		entries[i] = warningEntry{Warning: wn, Text: wn.String()}
	}
	writeJSON(w, http.StatusOK, warningsResponse{
		LoadID:   snap.LoadID,
		LoadedAt: snap.LoadedAt,
		Sources:  snap.Sources,
		Count:    len(entries),
		Warnings: entries,
	})
}

// healthResponse is the JSON answer to GET /healthz.
type healthResponse struct {
	Status   string `json:"status"`
	Loading  bool   `json:"loading"`
	Loaded   bool   `json:"loaded"`
	Episodes int    `json:"episodes"`
	Warnings int    `json:"warnings"`
	Error    string `json:"error,omitempty"`
}

// handleHealth reports liveness plus the state of the dataset. It answers
// 200 even when the last load failed; the process itself is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	resp := healthResponse{
		Status:   "ok",
		Loading:  snap.Loading,
		Loaded:   snap.Loaded(),
		Episodes: len(snap.State.Dataset()),
		Warnings: len(snap.Warnings),
	}
	if snap.Failure != nil {
		resp.Status = "degraded"
		resp.Error = snap.Failure.Code
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireLoaded answers 503 and returns false when there is no dataset to
// serve.
func (s *Server) requireLoaded(w http.ResponseWriter, r *http.Request, snap app.Snapshot) bool {
	switch {
	case snap.Failure != nil:
		s.respondMessage(w, r, *snap.Failure, http.StatusServiceUnavailable)
		return false
	case !snap.Loaded():
		s.respondError(w, r, errNotLoaded, http.StatusServiceUnavailable)
		return false
	}
	return true
}

// renderAfterPost answers a state-changing POST: HTMX gets the fresh
// explorer region, plain form posts are redirected back to the page.
func (s *Server) renderAfterPost(w http.ResponseWriter, r *http.Request) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderTable(w, r)
}

func (s *Server) renderTable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.TablePartial(tableData(s.session.Snapshot())).Render(r.Context(), w)
}

// tableData converts a session snapshot to the template model.
func tableData(snap app.Snapshot) templates.TableData {
	st := snap.State
	data := templates.TableData{
		Filter:       st.Filter(),
		Total:        len(st.Dataset()),
		Loading:      snap.Loading || (snap.Failure == nil && !snap.Loaded()),
		WarningCount: len(snap.Warnings),
	}
	if snap.Failure != nil {
		b := banner(*snap.Failure)
		data.Error = &b
	}

	order := st.Sort()
	data.Headers = make([]templates.Header, len(view.Columns))
	for i, f := range view.Columns {
		data.Headers[i] = templates.Header{
			Field:     string(f),
			Label:     f.Label(),
			Active:    f == order.Field,
			Ascending: order.Ascending,
		}
	}

	visible := st.Visible()
	data.Rows = make([]templates.Row, len(visible))
	for i, ep := range visible {
		data.Rows[i] = templates.Row{
			Cells:   view.Cells(ep),
			Focused: i == st.Focus(),
		}
	}
	return data
}
