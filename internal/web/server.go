package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"ganttboard/internal/model"
	"ganttboard/internal/mutate"
	"ganttboard/internal/publish"
	"ganttboard/internal/store"
	"ganttboard/internal/timeline"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

const (
	mainSelector  = "#app"
	keepAlive     = 25 * time.Second
	activityLimit = 12
)

type ServerConfig struct {
	Store  *store.ProjectStore
	Logger logrus.FieldLogger
}

type Server struct {
	mu       sync.Mutex
	resizers map[string]*timeline.Resizer

	store *store.ProjectStore
	log   logrus.FieldLogger
	tmpl  *template.Template
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("web: store is nil")
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim":        strings.TrimSpace,
		"displayDate": model.DisplayDate,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		resizers: map[string]*timeline.Resizer{},
		store:    cfg.Store,
		log:      log.WithField("component", "web"),
		tmpl:     tmpl,
	}, nil
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/static/app.css", s.handleAppCSS).Methods(http.MethodGet)
	r.HandleFunc("/static/app.js", s.handleAppJS).Methods(http.MethodGet)
	r.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)

	r.HandleFunc("/project", s.handleProjectUpdate).Methods(http.MethodPost)
	r.HandleFunc("/tasks", s.handleTaskCreate).Methods(http.MethodPost)
	// Registered before /tasks/{id} so "reorder" is not taken for an id.
	r.HandleFunc("/tasks/reorder", s.handleTaskReorder).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", s.handleTaskUpdate).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}/today", s.handleTaskToday).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}/resize/{edge}/begin", s.handleResizeBegin).Methods(http.MethodPost)
	r.HandleFunc("/resize/move", s.handleResizeMove).Methods(http.MethodPost)
	r.HandleFunc("/resize/end", s.handleResizeEnd).Methods(http.MethodPost)
	r.HandleFunc("/resize/cancel", s.handleResizeCancel).Methods(http.MethodPost)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppJS(w http.ResponseWriter, r *http.Request) {
	s.serveAsset(w, r, "static/app.js", "application/javascript; charset=utf-8")
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	s.serveAsset(w, r, "static/app.css", "text/css; charset=utf-8")
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, name, contentType string) {
	b, err := assetsFS.ReadFile(name)
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	vm := pageVM{
		ClientID: uuid.NewString(),
		Main:     s.mainVM(r.Context()),
	}
	sig, _ := json.Marshal(map[string]any{
		"clientId": vm.ClientID,
		"new":      newTaskSignals{},
		"field":    "",
		"value":    "",
		"from":     0,
		"to":       0,
	})
	vm.Signals = string(sig)
	s.writeHTMLTemplate(w, "index.html", vm)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	data := s.store.Snapshot()
	layout := timeline.Compute(data.Tasks, s.store.Today())
	md := publish.RenderProjectMarkdown(data, layout, publish.RenderOptions{})
	s.writeHTMLTemplate(w, "report.html", reportVM{Title: data.Title, Body: renderMarkdownHTML(md)})
}

// handleEvents streams a re-rendered #app after every store change until the client
// goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ch, cancel := s.store.Subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	patch := func() {
		html, err := s.renderTemplate("main", s.mainVM(sse.Context()))
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		_ = sse.PatchElements(html, datastar.WithSelector(mainSelector), datastar.WithMode(datastar.ElementPatchModeOuter))
	}

	// Catch up on anything that changed between page load and this connection.
	patch()
	for {
		select {
		case <-sse.Context().Done():
			return
		case <-ticker.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case _, ok := <-ch:
			if !ok {
				return
			}
			patch()
		}
	}
}

type newTaskSignals struct {
	Name      string     `json:"name"`
	Duration  flexString `json:"duration"`
	StartDate string     `json:"startDate"`
}

// actionSignals is the union of the signals the page posts with each action.
type actionSignals struct {
	ClientID   string         `json:"clientId"`
	Field      string         `json:"field"`
	Value      flexString     `json:"value"`
	New        newTaskSignals `json:"new"`
	From       int            `json:"from"`
	To         int            `json:"to"`
	PointerPx  float64        `json:"pointerPx"`
	TimelinePx float64        `json:"timelinePx"`
}

// flexString accepts a JSON string or number; bound number inputs post numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func isDatastarRequest(r *http.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("Datastar-Request")), "true")
}

func (s *Server) readSignals(w http.ResponseWriter, r *http.Request) (actionSignals, bool) {
	var sig actionSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, "invalid signals: "+err.Error(), http.StatusBadRequest)
		return actionSignals{}, false
	}
	sig.ClientID = strings.TrimSpace(sig.ClientID)
	sig.Field = strings.TrimSpace(sig.Field)
	return sig, true
}

// finish answers an action. Datastar actions never fail visibly: the /events stream
// keeps showing the last good state, so errors are only logged. Plain requests get a
// status code.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, err error) {
	if isDatastarRequest(r) {
		if err != nil {
			s.log.WithError(err).WithField("path", r.URL.Path).Debug("action ignored")
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	var (
		nf  mutate.NotFoundError
		ir  mutate.InvalidRangeError
		oor mutate.IndexOutOfRangeError
		bad badRequestError
	)
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ir), errors.As(err, &oor):
		return http.StatusUnprocessableEntity
	case errors.As(err, &bad):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func (s *Server) handleProjectUpdate(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	v := string(sig.Value)
	var patch model.ProjectPatch
	switch sig.Field {
	case "title":
		patch.Title = &v
	case "company":
		patch.Company = &v
	case "projectLead":
		patch.ProjectLead = &v
	case "startDate":
		patch.StartDate = &v
	default:
		s.finish(w, r, badRequestError{msg: "unknown project field: " + sig.Field})
		return
	}
	_, err := s.store.UpdateProjectData(patch)
	s.finish(w, r, err)
}

// taskPatchFor coerces a single edited cell into a patch. Progress and duration that
// do not parse as integers are ignored, matching the table's number inputs.
func taskPatchFor(field, value string) (model.TaskPatch, error) {
	var p model.TaskPatch
	switch field {
	case "name":
		p.Name = &value
	case "assignedTo":
		p.AssignedTo = &value
	case "startDate":
		p.StartDate = &value
	case "endDate":
		p.EndDate = &value
	case "progress", "duration":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return p, badRequestError{msg: fmt.Sprintf("invalid %s: %q", field, value)}
		}
		if field == "progress" {
			p.Progress = &n
		} else {
			p.Duration = &n
		}
	default:
		return p, badRequestError{msg: "unknown task field: " + field}
	}
	return p, nil
}

func (s *Server) handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	patch, err := taskPatchFor(sig.Field, string(sig.Value))
	if err != nil {
		s.finish(w, r, err)
		return
	}
	_, err = s.store.UpdateTask(id, patch)
	s.finish(w, r, err)
}

func (s *Server) handleTaskToday(w http.ResponseWriter, r *http.Request) {
	_, err := s.store.SetTaskToToday(mux.Vars(r)["id"])
	s.finish(w, r, err)
}

// validNewTask is the create form guard: every field filled in and a positive duration.
func validNewTask(n newTaskSignals) (name string, days int, start string, ok bool) {
	name = strings.TrimSpace(n.Name)
	start = strings.TrimSpace(n.StartDate)
	days, err := strconv.Atoi(strings.TrimSpace(string(n.Duration)))
	if name == "" || start == "" || err != nil || days <= 0 {
		return "", 0, "", false
	}
	return name, days, start, true
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	name, days, start, valid := validNewTask(sig.New)
	if !valid {
		s.finish(w, r, badRequestError{msg: "name, positive duration and start date are required"})
		return
	}
	t, err := s.store.CreateTask(name, days, start)
	if err != nil {
		s.finish(w, r, err)
		return
	}

	if isDatastarRequest(r) {
		sse := datastar.NewSSE(w, r)
		_ = sse.MarshalAndPatchSignals(map[string]any{"new": newTaskSignals{}})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(t)
}

func (s *Server) handleTaskReorder(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	_, err := s.store.ReorderTasks(sig.From, sig.To)
	s.finish(w, r, err)
}

func (s *Server) resizerFor(clientID string, create bool) *timeline.Resizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	rz := s.resizers[clientID]
	if rz == nil && create {
		rz = &timeline.Resizer{}
		s.resizers[clientID] = rz
	}
	return rz
}

func (s *Server) dropResizer(clientID string) {
	s.mu.Lock()
	delete(s.resizers, clientID)
	s.mu.Unlock()
}

func (s *Server) handleResizeBegin(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	if sig.ClientID == "" {
		s.finish(w, r, badRequestError{msg: "missing clientId"})
		return
	}
	edge, err := timeline.ParseEdge(vars["edge"])
	if err != nil {
		s.finish(w, r, badRequestError{msg: err.Error()})
		return
	}
	t, found := s.store.Task(vars["id"])
	if !found {
		s.finish(w, r, mutate.NotFoundError{Kind: "task", ID: vars["id"]})
		return
	}

	rz := s.resizerFor(sig.ClientID, true)
	s.mu.Lock()
	rz.Begin(t, edge)
	s.mu.Unlock()
	s.log.WithFields(logrus.Fields{"client": sig.ClientID, "task": t.ID, "edge": edge}).Debug("resize begin")
	s.finish(w, r, nil)
}

func (s *Server) handleResizeMove(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	rz := s.resizerFor(sig.ClientID, false)
	if rz == nil {
		s.finish(w, r, nil)
		return
	}

	s.mu.Lock()
	id, _, resizing := rz.Target()
	s.mu.Unlock()
	if !resizing {
		s.finish(w, r, nil)
		return
	}

	data := s.store.Snapshot()
	t, _, found := data.FindTask(id)
	if !found {
		s.dropResizer(sig.ClientID)
		s.finish(w, r, mutate.NotFoundError{Kind: "task", ID: id})
		return
	}
	rng := timeline.ComputeRange(data.Tasks, s.store.Today())

	s.mu.Lock()
	patch, valid := rz.Move(t, rng, sig.PointerPx, sig.TimelinePx)
	s.mu.Unlock()
	if !valid {
		s.finish(w, r, nil)
		return
	}
	_, err := s.store.ApplyResize(id, patch)
	s.finish(w, r, err)
}

func (s *Server) handleResizeEnd(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	if rz := s.resizerFor(sig.ClientID, false); rz != nil {
		s.mu.Lock()
		rz.End()
		s.mu.Unlock()
		s.dropResizer(sig.ClientID)
	}
	s.finish(w, r, nil)
}

func (s *Server) handleResizeCancel(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.readSignals(w, r)
	if !ok {
		return
	}
	rz := s.resizerFor(sig.ClientID, false)
	if rz == nil {
		s.finish(w, r, nil)
		return
	}
	s.mu.Lock()
	id, restore, cancelled := rz.Cancel()
	s.mu.Unlock()
	s.dropResizer(sig.ClientID)
	if !cancelled {
		s.finish(w, r, nil)
		return
	}
	_, err := s.store.ApplyResize(id, restore)
	s.finish(w, r, err)
}

// activeResizes reports how many clients are mid-drag.
func (s *Server) activeResizes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rz := range s.resizers {
		if rz.State() == timeline.Resizing {
			n++
		}
	}
	return n
}

func (s *Server) recentActivity(ctx context.Context) []model.Event {
	evs, err := s.store.Events(ctx, activityLimit)
	if err != nil {
		s.log.WithError(err).Warn("read activity")
		return nil
	}
	// Newest first.
	for i, k := 0, len(evs)-1; i < k; i, k = i+1, k-1 {
		evs[i], evs[k] = evs[k], evs[i]
	}
	return evs
}
