// Package web serves the search form, the result table and the location
// lists behind the form's dropdowns.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	model "github.com/cowin-slot-checker/src/model"
	"github.com/cowin-slot-checker/src/render"
	"github.com/cowin-slot-checker/src/search"
	"github.com/cowin-slot-checker/src/slots"
)

const requestTimeout = 30 * time.Second

type Searcher interface {
	Search(ctx context.Context, q search.Query) (slots.Result, error)
}

type Locations interface {
	GetStates(ctx context.Context) ([]model.State, error)
	GetDistricts(ctx context.Context, stateID int) ([]model.District, error)
}

type Server struct {
	Searcher  Searcher
	Locations Locations
	Now       func() time.Time
}

// Router wires every route of the web frontend.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.ServeIndex)
	r.Get("/search", s.HandleSearch)
	r.Get("/status", Status)
	r.Route("/api", func(r chi.Router) {
		r.Get("/states", s.HandleStates)
		r.Get("/districts/{stateID}", s.HandleDistricts)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Infoln("Request completed in: ", time.Since(start))
	})
}

func Status(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("GOOD"))
}

func (s *Server) today() string {
	if s.Now != nil {
		return slots.DateOf(s.Now()).String()
	}
	return slots.Today().String()
}

type pageData struct {
	Today   string
	Query   search.Query
	Message string
	Table   template.HTML
}

func (s *Server) ServeIndex(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, http.StatusOK, pageData{Today: s.today(), Query: search.Query{MinAge: 18, Date: s.today()}})
}

// HandleSearch runs the search described by the query string and renders the
// weekly table, or the reason there is none.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	age, _ := strconv.Atoi(values.Get("age"))
	dose, _ := strconv.Atoi(values.Get("dose"))
	q := search.Query{
		MinAge:     age,
		Dose:       slots.Dose(dose),
		DistrictID: values.Get("district"),
		Pincode:    values.Get("pincode"),
		Date:       values.Get("date"),
	}
	data := pageData{Today: s.today(), Query: q}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	result, err := s.Searcher.Search(ctx, q)
	if err != nil {
		data.Message = search.UserMessage(err)
		s.writePage(w, statusFor(err), data)
		return
	}

	var table bytes.Buffer
	if err := render.HTML(&table, result); err != nil {
		log.WithError(err).Errorln("Rendering result failed")
		data.Message = search.UserMessage(err)
		s.writePage(w, http.StatusInternalServerError, data)
		return
	}
	data.Table = template.HTML(table.String())
	s.writePage(w, http.StatusOK, data)
}

func statusFor(err error) int {
	var inputErr *search.InputError
	var httpErr *model.HttpError
	var shapeErr *slots.ShapeError
	switch {
	case errors.Is(err, search.ErrNoSlots):
		return http.StatusOK
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &httpErr):
		if httpErr.SessionExpired() {
			return http.StatusUnauthorized
		}
		return http.StatusBadGateway
	case errors.As(err, &shapeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writePage(w http.ResponseWriter, status int, data pageData) {
	var page bytes.Buffer
	if err := pageTemplate.Execute(&page, data); err != nil {
		log.WithError(err).Errorln("Rendering page failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(page.Bytes())
}

func (s *Server) HandleStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.Locations.GetStates(r.Context())
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.CowinStatesResponse{States: states})
}

func (s *Server) HandleDistricts(w http.ResponseWriter, r *http.Request) {
	stateID, err := strconv.Atoi(chi.URLParam(r, "stateID"))
	if err != nil || stateID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please select state"})
		return
	}
	districts, err := s.Locations.GetDistricts(r.Context(), stateID)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.CowinDistrictsResponse{Districts: districts})
}

func writeJSONError(w http.ResponseWriter, err error) {
	log.WithError(err).Warnln("Location lookup failed")
	writeJSON(w, statusFor(err), map[string]string{"error": search.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing to response: %v", err)
	}
}
