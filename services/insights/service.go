package insights

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ebayinsights-backend/lib/scrapers/ebay"
	"ebayinsights-backend/lib/telemetry"
	"ebayinsights-backend/lib/timezone"
	"ebayinsights-backend/services/ingest"
	"ebayinsights-backend/services/listings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("ebayinsights.services.insights")

//go:embed templates/*.html
var templateFS embed.FS

const welcomeMessage = "Hello from eBay Insights API with DB!"

type Service struct {
	store     listings.Store
	pipeline  ingest.Pipeline
	templates *template.Template
}

// NewService serves the queries and items stored in `database`. Ingestion
// endpoints answer 503 when the pipeline has no marketplace.
func NewService(database *sql.DB, pipeline ingest.Pipeline) (Service, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return Service{}, fmt.Errorf("parse templates: %w", err)
	}
	if pipeline.Open == nil {
		pipeline.Open = ingest.SQLOpener(database)
	}
	return Service{
		store:     listings.NewStore(database),
		pipeline:  pipeline,
		templates: tmpl,
	}, nil
}

func (s Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.root)

	mux.HandleFunc("GET /queries", s.listQueries)
	mux.HandleFunc("POST /queries", s.createQuery)
	mux.HandleFunc("GET /queries/{id}/items", s.listItems)
	mux.HandleFunc("POST /queries/{id}/ingest", s.ingestQuery)

	mux.HandleFunc("GET /ui", s.uiQueries)
	mux.HandleFunc("GET /ui/queries", s.uiQueries)
	mux.HandleFunc("GET /ui/queries/{id}", s.uiQueryDetail)

	return otelhttp.NewHandler(mux, "insights")
}

func writeJson(ctx context.Context, w http.ResponseWriter, status int, value any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		slog.WarnContext(ctx, "failed to write response", "err", err)
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, detail string) {
	writeJson(ctx, w, status, errorBody{Detail: detail})
}

func internalError(ctx context.Context, w http.ResponseWriter, err error) {
	slog.ErrorContext(ctx, "request failed", "err", err)
	writeError(ctx, w, http.StatusInternalServerError, "Internal server error")
}

// resolveQuery reads the {id} path value, it writes the error response
// itself and returns false when the query cannot be served.
func (s Service) resolveQuery(w http.ResponseWriter, r *http.Request) (listings.Query, bool) {
	ctx := r.Context()
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Query id must be an integer")
		return listings.Query{}, false
	}
	query, err := s.store.GetQuery(ctx, id)
	if errors.Is(err, listings.ErrNotFound) {
		writeError(ctx, w, http.StatusNotFound, "Query not found")
		return listings.Query{}, false
	}
	if err != nil {
		internalError(ctx, w, err)
		return listings.Query{}, false
	}
	return query, true
}

func (s Service) root(w http.ResponseWriter, r *http.Request) {
	writeJson(r.Context(), w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (s Service) listQueries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	queries, err := s.store.ListQueries(ctx)
	if err != nil {
		internalError(ctx, w, err)
		return
	}
	if queries == nil {
		queries = []listings.Query{}
	}
	writeJson(ctx, w, http.StatusOK, queries)
}

type createQueryRequest struct {
	Name       string `json:"name"`
	SearchTerm string `json:"search_term"`
}

func (s Service) createQuery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "createQuery")
	defer span.End()

	var req createQueryRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.SearchTerm == "" {
		writeError(ctx, w, http.StatusBadRequest, "name and search_term are required")
		return
	}

	existing, err := s.store.FindQueryByName(ctx, req.Name)
	if err != nil {
		internalError(ctx, w, err)
		return
	}
	if existing != nil {
		writeError(ctx, w, http.StatusConflict, "Query with this name already exists")
		return
	}

	query, err := s.store.CreateQuery(ctx, req.Name, req.SearchTerm)
	if errors.Is(err, listings.ErrQueryExists) {
		writeError(ctx, w, http.StatusConflict, "Query with this name already exists")
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create query")
		internalError(ctx, w, err)
		return
	}
	writeJson(ctx, w, http.StatusCreated, query)
}

func (s Service) listItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query, ok := s.resolveQuery(w, r)
	if !ok {
		return
	}
	items, err := s.store.ListItemsForQuery(ctx, query.ID)
	if err != nil {
		internalError(ctx, w, err)
		return
	}
	if items == nil {
		items = []listings.Item{}
	}
	writeJson(ctx, w, http.StatusOK, items)
}

func (s Service) ingestQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.pipeline.Market == nil {
		writeError(ctx, w, http.StatusServiceUnavailable, "Marketplace is not configured")
		return
	}

	maxResults := ingest.DefaultMaxResults
	if raw := r.URL.Query().Get("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(ctx, w, http.StatusBadRequest, "max must be a non-negative integer")
			return
		}
		maxResults = parsed
	}

	query, ok := s.resolveQuery(w, r)
	if !ok {
		return
	}

	result, err := s.pipeline.Run(ctx, ingest.Request{
		Name:       query.Name,
		SearchTerm: query.SearchTerm,
		MaxResults: maxResults,
	})
	if errors.Is(err, ebay.ErrRequestFailed) {
		slog.WarnContext(ctx, "marketplace request failed", "query_id", query.ID, "err", err)
		writeError(ctx, w, http.StatusBadGateway, "Marketplace request failed")
		return
	}
	if err != nil {
		internalError(ctx, w, err)
		return
	}
	writeJson(ctx, w, http.StatusOK, result)
}

func (s Service) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to render template", "template", name, "err", err)
	}
}

type queryRow struct {
	listings.Query
	ItemCount int64
}

func (s Service) uiQueries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	queries, err := s.store.ListQueries(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list queries", "err", err)
		http.Error(w, "Error fetching queries", http.StatusInternalServerError)
		return
	}

	rows := make([]queryRow, len(queries))
	for i, q := range queries {
		count, err := s.store.CountItemsForQuery(ctx, q.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to count items", "query_id", q.ID, "err", err)
			http.Error(w, "Error fetching queries", http.StatusInternalServerError)
			return
		}
		rows[i] = queryRow{Query: q, ItemCount: count}
	}

	s.render(w, r, "queries.html", map[string]any{
		"Queries": rows,
	})
}

func (s Service) uiQueryDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Query not found", http.StatusNotFound)
		return
	}
	query, err := s.store.GetQuery(ctx, id)
	if errors.Is(err, listings.ErrNotFound) {
		http.Error(w, "Query not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get query", "query_id", id, "err", err)
		http.Error(w, "Error fetching query", http.StatusInternalServerError)
		return
	}
	items, err := s.store.ListItemsForQuery(ctx, query.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list items", "query_id", id, "err", err)
		http.Error(w, "Error fetching items", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "query_detail.html", map[string]any{
		"Query": query,
		"Items": items,
	})
}

var templateFuncs = template.FuncMap{
	"text": func(value *string) string {
		if value == nil {
			return "-"
		}
		return *value
	},
	"price": func(value *float64, currency *string) string {
		if value == nil {
			return "-"
		}
		if currency == nil {
			return strconv.FormatFloat(*value, 'f', 2, 64)
		}
		return fmt.Sprintf("%.2f %s", *value, *currency)
	},
	"count": func(value *int64) string {
		if value == nil {
			return "-"
		}
		return strconv.FormatInt(*value, 10)
	},
	"localtime": timezone.Format,
	"date": func(value *time.Time) string {
		if value == nil {
			return "-"
		}
		return timezone.Format(*value)
	},
}
