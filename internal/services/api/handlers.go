package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/atelier.studio/internal/platform/action"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
	"github.com/louisbranch/atelier.studio/internal/platform/id"
	"github.com/louisbranch/atelier.studio/internal/platform/requestctx"
	"github.com/louisbranch/atelier.studio/internal/storage"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// Server hosts the database-proxy endpoints.
type Server struct {
	store  storage.ProxyStore
	tokens TokenConfig
	clock  func() time.Time
	newID  func() (string, error)
}

// NewServer builds a proxy server over the studio store.
func NewServer(store storage.ProxyStore, tokens TokenConfig) *Server {
	return &Server{
		store:  store,
		tokens: tokens,
		clock:  time.Now,
		newID:  id.NewID,
	}
}

// RegisterRoutes registers the proxy endpoints on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	if mux == nil {
		return
	}
	mux.HandleFunc("GET /api/tables", s.withToken(s.handleListTables))
	mux.HandleFunc("POST /api/tables/{table}/query", s.withToken(s.handleQuery))
	mux.HandleFunc("GET /api/tables/{table}/rows/{key}", s.withToken(s.handleGet))
	mux.HandleFunc("POST /api/tables/{table}/rows", s.withToken(s.handleCreate))
	mux.HandleFunc("PATCH /api/tables/{table}/rows/{key}", s.withToken(s.handleUpdate))
	mux.HandleFunc("DELETE /api/tables/{table}/rows/{key}", s.withToken(s.handleDelete))
}

// withToken authenticates the bearer token and stores the caller identity
// in the request context.
func (s *Server) withToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			action.WriteFailure(w, apperrors.CodeUnauthorized, "bearer token is required")
			return
		}
		claims, err := VerifyToken(strings.TrimPrefix(header, "Bearer "), s.tokens)
		if err != nil {
			action.WriteError(w, err)
			return
		}
		next(w, r.WithContext(requestctx.WithUserID(r.Context(), claims.Subject)))
	}
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	action.WriteOK(w, map[string]any{"tables": Tables()})
}

type queryRequest struct {
	Filter    string `json:"filter"`
	OrderBy   string `json:"order_by"`
	PageSize  int    `json:"page_size"`
	PageToken string `json:"page_token"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	table, err := tableByName(r.PathValue("table"))
	if err != nil {
		action.WriteError(w, err)
		return
	}

	var req queryRequest
	if err := decodeBody(r, &req); err != nil {
		action.WriteError(w, err)
		return
	}

	condition, err := parseFilter(table, req.Filter)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	orderBy, err := resolveOrderBy(table, req.OrderBy)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	token, err := decodePageToken(req.PageToken, req.Filter)
	if err != nil {
		action.WriteError(w, err)
		return
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	rows, err := s.store.QueryRows(r.Context(), storage.TableQuery{
		Table:   table.Name,
		Columns: table.columnNames(),
		Where:   condition.Clause,
		Args:    condition.Params,
		OrderBy: orderBy,
		Limit:   pageSize + 1,
		Offset:  token.Offset,
	})
	if err != nil {
		action.WriteError(w, err)
		return
	}

	nextToken := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		nextToken = encodePageToken(pageToken{
			Offset:     token.Offset + pageSize,
			FilterHash: hashFilter(req.Filter),
		})
	}

	action.WriteOK(w, map[string]any{
		"rows":            rows,
		"next_page_token": nextToken,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	table, err := tableByName(r.PathValue("table"))
	if err != nil {
		action.WriteError(w, err)
		return
	}
	key := r.PathValue("key")

	row, err := s.store.GetRow(r.Context(), table.Name, table.columnNames(), key)
	if err != nil && apperrors.CodeOf(err) == apperrors.CodeNotFound && table.SlugColumn != "" {
		row, err = s.getBySlug(r, table, key)
	}
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, map[string]any{"row": row})
}

func (s *Server) getBySlug(r *http.Request, table Table, slug string) (map[string]any, error) {
	rows, err := s.store.QueryRows(r.Context(), storage.TableQuery{
		Table:   table.Name,
		Columns: table.columnNames(),
		Where:   table.SlugColumn + " = ?",
		Args:    []any{slug},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.WithMetadata(
			apperrors.CodeNotFound,
			fmt.Sprintf("no %s row for %q", table.Name, slug),
			map[string]string{"table": table.Name, "key": slug},
		)
	}
	return rows[0], nil
}

type createRequest struct {
	Values map[string]any `json:"values"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	table, err := tableByName(r.PathValue("table"))
	if err != nil {
		action.WriteError(w, err)
		return
	}

	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		action.WriteError(w, err)
		return
	}
	values, err := table.validateValues(req.Values, true)
	if err != nil {
		action.WriteError(w, err)
		return
	}

	rowID, err := s.newID()
	if err != nil {
		action.WriteError(w, apperrors.Wrap(apperrors.CodeDatabase, "mint row id", err))
		return
	}
	now := s.clock().UTC().UnixMilli()
	values["id"] = rowID
	values["created_at"] = now
	values["updated_at"] = now

	if err := s.store.InsertRow(r.Context(), table.Name, values); err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, map[string]any{"id": rowID, "updated_at": now})
}

type updateRequest struct {
	Values    map[string]any `json:"values"`
	UpdatedAt int64          `json:"updated_at"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	table, err := tableByName(r.PathValue("table"))
	if err != nil {
		action.WriteError(w, err)
		return
	}
	key := r.PathValue("key")

	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		action.WriteError(w, err)
		return
	}
	if req.UpdatedAt <= 0 {
		action.WriteError(w, apperrors.New(apperrors.CodePayloadInvalid, "updated_at is required"))
		return
	}
	values, err := table.validateValues(req.Values, false)
	if err != nil {
		action.WriteError(w, err)
		return
	}

	now := s.clock().UTC().UnixMilli()
	values["updated_at"] = now
	expected := time.UnixMilli(req.UpdatedAt).UTC()

	if err := s.store.UpdateRow(r.Context(), table.Name, key, values, expected); err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, map[string]any{"id": key, "updated_at": now})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	table, err := tableByName(r.PathValue("table"))
	if err != nil {
		action.WriteError(w, err)
		return
	}
	if table.ReadOnly {
		action.WriteError(w, apperrors.New(apperrors.CodeTableNotAllowed, "table "+table.Name+" is read only"))
		return
	}
	if table.NoDelete {
		action.WriteError(w, apperrors.New(apperrors.CodeTableNotAllowed, "table "+table.Name+" does not allow deletes"))
		return
	}

	if err := s.store.DeleteRow(r.Context(), table.Name, r.PathValue("key")); err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, nil)
}

// resolveOrderBy validates a caller-supplied ordering against the table's
// columns; empty input falls back to the table default.
func resolveOrderBy(table Table, orderBy string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		return table.OrderBy, nil
	}
	parts := strings.Split(orderBy, ",")
	resolved := make([]string, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(part)
		if len(fields) == 0 || len(fields) > 2 {
			return "", apperrors.New(apperrors.CodeFilterInvalid, "invalid order_by clause")
		}
		column, ok := table.column(fields[0])
		if !ok {
			return "", apperrors.WithMetadata(
				apperrors.CodeFieldNotAllowed,
				fmt.Sprintf("cannot order by %q", fields[0]),
				map[string]string{"table": table.Name, "column": fields[0]},
			)
		}
		direction := "ASC"
		if len(fields) == 2 {
			switch strings.ToLower(fields[1]) {
			case "asc":
			case "desc":
				direction = "DESC"
			default:
				return "", apperrors.New(apperrors.CodeFilterInvalid, "order direction must be asc or desc")
			}
		}
		resolved = append(resolved, column.Name+" "+direction)
	}
	return strings.Join(resolved, ", "), nil
}

func decodeBody(r *http.Request, target any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return apperrors.Wrap(apperrors.CodePayloadInvalid, "decode request body", err)
	}
	return nil
}
