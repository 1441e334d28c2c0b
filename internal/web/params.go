package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/newsroom/internal/core"
	"github.com/JonMunkholm/newsroom/internal/lookup"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// Query parameters with a fixed meaning on list endpoints. Every other
// parameter names a column filter.
const (
	paramSkip   = "skip"
	paramLimit  = "limit"
	paramBegin  = "begin"
	paramEnd    = "end"
	paramPeriod = "period"
	paramIDs    = "ids"
)

// errMalformedBody marks a body that is not a JSON object.
var errMalformedBody = errors.New("malformed request body")

// invalidParam reports a query parameter that cannot be used.
func invalidParam(table, name, msg string) error {
	return &core.OpError{Op: "filter", Table: table, Column: name, Kind: core.ErrUnprocessable, Msg: msg}
}

// parseListRequest reads paging, period, id and column filters for info.
func (s *Server) parseListRequest(r *http.Request, info core.TableInfo) (core.ListRequest, error) {
	q := r.URL.Query()
	req := core.ListRequest{Limit: s.opts.Query.DefaultLimit}

	if v := q.Get(paramSkip); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, invalidParam(info.Name, paramSkip, fmt.Sprintf("invalid value type: skip %q is not an integer", v))
		}
		req.Skip = n
	}

	if v := q.Get(paramLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return req, invalidParam(info.Name, paramLimit, fmt.Sprintf("invalid value type: limit %q is not a positive integer", v))
		}
		req.Limit = min(n, s.opts.Query.MaxLimit)
	}

	for name, dst := range map[string]*time.Time{paramBegin: &req.Period.Begin, paramEnd: &req.Period.End} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		d, err := core.ParseDate(v, s.loc)
		if err != nil {
			return req, invalidParam(info.Name, name, err.Error())
		}
		*dst = d
	}

	switch strings.ToLower(q.Get(paramPeriod)) {
	case "", "created":
	case "updated":
		req.UseUpdatedAt = true
	default:
		return req, invalidParam(info.Name, paramPeriod, fmt.Sprintf("period %q must be created or updated", q.Get(paramPeriod)))
	}

	if v := q.Get(paramIDs); v != "" {
		ids, err := lookup.ParseIDList(v)
		if err != nil {
			return req, invalidParam(info.Name, paramIDs, err.Error())
		}
		if len(ids) == 0 {
			return req, invalidParam(info.Name, paramIDs, "id list filter needs at least one value")
		}
		req.IDs = make([]int64, len(ids))
		for i, id := range ids {
			req.IDs[i] = int64(id)
		}
	}

	criteria := make(core.Criteria)
	for name, values := range q {
		switch name {
		case paramSkip, paramLimit, paramBegin, paramEnd, paramPeriod, paramIDs:
			continue
		}
		raw := values[0]
		if raw == "" {
			continue
		}
		col, ok := info.Column(name)
		if !ok {
			// Left for the model to reject by name.
			criteria[name] = raw
			continue
		}
		v, err := core.ParseValue(col.Kind, raw, s.loc)
		if err != nil {
			return req, invalidParam(info.Name, name, "invalid value type: "+err.Error())
		}
		criteria[name] = v
	}
	if len(criteria) > 0 {
		req.Criteria = criteria
	}

	return req, nil
}

// parseID reads the {id} path parameter.
func parseID(r *http.Request, table string) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.OpError{Op: "resolve", Table: table, Kind: core.ErrNotFound,
			Msg: fmt.Sprintf("no row with id %q", raw)}
	}
	return id, nil
}

// decodePayload reads a JSON object body and converts each value for its
// column. Keys that are not columns are passed through for the model to
// judge.
func (s *Server) decodePayload(w http.ResponseWriter, r *http.Request, info core.TableInfo) (core.Values, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", errMalformedBody)
		}
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: body is null", errMalformedBody)
	}

	values := make(core.Values, len(body))
	for name, v := range body {
		col, ok := info.Column(name)
		if !ok || v == nil {
			values[name] = v
			continue
		}
		nv, err := core.NormalizeValue(col.Kind, v, s.loc)
		if err != nil {
			return nil, &core.OpError{Op: "decode", Table: info.Name, Column: name, Kind: core.ErrUnprocessable,
				Msg: "invalid value type: " + err.Error()}
		}
		values[name] = nv
	}
	return values, nil
}
