// Package query builds immutable request descriptors for the App Store
// Connect API. The builder is a value type: every method returns a new
// builder, so a partially configured builder can be shared across
// goroutines without locks.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/plexatic/storeconnect/internal/errs"
)

// MaxPageSize is the largest page the App Store Connect API will return.
const MaxPageSize = 200

// DefaultPageSize is used when a tool does not ask for a limit.
const DefaultPageSize = 50

// Spec is an immutable request descriptor consumed by the resource client.
// A non-empty Cursor takes precedence over Path+Params: it is the verbatim
// next-page URL returned by the API.
type Spec struct {
	Path   string
	Params map[string]string
	Cursor string
}

// WithCursor returns a copy of the spec pointing at the given opaque
// cursor. The params map is shared; specs are read-only by contract.
func (s Spec) WithCursor(cursor string) Spec {
	s.Cursor = cursor
	return s
}

// Encode renders the spec's parameters as a canonical query string.
func (s Spec) Encode() string {
	values := url.Values{}
	for k, v := range s.Params {
		values.Set(k, v)
	}
	return values.Encode()
}

// Builder accumulates server-side query configuration. The zero value is
// not usable; start with New.
type Builder struct {
	path    string
	filters map[string]string
	fields  map[string]string
	include []string
	sort    string
	limit   int
	cursor  string
	allowed []string
	err     error
}

// New starts a builder for the given resource path.
func New(path string) Builder {
	return Builder{path: path}
}

// WithFilter sets a server-side filter. Setting the same key twice keeps
// only the last value.
func (b Builder) WithFilter(key, value string) Builder {
	if value == "" {
		return b
	}
	filters := make(map[string]string, len(b.filters)+1)
	for k, v := range b.filters {
		filters[k] = v
	}
	filters[key] = value
	b.filters = filters
	return b
}

// WithFilterValues sets a multi-valued server-side filter, joined the way
// the API expects (comma-separated). Empty slices are ignored.
func (b Builder) WithFilterValues(key string, values []string) Builder {
	if len(values) == 0 {
		return b
	}
	return b.WithFilter(key, strings.Join(values, ","))
}

// WithSort sets the sort field, e.g. "-createdDate".
func (b Builder) WithSort(sort string) Builder {
	b.sort = sort
	return b
}

// WithLimit sets the page size. Values above MaxPageSize clamp to it;
// zero or negative values surface a configuration error at Build.
func (b Builder) WithLimit(n int) Builder {
	if n <= 0 {
		if b.err == nil {
			b.err = errs.New(errs.KindConfiguration, "page size must be positive, got %d", n)
		}
		return b
	}
	if n > MaxPageSize {
		n = MaxPageSize
	}
	b.limit = n
	return b
}

// WithFields restricts the attributes returned for a resource type.
func (b Builder) WithFields(resource string, fields []string) Builder {
	if len(fields) == 0 {
		return b
	}
	out := make(map[string]string, len(b.fields)+1)
	for k, v := range b.fields {
		out[k] = v
	}
	out["fields["+resource+"]"] = strings.Join(fields, ",")
	b.fields = out
	return b
}

// WithInclude requests related resources alongside the primary data.
func (b Builder) WithInclude(include []string) Builder {
	if len(include) == 0 {
		return b
	}
	b.include = append([]string(nil), include...)
	return b
}

// WithCursor seeds the builder with an opaque pagination cursor.
func (b Builder) WithCursor(cursor string) Builder {
	b.cursor = cursor
	return b
}

// WithAllowedFilters installs an allow-list of server filter keys. Build
// rejects any filter outside the list, surfacing API-spec drift as an
// error instead of a silent no-op.
func (b Builder) WithAllowedFilters(keys ...string) Builder {
	b.allowed = append([]string(nil), keys...)
	return b
}

// Build validates the accumulated configuration and returns an immutable
// Spec. It performs no I/O.
func (b Builder) Build() (Spec, error) {
	if b.err != nil {
		return Spec{}, b.err
	}
	if b.allowed != nil {
		for key := range b.filters {
			if !contains(b.allowed, key) {
				return Spec{}, errs.New(errs.KindUnsupportedFilter,
					"filter %q is not supported for %s", key, b.path).
					With("filter", key).
					With("supported", b.allowed)
			}
		}
	}

	params := make(map[string]string, len(b.filters)+len(b.fields)+3)
	for k, v := range b.filters {
		params["filter["+k+"]"] = v
	}
	for k, v := range b.fields {
		params[k] = v
	}
	if b.sort != "" {
		params["sort"] = b.sort
	}
	if b.limit > 0 {
		params["limit"] = strconv.Itoa(b.limit)
	}
	if len(b.include) > 0 {
		params["include"] = strings.Join(b.include, ",")
	}

	return Spec{Path: b.path, Params: params, Cursor: b.cursor}, nil
}

func contains(list []string, key string) bool {
	for _, v := range list {
		if v == key {
			return true
		}
	}
	return false
}
