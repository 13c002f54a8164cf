package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/pagination"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/querycache"
)

// maxExportPages bounds an export walk against a backend whose meta never ends.
const maxExportPages = 1000

var listFamily = querycache.NewKey("attendance", "list")

// ListKey is the cache key of one attendance page.
func ListKey(params listquery.Params) querycache.Key {
	return listFamily.With(params.Values())
}

// PhotoKey is the cache key of one downloaded photo.
func PhotoKey(resolvedURL string) querycache.Key {
	return querycache.NewKey("attendance-photo", resolvedURL)
}

// Config sets cache lifetimes and the origins photos may be downloaded from.
// The attendance service's own origin is always allowed.
type Config struct {
	List         querycache.Options
	Photo        querycache.Options
	PhotoOrigins []string
}

type AttendanceServiceImpl struct {
	api     *apiclient.Client
	cache   *querycache.Client
	cfg     Config
	origins []string
}

func NewAttendanceService(api *apiclient.Client, cache *querycache.Client, cfg Config) attendance.AttendanceService {
	origins := []string{api.Origin()}
	for _, o := range cfg.PhotoOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return &AttendanceServiceImpl{
		api:     api,
		cache:   cache,
		cfg:     cfg,
		origins: origins,
	}
}

// ListQuery implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListQuery(params listquery.Params) querycache.Spec[attendance.ListResult] {
	params = params.Clone()
	return querycache.Spec[attendance.ListResult]{
		Key:     ListKey(params),
		Options: s.cfg.List,
		Fetch: func(ctx context.Context) (attendance.ListResult, error) {
			return s.fetchList(ctx, params)
		},
	}
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, params listquery.Params) (attendance.ListResult, error) {
	if err := attendance.ValidateFilters(params); err != nil {
		return attendance.ListResult{}, err
	}
	return querycache.Query(ctx, s.cache, s.ListQuery(params))
}

func (s *AttendanceServiceImpl) fetchList(ctx context.Context, params listquery.Params) (attendance.ListResult, error) {
	resp, err := s.api.Get(ctx, "/attendance", params.Values())
	if err != nil {
		return attendance.ListResult{}, err
	}

	var items []attendance.Attendance
	if err := resp.Into(&items); err != nil {
		return attendance.ListResult{}, fmt.Errorf("failed to decode attendance list: %w", err)
	}
	meta, ok := resp.Meta()
	if !ok {
		meta = pagination.NewMeta(len(items), params.Page, params.Limit)
	}
	return attendance.ListResult{Items: items, Meta: meta}, nil
}

// ExportAttendance implements attendance.AttendanceService. Pages are fetched
// directly so an export never evicts or replaces what the list view shows.
func (s *AttendanceServiceImpl) ExportAttendance(ctx context.Context, params listquery.Params) ([]attendance.Attendance, error) {
	if err := attendance.ValidateFilters(params); err != nil {
		return nil, err
	}

	p := params.Normalize(attendance.ExportPageSize)
	p.Page = 1
	p.Limit = attendance.ExportPageSize

	var all []attendance.Attendance
	for {
		res, err := s.fetchList(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("failed to export attendance page %d: %w", p.Page, err)
		}
		all = append(all, res.Items...)

		if len(res.Items) == 0 || p.Page >= res.Meta.TotalPages || p.Page >= maxExportPages {
			break
		}
		p.Page++
	}

	slog.Info("Attendance exported", "records", len(all), "pages", p.Page)
	return all, nil
}

// PhotoURL implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PhotoURL(path string) string {
	return attendance.ResolvePhotoURL(s.api.Origin(), path)
}

// Photo implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Photo(ctx context.Context, photoURL string) (attendance.Photo, error) {
	if strings.TrimSpace(photoURL) == "" {
		return attendance.Photo{}, attendance.ErrNoPhoto
	}

	resolved := s.PhotoURL(photoURL)
	if !s.allowedOrigin(resolved) {
		slog.Warn("Refused photo from unknown origin", "url", resolved)
		return attendance.Photo{}, attendance.ErrPhotoNotFound
	}

	return querycache.Query(ctx, s.cache, querycache.Spec[attendance.Photo]{
		Key:     PhotoKey(resolved),
		Options: s.cfg.Photo,
		Fetch: func(ctx context.Context) (attendance.Photo, error) {
			resp, err := s.api.Fetch(ctx, resolved)
			if err != nil {
				if errors.Is(err, apiclient.ErrNotFound) {
					return attendance.Photo{}, attendance.ErrPhotoNotFound
				}
				return attendance.Photo{}, err
			}
			return attendance.Photo{ContentType: resp.ContentType(), Data: resp.Body}, nil
		},
	})
}

func (s *AttendanceServiceImpl) allowedOrigin(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return slices.Contains(s.origins, u.Scheme+"://"+u.Host)
}
