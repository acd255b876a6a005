// Package resource resolves public download URLs for published resources
// (study guides, sermon notes, program material). The actual files live with
// the hosted storage backend; this only picks the newest active file record
// and points at it.
package resource

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tmukana/uongozi/core"
)

var ErrNotFound = errors.New("resource not found")

const (
	resourcesTable = "resources"
	filesTable     = "resource_files"
)

type Resource struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description null.String `json:"description"`
}

type Download struct {
	Resource Resource  `json:"resource"`
	URL      string    `json:"url"`
	Uploaded time.Time `json:"uploaded"`
}

type Service struct {
	qs      core.QueryService
	baseURL string
}

func NewService(qs core.QueryService, storageBaseURL string) *Service {
	return &Service{qs: qs, baseURL: strings.TrimRight(storageBaseURL, "/")}
}

// List returns all active resources, newest first.
func (svc *Service) List(ctx context.Context) ([]Resource, error) {
	recs, err := svc.qs.Select(ctx, core.Query{
		Table:   resourcesTable,
		Filters: []core.Filter{core.Eq("active", true)},
		Order:   &core.DBOrdering{Field: "created_at", Ascending: false},
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}

	resources := make([]Resource, 0, len(recs))
	for _, rec := range recs {
		resources = append(resources, mapResource(rec))
	}
	return resources, nil
}

// ResolveDownload finds the newest file uploaded for an active resource and
// builds its public URL.
func (svc *Service) ResolveDownload(ctx context.Context, slug string) (Download, error) {
	recs, err := svc.qs.Select(ctx, core.Query{
		Table: resourcesTable,
		Filters: []core.Filter{
			core.Eq("slug", slug),
			core.Eq("active", true),
		},
		Limit: 1,
	})
	if err != nil {
		return Download{}, errors.Wrap(err, "querying resource")
	}
	if len(recs) == 0 {
		return Download{}, ErrNotFound
	}
	res := mapResource(recs[0])

	files, err := svc.qs.Select(ctx, core.Query{
		Table:   filesTable,
		Filters: []core.Filter{core.Eq("resource_id", res.ID)},
		Order:   &core.DBOrdering{Field: "created_at", Ascending: false},
		Limit:   1,
	})
	if err != nil {
		return Download{}, errors.Wrap(err, "querying resource files")
	}
	if len(files) == 0 {
		return Download{}, ErrNotFound
	}

	dl := Download{
		Resource: res,
		URL:      svc.baseURL + "/" + strings.TrimLeft(files[0].String("path"), "/"),
	}
	if t, ok := files[0].Time("created_at"); ok {
		dl.Uploaded = t
	}
	return dl, nil
}

func mapResource(rec core.Record) Resource {
	return Resource{
		ID:          rec.String("id"),
		Title:       rec.String("title"),
		Slug:        rec.String("slug"),
		Description: rec.NullString("description"),
	}
}
