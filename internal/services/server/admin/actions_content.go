package admin

import (
	"net/http"

	"github.com/louisbranch/atelier.studio/internal/platform/action"
	"github.com/louisbranch/atelier.studio/internal/studio"
)

func (a *Admin) actionProjectCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug      string `json:"slug"`
		Title     string `json:"title"`
		Summary   string `json:"summary"`
		Body      string `json:"body"`
		SortOrder int    `json:"sort_order"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.svc.CreateProject(r.Context(), studio.ProjectInput{
		Slug:      req.Slug,
		Title:     req.Title,
		Summary:   req.Summary,
		Body:      req.Body,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newProjectView(p))
}

func (a *Admin) actionProjectList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PublishedOnly bool `json:"published_only"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	projects, err := a.svc.ListProjects(r.Context(), req.PublishedOnly)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, newProjectView(p))
	}
	action.WriteOK(w, views)
}

func (a *Admin) actionProjectUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID string `json:"project_id"`
		Slug      string `json:"slug"`
		Title     string `json:"title"`
		Summary   string `json:"summary"`
		Body      string `json:"body"`
		SortOrder int    `json:"sort_order"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.svc.UpdateProject(r.Context(), req.ProjectID, studio.ProjectInput{
		Slug:      req.Slug,
		Title:     req.Title,
		Summary:   req.Summary,
		Body:      req.Body,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newProjectView(p))
}

func (a *Admin) actionProjectPublish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID string `json:"project_id"`
		Published bool   `json:"published"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.svc.SetProjectPublished(r.Context(), req.ProjectID, req.Published)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newProjectView(p))
}

func (a *Admin) actionProjectDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID string `json:"project_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.svc.DeleteProject(r.Context(), req.ProjectID); err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, map[string]string{"deleted": req.ProjectID})
}

func (a *Admin) actionGalleryAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL       string `json:"url"`
		Caption   string `json:"caption"`
		AltText   string `json:"alt_text"`
		SortOrder int    `json:"sort_order"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	img, err := a.svc.AddGalleryImage(r.Context(), studio.GalleryImageInput{
		URL:       req.URL,
		Caption:   req.Caption,
		AltText:   req.AltText,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newImageView(img))
}

func (a *Admin) actionGalleryList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PublishedOnly bool `json:"published_only"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	images, err := a.svc.ListGalleryImages(r.Context(), req.PublishedOnly)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	views := make([]imageView, 0, len(images))
	for _, img := range images {
		views = append(views, newImageView(img))
	}
	action.WriteOK(w, views)
}

func (a *Admin) actionGalleryUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageID   string `json:"image_id"`
		URL       string `json:"url"`
		Caption   string `json:"caption"`
		AltText   string `json:"alt_text"`
		SortOrder int    `json:"sort_order"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	img, err := a.svc.UpdateGalleryImage(r.Context(), req.ImageID, studio.GalleryImageInput{
		URL:       req.URL,
		Caption:   req.Caption,
		AltText:   req.AltText,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newImageView(img))
}

func (a *Admin) actionGalleryPublish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageID   string `json:"image_id"`
		Published bool   `json:"published"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	img, err := a.svc.SetGalleryImagePublished(r.Context(), req.ImageID, req.Published)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newImageView(img))
}

func (a *Admin) actionGalleryDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageID string `json:"image_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.svc.DeleteGalleryImage(r.Context(), req.ImageID); err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, map[string]string{"deleted": req.ImageID})
}

func (a *Admin) actionLogCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug  string `json:"slug"`
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	entry, err := a.svc.CreateLogEntry(r.Context(), studio.LogEntryInput{
		Slug:  req.Slug,
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newEntryView(entry))
}

func (a *Admin) actionLogList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PublishedOnly bool `json:"published_only"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	entries, err := a.svc.ListLogEntries(r.Context(), req.PublishedOnly)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, newEntryView(entry))
	}
	action.WriteOK(w, views)
}

func (a *Admin) actionLogUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryID string `json:"entry_id"`
		Slug    string `json:"slug"`
		Title   string `json:"title"`
		Body    string `json:"body"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	entry, err := a.svc.UpdateLogEntry(r.Context(), req.EntryID, studio.LogEntryInput{
		Slug:  req.Slug,
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newEntryView(entry))
}

func (a *Admin) actionLogPublish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryID string `json:"entry_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	entry, err := a.svc.PublishLogEntry(r.Context(), req.EntryID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newEntryView(entry))
}

func (a *Admin) actionLogUnpublish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryID string `json:"entry_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	entry, err := a.svc.UnpublishLogEntry(r.Context(), req.EntryID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newEntryView(entry))
}
