package admin

import (
	"net/http"

	"github.com/louisbranch/atelier.studio/internal/platform/action"
)

func (a *Admin) actionStoryMapCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.CreateStoryMap(r.Context(), req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryMapList(w http.ResponseWriter, r *http.Request) {
	maps, err := a.svc.ListStoryMaps(r.Context())
	if err != nil {
		action.WriteError(w, err)
		return
	}
	views := make([]storyMapView, 0, len(maps))
	for _, m := range maps {
		views = append(views, newStoryMapView(m))
	}
	action.WriteOK(w, views)
}

func (a *Admin) actionStoryMapGet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID string `json:"map_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.GetStoryMap(r.Context(), req.MapID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryMapRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID string `json:"map_id"`
		Title string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.RenameStoryMap(r.Context(), req.MapID, req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryMapDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID string `json:"map_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.svc.DeleteStoryMap(r.Context(), req.MapID); err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, map[string]string{"deleted": req.MapID})
}

func (a *Admin) actionStoryMapActivityAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID string `json:"map_id"`
		Title string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.AddStoryMapActivity(r.Context(), req.MapID, req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryMapActivityRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID      string `json:"map_id"`
		ActivityID string `json:"activity_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.RemoveStoryMapActivity(r.Context(), req.MapID, req.ActivityID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryMapStepAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID      string `json:"map_id"`
		ActivityID string `json:"activity_id"`
		Title      string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.AddStoryMapStep(r.Context(), req.MapID, req.ActivityID, req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryMapStepRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID  string `json:"map_id"`
		StepID string `json:"step_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.RemoveStoryMapStep(r.Context(), req.MapID, req.StepID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryMapStepReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID      string   `json:"map_id"`
		ActivityID string   `json:"activity_id"`
		IDs        []string `json:"ids"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.ReorderStoryMapSteps(r.Context(), req.MapID, req.ActivityID, req.IDs)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID    string `json:"map_id"`
		StepID   string `json:"step_id"`
		Title    string `json:"title"`
		Priority string `json:"priority"`
		Release  string `json:"release"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.AddStory(r.Context(), req.MapID, req.StepID, req.Title, req.Priority, req.Release)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID    string `json:"map_id"`
		StoryID  string `json:"story_id"`
		Title    string `json:"title"`
		Priority string `json:"priority"`
		Release  string `json:"release"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.UpdateStory(r.Context(), req.MapID, req.StoryID, req.Title, req.Priority, req.Release)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID   string `json:"map_id"`
		StoryID string `json:"story_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.RemoveStory(r.Context(), req.MapID, req.StoryID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID  string   `json:"map_id"`
		StepID string   `json:"step_id"`
		IDs    []string `json:"ids"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.ReorderStories(r.Context(), req.MapID, req.StepID, req.IDs)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}

func (a *Admin) actionStoryMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID   string `json:"map_id"`
		StoryID string `json:"story_id"`
		StepID  string `json:"step_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.MoveStory(r.Context(), req.MapID, req.StoryID, req.StepID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newStoryMapView(m))
}
