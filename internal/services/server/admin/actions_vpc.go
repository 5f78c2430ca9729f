package admin

import (
	"net/http"

	"github.com/louisbranch/atelier.studio/internal/platform/action"
)

func (a *Admin) actionProfileCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.svc.CreateProfile(r.Context(), req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newProfileView(p))
}

func (a *Admin) actionProfileList(w http.ResponseWriter, r *http.Request) {
	profiles, err := a.svc.ListProfiles(r.Context())
	if err != nil {
		action.WriteError(w, err)
		return
	}
	views := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, newProfileView(p))
	}
	action.WriteOK(w, views)
}

func (a *Admin) actionProfileGet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profile_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.svc.GetProfile(r.Context(), req.ProfileID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newProfileView(p))
}

func (a *Admin) actionProfileRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profile_id"`
		Title     string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.svc.RenameProfile(r.Context(), req.ProfileID, req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newProfileView(p))
}

func (a *Admin) actionProfileDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profile_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.svc.DeleteProfile(r.Context(), req.ProfileID); err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, map[string]string{"deleted": req.ProfileID})
}

func (a *Admin) actionProfileItemAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profile_id"`
		Block     string `json:"block"`
		Content   string `json:"content"`
		Priority  string `json:"priority"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.svc.AddProfileItem(r.Context(), req.ProfileID, req.Block, req.Content, req.Priority)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newProfileView(p))
}

func (a *Admin) actionProfileItemUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profile_id"`
		Block     string `json:"block"`
		ItemID    string `json:"item_id"`
		Content   string `json:"content"`
		Priority  string `json:"priority"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.svc.UpdateProfileItem(r.Context(), req.ProfileID, req.Block, req.ItemID, req.Content, req.Priority)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newProfileView(p))
}

func (a *Admin) actionProfileItemRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profile_id"`
		Block     string `json:"block"`
		ItemID    string `json:"item_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.svc.RemoveProfileItem(r.Context(), req.ProfileID, req.Block, req.ItemID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newProfileView(p))
}

func (a *Admin) actionProfileBlockReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string   `json:"profile_id"`
		Block     string   `json:"block"`
		IDs       []string `json:"ids"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.svc.ReorderProfileBlock(r.Context(), req.ProfileID, req.Block, req.IDs)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newProfileView(p))
}

func (a *Admin) actionValueMapCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		ProfileID string `json:"profile_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.CreateValueMap(r.Context(), req.Title, req.ProfileID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newValueMapView(m))
}

func (a *Admin) actionValueMapList(w http.ResponseWriter, r *http.Request) {
	maps, err := a.svc.ListValueMaps(r.Context())
	if err != nil {
		action.WriteError(w, err)
		return
	}
	views := make([]valueMapView, 0, len(maps))
	for _, m := range maps {
		views = append(views, newValueMapView(m))
	}
	action.WriteOK(w, views)
}

func (a *Admin) actionValueMapGet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID string `json:"map_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.GetValueMap(r.Context(), req.MapID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newValueMapView(m))
}

func (a *Admin) actionValueMapRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID string `json:"map_id"`
		Title string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.RenameValueMap(r.Context(), req.MapID, req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newValueMapView(m))
}

func (a *Admin) actionValueMapDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID string `json:"map_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.svc.DeleteValueMap(r.Context(), req.MapID); err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, map[string]string{"deleted": req.MapID})
}

func (a *Admin) actionValueMapItemAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID    string `json:"map_id"`
		Block    string `json:"block"`
		Content  string `json:"content"`
		Priority string `json:"priority"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.AddValueMapItem(r.Context(), req.MapID, req.Block, req.Content, req.Priority)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newValueMapView(m))
}

func (a *Admin) actionValueMapItemUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID    string `json:"map_id"`
		Block    string `json:"block"`
		ItemID   string `json:"item_id"`
		Content  string `json:"content"`
		Priority string `json:"priority"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.UpdateValueMapItem(r.Context(), req.MapID, req.Block, req.ItemID, req.Content, req.Priority)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newValueMapView(m))
}

func (a *Admin) actionValueMapItemRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID  string `json:"map_id"`
		Block  string `json:"block"`
		ItemID string `json:"item_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.RemoveValueMapItem(r.Context(), req.MapID, req.Block, req.ItemID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newValueMapView(m))
}

func (a *Admin) actionValueMapBlockReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID string   `json:"map_id"`
		Block string   `json:"block"`
		IDs   []string `json:"ids"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.ReorderValueMapBlock(r.Context(), req.MapID, req.Block, req.IDs)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newValueMapView(m))
}

func (a *Admin) actionValueMapLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID    string `json:"map_id"`
		SourceID string `json:"source_id"`
		TargetID string `json:"target_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.LinkFit(r.Context(), req.MapID, req.SourceID, req.TargetID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newValueMapView(m))
}

func (a *Admin) actionValueMapUnlink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID    string `json:"map_id"`
		SourceID string `json:"source_id"`
		TargetID string `json:"target_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	m, err := a.svc.UnlinkFit(r.Context(), req.MapID, req.SourceID, req.TargetID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newValueMapView(m))
}

func (a *Admin) actionValueMapFit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID string `json:"map_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	report, err := a.svc.FitReport(r.Context(), req.MapID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, report)
}
