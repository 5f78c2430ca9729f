package admin

import (
	"net/http"

	"github.com/louisbranch/atelier.studio/internal/platform/action"
)

func (a *Admin) actionJourneyCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.CreateJourney(r.Context(), req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}

func (a *Admin) actionJourneyList(w http.ResponseWriter, r *http.Request) {
	journeys, err := a.svc.ListJourneys(r.Context())
	if err != nil {
		action.WriteError(w, err)
		return
	}
	views := make([]journeyView, 0, len(journeys))
	for _, j := range journeys {
		views = append(views, newJourneyView(j))
	}
	action.WriteOK(w, views)
}

func (a *Admin) actionJourneyGet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string `json:"journey_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.GetJourney(r.Context(), req.JourneyID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}

func (a *Admin) actionJourneyRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string `json:"journey_id"`
		Title     string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.RenameJourney(r.Context(), req.JourneyID, req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}

func (a *Admin) actionJourneyDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string `json:"journey_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.svc.DeleteJourney(r.Context(), req.JourneyID); err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, map[string]string{"deleted": req.JourneyID})
}

func (a *Admin) actionJourneyStageAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string `json:"journey_id"`
		Name      string `json:"name"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.AddJourneyStage(r.Context(), req.JourneyID, req.Name)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}

func (a *Admin) actionJourneyStageRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string `json:"journey_id"`
		StageID   string `json:"stage_id"`
		Name      string `json:"name"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.RenameJourneyStage(r.Context(), req.JourneyID, req.StageID, req.Name)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}

func (a *Admin) actionJourneyStageRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string `json:"journey_id"`
		StageID   string `json:"stage_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.RemoveJourneyStage(r.Context(), req.JourneyID, req.StageID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}

func (a *Admin) actionJourneyStageReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string   `json:"journey_id"`
		IDs       []string `json:"ids"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.ReorderJourneyStages(r.Context(), req.JourneyID, req.IDs)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}

func (a *Admin) actionJourneyItemAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string `json:"journey_id"`
		StageID   string `json:"stage_id"`
		Lane      string `json:"lane"`
		Content   string `json:"content"`
		Priority  string `json:"priority"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.AddJourneyItem(r.Context(), req.JourneyID, req.StageID, req.Lane, req.Content, req.Priority)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}

func (a *Admin) actionJourneyItemUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string `json:"journey_id"`
		StageID   string `json:"stage_id"`
		Lane      string `json:"lane"`
		ItemID    string `json:"item_id"`
		Content   string `json:"content"`
		Priority  string `json:"priority"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.UpdateJourneyItem(r.Context(), req.JourneyID, req.StageID, req.Lane, req.ItemID, req.Content, req.Priority)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}

func (a *Admin) actionJourneyItemRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string `json:"journey_id"`
		StageID   string `json:"stage_id"`
		Lane      string `json:"lane"`
		ItemID    string `json:"item_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.RemoveJourneyItem(r.Context(), req.JourneyID, req.StageID, req.Lane, req.ItemID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}

func (a *Admin) actionJourneyLaneReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JourneyID string   `json:"journey_id"`
		StageID   string   `json:"stage_id"`
		Lane      string   `json:"lane"`
		IDs       []string `json:"ids"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	j, err := a.svc.ReorderJourneyLane(r.Context(), req.JourneyID, req.StageID, req.Lane, req.IDs)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newJourneyView(j))
}
