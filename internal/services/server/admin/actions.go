package admin

import (
	"encoding/json"
	"net/http"

	"github.com/louisbranch/atelier.studio/internal/audit"
	"github.com/louisbranch/atelier.studio/internal/designtokens"
	"github.com/louisbranch/atelier.studio/internal/platform/action"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// registerActions mounts the JSON endpoints the editor UI calls. Every
// action is a POST behind the session check and answers with the tagged
// result envelope.
func (a *Admin) registerActions(mux *http.ServeMux) {
	post := func(pattern string, handler http.HandlerFunc) {
		mux.HandleFunc("POST /admin/actions/"+pattern, a.requireSession(handler))
	}

	post("canvas/create", a.actionCanvasCreate)
	post("canvas/list", a.actionCanvasList)
	post("canvas/get", a.actionCanvasGet)
	post("canvas/rename", a.actionCanvasRename)
	post("canvas/delete", a.actionCanvasDelete)
	post("canvas/item/add", a.actionCanvasItemAdd)
	post("canvas/item/update", a.actionCanvasItemUpdate)
	post("canvas/item/remove", a.actionCanvasItemRemove)
	post("canvas/block/reorder", a.actionCanvasBlockReorder)

	post("profile/create", a.actionProfileCreate)
	post("profile/list", a.actionProfileList)
	post("profile/get", a.actionProfileGet)
	post("profile/rename", a.actionProfileRename)
	post("profile/delete", a.actionProfileDelete)
	post("profile/item/add", a.actionProfileItemAdd)
	post("profile/item/update", a.actionProfileItemUpdate)
	post("profile/item/remove", a.actionProfileItemRemove)
	post("profile/block/reorder", a.actionProfileBlockReorder)

	post("valuemap/create", a.actionValueMapCreate)
	post("valuemap/list", a.actionValueMapList)
	post("valuemap/get", a.actionValueMapGet)
	post("valuemap/rename", a.actionValueMapRename)
	post("valuemap/delete", a.actionValueMapDelete)
	post("valuemap/item/add", a.actionValueMapItemAdd)
	post("valuemap/item/update", a.actionValueMapItemUpdate)
	post("valuemap/item/remove", a.actionValueMapItemRemove)
	post("valuemap/block/reorder", a.actionValueMapBlockReorder)
	post("valuemap/link", a.actionValueMapLink)
	post("valuemap/unlink", a.actionValueMapUnlink)
	post("valuemap/fit", a.actionValueMapFit)

	post("journey/create", a.actionJourneyCreate)
	post("journey/list", a.actionJourneyList)
	post("journey/get", a.actionJourneyGet)
	post("journey/rename", a.actionJourneyRename)
	post("journey/delete", a.actionJourneyDelete)
	post("journey/stage/add", a.actionJourneyStageAdd)
	post("journey/stage/rename", a.actionJourneyStageRename)
	post("journey/stage/remove", a.actionJourneyStageRemove)
	post("journey/stage/reorder", a.actionJourneyStageReorder)
	post("journey/item/add", a.actionJourneyItemAdd)
	post("journey/item/update", a.actionJourneyItemUpdate)
	post("journey/item/remove", a.actionJourneyItemRemove)
	post("journey/lane/reorder", a.actionJourneyLaneReorder)

	post("storymap/create", a.actionStoryMapCreate)
	post("storymap/list", a.actionStoryMapList)
	post("storymap/get", a.actionStoryMapGet)
	post("storymap/rename", a.actionStoryMapRename)
	post("storymap/delete", a.actionStoryMapDelete)
	post("storymap/activity/add", a.actionStoryMapActivityAdd)
	post("storymap/activity/remove", a.actionStoryMapActivityRemove)
	post("storymap/step/add", a.actionStoryMapStepAdd)
	post("storymap/step/remove", a.actionStoryMapStepRemove)
	post("storymap/step/reorder", a.actionStoryMapStepReorder)
	post("storymap/story/add", a.actionStoryAdd)
	post("storymap/story/update", a.actionStoryUpdate)
	post("storymap/story/remove", a.actionStoryRemove)
	post("storymap/story/reorder", a.actionStoryReorder)
	post("storymap/story/move", a.actionStoryMove)

	post("project/create", a.actionProjectCreate)
	post("project/list", a.actionProjectList)
	post("project/update", a.actionProjectUpdate)
	post("project/publish", a.actionProjectPublish)
	post("project/delete", a.actionProjectDelete)
	post("gallery/add", a.actionGalleryAdd)
	post("gallery/list", a.actionGalleryList)
	post("gallery/update", a.actionGalleryUpdate)
	post("gallery/publish", a.actionGalleryPublish)
	post("gallery/delete", a.actionGalleryDelete)
	post("log/create", a.actionLogCreate)
	post("log/list", a.actionLogList)
	post("log/update", a.actionLogUpdate)
	post("log/publish", a.actionLogPublish)
	post("log/unpublish", a.actionLogUnpublish)

	post("designtokens/generate", a.actionDesignTokens)
	post("audit/run", a.actionAuditRun)
	post("activity", a.actionActivity)
}

// decode reads the JSON body into dst, answering the envelope error itself.
func (a *Admin) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		action.WriteError(w, apperrors.Wrap(apperrors.CodePayloadInvalid, "request body is not valid JSON", err))
		return false
	}
	return true
}

func (a *Admin) actionActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit int `json:"limit"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	events, err := a.svc.Activity(r.Context(), req.Limit)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	feed := make([]feedEvent, 0, len(events))
	for _, evt := range events {
		feed = append(feed, feedEvent{
			Seq:        evt.Seq,
			Actor:      evt.Actor,
			Event:      evt.EventName,
			EntityType: evt.EntityType,
			EntityID:   evt.EntityID,
			Summary:    evt.Summary,
			Timestamp:  evt.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	action.WriteOK(w, feed)
}

func (a *Admin) actionDesignTokens(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		BaseColor    string  `json:"base_color"`
		Steps        int     `json:"steps"`
		BaseSpacing  float64 `json:"base_spacing"`
		BaseFontSize float64 `json:"base_font_size"`
		TypeRatio    float64 `json:"type_ratio"`
		Format       string  `json:"format"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	set, err := designtokens.Generate(designtokens.Options{
		Name:         req.Name,
		BaseColor:    req.BaseColor,
		Steps:        req.Steps,
		BaseSpacing:  req.BaseSpacing,
		BaseFontSize: req.BaseFontSize,
		TypeRatio:    req.TypeRatio,
	})
	if err != nil {
		action.WriteError(w, err)
		return
	}
	if req.Format == "css" {
		action.WriteOK(w, map[string]string{"css": set.CSS()})
		return
	}
	action.WriteOK(w, set)
}

func (a *Admin) actionAuditRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Script string `json:"script"`
		Runs   int    `json:"runs"`
		Seed   int64  `json:"seed"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	report, err := audit.Run(req.Script, req.Runs, req.Seed)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, report)
}
