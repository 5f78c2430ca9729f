package admin

import (
	"net/http"

	"github.com/louisbranch/atelier.studio/internal/platform/action"
)

func (a *Admin) actionCanvasCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.svc.CreateCanvas(r.Context(), req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newCanvasView(c))
}

func (a *Admin) actionCanvasList(w http.ResponseWriter, r *http.Request) {
	canvases, err := a.svc.ListCanvases(r.Context())
	if err != nil {
		action.WriteError(w, err)
		return
	}
	views := make([]canvasView, 0, len(canvases))
	for _, c := range canvases {
		views = append(views, newCanvasView(c))
	}
	action.WriteOK(w, views)
}

func (a *Admin) actionCanvasGet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CanvasID string `json:"canvas_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.svc.GetCanvas(r.Context(), req.CanvasID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newCanvasView(c))
}

func (a *Admin) actionCanvasRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CanvasID string `json:"canvas_id"`
		Title    string `json:"title"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.svc.RenameCanvas(r.Context(), req.CanvasID, req.Title)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newCanvasView(c))
}

func (a *Admin) actionCanvasDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CanvasID string `json:"canvas_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.svc.DeleteCanvas(r.Context(), req.CanvasID); err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, map[string]string{"deleted": req.CanvasID})
}

func (a *Admin) actionCanvasItemAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CanvasID string `json:"canvas_id"`
		Block    string `json:"block"`
		Content  string `json:"content"`
		Priority string `json:"priority"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.svc.AddCanvasItem(r.Context(), req.CanvasID, req.Block, req.Content, req.Priority)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newCanvasView(c))
}

func (a *Admin) actionCanvasItemUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CanvasID string `json:"canvas_id"`
		Block    string `json:"block"`
		ItemID   string `json:"item_id"`
		Content  string `json:"content"`
		Priority string `json:"priority"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.svc.UpdateCanvasItem(r.Context(), req.CanvasID, req.Block, req.ItemID, req.Content, req.Priority)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newCanvasView(c))
}

func (a *Admin) actionCanvasItemRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CanvasID string `json:"canvas_id"`
		Block    string `json:"block"`
		ItemID   string `json:"item_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.svc.RemoveCanvasItem(r.Context(), req.CanvasID, req.Block, req.ItemID)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newCanvasView(c))
}

func (a *Admin) actionCanvasBlockReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CanvasID string   `json:"canvas_id"`
		Block    string   `json:"block"`
		IDs      []string `json:"ids"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.svc.ReorderCanvasBlock(r.Context(), req.CanvasID, req.Block, req.IDs)
	if err != nil {
		action.WriteError(w, err)
		return
	}
	action.WriteOK(w, newCanvasView(c))
}
