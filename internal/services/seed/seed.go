// Package seed populates a studio database with demo content for local
// development: a business model canvas, a customer profile and value map,
// a journey, a story map, and published site content.
package seed

import (
	"context"
	"fmt"

	"github.com/louisbranch/atelier.studio/internal/studio"
)

// Seed writes the demo dataset through the studio service so every record
// carries telemetry like a real editing session would.
func Seed(ctx context.Context, svc *studio.Service) error {
	if err := seedCanvas(ctx, svc); err != nil {
		return fmt.Errorf("seed canvas: %w", err)
	}
	if err := seedValueProposition(ctx, svc); err != nil {
		return fmt.Errorf("seed value proposition: %w", err)
	}
	if err := seedJourney(ctx, svc); err != nil {
		return fmt.Errorf("seed journey: %w", err)
	}
	if err := seedStoryMap(ctx, svc); err != nil {
		return fmt.Errorf("seed story map: %w", err)
	}
	if err := seedContent(ctx, svc); err != nil {
		return fmt.Errorf("seed content: %w", err)
	}
	return nil
}

// Seeded reports whether the database already holds demo or real data.
func Seeded(ctx context.Context, svc *studio.Service) (bool, error) {
	canvases, err := svc.ListCanvases(ctx)
	if err != nil {
		return false, err
	}
	if len(canvases) > 0 {
		return true, nil
	}
	projects, err := svc.ListProjects(ctx, false)
	if err != nil {
		return false, err
	}
	return len(projects) > 0, nil
}

func seedCanvas(ctx context.Context, svc *studio.Service) error {
	c, err := svc.CreateCanvas(ctx, "Atelier Business Model")
	if err != nil {
		return err
	}
	items := []struct{ block, content, priority string }{
		{"customer_segments", "Collectors of contemporary ceramics", "high"},
		{"customer_segments", "Interior designers sourcing one-off pieces", "medium"},
		{"value_propositions", "Hand-built work with documented provenance", "high"},
		{"channels", "Studio website and open-studio weekends", "medium"},
		{"customer_relationships", "Commission dialogue from sketch to firing", "high"},
		{"revenue_streams", "Direct sales and gallery consignment", "high"},
		{"key_resources", "Wood kiln and glaze library", "high"},
		{"key_activities", "Throwing, glazing, firing", "high"},
		{"key_partners", "Local clay supplier cooperative", "low"},
		{"cost_structure", "Kiln fuel and studio lease", "medium"},
	}
	for _, item := range items {
		if _, err := svc.AddCanvasItem(ctx, c.ID, item.block, item.content, item.priority); err != nil {
			return err
		}
	}
	return nil
}

func seedValueProposition(ctx context.Context, svc *studio.Service) error {
	profile, err := svc.CreateProfile(ctx, "Ceramics Collectors")
	if err != nil {
		return err
	}
	profileItems := []struct{ block, content, priority string }{
		{"jobs", "Find pieces that anchor a room", "high"},
		{"pains", "Shipping damage on fragile work", "high"},
		{"pains", "Uncertain provenance on secondary market", "medium"},
		{"gains", "A relationship with the maker", "medium"},
	}
	for _, item := range profileItems {
		profile, err = svc.AddProfileItem(ctx, profile.ID, item.block, item.content, item.priority)
		if err != nil {
			return err
		}
	}

	vm, err := svc.CreateValueMap(ctx, "Direct Studio Offer", profile.ID)
	if err != nil {
		return err
	}
	mapItems := []struct{ block, content, priority string }{
		{"products_services", "Numbered pieces with firing notes", "high"},
		{"pain_relievers", "Crated, insured delivery", "high"},
		{"gain_creators", "Invitations to kiln openings", "medium"},
	}
	for _, item := range mapItems {
		vm, err = svc.AddValueMapItem(ctx, vm.ID, item.block, item.content, item.priority)
		if err != nil {
			return err
		}
	}

	relieverID := vm.Blocks["pain_relievers"].Items[0].ID
	painID := profile.Blocks["pains"].Items[0].ID
	if _, err := svc.LinkFit(ctx, vm.ID, relieverID, painID); err != nil {
		return err
	}
	return nil
}

func seedJourney(ctx context.Context, svc *studio.Service) error {
	j, err := svc.CreateJourney(ctx, "Commission Intake")
	if err != nil {
		return err
	}
	for _, stage := range []string{"Inquiry", "Sketch Review", "Firing", "Delivery"} {
		j, err = svc.AddJourneyStage(ctx, j.ID, stage)
		if err != nil {
			return err
		}
	}
	inquiry := j.Stages[0].ID
	if _, err := svc.AddJourneyItem(ctx, j.ID, inquiry, "actions", "Client sends reference photos", "medium"); err != nil {
		return err
	}
	if _, err := svc.AddJourneyItem(ctx, j.ID, inquiry, "pain_points", "Unclear pricing expectations", "high"); err != nil {
		return err
	}
	if _, err := svc.AddJourneyItem(ctx, j.ID, inquiry, "opportunities", "Publish a commission price guide", "high"); err != nil {
		return err
	}
	return nil
}

func seedStoryMap(ctx context.Context, svc *studio.Service) error {
	m, err := svc.CreateStoryMap(ctx, "Online Shop")
	if err != nil {
		return err
	}
	m, err = svc.AddStoryMapActivity(ctx, m.ID, "Browse the collection")
	if err != nil {
		return err
	}
	activityID := m.Activities[0].ID
	m, err = svc.AddStoryMapStep(ctx, m.ID, activityID, "View a piece")
	if err != nil {
		return err
	}
	stepID := m.Activities[0].Steps[0].ID
	if _, err := svc.AddStory(ctx, m.ID, stepID, "Show firing notes alongside photos", "high", "v1"); err != nil {
		return err
	}
	if _, err := svc.AddStory(ctx, m.ID, stepID, "Offer a 3D turntable view", "low", "later"); err != nil {
		return err
	}
	return nil
}

func seedContent(ctx context.Context, svc *studio.Service) error {
	project, err := svc.CreateProject(ctx, studio.ProjectInput{
		Slug:    "lamp-series",
		Title:   "Lamp Series",
		Summary: "A year of cast bronze and blown glass lamps.",
		Body:    "Twelve lamps, one per month, each paired with a glaze test tile.",
	})
	if err != nil {
		return err
	}
	if _, err := svc.SetProjectPublished(ctx, project.ID, true); err != nil {
		return err
	}
	if _, err := svc.CreateProject(ctx, studio.ProjectInput{
		Slug:    "vessel-studies",
		Title:   "Vessel Studies",
		Summary: "Work in progress toward the autumn show.",
	}); err != nil {
		return err
	}

	image, err := svc.AddGalleryImage(ctx, studio.GalleryImageInput{
		URL:     "/images/kiln-opening.jpg",
		Caption: "First wood firing of the season",
		AltText: "Glowing kiln interior at cone 10",
	})
	if err != nil {
		return err
	}
	if _, err := svc.SetGalleryImagePublished(ctx, image.ID, true); err != nil {
		return err
	}

	entry, err := svc.CreateLogEntry(ctx, studio.LogEntryInput{
		Title: "Kiln Rebuild Week",
		Body:  "Tore down the arch and replaced the hot-face brick.",
	})
	if err != nil {
		return err
	}
	if _, err := svc.PublishLogEntry(ctx, entry.ID); err != nil {
		return err
	}
	_, err = svc.CreateLogEntry(ctx, studio.LogEntryInput{
		Title: "Glaze Tests, Round Three",
		Body:  "Celadon over iron slip is finally behaving.",
	})
	return err
}
