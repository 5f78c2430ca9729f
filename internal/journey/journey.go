// Package journey models customer journeys: an ordered list of stages,
// each holding blocks of observations, under one optimistic-lock version.
package journey

import (
	"strings"
	"time"

	"github.com/louisbranch/atelier.studio/internal/block"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

// BlockName identifies one lane of a journey stage.
type BlockName string

const (
	Actions       BlockName = "actions"
	Touchpoints   BlockName = "touchpoints"
	Emotions      BlockName = "emotions"
	PainPoints    BlockName = "pain_points"
	Opportunities BlockName = "opportunities"
)

// BlockNames lists the stage lanes in presentation order.
var BlockNames = []BlockName{Actions, Touchpoints, Emotions, PainPoints, Opportunities}

// ParseBlockName validates a stage lane name.
func ParseBlockName(value string) (BlockName, error) {
	name := BlockName(value)
	for _, known := range BlockNames {
		if name == known {
			return name, nil
		}
	}
	return "", apperrors.WithMetadata(apperrors.CodeBlockUnknownName,
		"unknown journey block", map[string]string{"block": value})
}

// Stage is one column of a customer journey.
type Stage struct {
	ID     string                    `json:"id"`
	Name   string                    `json:"name"`
	Blocks map[BlockName]block.Block `json:"blocks"`
}

// Journey is a customer journey map.
type Journey struct {
	ID        string
	OwnerID   string
	Title     string
	Stages    []Stage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates an empty journey.
func New(id, ownerID, title string, now time.Time) (*Journey, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.New(apperrors.CodeJourneyEmptyTitle, "journey title is required")
	}
	return &Journey{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Stages:    []Stage{},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Rename sets a validated title.
func (j *Journey) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperrors.New(apperrors.CodeJourneyEmptyTitle, "journey title is required")
	}
	j.Title = title
	return nil
}

// AddStage appends a stage with empty lanes.
func (j *Journey) AddStage(stageID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.New(apperrors.CodeJourneyStageEmptyName, "stage name is required")
	}
	blocks := make(map[BlockName]block.Block, len(BlockNames))
	for _, lane := range BlockNames {
		blocks[lane] = block.Block{Items: []block.Item{}}
	}
	j.Stages = append(j.Stages, Stage{ID: stageID, Name: name, Blocks: blocks})
	return nil
}

// RenameStage updates a stage name.
func (j *Journey) RenameStage(stageID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.New(apperrors.CodeJourneyStageEmptyName, "stage name is required")
	}
	idx := j.stageIndex(stageID)
	if idx < 0 {
		return stageNotFound(stageID)
	}
	j.Stages[idx].Name = name
	return nil
}

// RemoveStage deletes a stage and its blocks.
func (j *Journey) RemoveStage(stageID string) error {
	idx := j.stageIndex(stageID)
	if idx < 0 {
		return stageNotFound(stageID)
	}
	j.Stages = append(j.Stages[:idx], j.Stages[idx+1:]...)
	return nil
}

// ReorderStages rearranges stages to match ids, which must be a permutation
// of the current stage ids.
func (j *Journey) ReorderStages(ids []string) error {
	if len(ids) != len(j.Stages) {
		return reorderMismatch()
	}
	byID := make(map[string]Stage, len(j.Stages))
	for _, stage := range j.Stages {
		byID[stage.ID] = stage
	}
	reordered := make([]Stage, 0, len(ids))
	for _, id := range ids {
		stage, ok := byID[id]
		if !ok {
			return reorderMismatch()
		}
		delete(byID, id)
		reordered = append(reordered, stage)
	}
	j.Stages = reordered
	return nil
}

// StageBlock returns a copy of one lane of a stage.
func (j *Journey) StageBlock(stageID string, name BlockName) (*block.Block, error) {
	if _, err := ParseBlockName(string(name)); err != nil {
		return nil, err
	}
	idx := j.stageIndex(stageID)
	if idx < 0 {
		return nil, stageNotFound(stageID)
	}
	b := j.Stages[idx].Blocks[name]
	if b.Items == nil {
		b.Items = []block.Item{}
	}
	return &b, nil
}

// SetStageBlock writes back a mutated lane.
func (j *Journey) SetStageBlock(stageID string, name BlockName, b block.Block) error {
	if _, err := ParseBlockName(string(name)); err != nil {
		return err
	}
	idx := j.stageIndex(stageID)
	if idx < 0 {
		return stageNotFound(stageID)
	}
	if j.Stages[idx].Blocks == nil {
		j.Stages[idx].Blocks = make(map[BlockName]block.Block, len(BlockNames))
	}
	j.Stages[idx].Blocks[name] = b
	return nil
}

// StageIDs returns the stage ids in order.
func (j *Journey) StageIDs() []string {
	ids := make([]string, len(j.Stages))
	for i, stage := range j.Stages {
		ids[i] = stage.ID
	}
	return ids
}

func (j *Journey) stageIndex(stageID string) int {
	for i, stage := range j.Stages {
		if stage.ID == stageID {
			return i
		}
	}
	return -1
}

func stageNotFound(stageID string) error {
	return apperrors.WithMetadata(apperrors.CodeJourneyStageNotFound,
		"stage not found", map[string]string{"stage_id": stageID})
}

func reorderMismatch() error {
	return apperrors.New(apperrors.CodeJourneyBadReorder,
		"reorder ids must be a permutation of current stage ids")
}
