// Package errors provides structured error handling with stable machine codes.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Cross-cutting result codes surfaced to action callers.
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeAccessDenied Code = "ACCESS_DENIED"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeDatabase     Code = "DATABASE_ERROR"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"

	// Block errors
	CodeBlockUnknownName       Code = "BLOCK_UNKNOWN_NAME"
	CodeBlockItemEmptyContent  Code = "BLOCK_ITEM_EMPTY_CONTENT"
	CodeBlockItemContentTooBig Code = "BLOCK_ITEM_CONTENT_TOO_BIG"
	CodeBlockItemBadPriority   Code = "BLOCK_ITEM_INVALID_PRIORITY"
	CodeBlockItemDuplicateID   Code = "BLOCK_ITEM_DUPLICATE_ID"
	CodeBlockItemNotFound      Code = "BLOCK_ITEM_NOT_FOUND"
	CodeBlockBadReorder        Code = "BLOCK_REORDER_NOT_PERMUTATION"

	// Canvas errors
	CodeCanvasEmptyTitle Code = "CANVAS_EMPTY_TITLE"

	// Value proposition errors
	CodeProfileEmptyTitle    Code = "PROFILE_EMPTY_TITLE"
	CodeValueMapEmptyTitle   Code = "VALUE_MAP_EMPTY_TITLE"
	CodeValueMapBadProfile   Code = "VALUE_MAP_PROFILE_MISSING"
	CodeFitLinkUnknownItem   Code = "FIT_LINK_UNKNOWN_ITEM"
	CodeFitLinkUnknownSource Code = "FIT_LINK_UNKNOWN_SOURCE"

	// Journey errors
	CodeJourneyEmptyTitle     Code = "JOURNEY_EMPTY_TITLE"
	CodeJourneyStageEmptyName Code = "JOURNEY_STAGE_EMPTY_NAME"
	CodeJourneyStageNotFound  Code = "JOURNEY_STAGE_NOT_FOUND"
	CodeJourneyBadReorder     Code = "JOURNEY_REORDER_NOT_PERMUTATION"

	// Story map errors
	CodeStoryMapEmptyTitle    Code = "STORY_MAP_EMPTY_TITLE"
	CodeStoryMapCardEmpty     Code = "STORY_MAP_CARD_EMPTY_TITLE"
	CodeStoryMapCardNotFound  Code = "STORY_MAP_CARD_NOT_FOUND"
	CodeStoryMapBadRelease    Code = "STORY_MAP_INVALID_RELEASE"
	CodeStoryMapBadPriority   Code = "STORY_MAP_INVALID_PRIORITY"
	CodeStoryMapBadReorder    Code = "STORY_MAP_REORDER_NOT_PERMUTATION"

	// Content errors
	CodeContentEmptyTitle   Code = "CONTENT_EMPTY_TITLE"
	CodeContentInvalidSlug  Code = "CONTENT_INVALID_SLUG"
	CodeContentSlugTaken    Code = "CONTENT_SLUG_TAKEN"
	CodeGalleryEmptyAltText Code = "GALLERY_EMPTY_ALT_TEXT"

	// Proxy API errors
	CodeTableNotAllowed  Code = "TABLE_NOT_ALLOWED"
	CodeFieldNotAllowed  Code = "FIELD_NOT_ALLOWED"
	CodeFilterInvalid    Code = "FILTER_INVALID"
	CodePayloadInvalid   Code = "PAYLOAD_INVALID"
	CodePageTokenInvalid Code = "PAGE_TOKEN_INVALID"

	// Audit harness errors
	CodeAuditScriptInvalid  Code = "AUDIT_SCRIPT_INVALID"
	CodeAuditRunsOutOfRange Code = "AUDIT_RUNS_OUT_OF_RANGE"

	// Design token errors
	CodeTokensInvalidColor Code = "TOKENS_INVALID_COLOR"
	CodeTokensInvalidSteps Code = "TOKENS_INVALID_STEPS"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeValidation,
		CodeBlockUnknownName,
		CodeBlockItemEmptyContent,
		CodeBlockItemContentTooBig,
		CodeBlockItemBadPriority,
		CodeBlockItemDuplicateID,
		CodeBlockBadReorder,
		CodeCanvasEmptyTitle,
		CodeProfileEmptyTitle,
		CodeValueMapEmptyTitle,
		CodeValueMapBadProfile,
		CodeFitLinkUnknownItem,
		CodeFitLinkUnknownSource,
		CodeJourneyEmptyTitle,
		CodeJourneyStageEmptyName,
		CodeJourneyBadReorder,
		CodeStoryMapEmptyTitle,
		CodeStoryMapCardEmpty,
		CodeStoryMapBadRelease,
		CodeStoryMapBadPriority,
		CodeStoryMapBadReorder,
		CodeContentEmptyTitle,
		CodeContentInvalidSlug,
		CodeGalleryEmptyAltText,
		CodeTableNotAllowed,
		CodeFieldNotAllowed,
		CodeFilterInvalid,
		CodePayloadInvalid,
		CodePageTokenInvalid,
		CodeAuditScriptInvalid,
		CodeAuditRunsOutOfRange,
		CodeTokensInvalidColor,
		CodeTokensInvalidSteps:
		return http.StatusBadRequest

	// Auth failures
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeAccessDenied:
		return http.StatusForbidden

	// Missing resources
	case CodeNotFound,
		CodeBlockItemNotFound,
		CodeJourneyStageNotFound,
		CodeStoryMapCardNotFound:
		return http.StatusNotFound

	// Stale writes
	case CodeConflict,
		CodeContentSlugTaken:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// ResultCode collapses a domain code to the coarse taxonomy reported in
// action result envelopes.
func (c Code) ResultCode() Code {
	switch c.HTTPStatus() {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeAccessDenied
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	default:
		return CodeDatabase
	}
}
