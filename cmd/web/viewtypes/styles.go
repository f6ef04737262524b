package viewtypes

// ============================================================================
// SHARED CSS CLASS CONSTANTS
// Class names repeated across template files. Fragment components keep their
// own one-off classes; only the shared ones live here.
// ============================================================================

// PageHeading is the main h1 heading style for top-level pages.
var PageHeading = "page-heading"

// SubHeading is for secondary headings (h2 level) within pages.
var SubHeading = "sub-heading"

// PrimaryButton is the filled call-to-action button.
var PrimaryButton = "btn btn-primary"

// GhostButton is the outlined secondary button.
var GhostButton = "btn btn-ghost"

// InputClass is the standard text input styling.
var InputClass = "form-input"

// InfoBoxClass is the standard info/detail panel container.
var InfoBoxClass = "info-box"
