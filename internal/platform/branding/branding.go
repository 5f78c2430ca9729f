// Package branding centralizes user-visible product naming.
package branding

// AppName is the user-facing product name.
const AppName = "Atelier Studio"
