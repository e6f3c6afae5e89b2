// Package phrase provides the localization collaborator used by the element
// renderer when content is a phrase key. Catalogs are loaded from YAML and
// looked up per locale, falling back to the catalog default locale and then
// to a MissingTranslationHandler.
package phrase
