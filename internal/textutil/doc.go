// Package textutil provides the text normalization shared by the registry and
// archive adapters and the match scorer.
//
// The primary use cases are:
//   - Folding titles and names into a comparison key (NormalizeText)
//   - Cleaning free text before it is sent as a search query (NormalizeQuery)
//   - Removing provider highlight placeholders and HTML-like tags from
//     archive payload fields (SanitizeMarkup)
//
// Comparison keys are NFKC folded, so full-width punctuation such as "："
// behaves like its ASCII form, and keep only letters and digits.
package textutil
