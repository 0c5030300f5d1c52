// Package genre defines the closed genre taxonomy used by the local catalog
// and maps free-text registry genre tokens onto it.
//
// Registry payloads carry compound, inconsistently spelled genre strings
// ("멜로/로맨스", "공포(호러)", "Sci-Fi"). Map splits them into atomic tokens
// and resolves each through a direct match, the science-fiction synonyms,
// and a static alias table. Unresolvable tokens are dropped.
package genre
