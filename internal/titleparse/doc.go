// Package titleparse turns free-form movie names into a canonical title and
// release year.
//
// Two conventions are accepted: a parenthesized year anywhere after the title
// ("Naked (1993) [BluRay]") and a trailing bare year ("The Kid 1921"). Inputs
// that match neither, or whose year falls outside the supported range, are
// reported as "no match" rather than guessed. Titles are title-cased so the
// same movie typed in different letter cases maps to one stored key.
package titleparse
