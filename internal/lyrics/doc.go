// Package lyrics normalizes raw lyric blobs scraped from lyrics pages.
//
// Scraped text carries page furniture around the actual lyrics: contributor
// counts, "You might also like" teasers, section markers like [Chorus],
// parenthesized background vocals and a metadata header above the first
// verse. [Clean] strips all of it with a fixed heuristic pipeline. It is a
// pure text transform with no failure mode; unrecognized input passes
// through trimmed.
package lyrics
