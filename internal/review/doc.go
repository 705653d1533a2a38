// package review extracts structured album metadata from free-text video
// descriptions and evaluates filter predicates over the extracted records.
//
// The description format is an informal reviewer convention, not a schema:
// a line shaped like "Artist - Album / Year / Genre1, Genre2" somewhere in
// the text, and a score token like "7/10" elsewhere. Extraction degrades to
// an empty record when a description doesn't follow the convention.
package review
