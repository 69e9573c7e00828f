// Package imagesource supplies image URLs for new tiles.
//
// A [Source] returns the full list of candidate URLs; [Pick] chooses one
// uniformly at random. Two implementations are provided:
//
//   - [Client] fetches a JSON photo list over HTTP. Responses are cached,
//     transient failures are retried with backoff, and concurrent fetches of
//     the same endpoint are collapsed into a single request.
//   - [Static] serves a fixed list, typically from configuration.
//
// Failures surface as structured errors: a source that cannot be reached
// yields IMAGE_SOURCE_UNAVAILABLE, an empty list yields IMAGE_SOURCE_EMPTY.
// Callers never receive a placeholder URL.
package imagesource
