// package services defines the domain types and the client interfaces for
// the two external capabilities the list maker consumes:
//
//   - [UploadSource]: the video platform's channel-uploads listing
//     (YouTube Data API v3)
//   - [Catalog]: the music service's search, album-tracks and playlist
//     endpoints (Spotify Web API)
//
// Both concrete clients are thin, synchronous HTTP wrappers with an
// injectable base URL so tests can point them at httptest servers. A
// non-2xx response from either service wraps [shared.ErrAPIRequest] and is
// treated as fatal by the engine; there is no retry policy.
package services
